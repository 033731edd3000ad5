package format

import (
	"fmt"
	"sort"
)

// Path names an aggregate of a snapshot and one of its fields.
type Path struct {
	Aggregate string
	Field     string
}

func (p Path) String() string { return p.Aggregate + "." + p.Field }

var tokenTable = []struct {
	token string
	path  Path
}{
	{"CD", Path{"current", "distance"}},
	{"CC", Path{"current", "count"}},
	{"CT", Path{"current", "time"}},
	{"CP", Path{"current", "pace"}},
	{"CN", Path{"current", "name"}},
	{"CA", Path{"current", "date"}},
	{"YD", Path{"period", "distance"}},
	{"YC", Path{"period", "count"}},
	{"YT", Path{"period", "time"}},
	{"YP", Path{"period", "pace"}},
	{"YN", Path{"period", "name"}},
	{"YA", Path{"period", "date"}},
	{"AD", Path{"alltime", "distance"}},
	{"AC", Path{"alltime", "count"}},
	{"AT", Path{"alltime", "time"}},
	{"AP", Path{"alltime", "pace"}},
	{"AN", Path{"alltime", "name"}},
	{"AA", Path{"alltime", "date"}},
}

// spec maps placeholder tokens to snapshot paths. It is built once and
// only read afterwards.
var spec = buildSpec()

func buildSpec() map[string]Path {
	m := make(map[string]Path, len(tokenTable))
	for _, e := range tokenTable {
		if _, dup := m[e.token]; dup {
			panic(fmt.Sprintf("format: duplicate token %q", e.token))
		}
		m[e.token] = e.path
	}
	return m
}

// Lookup returns the path a token refers to.
func Lookup(token string) (Path, bool) {
	p, ok := spec[token]
	return p, ok
}

// Tokens returns all known placeholder tokens in sorted order.
func Tokens() []string {
	out := make([]string, 0, len(spec))
	for t := range spec {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
