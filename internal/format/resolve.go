package format

import "strings"

// Fielder is implemented by values whose named fields can be addressed
// from a template.
type Fielder interface {
	Field(name string) (any, bool)
}

// Resolve follows path from obj, dereferencing one field name per step,
// and returns the value found at the end. It fails with ErrFieldNotFound
// if any step is missing or lands on a value that has no fields.
func Resolve(obj Fielder, path ...string) (any, error) {
	if len(path) == 0 {
		return nil, &Error{Kind: ErrFieldNotFound, Detail: "empty path"}
	}
	var cur any = obj
	for i, name := range path {
		f, ok := cur.(Fielder)
		if !ok {
			return nil, &Error{Kind: ErrFieldNotFound, Token: strings.Join(path[:i+1], ".")}
		}
		next, ok := f.Field(name)
		if !ok {
			return nil, &Error{Kind: ErrFieldNotFound, Token: strings.Join(path[:i+1], ".")}
		}
		cur = next
	}
	return cur, nil
}

// ResolveDotted is Resolve for a dotted path such as "current.distance".
func ResolveDotted(obj Fielder, dotted string) (any, error) {
	if dotted == "" {
		return Resolve(obj)
	}
	return Resolve(obj, strings.Split(dotted, ".")...)
}
