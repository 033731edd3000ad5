package format

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/joshuadavidthomas/stravabar/internal/models"
)

// lookupFunc returns the value a placeholder token stands for.
type lookupFunc func(token string) (any, error)

// expand walks template, copying literal text and replacing each
// {token} or {token:spec} placeholder. "{{" and "}}" are literal braces.
func expand(template string, lookup lookupFunc) (string, error) {
	var b strings.Builder
	b.Grow(len(template))

	for i := 0; i < len(template); i++ {
		c := template[i]
		switch c {
		case '{':
			if i+1 < len(template) && template[i+1] == '{' {
				b.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(template[i+1:], '}')
			if end < 0 {
				return "", syntaxError("", "unclosed '{'")
			}
			field := template[i+1 : i+1+end]
			if strings.IndexByte(field, '{') >= 0 {
				return "", syntaxError(field, "nested '{'")
			}
			token, spec, _ := strings.Cut(field, ":")
			if token == "" {
				return "", syntaxError(field, "empty placeholder")
			}
			if lookup != nil {
				v, err := lookup(token)
				if err != nil {
					return "", err
				}
				text, err := formatValue(token, v, spec)
				if err != nil {
					return "", err
				}
				b.WriteString(text)
			}
			i += end + 1
		case '}':
			if i+1 < len(template) && template[i+1] == '}' {
				b.WriteByte('}')
				i++
				continue
			}
			return "", syntaxError("", "single '}'")
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

// Expand fills the placeholders of template from snap. A nil snapshot
// (nothing fetched yet) expands to the empty string.
func Expand(template string, snap *models.ActivitySnapshot) (string, error) {
	if snap == nil {
		return "", nil
	}
	return expand(template, func(token string) (any, error) {
		p, ok := Lookup(token)
		if !ok {
			return nil, &Error{Kind: ErrFieldNotFound, Token: token, Detail: "unknown token"}
		}
		return Resolve(snap, p.Aggregate, p.Field)
	})
}

// Validate checks template syntax and that every placeholder names a
// known token, without needing any data.
func Validate(template string) error {
	_, err := Expand(template, &models.ActivitySnapshot{})
	return err
}

// Render is Expand with the fallback applied: errors are logged and
// replaced by Fallback so callers always get printable text.
func Render(l *log.Logger, template string, snap *models.ActivitySnapshot) string {
	text, err := Expand(template, snap)
	if err != nil {
		if l != nil {
			l.Warn("formatting widget text", "template", template, "err", err)
		}
		return Fallback
	}
	return text
}
