package format

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/lestrrat-go/strftime"
	"github.com/mattn/go-runewidth"

	"github.com/joshuadavidthomas/stravabar/internal/models"
)

// fieldSpec is a parsed standard format spec:
//
//	[[fill]align][sign][0][width][,][.precision][type]
type fieldSpec struct {
	fill      rune
	align     byte
	sign      byte
	zero      bool
	width     int
	comma     bool
	precision int
	verb      byte
}

// Bounds on width and precision. Anything larger cannot fit a status
// bar and would only exhaust memory.
const (
	maxWidth     = 1000
	maxPrecision = 100
)

func isAlign(r rune) bool { return r == '<' || r == '>' || r == '^' || r == '=' }

func parseSpec(token, s string) (fieldSpec, error) {
	fs := fieldSpec{fill: ' ', precision: -1}
	if s == "" {
		return fs, nil
	}

	first, n := utf8.DecodeRuneInString(s)
	if len(s) > n {
		if second, m := utf8.DecodeRuneInString(s[n:]); isAlign(second) {
			fs.fill, fs.align = first, byte(second)
			s = s[n+m:]
		} else if isAlign(first) {
			fs.align = byte(first)
			s = s[n:]
		}
	} else if isAlign(first) {
		fs.align = byte(first)
		s = s[n:]
	}

	if s != "" && (s[0] == '+' || s[0] == '-' || s[0] == ' ') {
		fs.sign = s[0]
		s = s[1:]
	}
	if s != "" && s[0] == '0' {
		fs.zero = true
		s = s[1:]
	}

	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i > 0 {
		n, err := strconv.Atoi(s[:i])
		if err != nil || n > maxWidth {
			return fs, syntaxError(token, "width too large")
		}
		fs.width = n
		s = s[i:]
	}
	if s != "" && s[0] == ',' {
		fs.comma = true
		s = s[1:]
	}
	if s != "" && s[0] == '.' {
		s = s[1:]
		i = 0
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == 0 {
			return fs, syntaxError(token, "missing precision")
		}
		n, err := strconv.Atoi(s[:i])
		if err != nil || n > maxPrecision {
			return fs, syntaxError(token, "precision too large")
		}
		fs.precision = n
		s = s[i:]
	}
	if s != "" {
		if len(s) > 1 || !strings.ContainsRune("dfFeEgGs%", rune(s[0])) {
			return fs, syntaxError(token, "invalid format spec")
		}
		fs.verb = s[0]
	}
	return fs, nil
}

// formatValue renders v according to spec. time.Time values take a
// strftime pattern; everything else takes a standard format spec.
func formatValue(token string, v any, spec string) (string, error) {
	switch val := v.(type) {
	case time.Time:
		return formatTime(token, val, spec)
	case time.Duration:
		return formatString(token, models.FormatClock(val), spec)
	case string:
		return formatString(token, val, spec)
	case int:
		return formatInt(token, int64(val), spec)
	case int64:
		return formatInt(token, val, spec)
	case float64:
		return formatFloat(token, val, spec)
	}
	return "", formatError(token, "unsupported value type")
}

func formatTime(token string, t time.Time, spec string) (string, error) {
	if spec == "" {
		return t.Format(time.DateTime), nil
	}
	out, err := strftime.Format(spec, t)
	if err != nil {
		return "", syntaxError(token, err.Error())
	}
	return out, nil
}

func formatString(token, s, spec string) (string, error) {
	fs, err := parseSpec(token, spec)
	if err != nil {
		return "", err
	}
	if fs.verb != 0 && fs.verb != 's' {
		return "", formatError(token, "numeric format on text")
	}
	if fs.sign != 0 || fs.comma || fs.zero || fs.align == '=' {
		return "", formatError(token, "sign, grouping or zero padding on text")
	}
	if fs.precision >= 0 {
		s = runewidth.Truncate(s, fs.precision, "")
	}
	return pad(s, fs, '<'), nil
}

func formatInt(token string, n int64, spec string) (string, error) {
	fs, err := parseSpec(token, spec)
	if err != nil {
		return "", err
	}
	switch fs.verb {
	case 0, 'd':
	case 's':
		return "", formatError(token, "text format on number")
	default:
		return formatFloatSpec(token, float64(n), fs)
	}
	if fs.precision >= 0 {
		return "", formatError(token, "precision on integer")
	}

	neg := n < 0
	var digits string
	if fs.comma {
		digits = humanize.Comma(n)
		digits = strings.TrimPrefix(digits, "-")
	} else {
		digits = strconv.FormatInt(n, 10)
		digits = strings.TrimPrefix(digits, "-")
	}
	return padNumber(signPrefix(neg, fs.sign), digits, fs), nil
}

func formatFloat(token string, f float64, spec string) (string, error) {
	fs, err := parseSpec(token, spec)
	if err != nil {
		return "", err
	}
	if fs.verb == 'd' || fs.verb == 's' {
		return "", formatError(token, "integer or text format on float")
	}
	return formatFloatSpec(token, f, fs)
}

func formatFloatSpec(token string, f float64, fs fieldSpec) (string, error) {
	if fs.comma && fs.verb != 0 && fs.verb != 'f' && fs.verb != 'F' {
		return "", formatError(token, "grouping only applies to fixed-point")
	}

	// -0.0 keeps its sign, as Python's format does.
	neg := math.Signbit(f)
	abs := math.Abs(f)
	prec := fs.precision

	var body string
	switch fs.verb {
	case 'f', 'F':
		if prec < 0 {
			prec = 6
		}
		body = strconv.FormatFloat(abs, 'f', prec, 64)
	case 'e', 'E':
		if prec < 0 {
			prec = 6
		}
		body = strconv.FormatFloat(abs, byte(fs.verb), prec, 64)
	case 'g', 'G':
		if prec < 0 {
			prec = 6
		}
		if prec == 0 {
			prec = 1
		}
		body = strconv.FormatFloat(abs, byte(fs.verb), prec, 64)
	case '%':
		if prec < 0 {
			prec = 6
		}
		body = strconv.FormatFloat(abs*100, 'f', prec, 64) + "%"
	default:
		if prec >= 0 {
			if prec == 0 {
				prec = 1
			}
			body = strconv.FormatFloat(abs, 'g', prec, 64)
		} else {
			body = strconv.FormatFloat(abs, 'g', -1, 64)
			if !strings.ContainsAny(body, ".eIN") {
				body += ".0"
			}
		}
	}

	if fs.comma {
		body = groupThousands(body)
	}
	return padNumber(signPrefix(neg, fs.sign), body, fs), nil
}

// groupThousands inserts separators into the integer part of a
// fixed-point number.
func groupThousands(body string) string {
	intPart, frac, hasFrac := strings.Cut(body, ".")
	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return body
	}
	grouped := humanize.Comma(n)
	if hasFrac {
		return grouped + "." + frac
	}
	return grouped
}

func signPrefix(neg bool, sign byte) string {
	switch {
	case neg:
		return "-"
	case sign == '+':
		return "+"
	case sign == ' ':
		return " "
	}
	return ""
}

func padNumber(sign, digits string, fs fieldSpec) string {
	if fs.zero && fs.align == 0 {
		fs.fill, fs.align = '0', '='
	}
	if fs.align == '=' {
		gap := fs.width - runewidth.StringWidth(sign+digits)
		if gap > 0 {
			return sign + strings.Repeat(string(fs.fill), gap) + digits
		}
		return sign + digits
	}
	return pad(sign+digits, fs, '>')
}

// pad aligns s within fs.width display cells. def is the alignment used
// when the spec does not name one.
func pad(s string, fs fieldSpec, def byte) string {
	gap := fs.width - runewidth.StringWidth(s)
	if gap <= 0 {
		return s
	}
	align := fs.align
	if align == 0 {
		align = def
	}
	fill := string(fs.fill)
	switch align {
	case '>':
		return strings.Repeat(fill, gap) + s
	case '^':
		left := gap / 2
		return strings.Repeat(fill, left) + s + strings.Repeat(fill, gap-left)
	default:
		return s + strings.Repeat(fill, gap)
	}
}
