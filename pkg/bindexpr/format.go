package bindexpr

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// formatSpec is a parsed `[[fill]align][sign][#][0][width][,|_][.precision][type]`.
type formatSpec struct {
	fill      rune
	align     byte
	sign      byte
	alt       bool
	width     int
	grouping  byte
	precision int
	verb      byte
}

func parseSpec(spec string) (formatSpec, error) {
	fs := formatSpec{fill: ' ', precision: -1}
	s := spec
	isAlign := func(b byte) bool { return b == '<' || b == '>' || b == '^' || b == '=' }
	if r, size := utf8.DecodeRuneInString(s); size > 0 && size < len(s) && isAlign(s[size]) {
		fs.fill, fs.align = r, s[size]
		s = s[size+1:]
	} else if len(s) > 0 && isAlign(s[0]) {
		fs.align = s[0]
		s = s[1:]
	}
	if len(s) > 0 && (s[0] == '+' || s[0] == '-' || s[0] == ' ') {
		fs.sign = s[0]
		s = s[1:]
	}
	if len(s) > 0 && s[0] == '#' {
		fs.alt = true
		s = s[1:]
	}
	if len(s) > 0 && s[0] == '0' {
		if fs.align == 0 {
			fs.fill, fs.align = '0', '='
		}
		s = s[1:]
	}
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	if n > 0 {
		fs.width, _ = strconv.Atoi(s[:n])
		s = s[n:]
	}
	if len(s) > 0 && (s[0] == ',' || s[0] == '_') {
		fs.grouping = s[0]
		s = s[1:]
	}
	if len(s) > 0 && s[0] == '.' {
		n = 1
		for n < len(s) && s[n] >= '0' && s[n] <= '9' {
			n++
		}
		if n == 1 {
			return fs, fmt.Errorf("format spec %q: missing precision", spec)
		}
		fs.precision, _ = strconv.Atoi(s[1:n])
		s = s[n:]
	}
	if len(s) == 1 && strings.IndexByte("bdeEfFgGosxX%", s[0]) >= 0 {
		fs.verb = s[0]
		s = s[1:]
	}
	if s != "" {
		return fs, fmt.Errorf("invalid format spec %q", spec)
	}
	return fs, nil
}

// Locale selects the thousands separator used by the ',' option.
var Locale = language.English

// Format renders v according to a format spec such as ",.2f", ">8", "05d"
// or ".1%".
func Format(v any, spec string) (string, error) {
	fs, err := parseSpec(spec)
	if err != nil {
		return "", err
	}
	body, numeric, err := fs.render(v)
	if err != nil {
		return "", err
	}
	return fs.pad(body, numeric), nil
}

func (fs formatSpec) render(v any) (string, bool, error) {
	switch fs.verb {
	case 's':
		return fs.truncate(display(v)), false, nil
	case 0:
		switch x := v.(type) {
		case int64:
			return fs.integer(x, 10, false), true, nil
		case float64:
			if fs.precision >= 0 {
				return fs.float(x, 'g'), true, nil
			}
			return fs.float(x, 0), true, nil
		}
		return fs.truncate(display(v)), false, nil
	case 'd', 'b', 'o', 'x', 'X':
		i, ok := asInteger(v)
		if !ok {
			return "", false, fmt.Errorf("format %q needs an integer, got %T", string(fs.verb), v)
		}
		base := map[byte]int{'d': 10, 'b': 2, 'o': 8, 'x': 16, 'X': 16}[fs.verb]
		return fs.integer(i, base, fs.verb == 'X'), true, nil
	default:
		f, ok := asFloat(v)
		if !ok {
			return "", false, fmt.Errorf("format %q needs a number, got %T", string(fs.verb), v)
		}
		if fs.verb == '%' {
			return fs.float(f*100, 'f') + "%", true, nil
		}
		return fs.float(f, fs.verb), true, nil
	}
}

func (fs formatSpec) truncate(s string) string {
	if fs.precision >= 0 && utf8.RuneCountInString(s) > fs.precision {
		return string([]rune(s)[:fs.precision])
	}
	return s
}

func (fs formatSpec) integer(i int64, base int, upper bool) string {
	neg := i < 0
	// The magnitude is taken in uint64 so math.MinInt64 does not overflow.
	mag := uint64(i)
	if neg {
		mag = -mag
	}
	digits := strconv.FormatUint(mag, base)
	if upper {
		digits = strings.ToUpper(digits)
	}
	if fs.grouping != 0 && base == 10 {
		digits = fs.group(digits, mag)
	}
	if fs.alt {
		switch base {
		case 2:
			digits = "0b" + digits
		case 8:
			digits = "0o" + digits
		case 16:
			if upper {
				digits = "0X" + digits
			} else {
				digits = "0x" + digits
			}
		}
	}
	return fs.signed(neg, digits)
}

// float formats f. verb 0 is the shortest round-tripping form.
func (fs formatSpec) float(f float64, verb byte) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 0):
		return fs.signed(f < 0, "inf")
	}
	neg := math.Signbit(f) && f != 0
	f = math.Abs(f)
	prec := fs.precision
	var digits string
	switch verb {
	case 0:
		digits = strconv.FormatFloat(f, 'g', -1, 64)
	case 'F':
		verb = 'f'
		fallthrough
	default:
		if prec < 0 {
			prec = 6
		}
		digits = strconv.FormatFloat(f, verb, prec, 64)
	}
	if fs.grouping != 0 && !strings.ContainsAny(digits, "eE") {
		intPart, frac, hasFrac := strings.Cut(digits, ".")
		if n, err := strconv.ParseUint(intPart, 10, 64); err == nil {
			intPart = fs.group(intPart, n)
		}
		digits = intPart
		if hasFrac {
			digits += "." + frac
		}
	}
	return fs.signed(neg, digits)
}

// group inserts thousands separators into the decimal digits of n.
func (fs formatSpec) group(digits string, n uint64) string {
	if fs.grouping == ',' {
		return message.NewPrinter(Locale).Sprintf("%v", n)
	}
	var b strings.Builder
	for i, c := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('_')
		}
		b.WriteRune(c)
	}
	return b.String()
}

func (fs formatSpec) signed(neg bool, digits string) string {
	switch {
	case neg:
		return "-" + digits
	case fs.sign == '+':
		return "+" + digits
	case fs.sign == ' ':
		return " " + digits
	}
	return digits
}

// pad applies width, fill and alignment. Numbers align right by default,
// everything else left.
func (fs formatSpec) pad(s string, numeric bool) string {
	n := utf8.RuneCountInString(s)
	if n >= fs.width {
		return s
	}
	fill := strings.Repeat(string(fs.fill), fs.width-n)
	align := fs.align
	if align == 0 {
		align = '<'
		if numeric {
			align = '>'
		}
	}
	switch align {
	case '>':
		return fill + s
	case '^':
		half := (fs.width - n) / 2
		return fill[:half*len(string(fs.fill))] + s + fill[half*len(string(fs.fill)):]
	case '=':
		if numeric && len(s) > 0 && strings.IndexByte("+- ", s[0]) >= 0 {
			return s[:1] + fill + s[1:]
		}
		return fill + s
	}
	return s + fill
}

func asInteger(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case float64:
		if x == math.Trunc(x) && !math.IsInf(x, 0) {
			return int64(x), true
		}
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}
