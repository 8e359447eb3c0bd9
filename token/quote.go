package token

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// NeedsQuote reports whether v, appearing as a free value, must be
// surrounded by double quotes. delim is the active delimiter: when it
// is not the comma, a comma is an ordinary payload character.
func NeedsQuote(v string, delim Delimiter) bool {
	if v == "" {
		return true
	}
	switch v {
	case "true", "false", "null":
		return true
	}
	if Number(v) || LeadingZero(v) {
		return true
	}
	if strings.ContainsAny(v, "[{") {
		return true
	}
	if v == "-" {
		return true
	}
	if v[0] == '-' && isSpaceByte(v[1]) {
		return true
	}
	if strings.ContainsAny(v, "\n\r\t\\\"") {
		return true
	}
	if strings.TrimSpace(v) != v {
		return true
	}
	for _, r := range v {
		if !safeRune(r, delim) {
			return true
		}
	}
	return false
}

// NeedsQuoteInArray is the stricter array-element predicate: the
// active delimiter and the colon are structural there.
func NeedsQuoteInArray(v string, delim Delimiter) bool {
	if NeedsQuote(v, delim) {
		return true
	}
	if strings.ContainsRune(v, delim.Rune()) {
		return true
	}
	return strings.ContainsRune(v, ':')
}

// NeedsQuoteKey reports whether v must be quoted to serve as an
// object key.
func NeedsQuoteKey(v string) bool {
	if v == "" {
		return true
	}
	if allDigits(v) {
		return true
	}
	if strings.ContainsRune(v, '-') {
		return true
	}
	for i := 0; i < len(v); i++ {
		if !bareKeyByte(v[i]) {
			return true
		}
	}
	return strings.ContainsAny(v, ":, []{}\n\t\r\"")
}

// safeRune is the safe character class for bare values: letters,
// digits, underscore, whitespace, and code points at or above U+0080.
// The comma joins the class when it is not the active delimiter.
func safeRune(r rune, delim Delimiter) bool {
	if r >= 0x80 {
		return true
	}
	if r == '_' {
		return true
	}
	if r == ',' {
		return delim != Comma
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r)
}

func isSpaceByte(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}

func allDigits(v string) bool {
	for i := 0; i < len(v); i++ {
		if !asciiDigit(v[i]) {
			return false
		}
	}
	return true
}

// IsIdent reports whether v is an identifier-safe dotted-path part:
// a letter or underscore followed by word characters. Key folding
// joins only such parts, and path expansion splits only such keys.
func IsIdent(v string) bool {
	if v == "" {
		return false
	}
	for i := 0; i < len(v); i++ {
		c := v[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// Quote surrounds v with double quotes, escaping the backslash, the
// double quote, and the three control characters of the escape table.
func Quote(v string) string {
	d := make([]byte, 1, len(v)+2)
	d[0] = '"'
	for _, r := range v {
		switch r {
		case '\\':
			d = append(d, '\\', '\\')
		case '"':
			d = append(d, '\\', '"')
		case '\n':
			d = append(d, '\\', 'n')
		case '\r':
			d = append(d, '\\', 'r')
		case '\t':
			d = append(d, '\\', 't')
		default:
			d = utf8.AppendRune(d, r)
		}
	}
	d = append(d, '"')
	return string(d)
}

// Unquote strips the surrounding double quotes from v and unescapes
// the interior.
func Unquote(v string) (string, error) {
	if len(v) < 2 || v[0] != '"' || v[len(v)-1] != '"' {
		return "", ErrUnterminated
	}
	return Unescape(v[1 : len(v)-1])
}

// Unescape inverts the escape mapping. A backslash followed by
// anything outside n, r, t, the double quote, and the backslash
// itself is an invalid escape sequence.
func Unescape(v string) (string, error) {
	if !strings.ContainsRune(v, '\\') {
		return v, nil
	}
	b := &strings.Builder{}
	b.Grow(len(v))
	i := 0
	for i < len(v) {
		c := v[i]
		if c != '\\' {
			b.WriteByte(c)
			i++
			continue
		}
		if i+1 == len(v) {
			return "", ErrBadEscape
		}
		i++
		switch v[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '"':
			b.WriteByte('"')
		case '\\':
			b.WriteByte('\\')
		default:
			return "", ErrBadEscape
		}
		i++
	}
	return b.String(), nil
}
