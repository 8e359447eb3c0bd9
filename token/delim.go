package token

import "fmt"

// Delimiter is the active separator inside bracket headers and array
// rows. The delimiter is announced in the header when it is not the
// comma default.
type Delimiter byte

const (
	Comma Delimiter = ','
	Tab   Delimiter = '\t'
	Pipe  Delimiter = '|'
)

func ParseDelimiter(v string) (Delimiter, error) {
	d, ok := map[string]Delimiter{
		",":     Comma,
		"comma": Comma,
		"\t":    Tab,
		"tab":   Tab,
		"|":     Pipe,
		"pipe":  Pipe,
	}[v]
	if ok {
		return d, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrDelimiter, v)
}

func (d Delimiter) Valid() bool {
	switch d {
	case Comma, Tab, Pipe:
		return true
	default:
		return false
	}
}

func (d Delimiter) Rune() rune {
	return rune(d)
}

func (d Delimiter) String() string {
	switch d {
	case Comma:
		return ","
	case Tab:
		return "\t"
	case Pipe:
		return "|"
	default:
		return fmt.Sprintf("<err: %d is not a delimiter>", byte(d))
	}
}

func (d Delimiter) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrDelimiter, byte(d))
	}
	return []byte(d.String()), nil
}

func (d *Delimiter) UnmarshalText(b []byte) error {
	dd, err := ParseDelimiter(string(b))
	if err != nil {
		return err
	}
	*d = dd
	return nil
}
