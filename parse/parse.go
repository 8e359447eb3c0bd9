// Package parse provides TOON decoding support.
package parse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/toon-format/toon-go/ir"
	"github.com/toon-format/toon-go/token"
)

// Parse decodes a TOON document into a value tree. The document is
// parsed whole; any failure aborts with an *Error carrying a 1-based
// line number.
func Parse(d []byte, opts ...ParseOption) (*ir.Node, error) {
	pOpts := &parseOpts{indent: 2}
	for _, f := range opts {
		f(pOpts)
	}
	lines := strings.Split(string(d), "\n")
	for i, ln := range lines {
		lines[i] = strings.TrimSuffix(ln, "\r")
	}
	p := &parser{lines: lines, opts: pOpts}
	if pOpts.strict {
		if err := p.checkIndents(); err != nil {
			return nil, err
		}
	}
	root, err := p.parseRoot()
	if err != nil {
		return nil, err
	}
	if pOpts.expand == PathsSafe && root.Type == ir.ObjectType {
		root, err = expandNode(root, pOpts.strict)
		if err != nil {
			return nil, err
		}
	}
	return root, nil
}

type parser struct {
	lines []string
	opts  *parseOpts
}

func indentOf(line string) int {
	i := 0
	for i < len(line) && line[i] == ' ' {
		i++
	}
	return i
}

func blank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// next returns the index of the first non-blank line at or after i.
func (p *parser) next(i int) int {
	for i < len(p.lines) && blank(p.lines[i]) {
		i++
	}
	return i
}

// nextContent is next plus the index of the first blank line skipped,
// -1 when none were or when only the document tail remained.
func (p *parser) nextContent(i int) (int, int) {
	firstBlank := -1
	for i < len(p.lines) && blank(p.lines[i]) {
		if firstBlank < 0 {
			firstBlank = i
		}
		i++
	}
	if i == len(p.lines) {
		firstBlank = -1
	}
	return i, firstBlank
}

func (p *parser) checkIndents() error {
	for i, ln := range p.lines {
		if blank(ln) {
			continue
		}
		j := 0
		for j < len(ln) {
			if ln[j] == ' ' {
				j++
				continue
			}
			if ln[j] == '\t' {
				return errAtf(i+1, "%w: tab in indentation", ErrBadIndent)
			}
			break
		}
		if p.opts.indent > 0 && j%p.opts.indent != 0 {
			return errAtf(i+1, "%w: indent %d not a multiple of %d",
				ErrBadIndent, j, p.opts.indent)
		}
	}
	return nil
}

func (p *parser) parseRoot() (*ir.Node, error) {
	first := p.next(0)
	if first == len(p.lines) {
		return &ir.Node{Type: ir.ObjectType}, nil
	}
	line := p.lines[first]
	trimmed := strings.TrimSpace(line)
	hIndent := indentOf(line)
	if trimmed[0] == '[' {
		arr, next, err := p.parseArray(trimmed, first, hIndent)
		if err != nil {
			return nil, err
		}
		if err := p.checkTrailing(next); err != nil {
			return nil, err
		}
		return arr, nil
	}
	if p.next(first+1) == len(p.lines) {
		if !strings.ContainsRune(trimmed, ':') || completeQuoted(trimmed) {
			return parsePrimitive(trimmed, first+1)
		}
	} else if p.opts.strict && p.allBareRoot(first) {
		return nil, errAt(ErrMultipleRoots, first+1)
	}
	obj, next, err := p.parseLines(first, hIndent)
	if err != nil {
		return nil, err
	}
	if err := p.checkTrailing(next); err != nil {
		return nil, err
	}
	return obj, nil
}

func (p *parser) allBareRoot(first int) bool {
	for j := first; j < len(p.lines); j++ {
		if blank(p.lines[j]) {
			continue
		}
		t := strings.TrimSpace(p.lines[j])
		if strings.ContainsRune(t, ':') || t[0] == '[' {
			return false
		}
	}
	return true
}

func (p *parser) checkTrailing(next int) error {
	j := p.next(next)
	if j < len(p.lines) {
		return errAtf(j+1, "%w: unexpected content", ErrParse)
	}
	return nil
}

func completeQuoted(v string) bool {
	if v == "" || v[0] != '"' {
		return false
	}
	_, rest, quoted, err := token.ParseKey(v)
	return err == nil && quoted && rest == ""
}

// parseLines parses an object whose fields sit at exactly baseIndent,
// starting at line start. It returns the object and the index of the
// first unconsumed line.
func (p *parser) parseLines(start, baseIndent int) (*ir.Node, int, error) {
	obj := &ir.Node{Type: ir.ObjectType}
	next, err := p.parseLinesInto(obj, start, baseIndent)
	return obj, next, err
}

func (p *parser) parseLinesInto(obj *ir.Node, start, baseIndent int) (int, error) {
	i := start
	for {
		j := p.next(i)
		if j == len(p.lines) {
			return j, nil
		}
		ind := indentOf(p.lines[j])
		if ind < baseIndent {
			return j, nil
		}
		if ind > baseIndent {
			return 0, errAtf(j+1, "%w: unexpected indentation", ErrParse)
		}
		next, err := p.parseFieldInto(obj, strings.TrimSpace(p.lines[j]), j, baseIndent)
		if err != nil {
			return 0, err
		}
		i = next
	}
}

// parseFieldInto parses one key plus its value starting on line li and
// adds the pair to obj. fieldIndent is the indentation the field
// logically sits at; nested block values must lie deeper than it.
func (p *parser) parseFieldInto(obj *ir.Node, content string, li, fieldIndent int) (int, error) {
	key, rest, quoted, err := token.ParseKey(content)
	if err != nil {
		return 0, errAt(fmt.Errorf("%w: %w", ErrParse, err), li+1)
	}
	field := &ir.Node{Type: ir.StringType, String: key, Quoted: quoted, Line: li + 1}
	var (
		val  *ir.Node
		next int
	)
	switch {
	case strings.HasPrefix(rest, "["):
		val, next, err = p.parseArray(rest, li, fieldIndent)
		if err != nil {
			return 0, err
		}
	case strings.HasPrefix(rest, ":"):
		tail := strings.TrimSpace(rest[1:])
		if tail != "" {
			val, err = parsePrimitive(tail, li+1)
			if err != nil {
				return 0, err
			}
			next = li + 1
		} else {
			j := p.next(li + 1)
			if j < len(p.lines) && indentOf(p.lines[j]) > fieldIndent {
				val, next, err = p.parseLines(j, indentOf(p.lines[j]))
				if err != nil {
					return 0, err
				}
			} else {
				val = &ir.Node{Type: ir.ObjectType}
				next = li + 1
			}
		}
	default:
		return 0, errAtf(li+1, "%w after key %q", ErrMissingColon, key)
	}
	return next, p.addField(obj, field, val)
}

func (p *parser) addField(obj *ir.Node, field, val *ir.Node) error {
	for i := range obj.Fields {
		if obj.Fields[i].String == field.String {
			if p.opts.strict {
				return errAtf(field.Line, "%w: %q", ErrDuplicateKey, field.String)
			}
			// last occurrence wins, first-occurrence order kept
			obj.Fields[i] = field
			obj.Values[i] = val
			return nil
		}
	}
	obj.Fields = append(obj.Fields, field)
	obj.Values = append(obj.Values, val)
	return nil
}

type headerField struct {
	name   string
	quoted bool
}

type arrayHeader struct {
	count   int
	delim   token.Delimiter
	fields  []headerField
	tabular bool
	tail    string
	line    int
}

// parseArrayHeader reads a bracket header starting at hdr[0] == '['.
func parseArrayHeader(hdr string, li int) (*arrayHeader, error) {
	i := 1
	j := i
	for j < len(hdr) && hdr[j] >= '0' && hdr[j] <= '9' {
		j++
	}
	if j == i {
		return nil, errAtf(li+1, "%w: missing count", ErrInvalidHeader)
	}
	count, err := strconv.Atoi(hdr[i:j])
	if err != nil {
		return nil, errAtf(li+1, "%w: bad count (%w)", ErrInvalidHeader, err)
	}
	h := &arrayHeader{count: count, delim: token.Comma, line: li + 1}
	if j < len(hdr) {
		switch hdr[j] {
		case ',', '\t', '|':
			h.delim = token.Delimiter(hdr[j])
			j++
		}
	}
	if j >= len(hdr) || hdr[j] != ']' {
		return nil, errAtf(li+1, "%w: missing ]", ErrInvalidHeader)
	}
	j++
	if j < len(hdr) && hdr[j] == '{' {
		end := closeBrace(hdr, j+1)
		if end < 0 {
			return nil, errAtf(li+1, "%w: missing }", ErrInvalidHeader)
		}
		for _, f := range token.SplitDelimiter(hdr[j+1:end], h.delim) {
			hf := headerField{name: f}
			if strings.HasPrefix(f, `"`) {
				name, err := token.Unquote(f)
				if err != nil {
					return nil, errAt(err, li+1)
				}
				hf = headerField{name: name, quoted: true}
			} else if f == "" {
				return nil, errAtf(li+1, "%w: empty field", ErrInvalidHeader)
			}
			h.fields = append(h.fields, hf)
		}
		h.tabular = true
		j = end + 1
	}
	if j >= len(hdr) || hdr[j] != ':' {
		return nil, errAtf(li+1, "%w: missing colon", ErrInvalidHeader)
	}
	h.tail = hdr[j+1:]
	return h, nil
}

// closeBrace finds the index of the closing '}' from i, skipping
// quoted sections.
func closeBrace(hdr string, i int) int {
	inQuotes := false
	escaped := false
	for ; i < len(hdr); i++ {
		c := hdr[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '"':
			inQuotes = !inQuotes
		case c == '}' && !inQuotes:
			return i
		}
	}
	return -1
}

// parseArray parses an array whose bracket header begins hdr, sitting
// on line li at indentation hIndent. It dispatches to the inline,
// tabular, or multi-line sub-parser and returns the first unconsumed
// line.
func (p *parser) parseArray(hdr string, li, hIndent int) (*ir.Node, int, error) {
	h, err := parseArrayHeader(hdr, li)
	if err != nil {
		return nil, 0, err
	}
	arr := &ir.Node{Type: ir.ArrayType}
	tail := strings.TrimSpace(h.tail)
	switch {
	case h.tabular:
		if tail != "" {
			return nil, 0, errAtf(li+1, "%w: values on tabular header line", ErrInvalidHeader)
		}
		next, err := p.parseTabular(arr, h, li, hIndent)
		return arr, next, err
	case tail != "":
		vals := token.SplitDelimiter(tail, h.delim)
		if len(vals) != h.count {
			return nil, 0, errAtf(li+1, "%w: expected %d, got %d",
				ErrCountMismatch, h.count, len(vals))
		}
		for _, v := range vals {
			el, err := parsePrimitive(v, li+1)
			if err != nil {
				return nil, 0, err
			}
			arr.Values = append(arr.Values, el)
		}
		return arr, li + 1, nil
	default:
		next, err := p.parseMultiline(arr, h, li, hIndent)
		return arr, next, err
	}
}

// parseMultiline handles the bare `key[N]:` header. The next deeper
// line decides between list format and one primitive per line.
func (p *parser) parseMultiline(arr *ir.Node, h *arrayHeader, li, hIndent int) (int, error) {
	j := p.next(li + 1)
	if j == len(p.lines) || indentOf(p.lines[j]) <= hIndent {
		if h.count != 0 {
			return 0, errAtf(li+1, "%w: expected %d, got 0", ErrCountMismatch, h.count)
		}
		return li + 1, nil
	}
	itemIndent := indentOf(p.lines[j])
	content := strings.TrimSpace(p.lines[j])
	if content == "-" || strings.HasPrefix(content, "- ") {
		return p.parseListItems(arr, h, j, itemIndent, li)
	}
	return p.parseLinePrimitives(arr, h, j, itemIndent, li)
}

func (p *parser) parseLinePrimitives(arr *ir.Node, h *arrayHeader, start, itemIndent, li int) (int, error) {
	i := start
	read := 0
	for {
		j, firstBlank := p.nextContent(i)
		if j == len(p.lines) || indentOf(p.lines[j]) < itemIndent {
			i = j
			break
		}
		if p.opts.strict && firstBlank >= 0 && read > 0 && read < h.count {
			return 0, errAt(ErrBlankLine, firstBlank+1)
		}
		if read == h.count {
			return 0, errAt(ErrExtraRows, j+1)
		}
		if indentOf(p.lines[j]) > itemIndent {
			return 0, errAtf(j+1, "%w: unexpected indentation", ErrParse)
		}
		el, err := parsePrimitive(strings.TrimSpace(p.lines[j]), j+1)
		if err != nil {
			return 0, err
		}
		arr.Values = append(arr.Values, el)
		read++
		i = j + 1
	}
	if read != h.count {
		return 0, errAtf(li+1, "%w: expected %d, got %d", ErrCountMismatch, h.count, read)
	}
	return i, nil
}

func (p *parser) parseListItems(arr *ir.Node, h *arrayHeader, start, itemIndent, li int) (int, error) {
	i := start
	read := 0
	for {
		j, firstBlank := p.nextContent(i)
		if j == len(p.lines) || indentOf(p.lines[j]) < itemIndent {
			i = j
			break
		}
		if p.opts.strict && firstBlank >= 0 && read > 0 && read < h.count {
			return 0, errAt(ErrBlankLine, firstBlank+1)
		}
		if read == h.count {
			return 0, errAt(ErrExtraRows, j+1)
		}
		if indentOf(p.lines[j]) > itemIndent {
			return 0, errAtf(j+1, "%w: unexpected indentation", ErrParse)
		}
		el, next, err := p.parseListItem(j, itemIndent)
		if err != nil {
			return 0, err
		}
		arr.Values = append(arr.Values, el)
		read++
		i = next
	}
	if read != h.count {
		return 0, errAtf(li+1, "%w: expected %d, got %d", ErrCountMismatch, h.count, read)
	}
	return i, nil
}

// parseListItem parses one hyphen-prefixed item. The content after the
// marker is an empty object, a nested array header, an object whose
// first field sits on the marker line, or a primitive.
func (p *parser) parseListItem(j, itemIndent int) (*ir.Node, int, error) {
	trimmed := strings.TrimSpace(p.lines[j])
	var content string
	switch {
	case trimmed == "-":
		content = ""
	case strings.HasPrefix(trimmed, "- "):
		content = strings.TrimSpace(trimmed[2:])
	default:
		return nil, 0, errAtf(j+1, "%w: expected list item", ErrParse)
	}
	switch {
	case content == "":
		return &ir.Node{Type: ir.ObjectType}, j + 1, nil
	case content[0] == '[':
		return p.parseArray(content, j, itemIndent)
	case itemObject(content):
		return p.parseItemObject(content, j, itemIndent)
	default:
		el, err := parsePrimitive(content, j+1)
		return el, j + 1, err
	}
}

// itemObject decides whether the text after a list marker opens an
// object field. A parseable key followed by ':' or '[' does; anything
// else is a primitive.
func itemObject(content string) bool {
	_, rest, _, err := token.ParseKey(content)
	if err != nil {
		return false
	}
	return strings.HasPrefix(rest, ":") || strings.HasPrefix(rest, "[")
}

// parseItemObject parses an object item. The first field lies on the
// marker line at an effective indent two columns past the marker;
// additional fields follow on deeper lines.
func (p *parser) parseItemObject(content string, j, itemIndent int) (*ir.Node, int, error) {
	obj := &ir.Node{Type: ir.ObjectType}
	effIndent := itemIndent + 2
	next, err := p.parseFieldInto(obj, content, j, effIndent)
	if err != nil {
		return nil, 0, err
	}
	k := p.next(next)
	if k < len(p.lines) && indentOf(p.lines[k]) > itemIndent {
		next, err = p.parseLinesInto(obj, k, indentOf(p.lines[k]))
		if err != nil {
			return nil, 0, err
		}
	}
	return obj, next, nil
}

func (p *parser) parseTabular(arr *ir.Node, h *arrayHeader, li, hIndent int) (int, error) {
	i := li + 1
	read := 0
	rowIndent := -1
	for {
		j, firstBlank := p.nextContent(i)
		if j == len(p.lines) || indentOf(p.lines[j]) <= hIndent {
			i = j
			break
		}
		if p.opts.strict && firstBlank >= 0 && read > 0 && read < h.count {
			return 0, errAt(ErrBlankLine, firstBlank+1)
		}
		if read == h.count {
			return 0, errAt(ErrExtraRows, j+1)
		}
		ind := indentOf(p.lines[j])
		if rowIndent < 0 {
			rowIndent = ind
		}
		if ind != rowIndent {
			return 0, errAtf(j+1, "%w: unexpected indentation", ErrParse)
		}
		row, err := p.parseRow(strings.TrimSpace(p.lines[j]), h, j)
		if err != nil {
			return 0, err
		}
		arr.Values = append(arr.Values, row)
		read++
		i = j + 1
	}
	if read != h.count {
		return 0, errAtf(li+1, "%w: expected %d, got %d", ErrCountMismatch, h.count, read)
	}
	return i, nil
}

func (p *parser) parseRow(content string, h *arrayHeader, j int) (*ir.Node, error) {
	vals := token.SplitDelimiter(content, h.delim)
	if len(vals) != len(h.fields) {
		return nil, errAtf(j+1, "%w: expected %d fields, got %d",
			ErrCountMismatch, len(h.fields), len(vals))
	}
	kvs := make([]ir.KeyVal, len(vals))
	for k, v := range vals {
		el, err := parsePrimitive(v, j+1)
		if err != nil {
			return nil, err
		}
		f := h.fields[k]
		kvs[k] = ir.KeyVal{
			Key: &ir.Node{Type: ir.StringType, String: f.name, Quoted: f.quoted, Line: h.line},
			Val: el,
		}
	}
	return ir.FromKeyVals(kvs), nil
}

// parsePrimitive converts a lexeme to a leaf node. Quoted lexemes are
// unescaped; true/false/null and number lexemes become their
// constants; number shapes with a disallowed leading zero and
// everything else stay strings.
func parsePrimitive(v string, line int) (*ir.Node, error) {
	if strings.HasPrefix(v, `"`) {
		if len(v) < 2 || v[len(v)-1] != '"' {
			return nil, errAt(token.ErrUnterminated, line)
		}
		s, err := token.Unescape(v[1 : len(v)-1])
		if err != nil {
			return nil, errAt(err, line)
		}
		return ir.FromString(s), nil
	}
	switch v {
	case "true":
		return ir.FromBool(true), nil
	case "false":
		return ir.FromBool(false), nil
	case "null":
		return ir.Null(), nil
	}
	if token.Number(v) {
		if token.LeadingZero(v) {
			return ir.FromString(v), nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, errAtf(line, "%w: bad number %q", ErrParse, v)
		}
		return ir.FromFloat(f), nil
	}
	return ir.FromString(v), nil
}
