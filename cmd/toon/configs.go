package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/toon-format/toon-go/convert"
	"github.com/toon-format/toon-go/encode"
	"github.com/toon-format/toon-go/format"
	"github.com/toon-format/toon-go/ir"
	"github.com/toon-format/toon-go/parse"
	"github.com/toon-format/toon-go/token"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"
)

type MainConfig struct {
	Strict bool `cli:"name=strict desc='strict decoding: indentation, blank lines, duplicate keys'"`
	Expand bool `cli:"name=expand desc='expand dotted keys into nested objects while decoding'"`
	Fold   bool `cli:"name=fold desc='fold single-key object chains into dotted keys while encoding'"`
	Color  bool `cli:"name=color desc='encode with color'"`

	T bool `cli:"name=t aliases=toon desc='do i/o in toon'"`
	J bool `cli:"name=j aliases=json desc='do i/o in json'"`
	Y bool `cli:"name=y aliases=yaml desc='do i/o in yaml'"`

	Indent int
	Delim  token.Delimiter

	InFormat, OutFormat *format.Format

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) fmtFunc(fps ...**format.Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := format.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		for _, fp := range fps {
			*fp = &f
		}
		return f, nil
	})
}

func (cfg *MainConfig) indentOpt(cc *cli.Context, a string) (any, error) {
	n, err := strconv.Atoi(a)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%w: bad indent %q", cli.ErrUsage, a)
	}
	cfg.Indent = n
	return n, nil
}

func (cfg *MainConfig) delimOpt(cc *cli.Context, a string) (any, error) {
	d, err := token.ParseDelimiter(a)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	cfg.Delim = d
	return a, nil
}

func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}

func (cfg *MainConfig) inFormat(path string) format.Format {
	var fmat format.Format
	switch {
	case cfg.J:
		fmat = format.JSONFormat
	case cfg.Y:
		fmat = format.YAMLFormat
	}
	if cfg.InFormat != nil {
		return *cfg.InFormat
	}
	if fmat == format.ToonFormat && !cfg.T {
		switch {
		case strings.HasSuffix(path, ".json"):
			return format.JSONFormat
		case strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
			return format.YAMLFormat
		}
	}
	return fmat
}

func (cfg *MainConfig) outFormat() format.Format {
	var fmat format.Format
	switch {
	case cfg.J:
		fmat = format.JSONFormat
	case cfg.Y:
		fmat = format.YAMLFormat
	}
	if cfg.OutFormat != nil {
		return *cfg.OutFormat
	}
	return fmat
}

func (cfg *MainConfig) parseOpts() []parse.ParseOption {
	res := []parse.ParseOption{
		parse.ParseStrict(cfg.Strict),
	}
	if cfg.Indent > 0 {
		res = append(res, parse.ParseIndent(cfg.Indent))
	}
	if cfg.Expand {
		res = append(res, parse.ExpandPaths(parse.PathsSafe))
	}
	return res
}

func (cfg *MainConfig) encOpts(w io.Writer, forceColor bool) []encode.EncodeOption {
	res := []encode.EncodeOption{}
	if cfg.Indent > 0 {
		res = append(res, encode.EncodeIndent(cfg.Indent))
	}
	if cfg.Delim.Valid() {
		res = append(res, encode.EncodeDelimiter(cfg.Delim))
	}
	if cfg.Fold {
		res = append(res, encode.KeyFolding(encode.FoldSafe))
	}
	if cfg.Color || forceColor {
		res = append(res, encode.EncodeColors(encode.NewColors()))
		return res
	}
	f, ok := w.(*os.File)
	if !ok {
		return res
	}
	if isatty.IsTerminal(f.Fd()) {
		res = append(res, encode.EncodeColors(encode.NewColors()))
	}
	return res
}

// readDoc loads path ("-" or "" means stdin) and decodes it per the
// configured or suffix-derived input format.
func (cfg *MainConfig) readDoc(path string) (*ir.Node, error) {
	var (
		d   []byte
		err error
	)
	if path == "" || path == "-" {
		d, err = io.ReadAll(os.Stdin)
	} else {
		d, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	switch cfg.inFormat(path) {
	case format.JSONFormat:
		return convert.FromJSON(d)
	case format.YAMLFormat:
		return convert.FromYAML(d)
	default:
		return parse.Parse(d, cfg.parseOpts()...)
	}
}

// writeDoc encodes node per the configured output format.
func (cfg *MainConfig) writeDoc(w io.Writer, node *ir.Node, forceColor bool) error {
	switch cfg.outFormat() {
	case format.JSONFormat:
		d, err := convert.ToJSON(node)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", d)
		return err
	case format.YAMLFormat:
		d, err := convert.ToYAML(node)
		if err != nil {
			return err
		}
		_, err = w.Write(d)
		return err
	default:
		s, err := encode.String(node, cfg.encOpts(w, forceColor)...)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, s)
		return err
	}
}

func (cfg *MainConfig) output(cc *cli.Context) io.Writer {
	if cc.Out != nil {
		return cc.Out
	}
	return os.Stdout
}

type ViewConfig struct {
	*MainConfig
	View *cli.Command
}

type GetConfig struct {
	*MainConfig
	Get *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Diff *cli.Command
}

type PatchConfig struct {
	*MainConfig
	Patch *cli.Command
}
