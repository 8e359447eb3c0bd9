package main

import (
	"fmt"
	"os"
	"strings"

	toon "github.com/toon-format/toon-go"
	"github.com/toon-format/toon-go/encode"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"
	"github.com/sergi/go-diff/diffmatchpatch"
)

func runConvert(cfg *MainConfig, cc *cli.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"-"}
	}
	w := cfg.output(cc)
	for _, path := range args {
		node, err := cfg.readDoc(path)
		if err != nil {
			return err
		}
		if err := cfg.writeDoc(w, node, false); err != nil {
			return err
		}
	}
	return nil
}

func runView(cfg *ViewConfig, cc *cli.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"-"}
	}
	w := cfg.output(cc)
	for _, path := range args {
		node, err := cfg.readDoc(path)
		if err != nil {
			return err
		}
		s, err := encode.String(node, cfg.encOpts(w, true)...)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, s); err != nil {
			return err
		}
	}
	return nil
}

func runGet(cfg *GetConfig, cc *cli.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: get needs an expression", cli.ErrUsage)
	}
	src := args[0]
	files := args[1:]
	if len(files) == 0 {
		files = []string{"-"}
	}
	w := cfg.output(cc)
	for _, path := range files {
		node, err := cfg.readDoc(path)
		if err != nil {
			return err
		}
		res, err := toon.Query(node, src)
		if err != nil {
			return err
		}
		if err := cfg.writeDoc(w, res, false); err != nil {
			return err
		}
	}
	return nil
}

func runDiff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: diff needs two documents", cli.ErrUsage)
	}
	a, err := cfg.readDoc(args[0])
	if err != nil {
		return err
	}
	b, err := cfg.readDoc(args[1])
	if err != nil {
		return err
	}
	aText, err := encode.String(a)
	if err != nil {
		return err
	}
	bText, err := encode.String(b)
	if err != nil {
		return err
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(aText, bText, true)
	diffs = dmp.DiffCleanupSemantic(diffs)
	w := cfg.output(cc)
	if f, ok := w.(*os.File); ok && (cfg.Color || isatty.IsTerminal(f.Fd())) {
		_, err = fmt.Fprintln(w, dmp.DiffPrettyText(diffs))
		return err
	}
	_, err = fmt.Fprintln(w, plainDiff(diffs))
	return err
}

func plainDiff(diffs []diffmatchpatch.Diff) string {
	b := &strings.Builder{}
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			fmt.Fprintf(b, "+{%s}", d.Text)
		case diffmatchpatch.DiffDelete:
			fmt.Fprintf(b, "-{%s}", d.Text)
		default:
			b.WriteString(d.Text)
		}
	}
	return b.String()
}

func runPatch(cfg *PatchConfig, cc *cli.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: patch needs a document and a patch", cli.ErrUsage)
	}
	doc, err := cfg.readDoc(args[0])
	if err != nil {
		return err
	}
	patch, err := cfg.readDoc(args[1])
	if err != nil {
		return err
	}
	res, err := toon.MergePatch(doc, patch)
	if err != nil {
		return err
	}
	return cfg.writeDoc(cfg.output(cc), res, false)
}
