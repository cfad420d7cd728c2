package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/corepassmd/internal/parser"
	"github.com/dgallion1/corepassmd/internal/pipeline"
)

type renderFlags struct {
	input     string
	format    string
	output    string
	pdftotext bool
}

func newRenderCmd(root *rootFlags) *cobra.Command {
	f := &renderFlags{}
	cmd := &cobra.Command{
		Use:   "render [files...]",
		Short: "Rewrite id references and print the document",
		Long: "Reads each file (or stdin when no file or \"-\" is given), replaces " +
			"[id@coreid] references with links and writes Markdown or HTML.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, root, f, args)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.input, "input", "", "Input type (md, html, txt, csv, pdf, docx); default from the file extension, md for stdin")
	fl.StringVar(&f.format, "format", "md", "Output format: md or html")
	fl.StringVarP(&f.output, "output", "o", "", "Write to this file instead of stdout")
	fl.BoolVar(&f.pdftotext, "pdftotext", true, "Fall back to pdftotext for PDFs the built-in reader cannot handle")
	return cmd
}

func runRender(cmd *cobra.Command, root *rootFlags, f *renderFlags, args []string) error {
	opts, err := root.options(cmd)
	if err != nil {
		return err
	}
	format, err := pipeline.ParseFormat(f.format)
	if err != nil {
		return err
	}
	log := root.logger(cmd)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, root.timeout)
	defer cancel()

	worker := pipeline.NewWorker(parser.Config{PDFFallbackPdftotext: f.pdftotext}, nil, log)

	// With -o, output is collected and written once every input rendered.
	var buf bytes.Buffer
	out := cmd.OutOrStdout()
	if f.output != "" {
		out = &buf
	}

	if len(args) == 0 {
		args = []string{"-"}
	}
	for _, path := range args {
		name, data, err := readInput(cmd.InOrStdin(), path, f.input)
		if err != nil {
			return err
		}
		res, err := worker.Run(ctx, pipeline.Input{
			Filename: name,
			Data:     data,
			Format:   format,
			Options:  opts,
		}, nil)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		log.Info("rendered",
			"file", path,
			"valid", res.Stats.Valid,
			"invalid", res.Stats.Invalid,
			"bare", res.Stats.Bare,
			"duration_ms", res.Duration.Milliseconds(),
		)
		if _, err := out.Write(res.Output); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	if f.output != "" {
		if err := os.WriteFile(f.output, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	return nil
}

// readInput loads path ("-" for stdin) and returns the name whose extension
// selects the parser.
func readInput(stdin io.Reader, path, input string) (string, []byte, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", nil, fmt.Errorf("read %s: %w", path, err)
	}

	name := filepath.Base(path)
	switch {
	case input != "":
		name = strings.TrimSuffix(name, filepath.Ext(name)) + "." + strings.TrimPrefix(input, ".")
	case path == "-":
		name = "stdin.md"
	}
	return name, data, nil
}
