package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgallion1/corepassmd/internal/coreid"
	"github.com/dgallion1/corepassmd/internal/parser"
	"github.com/dgallion1/corepassmd/internal/render"
	"github.com/dgallion1/corepassmd/internal/rewrite"
)

// Format selects the output serialization.
type Format string

const (
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
)

// ParseFormat accepts "md", "markdown" and "html". Empty selects Markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "md", "markdown":
		return FormatMarkdown, nil
	case "html", "htm":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("unsupported output format: %q", s)
}

// ContentType returns the HTTP media type of the format.
func (f Format) ContentType() string {
	if f == FormatHTML {
		return "text/html; charset=utf-8"
	}
	return "text/markdown; charset=utf-8"
}

// Input is one document to rewrite.
type Input struct {
	Filename string // Extension selects the parser.
	Data     []byte
	Format   Format
	Options  coreid.Options
}

// Result is the rendered document.
type Result struct {
	Output   []byte
	Title    string
	Stats    rewrite.Stats
	Duration time.Duration
}

// Worker runs the parse, rewrite, render sequence.
type Worker struct {
	parsers parser.Config
	stats   *RenderStats
	log     *slog.Logger
}

func NewWorker(parsers parser.Config, stats *RenderStats, log *slog.Logger) *Worker {
	if stats == nil {
		stats = NewRenderStats(time.Hour)
	}
	return &Worker{
		parsers: parsers,
		stats:   stats,
		log:     log,
	}
}

// Stats returns the latency and token counters fed by Run.
func (w *Worker) Stats() *RenderStats {
	return w.stats
}

// Run processes one document. phase, when non-nil, is called as each step
// starts. The context is checked between steps.
func (w *Worker) Run(ctx context.Context, in Input, phase func(JobStatus)) (Result, error) {
	start := time.Now()
	step := func(s JobStatus) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if phase != nil {
			phase(s)
		}
		return nil
	}

	// Phase 1: Parse
	if err := step(StatusParsing); err != nil {
		return Result{}, err
	}
	p, err := w.parsers.ForFile(in.Filename)
	if err != nil {
		return Result{}, err
	}
	tree, err := p.Parse(bytes.NewReader(in.Data), in.Filename)
	if err != nil {
		return Result{}, fmt.Errorf("parse: %w", err)
	}

	// Phase 2: Rewrite
	if err := step(StatusRewriting); err != nil {
		return Result{}, err
	}
	stats := rewrite.Transform(tree, in.Options)

	// Phase 3: Render
	if err := step(StatusRendering); err != nil {
		return Result{}, err
	}
	var buf bytes.Buffer
	switch in.Format {
	case FormatHTML:
		err = render.HTML(&buf, tree)
	default:
		err = render.Markdown(&buf, tree)
	}
	if err != nil {
		return Result{}, fmt.Errorf("render: %w", err)
	}

	elapsed := time.Since(start)
	w.stats.Record(elapsed.Milliseconds(), stats)
	return Result{
		Output:   buf.Bytes(),
		Title:    tree.Attr("title"),
		Stats:    stats,
		Duration: elapsed,
	}, nil
}

// Process runs a queued job to completion or failure.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	in := Input{
		Filename: job.Filename,
		Data:     job.FileData(),
		Format:   job.Format,
		Options:  job.Options(),
	}
	var current JobStatus
	res, err := w.Run(ctx, in, func(s JobStatus) {
		current = s
		job.SetStatus(s, string(s))
	})
	if err != nil {
		log.Error("rewrite failed", "phase", current, "error", err)
		job.AddError(fmt.Sprintf("%s: %s", current, err))
		job.SetStatus(StatusFailed, string(current))
		return
	}

	job.Complete(res)
	log.Info("rewrite complete",
		"tokens", res.Stats.Tokens(),
		"valid", res.Stats.Valid,
		"invalid", res.Stats.Invalid,
		"bare", res.Stats.Bare,
		"duration_ms", res.Duration.Milliseconds(),
	)
}
