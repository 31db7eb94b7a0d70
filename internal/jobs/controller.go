package jobs

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tajreba/doc-translator/internal/backend"
	"github.com/tajreba/doc-translator/internal/document"
	"github.com/tajreba/doc-translator/internal/sanitize"
	"github.com/tajreba/doc-translator/pkg/log"
)

// StartRequest carries the operator's choices for one job.
type StartRequest struct {
	FilePath       string
	Model          string
	RTL            bool
	Alignment      string
	PromptTemplate string
	PromptMode     string
	Think          bool
	Concise        bool
	FilterThoughts bool
}

// Controller owns the job lifecycle: it holds the single State, launches
// the worker asynchronously, and answers status and export queries.
type Controller struct {
	state      *State
	translator backend.Translator
	sanitizer  *sanitize.Sanitizer
	readText   ReadTextFunc
	writeDoc   WriteDocumentFunc
	detectLang DetectLanguageFunc
	outputDir  string
	pausePoll  time.Duration
	onTerminal func(Status)
}

// Option customizes a Controller.
type Option func(*Controller)

// WithOutputDir sets where completion and export artifacts are written.
func WithOutputDir(dir string) Option {
	return func(c *Controller) { c.outputDir = dir }
}

// WithReadText overrides the document text extractor.
func WithReadText(fn ReadTextFunc) Option {
	return func(c *Controller) { c.readText = fn }
}

// WithWriteDocument overrides the output document writer.
func WithWriteDocument(fn WriteDocumentFunc) Option {
	return func(c *Controller) { c.writeDoc = fn }
}

// WithLanguageDetector overrides source language detection.
func WithLanguageDetector(fn DetectLanguageFunc) Option {
	return func(c *Controller) { c.detectLang = fn }
}

// WithSanitizer overrides the output sanitizer.
func WithSanitizer(s *sanitize.Sanitizer) Option {
	return func(c *Controller) { c.sanitizer = s }
}

// WithPausePoll sets the interval at which a paused worker re-checks its
// control flags.
func WithPausePoll(d time.Duration) Option {
	return func(c *Controller) { c.pausePoll = d }
}

// WithTerminalHook registers a callback invoked with the final snapshot
// after every job reaches a terminal phase.
func WithTerminalHook(fn func(Status)) Option {
	return func(c *Controller) { c.onTerminal = fn }
}

// NewController creates a controller backed by the given translator.
func NewController(translator backend.Translator, opts ...Option) *Controller {
	c := &Controller{
		state:      NewState(),
		translator: translator,
		sanitizer:  sanitize.New(),
		readText:   document.ReadText,
		writeDoc:   document.WriteFormatted,
		detectLang: document.DetectLanguage,
		outputDir:  ".",
		pausePoll:  200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start resets the state, captures the job configuration, and launches the
// worker. It returns immediately; a second start while a job is active
// fails with ErrJobActive.
func (c *Controller) Start(ctx context.Context, req StartRequest) (Config, error) {
	cfg := Config{
		ID:             uuid.NewString(),
		FilePath:       req.FilePath,
		FileName:       filepath.Base(req.FilePath),
		Model:          req.Model,
		RTL:            req.RTL,
		Alignment:      req.Alignment,
		PromptTemplate: req.PromptTemplate,
		PromptMode:     req.PromptMode,
		Think:          req.Think,
		Concise:        req.Concise,
		FilterThoughts: req.FilterThoughts,
	}
	if cfg.Model == "" {
		cfg.Model = backend.FallbackModel
	}
	if cfg.Alignment == "" {
		cfg.Alignment = document.DefaultAlignment(cfg.Direction())
	}

	if err := c.state.Start(cfg); err != nil {
		return Config{}, err
	}
	log.Info("job %s accepted: file=%s model=%s", cfg.ID, cfg.FileName, cfg.Model)

	w := &worker{
		state:      c.state,
		translator: c.translator,
		sanitizer:  c.sanitizer,
		readText:   c.readText,
		writeDoc:   c.writeDoc,
		detectLang: c.detectLang,
		outputDir:  c.outputDir,
		pausePoll:  c.pausePoll,
	}
	go func() {
		w.run(ctx, cfg)
		if c.onTerminal != nil {
			c.onTerminal(c.state.Snapshot())
		}
	}()

	return cfg, nil
}

// TogglePause flips the pause flag. The returned flag is the new pause
// state; toggling twice restores the original state.
func (c *Controller) TogglePause() bool {
	paused, active := c.state.TogglePause()
	if active {
		log.Info("pause toggled: paused=%v", paused)
	}
	return paused
}

// Stop latches the stop flag; the worker halts at its next iteration
// boundary. Partial results are retained.
func (c *Controller) Stop() bool {
	requested := c.state.RequestStop()
	if requested {
		log.Info("stop requested")
	}
	return requested
}

// Status returns a point-in-time snapshot for polling consumers.
func (c *Controller) Status() Status {
	return c.state.Snapshot()
}

// Export assembles the chunk results accumulated so far, mid-job or after a
// stop, into an output document and returns its path.
func (c *Controller) Export() (string, error) {
	results := c.state.Results()
	if len(results) == 0 {
		return "", ErrNothingToExport
	}
	cfg := c.state.Config()

	outPath := filepath.Join(c.outputDir, fmt.Sprintf("exported_%s.docx", time.Now().Format("20060102_150405")))
	if err := c.writeDoc(outPath, strings.Join(results, "\n"), cfg.Direction(), cfg.Alignment); err != nil {
		return "", fmt.Errorf("write export document: %w", err)
	}
	log.Info("exported %d chunks to %s", len(results), outPath)
	return outPath, nil
}
