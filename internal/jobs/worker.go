package jobs

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/tajreba/doc-translator/internal/backend"
	"github.com/tajreba/doc-translator/internal/batch"
	"github.com/tajreba/doc-translator/internal/sanitize"
	"github.com/tajreba/doc-translator/pkg/log"
)

// ReadTextFunc extracts a document's text. ok is false when even the
// best-effort fallback read failed, in which case the batch sizer uses its
// fallback length.
type ReadTextFunc func(path string) (text string, ok bool)

// WriteDocumentFunc writes the formatted output document.
type WriteDocumentFunc func(path, text, direction, alignment string) error

// DetectLanguageFunc reports the dominant language of the source text.
type DetectLanguageFunc func(text string) string

// worker drives one job through the chunk loop. Chunks are processed
// strictly sequentially; the single generation backend is a serialized
// resource.
type worker struct {
	state      *State
	translator backend.Translator
	sanitizer  *sanitize.Sanitizer
	readText   ReadTextFunc
	writeDoc   WriteDocumentFunc
	detectLang DetectLanguageFunc
	outputDir  string
	pausePoll  time.Duration
}

// run executes the whole job and always leaves the state in a terminal
// phase. It is the only goroutine mutating chunk progress.
func (w *worker) run(ctx context.Context, cfg Config) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("worker panic: %v", r)
			w.state.MarkFailed(fmt.Errorf("worker panic: %v", r))
		}
	}()

	log.Info("worker started: file=%s model=%s", cfg.FileName, cfg.Model)

	text, ok := w.readText(cfg.FilePath)
	runes := []rune(text)
	total := len(runes)

	sizingLen := total
	if !ok {
		sizingLen = batch.FallbackChars
	}
	chunkSize := batch.Size(sizingLen)
	totalChunks := batch.TotalChunks(total, chunkSize)
	w.state.SetTotals(totalChunks, w.detectLang(text))
	log.Info("document size: %d chars | chunk size: %d | chunks: %d", total, chunkSize, totalChunks)

	opts := backend.Options{
		PromptTemplate: cfg.PromptTemplate,
		PromptMode:     cfg.PromptMode,
		Think:          cfg.Think,
		Concise:        cfg.Concise,
	}

	stopped := false
	for i := 0; i < total; {
		if ctx.Err() != nil {
			stopped = true
			break
		}
		phase := w.state.Phase()
		if phase == PhaseStopping {
			stopped = true
			break
		}
		if phase == PhasePaused {
			// Poll outside the lock; no backend calls while paused.
			time.Sleep(w.pausePoll)
			continue
		}

		end := i + chunkSize
		if end > total {
			end = total
		}
		chunkNum := i/chunkSize + 1
		w.state.SetMessage(fmt.Sprintf("Translating chunk %d/%d...", chunkNum, totalChunks))

		result, err := w.translator.Translate(ctx, string(runes[i:end]), cfg.Model, opts)
		if err != nil {
			// A failed chunk becomes an inline marker; the job continues.
			log.Warn("chunk %d/%d failed: %v", chunkNum, totalChunks, err)
			result = fmt.Sprintf("[translation error: %v]", err)
		} else if cfg.FilterThoughts {
			result = w.sanitizer.Clean(result)
		}

		w.state.AppendResult(result)
		i = end
	}

	if stopped {
		log.Info("worker stopped: file=%s after %d/%d chunks", cfg.FileName, w.state.Snapshot().CurrentChunk, totalChunks)
		w.state.MarkStopped()
		return
	}

	fullText := strings.Join(w.state.Results(), "\n")
	outPath := filepath.Join(w.outputDir, fmt.Sprintf("translated_%s.docx", time.Now().Format("20060102_150405")))
	if err := w.writeDoc(outPath, fullText, cfg.Direction(), cfg.Alignment); err != nil {
		log.Error("failed to write output document: %v", err)
		w.state.MarkFailed(fmt.Errorf("write output document: %w", err))
		return
	}

	log.Info("saved output to %s", outPath)
	w.state.MarkCompleted(outPath)
}
