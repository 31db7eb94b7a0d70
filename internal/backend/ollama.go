package backend

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tajreba/doc-translator/pkg/log"
)

// commandResult is an internal process execution response.
type commandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// commandRunner abstracts process execution for testability.
type commandRunner interface {
	Run(ctx context.Context, stdin, name string, args ...string) (commandResult, error)
}

// execRunner executes commands via os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, stdin, name string, args ...string) (commandResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := commandResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		result.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		}
	}
	return result, err
}

// OllamaCLI translates chunks by invoking the local ollama binary once per
// call, feeding the prompt over stdin.
type OllamaCLI struct {
	bin     string
	timeout time.Duration
	runner  commandRunner
	group   singleflight.Group
}

// NewOllamaCLI creates a CLI-backed translator. An empty bin defaults to
// "ollama"; a non-positive timeout defaults to DefaultTimeout.
func NewOllamaCLI(bin string, timeout time.Duration) *OllamaCLI {
	if bin == "" {
		bin = "ollama"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &OllamaCLI{bin: bin, timeout: timeout, runner: execRunner{}}
}

// Translate runs one `ollama run <model>` invocation for the chunk.
func (c *OllamaCLI) Translate(ctx context.Context, text, model string, opts Options) (string, error) {
	if model == "" {
		model = FallbackModel
	}
	prompt := BuildPrompt(text, opts)

	args := []string{"run", model}
	if !opts.Think {
		args = append(args, "--think=false")
	}

	log.Debug("ollama call: model=%s think=%v prompt_len=%d", model, opts.Think, len(prompt))

	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := c.runner.Run(runCtx, prompt, c.bin, args...)
	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return "", &Error{Kind: KindTimeout, Message: "translation timeout exceeded", Err: err}
		}
		if result.ExitCode > 0 {
			msg := strings.TrimSpace(result.Stderr)
			if msg == "" {
				msg = strings.TrimSpace(result.Stdout)
			}
			if msg == "" {
				msg = "unknown error"
			}
			return "", &Error{Kind: KindExit, Message: msg, Err: err}
		}
		return "", &Error{Kind: KindTransport, Err: err}
	}

	return strings.TrimSpace(result.Stdout), nil
}

// ListModels enumerates locally installed models via `ollama list`.
// Concurrent callers share a single invocation; on any failure the
// hardcoded fallback model is returned.
func (c *OllamaCLI) ListModels(ctx context.Context) ([]string, error) {
	v, err, _ := c.group.Do("list", func() (interface{}, error) {
		result, err := c.runner.Run(ctx, "", c.bin, "list")
		if err != nil {
			return nil, err
		}
		return parseModelList(result.Stdout), nil
	})
	if err != nil {
		log.Warn("model enumeration failed: %v", err)
		return []string{FallbackModel}, nil
	}
	models := v.([]string)
	if len(models) == 0 {
		return []string{FallbackModel}, nil
	}
	return models, nil
}

// parseModelList extracts the first column of `ollama list` output,
// skipping the NAME header.
func parseModelList(out string) []string {
	models := make([]string, 0)
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "NAME") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) > 0 {
			models = append(models, fields[0])
		}
	}
	return models
}
