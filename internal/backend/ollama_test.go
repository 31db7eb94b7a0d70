package backend

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	result commandResult
	err    error
	block  bool

	lastStdin string
	lastName  string
	lastArgs  []string
}

func (f *fakeRunner) Run(ctx context.Context, stdin, name string, args ...string) (commandResult, error) {
	f.lastStdin = stdin
	f.lastName = name
	f.lastArgs = args
	if f.block {
		<-ctx.Done()
		return commandResult{ExitCode: -1}, ctx.Err()
	}
	return f.result, f.err
}

func newTestCLI(runner commandRunner, timeout time.Duration) *OllamaCLI {
	c := NewOllamaCLI("ollama", timeout)
	c.runner = runner
	return c
}

func TestOllamaCLI_Translate_Success(t *testing.T) {
	runner := &fakeRunner{result: commandResult{Stdout: "  مرحبا  \n"}}
	c := newTestCLI(runner, time.Second)

	got, err := c.Translate(context.Background(), "hello", "test-model", Options{Think: true})
	require.NoError(t, err)
	assert.Equal(t, "مرحبا", got)
	assert.Equal(t, []string{"run", "test-model"}, runner.lastArgs)
	assert.Contains(t, runner.lastStdin, "hello")
	assert.Contains(t, runner.lastStdin, "Arabic Translation:")
}

func TestOllamaCLI_Translate_ThinkDisabled(t *testing.T) {
	runner := &fakeRunner{result: commandResult{Stdout: "ok"}}
	c := newTestCLI(runner, time.Second)

	_, err := c.Translate(context.Background(), "hello", "m", Options{Think: false})
	require.NoError(t, err)
	assert.Equal(t, []string{"run", "m", "--think=false"}, runner.lastArgs)
}

func TestOllamaCLI_Translate_Timeout(t *testing.T) {
	c := newTestCLI(&fakeRunner{block: true}, 20*time.Millisecond)

	_, err := c.Translate(context.Background(), "hello", "m", Options{})
	require.Error(t, err)
	var berr *Error
	require.True(t, errors.As(err, &berr))
	assert.Equal(t, KindTimeout, berr.Kind)
}

func TestOllamaCLI_Translate_NonZeroExit(t *testing.T) {
	runner := &fakeRunner{
		result: commandResult{Stderr: "model not found", ExitCode: 1},
		err:    errors.New("exit status 1"),
	}
	c := newTestCLI(runner, time.Second)

	_, err := c.Translate(context.Background(), "hello", "missing", Options{})
	var berr *Error
	require.True(t, errors.As(err, &berr))
	assert.Equal(t, KindExit, berr.Kind)
	assert.Contains(t, berr.Message, "model not found")
}

func TestOllamaCLI_Translate_TransportError(t *testing.T) {
	runner := &fakeRunner{
		result: commandResult{ExitCode: -1},
		err:    errors.New("executable file not found"),
	}
	c := newTestCLI(runner, time.Second)

	_, err := c.Translate(context.Background(), "hello", "m", Options{})
	var berr *Error
	require.True(t, errors.As(err, &berr))
	assert.Equal(t, KindTransport, berr.Kind)
}

func TestOllamaCLI_ListModels_ParsesOutput(t *testing.T) {
	runner := &fakeRunner{result: commandResult{Stdout: strings.Join([]string{
		"NAME                          ID       SIZE   MODIFIED",
		"command-r7b-arabiclatest      abc123   5 GB   2 days ago",
		"llama3:8b                     def456   4 GB   5 days ago",
		"",
	}, "\n")}}
	c := newTestCLI(runner, time.Second)

	models, err := c.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"command-r7b-arabiclatest", "llama3:8b"}, models)
	assert.Equal(t, []string{"list"}, runner.lastArgs)
}

func TestOllamaCLI_ListModels_FallbackOnError(t *testing.T) {
	c := newTestCLI(&fakeRunner{err: errors.New("no ollama")}, time.Second)

	models, err := c.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{FallbackModel}, models)
}

func TestBuildPrompt(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		p := BuildPrompt("hello", Options{})
		assert.True(t, strings.HasPrefix(p, DefaultPrompt))
		assert.True(t, strings.HasSuffix(p, "\n\nArabic Translation:"))
	})

	t.Run("placeholder template", func(t *testing.T) {
		p := BuildPrompt("hello", Options{PromptTemplate: "Translate: {text} now"})
		assert.Equal(t, "Translate: hello now", p)
	})

	t.Run("replace mode", func(t *testing.T) {
		p := BuildPrompt("hello", Options{PromptTemplate: "Custom instruction.", PromptMode: "replace"})
		assert.Equal(t, "Custom instruction.\n\nhello", p)
	})

	t.Run("append mode keeps default prompt", func(t *testing.T) {
		p := BuildPrompt("hello", Options{PromptTemplate: "Keep names in Latin.", PromptMode: "append"})
		assert.Contains(t, p, DefaultPrompt)
		assert.Contains(t, p, "Keep names in Latin.")
	})

	t.Run("concise prefix", func(t *testing.T) {
		p := BuildPrompt("hello", Options{Concise: true})
		assert.True(t, strings.HasPrefix(p, "Respond concisely"))
	})
}
