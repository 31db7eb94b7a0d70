// Package backend wraps the external text-generation backends that perform
// the actual translation of one chunk: the local Ollama CLI and any
// OpenAI-compatible HTTP endpoint. One call translates one chunk; retry
// policy belongs to the caller.
package backend

import (
	"fmt"
	"strings"
	"time"
)

// DefaultTimeout bounds a single backend invocation.
const DefaultTimeout = 300 * time.Second

// FallbackModel is used when model enumeration fails or returns nothing.
const FallbackModel = "command-r7b-arabiclatest"

// DefaultPrompt is the built-in English-to-Arabic translation instruction.
const DefaultPrompt = "You are a professional English-Arabic translator. " +
	"Translate the following text from English to Arabic in a refined, sophisticated, and professional book-author style. " +
	"Ensure that your translation is clear and does not include any notes, disclaimers, or commentary about the original text's quality. " +
	"Replace numerical figures with their corresponding words in Arabic, including large numbers, decimals, and scientific values. " +
	"Remove any citation numbers that appear at the end of sentences. " +
	"Translate all words, including scientific terms. " +
	"Only provide the translated text.\n\n"

// ErrorKind classifies a failed backend invocation.
type ErrorKind int

const (
	// KindTimeout means the invocation exceeded its bounded execution time.
	KindTimeout ErrorKind = iota
	// KindExit means the backend ran but reported failure (non-zero exit or
	// an API-level error response).
	KindExit
	// KindTransport means the backend could not be reached or started.
	KindTransport
)

func (k ErrorKind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindExit:
		return "exit"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Error is a classified backend failure.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend %s: %s", e.Kind, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("backend %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("backend %s", e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Options carries per-job prompt configuration.
type Options struct {
	// PromptTemplate, when set, overrides or augments DefaultPrompt. A
	// "{text}" placeholder is substituted with the chunk; otherwise the
	// chunk is appended according to PromptMode.
	PromptTemplate string
	// PromptMode is "append" (default) or "replace".
	PromptMode string
	// Concise prefixes an instruction asking for minimal reasoning.
	Concise bool
	// Think controls the backend's reasoning mode where supported.
	Think bool
}

// BuildPrompt assembles the full prompt sent to the backend for one chunk.
func BuildPrompt(text string, opts Options) string {
	var prompt string
	switch {
	case opts.PromptTemplate == "":
		prompt = DefaultPrompt + text + "\n\nArabic Translation:"
	case strings.Contains(opts.PromptTemplate, "{text}"):
		prompt = strings.ReplaceAll(opts.PromptTemplate, "{text}", text)
	case opts.PromptMode == "replace":
		prompt = opts.PromptTemplate + "\n\n" + text
	default:
		prompt = DefaultPrompt + "\n" + opts.PromptTemplate + "\n\n" + text + "\n\nArabic Translation:"
	}

	if opts.Concise {
		prompt = "Respond concisely; minimal reasoning.\n\n" + prompt
	}
	return prompt
}
