// Package sanitize strips model meta-commentary ("thinking...", reasoning
// traces) from generated output and optionally isolates target-script runs
// from mixed-script text.
package sanitize

import (
	"regexp"
	"strings"

	"golang.org/x/text/language"
)

// metaPattern matches whole-word reasoning markers anywhere in a line.
var metaPattern = regexp.MustCompile(`(?i)\b(thought|thinking|reasoning|analysis|chain[- ]of[- ]thought)\b`)

// boilerplate lines are dropped on exact (lowercased, trimmed) match.
var boilerplate = map[string]struct{}{
	"thinking...":          {},
	"thought for a moment": {},
	"thinking":             {},
}

// arabicRuns matches contiguous Arabic-script runs, allowing non-Arabic
// spans (spaces, digits, punctuation) between Arabic segments inside a run.
// Covers the base block plus supplements and presentation forms.
var arabicRuns = regexp.MustCompile(
	`[\x{0600}-\x{06FF}\x{0750}-\x{077F}\x{08A0}-\x{08FF}\x{FB50}-\x{FDFF}\x{FE70}-\x{FEFF}]+` +
		`(?:[^\x{0600}-\x{06FF}\x{0750}-\x{077F}\x{08A0}-\x{08FF}\x{FB50}-\x{FDFF}\x{FE70}-\x{FEFF}]+` +
		`[\x{0600}-\x{06FF}\x{0750}-\x{077F}\x{08A0}-\x{08FF}\x{FB50}-\x{FDFF}\x{FE70}-\x{FEFF}]+)*`)

// scriptRuns maps a base language to the run matcher for its writing system.
// Languages without an entry skip the script-isolation pass entirely.
var scriptRuns = map[string]*regexp.Regexp{
	"ar": arabicRuns,
}

// Sanitizer filters one chunk of raw backend output.
type Sanitizer struct {
	runs *regexp.Regexp
}

// New returns a sanitizer targeting Arabic output.
func New() *Sanitizer {
	return NewForLanguage(language.Arabic)
}

// NewForLanguage returns a sanitizer whose script-isolation pass targets the
// writing system of the given language. Unknown languages still get the
// meta-commentary line filter, just no script isolation.
func NewForLanguage(tag language.Tag) *Sanitizer {
	base, _ := tag.Base()
	return &Sanitizer{runs: scriptRuns[base.String()]}
}

// Clean removes meta-commentary lines and, when target-script runs are
// present, discards everything outside them. It never fails: on empty input
// or any internal problem the original text comes back unmodified.
func (s *Sanitizer) Clean(raw string) (out string) {
	if raw == "" {
		return raw
	}
	defer func() {
		if r := recover(); r != nil {
			out = raw
		}
	}()

	filtered := make([]string, 0, strings.Count(raw, "\n")+1)
	for _, line := range strings.Split(raw, "\n") {
		if metaPattern.MatchString(line) {
			continue
		}
		if _, ok := boilerplate[strings.ToLower(strings.TrimSpace(line))]; ok {
			continue
		}
		filtered = append(filtered, line)
	}
	cleaned := strings.TrimSpace(strings.Join(filtered, "\n"))

	if s == nil || s.runs == nil {
		return cleaned
	}
	matches := s.runs.FindAllString(cleaned, -1)
	if len(matches) == 0 {
		return cleaned
	}
	for i, m := range matches {
		matches[i] = strings.TrimSpace(m)
	}
	return strings.TrimSpace(strings.Join(matches, "\n"))
}
