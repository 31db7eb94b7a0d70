package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestClean_DropsBoilerplateAndKeepsArabic(t *testing.T) {
	s := New()
	assert.Equal(t, "مرحبا بالعالم", s.Clean("thinking...\nمرحبا بالعالم"))
}

func TestClean_DropsReasoningMarkerLines(t *testing.T) {
	s := New()

	in := "Here is my reasoning about the text\nمرحبا\nThought for a moment\nبالعالم"
	got := s.Clean(in)
	assert.NotContains(t, got, "reasoning")
	assert.NotContains(t, got, "Thought")
	assert.Contains(t, got, "مرحبا")
	assert.Contains(t, got, "بالعالم")
}

func TestClean_NoTargetScriptReturnsFilteredVerbatim(t *testing.T) {
	s := New()

	in := "thinking...\nplain english line\nanother line"
	assert.Equal(t, "plain english line\nanother line", s.Clean(in))
}

func TestClean_MixedScriptKeepsOnlyArabicRuns(t *testing.T) {
	s := New()

	in := "Sure, here is the translation:\nمرحبا بالعالم\nHope that helps!"
	got := s.Clean(in)
	assert.Contains(t, got, "مرحبا بالعالم")
	assert.NotContains(t, got, "translation")
	assert.NotContains(t, got, "Hope")
}

func TestClean_EmptyInput(t *testing.T) {
	s := New()
	assert.Equal(t, "", s.Clean(""))
}

func TestClean_CaseInsensitiveMarkers(t *testing.T) {
	s := New()
	assert.Equal(t, "done", s.Clean("ANALYSIS of the passage follows\ndone"))
}

func TestNewForLanguage_UnknownScriptSkipsIsolation(t *testing.T) {
	s := NewForLanguage(language.French)

	in := "thinking...\nbonjour le monde مرحبا"
	// Line filter applies, but no script isolation for French.
	assert.Equal(t, "bonjour le monde مرحبا", s.Clean(in))
}
