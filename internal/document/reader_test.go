package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadText_Plain(t *testing.T) {
	path := writeTempFile(t, "doc.txt", "hello world\nsecond line")

	text, ok := ReadText(path)
	require.True(t, ok)
	assert.Equal(t, "hello world\nsecond line", text)
}

func TestReadText_UnknownExtensionFallsBackToPlain(t *testing.T) {
	path := writeTempFile(t, "notes.md", "# markdown heading")

	text, ok := ReadText(path)
	require.True(t, ok)
	assert.Equal(t, "# markdown heading", text)
}

func TestReadText_MissingFile(t *testing.T) {
	text, ok := ReadText(filepath.Join(t.TempDir(), "missing.txt"))
	assert.False(t, ok)
	assert.Empty(t, text)
}

func TestReadText_CorruptDOCXDegradesToEmpty(t *testing.T) {
	path := writeTempFile(t, "broken.docx", "this is not a zip archive")

	text, ok := ReadText(path)
	assert.False(t, ok)
	assert.Empty(t, text)
}

func TestReadText_HTML(t *testing.T) {
	path := writeTempFile(t, "page.html",
		`<html><head><style>p{color:red}</style></head><body><h1>Title</h1><p>First paragraph.</p><p>Second.</p></body></html>`)

	text, ok := ReadText(path)
	require.True(t, ok)
	assert.Contains(t, text, "Title")
	assert.Contains(t, text, "First paragraph.")
	assert.Contains(t, text, "Second.")
	assert.NotContains(t, text, "color:red")
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("book.EPUB"))
	assert.True(t, Supported("report.docx"))
	assert.False(t, Supported("archive.zip"))
}

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, "en", DetectLanguage("This is a reasonably long English sentence used for detection."))
	assert.Equal(t, "ar", DetectLanguage("هذه جملة عربية طويلة بما يكفي لاكتشاف اللغة بشكل موثوق تماما"))
	assert.Empty(t, DetectLanguage("hi"))
}
