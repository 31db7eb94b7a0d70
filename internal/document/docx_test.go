package document

import (
	"archive/zip"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFormatted_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.docx")

	require.NoError(t, WriteFormatted(path, "مرحبا بالعالم\n\nالسطر الثاني", DirectionRTL, "right"))

	text, ok := ReadText(path)
	require.True(t, ok)
	assert.Equal(t, "مرحبا بالعالم\nالسطر الثاني", text)
}

func TestWriteFormatted_RTLAndAlignmentMarkup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.docx")
	require.NoError(t, WriteFormatted(path, "نص", DirectionRTL, "justify"))

	raw := readArchivePart(t, path, "word/document.xml")
	assert.Contains(t, raw, `<w:bidi/>`)
	assert.Contains(t, raw, `<w:rtl/>`)
	assert.Contains(t, raw, `<w:jc w:val="both"/>`)
	assert.Contains(t, raw, `w:ascii="Calibri"`)
}

func TestWriteFormatted_LTRDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.docx")
	require.NoError(t, WriteFormatted(path, "plain text", DirectionLTR, ""))

	raw := readArchivePart(t, path, "word/document.xml")
	assert.Contains(t, raw, `<w:jc w:val="left"/>`)
	assert.NotContains(t, raw, `<w:bidi/>`)
}

func TestWriteFormatted_EscapesMarkup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.docx")
	require.NoError(t, WriteFormatted(path, "a < b & c > d", DirectionLTR, "left"))

	text, ok := ReadText(path)
	require.True(t, ok)
	assert.Equal(t, "a < b & c > d", text)
}

func readArchivePart(t *testing.T, path, name string) string {
	t.Helper()
	archive, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer archive.Close()

	for _, file := range archive.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		require.NoError(t, err)
		defer rc.Close()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(data)
	}
	t.Fatalf("part %s not found in %s", name, path)
	return ""
}
