package file

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeName(t *testing.T) {
	assert.Equal(t, "report.docx", SafeName("report.docx"))
	assert.Equal(t, "report.docx", SafeName("../../etc/report.docx"))
	assert.Equal(t, "report.docx", SafeName(`C:\uploads\report.docx`))
	assert.Equal(t, "my_book_final_.pdf", SafeName("my book (final).pdf"))
	assert.Equal(t, "كتاب.docx", SafeName("كتاب.docx"))
	assert.Empty(t, SafeName("..."))
	assert.Empty(t, SafeName(""))
}

func TestReplaceExt(t *testing.T) {
	assert.Equal(t, "docs/report.docx", ReplaceExt("docs/report.txt", "docx"))
	assert.Equal(t, "report.docx", ReplaceExt("report", ".docx"))
	assert.Empty(t, ReplaceExt("", "docx"))
}
