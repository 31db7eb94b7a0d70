package document

import (
	"bytes"

	"github.com/ledongthuc/pdf"
)

// readPDF extracts the plain text layer of a PDF. Scanned or malformed
// files surface as errors and degrade to an empty document upstream.
func readPDF(path string) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	content, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(content); err != nil {
		return "", err
	}
	return buf.String(), nil
}
