package document

import (
	"archive/zip"
	"path"
	"strings"
)

// readEPUB extracts text from every content document in the EPUB container,
// in archive order.
func readEPUB(filePath string) (string, error) {
	archive, err := zip.OpenReader(filePath)
	if err != nil {
		return "", err
	}
	defer archive.Close()

	texts := make([]string, 0)
	for _, file := range archive.File {
		switch strings.ToLower(path.Ext(file.Name)) {
		case ".xhtml", ".html", ".htm":
		default:
			continue
		}
		rc, err := file.Open()
		if err != nil {
			continue
		}
		text, err := extractHTMLText(rc)
		rc.Close()
		if err != nil {
			continue
		}
		if text != "" {
			texts = append(texts, text)
		}
	}
	return strings.Join(texts, "\n"), nil
}
