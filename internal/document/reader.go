// Package document implements the external document collaborators of the
// translation pipeline: best-effort text extraction from uploaded files and
// a paragraph-formatted DOCX writer with direction and alignment control.
package document

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/abadojack/whatlanggo"

	"github.com/tajreba/doc-translator/pkg/log"
)

// readerFunc extracts plain text from one file format.
type readerFunc func(path string) (string, error)

// readers dispatches extraction by lowercased file extension. Formats that
// fail extraction degrade to an empty string rather than an error reaching
// the pipeline.
var readers = map[string]readerFunc{
	".txt":  readPlain,
	".docx": readDOCX,
	".html": readHTML,
	".htm":  readHTML,
	".pdf":  readPDF,
	".epub": readEPUB,
}

// SupportedExtensions lists the extensions accepted for upload, in display
// order.
var SupportedExtensions = []string{".txt", ".docx", ".html", ".htm", ".pdf", ".epub"}

// Supported reports whether the file's extension has a dedicated reader.
func Supported(path string) bool {
	_, ok := readers[strings.ToLower(filepath.Ext(path))]
	return ok
}

// ReadText extracts the document's text. It never fails loudly: format
// readers fall back to a best-effort plain read where that makes sense, and
// the final fallback is an empty string with ok=false so callers can pick a
// fallback sizing length.
func ReadText(path string) (text string, ok bool) {
	ext := strings.ToLower(filepath.Ext(path))

	if read, found := readers[ext]; found {
		out, err := read(path)
		if err == nil {
			return out, true
		}
		log.Warn("failed to extract %s text from %s: %v", ext, path, err)
		if binaryFormat(ext) {
			// A plain read of a binary container yields garbage.
			return "", false
		}
	}

	out, err := readPlain(path)
	if err != nil {
		log.Warn("plain-text fallback read failed for %s: %v", path, err)
		return "", false
	}
	return out, true
}

func binaryFormat(ext string) bool {
	switch ext {
	case ".docx", ".pdf", ".epub":
		return true
	default:
		return false
	}
}

// readPlain reads the file as UTF-8 text, dropping invalid byte sequences.
func readPlain(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(data), ""), nil
}

// DetectLanguage returns the ISO 639-1 code of the text's dominant language,
// or an empty string when the sample is too small to call.
func DetectLanguage(text string) string {
	const minSample = 20
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < minSample {
		return ""
	}
	if len(trimmed) > 4096 {
		trimmed = trimmed[:4096]
		trimmed = strings.ToValidUTF8(trimmed, "")
	}
	info := whatlanggo.Detect(trimmed)
	if !info.IsReliable() {
		return ""
	}
	return info.Lang.Iso6391()
}
