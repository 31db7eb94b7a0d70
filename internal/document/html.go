package document

import (
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// readHTML extracts visible text from an HTML file, falling back to a crude
// tag strip when parsing fails.
func readHTML(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	text, err := extractHTMLText(file)
	if err == nil {
		return text, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return tagPattern.ReplaceAllString(strings.ToValidUTF8(string(data), ""), ""), nil
}

// extractHTMLText pulls text from block-level elements, one line per block.
func extractHTMLText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", err
	}
	doc.Find("script, style").Remove()

	lines := make([]string, 0)
	doc.Find("p, h1, h2, h3, h4, h5, h6, li, td, blockquote, pre").Each(func(_ int, sel *goquery.Selection) {
		if sel.Children().Is("p, h1, h2, h3, h4, h5, h6, li, td, blockquote, pre") {
			return
		}
		if text := strings.TrimSpace(sel.Text()); text != "" {
			lines = append(lines, text)
		}
	})
	if len(lines) > 0 {
		return strings.Join(lines, "\n"), nil
	}
	return strings.TrimSpace(doc.Text()), nil
}
