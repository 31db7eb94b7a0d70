package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

// Minimal wordprocessingML structures. Element matching is by local name,
// so namespace prefixes in the source document are irrelevant.

type wordDocument struct {
	XMLName xml.Name `xml:"document"`
	Body    wordBody `xml:"body"`
}

type wordBody struct {
	Paragraphs []wordParagraph `xml:"p"`
}

type wordParagraph struct {
	Runs []wordRun `xml:"r"`
}

type wordRun struct {
	Texts []string `xml:"t"`
}

// readDOCX extracts paragraph text from a .docx archive, one line per
// paragraph.
func readDOCX(path string) (string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", err
	}
	defer archive.Close()

	for _, file := range archive.File {
		if file.Name != "word/document.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return "", err
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", err
		}

		var doc wordDocument
		if err := xml.Unmarshal(data, &doc); err != nil {
			return "", err
		}

		lines := make([]string, 0, len(doc.Body.Paragraphs))
		for _, para := range doc.Body.Paragraphs {
			var sb strings.Builder
			for _, run := range para.Runs {
				for _, t := range run.Texts {
					sb.WriteString(t)
				}
			}
			lines = append(lines, sb.String())
		}
		return strings.Join(lines, "\n"), nil
	}
	return "", fmt.Errorf("word/document.xml not found in %s", path)
}

const docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const docxRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

// alignmentValues maps the public alignment names to wordprocessingML w:jc
// values.
var alignmentValues = map[string]string{
	"left":    "left",
	"center":  "center",
	"right":   "right",
	"justify": "both",
}

// writeDOCX creates a .docx file with one styled paragraph per non-empty
// input line. Runs use Calibri 11pt; RTL documents get the bidi paragraph
// flag and RTL run flag.
func writeDOCX(path, text, direction, alignment string) error {
	jc, ok := alignmentValues[alignment]
	if !ok {
		jc = "right"
	}
	rtl := direction == "rtl"

	var body bytes.Buffer
	body.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		body.WriteString(`<w:p><w:pPr>`)
		if rtl {
			body.WriteString(`<w:bidi/>`)
		}
		fmt.Fprintf(&body, `<w:jc w:val=%q/>`, jc)
		body.WriteString(`</w:pPr><w:r><w:rPr>`)
		body.WriteString(`<w:rFonts w:ascii="Calibri" w:hAnsi="Calibri" w:cs="Calibri"/>`)
		body.WriteString(`<w:sz w:val="22"/><w:szCs w:val="22"/>`)
		if rtl {
			body.WriteString(`<w:rtl/>`)
		}
		body.WriteString(`</w:rPr><w:t xml:space="preserve">`)
		if err := xml.EscapeText(&body, []byte(line)); err != nil {
			return err
		}
		body.WriteString(`</w:t></w:r></w:p>`)
	}

	body.WriteString(`<w:sectPr/></w:body></w:document>`)

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	archive := zip.NewWriter(out)
	parts := []struct {
		name string
		data string
	}{
		{"[Content_Types].xml", docxContentTypes},
		{"_rels/.rels", docxRels},
		{"word/document.xml", body.String()},
	}
	for _, part := range parts {
		w, err := archive.Create(part.name)
		if err != nil {
			return err
		}
		if _, err := w.Write([]byte(part.data)); err != nil {
			return err
		}
	}
	return archive.Close()
}
