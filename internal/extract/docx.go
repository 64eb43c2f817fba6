package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// docxDocumentXML is the main document body inside a .docx package.
const docxDocumentXML = "word/document.xml"

// wtTag matches <w:t>text</w:t> runs, including attribute-carrying variants
// like <w:t xml:space="preserve">.
var wtTag = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)

// paragraphEnd marks paragraph boundaries so extracted text keeps line breaks.
var paragraphEnd = regexp.MustCompile(`</w:p>`)

// extractDOCX pulls the visible text runs out of a DOCX package.
func extractDOCX(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open DOCX: %w", err)
	}
	for _, f := range zr.File {
		if f.Name != docxDocumentXML {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open document body: %w", err)
		}
		xml, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("read document body: %w", err)
		}
		return docxTextFromXML(string(xml)), nil
	}
	return "", fmt.Errorf("not a DOCX file: %s missing", docxDocumentXML)
}

func docxTextFromXML(xml string) string {
	var sb strings.Builder
	for _, para := range paragraphEnd.Split(xml, -1) {
		runs := wtTag.FindAllStringSubmatch(para, -1)
		if len(runs) == 0 {
			continue
		}
		for _, m := range runs {
			sb.WriteString(unescapeXML(m[1]))
		}
		sb.WriteByte('\n')
	}
	return strings.TrimRight(sb.String(), "\n")
}

var xmlEscapes = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
)

func unescapeXML(s string) string {
	return xmlEscapes.Replace(s)
}
