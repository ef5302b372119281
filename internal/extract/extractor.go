// Package extract converts uploaded questionnaire documents into plain
// text for the question extraction pipeline.
package extract

import (
	"fmt"
	"path/filepath"
	"strings"

	"quizbank_backend/internal/util"
)

// Text extracts the plain text of a document, dispatching on the file
// extension. The caller is responsible for rejecting formats it does
// not want before storing the file; this function still guards with
// ErrUnsupportedFormat for anything it cannot decode.
func Text(filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".pdf":
		return textFromPDF(data)
	case ".docx", ".doc":
		text, err := textFromDOCX(data)
		if err != nil && ext == ".doc" {
			// Legacy binary .doc is not a zip archive.
			return "", fmt.Errorf("%w: legacy .doc files cannot be decoded, convert to .docx", util.ErrUnsupportedFormat)
		}
		return text, err
	case ".xlsx", ".xls":
		return textFromXLSX(data)
	case ".txt":
		return textFromTXT(data), nil
	default:
		return "", fmt.Errorf("%w: %s", util.ErrUnsupportedFormat, ext)
	}
}

func textFromTXT(data []byte) string {
	s := string(data)
	// Strip a UTF-8 BOM; Windows editors prepend one.
	s = strings.TrimPrefix(s, "\uFEFF")
	return s
}
