// Package document extracts plain text from files used as debate background.
package document

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"rsc.io/pdf"
)

var ErrUnsupported = errors.New("unsupported document type")

// IsPath reports whether s names an existing document ReadText can handle
// rather than being literal background text.
func IsPath(s string) bool {
	switch strings.ToLower(filepath.Ext(s)) {
	case ".txt", ".pdf":
	default:
		return false
	}

	info, err := os.Stat(s)
	return err == nil && info.Mode().IsRegular()
}

func ReadText(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		bytes, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(bytes)), nil
	case ".pdf":
		return readPDF(path)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, path)
	}
}

func readPDF(path string) (text string, err error) {
	// rsc.io/pdf panics on malformed objects and content streams
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("reading pdf content: %v", r)
		}
	}()

	file, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}

	var out strings.Builder
	for i := 1; i <= file.NumPage(); i++ {
		page := file.Page(i)
		if page.V.IsNull() {
			continue
		}

		writeGlyphs(&out, page.Content().Text)
		out.WriteString("\n")
	}

	return strings.TrimSpace(out.String()), nil
}

// writeGlyphs joins positioned glyphs back into lines. The PDF content stream
// drops spaces, so a horizontal gap wider than a tenth of the font size
// becomes one.
func writeGlyphs(out *strings.Builder, glyphs []pdf.Text) {
	for i, t := range glyphs {
		if i > 0 {
			prev := glyphs[i-1]
			switch {
			case math.Abs(t.Y-prev.Y) > prev.FontSize/2:
				out.WriteString("\n")
			case t.X-(prev.X+prev.W) > prev.FontSize/10:
				out.WriteString(" ")
			}
		}
		out.WriteString(t.S)
	}
}
