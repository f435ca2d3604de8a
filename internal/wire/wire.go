// Package wire holds types that represent anything that goes across a boundary
// Think I/O operations
package wire

import (
	"encoding/base64"
	"fmt"
)

// Image is an attachment sent to a model alongside the prompt text.
type Image struct {
	MediaType string
	Data      []byte
}

// Base64 is the encoding Gemini expects for inline data parts.
func (i Image) Base64() string {
	return base64.StdEncoding.EncodeToString(i.Data)
}

// DataURL is the form OpenAI accepts in an image_url content part.
func (i Image) DataURL() string {
	return fmt.Sprintf("data:%s;base64,%s", i.MediaType, i.Base64())
}
