package entities

import (
	"encoding/base64"
	"time"
)

// Screenshot is a PNG capture of the current page state
type Screenshot struct {
	PNG        []byte    `json:"-"`
	CapturedAt time.Time `json:"captured_at"`
}

// Base64 returns the image encoded for transport
func (s Screenshot) Base64() string {
	return base64.StdEncoding.EncodeToString(s.PNG)
}

// PNGDataURI wraps a base64 encoded PNG into an inline data URI
func PNGDataURI(imageBase64 string) string {
	return "data:image/png;base64," + imageBase64
}
