package qr

import (
	"encoding/base64"

	qrcode "github.com/skip2/go-qrcode"
)

// Renderer turns short URLs into inline PNG images.
type Renderer struct {
	Size int
}

func NewRenderer(size int) *Renderer {
	if size <= 0 {
		size = 256
	}
	return &Renderer{Size: size}
}

// DataURL returns the QR code for url as a data:image/png;base64 payload.
func (r *Renderer) DataURL(url string) (string, error) {
	png, err := qrcode.Encode(url, qrcode.Medium, r.Size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
