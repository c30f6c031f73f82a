package qr

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	"eventcheckin/internal/domain"
)

const pngSize = 256

type pngEncoder struct{}

// NewPNGEncoder returns a CredentialEncoder that renders the payload as a
// QR code PNG data URL using High error correction.
func NewPNGEncoder() domain.CredentialEncoder {
	return pngEncoder{}
}

func (pngEncoder) Encode(payload string) (string, error) {
	if payload == "" {
		return "", fmt.Errorf("empty payload")
	}
	png, err := qrcode.Encode(payload, qrcode.High, pngSize)
	if err != nil {
		return "", fmt.Errorf("encode qr code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
