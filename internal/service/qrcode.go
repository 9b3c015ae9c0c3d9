package service

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

type QRGenerator interface {
	Generate(sessionID int) ([]byte, error)
}

// DefaultQRGenerator encodes the session join link as a PNG.
type DefaultQRGenerator struct {
	BaseURL string
}

func (g DefaultQRGenerator) Generate(sessionID int) ([]byte, error) {
	qrData := fmt.Sprintf("%s/sessions/%d", g.BaseURL, sessionID)
	return qrcode.Encode(qrData, qrcode.Medium, 256)
}
