package pkg

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

const QRCodeSize = 256

// TicketRedeemURL is the link staff scan to redeem a ticket.
func TicketRedeemURL(baseURL, code string) string {
	return fmt.Sprintf("%s/tickets/%s/use", baseURL, code)
}

// GenerateQRCode renders content as a PNG of size x size pixels.
func GenerateQRCode(content string, size int) ([]byte, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	return png, nil
}
