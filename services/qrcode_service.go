// services/qrcode_service.go
package services

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/skip2/go-qrcode"
)

// QREncoder matches qrcode.Encode so tests can swap it out.
type QREncoder func(content string, level qrcode.RecoveryLevel, size int) ([]byte, error)

// UPIPaymentLink builds the upi://pay link the donation QR encodes. A
// non-positive amount lets the donor type one in their app.
func UPIPaymentLink(upiID, payee string, amount int) (string, error) {
	if upiID == "" {
		return "", errors.New("no UPI id configured")
	}
	q := url.Values{}
	q.Set("pa", upiID)
	q.Set("pn", payee)
	q.Set("cu", "INR")
	q.Set("tn", "Donation to "+payee)
	if amount > 0 {
		q.Set("am", fmt.Sprintf("%d.00", amount))
	}
	return "upi://pay?" + q.Encode(), nil
}

// GenerateQRCode encodes content as a square PNG of the given size. A nil
// encoder uses qrcode.Encode.
func GenerateQRCode(content string, width, height int, encoder QREncoder) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New("invalid dimensions: width and height must be positive")
	}
	if encoder == nil {
		encoder = qrcode.Encode
	}
	size := width
	if height < size {
		size = height
	}
	png, err := encoder(content, qrcode.Medium, size)
	if err != nil {
		return nil, err
	}
	return png, nil
}
