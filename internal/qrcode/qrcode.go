// Package qrcode draws the check-in QR codes organizers display at the venue.
package qrcode

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

// DefaultSize is the PNG edge length in pixels
const DefaultSize = 256

// CheckInURL is the link a student's phone opens after scanning
func CheckInURL(publicURL string, eventID uuid.UUID) string {
	return strings.TrimRight(publicURL, "/") + "/checkin/" + eventID.String()
}

// CheckInPNG encodes the check-in URL of eventID as a PNG
func CheckInPNG(publicURL string, eventID uuid.UUID, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}

	png, err := qrcode.Encode(CheckInURL(publicURL, eventID), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode check-in qr code: %w", err)
	}
	return png, nil
}
