package qrcode

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckInURL(t *testing.T) {
	id := uuid.MustParse("660e8400-e29b-41d4-a716-446655440000")
	assert.Equal(t,
		"https://events.campus.edu/checkin/660e8400-e29b-41d4-a716-446655440000",
		CheckInURL("https://events.campus.edu/", id))
}

func TestCheckInPNG(t *testing.T) {
	out, err := CheckInPNG("http://localhost:3000", uuid.New(), 0)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, DefaultSize, img.Bounds().Dx())
}
