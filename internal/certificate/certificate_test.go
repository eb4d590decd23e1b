package certificate

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_ProducesPDF(t *testing.T) {
	out, err := NewRenderer("").Render("Ada Lovelace", "Intro to Go Workshop", "2026-03-14T18:00:00Z", "0b8c7f1e-1111-4c3a-9d4e-222222222222")
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Contains(t, string(out), "%%EOF")
}

func TestRender_Deterministic(t *testing.T) {
	r := NewRenderer("Student Affairs Office")
	args := []string{"Grace Hopper", "Compilers Seminar", "2026-05-01", "cert-42"}

	first, err := r.Render(args[0], args[1], args[2], args[3])
	require.NoError(t, err)
	second, err := r.Render(args[0], args[1], args[2], args[3])
	require.NoError(t, err)

	assert.Equal(t, first, second)

	other, err := r.Render(args[0], args[1], args[2], "cert-43")
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestRender_RequiresFields(t *testing.T) {
	r := NewRenderer("")
	_, err := r.Render("", "Title", "2026-05-01", "id")
	assert.Error(t, err)
	_, err = r.Render("Name", " ", "2026-05-01", "id")
	assert.Error(t, err)
	_, err = r.Render("Name", "Title", "2026-05-01", "")
	assert.Error(t, err)
}

func TestParseEventDate(t *testing.T) {
	printed, stamp := parseEventDate("2026-03-14T18:00:00+02:00")
	assert.Equal(t, "March 14, 2026", printed)
	assert.Equal(t, time.Date(2026, 3, 14, 16, 0, 0, 0, time.UTC), stamp)

	printed, stamp = parseEventDate("soon")
	assert.Equal(t, "soon", printed)
	assert.Equal(t, fallbackDate, stamp)
}
