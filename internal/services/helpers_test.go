package services

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/campus-events-api/internal/domain/event"
	"github.com/gravadigital/campus-events-api/internal/domain/profile"
	"github.com/gravadigital/campus-events-api/internal/storage/memory"
)

var fixedNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type fixture struct {
	store    *memory.Store
	svc      *Services
	renderer *stubRenderer
	banners  *stubBanners
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    memory.New(),
		renderer: &stubRenderer{},
		banners:  &stubBanners{},
	}
	f.svc = New(f.store, Options{
		Renderer:  f.renderer,
		Banners:   f.banners,
		PublicURL: "https://events.example.edu",
		Clock:     func() time.Time { return fixedNow },
	})
	return f
}

func (f *fixture) addProfile(t *testing.T, email string, role profile.Role) *profile.Profile {
	t.Helper()
	p := profile.NewProfile(uuid.New(), email, "Test "+string(role), role)
	require.NoError(t, f.store.Profiles().Create(context.Background(), p))
	return p
}

func (f *fixture) addEvent(t *testing.T, organizerID uuid.UUID, capacity *int, mutate ...func(*event.Event)) *event.Event {
	t.Helper()
	start := fixedNow.Add(72 * time.Hour)
	e := event.NewEvent("Intro to Go", organizerID, start, start.Add(3*time.Hour))
	e.Capacity = capacity
	for _, m := range mutate {
		m(e)
	}
	require.NoError(t, f.store.Events().Create(context.Background(), e))
	return e
}

func intPtr(n int) *int {
	return &n
}

type stubRenderer struct {
	calls []renderCall
}

type renderCall struct {
	studentName, eventTitle, endDate, certificateID string
}

func (r *stubRenderer) Render(studentName, eventTitle, eventEndDateISO, certificateID string) ([]byte, error) {
	r.calls = append(r.calls, renderCall{studentName, eventTitle, eventEndDateISO, certificateID})
	return []byte("%PDF-1.3 stub"), nil
}

type stubBanners struct {
	key         string
	contentType string
	body        []byte
}

func (b *stubBanners) Put(_ context.Context, key string, r io.Reader, _ int64, contentType string) (string, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	b.key = key
	b.contentType = contentType
	b.body = body
	return "https://cdn.example.edu/event-banners/" + key, nil
}
