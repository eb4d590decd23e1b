package objectstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicBase(t *testing.T) {
	assert.Equal(t, "http://minio:9000/banners", publicBase("minio:9000", "banners", false, ""))
	assert.Equal(t, "https://s3.campus.edu/banners", publicBase("s3.campus.edu/", "banners", true, ""))
	assert.Equal(t, "https://cdn.campus.edu/b", publicBase("minio:9000", "banners", false, "https://cdn.campus.edu/b/"))
}

func TestURL(t *testing.T) {
	s := newStore(nil, "banners", "http://minio:9000/banners")
	assert.Equal(t, "http://minio:9000/banners/events/1/banner.png", s.URL("/events/1/banner.png"))
}
