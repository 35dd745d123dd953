package content

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/diagnosis/dalmatia-stays/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const siteSettings = `{
  "items": [{"fields": {
    "appName": "Adriatic Homes",
    "heroTitle": "Sea, stone and sun",
    "navLinks": [{"sys": {"id": "l1"}}, {"sys": {"id": "l2"}}, {"sys": {"id": "missing"}}]
  }}],
  "includes": {"Entry": [
    {"sys": {"id": "l2"}, "fields": {"label": "Stays", "href": "/accommodations"}},
    {"sys": {"id": "l1"}, "fields": {"label": "Start", "href": "/"}}
  ]}
}`

func cfg(url string) config.ContentConfig {
	return config.ContentConfig{BaseURL: url, SpaceID: "space", AccessToken: "token", Environment: "master", Timeout: time.Second}
}

func TestContentful_MergesEntry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/spaces/space/environments/master/entries", r.URL.Path)
		assert.Equal(t, "siteSettings", r.URL.Query().Get("content_type"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		w.Write([]byte(siteSettings))
	}))
	defer srv.Close()

	got := NewContentful(cfg(srv.URL), srv.Client()).SiteContent(context.Background())

	assert.Equal(t, "Adriatic Homes", got.AppName)
	assert.Equal(t, "Sea, stone and sun", got.HeroTitle)
	assert.Equal(t, Fallback().HeroSubtitle, got.HeroSubtitle)
	assert.Equal(t, []NavLink{{"Start", "/"}, {"Stays", "/accommodations"}}, got.NavLinks)
}

func TestContentful_FallbackOnFailure(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadGateway) },
		"unauthorized": func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusUnauthorized) },
		"empty":        func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{"items":[]}`)) },
		"garbage":      func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`<html>`)) },
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()

			got := NewContentful(cfg(srv.URL), srv.Client()).SiteContent(context.Background())
			assert.Equal(t, Fallback(), got)
		})
	}
}

func TestContentful_BreakerOpensOnOutage(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewContentful(cfg(srv.URL), srv.Client())
	for i := 0; i < 6; i++ {
		require.Equal(t, Fallback(), c.SiteContent(context.Background()))
	}
	assert.Equal(t, int32(3), hits.Load())
}

func TestNew_UnconfiguredIsStatic(t *testing.T) {
	src := New(config.ContentConfig{})
	_, ok := src.(Static)
	require.True(t, ok)
	assert.Equal(t, Fallback(), src.SiteContent(context.Background()))
}
