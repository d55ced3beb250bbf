package artifact

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSource_Load(t *testing.T) {
	srv := httptest.NewServer(http.StripPrefix("/models/v1/", http.FileServer(http.Dir(fixtureDir))))
	defer srv.Close()

	src := NewHTTPSource(srv.URL+"/models/v1", time.Second)
	a, err := Load(context.Background(), src, Names{})
	require.NoError(t, err)
	assert.Equal(t, 3, a.Info().LabelCount)
}

func TestHTTPSource_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	src := NewHTTPSourceWithClient(srv.URL, srv.Client())
	_, err := src.Fetch(context.Background(), "classifier.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=410")
	assert.Contains(t, err.Error(), "gone")
}

func TestHTTPSource_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTTPSource(srv.URL, 0).Fetch(ctx, "vectorizer.json")
	require.Error(t, err)
}
