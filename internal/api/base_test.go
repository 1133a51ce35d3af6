package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/roster/internal/config"
	"github.com/gravitrone/roster/internal/engine"
)

func TestNewFromConfigUsesServerURLAndKey(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Write([]byte(`{"content":[],"last":true}`))
	}))
	t.Cleanup(srv.Close)

	cfg := &config.Config{ServerURL: srv.URL + "/", APIKey: "tok", Timeout: time.Second, RetryMax: 0}
	client := NewFromConfig(cfg, zerolog.Nop())
	assert.Equal(t, srv.URL, client.BaseURL())

	_, err := client.FetchPage(context.Background(), engine.PageRequest{PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "/api/employees", gotPath)
}
