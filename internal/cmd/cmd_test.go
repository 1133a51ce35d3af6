package cmd

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/roster/internal/api"
	"github.com/gravitrone/roster/internal/config"
	"github.com/gravitrone/roster/internal/engine"
	"github.com/gravitrone/roster/internal/server"
)

// directoryServer serves n seeded employees from an in-memory database.
func directoryServer(t *testing.T, n int) (string, *server.SQLStore) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	ctx := context.Background()
	store, err := server.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	_, err = server.Seed(ctx, store, n)
	require.NoError(t, err)

	srv, err := server.NewServer(server.Config{Repo: store, Logger: zerolog.Nop()})
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts.URL, store
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// --- init ---

func TestInitSavesConfigAfterServerCheck(t *testing.T) {
	url, _ := directoryServer(t, 3)

	in := strings.NewReader(url + "/\ntok_123\n")
	var out bytes.Buffer
	require.NoError(t, RunInit(context.Background(), in, &out, false))

	assert.Contains(t, out.String(), "connected to "+url)
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, url, cfg.ServerURL)
	assert.Equal(t, "tok_123", cfg.APIKey)
}

func TestInitKeepsDefaultsOnEmptyAnswers(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cmd := InitCmd()
	cmd.SetIn(strings.NewReader("\n\n"))
	out, err := run(t, cmd, "--offline")
	require.NoError(t, err)
	assert.Contains(t, out, "config saved to")
	assert.NotContains(t, out, "connected")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultServerURL, cfg.ServerURL)
	assert.Empty(t, cfg.APIKey)
}

func TestInitReportsRejectedKey(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"invalid token"}`)
	}))
	t.Cleanup(ts.Close)

	err := RunInit(context.Background(), strings.NewReader(ts.URL+"\nbad\n"), io.Discard, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server check failed: HTTP 401: invalid token")

	_, statErr := os.Stat(config.Path())
	assert.ErrorIs(t, statErr, os.ErrNotExist, "nothing is saved on failure")
}

func TestInitRejectsBadScheme(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	err := RunInit(context.Background(), strings.NewReader("ftp://example.com\n\n"), io.Discard, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server_url must start with")
}

// --- list ---

func TestListFirstPage(t *testing.T) {
	url, _ := directoryServer(t, 25)

	out, err := run(t, ListCmd(), "--server", url)
	require.NoError(t, err)
	assert.Contains(t, out, "Grace Lovelace")
	assert.Contains(t, out, "employee1@example.com")
	assert.Contains(t, out, "10 employees shown, more available")
	assert.NotContains(t, out, "employee11@example.com")
}

func TestListAllPages(t *testing.T) {
	url, _ := directoryServer(t, 25)

	out, err := run(t, ListCmd(), "--server", url, "--pages", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "employee25@example.com")
	assert.Contains(t, out, "\n25 employees\n")
}

func TestListScope(t *testing.T) {
	url, _ := directoryServer(t, 25)

	out, err := run(t, ListCmd(), "--server", url, "--scope", " 7 ")
	require.NoError(t, err)
	assert.Contains(t, out, "Ken Lovelace")
	assert.Contains(t, out, "\n1 employees\n")

	out, err = run(t, ListCmd(), "--server", url, "--scope", "999")
	require.NoError(t, err)
	assert.Equal(t, "No record found with ID: 999\n", out)
}

func TestListBlankScopeListsEverything(t *testing.T) {
	url, _ := directoryServer(t, 25)

	out, err := run(t, ListCmd(), "--server", url, "--scope", "   ")
	require.NoError(t, err)
	assert.Contains(t, out, "employee1@example.com")
	assert.Contains(t, out, "10 employees shown, more available")
}

func TestRunListBlankScopeOnFreshEngine(t *testing.T) {
	url, _ := directoryServer(t, 3)

	var out bytes.Buffer
	assert.NotPanics(t, func() {
		err := RunList(context.Background(), engine.New(), api.NewClient(url, "", api.WithRetryMax(0)), &out, " \t", 1)
		require.NoError(t, err)
	})
	assert.Contains(t, out.String(), "\n3 employees\n")
}

func TestListEmptyDirectory(t *testing.T) {
	url, _ := directoryServer(t, 0)

	out, err := run(t, ListCmd(), "--server", url)
	require.NoError(t, err)
	assert.Equal(t, "No records found.\n", out)
}

func TestListWritesMetricsFile(t *testing.T) {
	url, _ := directoryServer(t, 25)
	path := filepath.Join(t.TempDir(), "roster.prom")

	_, err := run(t, ListCmd(), "--server", url, "--pages", "2", "--metrics-file", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `roster_fetches_total{page="first"} 1`)
	assert.Contains(t, string(data), `roster_fetches_total{page="next"} 1`)
}

func TestListServerDown(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(ts.Close)

	_, err := run(t, ListCmd(), "--server", ts.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load page 0")
	assert.Contains(t, err.Error(), "HTTP 403")
}

// --- edit ---

func TestEditSavesFields(t *testing.T) {
	url, store := directoryServer(t, 25)

	out, err := run(t, EditCmd(), "7", "--server", url,
		"--set", "lastName=Lovelace-Jr", "--set", "department=Finance", "--set", "email=ada@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved employee #7")
	assert.Contains(t, out, "lastName: Lovelace -> Lovelace-Jr")
	assert.Contains(t, out, "department: Sales -> Finance", "fields the server does not echo keep the draft value")
	assert.Contains(t, out, "email: employee7@example.com -> ada@example.com")

	stored, err := store.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Lovelace-Jr", stored.LastName)
	assert.Equal(t, "Finance", stored.Profile.Department)
	assert.Equal(t, "ada@example.com", stored.Profile.Email)
	assert.Equal(t, "555-0107", stored.Profile.PhoneNumber)
}

func TestEditErrors(t *testing.T) {
	url, _ := directoryServer(t, 25)

	cases := map[string]struct {
		args []string
		want string
	}{
		"no changes":     {args: []string{"7"}, want: "nothing to change"},
		"missing equals": {args: []string{"7", "--set", "lastName"}, want: `invalid --set "lastName"`},
		"unknown field":  {args: []string{"7", "--set", "salary=1"}, want: `unknown field "salary"`},
		"unknown id":     {args: []string{"999", "--set", "lastName=X"}, want: "no record found with ID: 999"},
		"server rejects": {args: []string{"7", "--set", "birthDate=tomorrow"}, want: "birthDate must be YYYY-MM-DD"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := run(t, EditCmd(), append(tc.args, "--server", url)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

// --- show ---

func TestShowReadsServerCopy(t *testing.T) {
	url, store := directoryServer(t, 10)

	email := "ken@example.com"
	_, err := store.Update(context.Background(), 7, server.Update{Email: &email})
	require.NoError(t, err)

	out, err := run(t, ShowCmd(), "7", "--server", url)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "#7 Ken Lovelace\n"), out)
	assert.Contains(t, out, "email:       ken@example.com")
	assert.Contains(t, out, "department:  Sales")
}

func TestShowErrors(t *testing.T) {
	url, _ := directoryServer(t, 3)

	_, err := run(t, ShowCmd(), "999", "--server", url)
	require.Error(t, err)
	assert.Equal(t, "no record found with ID: 999", err.Error())

	_, err = run(t, ShowCmd(), "abc", "--server", url)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 400")
}

// --- serve ---

func TestServeSeedsAndStops(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- RunServe(ctx, ln, ServeOptions{Database: ":memory:", Seed: 5}, zerolog.Nop())
	}()

	base := "http://" + ln.Addr().String()
	var body string
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/api/employees?size=20")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		data, _ := io.ReadAll(resp.Body)
		body = string(data)
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)
	assert.Contains(t, body, `"id":5`)
	assert.Contains(t, body, `"last":true`)

	resp, err := http.Get(base + "/metrics")
	require.NoError(t, err)
	metricsBody, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(metricsBody), "roster_server_requests_total")
	assert.Contains(t, string(metricsBody), "go_goroutines")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not stop")
	}
}
