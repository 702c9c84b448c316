package foreman

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arineng/foreman-ptable/internal/core"
)

func newTestClient(t *testing.T, srv *httptest.Server) *HTTPClient {
	t.Helper()

	parsed, err := url.Parse(srv.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(parsed.Port())
	require.NoError(t, err)

	return NewHTTPClient(Settings{
		Host:     parsed.Hostname(),
		Port:     port,
		Username: "admin",
		Password: "secret",
		UseTLS:   false,
	})
}

func TestSettings_BaseURL(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		want     string
	}{
		{"defaults", Settings{Host: "127.0.0.1", UseTLS: true}, "https://127.0.0.1:443/api/v2"},
		{"plain http", Settings{Host: "foreman.example.com", Port: 8080}, "http://foreman.example.com:8080/api/v2"},
		{"tls custom port", Settings{Host: "foreman.example.com", Port: 8443, UseTLS: true}, "https://foreman.example.com:8443/api/v2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.settings.BaseURL())
		})
	}
}

func TestHTTPClient_SearchPartitionTable(t *testing.T) {
	var gotSearch string
	var gotAuth bool

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		gotAuth = ok && user == "admin" && pass == "secret"
		gotSearch = r.URL.Query().Get("search")

		assert.Equal(t, "/api/v2/ptables", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"id": 12, "name": "FreeBSD"},
			},
		})
	}))
	defer srv.Close()

	client := newTestClient(t, srv)

	pt, err := client.SearchPartitionTable(context.Background(), "FreeBSD")
	require.NoError(t, err)
	require.NotNil(t, pt)
	assert.Equal(t, 12, pt.ID)
	assert.Equal(t, "FreeBSD", pt.Name)
	assert.Equal(t, `name="FreeBSD"`, gotSearch)
	assert.True(t, gotAuth, "expected basic auth credentials")
}

func TestHTTPClient_SearchReturnsNilOnNoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"results": []any{}})
	}))
	defer srv.Close()

	client := newTestClient(t, srv)

	pt, err := client.SearchPartitionTable(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, pt)

	loc, err := client.SearchLocation(context.Background(), "nowhere")
	require.NoError(t, err)
	assert.Nil(t, loc)
}

func TestHTTPClient_SearchRejectsAmbiguousMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{{"id": 1}, {"id": 2}},
		})
	}))
	defer srv.Close()

	client := newTestClient(t, srv)

	_, err := client.SearchPartitionTable(context.Background(), "dup")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most one")
}

func TestHTTPClient_CreatePartitionTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v2/ptables", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]PartitionTableInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		input := body["ptable"]
		assert.Equal(t, "FreeBSD", input.Name)
		assert.Equal(t, []int{3}, input.LocationIDs)

		_ = json.NewEncoder(w).Encode(PartitionTable{
			ID: 42, Name: input.Name, Layout: input.Layout, OSFamily: input.OSFamily, LocationIDs: input.LocationIDs,
		})
	}))
	defer srv.Close()

	client := newTestClient(t, srv)

	created, err := client.CreatePartitionTable(context.Background(), PartitionTableInput{
		Name:        "FreeBSD",
		Layout:      "zfs on root",
		OSFamily:    "FreeBSD",
		LocationIDs: []int{3},
	})
	require.NoError(t, err)
	assert.Equal(t, 42, created.ID)
	assert.Equal(t, "zfs on root", created.Layout)
}

func TestHTTPClient_UpdateAndDeleteUsePathID(t *testing.T) {
	var method, path string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		_ = json.NewEncoder(w).Encode(PartitionTable{ID: 9, Name: "x"})
	}))
	defer srv.Close()

	client := newTestClient(t, srv)

	_, err := client.UpdatePartitionTable(context.Background(), 9, PartitionTableInput{Name: "x", Layout: "l"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/api/v2/ptables/9", path)

	_, err = client.DeletePartitionTable(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, method)
	assert.Equal(t, "/api/v2/ptables/9", path)
}

func TestHTTPClient_ErrorsNeverContainPassword(t *testing.T) {
	const password = "sup3r-secret-pass"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Unable to authenticate user"}}`))
	}))

	parsed, err := url.Parse(srv.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(parsed.Port())
	require.NoError(t, err)

	client := NewHTTPClient(Settings{
		Host:     parsed.Hostname(),
		Port:     port,
		Username: "admin",
		Password: password,
	})

	// The secret travels in the Authorization header only; no error in
	// the chain and no logged line may carry it.
	check := func(t *testing.T, err error) {
		t.Helper()
		require.Error(t, err)

		for e := err; e != nil; e = errors.Unwrap(e) {
			assert.NotContains(t, e.Error(), password)
		}

		var buf bytes.Buffer
		logger := core.NewDefaultLogger(&buf, core.LevelDebug)
		logger.Error(fmt.Sprintf("Error: %v", err))
		assert.NotContains(t, buf.String(), password)
	}

	t.Run("auth rejected", func(t *testing.T) {
		_, err := client.SearchPartitionTable(context.Background(), "x")
		check(t, err)
	})

	srv.Close()

	t.Run("connection failure", func(t *testing.T) {
		_, err := client.GetPartitionTable(context.Background(), 1)
		check(t, err)
	})
}

func TestHTTPClient_APIErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"message shape", `{"error":{"message":"Resource ptable not found"}}`, "Resource ptable not found"},
		{"full messages shape", `{"error":{"full_messages":["Name has already been taken","Layout can't be blank"]}}`, "Name has already been taken; Layout can't be blank"},
		{"opaque body", `<html>mayhem</html>`, "unexpected status 422"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnprocessableEntity)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := newTestClient(t, srv)

			_, err := client.GetPartitionTable(context.Background(), 1)
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
			assert.Contains(t, apiErr.Error(), tt.want)
		})
	}
}
