package soce

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClientFetch(t *testing.T) {
	page, err := os.ReadFile(filepath.Join("testdata", "proforma_9col.html"))
	require.NoError(t, err)

	var gotId, gotRuc string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotId = r.URL.Query().Get("id")
		gotRuc = r.URL.Query().Get("ruc")
		w.Write(page)
	}))
	defer server.Close()

	client, err := NewClient(ClientOptions{BaseUrl: server.URL})
	require.NoError(t, err)

	// trailing commas come from operators pasting codes out of spreadsheets
	snap, err := client.Fetch(context.Background(), "NIC-123456-2024-18,", "1790012345001")
	require.NoError(t, err)
	require.Equal(t, "NIC-123456-2024-18", gotId)
	require.Equal(t, "1790012345001", gotRuc)
	require.Equal(t, "NIC-123456-2024-18", snap.ProcessCode)
	require.NotNil(t, snap.Doc)
	require.Contains(t, snap.URL.String(), proformaPath)

	result, err := Extract(context.Background(), snap, dotFormat)
	require.NoError(t, err)
	require.Equal(t, 3380.0, result.Total)
}

func TestClientFetchTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client, err := NewClient(ClientOptions{BaseUrl: server.URL})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = client.Fetch(ctx, "NIC-123456-2024-18", "1790012345001")
	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, KindTimeout, kind)
}
