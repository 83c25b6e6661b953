package http

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sberbits/exchange/internal/core/domain"
)

// readEvent scans the SSE stream up to the next data line and decodes its
// payload.
func readEvent(t *testing.T, r *bufio.Reader) domain.Rates {
	t.Helper()

	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		var snapshot domain.Rates
		payload := strings.TrimPrefix(strings.TrimSpace(line), "data:")
		require.NoError(t, json.Unmarshal([]byte(payload), &snapshot))
		return snapshot
	}
}

func TestStreamRatesHandler(t *testing.T) {
	app := newTestApp(t)
	srv := httptest.NewServer(app.router)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/rates/stream")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)

	// The full mapping arrives once on connect.
	initial := readEvent(t, reader)
	require.Contains(t, initial, "BTC")
	assert.Equal(t, "10683297", initial["BTC"].RUB.String())

	// Every table update pushes a fresh snapshot.
	app.table.UpdateRate("BTC", decimal.MustParse("12345678"))

	updated := readEvent(t, reader)
	assert.Equal(t, "12345678", updated["BTC"].RUB.String())
	assert.Contains(t, updated, "ETH")
}

func TestStreamRatesClientDisconnect(t *testing.T) {
	app := newTestApp(t)
	srv := httptest.NewServer(app.router)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/rates/stream")
	require.NoError(t, err)
	readEvent(t, bufio.NewReader(resp.Body))
	require.NoError(t, resp.Body.Close())

	// Updates after the client is gone must not panic or block.
	for i := 0; i < 10; i++ {
		app.table.UpdateRate("BTC", decimal.MustParse("11000000"))
	}
}
