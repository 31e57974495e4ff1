package watch

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mtharp/twentyone/gann"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getCurrent(t *testing.T, url string) gann.EpochStats {
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)
	var es gann.EpochStats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&es))
	return es
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(NewHub().Router())
	defer srv.Close()
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestCurrentStale(t *testing.T) {
	h := NewHub()
	srv := httptest.NewServer(h.Router())
	defer srv.Close()
	h.Publish(gann.EpochStats{Epoch: 3, WinRate: 0.4})
	es := getCurrent(t, srv.URL+"/current?epoch=1")
	assert.Equal(t, 3, es.Epoch)
	assert.Equal(t, 0.4, es.WinRate)
	// no epoch given always answers immediately
	es = getCurrent(t, srv.URL+"/current")
	assert.Equal(t, 3, es.Epoch)
}

func TestCurrentLongPoll(t *testing.T) {
	h := NewHub()
	srv := httptest.NewServer(h.Router())
	defer srv.Close()
	h.Publish(gann.EpochStats{Epoch: 3})
	done := make(chan gann.EpochStats, 1)
	go func() {
		resp, err := http.Get(srv.URL + "/current?epoch=3")
		if err != nil {
			close(done)
			return
		}
		defer resp.Body.Close()
		var es gann.EpochStats
		json.NewDecoder(resp.Body).Decode(&es)
		done <- es
	}()
	require.Eventually(t, func() bool {
		h.mu.Lock()
		defer h.mu.Unlock()
		return len(h.waiters) == 1
	}, 2*time.Second, 10*time.Millisecond)
	h.Publish(gann.EpochStats{Epoch: 4})
	select {
	case es := <-done:
		assert.Equal(t, 4, es.Epoch)
	case <-time.After(2 * time.Second):
		t.Fatal("long poll did not return")
	}
}

func TestCurrentTimeout(t *testing.T) {
	h := NewHub()
	h.pollTimeout = 50 * time.Millisecond
	srv := httptest.NewServer(h.Router())
	defer srv.Close()
	h.Publish(gann.EpochStats{Epoch: 7})
	start := time.Now()
	es := getCurrent(t, srv.URL+"/current?epoch=7")
	assert.Equal(t, 7, es.Epoch)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestCurrentBadEpoch(t *testing.T) {
	srv := httptest.NewServer(NewHub().Router())
	defer srv.Close()
	resp, err := http.Get(srv.URL + "/current?epoch=x")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 400, resp.StatusCode)
}

func TestWebsocket(t *testing.T) {
	h := NewHub()
	srv := httptest.NewServer(h.Router())
	defer srv.Close()
	h.Publish(gann.EpochStats{Epoch: 1})

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var es gann.EpochStats
	require.NoError(t, conn.ReadJSON(&es))
	assert.Equal(t, 1, es.Epoch)
	require.Eventually(t, func() bool { return h.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	h.Publish(gann.EpochStats{Epoch: 2, Cost: 1.5})
	require.NoError(t, conn.ReadJSON(&es))
	assert.Equal(t, 2, es.Epoch)
	assert.Equal(t, 1.5, es.Cost)

	conn.Close()
	require.Eventually(t, func() bool { return h.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}
