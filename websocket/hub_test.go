// file: websocket/hub_test.go
package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmv-site/carousel"
	"cmv-site/models"
)

func testSlides(n int) []models.Slide {
	out := make([]models.Slide, n)
	for i := range out {
		out[i] = models.Slide{ID: string(rune('a' + i)), Title: "slide"}
	}
	return out
}

// startHub serves hub.ServeWs on a test server and returns its ws:// URL.
func startHub(t *testing.T, hub *Hub) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// readUntil returns the first message for which match is true.
func readUntil(t *testing.T, conn *websocket.Conn, match func(Message) bool) Message {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		require.NoError(t, conn.SetReadDeadline(deadline))
		var m Message
		require.NoError(t, conn.ReadJSON(&m))
		if match(m) {
			return m
		}
	}
}

func TestHub_InitialSnapshotAndSeek(t *testing.T) {
	hub := NewHub(context.Background(), testSlides(4), carousel.Options{Autoplay: false}, nil)
	conn := dial(t, startHub(t, hub)+"?width=1280")

	first := readUntil(t, conn, func(m Message) bool { return m.Action == "snapshot" })
	require.NotNil(t, first.Snapshot)
	assert.Equal(t, 0, first.Snapshot.Index)
	assert.Equal(t, 4, first.Snapshot.Total)
	assert.False(t, first.Snapshot.Mobile)

	require.NoError(t, conn.WriteJSON(carousel.Event{Action: carousel.ActionSeek, Index: 2}))
	got := readUntil(t, conn, func(m Message) bool { return m.Snapshot != nil && m.Snapshot.Index == 2 })
	assert.Equal(t, "c", got.Snapshot.Slide.ID)

	assert.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 10*time.Millisecond)
	assert.Len(t, hub.Presence().Active(), 1)
}

func TestHub_BadEventsReportErrors(t *testing.T) {
	hub := NewHub(context.Background(), testSlides(2), carousel.Options{}, nil)
	conn := dial(t, startHub(t, hub))
	readUntil(t, conn, func(m Message) bool { return m.Action == "snapshot" })

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	m := readUntil(t, conn, func(m Message) bool { return m.Action == "error" })
	assert.Equal(t, "invalid message", m.Error)

	require.NoError(t, conn.WriteJSON(carousel.Event{Action: carousel.ActionSeek, Index: 7}))
	m = readUntil(t, conn, func(m Message) bool { return m.Action == "error" })
	assert.Contains(t, m.Error, "out of range")
}

func TestHub_UpdateSlidesReachesEveryDisplay(t *testing.T) {
	hub := NewHub(context.Background(), testSlides(5), carousel.Options{}, nil)
	url := startHub(t, hub)
	a := dial(t, url)
	b := dial(t, url)
	readUntil(t, a, func(m Message) bool { return m.Action == "snapshot" })
	readUntil(t, b, func(m Message) bool { return m.Action == "snapshot" })

	require.NoError(t, a.WriteJSON(carousel.Event{Action: carousel.ActionSeek, Index: 4}))
	readUntil(t, a, func(m Message) bool { return m.Snapshot != nil && m.Snapshot.Index == 4 })
	require.Eventually(t, func() bool { return hub.Count() == 2 }, time.Second, 10*time.Millisecond)

	hub.UpdateSlides(testSlides(2))

	gotA := readUntil(t, a, func(m Message) bool { return m.Snapshot != nil && m.Snapshot.Total == 2 })
	gotB := readUntil(t, b, func(m Message) bool { return m.Snapshot != nil && m.Snapshot.Total == 2 })
	assert.Equal(t, 1, gotA.Snapshot.Index, "index clamps to the new last slide")
	assert.Equal(t, 0, gotB.Snapshot.Index)
	assert.Len(t, gotB.Snapshot.Slides, 2)
}

func TestHub_AutoplayStreams(t *testing.T) {
	hub := NewHub(context.Background(), testSlides(3), carousel.Options{Autoplay: true, Interval: 20 * time.Millisecond}, nil)
	conn := dial(t, startHub(t, hub))

	got := readUntil(t, conn, func(m Message) bool { return m.Snapshot != nil && m.Snapshot.Index == 2 })
	assert.Equal(t, carousel.StateAutoplaying, got.Snapshot.State)
}

func TestHub_DisconnectUnregisters(t *testing.T) {
	hub := NewHub(context.Background(), testSlides(1), carousel.Options{}, nil)
	conn := dial(t, startHub(t, hub))
	readUntil(t, conn, func(m Message) bool { return m.Action == "snapshot" })
	require.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())

	assert.Eventually(t, func() bool { return hub.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
	assert.Empty(t, hub.Presence().Active())
}

func TestHub_IdenticalUpdateIsIgnored(t *testing.T) {
	hub := NewHub(context.Background(), testSlides(3), carousel.Options{}, nil)
	conn := dial(t, startHub(t, hub))
	readUntil(t, conn, func(m Message) bool { return m.Action == "snapshot" })
	require.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	hub.UpdateSlides(testSlides(3))
	hub.UpdateSlides(testSlides(2))

	// the first message after the no-op already carries the shrunk sequence
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var m Message
	require.NoError(t, conn.ReadJSON(&m))
	require.NotNil(t, m.Snapshot)
	assert.Equal(t, 2, m.Snapshot.Total)
}
