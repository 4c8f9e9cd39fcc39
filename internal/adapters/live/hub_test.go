package live

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"chirp/internal/adapters/metrics"
	livePort "chirp/internal/ports/live"
	postPort "chirp/internal/ports/post"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap/zaptest"
)

func newTestHub(t *testing.T) (*Hub, *metrics.Metrics) {
	m := metrics.New(prometheus.NewRegistry())
	return NewHub(zaptest.NewLogger(t), m), m
}

func receive(t *testing.T, sub *Subscription) Event {
	t.Helper()
	select {
	case ev := <-sub.C:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func waitForViewers(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.Count() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d viewers, have %d", n, h.Count())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestBroadcastReachesEveryViewer(t *testing.T) {
	h, m := newTestHub(t)
	a := h.Subscribe()
	b := h.Subscribe()
	if got := testutil.ToFloat64(m.LiveViewers); got != 2 {
		t.Fatalf("expected gauge 2, got %v", got)
	}

	h.LikeUpdated(&postPort.LikeDTO{ID: "p1", Likes: 2})

	for _, sub := range []*Subscription{a, b} {
		ev := receive(t, sub)
		if ev.Name != livePort.EventLikeUpdate {
			t.Fatalf("unexpected event %s", ev.Name)
		}
		var like postPort.LikeDTO
		if err := json.Unmarshal(ev.Data, &like); err != nil {
			t.Fatal(err)
		}
		if like.ID != "p1" || like.Likes != 2 {
			t.Fatalf("unexpected payload %+v", like)
		}
	}
}

func TestViewerGaugeTracksConcurrentChurn(t *testing.T) {
	h, m := newTestHub(t)
	keep := h.Subscribe()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				h.Unsubscribe(h.Subscribe())
			}
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(m.LiveViewers); got != 1 || h.Count() != 1 {
		t.Fatalf("expected gauge and count 1, got %v and %d", got, h.Count())
	}
	h.Unsubscribe(keep)
	if got := testutil.ToFloat64(m.LiveViewers); got != 0 {
		t.Fatalf("expected gauge 0, got %v", got)
	}
}

func TestLateViewerMissesEarlierEvents(t *testing.T) {
	h, _ := newTestHub(t)
	h.NewPost(&postPort.PostDTO{ID: "early"})

	sub := h.Subscribe()
	h.NewPost(&postPort.PostDTO{ID: "late"})

	ev := receive(t, sub)
	if !strings.Contains(string(ev.Data), `"late"`) {
		t.Fatalf("expected only the late post, got %s", ev.Data)
	}
	select {
	case extra := <-sub.C:
		t.Fatalf("unexpected backlog event %s", extra.Data)
	default:
	}
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	h, m := newTestHub(t)
	sub := h.Subscribe()
	h.Unsubscribe(sub)
	h.Unsubscribe(sub)

	if _, ok := <-sub.C; ok {
		t.Fatal("channel should be closed")
	}
	if h.Count() != 0 {
		t.Fatalf("expected no viewers, have %d", h.Count())
	}
	if got := testutil.ToFloat64(m.LiveViewers); got != 0 {
		t.Fatalf("expected gauge 0, got %v", got)
	}
	h.NewPost(&postPort.PostDTO{ID: "after"})
}

func TestSlowViewerDropsInsteadOfBlocking(t *testing.T) {
	h, m := newTestHub(t)
	sub := h.Subscribe()

	for i := 0; i < DefaultBuffer+5; i++ {
		h.LikeUpdated(&postPort.LikeDTO{ID: "p", Likes: int64(i)})
	}
	if got := testutil.ToFloat64(m.LiveDropped); got != 5 {
		t.Fatalf("expected 5 dropped events, got %v", got)
	}
	if len(sub.C) != DefaultBuffer {
		t.Fatalf("expected a full buffer, got %d", len(sub.C))
	}
}

func newServer(t *testing.T, h *Hub) *httptest.Server {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws", h.ServeWebsocket)
	r.GET("/stream", h.ServeStream)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestWebsocketViewer(t *testing.T) {
	h, _ := newTestHub(t)
	srv := newServer(t, h)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	waitForViewers(t, h, 1)

	h.LikeUpdated(&postPort.LikeDTO{ID: "p1", Likes: 2})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read: %v", err)
	}
	if ev.Name != livePort.EventLikeUpdate || string(ev.Data) != `{"id":"p1","likes":2}` {
		t.Fatalf("unexpected frame %+v %s", ev, ev.Data)
	}

	conn.Close()
	waitForViewers(t, h, 0)
}

func TestStreamViewer(t *testing.T) {
	h, _ := newTestHub(t)
	srv := newServer(t, h)

	resp, err := http.Get(srv.URL + "/stream")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("unexpected content type %q", ct)
	}
	waitForViewers(t, h, 1)

	h.NewPost(&postPort.PostDTO{ID: "p9", Content: "hello"})

	reader := bufio.NewReader(resp.Body)
	var event, data string
	for data == "" {
		line, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("read stream: %v", err)
		}
		line = strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		}
	}
	if event != livePort.EventNewPost {
		t.Fatalf("unexpected event %q", event)
	}
	var p postPort.PostDTO
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		t.Fatalf("decode %q: %v", data, err)
	}
	if p.ID != "p9" || p.Content != "hello" {
		t.Fatalf("unexpected post %+v", p)
	}
}
