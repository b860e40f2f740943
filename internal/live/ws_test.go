package live

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialTest(t *testing.T, h *Handler) *websocket.Conn {
	t.Helper()

	server := httptest.NewServer(h)
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWebSocket_SubscribeRoundTrip(t *testing.T) {
	source := &fakeSource{}
	cfg := testConfig()
	cfg.PricesInterval = time.Hour

	hub := NewHub(cfg, source, nil)
	conn := dialTest(t, NewHandler(hub, "", nil))

	sub := `{"type":"subscribe:prices","symbols":["EURUSD","USDJPY"]}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(sub)); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	var ev struct {
		Type     string                     `json:"type"`
		Degraded bool                       `json:"degraded"`
		Data     map[string]json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}

	if ev.Type != "prices:update" {
		t.Errorf("Type = %q, want prices:update", ev.Type)
	}
	if ev.Degraded {
		t.Error("Degraded = true, want false")
	}
	if len(ev.Data) != 2 {
		t.Errorf("len(Data) = %d, want 2 symbols", len(ev.Data))
	}

	// The degraded flag is part of the envelope on every push, healthy
	// ones included.
	if !strings.Contains(string(data), `"degraded"`) {
		t.Errorf("event = %s, want explicit degraded field", data)
	}
}

func TestWebSocket_VanishedClientTornDown(t *testing.T) {
	source := &fakeSource{}
	cfg := testConfig()
	cfg.PingInterval = 20 * time.Millisecond
	cfg.PongWait = 100 * time.Millisecond

	hub := NewHub(cfg, source, nil)
	conn := dialTest(t, NewHandler(hub, "", nil))

	sub := `{"type":"subscribe:prices","symbols":["EURUSD"]}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(sub)); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if !waitFor(t, time.Second, func() bool { return source.priceCalls.Load() >= 1 }) {
		t.Fatal("no poll after subscribe")
	}

	// The client goes silent without a close frame: it never reads, so
	// it never answers the server's pings. The read deadline must fire
	// and tear the session down.
	if !waitFor(t, 2*time.Second, func() bool { return hub.SessionCount() == 0 }) {
		t.Fatal("silent client's session never torn down")
	}

	calls := source.priceCalls.Load()
	time.Sleep(150 * time.Millisecond)
	if got := source.priceCalls.Load(); got != calls {
		t.Errorf("price polls grew from %d to %d after teardown", calls, got)
	}
}

func TestWebSocket_DisconnectStopsTasks(t *testing.T) {
	source := &fakeSource{}
	hub := NewHub(testConfig(), source, nil)
	conn := dialTest(t, NewHandler(hub, "", nil))

	sub := `{"type":"subscribe:positions"}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(sub)); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if !waitFor(t, time.Second, func() bool { return hub.SessionCount() == 1 }) {
		t.Fatal("session never registered")
	}
	if !waitFor(t, time.Second, func() bool { return source.positionCalls.Load() >= 1 }) {
		t.Fatal("no poll after subscribe")
	}

	conn.Close()

	if !waitFor(t, time.Second, func() bool { return hub.SessionCount() == 0 }) {
		t.Fatal("session not torn down after disconnect")
	}

	// Polling must stop once the session is gone.
	calls := source.positionCalls.Load()
	time.Sleep(200 * time.Millisecond)
	if got := source.positionCalls.Load(); got != calls {
		t.Errorf("position polls grew from %d to %d after disconnect", calls, got)
	}
}

func TestWebSocket_MalformedMessageIgnored(t *testing.T) {
	hub := NewHub(testConfig(), &fakeSource{}, nil)
	conn := dialTest(t, NewHandler(hub, "", nil))

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	// The connection must survive the garbage.
	sub := `{"type":"subscribe:account"}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(sub)); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !strings.Contains(string(data), "account:update") {
		t.Errorf("event = %s, want account:update", data)
	}
}
