package http

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestStatusStreamPushesSessionStart(t *testing.T) {
	clock := &testClock{now: time.Date(2024, 11, 22, 9, 0, 0, 0, time.UTC)}
	service := newTestService(clock)
	server := httptest.NewServer(NewRouter(service, RouterOptions{}))
	defer server.Close()

	conn := dialStatus(t, server)
	defer conn.Close()

	msgType, payload := readNext(conn, t, "status")
	if payload["testStarted"] != false {
		t.Fatalf("expected closed initial status, got %v (%s)", payload, msgType)
	}

	ada, err := service.SignIn(context.Background(), "Ada", "Lovelace")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if _, err := service.StartSession(context.Background(), ada.ID, nil); err != nil {
		t.Fatalf("start session: %v", err)
	}

	_, payload = readNext(conn, t, "status")
	if payload["testStarted"] != true || payload["remainingTimeMs"] != float64(time.Hour/time.Millisecond) {
		t.Fatalf("expected open status after start, got %v", payload)
	}
}

func TestStatusStreamAnswersRequests(t *testing.T) {
	clock := &testClock{now: time.Date(2024, 11, 22, 9, 0, 0, 0, time.UTC)}
	server := httptest.NewServer(NewRouter(newTestService(clock), RouterOptions{}))
	defer server.Close()

	conn := dialStatus(t, server)
	defer conn.Close()
	readNext(conn, t, "status")

	if err := conn.WriteJSON(map[string]string{"type": "status"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	readNext(conn, t, "status")

	if err := conn.WriteJSON(map[string]string{"type": "answer"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, payload := readNext(conn, t, "error")
	if payload["message"] != "unsupported message type" {
		t.Fatalf("unexpected error payload %v", payload)
	}
}

func TestStatusTickerRefreshesSubscribers(t *testing.T) {
	clock := &testClock{now: time.Date(2024, 11, 22, 9, 0, 0, 0, time.UTC)}
	service := newTestService(clock)
	server := httptest.NewServer(NewRouter(service, RouterOptions{}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go service.RunStatusTicker(ctx, 10*time.Millisecond)

	conn := dialStatus(t, server)
	defer conn.Close()
	readNext(conn, t, "status")
	readNext(conn, t, "status")
}

func dialStatus(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	u := "ws" + server.URL[len("http"):] + "/ws/status"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s", expect, msg.Type)
	}
	return msg.Type, msg.Payload
}
