package api

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/buildnow/buildnow-api/internal/models"
)

func dialStepHelp(t *testing.T, srv *Server) *websocket.Conn {
	t.Helper()

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ai-step-help/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestStepHelpWebSocket(t *testing.T) {
	srv := newTestServer(&stubCompleter{reply: "Use a loop."}, nil)
	conn := dialStepHelp(t, srv)

	msg := stepHelpWSMessage{
		Project: &models.StepHelpProject{
			Title: "Task Tracker",
			Steps: []string{"set up HTML", "wire up JS"},
		},
		CurrentStepIndex: 1,
		Question:         "How do I iterate?",
	}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write: %v", err)
	}

	var reply stepHelpWSReply
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read: %v", err)
	}
	if reply.Error != "" {
		t.Fatalf("unexpected error reply: %s", reply.Error)
	}
	if reply.Answer != "Use a loop." {
		t.Errorf("answer = %q", reply.Answer)
	}
}

func TestStepHelpWebSocketValidationKeepsSocketOpen(t *testing.T) {
	srv := newTestServer(&stubCompleter{reply: "ok"}, nil)
	conn := dialStepHelp(t, srv)

	// Invalid question first; the socket reports the error and stays usable.
	if err := conn.WriteJSON(stepHelpWSMessage{Question: ""}); err != nil {
		t.Fatalf("write: %v", err)
	}

	var reply stepHelpWSReply
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read: %v", err)
	}
	if reply.Error == "" {
		t.Fatal("expected validation error reply")
	}

	msg := stepHelpWSMessage{
		Project:          &models.StepHelpProject{Title: "T", Steps: []string{"a"}},
		CurrentStepIndex: 0,
		Question:         "help",
	}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write after error: %v", err)
	}
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read after error: %v", err)
	}
	if reply.Answer != "ok" {
		t.Errorf("answer = %q", reply.Answer)
	}
}
