package api

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"taskboard-api/domain"
	"taskboard-api/pubsub"
)

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/graphql"
	dialer := websocket.Dialer{Subprotocols: []string{"graphql-transport-ws"}}
	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial ws: %v", err)
	}
	return conn
}

func wsSend(t *testing.T, conn *websocket.Conn, msg wsMessage) {
	t.Helper()
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal ws message: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		t.Fatalf("write ws message: %v", err)
	}
}

func wsRead(t *testing.T, conn *websocket.Conn) wsMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read ws message: %v", err)
	}
	var msg wsMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal ws message: %v (%s)", err, data)
	}
	return msg
}

func initConnection(t *testing.T, conn *websocket.Conn, token string) {
	t.Helper()
	payload, _ := json.Marshal(map[string]string{"Authorization": "Bearer " + token})
	wsSend(t, conn, wsMessage{Type: wsConnectionInit, Payload: payload})
	ack := wsRead(t, conn)
	if ack.Type != wsConnectionAck {
		t.Fatalf("expected connection_ack, got %q", ack.Type)
	}
}

func TestWSDeliversTaskEvents(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.seedUser(t, "ws@example.com")
	srv := httptest.NewServer(ts.e)
	defer srv.Close()

	conn := dialWS(t, srv)
	defer conn.Close()
	initConnection(t, conn, token)

	sub, _ := json.Marshal(graphqlRequest{
		Query: `subscription { taskUpdated(boardId:"board-1") { type task { id title priority status } } }`,
	})
	wsSend(t, conn, wsMessage{ID: "1", Type: wsSubscribe, Payload: sub})

	topic := pubsub.TaskTopic("board-1")
	deadline := time.Now().Add(3 * time.Second)
	for ts.r.Bus.Subscribers(topic) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscription never attached")
		}
		time.Sleep(5 * time.Millisecond)
	}

	ts.r.Bus.Publish(topic, domain.TaskEvent{
		Type: domain.TaskCreated,
		Task: domain.Task{
			ID:       "t1",
			ListID:   "l1",
			Title:    "Live task",
			Priority: domain.PriorityHigh,
			Status:   domain.StatusTodo,
			Tags:     []string{},
		},
	})

	msg := wsRead(t, conn)
	if msg.Type != wsNext || msg.ID != "1" {
		t.Fatalf("expected next for op 1, got %+v", msg)
	}
	var result struct {
		Data struct {
			TaskUpdated struct {
				Type string `json:"type"`
				Task struct {
					ID    string `json:"id"`
					Title string `json:"title"`
				} `json:"task"`
			} `json:"taskUpdated"`
		} `json:"data"`
	}
	if err := json.Unmarshal(msg.Payload, &result); err != nil {
		t.Fatalf("decode next payload: %v (%s)", err, msg.Payload)
	}
	if result.Data.TaskUpdated.Type != "CREATED" {
		t.Fatalf("expected CREATED, got %q", result.Data.TaskUpdated.Type)
	}
	if result.Data.TaskUpdated.Task.ID != "t1" || result.Data.TaskUpdated.Task.Title != "Live task" {
		t.Fatalf("unexpected task in event: %+v", result.Data.TaskUpdated.Task)
	}
}

func TestWSRejectsAnonymous(t *testing.T) {
	ts := newTestServer(t)
	srv := httptest.NewServer(ts.e)
	defer srv.Close()

	conn := dialWS(t, srv)
	defer conn.Close()
	wsSend(t, conn, wsMessage{Type: wsConnectionInit})

	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, _, err := conn.ReadMessage()
	closeErr, ok := err.(*websocket.CloseError)
	if !ok {
		t.Fatalf("expected close error, got %v", err)
	}
	if closeErr.Code != wsCloseUnauthorized {
		t.Fatalf("expected close code %d, got %d", wsCloseUnauthorized, closeErr.Code)
	}
}

func TestWSRejectsNonInitFirstMessage(t *testing.T) {
	ts := newTestServer(t)
	srv := httptest.NewServer(ts.e)
	defer srv.Close()

	conn := dialWS(t, srv)
	defer conn.Close()
	wsSend(t, conn, wsMessage{ID: "1", Type: wsSubscribe})

	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, _, err := conn.ReadMessage()
	closeErr, ok := err.(*websocket.CloseError)
	if !ok {
		t.Fatalf("expected close error, got %v", err)
	}
	if closeErr.Code != wsCloseBadRequest {
		t.Fatalf("expected close code %d, got %d", wsCloseBadRequest, closeErr.Code)
	}
}

func TestWSPingPong(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.seedUser(t, "ws@example.com")
	srv := httptest.NewServer(ts.e)
	defer srv.Close()

	conn := dialWS(t, srv)
	defer conn.Close()
	initConnection(t, conn, token)

	wsSend(t, conn, wsMessage{Type: wsPing})
	msg := wsRead(t, conn)
	if msg.Type != wsPong {
		t.Fatalf("expected pong, got %q", msg.Type)
	}
}

func TestWSDuplicateSubscriptionID(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.seedUser(t, "ws@example.com")
	srv := httptest.NewServer(ts.e)
	defer srv.Close()

	conn := dialWS(t, srv)
	defer conn.Close()
	initConnection(t, conn, token)

	sub, _ := json.Marshal(graphqlRequest{
		Query: `subscription { taskUpdated(boardId:"board-1") { type } }`,
	})
	wsSend(t, conn, wsMessage{ID: "dup", Type: wsSubscribe, Payload: sub})
	wsSend(t, conn, wsMessage{ID: "dup", Type: wsSubscribe, Payload: sub})

	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		_, _, err := conn.ReadMessage()
		if err == nil {
			continue
		}
		closeErr, ok := err.(*websocket.CloseError)
		if !ok {
			t.Fatalf("expected close error, got %v", err)
		}
		if closeErr.Code != wsCloseDuplicateOp {
			t.Fatalf("expected close code %d, got %d", wsCloseDuplicateOp, closeErr.Code)
		}
		if !strings.Contains(closeErr.Text, "dup") {
			t.Fatalf("close reason should name the op: %q", closeErr.Text)
		}
		return
	}
}

func TestWSCompleteDetachesSubscriber(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.seedUser(t, "ws@example.com")
	srv := httptest.NewServer(ts.e)
	defer srv.Close()

	conn := dialWS(t, srv)
	defer conn.Close()
	initConnection(t, conn, token)

	sub, _ := json.Marshal(graphqlRequest{
		Query: `subscription { taskUpdated(boardId:"board-2") { type } }`,
	})
	wsSend(t, conn, wsMessage{ID: "1", Type: wsSubscribe, Payload: sub})

	topic := pubsub.TaskTopic("board-2")
	deadline := time.Now().Add(3 * time.Second)
	for ts.r.Bus.Subscribers(topic) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscription never attached")
		}
		time.Sleep(5 * time.Millisecond)
	}

	wsSend(t, conn, wsMessage{ID: "1", Type: wsComplete})

	deadline = time.Now().Add(3 * time.Second)
	for ts.r.Bus.Subscribers(topic) != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("subscriber still attached after complete: %d", ts.r.Bus.Subscribers(topic))
		}
		time.Sleep(5 * time.Millisecond)
	}
}
