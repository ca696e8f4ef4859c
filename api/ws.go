package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/graphql-go/graphql"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"taskboard-api/graph"
)

// graphql-transport-ws message types.
const (
	wsConnectionInit = "connection_init"
	wsConnectionAck  = "connection_ack"
	wsPing           = "ping"
	wsPong           = "pong"
	wsSubscribe      = "subscribe"
	wsNext           = "next"
	wsError          = "error"
	wsComplete       = "complete"
)

// Close codes defined by the graphql-transport-ws protocol.
const (
	wsCloseInitTimeout  = 4408
	wsCloseUnauthorized = 4401
	wsCloseBadRequest   = 4400
	wsCloseDuplicateOp  = 4409
)

const (
	connectionInitTimeout = 10 * time.Second
	wsWriteTimeout        = 10 * time.Second
)

type wsMessage struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func graphqlWS(schema graphql.Schema, auth Authenticator, logger *log.Logger) echo.HandlerFunc {
	upgrader := websocket.Upgrader{
		Subprotocols: []string{"graphql-transport-ws"},
		CheckOrigin:  func(*http.Request) bool { return true },
	}
	return func(c echo.Context) error {
		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			return err
		}
		sess := &wsSession{
			conn:    conn,
			schema:  schema,
			auth:    auth,
			logger:  logger,
			baseCtx: c.Request().Context(),
			header:  c.Request().Header.Get(echo.HeaderAuthorization),
			ops:     make(map[string]context.CancelFunc),
		}
		sess.run()
		return nil
	}
}

// wsSession handles one subscription connection.
type wsSession struct {
	conn    *websocket.Conn
	schema  graphql.Schema
	auth    Authenticator
	logger  *log.Logger
	baseCtx context.Context
	header  string
	userID  string

	writeMu sync.Mutex
	opsMu   sync.Mutex
	ops     map[string]context.CancelFunc
}

func (s *wsSession) run() {
	defer s.cancelAll()
	defer s.conn.Close()

	if !s.handshake() {
		return
	}

	for {
		var msg wsMessage
		if err := s.readMessage(&msg); err != nil {
			return
		}
		switch msg.Type {
		case wsPing:
			s.writeMessage(wsMessage{Type: wsPong})
		case wsPong:
			// keepalive reply, nothing to do
		case wsSubscribe:
			if !s.handleSubscribe(msg) {
				return
			}
		case wsComplete:
			s.cancelOp(msg.ID)
		default:
			s.closeWith(wsCloseBadRequest, "unexpected message type")
			return
		}
	}
}

// handshake performs connection_init: the client has one chance (and a
// deadline) to present a valid bearer token via connection params or the
// upgrade request's Authorization header.
func (s *wsSession) handshake() bool {
	_ = s.conn.SetReadDeadline(time.Now().Add(connectionInitTimeout))
	var msg wsMessage
	if err := s.readMessage(&msg); err != nil {
		s.closeWith(wsCloseInitTimeout, "connection initialisation timeout")
		return false
	}
	if msg.Type != wsConnectionInit {
		s.closeWith(wsCloseBadRequest, "connection_init expected")
		return false
	}
	_ = s.conn.SetReadDeadline(time.Time{})

	authValue := s.header
	if len(msg.Payload) > 0 {
		var params map[string]interface{}
		if err := sonic.Unmarshal(msg.Payload, &params); err != nil {
			s.closeWith(wsCloseBadRequest, "invalid connection params")
			return false
		}
		if v, ok := params["Authorization"].(string); ok && v != "" {
			authValue = v
		} else if v, ok := params["authorization"].(string); ok && v != "" {
			authValue = v
		}
	}

	userID, err := s.auth.UserIDFromAuthHeader(authValue)
	if err != nil {
		s.closeWith(wsCloseUnauthorized, "Unauthorized")
		return false
	}
	s.userID = userID
	s.writeMessage(wsMessage{Type: wsConnectionAck})
	return true
}

func (s *wsSession) handleSubscribe(msg wsMessage) bool {
	if msg.ID == "" {
		s.closeWith(wsCloseBadRequest, "subscribe requires an id")
		return false
	}
	var req graphqlRequest
	if err := sonic.Unmarshal(msg.Payload, &req); err != nil {
		s.closeWith(wsCloseBadRequest, "invalid subscribe payload")
		return false
	}

	s.opsMu.Lock()
	if _, exists := s.ops[msg.ID]; exists {
		s.opsMu.Unlock()
		s.closeWith(wsCloseDuplicateOp, "subscriber already exists: "+msg.ID)
		return false
	}
	ctx, cancel := context.WithCancel(graph.WithUserID(s.baseCtx, s.userID))
	s.ops[msg.ID] = cancel
	s.opsMu.Unlock()

	results := graphql.Subscribe(graphql.Params{
		Schema:         s.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})

	go func() {
		defer s.cancelOp(msg.ID)
		for res := range results {
			if res.Data == nil && len(res.Errors) > 0 {
				payload, err := sonic.Marshal(res.Errors)
				if err != nil {
					s.logger.WithField("op", msg.ID).Errorf("marshal errors: %v", err)
					return
				}
				s.writeMessage(wsMessage{ID: msg.ID, Type: wsError, Payload: payload})
				return
			}
			payload, err := sonic.Marshal(res)
			if err != nil {
				s.logger.WithField("op", msg.ID).Errorf("marshal result: %v", err)
				return
			}
			s.writeMessage(wsMessage{ID: msg.ID, Type: wsNext, Payload: payload})
		}
		s.writeMessage(wsMessage{ID: msg.ID, Type: wsComplete})
	}()
	return true
}

func (s *wsSession) readMessage(msg *wsMessage) error {
	_, data, err := s.conn.ReadMessage()
	if err != nil {
		return err
	}
	return sonic.Unmarshal(data, msg)
}

func (s *wsSession) writeMessage(msg wsMessage) {
	data, err := sonic.Marshal(msg)
	if err != nil {
		s.logger.Errorf("marshal ws message: %v", err)
		return
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.logger.Debugf("write ws message: %v", err)
	}
}

func (s *wsSession) closeWith(code int, reason string) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	deadline := time.Now().Add(wsWriteTimeout)
	_ = s.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
	_ = s.conn.Close()
}

func (s *wsSession) cancelOp(id string) {
	s.opsMu.Lock()
	cancel, ok := s.ops[id]
	if ok {
		delete(s.ops, id)
	}
	s.opsMu.Unlock()
	if ok {
		cancel()
	}
}

func (s *wsSession) cancelAll() {
	s.opsMu.Lock()
	cancels := make([]context.CancelFunc, 0, len(s.ops))
	for id, cancel := range s.ops {
		cancels = append(cancels, cancel)
		delete(s.ops, id)
	}
	s.opsMu.Unlock()
	for _, cancel := range cancels {
		cancel()
	}
}
