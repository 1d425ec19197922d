package web

import (
    "context"
    "errors"
    "fmt"
    "math"
    "net/http"
    "reflect"
    "sync"

    "github.com/gorilla/websocket"
    "github.com/mitchellh/mapstructure"
    "go.uber.org/zap"

    "github.com/jaminalder/tant-fant/internal/app"
)

// Message is the JSON envelope exchanged over the game websocket.
type Message struct {
    Type     string      `json:"type"`
    Contents interface{} `json:"contents,omitempty"`
}

type clickRequest struct {
    Position *int `mapstructure:"position"`
}

type jumpRequest struct {
    Turn *int `mapstructure:"turn"`
}

type errorResponse struct {
    Reason string `json:"reason"`
}

var (
    errMissingField = errors.New("missing field")
    errBadContents  = errors.New("unable to parse contents")
)

// wholeNumbers rejects JSON numbers with a fraction before they reach an int
// field.
func wholeNumbers(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
    if to.Kind() != reflect.Int || (from.Kind() != reflect.Float64 && from.Kind() != reflect.Float32) {
        return data, nil
    }
    f := reflect.ValueOf(data).Float()
    if f != math.Trunc(f) {
        return nil, fmt.Errorf("%v is not a whole number", f)
    }
    return data, nil
}

func decodeContents(contents interface{}, out interface{}) error {
    dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
        DecodeHook: wholeNumbers,
        Result:     out,
    })
    if err != nil {
        return err
    }
    if err := dec.Decode(contents); err != nil {
        return fmt.Errorf("%w: %v", errBadContents, err)
    }
    return nil
}

// socketConn serialises writes; gorilla connections allow one writer at a time.
type socketConn struct {
    conn *websocket.Conn
    mu   sync.Mutex
}

func (s *socketConn) WriteMessage(m Message) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.conn.WriteJSON(m)
}

func (s *socketConn) ReadMessage() (Message, error) {
    var m Message
    err := s.conn.ReadJSON(&m)
    return m, err
}

func (s *socketConn) Error(reason string) error {
    return s.WriteMessage(Message{Type: "error", Contents: errorResponse{Reason: reason}})
}

func stateMessage(gs app.GameState) Message {
    return Message{Type: "state", Contents: gs}
}

// socket upgrades to a websocket that accepts click and jump requests and
// pushes the game state after every change.
func (h *handlers) socket(w http.ResponseWriter, r *http.Request) {
    gs, ok := h.lookup(w, r)
    if !ok {
        return
    }
    c, err := h.upgrader.Upgrade(w, r, nil)
    if err != nil {
        h.log.Warn("websocket upgrade failed", zap.String("game", gs.ID), zap.Error(err))
        return
    }
    conn := &socketConn{conn: c}
    defer c.Close()

    ctx, cancel := context.WithCancel(r.Context())
    defer cancel()
    ch, unsub, err := h.svc.Subscribe(ctx, gs.ID)
    if err != nil {
        _ = conn.Error(err.Error())
        return
    }
    defer unsub()

    if err := conn.WriteMessage(stateMessage(*gs)); err != nil {
        return
    }
    go func() {
        for st := range ch {
            if err := conn.WriteMessage(stateMessage(st)); err != nil {
                break
            }
        }
        // dropped or finished; unblock the reader
        _ = c.Close()
    }()

    for {
        msg, err := conn.ReadMessage()
        if err != nil {
            if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
                h.log.Debug("websocket closed", zap.String("game", gs.ID), zap.Error(err))
            }
            return
        }
        if err := h.handleMessage(conn, gs.ID, msg); err != nil {
            return
        }
    }
}

// handleMessage serves one client message. Only write failures are returned;
// bad requests are answered with an error message.
func (h *handlers) handleMessage(conn *socketConn, id string, msg Message) error {
    switch msg.Type {
    case "click":
        var req clickRequest
        if err := decodeContents(msg.Contents, &req); err != nil {
            return conn.Error(err.Error())
        }
        if req.Position == nil {
            return conn.Error(fmt.Errorf("%w: position", errMissingField).Error())
        }
        if _, _, err := h.svc.Click(id, *req.Position); err != nil {
            return conn.Error(err.Error())
        }
        // changes reach this connection through the subscription
        return nil

    case "jump":
        var req jumpRequest
        if err := decodeContents(msg.Contents, &req); err != nil {
            return conn.Error(err.Error())
        }
        if req.Turn == nil {
            return conn.Error(fmt.Errorf("%w: turn", errMissingField).Error())
        }
        if _, err := h.svc.JumpTo(id, *req.Turn); err != nil {
            return conn.Error(err.Error())
        }
        return nil

    case "state":
        gs, ok := h.svc.Get(id)
        if !ok {
            return conn.Error(app.ErrNotFound.Error())
        }
        return conn.WriteMessage(stateMessage(*gs))

    default:
        return conn.Error(fmt.Sprintf("%s is an invalid message type", msg.Type))
    }
}
