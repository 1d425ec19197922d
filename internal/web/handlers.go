package web

import (
    "bufio"
    "bytes"
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "net/http"
    "strconv"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/gorilla/websocket"
    "go.uber.org/zap"

    "github.com/jaminalder/tant-fant/internal/app"
    "github.com/jaminalder/tant-fant/internal/session"
)

const defaultHeartbeat = 15 * time.Second

type handlers struct {
    svc       *app.Service
    tpl       *templates
    log       *zap.Logger
    heartbeat time.Duration
    origins   []string
    upgrader  websocket.Upgrader
}

func (h *handlers) renderBoard(gs app.GameState) []byte {
    return renderTemplate(h.tpl.board, "", newBoardData(gs))
}

func (h *handlers) writeBoard(w http.ResponseWriter, gs app.GameState) {
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    _, _ = w.Write(h.renderBoard(gs))
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    w.WriteHeader(http.StatusOK)
    _, _ = w.Write(renderTemplate(h.tpl.index, "base", nil))
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
    gs, err := h.svc.CreateGame()
    if err != nil {
        http.Error(w, "failed to create", http.StatusInternalServerError)
        return
    }
    http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
}

// lookup resolves the {id} URL parameter, answering 404 itself when the game
// does not exist.
func (h *handlers) lookup(w http.ResponseWriter, r *http.Request) (*app.GameState, bool) {
    id := chi.URLParam(r, "id")
    if !app.ValidID(id) {
        http.NotFound(w, r)
        return nil, false
    }
    gs, ok := h.svc.Get(id)
    if !ok {
        http.NotFound(w, r)
        return nil, false
    }
    return gs, true
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
    gs, ok := h.lookup(w, r)
    if !ok {
        return
    }
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    w.WriteHeader(http.StatusOK)
    // Render page with embedded board container
    _, _ = w.Write(renderTemplate(h.tpl.game, "base", newBoardData(*gs)))
}

func (h *handlers) state(w http.ResponseWriter, r *http.Request) {
    gs, ok := h.lookup(w, r)
    if !ok {
        return
    }
    w.Header().Set("Content-Type", "application/json")
    _ = json.NewEncoder(w).Encode(gs)
}

// click never reports a rejected click; the returned board simply did not
// change.
func (h *handlers) click(w http.ResponseWriter, r *http.Request) {
    if _, ok := h.lookup(w, r); !ok {
        return
    }
    _ = r.ParseForm()
    pos, err := strconv.Atoi(r.Form.Get("pos"))
    if err != nil {
        pos = -1
    }
    gs, _, err := h.svc.Click(chi.URLParam(r, "id"), pos)
    if err != nil {
        http.NotFound(w, r)
        return
    }
    h.writeBoard(w, *gs)
}

func (h *handlers) jump(w http.ResponseWriter, r *http.Request) {
    if _, ok := h.lookup(w, r); !ok {
        return
    }
    _ = r.ParseForm()
    turn, err := strconv.Atoi(r.Form.Get("turn"))
    if err != nil {
        http.Error(w, "bad turn", http.StatusBadRequest)
        return
    }
    gs, err := h.svc.JumpTo(chi.URLParam(r, "id"), turn)
    switch {
    case errors.Is(err, session.ErrTurnOutOfRange):
        http.Error(w, "turn out of range", http.StatusBadRequest)
        return
    case err != nil:
        http.NotFound(w, r)
        return
    }
    h.writeBoard(w, *gs)
}

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
    gs, ok := h.lookup(w, r)
    if !ok {
        return
    }
    w.Header().Set("Content-Type", "text/event-stream")
    w.Header().Set("Cache-Control", "no-cache")
    w.Header().Set("X-Accel-Buffering", "no")
    // In tests or non-EventSource requests, just acknowledge headers and return
    if r.Header.Get("Accept") != "text/event-stream" {
        w.WriteHeader(http.StatusOK)
        return
    }
    flusher, ok := w.(http.Flusher)
    if !ok {
        w.WriteHeader(http.StatusOK)
        return
    }
    ctx := r.Context()
    ch, unsub, err := h.svc.Subscribe(ctx, gs.ID)
    if err != nil {
        w.WriteHeader(http.StatusOK)
        return
    }
    defer unsub()
    ticker := time.NewTicker(h.heartbeat)
    defer ticker.Stop()
    // Initial flush of headers
    flusher.Flush()
    for {
        select {
        case <-ctx.Done():
            return
        case <-ticker.C:
            _, _ = io.WriteString(w, ": ping\n\n")
            flusher.Flush()
        case st, ok := <-ch:
            if !ok {
                return
            }
            writeEvent(w, "board", h.renderBoard(st))
            flusher.Flush()
        }
    }
}

// writeEvent emits one server-sent event, prefixing every payload line.
func writeEvent(w io.Writer, event string, data []byte) {
    _, _ = fmt.Fprintf(w, "event: %s\n", event)
    sc := bufio.NewScanner(bytes.NewReader(data))
    for sc.Scan() {
        _, _ = fmt.Fprintf(w, "data: %s\n", sc.Text())
    }
    _, _ = io.WriteString(w, "\n")
}
