package app

import (
    "context"
    "errors"
    "sync"
    "time"

    "go.uber.org/zap"

    "github.com/jaminalder/tant-fant/internal/domain"
    "github.com/jaminalder/tant-fant/internal/session"
)

// Errors exposed by the service layer.
var (
    ErrNotFound = errors.New("game not found")
)

// DefaultSubscriberBuffer is the per-subscriber channel capacity.
const DefaultSubscriberBuffer = 1

// GameState is a snapshot of one game as seen by renderers.
type GameState struct {
    ID      string        `json:"id"`
    Game    session.State `json:"game"`
    Created time.Time     `json:"created"`
    Updated time.Time     `json:"updated"`
}

type entry struct {
    id      string
    ctl     *session.Controller
    created time.Time
    updated time.Time
}

func (e *entry) snapshot() GameState {
    return GameState{ID: e.id, Game: e.ctl.Snapshot(), Created: e.created, Updated: e.updated}
}

type subscriber struct {
    ch        chan GameState
    closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// Service manages games and subscribers. Every controller is only touched
// while holding mu.
type Service struct {
    log    *zap.Logger
    mu     sync.Mutex
    games  map[string]*entry
    subs   map[string]map[*subscriber]struct{}
    buffer int
}

// NewService creates an empty service. A nil logger disables logging.
func NewService(log *zap.Logger) *Service {
    if log == nil {
        log = zap.NewNop()
    }
    return &Service{
        log:    log,
        games:  make(map[string]*entry),
        subs:   make(map[string]map[*subscriber]struct{}),
        buffer: DefaultSubscriberBuffer,
    }
}

// SetSubscriberBuffer sets the channel capacity for subscriptions made after
// the call. Values below 1 are raised to 1.
func (s *Service) SetSubscriberBuffer(n int) {
    s.mu.Lock()
    defer s.mu.Unlock()
    if n < 1 {
        n = 1
    }
    s.buffer = n
}

// CreateGame creates and registers a new game.
func (s *Service) CreateGame() (*GameState, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    now := time.Now()
    e := &entry{id: newGameID(), ctl: session.New(), created: now, updated: now}
    s.games[e.id] = e
    s.log.Info("game created", zap.String("game", e.id))
    gs := e.snapshot()
    return &gs, nil
}

// Get returns a copy of the game state if present.
func (s *Service) Get(id string) (*GameState, bool) {
    s.mu.Lock()
    defer s.mu.Unlock()
    e, ok := s.games[id]
    if !ok {
        return nil, false
    }
    gs := e.snapshot()
    return &gs, true
}

// Click forwards a click to the game and broadcasts the new state when
// anything changed.
func (s *Service) Click(id string, pos int) (*GameState, session.Action, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    e, ok := s.games[id]
    if !ok {
        return nil, session.Ignored, ErrNotFound
    }
    action := e.ctl.Click(pos)
    s.log.Debug("click",
        zap.String("game", id),
        zap.Int("pos", pos),
        zap.Int("turn", e.ctl.Turn()),
        zap.Stringer("action", action),
    )
    if action == session.Ignored {
        gs := e.snapshot()
        return &gs, action, nil
    }
    e.updated = time.Now()
    if w := e.ctl.Winner(); action.Changed() && w != domain.Empty {
        s.log.Info("game won", zap.String("game", id), zap.Stringer("winner", w), zap.Int("turn", e.ctl.Turn()))
    }
    gs := s.publishLocked(e)
    return &gs, action, nil
}

// JumpTo moves the game to an earlier or later recorded turn.
func (s *Service) JumpTo(id string, turn int) (*GameState, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    e, ok := s.games[id]
    if !ok {
        return nil, ErrNotFound
    }
    if err := e.ctl.JumpTo(turn); err != nil {
        return nil, err
    }
    s.log.Debug("jump", zap.String("game", id), zap.Int("turn", turn))
    e.updated = time.Now()
    gs := s.publishLocked(e)
    return &gs, nil
}

// publishLocked fans a snapshot of e out to its subscribers. Sends never
// block; a subscriber with a full buffer is closed and removed.
func (s *Service) publishLocked(e *entry) GameState {
    gs := e.snapshot()
    set := s.subs[e.id]
    dropped := 0
    for sub := range set {
        select {
        case sub.ch <- gs:
        default:
            sub.close()
            delete(set, sub)
            dropped++
        }
    }
    if dropped > 0 {
        s.log.Warn("dropped slow subscribers", zap.String("game", e.id), zap.Int("count", dropped))
    }
    return gs
}

// Subscribe registers a subscriber for a game. The channel is closed when ctx
// ends, when unsubscribe is called or when the subscriber falls behind.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan GameState, func(), error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    if _, ok := s.games[id]; !ok {
        return nil, nil, ErrNotFound
    }
    set := s.subs[id]
    if set == nil {
        set = make(map[*subscriber]struct{})
        s.subs[id] = set
    }
    sub := &subscriber{ch: make(chan GameState, s.buffer)}
    set[sub] = struct{}{}

    done := make(chan struct{})
    unsubOnce := &sync.Once{}
    unsub := func() {
        unsubOnce.Do(func() {
            close(done)
            s.mu.Lock()
            if set, ok := s.subs[id]; ok {
                delete(set, sub)
                if len(set) == 0 {
                    delete(s.subs, id)
                }
            }
            sub.close()
            s.mu.Unlock()
        })
    }
    go func() {
        select {
        case <-ctx.Done():
            unsub()
        case <-done:
        }
    }()
    return sub.ch, unsub, nil
}
