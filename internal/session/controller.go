// Package session tracks one game: its board history, the live turn and the
// pending source selection of the movement phase.
package session

import (
    "errors"

    "github.com/jaminalder/tant-fant/internal/domain"
)

// NoSelection marks the absence of a selected source cell.
const NoSelection = -1

// ErrTurnOutOfRange is returned by JumpTo for turns outside the history.
var ErrTurnOutOfRange = errors.New("turn out of range")

// Action describes what a click did.
type Action uint8

const (
    Ignored Action = iota
    Placed
    Selected
    Deselected
    Moved
)

func (a Action) String() string {
    switch a {
    case Placed:
        return "placed"
    case Selected:
        return "selected"
    case Deselected:
        return "deselected"
    case Moved:
        return "moved"
    default:
        return "ignored"
    }
}

// Changed reports whether the action committed a new board.
func (a Action) Changed() bool { return a == Placed || a == Moved }

// Controller is not safe for concurrent use.
type Controller struct {
    history   []domain.Board
    turn      int
    selection int

    // derived from history[turn], refreshed on every commit and jump
    active domain.Cell
    winner domain.Cell
    legal  map[int][]int
}

// New returns a controller at turn 0 with an empty board.
func New() *Controller {
    c := &Controller{history: []domain.Board{{}}, selection: NoSelection}
    c.refresh()
    return c
}

func (c *Controller) refresh() {
    b := c.history[c.turn]
    c.active = domain.ActiveMark(c.turn)
    c.winner = domain.Winner(c.turn, b)
    c.legal = nil
    if c.winner == domain.Empty && domain.PhaseOf(c.turn) == domain.Movement {
        c.legal = domain.LegalMoves(b, c.active)
    }
}

// Click handles a player click on pos. Rejected clicks leave history and turn
// untouched; only the selection may change.
func (c *Controller) Click(pos int) Action {
    if c.winner != domain.Empty {
        return Ignored
    }
    if pos < 0 || pos >= len(domain.Board{}) {
        return Ignored
    }
    b := c.history[c.turn]

    if domain.PhaseOf(c.turn) == domain.Placement {
        next, err := domain.Place(b, c.active, pos)
        if err != nil {
            return Ignored
        }
        c.commit(next)
        return Placed
    }

    if c.selection == NoSelection {
        if b[pos] == c.active {
            c.selection = pos
            return Selected
        }
        return Ignored
    }

    if next, err := domain.Slide(b, c.active, c.selection, pos); err == nil {
        c.commit(next)
        return Moved
    }
    if b[pos] == c.active {
        c.selection = pos
        return Selected
    }
    // keep the prior selection on a click that neither moves nor re-targets
    return Ignored
}

// Deselect clears any pending selection.
func (c *Controller) Deselect() Action {
    if c.selection == NoSelection {
        return Ignored
    }
    c.selection = NoSelection
    return Deselected
}

func (c *Controller) commit(next domain.Board) {
    c.history = append(c.history[:c.turn+1:c.turn+1], next)
    c.turn = len(c.history) - 1
    c.selection = NoSelection
    c.refresh()
}

// JumpTo makes turn the live position. Later history is kept until the next
// committed move overwrites it.
func (c *Controller) JumpTo(turn int) error {
    if turn < 0 || turn >= len(c.history) {
        return ErrTurnOutOfRange
    }
    c.turn = turn
    c.selection = NoSelection
    c.refresh()
    return nil
}

// Board returns the live board.
func (c *Controller) Board() domain.Board { return c.history[c.turn] }

// Turn returns the live turn index.
func (c *Controller) Turn() int { return c.turn }

// Len returns the number of history entries.
func (c *Controller) Len() int { return len(c.history) }

// Active returns the mark to move.
func (c *Controller) Active() domain.Cell { return c.active }

// Winner returns the winner of the live position or Empty.
func (c *Controller) Winner() domain.Cell { return c.winner }

// Phase returns the phase of the live turn.
func (c *Controller) Phase() domain.Phase { return domain.PhaseOf(c.turn) }

// Selection returns the selected source cell, if any.
func (c *Controller) Selection() (int, bool) {
    return c.selection, c.selection != NoSelection
}

// Destinations returns the legal destinations of src on the live board.
func (c *Controller) Destinations(src int) []int {
    return append([]int(nil), c.legal[src]...)
}

// LegalMoves returns a copy of the legal moves of the side to move. It is
// empty during placement and once the game is won.
func (c *Controller) LegalMoves() map[int][]int {
    out := make(map[int][]int, len(c.legal))
    for src, dsts := range c.legal {
        out[src] = append([]int{}, dsts...)
    }
    return out
}

// History returns a copy of every recorded board.
func (c *Controller) History() []domain.Board {
    return append([]domain.Board(nil), c.history...)
}
