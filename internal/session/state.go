package session

import (
    "strconv"

    "github.com/jaminalder/tant-fant/internal/domain"
)

// State is a read-only snapshot of a controller, shaped for renderers.
type State struct {
    Board        domain.Board `json:"board"`
    Turn         int          `json:"turn"`
    HistoryLen   int          `json:"history_len"`
    Phase        string       `json:"phase"`
    Active       domain.Cell  `json:"active"`
    Winner       domain.Cell  `json:"winner"`
    Selection    int          `json:"selection"`
    Destinations []int        `json:"destinations"`
}

// Snapshot copies the controller state.
func (c *Controller) Snapshot() State {
    st := State{
        Board:        c.Board(),
        Turn:         c.turn,
        HistoryLen:   len(c.history),
        Phase:        c.Phase().String(),
        Active:       c.active,
        Winner:       c.winner,
        Selection:    c.selection,
        Destinations: []int{},
    }
    if c.selection != NoSelection {
        st.Destinations = c.Destinations(c.selection)
    }
    return st
}

// Status is the one-line summary shown above the board.
func (s State) Status() string {
    if s.Winner != domain.Empty {
        return "Winner: " + s.Winner.String()
    }
    return "Next player: " + s.Active.String()
}

// IsDestination reports whether pos is a legal target of the selection.
func (s State) IsDestination(pos int) bool {
    for _, d := range s.Destinations {
        if d == pos {
            return true
        }
    }
    return false
}

// JumpLabel names the history control for turn.
func JumpLabel(turn int) string {
    if turn == 0 {
        return "Go to game start"
    }
    return "Go to move #" + strconv.Itoa(turn)
}
