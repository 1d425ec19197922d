package domain

import (
    "errors"
    "fmt"
)

// Cell represents a board cell state.
type Cell uint8

const (
    Empty Cell = iota
    X
    O
)

// Opponent returns the other mark. Empty has no opponent.
func (c Cell) Opponent() Cell {
    switch c {
    case X:
        return O
    case O:
        return X
    default:
        return Empty
    }
}

func (c Cell) String() string {
    switch c {
    case X:
        return "X"
    case O:
        return "O"
    default:
        return ""
    }
}

func (c Cell) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Cell) UnmarshalText(b []byte) error {
    switch string(b) {
    case "X":
        *c = X
    case "O":
        *c = O
    case "":
        *c = Empty
    default:
        return fmt.Errorf("unknown cell %q", b)
    }
    return nil
}

// Board is a fixed 3x3 board stored row-major.
type Board [9]Cell

// Count returns how many cells hold m.
func (b Board) Count(m Cell) int {
    n := 0
    for _, c := range b {
        if c == m {
            n++
        }
    }
    return n
}

// Phase of the game, derived from the turn counter.
type Phase uint8

const (
    Placement Phase = iota
    Movement
)

func (p Phase) String() string {
    if p == Movement {
        return "movement"
    }
    return "placement"
}

// MovementStart is the first turn of the movement phase. Each side has
// placed three marks by then.
const MovementStart = 6

// PhaseOf returns the phase a given turn belongs to.
func PhaseOf(turn int) Phase {
    if turn < MovementStart {
        return Placement
    }
    return Movement
}

// ActiveMark returns the mark to move on the given turn. X moves on even turns.
func ActiveMark(turn int) Cell {
    if turn%2 == 0 {
        return X
    }
    return O
}

// Errors returned by domain operations.
var (
    ErrOutOfBounds = errors.New("out of bounds")
    ErrOccupied    = errors.New("cell occupied")
    ErrIllegalMove = errors.New("illegal move")
)

func inBounds(pos int) bool { return pos >= 0 && pos < len(Board{}) }

// Place returns a copy of b with m placed at pos.
func Place(b Board, m Cell, pos int) (Board, error) {
    if !inBounds(pos) {
        return b, ErrOutOfBounds
    }
    if b[pos] != Empty {
        return b, ErrOccupied
    }
    b[pos] = m
    return b, nil
}

// Slide returns a copy of b with the mark at src moved to dst. The slide must
// satisfy IsValidMove for m.
func Slide(b Board, m Cell, src, dst int) (Board, error) {
    if !inBounds(src) || !inBounds(dst) {
        return b, ErrOutOfBounds
    }
    if !IsValidMove(m, b, src, dst) {
        return b, ErrIllegalMove
    }
    return slide(b, src, dst), nil
}

func slide(b Board, src, dst int) Board {
    b[dst] = b[src]
    b[src] = Empty
    return b
}
