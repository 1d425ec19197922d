package domain

// Center is the only position adjacent to every other cell.
const Center = 4

var lines = [8][3]int{
    // rows
    {0, 1, 2}, {3, 4, 5}, {6, 7, 8},
    // cols
    {0, 3, 6}, {1, 4, 7}, {2, 5, 8},
    // diags
    {0, 4, 8}, {2, 4, 6},
}

// adjacency lists the cells reachable by a single slide, in ascending order.
var adjacency = [9][]int{
    {1, 3, 4},
    {0, 2, 3, 4, 5},
    {1, 4, 5},
    {0, 1, 4, 6, 7},
    {0, 1, 2, 3, 5, 6, 7, 8},
    {1, 2, 4, 7, 8},
    {3, 4, 7},
    {3, 4, 5, 6, 8},
    {4, 5, 7},
}

// Lines returns the eight winning triples.
func Lines() [8][3]int { return lines }

// Adjacent returns the cells one slide away from pos, or nil if pos is off
// the board. The returned slice is a copy.
func Adjacent(pos int) []int {
    if !inBounds(pos) {
        return nil
    }
    return append([]int(nil), adjacency[pos]...)
}

func isAdjacent(src, dst int) bool {
    for _, a := range adjacency[src] {
        if a == dst {
            return true
        }
    }
    return false
}

// FormsLine reports whether any win line is fully held by m.
func FormsLine(b Board, m Cell) bool {
    if m == Empty {
        return false
    }
    for _, ln := range lines {
        if b[ln[0]] == m && b[ln[1]] == m && b[ln[2]] == m {
            return true
        }
    }
    return false
}

// IsValidMove reports whether active may slide the mark at src to dst.
//
// While active holds the center, any piece other than the center one is
// locked unless the slide completes a line.
func IsValidMove(active Cell, b Board, src, dst int) bool {
    if !inBounds(src) || !inBounds(dst) || active == Empty {
        return false
    }
    if b[src] != active {
        return false
    }
    if !isAdjacent(src, dst) {
        return false
    }
    if b[dst] != Empty {
        return false
    }
    if b[Center] == active && src != Center {
        return FormsLine(slide(b, src, dst), active)
    }
    return true
}

// LegalMoves maps every cell held by m to its legal destinations. Cells with
// no legal destination map to an empty slice.
func LegalMoves(b Board, m Cell) map[int][]int {
    out := make(map[int][]int)
    for src, c := range b {
        if c != m {
            continue
        }
        dsts := []int{}
        for _, dst := range adjacency[src] {
            if IsValidMove(m, b, src, dst) {
                dsts = append(dsts, dst)
            }
        }
        out[src] = dsts
    }
    return out
}

// HasWon returns the opponent of active if the opponent already holds a line
// on b, Empty otherwise. A win is only visible once the turn has passed.
func HasWon(active Cell, b Board) Cell {
    opp := active.Opponent()
    if FormsLine(b, opp) {
        return opp
    }
    return Empty
}

// Winner returns the winner of the position reached at turn, or Empty while
// the game is still open. Besides a completed line, a side to move in the
// movement phase that has no legal slide loses.
func Winner(turn int, b Board) Cell {
    active := ActiveMark(turn)
    if w := HasWon(active, b); w != Empty {
        return w
    }
    if PhaseOf(turn) == Movement && !hasAnyMove(b, active) {
        return active.Opponent()
    }
    return Empty
}

func hasAnyMove(b Board, m Cell) bool {
    for src, c := range b {
        if c != m {
            continue
        }
        for _, dst := range adjacency[src] {
            if IsValidMove(m, b, src, dst) {
                return true
            }
        }
    }
    return false
}
