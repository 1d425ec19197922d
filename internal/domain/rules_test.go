package domain

import (
    "reflect"
    "testing"
)

// centerLockBoard has X on 0 4 5 and O on 2 6 8 with 1 3 7 empty, X to move.
//
//  X . O
//  . X X
//  O . O
func centerLockBoard() Board {
    return Board{X, Empty, O, Empty, X, X, O, Empty, O}
}

func TestFormsLineAllLines(t *testing.T) {
    for _, ln := range Lines() {
        perms := [][3]int{
            {ln[0], ln[1], ln[2]}, {ln[0], ln[2], ln[1]},
            {ln[1], ln[0], ln[2]}, {ln[1], ln[2], ln[0]},
            {ln[2], ln[0], ln[1]}, {ln[2], ln[1], ln[0]},
        }
        for _, p := range perms {
            for _, m := range []Cell{X, O} {
                var b Board
                for _, pos := range p {
                    b[pos] = m
                }
                if !FormsLine(b, m) {
                    t.Fatalf("expected line %v for %v", p, m)
                }
                if FormsLine(b, m.Opponent()) {
                    t.Fatalf("unexpected line for %v on %v", m.Opponent(), b)
                }
            }
        }
    }
}

func TestFormsLineNeedsThreeMarks(t *testing.T) {
    for a := 0; a < 9; a++ {
        for c := a + 1; c < 9; c++ {
            var b Board
            b[a], b[c] = X, X
            if FormsLine(b, X) {
                t.Fatalf("two marks at %d,%d formed a line", a, c)
            }
        }
    }
}

func TestFormsLineEmptyNeverWins(t *testing.T) {
    var b Board
    if FormsLine(b, Empty) {
        t.Fatalf("empty board should not form an empty line")
    }
}

func TestFormsLineMixedTriple(t *testing.T) {
    b := Board{X, X, O, Empty, Empty, Empty, Empty, Empty, Empty}
    if FormsLine(b, X) || FormsLine(b, O) {
        t.Fatalf("mixed triple formed a line")
    }
}

func TestAdjacencyIsSymmetric(t *testing.T) {
    for src := 0; src < 9; src++ {
        for _, dst := range Adjacent(src) {
            if !isAdjacent(dst, src) {
                t.Fatalf("%d lists %d but not the reverse", src, dst)
            }
        }
    }
    if n := len(Adjacent(Center)); n != 8 {
        t.Fatalf("expected center to touch 8 cells, got %d", n)
    }
    if Adjacent(-1) != nil || Adjacent(9) != nil {
        t.Fatalf("expected nil adjacency off the board")
    }
}

func TestAdjacentReturnsCopy(t *testing.T) {
    a := Adjacent(0)
    a[0] = 8
    if Adjacent(0)[0] != 1 {
        t.Fatalf("Adjacent exposed the shared table")
    }
}

func TestIsValidMoveBasicChecks(t *testing.T) {
    // X: 0 1, O: 3 4 ... no center for X
    b := Board{X, X, Empty, O, O, Empty, Empty, Empty, X}
    cases := []struct {
        name     string
        src, dst int
        want     bool
    }{
        {"opponent source", 3, 6, false},
        {"empty source", 2, 5, false},
        {"not adjacent", 1, 7, false},
        {"occupied destination", 0, 3, false},
        {"adjacent empty", 1, 2, true},
        {"adjacent empty from corner", 8, 5, true},
        {"off board", 8, 9, false},
    }
    for _, tc := range cases {
        if got := IsValidMove(X, b, tc.src, tc.dst); got != tc.want {
            t.Fatalf("%s: IsValidMove(%d->%d) = %v, want %v", tc.name, tc.src, tc.dst, got, tc.want)
        }
    }
}

func TestCenterLock(t *testing.T) {
    b := centerLockBoard()
    // non-center pieces may only move to complete a line
    if IsValidMove(X, b, 0, 1) {
        t.Fatalf("0->1 does not win and must be locked")
    }
    if !IsValidMove(X, b, 0, 3) {
        t.Fatalf("0->3 completes 3-4-5 and must be allowed")
    }
    if IsValidMove(X, b, 5, 1) || IsValidMove(X, b, 5, 7) {
        t.Fatalf("5 has no winning slide and must be locked")
    }
    // the center piece moves freely
    for _, dst := range []int{1, 3, 7} {
        if !IsValidMove(X, b, Center, dst) {
            t.Fatalf("center slide to %d must be allowed", dst)
        }
    }
}

func TestCenterLockWithoutWinningSlide(t *testing.T) {
    // X: 0 4 6, O: 2 5 7. No slide of 0 or 6 completes a line.
    b := Board{X, Empty, O, Empty, X, O, X, O, Empty}
    if IsValidMove(X, b, 0, 1) || IsValidMove(X, b, 0, 3) || IsValidMove(X, b, 6, 3) {
        t.Fatalf("locked piece moved without winning")
    }
    if !IsValidMove(X, b, Center, 8) {
        t.Fatalf("center must still be movable")
    }
}

func TestCenterLockOnlyForCenterHolder(t *testing.T) {
    b := centerLockBoard()
    // O does not hold the center, so any adjacent empty slide is fine.
    if !IsValidMove(O, b, 6, 7) || !IsValidMove(O, b, 6, 3) || !IsValidMove(O, b, 2, 1) {
        t.Fatalf("O slides should not be center-locked")
    }
}

func TestLegalMoves(t *testing.T) {
    b := centerLockBoard()
    got := LegalMoves(b, X)
    want := map[int][]int{0: {3}, 4: {1, 3, 7}, 5: {}}
    if !reflect.DeepEqual(got, want) {
        t.Fatalf("LegalMoves(X) = %v, want %v", got, want)
    }
    got = LegalMoves(b, O)
    want = map[int][]int{2: {1}, 6: {3, 7}, 8: {7}}
    if !reflect.DeepEqual(got, want) {
        t.Fatalf("LegalMoves(O) = %v, want %v", got, want)
    }
}

func TestLegalMovesAgreesWithIsValidMove(t *testing.T) {
    b := centerLockBoard()
    for _, m := range []Cell{X, O} {
        legal := LegalMoves(b, m)
        for src := 0; src < 9; src++ {
            for dst := 0; dst < 9; dst++ {
                listed := false
                for _, d := range legal[src] {
                    if d == dst {
                        listed = true
                    }
                }
                if listed != IsValidMove(m, b, src, dst) {
                    t.Fatalf("%v %d->%d: LegalMoves and IsValidMove disagree", m, src, dst)
                }
            }
        }
    }
}

func TestHasWonReportsPreviousMover(t *testing.T) {
    // X holds column 0-3-6 after turn 4; O is to move.
    b := placeAll(t, 0, 1, 3, 4, 6)
    if w := HasWon(O, b); w != X {
        t.Fatalf("expected X to have won, got %v", w)
    }
    if w := HasWon(X, b); w != Empty {
        t.Fatalf("X is not the opponent of X; got %v", w)
    }
    if w := Winner(5, b); w != X {
        t.Fatalf("expected Winner(5) = X, got %v", w)
    }
}

func TestWinnerWhenSideToMoveIsBlocked(t *testing.T) {
    // O's only piece at 0 is boxed in.
    b := Board{O, X, Empty, X, X, Empty, Empty, Empty, Empty}
    if w := Winner(7, b); w != X {
        t.Fatalf("expected blocked O to lose, got %v", w)
    }
    // The same board during placement is still open.
    if w := Winner(5, b); w != Empty {
        t.Fatalf("blocked pieces do not matter during placement, got %v", w)
    }
}

func TestWinnerOpenMovementPosition(t *testing.T) {
    if w := Winner(6, centerLockBoard()); w != Empty {
        t.Fatalf("expected open position, got %v", w)
    }
}
