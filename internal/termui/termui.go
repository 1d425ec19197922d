// Package termui plays a game on a line-oriented terminal.
package termui

import (
    "bufio"
    "fmt"
    "io"
    "strconv"
    "strings"

    "github.com/muesli/termenv"

    "github.com/jaminalder/tant-fant/internal/domain"
    "github.com/jaminalder/tant-fant/internal/session"
)

const help = "commands: 0-8 click a square, j N jump to turn N, h history, c clear selection, q quit"

// Renderer draws controller state with terminal styles.
type Renderer struct {
    out *termenv.Output
}

// NewRenderer writes to w. Pass termenv.WithProfile(termenv.Ascii) for plain
// output.
func NewRenderer(w io.Writer, opts ...termenv.OutputOption) *Renderer {
    return &Renderer{out: termenv.NewOutput(w, opts...)}
}

func (r *Renderer) cell(st session.State, pos int) string {
    c := st.Board[pos]
    text := c.String()
    if c == domain.Empty {
        text = strconv.Itoa(pos)
    }
    s := r.out.String(" " + text + " ")
    switch c {
    case domain.X:
        s = s.Foreground(r.out.Color("1")).Bold()
    case domain.O:
        s = s.Foreground(r.out.Color("4")).Bold()
    default:
        s = s.Faint()
    }
    switch {
    case st.Selection == pos:
        s = s.Reverse()
    case st.IsDestination(pos):
        s = s.Underline()
    }
    return s.String()
}

// Board writes the status line and the 3x3 grid.
func (r *Renderer) Board(st session.State) {
    fmt.Fprintln(r.out, st.Status())
    for row := 0; row < 3; row++ {
        cells := make([]string, 3)
        for col := range cells {
            cells[col] = r.cell(st, row*3+col)
        }
        fmt.Fprintln(r.out, strings.Join(cells, "|"))
        if row < 2 {
            fmt.Fprintln(r.out, "---+---+---")
        }
    }
}

// History lists one jump entry per recorded turn, marking the live one.
func (r *Renderer) History(st session.State) {
    for t := 0; t < st.HistoryLen; t++ {
        line := fmt.Sprintf("%d. %s", t, session.JumpLabel(t))
        if t == st.Turn {
            line = r.out.String(line + " <").Bold().String()
        }
        fmt.Fprintln(r.out, line)
    }
}

// Run reads commands from in until EOF or q and applies them to c, redrawing
// after every command.
func Run(c *session.Controller, in io.Reader, r *Renderer) error {
    fmt.Fprintln(r.out, help)
    r.Board(c.Snapshot())
    sc := bufio.NewScanner(in)
    for sc.Scan() {
        fields := strings.Fields(sc.Text())
        if len(fields) == 0 {
            continue
        }
        switch fields[0] {
        case "q", "quit":
            return nil
        case "h", "history":
            r.History(c.Snapshot())
            continue
        case "c", "clear":
            c.Deselect()
        case "j", "jump":
            if len(fields) != 2 {
                fmt.Fprintln(r.out, "usage: j N")
                continue
            }
            turn, err := strconv.Atoi(fields[1])
            if err == nil {
                err = c.JumpTo(turn)
            }
            if err != nil {
                fmt.Fprintf(r.out, "cannot jump to %s: %v\n", fields[1], err)
                continue
            }
        default:
            pos, err := strconv.Atoi(fields[0])
            if err != nil {
                fmt.Fprintln(r.out, help)
                continue
            }
            c.Click(pos)
        }
        r.Board(c.Snapshot())
    }
    return sc.Err()
}
