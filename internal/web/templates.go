package web

import (
    "bytes"
    "html/template"

    "github.com/jaminalder/tant-fant/internal/app"
    "github.com/jaminalder/tant-fant/internal/domain"
    "github.com/jaminalder/tant-fant/internal/session"
)

type templates struct {
    base  *template.Template
    game  *template.Template
    board *template.Template
    index *template.Template
}

func funcs() template.FuncMap {
    return template.FuncMap{
        "iter": func(n int) []int { a := make([]int, n); for i := range a { a[i] = i }; return a },
        "cellSymbol": func(c domain.Cell) string { return c.String() },
        "cellClass": cellClass,
        "jumpLabel": session.JumpLabel,
        "add": func(a, b int) int { return a + b },
        "mul": func(a, b int) int { return a * b },
    }
}

// cellClass picks the css class of a square: the selected source, one of its
// destinations, or a plain square.
func cellClass(st session.State, pos int) string {
    switch {
    case st.Selection == pos:
        return "square src"
    case st.IsDestination(pos):
        return "square dst"
    default:
        return "square"
    }
}

func loadTemplates() *templates {
    base := template.Must(template.New("base").Funcs(funcs()).Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Tant Fant</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
<style>
.square{width:3em;height:3em;font-size:1.5em}
.src{background:#9cf}
.dst{background:#cfc}
</style>
</head><body>{{template "content" .}}</body></html>`))
    template.Must(base.New("board").Funcs(funcs()).Parse(boardTemplate))
    index := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>Tant Fant</h1><form action="/game" method="post"><button>Create</button></form>`))
    game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<div hx-ext="sse" sse-connect="/game/{{.ID}}/events">
  <div id="board" sse-swap="board">{{template "board" .}}</div>
</div>`))
    // Standalone board template used for fragment rendering
    board := template.Must(template.New("board_only").Funcs(funcs()).Parse(boardTemplate))
    return &templates{base: base, game: game, board: board, index: index}
}

func renderTemplate(t *template.Template, name string, data any) []byte {
    var buf bytes.Buffer
    if name == "" {
        _ = t.Execute(&buf, data)
    } else {
        _ = t.ExecuteTemplate(&buf, name, data)
    }
    return buf.Bytes()
}

const boardTemplate = `
<div id="board">
  <div class="status">{{.Game.Status}}</div>
  {{$id := .ID}}{{$st := .Game}}
  {{range $r := iter 3}}
  <div class="board-row">
    {{range $c := iter 3}}{{$pos := add (mul $r 3) $c}}
      <form hx-post="/game/{{$id}}/click" hx-target="#board" hx-swap="outerHTML" method="post">
        <input type="hidden" name="pos" value="{{$pos}}">
        <button type="submit" class="{{cellClass $st $pos}}">{{cellSymbol (index $st.Board $pos)}}</button>
      </form>
    {{end}}
  </div>
  {{end}}
  <ol class="history">
    {{range $t := iter $st.HistoryLen}}
    <li>
      <form hx-post="/game/{{$id}}/jump" hx-target="#board" hx-swap="outerHTML" method="post">
        <input type="hidden" name="turn" value="{{$t}}">
        <button type="submit">{{jumpLabel $t}}</button>
      </form>
    </li>
    {{end}}
  </ol>
</div>
`

// boardData is what the board template renders.
type boardData struct {
    ID   string
    Game session.State
}

func newBoardData(gs app.GameState) boardData {
    return boardData{ID: gs.ID, Game: gs.Game}
}
