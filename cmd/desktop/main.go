package main

import (
	"bytes"
	"fmt"
	"log"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"exprcore/pkg/grid"
	"exprcore/pkg/host"
)

const (
	cols       = 80
	rows       = 30
	charWidth  = 6 // debug font cell
	charHeight = 16
	maxHistory = 200
)

// String-table slots used by the pad.
const (
	slotInput   = 0
	slotPostfix = 1
	cellResult  = 0
)

// Pad is the editable expression line plus the output of earlier
// submissions.
type Pad struct {
	vm      *host.Machine
	listing bytes.Buffer
	Input   []rune
	History []string
}

func NewPad() *Pad {
	p := &Pad{vm: host.NewMachine(2, 1)}
	p.vm.Output = &p.listing
	return p
}

func (p *Pad) Type(r rune) {
	if r >= ' ' && r != 0x7f {
		p.Input = append(p.Input, r)
	}
}

func (p *Pad) Backspace() {
	if len(p.Input) > 0 {
		p.Input = p.Input[:len(p.Input)-1]
	}
}

// Submit runs the current line through conversion, evaluation and
// compilation and appends the results to the history.
func (p *Pad) Submit() {
	src := strings.TrimSpace(string(p.Input))
	p.Input = p.Input[:0]
	if src == "" {
		return
	}

	out := []string{"> " + src}
	p.vm.Strings[slotInput] = src
	if err := p.vm.Convert(fmt.Sprintf("#%d", slotInput), slotPostfix); err != nil {
		out = append(out, "  convert: "+err.Error())
	} else {
		out = append(out, "  postfix: "+p.vm.Strings[slotPostfix])
		if err := p.vm.Evaluate(slotPostfix, cellResult); err != nil {
			out = append(out, "  value:   "+err.Error())
		} else {
			out = append(out, fmt.Sprintf("  value:   %g", p.vm.Memory[cellResult]))
		}
	}

	p.listing.Reset()
	if err := p.vm.Compile(slotInput); err != nil {
		out = append(out, "  code:    "+err.Error())
	} else {
		for _, line := range strings.Split(strings.TrimRight(p.listing.String(), "\n"), "\n") {
			out = append(out, "    "+line)
		}
	}

	p.History = append(p.History, out...)
	if over := len(p.History) - maxHistory; over > 0 {
		p.History = p.History[over:]
	}
}

// Screen returns the visible lines: the newest history that fits above
// the input line.
func (p *Pad) Screen() []string {
	visible := rows - 1
	start := max(len(p.History)-visible, 0)
	lines := append([]string{}, p.History[start:]...)
	return append(lines, "expr> "+string(p.Input)+"_")
}

type Game struct {
	pad *Pad
}

func (g *Game) Update() error {
	for _, r := range ebiten.AppendInputChars(nil) {
		g.pad.Type(r)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.pad.Submit()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		g.pad.Backspace()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.pad.History = nil
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	lines := g.pad.Screen()
	// Keep the input line on the bottom row.
	for len(lines) < rows {
		lines = append([]string{""}, lines...)
	}
	for i, ch := range grid.Wrap(lines, cols, rows) {
		if ch == 0 || ch == ' ' {
			continue
		}
		x, y := grid.GetGridCoords(i, cols)
		ebitenutil.DebugPrintAt(screen, string(ch), x*charWidth, y*charHeight)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return cols * charWidth, rows * charHeight
}

func main() {
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cols*charWidth*2, rows*charHeight*2)
	ebiten.SetWindowTitle("exprcore pad")

	if err := ebiten.RunGame(&Game{pad: NewPad()}); err != nil {
		log.Fatal(err)
	}
}
