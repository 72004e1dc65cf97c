// Package render paints session frames in an ebiten window and feeds mouse
// and keyboard input back into the session.
package render

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/joecammo/Daemon/game"
	"github.com/joecammo/Daemon/geom"
	"github.com/joecammo/Daemon/hand"
	"github.com/joecammo/Daemon/present"
)

var (
	background = color.RGBA{0x1b, 0x1d, 0x26, 0xff}
	ink        = color.RGBA{0xf2, 0xf2, 0xf2, 0xff}
	dim        = color.RGBA{0x55, 0x58, 0x66, 0xff}
	hostile    = color.RGBA{0x8a, 0x2b, 0x2b, 0xff}
	highlight  = color.RGBA{0xff, 0xe0, 0x66, 0xff}
	pip        = color.RGBA{0x4f, 0xc3, 0xf7, 0xff}
)

// Game is an ebiten.Game over one session. World units are scaled by Scale
// pixels with the origin at the screen centre and y pointing up.
type Game struct {
	Session *game.Session
	Width   int
	Height  int
	Scale   float64
	Debug   bool

	faces map[string]*ebiten.Image
	lastX int
	lastY int
	sink  present.Sink
	inbox <-chan present.Command
	log   *log.Logger
}

func New(s *game.Session, width, height int, scale float64, logger *log.Logger) *Game {
	if logger == nil {
		logger = log.Default()
	}
	return &Game{
		Session: s,
		Width:   width,
		Height:  height,
		Scale:   scale,
		faces:   make(map[string]*ebiten.Image),
		log:     logger.WithPrefix("render"),
	}
}

// Mirror also sends every drawn frame to sink.
func (g *Game) Mirror(sink present.Sink) { g.sink = sink }

// Remote applies commands from inbox on the game loop before local input.
func (g *Game) Remote(inbox <-chan present.Command) { g.inbox = inbox }

// World converts a screen pixel to world space.
func (g *Game) World(x, y int) geom.Vec {
	return geom.V(
		(float64(x)-float64(g.Width)/2)/g.Scale,
		(float64(g.Height)/2-float64(y))/g.Scale,
	)
}

// Screen converts a world point to screen pixels.
func (g *Game) Screen(p geom.Vec) (float64, float64) {
	return float64(g.Width)/2 + p.X*g.Scale, float64(g.Height)/2 - p.Y*g.Scale
}

func (g *Game) Update() error {
	g.drain()
	mx, my := ebiten.CursorPosition()
	at := g.World(mx, my)
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		g.Session.Pointer(hand.Pointer{Pos: at, Phase: hand.Down})
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		if res, ok := g.Session.Pointer(hand.Pointer{Pos: at, Phase: hand.Up}); ok {
			g.log.Debug("drop", "card", res.Card, "outcome", res.Outcome)
		}
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) && (mx != g.lastX || my != g.lastY):
		g.Session.Pointer(hand.Pointer{Pos: at, Phase: hand.Move})
	}
	g.lastX, g.lastY = mx, my

	if inpututil.IsKeyJustPressed(ebiten.KeyE) {
		if err := g.Session.EndTurn(); err != nil {
			g.log.Error("end turn", "err", err)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		e := g.Session.Engine()
		if e.Options().Mode == hand.Fan {
			e.SetMode(hand.Linear)
		} else {
			e.SetMode(hand.Fan)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.Debug = !g.Debug
	}
	g.Session.Update(1 / float64(ebiten.TPS()))
	return nil
}

func (g *Game) drain() {
	for {
		select {
		case c := <-g.inbox:
			if err := g.Session.Command(c); err != nil {
				g.log.Warn("remote command", "client", c.Client, "err", err)
			}
		default:
			return
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	f := g.Session.Frame()
	if g.sink != nil {
		g.sink.Present(f)
	}
	g.drawUnits(screen, f.Units)
	g.drawWidgets(screen)
	live := make(map[string]bool, len(f.Cards))
	for _, c := range f.Cards {
		live[c.ID] = true
		if c.Visible {
			g.drawCard(screen, c)
		}
	}
	for id := range g.faces {
		if !live[id] {
			g.faces[id].Deallocate()
			delete(g.faces, id)
		}
	}
	g.drawHUD(screen, f)
	if g.Debug {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("TPS: %0.2f\nFPS: %0.2f\nstate: %s", ebiten.ActualTPS(), ebiten.ActualFPS(), g.Session.Engine().State()))
	}
}

func (g *Game) Layout(outsideW, outsideH int) (int, int) {
	return g.Width, g.Height
}

func (g *Game) drawUnits(screen *ebiten.Image, units []present.Unit) {
	for _, u := range units {
		x, y := g.Screen(geom.V(u.X, u.Y))
		r := float32(1.5 * g.Scale)
		fill := hexColor(u.Color)
		if u.Category == "hostile" {
			fill = hostile
		}
		if u.Defeated {
			fill = dim
		}
		vector.DrawFilledCircle(screen, float32(x), float32(y), r, fill, true)
		if u.Highlighted {
			vector.StrokeCircle(screen, float32(x), float32(y), r+3, 3, highlight, true)
		}
		label := fmt.Sprintf("%s %d/%d", u.Name, u.Health, u.MaxHealth)
		if u.Block > 0 {
			label += fmt.Sprintf(" [%d]", u.Block)
		}
		text.Draw(screen, label, basicfont.Face7x13, int(x)-len(label)*7/2, int(y)+4, ink)
	}
}

func (g *Game) drawWidgets(screen *ebiten.Image) {
	for _, w := range g.Session.Board().Widgets() {
		x, y := g.Screen(geom.V(w.Rect.Min.X, w.Rect.Min.Y+w.Rect.H))
		c := dim
		if w.Unit.Highlighted {
			c = highlight
		}
		vector.StrokeRect(screen, float32(x), float32(y), float32(w.Rect.W*g.Scale), float32(w.Rect.H*g.Scale), 1, c, false)
		text.Draw(screen, w.Unit.Name, basicfont.Face7x13, int(x)+4, int(y)+int(w.Rect.H*g.Scale/2)+4, c)
	}
}

func (g *Game) face(c present.Card) *ebiten.Image {
	if img, ok := g.faces[c.ID]; ok {
		return img
	}
	o := g.Session.Engine().Options()
	w, h := int(o.CardWidth*g.Scale), int(o.CardHeight*g.Scale)
	img := ebiten.NewImage(w, h)
	img.Fill(hexColor(c.Color))
	vector.DrawFilledRect(img, 4, 22, float32(w-8), float32(h-26), color.RGBA{0x10, 0x10, 0x18, 0xe0}, false)
	text.Draw(img, strconv.Itoa(c.Cost), basicfont.Face7x13, 6, 15, ink)
	text.Draw(img, c.Title, basicfont.Face7x13, 22, 15, ink)
	text.Draw(img, c.Kind, basicfont.Face7x13, 8, 38, dim)
	for i, line := range wrap(c.Text, (w-16)/7) {
		text.Draw(img, line, basicfont.Face7x13, 8, 58+i*14, ink)
	}
	g.faces[c.ID] = img
	return img
}

func (g *Game) drawCard(screen *ebiten.Image, c present.Card) {
	img := g.face(c)
	b := img.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-float64(b.Dx())/2, -float64(b.Dy())/2)
	op.GeoM.Scale(c.Scale, c.Scale)
	op.GeoM.Rotate(-c.Rot * math.Pi / 180)
	x, y := g.Screen(geom.V(c.X, c.Y))
	op.GeoM.Translate(x, y)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(img, op)
}

func (g *Game) drawHUD(screen *ebiten.Image, f *present.Frame) {
	for i, ok := range f.Energy.Pips {
		c := dim
		if ok {
			c = pip
		}
		vector.DrawFilledCircle(screen, float32(24+i*22), float32(g.Height-24), 8, c, true)
	}
	status := fmt.Sprintf("energy %d/%d   turn %d   deck %d   [E] end turn  [L] layout: %s",
		f.Energy.Current, f.Energy.Max, f.Turn, f.Deck, f.Layout)
	text.Draw(screen, status, basicfont.Face7x13, 24+len(f.Energy.Pips)*22, g.Height-20, ink)
}

func hexColor(s string) color.RGBA {
	s = strings.TrimPrefix(s, "#")
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil || len(s) != 6 {
		return color.RGBA{0x80, 0x80, 0x80, 0xff}
	}
	return color.RGBA{uint8(n >> 16), uint8(n >> 8), uint8(n), 0xff}
}

func wrap(s string, width int) []string {
	if width <= 0 {
		return nil
	}
	var lines []string
	line := ""
	for _, word := range strings.Fields(s) {
		if line != "" && len(line)+1+len(word) > width {
			lines = append(lines, line)
			line = word
			continue
		}
		if line != "" {
			line += " "
		}
		line += word
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}
