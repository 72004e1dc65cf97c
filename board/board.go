// Package board holds the play targets cards are dropped on and resolves
// card effects against them.
package board

import (
	"sort"

	"github.com/charmbracelet/log"
	"github.com/oklog/ulid/v2"

	"github.com/joecammo/Daemon/card"
	"github.com/joecammo/Daemon/geom"
	"github.com/joecammo/Daemon/hand"
)

// Unit is a creature on the board: an enemy or the player's own side.
type Unit struct {
	ID          ulid.ULID
	Name        string
	Cat         card.Category
	Health      int
	MaxHealth   int
	Block       int
	Shape       geom.Shape
	Highlighted bool
}

func NewUnit(name string, cat card.Category, health int, shape geom.Shape) *Unit {
	return &Unit{
		ID:        ulid.Make(),
		Name:      name,
		Cat:       cat,
		Health:    health,
		MaxHealth: health,
		Shape:     shape,
	}
}

func (u *Unit) Category() card.Category { return u.Cat }

func (u *Unit) SetHighlight(on bool) { u.Highlighted = on }

func (u *Unit) Defeated() bool { return u.Health <= 0 }

// TakeDamage spends block first and returns the health actually lost.
func (u *Unit) TakeDamage(n int) int {
	if n <= 0 {
		return 0
	}
	absorbed := min(u.Block, n)
	u.Block -= absorbed
	lost := min(u.Health, n-absorbed)
	u.Health -= lost
	return lost
}

func (u *Unit) Heal(n int) {
	if n > 0 {
		u.Health = min(u.MaxHealth, u.Health+n)
	}
}

func (u *Unit) GainBlock(n int) {
	if n > 0 {
		u.Block += n
	}
}

// Widget is a screen-space hit area standing in for a unit, e.g. its
// portrait frame. Higher layers are tested first.
type Widget struct {
	Rect  geom.Rect
	Layer int
	Unit  *Unit
}

type Board struct {
	units   []*Unit
	widgets []Widget
	log     *log.Logger
}

func New(logger *log.Logger) *Board {
	if logger == nil {
		logger = log.Default()
	}
	return &Board{log: logger.WithPrefix("board")}
}

func (b *Board) Add(u *Unit) { b.units = append(b.units, u) }

// AddWidget registers a layered hit area for u.
func (b *Board) AddWidget(rect geom.Rect, layer int, u *Unit) {
	b.widgets = append(b.widgets, Widget{Rect: rect, Layer: layer, Unit: u})
	sort.SliceStable(b.widgets, func(i, j int) bool {
		return b.widgets[i].Layer > b.widgets[j].Layer
	})
}

func (b *Board) Units() []*Unit {
	out := make([]*Unit, len(b.units))
	copy(out, b.units)
	return out
}

func (b *Board) Widgets() []Widget {
	out := make([]Widget, len(b.widgets))
	copy(out, b.widgets)
	return out
}

// Probe returns the first live unit under p whose category is in cats:
// layered widgets first, then unit shapes in insertion order.
func (b *Board) Probe(p geom.Vec, cats ...card.Category) hand.Target {
	if u := b.hit(p, cats); u != nil {
		return u
	}
	return nil
}

func (b *Board) hit(p geom.Vec, cats []card.Category) *Unit {
	for _, w := range b.widgets {
		if w.Rect.Contains(p) && eligible(w.Unit, cats) {
			return w.Unit
		}
	}
	for _, u := range b.units {
		if u.Shape != nil && u.Shape.Contains(p) && eligible(u, cats) {
			return u
		}
	}
	return nil
}

func eligible(u *Unit, cats []card.Category) bool {
	if u == nil || u.Defeated() {
		return false
	}
	for _, c := range cats {
		if u.Cat == c {
			return true
		}
	}
	return false
}

// Resolution is what playing a card did beyond changing units.
type Resolution struct {
	Draw int
}

// Apply resolves def's effects against t. Draw effects are reported back
// to the caller, which owns the deck.
func (b *Board) Apply(def *card.Definition, t hand.Target) Resolution {
	var res Resolution
	u, _ := t.(*Unit)
	for _, e := range def.Effects {
		switch e.Kind {
		case card.Damage:
			if u != nil {
				lost := u.TakeDamage(e.Amount)
				b.log.Info("damage", "card", def.Title, "target", u.Name, "lost", lost, "health", u.Health)
				if u.Defeated() {
					b.log.Info("defeated", "target", u.Name)
				}
			}
		case card.Block:
			if u != nil {
				u.GainBlock(e.Amount)
			}
		case card.Heal:
			if u != nil {
				u.Heal(e.Amount)
			}
		case card.Draw:
			res.Draw += e.Amount
		}
	}
	return res
}

// Reset clears every unit's block, which lasts a single turn.
func (b *Board) Reset() {
	for _, u := range b.units {
		u.Block = 0
	}
}
