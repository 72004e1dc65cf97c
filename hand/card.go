package hand

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/joecammo/Daemon/affinity"
	"github.com/joecammo/Daemon/card"
	"github.com/joecammo/Daemon/geom"
)

// Transform is where and how a card is painted. Rot is in degrees.
type Transform struct {
	Pos   geom.Vec
	Rot   float64
	Scale float64
}

func (t Transform) near(o Transform, posTol, rotTol float64) bool {
	return t.Pos.Dist(o.Pos) <= posTol &&
		math.Abs(geom.AngleDelta(t.Rot, o.Rot)) <= rotTol &&
		math.Abs(t.Scale-o.Scale) <= 0.001
}

// Owner says which subsystem currently writes a card's target transform.
type Owner int

const (
	OwnedByLayout Owner = iota
	OwnedByInteraction
)

// Card is one live card in the hand.
type Card struct {
	ID     ulid.ULID
	Name   string
	Def    *card.Definition
	Color  affinity.Category
	Daemon string

	Transform Transform
	Visible   bool
	Dealt     bool
	Popped    bool
	Dragging  bool
	DefaultZ  int
	Z         int

	slot    Transform
	target  Transform
	owner   Owner
	removed bool
}

// NewCard creates a hidden, undealt card. The slot number orders cards in
// the hand and is encoded in the card name, e.g. "Card_12_Red".
func NewCard(def *card.Definition, color affinity.Category, daemon string, slot int) *Card {
	return &Card{
		ID:        ulid.Make(),
		Name:      fmt.Sprintf("Card_%d_%s", slot, color),
		Def:       def,
		Color:     color,
		Daemon:    daemon,
		Transform: Transform{Scale: 1},
		slot:      Transform{Scale: 1},
		target:    Transform{Scale: 1},
	}
}

func (c *Card) key() string { return c.ID.String() }

// Slot is the card's resting place from the last layout pass, before any
// pop adjustment.
func (c *Card) Slot() Transform { return c.slot }

// Target is the transform the owning subsystem is moving the card toward.
func (c *Card) Target() Transform { return c.target }

func (c *Card) Owner() Owner { return c.owner }

// Removed reports whether the card was played or discarded.
func (c *Card) Removed() bool { return c.removed }

// Bounds is the card's painted rectangle for hit testing.
func (c *Card) Bounds(w, h float64) geom.OrientedRect {
	return geom.OrientedRect{
		Center: c.Transform.Pos,
		W:      w * c.Transform.Scale,
		H:      h * c.Transform.Scale,
		Rot:    c.Transform.Rot,
	}
}

func (c *Card) String() string {
	if c.Def == nil {
		return c.Name
	}
	return fmt.Sprintf("%s(%s)", c.Name, c.Def.Title)
}

// SlotNumber extracts the numeric slot from names shaped like
// "Card_<n>_<color>". Names without one sort first.
func SlotNumber(name string) int {
	parts := strings.Split(name, "_")
	if len(parts) < 2 {
		return 0
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}
	return n
}
