package hand

import (
	"errors"
	"sort"

	"github.com/joecammo/Daemon/geom"
)

var ErrHandFull = errors.New("hand is full")

// Hand is the ordered set of live cards plus the single popped card and the
// single dragging card. Only the interaction Controller writes popped and
// dragging; the layout Engine reads them.
type Hand struct {
	cards    []*Card
	popped   *Card
	dragging *Card
	max      int
}

func New(max int) *Hand {
	return &Hand{max: max}
}

// Cards returns the live cards in slot order.
func (h *Hand) Cards() []*Card {
	out := make([]*Card, len(h.cards))
	copy(out, h.cards)
	return out
}

// Len counts live cards, including ones still waiting in a deal sequence.
func (h *Hand) Len() int { return len(h.cards) }

func (h *Hand) Max() int { return h.max }

// Room is how many more cards fit.
func (h *Hand) Room() int {
	if n := h.max - len(h.cards); n > 0 {
		return n
	}
	return 0
}

func (h *Hand) Popped() *Card { return h.popped }

func (h *Hand) Dragging() *Card { return h.dragging }

func (h *Hand) Contains(c *Card) bool {
	for _, x := range h.cards {
		if x == c {
			return true
		}
	}
	return false
}

func (h *Hand) add(c *Card) error {
	if len(h.cards) >= h.max {
		return ErrHandFull
	}
	h.cards = append(h.cards, c)
	h.sort()
	return nil
}

func (h *Hand) remove(c *Card) bool {
	for i, x := range h.cards {
		if x == c {
			h.cards = append(h.cards[:i], h.cards[i+1:]...)
			return true
		}
	}
	return false
}

func (h *Hand) sort() {
	sort.SliceStable(h.cards, func(i, j int) bool {
		return SlotNumber(h.cards[i].Name) < SlotNumber(h.cards[j].Name)
	})
}

// CardAt returns the top-most visible card whose painted bounds contain p.
func (h *Hand) CardAt(p geom.Vec, w, ht float64) *Card {
	var best *Card
	for _, c := range h.cards {
		if !c.Visible || c.removed {
			continue
		}
		if !c.Bounds(w, ht).Contains(p) {
			continue
		}
		if best == nil || c.Z >= best.Z {
			best = c
		}
	}
	return best
}
