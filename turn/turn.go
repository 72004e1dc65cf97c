// Package turn runs the end-of-turn sequence.
package turn

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/joecammo/Daemon/deck"
	"github.com/joecammo/Daemon/hand"
)

// Refiller is the energy side of a turn.
type Refiller interface {
	Refill()
}

// Dealer draws cards into the hand.
type Dealer interface {
	DealTo(ins deck.Inserter, n int) ([]*hand.Card, error)
}

type Controller struct {
	energy Refiller
	dealer Dealer
	engine *hand.Engine
	turn   int
	log    *log.Logger
}

func NewController(energy Refiller, dealer Dealer, engine *hand.Engine, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{
		energy: energy,
		dealer: dealer,
		engine: engine,
		log:    logger.WithPrefix("turn"),
	}
}

// Turn is the number of the turn in progress, starting at 1 after the first
// EndTurn.
func (c *Controller) Turn() int { return c.turn }

// Begin opens the first turn with a full ledger and an opening hand of
// initial cards.
func (c *Controller) Begin(initial int) (int, error) {
	c.energy.Refill()
	c.turn = 1
	h := c.engine.Hand()
	return c.deal(min(initial, h.Room()))
}

// EndTurn refills energy and then tops the hand up to its maximum. Running
// out of cards is not a failure; a missing collaborator is.
func (c *Controller) EndTurn() (int, error) {
	c.energy.Refill()
	c.turn++
	h := c.engine.Hand()
	return c.deal(max(0, h.Max()-h.Len()))
}

func (c *Controller) deal(want int) (int, error) {
	h := c.engine.Hand()
	if want <= 0 {
		c.log.Info("turn", "n", c.turn, "dealt", 0, "hand", h.Len())
		return 0, nil
	}
	cards, err := c.dealer.DealTo(c.engine, want)
	switch {
	case errors.Is(err, deck.ErrPoolExhausted):
		c.log.Warn("deck ran out", "wanted", want, "dealt", len(cards))
		err = nil
	case err != nil:
		return len(cards), fmt.Errorf("end turn %d: %w", c.turn, err)
	}
	c.log.Info("turn", "n", c.turn, "dealt", len(cards), "hand", h.Len())
	return len(cards), nil
}
