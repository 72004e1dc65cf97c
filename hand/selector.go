package hand

import (
	"github.com/charmbracelet/log"

	"github.com/joecammo/Daemon/card"
	"github.com/joecammo/Daemon/geom"
	"github.com/joecammo/Daemon/tween"
)

// Target is a board object a card can be dropped on.
type Target interface {
	Category() card.Category
	SetHighlight(on bool)
}

// Prober finds the first target under a point whose category is one of cats.
type Prober interface {
	Probe(p geom.Vec, cats ...card.Category) Target
}

// Spender is the energy budget cards are paid from.
type Spender interface {
	CanSpend(cost int) bool
	Spend(cost int) bool
}

// Outcome is how a drop resolved. Everything except Played sends the card
// back to its slot; none of them are errors.
type Outcome int

const (
	Played Outcome = iota
	NoTarget
	InvalidTarget
	NoEnergy
	NotDragging
)

func (o Outcome) String() string {
	switch o {
	case Played:
		return "played"
	case NoTarget:
		return "no target"
	case InvalidTarget:
		return "invalid target"
	case NoEnergy:
		return "no energy"
	default:
		return "not dragging"
	}
}

type Result struct {
	Outcome Outcome
	Card    *Card
	Target  Target
}

// Selector is the per-card drag state.
type Selector struct {
	grab        geom.Vec
	highlighted Target
}

// Controller runs the pop and drag state machine for every card of a hand.
// It is the only writer of the hand's popped and dragging pointers.
type Controller struct {
	hand      *Hand
	engine    *Engine
	sched     *tween.Scheduler[string]
	energy    Spender
	probe     Prober
	selectors map[*Card]*Selector
	log       *log.Logger

	// OnPlayed runs after a card has been paid for and removed.
	OnPlayed func(c *Card, t Target)
}

func NewController(e *Engine, energy Spender, probe Prober, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{
		hand:      e.hand,
		engine:    e,
		sched:     e.sched,
		energy:    energy,
		probe:     probe,
		selectors: make(map[*Card]*Selector),
		log:       logger.WithPrefix("select"),
	}
}

func (ctl *Controller) selector(c *Card) *Selector {
	s, ok := ctl.selectors[c]
	if !ok {
		s = &Selector{}
		ctl.selectors[c] = s
	}
	return s
}

// Click pops c, unpopping whichever card was popped before. Clicking the
// popped card again does nothing.
func (ctl *Controller) Click(c *Card) {
	if c == nil || c.removed || c.Dragging || !c.Visible || !ctl.hand.Contains(c) {
		return
	}
	if ctl.hand.popped == c {
		return
	}
	ctl.unpop()
	ctl.hand.popped = c
	c.Popped = true
	ctl.engine.Refresh(c)
	ctl.log.Debug("popped", "card", c)
}

// Unpop returns the popped card, if any, to rest.
func (ctl *Controller) Unpop() { ctl.unpop() }

func (ctl *Controller) unpop() {
	prev := ctl.hand.popped
	if prev == nil {
		return
	}
	ctl.hand.popped = nil
	prev.Popped = false
	ctl.engine.Refresh(prev)
}

// CanDrag reports whether a new drag may begin.
func (ctl *Controller) CanDrag() bool { return ctl.hand.dragging == nil }

// BeginDrag takes c away from the layout. p is the pointer position; the
// offset between it and the card is kept for the whole drag.
func (ctl *Controller) BeginDrag(c *Card, p geom.Vec) bool {
	if c == nil || c.removed || !c.Visible || !ctl.hand.Contains(c) || !ctl.CanDrag() {
		return false
	}
	c.Dragging = true
	ctl.hand.dragging = c
	ctl.unpop()
	c.owner = OwnedByInteraction
	ctl.sched.Cancel(c.key())
	c.Z = ctl.engine.topZ() + 2
	c.Transform.Scale = c.slot.Scale
	c.target = c.Transform
	s := ctl.selector(c)
	s.grab = c.Transform.Pos.Sub(p)
	s.highlighted = nil
	ctl.log.Debug("drag start", "card", c)
	return true
}

// Drag moves the dragged card with the pointer and tracks the target under
// it, moving the highlight when the target changes.
func (ctl *Controller) Drag(p geom.Vec) {
	c := ctl.hand.dragging
	if c == nil {
		return
	}
	s := ctl.selector(c)
	c.Transform.Pos = p.Add(s.grab)
	c.target = c.Transform
	var t Target
	if ctl.probe != nil {
		t = ctl.probe.Probe(p, card.Hostile, card.Friendly)
	}
	if t == s.highlighted {
		return
	}
	if s.highlighted != nil {
		s.highlighted.SetHighlight(false)
	}
	if t != nil {
		t.SetHighlight(true)
	}
	s.highlighted = t
}

// EndDrag resolves the drop at p. A played card is paid for and removed;
// any other outcome sends the card back to its slot and re-lays the hand.
func (ctl *Controller) EndDrag(p geom.Vec) Result {
	c := ctl.hand.dragging
	if c == nil {
		return Result{Outcome: NotDragging}
	}
	ctl.Drag(p)
	s := ctl.selector(c)
	t := s.highlighted
	if t != nil {
		t.SetHighlight(false)
		s.highlighted = nil
	}
	res := Result{Card: c, Target: t, Outcome: ctl.resolve(c, t)}

	c.Dragging = false
	ctl.hand.dragging = nil
	if res.Outcome == Played {
		ctl.engine.Remove(c)
		delete(ctl.selectors, c)
		ctl.log.Info("card played", "card", c, "target", t.Category())
		if ctl.OnPlayed != nil {
			ctl.OnPlayed(c, t)
		}
		return res
	}
	ctl.log.Debug("card returned", "card", c, "reason", res.Outcome)
	if ctl.hand.popped == c {
		ctl.hand.popped = nil
	}
	c.Popped = false
	c.owner = OwnedByLayout
	c.Transform.Scale = c.slot.Scale
	ctl.engine.LayoutAll()
	return res
}

func (ctl *Controller) resolve(c *Card, t Target) Outcome {
	if t == nil {
		return NoTarget
	}
	kind, cost := card.Skill, 1
	if c.Def != nil {
		kind, cost = c.Def.Kind, c.Def.Cost
	}
	if !kind.Accepts(t.Category()) {
		return InvalidTarget
	}
	if ctl.energy == nil || !ctl.energy.CanSpend(cost) || !ctl.energy.Spend(cost) {
		return NoEnergy
	}
	return Played
}

// Discard removes c without paying for it.
func (ctl *Controller) Discard(c *Card) bool {
	if c == nil || c.Dragging {
		return false
	}
	if ctl.hand.popped == c {
		ctl.hand.popped = nil
		c.Popped = false
	}
	delete(ctl.selectors, c)
	return ctl.engine.Remove(c)
}
