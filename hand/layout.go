package hand

import (
	"math"

	"github.com/charmbracelet/log"

	"github.com/joecammo/Daemon/geom"
	"github.com/joecammo/Daemon/tween"
)

type Mode int

const (
	Fan Mode = iota
	Linear
)

func (m Mode) String() string {
	if m == Linear {
		return "linear"
	}
	return "fan"
}

// ParseMode accepts "fan" or "linear".
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "fan":
		return Fan, true
	case "linear":
		return Linear, true
	}
	return Fan, false
}

// Options tune layout and pacing. None of them affect which cards are in
// the hand.
type Options struct {
	Mode     Mode
	Center   geom.Vec
	DealFrom geom.Vec

	FanAngle  float64
	FanRadius float64
	Spacing   float64

	MinSpacing     float64
	CardWidth      float64
	CardHeight     float64
	ContainerWidth float64

	Rate      float64
	DealDelay float64
	PopScale  float64
	PopOffset float64

	PosTolerance float64
	RotTolerance float64
	Watchdog     float64
}

func DefaultOptions() Options {
	return Options{
		Mode:           Fan,
		Center:         geom.V(0, -4),
		DealFrom:       geom.V(9, -6),
		FanAngle:       30,
		FanRadius:      1.5,
		Spacing:        2,
		MinSpacing:     0.4,
		CardWidth:      2,
		CardHeight:     3,
		ContainerWidth: 16,
		Rate:           5,
		DealDelay:      0.5,
		PopScale:       1.2,
		PopOffset:      1,
		PosTolerance:   0.01,
		RotTolerance:   0.5,
		Watchdog:       3,
	}
}

// FanSlots lays n cards along an arc of FanAngle degrees around Center.
// A single card sits at Center unrotated.
func FanSlots(n int, o Options) []Transform {
	slots := make([]Transform, n)
	if n == 1 {
		slots[0] = Transform{Pos: o.Center, Scale: 1}
		return slots
	}
	step := o.FanAngle / float64(max(n-1, 1))
	start := -o.FanAngle / 2
	mid := float64(n-1) / 2
	for i := range slots {
		angle := start + float64(i)*step
		s, c := math.Sincos(geom.Rad(angle))
		offset := geom.V(s*o.FanRadius, math.Abs(c)*o.FanRadius)
		spread := geom.V((float64(i)-mid)*o.Spacing, 0)
		slots[i] = Transform{
			Pos:   o.Center.Add(offset).Add(spread),
			Rot:   angle,
			Scale: 1,
		}
	}
	return slots
}

// LinearSpacing is the gap between card centres that keeps n cards inside
// the container, clamped to [MinSpacing, Spacing].
func LinearSpacing(n int, o Options) float64 {
	spacing := o.Spacing
	if n > 1 {
		fit := (o.ContainerWidth - o.CardWidth) / float64(n-1)
		spacing = math.Min(spacing, fit)
	}
	return math.Max(spacing, o.MinSpacing)
}

// LinearSlots places n cards in a centred horizontal row.
func LinearSlots(n int, o Options) []Transform {
	slots := make([]Transform, n)
	spacing := LinearSpacing(n, o)
	total := float64(n-1) * spacing
	for i := range slots {
		x := -total/2 + float64(i)*spacing
		slots[i] = Transform{Pos: o.Center.Add(geom.V(x, 0)), Scale: 1}
	}
	return slots
}

// Slots computes targets for n cards in the configured mode.
func (o Options) Slots(n int) []Transform {
	if o.Mode == Linear {
		return LinearSlots(n, o)
	}
	return FanSlots(n, o)
}

// State of the current layout pass.
type State int

const (
	Idle State = iota
	Computing
	Animating
)

func (s State) String() string {
	switch s {
	case Computing:
		return "computing"
	case Animating:
		return "animating"
	default:
		return "idle"
	}
}

const dealKey = "deal"

// Engine arranges the cards of one Hand. It owns card transforms while they
// rest in the hand and hands them to the Controller during pop and drag.
type Engine struct {
	opts  Options
	hand  *Hand
	sched *tween.Scheduler[string]
	state State
	deal  *dealTask
	log   *log.Logger
}

func NewEngine(h *Hand, sched *tween.Scheduler[string], opts Options, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{
		opts:  opts,
		hand:  h,
		sched: sched,
		log:   logger.WithPrefix("layout"),
	}
}

func (e *Engine) Options() Options { return e.opts }

func (e *Engine) Hand() *Hand { return e.hand }

// Room is how many more cards the hand accepts, counting cards still queued
// in a deal.
func (e *Engine) Room() int { return e.hand.Room() }

func (e *Engine) SetMode(m Mode) {
	e.opts.Mode = m
	e.LayoutAll()
}

// State reports the pass state, settling to Idle once every card converged.
func (e *Engine) State() State {
	if e.state == Animating && !e.busy() {
		e.state = Idle
	}
	return e.state
}

// Dealing reports whether a deal sequence is still revealing cards.
func (e *Engine) Dealing() bool { return e.deal != nil }

func (e *Engine) busy() bool {
	if e.deal != nil {
		return true
	}
	for _, c := range e.hand.cards {
		if e.sched.Running(c.key()) {
			return true
		}
	}
	return false
}

// LayoutAll recomputes every slot and converges all cards at once. It
// supersedes a running deal sequence: cards still waiting to be dealt are
// revealed where they are and join the convergence.
func (e *Engine) LayoutAll() {
	e.cancelDeal()
	e.state = Computing
	if len(e.hand.cards) == 0 {
		e.state = Idle
		return
	}
	e.assignSlots()
	for _, c := range e.hand.cards {
		if c.Dragging {
			continue
		}
		c.Visible = true
		c.Dealt = true
		e.converge(c)
	}
	e.state = Animating
	e.log.Debug("layout pass", "cards", len(e.hand.cards), "mode", e.opts.Mode)
}

// Deal inserts freshly drawn cards and reveals them one by one from the
// deal-from anchor while the cards already in hand shift to their new slots.
// Cards that do not fit are dropped and ErrHandFull is returned.
func (e *Engine) Deal(cards ...*Card) error {
	var err error
	queue := []*Card{}
	if e.deal != nil {
		queue = append(queue, e.deal.queue...)
		e.cancelDeal()
	}
	for _, c := range cards {
		if addErr := e.hand.add(c); addErr != nil {
			e.log.Warn("card does not fit in hand", "card", c, "max", e.hand.max)
			err = addErr
			continue
		}
		c.Visible = false
		c.Dealt = false
		c.owner = OwnedByLayout
		c.Transform = Transform{Pos: e.opts.DealFrom, Scale: 1}
		queue = append(queue, c)
	}
	e.state = Computing
	if len(e.hand.cards) == 0 {
		e.state = Idle
		return err
	}
	e.assignSlots()
	for _, c := range e.hand.cards {
		if c.Dragging || !c.Dealt {
			continue
		}
		e.converge(c)
	}
	if len(queue) > 0 {
		e.deal = newDealTask(e, queue)
		e.sched.Start(dealKey, e.deal)
	}
	e.state = Animating
	e.log.Debug("dealing", "new", len(queue), "hand", len(e.hand.cards))
	return err
}

// Remove excises a played or discarded card and re-lays the rest without
// replaying the deal animation.
func (e *Engine) Remove(c *Card) bool {
	if !e.hand.remove(c) {
		return false
	}
	c.removed = true
	c.Visible = false
	e.sched.Cancel(c.key())
	if e.deal != nil {
		e.deal.drop(c)
	}
	e.LayoutAll()
	return true
}

// Refresh retargets a single resting card, picking up a pop state change.
func (e *Engine) Refresh(c *Card) {
	if c.Dragging || c.removed || !e.hand.Contains(c) {
		return
	}
	e.converge(c)
	if e.state == Idle {
		e.state = Animating
	}
}

// RestTarget is the slot adjusted for the pop preview.
func (e *Engine) RestTarget(c *Card) Transform {
	t := c.slot
	if c.Popped {
		t.Pos.Y += e.opts.PopOffset
		t.Scale *= e.opts.PopScale
	}
	return t
}

func (e *Engine) assignSlots() {
	slots := e.opts.Slots(len(e.hand.cards))
	for i, c := range e.hand.cards {
		c.slot = slots[i]
		c.DefaultZ = i
	}
}

func (e *Engine) topZ() int { return len(e.hand.cards) }

// converge hands c to the layout and starts moving it to its rest target,
// replacing whatever animation owned it before.
func (e *Engine) converge(c *Card) {
	c.owner = OwnedByLayout
	c.target = e.RestTarget(c)
	if c.Popped {
		c.Z = e.topZ() + 1
	} else {
		c.Z = c.DefaultZ
	}
	e.sched.Start(c.key(), &convergeTask{card: c, opts: &e.opts})
}

func (e *Engine) reveal(c *Card) {
	c.Visible = true
	c.Dealt = true
	e.converge(c)
}

func (e *Engine) cancelDeal() {
	if e.deal == nil {
		return
	}
	e.sched.Cancel(dealKey)
	e.deal = nil
}
