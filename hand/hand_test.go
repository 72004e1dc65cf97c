package hand

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joecammo/Daemon/affinity"
	"github.com/joecammo/Daemon/card"
	"github.com/joecammo/Daemon/geom"
	"github.com/joecammo/Daemon/tween"
)

var (
	strike = &card.Definition{Title: "Strike", Cost: 1, Kind: card.Attack, Affinity: affinity.Red}
	guard  = &card.Definition{Title: "Guard", Cost: 1, Kind: card.Skill, Affinity: affinity.Blue}
)

type wallet struct{ current int }

func (w *wallet) CanSpend(cost int) bool { return cost <= w.current }

func (w *wallet) Spend(cost int) bool {
	if !w.CanSpend(cost) {
		return false
	}
	w.current -= cost
	return true
}

type dummy struct {
	cat   card.Category
	lit   bool
	flips int
}

func (d *dummy) Category() card.Category { return d.cat }

func (d *dummy) SetHighlight(on bool) {
	d.lit = on
	d.flips++
}

// probeAll reports the same target anywhere above y=0.
type probeAll struct{ target *dummy }

func (p probeAll) Probe(pos geom.Vec, cats ...card.Category) Target {
	if p.target == nil || pos.Y < 0 {
		return nil
	}
	for _, c := range cats {
		if c == p.target.cat {
			return p.target
		}
	}
	return nil
}

type rig struct {
	sched  *tween.Scheduler[string]
	hand   *Hand
	engine *Engine
	ctl    *Controller
	wallet *wallet
	target *dummy
}

func newRig(t *testing.T, opts Options) *rig {
	t.Helper()
	logger := log.New(io.Discard)
	r := &rig{
		sched:  tween.NewScheduler[string](),
		hand:   New(5),
		wallet: &wallet{current: 3},
		target: &dummy{cat: card.Hostile},
	}
	r.engine = NewEngine(r.hand, r.sched, opts, logger)
	r.ctl = NewController(r.engine, r.wallet, probeAll{r.target}, logger)
	return r
}

func (r *rig) deal(t *testing.T, defs ...*card.Definition) []*Card {
	t.Helper()
	var cards []*Card
	for i, d := range defs {
		cards = append(cards, NewCard(d, d.Affinity, "", r.hand.Len()+i+1))
	}
	require.NoError(t, r.engine.Deal(cards...))
	return cards
}

func (r *rig) settle() {
	for i := 0; i < 600; i++ {
		r.sched.Tick(1.0 / 60)
	}
}

func popped(h *Hand) int {
	n := 0
	for _, c := range h.Cards() {
		if c.Popped {
			n++
		}
	}
	return n
}

func TestFanSingleCardSitsAtCenter(t *testing.T) {
	opts := DefaultOptions()
	slots := FanSlots(1, opts)
	require.Len(t, slots, 1)
	assert.Equal(t, opts.Center, slots[0].Pos)
	assert.Equal(t, 0.0, slots[0].Rot)
}

func TestFanThreeCardAngles(t *testing.T) {
	opts := DefaultOptions()
	opts.FanAngle = 30
	opts.FanRadius = 1.5
	slots := FanSlots(3, opts)
	require.Len(t, slots, 3)
	want := []float64{-15, 0, 15}
	for i, s := range slots {
		assert.InDelta(t, want[i], s.Rot, 1e-9)
	}
	assert.InDelta(t, opts.Center.X, slots[1].Pos.X, 1e-9)
	assert.InDelta(t, opts.Center.Y+1.5, slots[1].Pos.Y, 1e-9)
	assert.InDelta(t, -(slots[0].Pos.X - opts.Center.X), slots[2].Pos.X-opts.Center.X, 1e-9)
}

func TestLinearSpacingClamps(t *testing.T) {
	opts := DefaultOptions()
	opts.ContainerWidth = 16
	opts.CardWidth = 2
	opts.Spacing = 2
	opts.MinSpacing = 0.4

	assert.Equal(t, 2.0, LinearSpacing(3, opts))
	assert.InDelta(t, 14.0/19, LinearSpacing(20, opts), 1e-9)
	assert.Equal(t, 0.4, LinearSpacing(100, opts))

	slots := LinearSlots(3, opts)
	assert.InDelta(t, opts.Center.X-2, slots[0].Pos.X, 1e-9)
	assert.InDelta(t, opts.Center.X, slots[1].Pos.X, 1e-9)
	assert.InDelta(t, opts.Center.X+2, slots[2].Pos.X, 1e-9)
	for _, s := range slots {
		assert.Equal(t, opts.Center.Y, s.Pos.Y)
		assert.Equal(t, 0.0, s.Rot)
	}
}

func TestLayoutAllOnEmptyHandIsNoop(t *testing.T) {
	r := newRig(t, DefaultOptions())
	r.engine.LayoutAll()
	assert.Equal(t, Idle, r.engine.State())
	assert.Equal(t, 0, r.sched.Len())
}

func TestHandSortsBySlotNumber(t *testing.T) {
	r := newRig(t, DefaultOptions())
	late := NewCard(strike, affinity.Red, "", 10)
	early := NewCard(strike, affinity.Red, "", 2)
	require.NoError(t, r.engine.Deal(late, early))
	cards := r.hand.Cards()
	assert.Equal(t, early, cards[0])
	assert.Equal(t, late, cards[1])
	assert.Equal(t, 0, early.DefaultZ)
	assert.Equal(t, 1, late.DefaultZ)
}

func TestDealRevealsOneCardPerDelay(t *testing.T) {
	opts := DefaultOptions()
	opts.DealDelay = 0.5
	r := newRig(t, opts)
	cards := r.deal(t, strike, strike, strike)
	for _, c := range cards {
		assert.False(t, c.Visible)
		assert.Equal(t, opts.DealFrom, c.Transform.Pos)
	}
	assert.True(t, r.engine.Dealing())

	visible := func() int {
		n := 0
		for _, c := range cards {
			if c.Visible {
				n++
			}
		}
		return n
	}
	r.sched.Tick(0.25)
	assert.Equal(t, 1, visible())
	r.sched.Tick(0.25)
	assert.Equal(t, 1, visible())
	r.sched.Tick(0.25)
	assert.Equal(t, 2, visible())
	r.sched.Tick(0.5)
	assert.Equal(t, 3, visible())
	assert.False(t, r.engine.Dealing())

	r.settle()
	assert.Equal(t, Idle, r.engine.State())
	for _, c := range cards {
		assert.Equal(t, c.Slot(), c.Transform)
	}
}

func TestDealOverCapacity(t *testing.T) {
	r := newRig(t, DefaultOptions())
	var cards []*Card
	for i := 1; i <= 7; i++ {
		cards = append(cards, NewCard(strike, affinity.Red, "", i))
	}
	err := r.engine.Deal(cards...)
	assert.ErrorIs(t, err, ErrHandFull)
	assert.Equal(t, 5, r.hand.Len())
	assert.Equal(t, 0, r.hand.Room())
}

func TestWatchdogSnapsStuckCard(t *testing.T) {
	opts := DefaultOptions()
	opts.Rate = 0
	opts.DealDelay = 0
	opts.Watchdog = 2
	r := newRig(t, opts)
	c := r.deal(t, strike)[0]
	for i := 0; i < 3; i++ {
		r.sched.Tick(0.5)
	}
	assert.Equal(t, opts.DealFrom, c.Transform.Pos, "rate 0 never moves the card")
	for i := 0; i < 3; i++ {
		r.sched.Tick(0.5)
	}
	assert.Equal(t, c.Slot(), c.Transform)
	assert.Equal(t, 0, r.sched.Len())
}

func TestPopIsExclusive(t *testing.T) {
	r := newRig(t, DefaultOptions())
	cards := r.deal(t, strike, strike, guard)
	r.settle()

	for _, c := range []*Card{cards[0], cards[2], cards[1], cards[1]} {
		r.ctl.Click(c)
		assert.Equal(t, 1, popped(r.hand))
		assert.Equal(t, c, r.hand.Popped())
	}
	r.settle()
	p := cards[1]
	assert.InDelta(t, p.Slot().Pos.Y+r.engine.Options().PopOffset, p.Transform.Pos.Y, 1e-9)
	assert.InDelta(t, r.engine.Options().PopScale, p.Transform.Scale, 1e-9)
	assert.Greater(t, p.Z, cards[2].Z)
	assert.Equal(t, cards[0].Slot(), cards[0].Transform)
}

func TestPopSurvivesRelayout(t *testing.T) {
	r := newRig(t, DefaultOptions())
	cards := r.deal(t, strike, strike)
	r.settle()
	r.ctl.Click(cards[0])
	r.sched.Tick(1.0 / 60)
	r.engine.LayoutAll()
	assert.InDelta(t, cards[0].Slot().Pos.Y+r.engine.Options().PopOffset, cards[0].Target().Pos.Y, 1e-9)
}

func TestDragWithoutTargetReturnsToSlot(t *testing.T) {
	r := newRig(t, DefaultOptions())
	cards := r.deal(t, strike, strike, strike)
	r.settle()
	c := cards[1]
	slot := c.Slot()
	r.ctl.Click(c)

	require.True(t, r.ctl.BeginDrag(c, c.Transform.Pos))
	assert.Nil(t, r.hand.Popped(), "drag clears the pop")
	assert.Equal(t, OwnedByInteraction, c.Owner())
	r.ctl.Drag(geom.V(5, -1))
	assert.Equal(t, geom.V(5, -1), c.Transform.Pos)

	res := r.ctl.EndDrag(geom.V(5, -1))
	assert.Equal(t, NoTarget, res.Outcome)
	assert.False(t, c.Popped)
	assert.Equal(t, OwnedByLayout, c.Owner())
	assert.Equal(t, 3, r.hand.Len())
	assert.Equal(t, 3, r.wallet.current)

	r.settle()
	assert.Equal(t, slot, c.Transform)
}

func TestOnlyOneCardDrags(t *testing.T) {
	r := newRig(t, DefaultOptions())
	cards := r.deal(t, strike, strike)
	r.settle()
	require.True(t, r.ctl.BeginDrag(cards[0], geom.Vec{}))
	assert.False(t, r.ctl.CanDrag())
	assert.False(t, r.ctl.BeginDrag(cards[1], geom.Vec{}))

	r.ctl.Click(cards[1])
	assert.True(t, cards[0].Dragging, "popping never interrupts a drag")
}

func TestPlayOnHostileTarget(t *testing.T) {
	r := newRig(t, DefaultOptions())
	cards := r.deal(t, strike, strike, strike)
	r.settle()
	var played *Card
	r.ctl.OnPlayed = func(c *Card, _ Target) { played = c }

	c := cards[0]
	require.True(t, r.ctl.BeginDrag(c, c.Transform.Pos))
	r.ctl.Drag(geom.V(0, 2))
	assert.True(t, r.target.lit)

	res := r.ctl.EndDrag(geom.V(0, 2))
	assert.Equal(t, Played, res.Outcome)
	assert.False(t, r.target.lit)
	assert.Equal(t, 2, r.wallet.current)
	assert.Equal(t, 2, r.hand.Len())
	assert.True(t, c.Removed())
	assert.Equal(t, c, played)

	r.settle()
	want := FanSlots(2, r.engine.Options())
	for i, rest := range r.hand.Cards() {
		assert.Equal(t, want[i], rest.Transform)
	}
}

func TestSkillRejectsHostileTarget(t *testing.T) {
	r := newRig(t, DefaultOptions())
	c := r.deal(t, guard)[0]
	r.settle()
	require.True(t, r.ctl.BeginDrag(c, c.Transform.Pos))
	res := r.ctl.EndDrag(geom.V(0, 2))
	assert.Equal(t, InvalidTarget, res.Outcome)
	assert.Equal(t, 3, r.wallet.current)
	assert.Equal(t, 1, r.hand.Len())
}

func TestNoEnergyReturnsCard(t *testing.T) {
	r := newRig(t, DefaultOptions())
	r.wallet.current = 0
	cards := r.deal(t, strike, strike)
	r.settle()
	c := cards[1]
	slot := c.Slot()
	require.True(t, r.ctl.BeginDrag(c, c.Transform.Pos))
	res := r.ctl.EndDrag(geom.V(0, 2))
	assert.Equal(t, NoEnergy, res.Outcome)
	assert.Equal(t, 0, r.wallet.current)
	assert.Equal(t, 2, r.hand.Len())
	r.settle()
	assert.Equal(t, slot, c.Transform)
}

func TestRemoveDuringDealCancelsSequence(t *testing.T) {
	opts := DefaultOptions()
	opts.DealDelay = 0.5
	r := newRig(t, opts)
	cards := r.deal(t, strike, strike, strike)
	r.sched.Tick(0.1)
	require.True(t, cards[0].Visible)
	require.False(t, cards[2].Visible)

	require.True(t, r.ctl.Discard(cards[0]))
	assert.False(t, r.engine.Dealing())
	assert.Equal(t, 2, r.hand.Len())
	assert.True(t, cards[1].Visible)
	assert.True(t, cards[2].Visible)

	r.settle()
	assert.Equal(t, Idle, r.engine.State())
	for _, c := range r.hand.Cards() {
		assert.Equal(t, c.Slot(), c.Transform)
	}
}

func TestRemoveMidAnimationKeepsOthersMoving(t *testing.T) {
	opts := DefaultOptions()
	opts.DealDelay = 0
	r := newRig(t, opts)
	cards := r.deal(t, strike, strike, strike)
	r.sched.Tick(1.0 / 60)
	r.sched.Tick(1.0 / 60)
	r.engine.Remove(cards[1])
	assert.False(t, r.sched.Running(cards[1].key()))
	assert.True(t, r.sched.Running(cards[0].key()))
	assert.True(t, r.sched.Running(cards[2].key()))
}

func TestRouterClickAndDrag(t *testing.T) {
	r := newRig(t, DefaultOptions())
	cards := r.deal(t, strike, strike, strike)
	r.settle()
	router := NewRouter(r.ctl)
	mid := cards[1].Transform.Pos

	router.Handle(Pointer{Pos: mid, Phase: Down})
	_, ok := router.Handle(Pointer{Pos: mid, Phase: Up})
	assert.False(t, ok)
	assert.Equal(t, cards[1], r.hand.Popped())

	r.settle()
	at := cards[1].Transform.Pos
	router.Handle(Pointer{Pos: at, Phase: Down})
	router.Handle(Pointer{Pos: at.Add(geom.V(0, 1)), Phase: Move})
	require.Equal(t, cards[1], r.hand.Dragging())
	router.Handle(Pointer{Pos: geom.V(0, 3), Phase: Move})
	res, ok := router.Handle(Pointer{Pos: geom.V(0, 3), Phase: Up})
	require.True(t, ok)
	assert.Equal(t, Played, res.Outcome)
	assert.Equal(t, 2, r.hand.Len())
}
