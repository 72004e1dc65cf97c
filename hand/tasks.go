package hand

import (
	"github.com/joecammo/Daemon/geom"
	"github.com/joecammo/Daemon/tween"
)

// convergeTask eases one card toward its target each frame. The target is
// read every step so a pop toggled mid-flight takes effect immediately.
type convergeTask struct {
	card    *Card
	opts    *Options
	elapsed float64
}

func (t *convergeTask) Step(dt float64) bool {
	c := t.card
	if c.removed || c.Dragging {
		return true
	}
	t.elapsed += dt
	target := c.target
	if c.Transform.near(target, t.opts.PosTolerance, t.opts.RotTolerance) || t.elapsed >= t.opts.Watchdog {
		c.Transform = target
		return true
	}
	k := geom.Clamp(t.opts.Rate*dt, 0, 1)
	c.Transform.Pos = c.Transform.Pos.Lerp(target.Pos, k)
	c.Transform.Rot = geom.LerpAngle(c.Transform.Rot, target.Rot, k)
	c.Transform.Scale = tween.Smooth(c.Transform.Scale, target.Scale, t.opts.Rate, dt)
	if c.Transform.near(target, t.opts.PosTolerance, t.opts.RotTolerance) {
		c.Transform = target
		return true
	}
	return false
}

// dealTask reveals queued cards one at a time, the first on its first step
// and each following one DealDelay seconds after the previous reveal.
type dealTask struct {
	engine *Engine
	queue  []*Card
	pause  tween.Task
}

func newDealTask(e *Engine, queue []*Card) *dealTask {
	t := &dealTask{engine: e, queue: queue}
	t.pause = tween.Delay(0, t.revealNext)
	return t
}

func (t *dealTask) Step(dt float64) bool {
	for len(t.queue) > 0 {
		if t.pause == nil {
			t.pause = tween.Delay(t.engine.opts.DealDelay, t.revealNext)
		}
		if !t.pause.Step(dt) {
			return false
		}
		t.pause = nil
		dt = 0
	}
	if t.engine.deal == t {
		t.engine.deal = nil
	}
	return true
}

// revealNext shows the next queued card that is still in the hand.
func (t *dealTask) revealNext() {
	for len(t.queue) > 0 {
		c := t.queue[0]
		t.queue = t.queue[1:]
		if !c.removed {
			t.engine.reveal(c)
			return
		}
	}
}

func (t *dealTask) drop(c *Card) {
	for i, x := range t.queue {
		if x == c {
			t.queue = append(t.queue[:i], t.queue[i+1:]...)
			return
		}
	}
}
