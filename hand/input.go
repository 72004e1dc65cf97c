package hand

import "github.com/joecammo/Daemon/geom"

type Phase int

const (
	Down Phase = iota
	Move
	Up
)

func (p Phase) String() string {
	switch p {
	case Down:
		return "down"
	case Move:
		return "move"
	default:
		return "up"
	}
}

// ParsePhase accepts "down", "move" or "up".
func ParsePhase(s string) (Phase, bool) {
	switch s {
	case "down":
		return Down, true
	case "move":
		return Move, true
	case "up":
		return Up, true
	}
	return Down, false
}

// Pointer is one pointer event in world space.
type Pointer struct {
	Pos   geom.Vec
	Phase Phase
}

// DragThreshold is how far the pointer must travel after a press before the
// press turns into a drag instead of a click.
const DragThreshold = 0.15

// Router turns raw pointer events into clicks and drags on the card under
// the pointer.
type Router struct {
	ctl     *Controller
	pressed *Card
	downAt  geom.Vec
}

func NewRouter(ctl *Controller) *Router {
	return &Router{ctl: ctl}
}

// Handle feeds one event. It returns the drop result when the event ended a
// drag and ok=false otherwise.
func (r *Router) Handle(ev Pointer) (res Result, ok bool) {
	opts := r.ctl.engine.opts
	switch ev.Phase {
	case Down:
		r.pressed = r.ctl.hand.CardAt(ev.Pos, opts.CardWidth, opts.CardHeight)
		r.downAt = ev.Pos
	case Move:
		if r.ctl.hand.dragging != nil {
			r.ctl.Drag(ev.Pos)
			return Result{}, false
		}
		if r.pressed != nil && ev.Pos.Dist(r.downAt) >= DragThreshold {
			if r.ctl.BeginDrag(r.pressed, r.downAt) {
				r.ctl.Drag(ev.Pos)
			}
		}
	case Up:
		pressed := r.pressed
		r.pressed = nil
		if r.ctl.hand.dragging != nil {
			return r.ctl.EndDrag(ev.Pos), true
		}
		if pressed != nil {
			r.ctl.Click(pressed)
		}
	}
	return Result{}, false
}
