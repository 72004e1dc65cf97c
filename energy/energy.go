// Package energy holds the per-turn energy budget cards are paid from.
package energy

import "github.com/charmbracelet/log"

const DefaultMax = 6

// Indicator is one pip of the energy bar. Index is its position on screen.
type Indicator struct {
	Index     int
	Available bool
}

// Ledger tracks current energy in [0, Max]. It is only changed through Spend
// and Refill.
type Ledger struct {
	max      int
	current  int
	log      *log.Logger
	onChange []func(current, max int)
}

// NewLedger returns a full ledger. A non-positive max falls back to
// DefaultMax.
func NewLedger(max int, logger *log.Logger) *Ledger {
	if max <= 0 {
		max = DefaultMax
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Ledger{max: max, current: max, log: logger.WithPrefix("energy")}
}

func (l *Ledger) Current() int { return l.current }

func (l *Ledger) Max() int { return l.max }

func (l *Ledger) CanSpend(cost int) bool {
	return cost >= 0 && cost <= l.current
}

// Spend debits cost and reports whether it could. An unaffordable cost
// leaves the ledger untouched.
func (l *Ledger) Spend(cost int) bool {
	if !l.CanSpend(cost) {
		l.log.Debug("cannot spend", "cost", cost, "current", l.current)
		return false
	}
	l.current -= cost
	l.changed()
	return true
}

func (l *Ledger) Refill() {
	l.current = l.max
	l.changed()
}

// OnChange registers fn to run after every mutation.
func (l *Ledger) OnChange(fn func(current, max int)) {
	l.onChange = append(l.onChange, fn)
}

// Indicators derives the whole pip row from current. Pips fill from the
// right: the pip at screen index Max-1-i is available when i < current.
func (l *Ledger) Indicators() []Indicator {
	out := make([]Indicator, l.max)
	for i := 0; i < l.max; i++ {
		idx := l.max - 1 - i
		out[idx] = Indicator{Index: idx, Available: i < l.current}
	}
	return out
}

func (l *Ledger) changed() {
	l.log.Debug("energy", "current", l.current, "max", l.max)
	for _, fn := range l.onChange {
		fn(l.current, l.max)
	}
}
