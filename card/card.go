package card

import (
	"fmt"
	"strings"

	"github.com/joecammo/Daemon/affinity"
)

// Kind decides which targets a card may be played on.
type Kind int

const (
	Skill Kind = iota
	Attack
)

func (k Kind) String() string {
	switch k {
	case Skill:
		return "Skill"
	case Attack:
		return "Attack"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "skill":
		return Skill, true
	case "attack":
		return Attack, true
	}
	return Skill, false
}

// Category tags a play target on the board.
type Category int

const (
	Hostile Category = iota
	Friendly
)

func (c Category) String() string {
	if c == Hostile {
		return "hostile"
	}
	return "friendly"
}

// Targets returns the only target category a card of this kind accepts.
func (k Kind) Targets() Category {
	if k == Attack {
		return Hostile
	}
	return Friendly
}

// Accepts reports whether a card of this kind may resolve against c.
func (k Kind) Accepts(c Category) bool {
	return k.Targets() == c
}

// Definition is one row of the Abilities feed. It is never mutated after
// loading; hand cards share it.
type Definition struct {
	Title    string
	Cost     int
	Kind     Kind
	Text     string
	Affinity affinity.Category
	Effects  []Effect
}

func (d *Definition) String() string {
	return fmt.Sprintf("%s {%d} %s [%s]", d.Title, d.Cost, d.Kind, d.Affinity)
}
