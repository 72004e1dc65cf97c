// Package present turns game state into write-only frames for renderers and
// ships them to remote viewers.
package present

// Card describes one hand card: what to print on it and where to paint it.
type Card struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Title    string  `json:"title"`
	Cost     int     `json:"cost"`
	Kind     string  `json:"kind"`
	Text     string  `json:"text,omitempty"`
	Affinity string  `json:"affinity"`
	Color    string  `json:"color"`
	Daemon   string  `json:"daemon,omitempty"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rot      float64 `json:"rot"`
	Scale    float64 `json:"scale"`
	Z        int     `json:"z"`
	Visible  bool    `json:"visible"`
	Popped   bool    `json:"popped,omitempty"`
	Dragging bool    `json:"dragging,omitempty"`
}

type Energy struct {
	Current int    `json:"current"`
	Max     int    `json:"max"`
	Pips    []bool `json:"pips"`
}

type Unit struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Color       string  `json:"color"`
	Health      int     `json:"health"`
	MaxHealth   int     `json:"maxHealth"`
	Block       int     `json:"block,omitempty"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Highlighted bool    `json:"highlighted,omitempty"`
	Defeated    bool    `json:"defeated,omitempty"`
}

// Frame is everything a renderer needs for one tick. Cards are sorted by Z,
// bottom first.
type Frame struct {
	Turn   int    `json:"turn"`
	Deck   int    `json:"deck"`
	Layout string `json:"layout"`
	Cards  []Card `json:"cards"`
	Energy Energy `json:"energy"`
	Units  []Unit `json:"units"`
}

// Sink consumes frames.
type Sink interface {
	Present(f *Frame)
}
