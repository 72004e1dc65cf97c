// Package deck turns the Abilities and Deck feeds into a shuffled pool and
// deals hand cards from it.
package deck

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/joecammo/Daemon/affinity"
	"github.com/joecammo/Daemon/card"
	"github.com/joecammo/Daemon/hand"
	"github.com/joecammo/Daemon/table"
)

var (
	ErrRegistryNotLoaded = errors.New("affinity registry not loaded")
	ErrNoAbilities       = errors.New("no abilities loaded")
	ErrPoolExhausted     = errors.New("deck pool exhausted")
)

// Index maps card titles to their definitions.
type Index map[string]*card.Definition

// Entry is one copy of a card in the undealt pool.
type Entry struct {
	Def    *card.Definition
	Daemon string
}

// Inserter receives freshly dealt cards; the hand layout engine is one.
// Room is how many more cards it accepts.
type Inserter interface {
	Deal(cards ...*hand.Card) error
	Room() int
}

type Builder struct {
	abilities Index
	pool      []Entry
	registry  *affinity.Registry
	rng       *rand.Rand
	nextSlot  int
	log       *log.Logger
}

// NewBuilder returns a builder that colors cards through registry. A zero
// seed seeds from the clock.
func NewBuilder(registry *affinity.Registry, seed int64, logger *log.Logger) *Builder {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Builder{
		abilities: make(Index),
		registry:  registry,
		rng:       rand.New(rand.NewSource(seed)),
		log:       logger.WithPrefix("deck"),
	}
}

// LoadAbilities indexes the Abilities feed by title. Reloading a title
// replaces the earlier definition.
func (b *Builder) LoadAbilities(rows [][]string) error {
	t := table.FromRows(rows)
	cols, err := t.Columns("Title", "Affinity", "Cost", "Type", "Effect")
	if err != nil {
		return fmt.Errorf("abilities feed: %w", err)
	}
	def := affinity.Blue
	if b.registry != nil {
		def = b.registry.Default()
	}
	for i, row := range t.Rows {
		line := i + 2
		if !cols.Fits(row) {
			b.log.Warn("skipping malformed row", "feed", "abilities", "row", line, "fields", len(row))
			continue
		}
		title := cols.Get(row, "Title")
		if title == "" {
			continue
		}
		kind, ok := card.ParseKind(cols.Get(row, "Type"))
		if !ok {
			b.log.Warn("unknown type, using Skill", "card", title, "type", cols.Get(row, "Type"))
			kind = card.Skill
		}
		cost, err := strconv.Atoi(cols.Get(row, "Cost"))
		if err != nil || cost < 0 {
			b.log.Warn("bad cost, using 1", "card", title, "cost", cols.Get(row, "Cost"))
			cost = 1
		}
		text := cols.Get(row, "Effect")
		effects, err := card.ParseEffects(text)
		if err != nil {
			b.log.Warn("effect text not understood", "card", title, "err", err)
		}
		d := &card.Definition{
			Title:    title,
			Cost:     cost,
			Kind:     kind,
			Text:     text,
			Affinity: affinity.FromString(cols.Get(row, "Affinity"), def),
			Effects:  effects,
		}
		if _, dup := b.abilities[title]; dup {
			b.log.Warn("card redefined", "card", title)
		}
		b.abilities[title] = d
	}
	b.log.Info("abilities loaded", "count", len(b.abilities))
	return nil
}

// Abilities is the current title index.
func (b *Builder) Abilities() Index { return b.abilities }

// BuildDeck replaces the pool with the entries of the Deck feed, resolved
// against index, and shuffles it. Unknown titles are skipped.
func (b *Builder) BuildDeck(rows [][]string, index Index) error {
	if len(index) == 0 {
		return ErrNoAbilities
	}
	t := table.FromRows(rows)
	cols, err := t.Columns("Title", "Daemon", "Quantity")
	if err != nil {
		return fmt.Errorf("deck feed: %w", err)
	}
	pool := []Entry{}
	for i, row := range t.Rows {
		line := i + 2
		if !cols.Fits(row) {
			b.log.Warn("skipping malformed row", "feed", "deck", "row", line, "fields", len(row))
			continue
		}
		title := cols.Get(row, "Title")
		def, ok := index[title]
		if !ok {
			b.log.Warn("deck references unknown card", "card", title, "row", line)
			continue
		}
		qty, err := strconv.Atoi(cols.Get(row, "Quantity"))
		if err != nil {
			b.log.Warn("bad quantity, using 1", "card", title, "quantity", cols.Get(row, "Quantity"))
			qty = 1
		}
		daemon := cols.Get(row, "Daemon")
		for n := 0; n < qty; n++ {
			pool = append(pool, Entry{Def: def, Daemon: daemon})
		}
	}
	b.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	b.pool = pool
	b.log.Info("deck built", "cards", len(pool))
	return nil
}

// Remaining is the size of the undealt pool.
func (b *Builder) Remaining() int { return len(b.pool) }

// Pool returns the undealt entries in draw order.
func (b *Builder) Pool() []Entry {
	out := make([]Entry, len(b.pool))
	copy(out, b.pool)
	return out
}

// Deal draws n cards off the pool. If fewer remain it deals what is left and
// returns ErrPoolExhausted alongside them.
func (b *Builder) Deal(n int) ([]*hand.Card, error) {
	if !b.registry.Loaded() {
		return nil, ErrRegistryNotLoaded
	}
	if n <= 0 {
		return nil, nil
	}
	var err error
	if n > len(b.pool) {
		err = fmt.Errorf("%w: wanted %d, have %d", ErrPoolExhausted, n, len(b.pool))
		n = len(b.pool)
	}
	drawn := b.pool[:n]
	b.pool = b.pool[n:]
	cards := make([]*hand.Card, 0, n)
	for _, e := range drawn {
		b.nextSlot++
		cards = append(cards, hand.NewCard(e.Def, b.Color(e), e.Daemon, b.nextSlot))
	}
	return cards, err
}

// DealTo draws up to n cards and inserts them through ins. Cards are never
// drawn past the room ins has, so nothing leaves the pool without landing
// in the hand; a capped deal reports hand.ErrHandFull.
func (b *Builder) DealTo(ins Inserter, n int) ([]*hand.Card, error) {
	var capErr error
	if room := max(ins.Room(), 0); n > room {
		capErr = fmt.Errorf("%w: wanted %d, room for %d", hand.ErrHandFull, n, room)
		n = room
	}
	cards, err := b.Deal(n)
	if errors.Is(err, ErrRegistryNotLoaded) {
		return nil, err
	}
	err = errors.Join(err, capErr)
	if len(cards) > 0 {
		if insErr := ins.Deal(cards...); insErr != nil {
			return cards, errors.Join(err, insErr)
		}
	}
	return cards, err
}

// Color is the daemon's color when the daemon is known, else the ability's own.
func (b *Builder) Color(e Entry) affinity.Category {
	if e.Daemon != "" {
		if c, ok := b.registry.Lookup(e.Daemon); ok {
			return c
		}
	}
	return e.Def.Affinity
}
