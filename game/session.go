// Package game wires the hand subsystem into one playable session driven by
// a per-frame Update.
package game

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/joecammo/Daemon/affinity"
	"github.com/joecammo/Daemon/board"
	"github.com/joecammo/Daemon/card"
	"github.com/joecammo/Daemon/config"
	"github.com/joecammo/Daemon/deck"
	"github.com/joecammo/Daemon/energy"
	"github.com/joecammo/Daemon/geom"
	"github.com/joecammo/Daemon/hand"
	"github.com/joecammo/Daemon/present"
	"github.com/joecammo/Daemon/source"
	"github.com/joecammo/Daemon/table"
	"github.com/joecammo/Daemon/turn"
	"github.com/joecammo/Daemon/tween"
)

// Session owns every component of one game. It is not safe for concurrent
// use; a single loop calls Update, Pointer and EndTurn.
type Session struct {
	cfg *config.Config
	log *log.Logger

	registry *affinity.Registry
	builder  *deck.Builder
	ledger   *energy.Ledger
	sched    *tween.Scheduler[string]
	hand     *hand.Hand
	engine   *hand.Engine
	ctl      *hand.Controller
	router   *hand.Router
	board    *board.Board
	turns    *turn.Controller

	loaded bool
}

func New(cfg *config.Config, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.Default()
	}
	s := &Session{cfg: cfg, log: logger.WithPrefix("game")}
	s.registry = affinity.NewRegistry(cfg.DefaultAffinity(), logger)
	s.builder = deck.NewBuilder(s.registry, cfg.Seed, logger)
	s.ledger = energy.NewLedger(cfg.Rules.MaxEnergy, logger)
	s.sched = tween.NewScheduler[string]()
	s.hand = hand.New(cfg.Rules.MaxHand)
	s.engine = hand.NewEngine(s.hand, s.sched, cfg.HandOptions(), logger)
	s.board = DefaultBoard(logger)
	s.ctl = hand.NewController(s.engine, s.ledger, s.board, logger)
	s.ctl.OnPlayed = s.played
	s.router = hand.NewRouter(s.ctl)
	s.turns = turn.NewController(s.ledger, s.builder, s.engine, logger)
	return s
}

// DefaultBoard is a single enemy facing the player's daemon. Each unit has
// a portrait frame on the UI layer and a body shape below it.
func DefaultBoard(logger *log.Logger) *board.Board {
	b := board.New(logger)
	enemy := board.NewUnit("Husk", card.Hostile, 40, geom.Circle{Center: geom.V(4, 2.5), R: 1.5})
	self := board.NewUnit("Rex", card.Friendly, 30, geom.Circle{Center: geom.V(-4, 2.5), R: 1.5})
	b.Add(enemy)
	b.Add(self)
	b.AddWidget(geom.RectCentered(geom.V(4, 4.75), 2.5, 0.8), 1, enemy)
	b.AddWidget(geom.RectCentered(geom.V(-4, 4.75), 2.5, 0.8), 1, self)
	return b
}

// Load reads the three feeds in dependency order: daemons first so that no
// card is ever colored without them, then abilities, then the deck. Any
// feed failing aborts the load.
func (s *Session) Load(ctx context.Context, src source.Source) error {
	rows := func(f source.Feed) ([][]string, error) {
		text, err := src.Fetch(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
		return table.Parse(text), nil
	}
	daemons, err := rows(source.Daemons)
	if err != nil {
		return err
	}
	if err := s.registry.Load(daemons); err != nil {
		return err
	}
	abilities, err := rows(source.Abilities)
	if err != nil {
		return err
	}
	if err := s.builder.LoadAbilities(abilities); err != nil {
		return err
	}
	composition, err := rows(source.Deck)
	if err != nil {
		return err
	}
	if err := s.builder.BuildDeck(composition, s.builder.Abilities()); err != nil {
		return err
	}
	s.loaded = true
	s.log.Info("session loaded", "daemons", s.registry.Len(), "abilities", len(s.builder.Abilities()), "deck", s.builder.Remaining())
	return nil
}

// Start opens turn one with the configured opening hand.
func (s *Session) Start() error {
	if !s.loaded {
		return errors.New("session not loaded")
	}
	_, err := s.turns.Begin(s.cfg.Rules.InitialHand)
	return err
}

// Deal draws up to n cards straight into the hand, never past its room.
func (s *Session) Deal(n int) ([]*hand.Card, error) {
	return s.builder.DealTo(s.engine, n)
}

// EndTurn clears block on the board, refills energy and refills the hand.
func (s *Session) EndTurn() error {
	if s.hand.Dragging() != nil {
		s.log.Debug("end turn ignored while dragging")
		return nil
	}
	s.ctl.Unpop()
	s.board.Reset()
	_, err := s.turns.EndTurn()
	return err
}

// Pointer feeds one pointer event in world space.
func (s *Session) Pointer(ev hand.Pointer) (hand.Result, bool) {
	return s.router.Handle(ev)
}

// Command applies one viewer command from the websocket hub.
func (s *Session) Command(c present.Command) error {
	switch c.Type {
	case present.PointerAction:
		if c.Pointer == nil {
			return errors.New("pointer command without data")
		}
		phase, ok := hand.ParsePhase(c.Pointer.Phase)
		if !ok {
			return fmt.Errorf("unknown pointer phase %q", c.Pointer.Phase)
		}
		if res, ok := s.Pointer(hand.Pointer{Pos: geom.V(c.Pointer.X, c.Pointer.Y), Phase: phase}); ok {
			s.log.Debug("remote drop", "client", c.Client, "card", res.Card, "outcome", res.Outcome)
		}
		return nil
	case present.EndTurnAction:
		return s.EndTurn()
	}
	return fmt.Errorf("unknown command %q", c.Type)
}

// Update advances every animation by dt seconds.
func (s *Session) Update(dt float64) {
	s.sched.Tick(dt)
}

func (s *Session) played(c *hand.Card, t hand.Target) {
	if c.Def == nil {
		return
	}
	res := s.board.Apply(c.Def, t)
	if res.Draw <= 0 {
		return
	}
	n := min(res.Draw, s.hand.Room())
	if _, err := s.builder.DealTo(s.engine, n); err != nil && !errors.Is(err, deck.ErrPoolExhausted) {
		s.log.Error("draw failed", "card", c, "err", err)
	}
}

func (s *Session) Hand() *hand.Hand             { return s.hand }
func (s *Session) Engine() *hand.Engine         { return s.engine }
func (s *Session) Controller() *hand.Controller { return s.ctl }
func (s *Session) Ledger() *energy.Ledger       { return s.ledger }
func (s *Session) Board() *board.Board          { return s.board }
func (s *Session) Builder() *deck.Builder       { return s.builder }
func (s *Session) Registry() *affinity.Registry { return s.registry }
func (s *Session) Turn() int                    { return s.turns.Turn() }
func (s *Session) Config() *config.Config       { return s.cfg }

// Frame snapshots everything a renderer paints.
func (s *Session) Frame() *present.Frame {
	f := &present.Frame{
		Turn:   s.turns.Turn(),
		Deck:   s.builder.Remaining(),
		Layout: s.engine.Options().Mode.String(),
		Energy: present.Energy{Current: s.ledger.Current(), Max: s.ledger.Max()},
	}
	for _, in := range s.ledger.Indicators() {
		f.Energy.Pips = append(f.Energy.Pips, in.Available)
	}
	cards := s.hand.Cards()
	sort.SliceStable(cards, func(i, j int) bool { return cards[i].Z < cards[j].Z })
	for _, c := range cards {
		f.Cards = append(f.Cards, describe(c))
	}
	for _, u := range s.board.Units() {
		var at geom.Vec
		if circle, ok := u.Shape.(geom.Circle); ok {
			at = circle.Center
		}
		f.Units = append(f.Units, present.Unit{
			ID:          u.ID.String(),
			Name:        u.Name,
			Category:    u.Cat.String(),
			Color:       s.registry.Get(u.Name).Hex(),
			Health:      u.Health,
			MaxHealth:   u.MaxHealth,
			Block:       u.Block,
			X:           at.X,
			Y:           at.Y,
			Highlighted: u.Highlighted,
			Defeated:    u.Defeated(),
		})
	}
	return f
}

func describe(c *hand.Card) present.Card {
	d := present.Card{
		ID:       c.ID.String(),
		Name:     c.Name,
		Affinity: c.Color.String(),
		Color:    c.Color.Hex(),
		Daemon:   c.Daemon,
		X:        c.Transform.Pos.X,
		Y:        c.Transform.Pos.Y,
		Rot:      c.Transform.Rot,
		Scale:    c.Transform.Scale,
		Z:        c.Z,
		Visible:  c.Visible,
		Popped:   c.Popped,
		Dragging: c.Dragging,
	}
	if c.Def != nil {
		d.Title = c.Def.Title
		d.Cost = c.Def.Cost
		d.Kind = c.Def.Kind.String()
		d.Text = c.Def.Text
	}
	return d
}
