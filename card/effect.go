package card

import (
	"fmt"
	"strings"
	"sync"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

type EffectKind int

const (
	Damage EffectKind = iota
	Block
	Heal
	Draw
)

func (k EffectKind) String() string {
	switch k {
	case Damage:
		return "damage"
	case Block:
		return "block"
	case Heal:
		return "heal"
	case Draw:
		return "draw"
	default:
		return fmt.Sprintf("EffectKind(%d)", int(k))
	}
}

// Effect is one resolved clause of a card's effect text.
type Effect struct {
	Kind   EffectKind
	Amount int
}

func (e Effect) String() string { return fmt.Sprintf("%s %d", e.Kind, e.Amount) }

// Effect text grammar: clauses of "<verb> <int> [words]" separated by
// punctuation or a conjunction, e.g. "Deal 6 damage, then draw 1 card."
type effectScript struct {
	Clauses []*effectClause `parser:"( Punct | Conj )* ( @@ ( Punct | Conj )* )*"`
}

type effectClause struct {
	Verb   string   `parser:"@Ident"`
	Amount int      `parser:"@Int"`
	Words  []string `parser:"@Ident*"`
}

type EffectParser struct {
	parser *participle.Parser[effectScript]
}

func NewEffectParser() *EffectParser {
	parser := participle.MustBuild[effectScript](
		participle.Lexer(lexer.MustSimple([]lexer.SimpleRule{
			{Name: "whitespace", Pattern: `\s+`},
			{Name: "Conj", Pattern: `(?:and|then)\b`},
			{Name: "Int", Pattern: `\d+`},
			{Name: "Ident", Pattern: `[a-z][a-z']*`},
			{Name: "Punct", Pattern: `[^\sa-z0-9]`},
		})),
		participle.UseLookahead(2),
	)
	return &EffectParser{parser}
}

// Parse turns effect text into effects. Text that does not follow the
// grammar, or names an unsupported verb, is an error; callers keep the text
// as flavor only.
func (p *EffectParser) Parse(text string) ([]Effect, error) {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return nil, nil
	}
	script, err := p.parser.ParseString("", text)
	if err != nil {
		return nil, err
	}
	effects := make([]Effect, 0, len(script.Clauses))
	for _, c := range script.Clauses {
		e, err := c.effect()
		if err != nil {
			return nil, err
		}
		effects = append(effects, e)
	}
	return effects, nil
}

func (c *effectClause) effect() (Effect, error) {
	unit := ""
	if len(c.Words) > 0 {
		unit = c.Words[0]
	}
	switch c.Verb {
	case "deal":
		if unit == "" || unit == "damage" {
			return Effect{Damage, c.Amount}, nil
		}
	case "gain":
		switch unit {
		case "block", "armor", "shield":
			return Effect{Block, c.Amount}, nil
		case "health", "hp", "life":
			return Effect{Heal, c.Amount}, nil
		}
	case "block":
		return Effect{Block, c.Amount}, nil
	case "heal", "restore":
		return Effect{Heal, c.Amount}, nil
	case "draw":
		return Effect{Draw, c.Amount}, nil
	}
	return Effect{}, fmt.Errorf("unsupported effect %q", strings.TrimSpace(fmt.Sprintf("%s %d %s", c.Verb, c.Amount, strings.Join(c.Words, " "))))
}

var (
	defaultEffectParser *EffectParser
	effectParserOnce    sync.Once
)

// ParseEffects parses with a shared parser.
func ParseEffects(text string) ([]Effect, error) {
	effectParserOnce.Do(func() { defaultEffectParser = NewEffectParser() })
	return defaultEffectParser.Parse(text)
}
