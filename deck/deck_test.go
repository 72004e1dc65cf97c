package deck

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joecammo/Daemon/affinity"
	"github.com/joecammo/Daemon/card"
	"github.com/joecammo/Daemon/hand"
	"github.com/joecammo/Daemon/table"
)

const abilitiesCSV = `Title,Affinity,Cost,Type,Effect
Strike,Red,1,Attack,"Deal 6 damage."
Guard,Blue,1,Skill,Gain 5 block
Overload,Purple,x,Attack,"Deal 12 damage, then draw 1 card"
Mystery,Yellow,2,Ritual,Nothing
`

const daemonsCSV = `Name,Affinity
Rex,Red
Vela,purple
`

func quiet() *log.Logger { return log.New(io.Discard) }

func loaded(t *testing.T) *Builder {
	t.Helper()
	reg := affinity.NewRegistry(affinity.Blue, quiet())
	require.NoError(t, reg.Load(table.Parse(daemonsCSV)))
	b := NewBuilder(reg, 42, quiet())
	require.NoError(t, b.LoadAbilities(table.Parse(abilitiesCSV)))
	return b
}

func TestLoadAbilities(t *testing.T) {
	b := loaded(t)
	idx := b.Abilities()
	require.Len(t, idx, 4)
	require.Contains(t, idx, "Mystery", "unknown type keeps the card")
	assert.Equal(t, card.Skill, idx["Mystery"].Kind)

	strike := idx["Strike"]
	assert.Equal(t, 1, strike.Cost)
	assert.Equal(t, card.Attack, strike.Kind)
	assert.Equal(t, affinity.Red, strike.Affinity)
	assert.Equal(t, []card.Effect{{Kind: card.Damage, Amount: 6}}, strike.Effects)

	assert.Equal(t, 1, idx["Overload"].Cost, "unparsable cost defaults to 1")
	assert.Len(t, idx["Overload"].Effects, 2)
}

func TestLoadAbilitiesColumnOrderAndReload(t *testing.T) {
	b := loaded(t)
	require.NoError(t, b.LoadAbilities(table.Parse("Type,Cost,Effect,Affinity,Title,Extra\nSkill,3,,Blue,Strike,zzz\n")))
	s := b.Abilities()["Strike"]
	assert.Equal(t, 3, s.Cost)
	assert.Equal(t, card.Skill, s.Kind)
	assert.Len(t, b.Abilities(), 4)
}

func TestLoadAbilitiesMissingColumn(t *testing.T) {
	b := NewBuilder(affinity.NewRegistry(affinity.Blue, quiet()), 1, quiet())
	err := b.LoadAbilities(table.Parse("Title,Cost\nStrike,1\n"))
	var missing *table.MissingColumnError
	require.ErrorAs(t, err, &missing)
	assert.ElementsMatch(t, []string{"Affinity", "Type", "Effect"}, missing.Columns)
}

func TestBuildDeckExpandsQuantity(t *testing.T) {
	b := loaded(t)
	rows := table.Parse(`Title,Daemon,Quantity
Strike,Rex,3
Ghost,Rex,2
Guard,,two
Overload,Vela,0
`)
	require.NoError(t, b.BuildDeck(rows, b.Abilities()))
	assert.Equal(t, 4, b.Remaining())

	counts := map[string]int{}
	for _, e := range b.Pool() {
		counts[e.Def.Title]++
	}
	assert.Equal(t, map[string]int{"Strike": 3, "Guard": 1}, counts)
}

func TestBuildDeckNeedsAbilities(t *testing.T) {
	b := NewBuilder(affinity.NewRegistry(affinity.Blue, quiet()), 1, quiet())
	err := b.BuildDeck(table.Parse("Title,Daemon,Quantity\nStrike,,1\n"), b.Abilities())
	assert.ErrorIs(t, err, ErrNoAbilities)
}

func TestDealResolvesColor(t *testing.T) {
	b := loaded(t)
	rows := table.Parse("Title,Daemon,Quantity\nStrike,Rex,3\n")
	require.NoError(t, b.BuildDeck(rows, b.Abilities()))

	cards, err := b.Deal(3)
	require.NoError(t, err)
	require.Len(t, cards, 3)
	for _, c := range cards {
		assert.Equal(t, affinity.Red, c.Color)
		assert.Equal(t, 1, c.Def.Cost)
		assert.Equal(t, "Rex", c.Daemon)
	}
	assert.Equal(t, 0, b.Remaining())
}

func TestDealFallsBackToDefinitionColor(t *testing.T) {
	b := loaded(t)
	rows := table.Parse("Title,Daemon,Quantity\nGuard,,1\nStrike,Nobody,1\n")
	require.NoError(t, b.BuildDeck(rows, b.Abilities()))
	cards, err := b.Deal(2)
	require.NoError(t, err)
	for _, c := range cards {
		assert.Equal(t, c.Def.Affinity, c.Color)
	}
}

func TestDealBeforeRegistryLoaded(t *testing.T) {
	reg := affinity.NewRegistry(affinity.Blue, quiet())
	b := NewBuilder(reg, 1, quiet())
	require.NoError(t, b.LoadAbilities(table.Parse(abilitiesCSV)))
	require.NoError(t, b.BuildDeck(table.Parse("Title,Daemon,Quantity\nStrike,Rex,2\n"), b.Abilities()))

	cards, err := b.Deal(1)
	assert.ErrorIs(t, err, ErrRegistryNotLoaded)
	assert.Empty(t, cards)
	assert.Equal(t, 2, b.Remaining(), "nothing is drawn")
}

func TestDealPastPool(t *testing.T) {
	b := loaded(t)
	require.NoError(t, b.BuildDeck(table.Parse("Title,Daemon,Quantity\nStrike,Rex,2\n"), b.Abilities()))
	cards, err := b.Deal(5)
	assert.ErrorIs(t, err, ErrPoolExhausted)
	assert.Len(t, cards, 2)
}

func TestShuffleReachesEveryOrder(t *testing.T) {
	seen := map[string]bool{}
	for seed := int64(1); seed <= 200; seed++ {
		reg := affinity.NewRegistry(affinity.Blue, quiet())
		b := NewBuilder(reg, seed, quiet())
		require.NoError(t, b.LoadAbilities(table.Parse(abilitiesCSV)))
		require.NoError(t, b.BuildDeck(table.Parse("Title,Daemon,Quantity\nStrike,,1\nGuard,,1\nOverload,,1\n"), b.Abilities()))
		key := ""
		for _, e := range b.Pool() {
			key += e.Def.Title[:1]
		}
		seen[key] = true
	}
	assert.Len(t, seen, 6)
}

func TestDealToInsertsIntoHand(t *testing.T) {
	b := loaded(t)
	require.NoError(t, b.BuildDeck(table.Parse("Title,Daemon,Quantity\nStrike,Rex,4\n"), b.Abilities()))
	ins := &recorder{room: 5}
	cards, err := b.DealTo(ins, 2)
	require.NoError(t, err)
	assert.Len(t, cards, 2)
	assert.Equal(t, cards, ins.got)
}

func TestDealToStopsAtRoom(t *testing.T) {
	b := loaded(t)
	require.NoError(t, b.BuildDeck(table.Parse("Title,Daemon,Quantity\nStrike,Rex,10\n"), b.Abilities()))
	ins := &recorder{room: 7}
	cards, err := b.DealTo(ins, 10)
	assert.ErrorIs(t, err, hand.ErrHandFull)
	assert.Len(t, cards, 7)
	assert.Equal(t, cards, ins.got)
	assert.Equal(t, 3, b.Remaining(), "cards that do not fit stay in the pool")

	cards, err = b.DealTo(ins, 2)
	assert.ErrorIs(t, err, hand.ErrHandFull)
	assert.Empty(t, cards)
	assert.Equal(t, 3, b.Remaining())
}

type recorder struct {
	got  []*hand.Card
	room int
}

func (r *recorder) Deal(cards ...*hand.Card) error {
	r.got = append(r.got, cards...)
	r.room -= len(cards)
	return nil
}

func (r *recorder) Room() int { return r.room }
