package turn

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joecammo/Daemon/affinity"
	"github.com/joecammo/Daemon/deck"
	"github.com/joecammo/Daemon/energy"
	"github.com/joecammo/Daemon/hand"
	"github.com/joecammo/Daemon/table"
	"github.com/joecammo/Daemon/tween"
)

func setup(t *testing.T, pool string, registryLoaded bool) (*Controller, *energy.Ledger, *hand.Engine, *deck.Builder) {
	t.Helper()
	logger := log.New(io.Discard)
	reg := affinity.NewRegistry(affinity.Blue, logger)
	if registryLoaded {
		require.NoError(t, reg.Load(table.Parse("Name,Affinity\nRex,Red\n")))
	}
	b := deck.NewBuilder(reg, 7, logger)
	require.NoError(t, b.LoadAbilities(table.Parse("Title,Affinity,Cost,Type,Effect\nStrike,Red,1,Attack,Deal 6 damage\n")))
	require.NoError(t, b.BuildDeck(table.Parse("Title,Daemon,Quantity\nStrike,Rex,"+pool+"\n"), b.Abilities()))

	led := energy.NewLedger(3, logger)
	eng := hand.NewEngine(hand.New(5), tween.NewScheduler[string](), hand.DefaultOptions(), logger)
	return NewController(led, b, eng, logger), led, eng, b
}

func TestEndTurnFillsHandAndEnergy(t *testing.T) {
	ctl, led, eng, _ := setup(t, "20", true)
	led.Spend(3)

	n, err := ctl.EndTurn()
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, 3, led.Current())
	assert.Equal(t, 5, eng.Hand().Len())
	assert.Equal(t, 1, ctl.Turn())

	n, err = ctl.EndTurn()
	require.NoError(t, err)
	assert.Equal(t, 0, n, "full hand deals nothing")
	assert.Equal(t, 5, eng.Hand().Len())
}

func TestBeginDealsOpeningHand(t *testing.T) {
	ctl, led, eng, _ := setup(t, "20", true)
	n, err := ctl.Begin(3)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, eng.Hand().Len())
	assert.Equal(t, 3, led.Current())
	assert.Equal(t, 1, ctl.Turn())

	n, err = ctl.Begin(9)
	require.NoError(t, err)
	assert.Equal(t, 2, n, "never past the hand cap")
}

func TestEndTurnCountsOnlyLiveCards(t *testing.T) {
	ctl, _, eng, _ := setup(t, "20", true)
	_, err := ctl.EndTurn()
	require.NoError(t, err)

	cards := eng.Hand().Cards()
	eng.Remove(cards[0])
	eng.Remove(cards[1])
	n, err := ctl.EndTurn()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 5, eng.Hand().Len())
	assert.LessOrEqual(t, eng.Hand().Len(), eng.Hand().Max())
}

func TestEndTurnWithShortDeck(t *testing.T) {
	ctl, _, eng, b := setup(t, "2", true)
	n, err := ctl.EndTurn()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, eng.Hand().Len())
	assert.Equal(t, 0, b.Remaining())
}

func TestEndTurnAbortsWithoutRegistry(t *testing.T) {
	ctl, led, eng, _ := setup(t, "5", false)
	led.Spend(2)
	_, err := ctl.EndTurn()
	assert.ErrorIs(t, err, deck.ErrRegistryNotLoaded)
	assert.Equal(t, 0, eng.Hand().Len())
	assert.Equal(t, 3, led.Current(), "refill happens before the deal")
}
