package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitPriceSide(t *testing.T) {
	q := PriceQuote{Epic: "E", Bid: 99, Offer: 101}

	long := TrackedPosition{Direction: DirectionBuy}
	short := TrackedPosition{Direction: DirectionSell}

	// лонг выходит продажей по bid, шорт — покупкой по offer
	assert.Equal(t, 99.0, long.ExitPrice(q))
	assert.Equal(t, 101.0, short.ExitPrice(q))
}

func TestShouldCloseLong(t *testing.T) {
	p := TrackedPosition{Direction: DirectionBuy, StopLoss: 90, TakeProfit: 110}

	assert.True(t, p.ShouldClose(89))
	assert.True(t, p.ShouldClose(90)) // граница включительно
	assert.False(t, p.ShouldClose(100))
	assert.True(t, p.ShouldClose(110))
	assert.True(t, p.ShouldClose(115))
}

func TestShouldCloseShort(t *testing.T) {
	p := TrackedPosition{Direction: DirectionSell, StopLoss: 110, TakeProfit: 90}

	assert.True(t, p.ShouldClose(111))
	assert.True(t, p.ShouldClose(110))
	assert.False(t, p.ShouldClose(100))
	assert.True(t, p.ShouldClose(90))
	assert.True(t, p.ShouldClose(85))
}

func TestShouldCloseUnarmedSides(t *testing.T) {
	// нулевой уровень — сторона не взведена
	p := TrackedPosition{Direction: DirectionBuy, StopLoss: 0, TakeProfit: 110}
	assert.False(t, p.ShouldClose(1))
	assert.True(t, p.ShouldClose(110))

	p = TrackedPosition{Direction: DirectionBuy}
	assert.False(t, p.ShouldClose(100))
}

func TestShouldCloseIgnoresZeroPrice(t *testing.T) {
	p := TrackedPosition{Direction: DirectionBuy, StopLoss: 90}
	assert.False(t, p.ShouldClose(0))
}

func TestParseAction(t *testing.T) {
	a, ok := ParseAction(" BUY ")
	require.True(t, ok)
	assert.Equal(t, ActionBuy, a)

	a, ok = ParseAction("sell")
	require.True(t, ok)
	assert.Equal(t, ActionSell, a)

	_, ok = ParseAction("hold")
	assert.False(t, ok)
}

func TestDirectionHelpers(t *testing.T) {
	assert.Equal(t, DirectionSell, DirectionBuy.Opposite())
	assert.Equal(t, DirectionBuy, DirectionSell.Opposite())
	assert.True(t, DirectionBuy.IsLong())
	assert.False(t, DirectionSell.IsLong())
}

func TestKindOfAndNotFound(t *testing.T) {
	err := NewRejectedNotFound("позиция %s не найдена", "D1")
	assert.Equal(t, KindOrderRejected, KindOf(err))
	assert.True(t, IsNotFound(err))

	assert.False(t, IsNotFound(NewRejected("отклонено")))
	assert.Equal(t, KindNetwork, KindOf(assert.AnError))
}
