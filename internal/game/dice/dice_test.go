package dice_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/duel/internal/game/dice"
)

// constSource always returns v clamped into [0, n).
type constSource int

func (c constSource) Intn(n int) int {
	if int(c) >= n {
		return n - 1
	}
	return int(c)
}

func TestRollResult_Total(t *testing.T) {
	r := dice.RollResult{Expression: "2d6+3", Dice: []int{4, 5}, Modifier: 3}
	assert.Equal(t, 12, r.Total())
	assert.Equal(t, "2d6+3 → [4 5] +3 = 12", r.String())
}

func TestRollResult_Total_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		rolled := rapid.SliceOf(rapid.IntRange(1, 20)).Draw(rt, "dice")
		modifier := rapid.IntRange(-100, 100).Draw(rt, "modifier")
		expected := modifier
		for _, d := range rolled {
			expected += d
		}
		assert.Equal(rt, expected, dice.RollResult{Expression: "x", Dice: rolled, Modifier: modifier}.Total())
	})
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want dice.Expression
	}{
		{"d6", dice.Expression{Raw: "d6", Count: 1, Sides: 6}},
		{"2d6", dice.Expression{Raw: "2d6", Count: 2, Sides: 6}},
		{"1d9+1", dice.Expression{Raw: "1d9+1", Count: 1, Sides: 9, Modifier: 1}},
		{"3D4-2", dice.Expression{Raw: "3D4-2", Count: 3, Sides: 4, Modifier: -2}},
	}
	for _, tc := range tests {
		got, err := dice.Parse(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{"", "6", "0d6", "xd6", "d1", "dx", "2d6+x",
		"101d6", "2000000000d6", "1d1001", "1d6+10001", "1d6-10001"} {
		_, err := dice.Parse(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestParse_AtLimits(t *testing.T) {
	got, err := dice.Parse("100d1000+10000")
	require.NoError(t, err)
	assert.Equal(t, dice.MaxCount, got.Count)
	assert.Equal(t, dice.MaxSides, got.Sides)
	assert.Equal(t, dice.MaxModifier, got.Modifier)
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { dice.MustParse("nope") })
}

func TestRoll_Property_DiceInRange(t *testing.T) {
	src := dice.NewSeededSource(7)
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(1, 10).Draw(rt, "count")
		sides := rapid.IntRange(2, 20).Draw(rt, "sides")
		res := dice.Roll(dice.Expression{Raw: "x", Count: count, Sides: sides}, src)
		require.Len(rt, res.Dice, count)
		for _, d := range res.Dice {
			assert.GreaterOrEqual(rt, d, 1)
			assert.LessOrEqual(rt, d, sides)
		}
	})
}

func TestCryptoSource_Intn_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
}

func TestSources_PanicOnZero(t *testing.T) {
	assert.Panics(t, func() { dice.NewCryptoSource().Intn(0) })
	assert.Panics(t, func() { dice.NewSeededSource(1).Intn(0) })
}

func TestSeededSource_Deterministic(t *testing.T) {
	a, b := dice.NewSeededSource(42), dice.NewSeededSource(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Intn(1000), b.Intn(1000))
	}
}

func TestRoller_LogsEveryRoll(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := dice.NewLoggedRoller(constSource(3), zap.New(core))

	res, err := r.RollExpr("2d6+1")
	require.NoError(t, err)
	assert.Equal(t, 9, res.Total())

	entries := logs.FilterMessage("dice roll").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(9), entries[0].ContextMap()["total"])
}

func TestRoller_RollExpr_InvalidExpression(t *testing.T) {
	r := dice.NewLoggedRoller(constSource(0), zap.NewNop())
	_, err := r.RollExpr("bogus")
	assert.Error(t, err)
}

func TestParseDifficulty(t *testing.T) {
	for _, s := range []string{"easy", "normal", "hard"} {
		d, err := dice.ParseDifficulty(s)
		require.NoError(t, err)
		assert.Equal(t, dice.Difficulty(s), d)
	}
	_, err := dice.ParseDifficulty("nightmare")
	assert.Error(t, err)
}

func TestDifficulty_Sides(t *testing.T) {
	assert.Equal(t, 3, dice.Easy.Sides())
	assert.Equal(t, 6, dice.Normal.Sides())
	assert.Equal(t, 9, dice.Hard.Sides())
	assert.Equal(t, "1d9", dice.Hard.Expression().Raw)
}

func TestDifficulty_Throw_SucceedsOnlyOnTopFace(t *testing.T) {
	for _, d := range []dice.Difficulty{dice.Easy, dice.Normal, dice.Hard} {
		top := dice.NewLoggedRoller(constSource(d.Sides()-1), zap.NewNop())
		res, ok := d.Throw(top)
		assert.True(t, ok, "difficulty %s", d)
		assert.True(t, strings.HasPrefix(res.Expression, "1d"))

		low := dice.NewLoggedRoller(constSource(0), zap.NewNop())
		_, ok = d.Throw(low)
		assert.False(t, ok, "difficulty %s", d)
	}
}
