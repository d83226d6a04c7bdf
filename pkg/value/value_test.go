package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cases := []struct {
		dt   DataType
		text string
	}{
		{Integer, "42"},
		{Integer, "-7"},
		{Text, "Ada"},
		{Boolean, "true"},
		{Boolean, "false"},
		{Char, "q"},
		{Date, "2024-01-31"},
		{Time, "23:59:59"},
		{DateTime, "2024-01-31T23:59:59"},
		{Float, "3.5"},
		{Double, "3.14159"},
	}
	for _, c := range cases {
		v, err := FromText(c.text, c.dt)
		require.NoError(t, err, c.text)
		assert.Equal(t, c.text, v.String())
	}
}

func TestNullRoundTrip(t *testing.T) {
	v, err := FromText("NULL", Integer)
	require.NoError(t, err)
	assert.False(t, v.HasValue())
	assert.Equal(t, "NULL", v.String())
}

func TestOrderTotalNullLessThanPresent(t *testing.T) {
	null := Null(Integer)
	present, err := FromText("1", Integer)
	require.NoError(t, err)

	c, err := null.Compare(present, DefaultCompareOptions)
	require.NoError(t, err)
	assert.Equal(t, -1, c)

	c, err = present.Compare(null, DefaultCompareOptions)
	require.NoError(t, err)
	assert.Equal(t, 1, c)

	c, err = null.Compare(Null(Integer), DefaultCompareOptions)
	require.NoError(t, err)
	assert.Equal(t, 0, c)
}

func TestOrderTotalTransitivity(t *testing.T) {
	a, _ := FromText("1", Integer)
	b, _ := FromText("2", Integer)
	c, _ := FromText("3", Integer)

	ab, _ := a.Compare(b, DefaultCompareOptions)
	bc, _ := b.Compare(c, DefaultCompareOptions)
	ac, _ := a.Compare(c, DefaultCompareOptions)

	assert.Negative(t, ab)
	assert.Negative(t, bc)
	assert.Negative(t, ac)
}

func TestCompareTypeMismatch(t *testing.T) {
	a, _ := FromText("1", Integer)
	b, _ := FromText("1.0", Double)
	_, err := a.Compare(b, DefaultCompareOptions)
	require.Error(t, err)
	var typeErr *TypeError
	assert.ErrorAs(t, err, &typeErr)
}

func TestNaNPolicyDefaultSourceParity(t *testing.T) {
	nan, err := FromText("NaN", Double)
	require.NoError(t, err)
	other, err := FromText("1.0", Double)
	require.NoError(t, err)

	c, err := nan.Compare(nan, DefaultCompareOptions)
	require.NoError(t, err)
	assert.Equal(t, 0, c, "NaN compares equal to NaN under source-parity policy")

	c, err = nan.Compare(other, DefaultCompareOptions)
	require.NoError(t, err)
	assert.Equal(t, 1, c, "NaN compares greater than any non-NaN")

	assert.True(t, nan.Equal(nan))
}

func TestNaNPolicyStrict(t *testing.T) {
	nan, _ := FromText("NaN", Double)
	other, _ := FromText("1.0", Double)
	_, err := nan.Compare(other, CompareOptions{StrictNaN: true})
	require.Error(t, err)
}

func TestCharRequiresSingleRune(t *testing.T) {
	_, err := FromText("ab", Char)
	require.Error(t, err)
}

func TestBooleanRejectsOtherLiterals(t *testing.T) {
	_, err := FromText("1", Boolean)
	require.Error(t, err)
}

func TestParseDataType(t *testing.T) {
	dt, err := ParseDataType("INTEGER")
	require.NoError(t, err)
	assert.Equal(t, Integer, dt)

	_, err = ParseDataType("VARCHAR")
	require.Error(t, err)
}
