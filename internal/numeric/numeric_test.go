package numeric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInt64FastPath(t *testing.T) {
	n, ok := ParseInt64(Form{Text: "42"})
	require.True(t, ok)
	assert.Equal(t, int64(42), n)

	_, ok = ParseInt64(Form{Text: "4.2", HasFrac: true})
	assert.False(t, ok)
}

func TestParseUint64RejectsNegative(t *testing.T) {
	_, ok := ParseUint64(Form{Text: "-1", Negative: true})
	assert.False(t, ok)

	n, ok := ParseUint64(Form{Text: "18446744073709551615"})
	require.True(t, ok)
	assert.Equal(t, uint64(18446744073709551615), n)
}

func TestFormatFloat64PreservesNegativeZero(t *testing.T) {
	assert.Equal(t, "-0", FormatFloat64(math.Copysign(0, -1)))
	assert.Equal(t, "0", FormatFloat64(0))
	assert.Equal(t, "1.5", FormatFloat64(1.5))
}

func TestFormatIntRoundTrips(t *testing.T) {
	assert.Equal(t, "-7", FormatInt64(-7))
	assert.Equal(t, "9", FormatUint64(9))
}

func TestDecimalRoundTrip(t *testing.T) {
	d, err := ParseDecimal("1.2300")
	require.NoError(t, err)
	assert.Equal(t, "1.2300", FormatDecimal(d))
}
