package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalRUT(t *testing.T) {
	assert.Equal(t, "77567635-3", CanonicalRUT(" 77.567.635-3 "))
	assert.Equal(t, "7654321-K", CanonicalRUT("7.654.321-k"))
}

func TestRUTCheckDigit(t *testing.T) {
	dv, ok := RUTCheckDigit("77567635")
	assert.True(t, ok)
	assert.Equal(t, "3", dv)

	dv, ok = RUTCheckDigit("11111111")
	assert.True(t, ok)
	assert.Equal(t, "1", dv)

	_, ok = RUTCheckDigit("12a4")
	assert.False(t, ok)
}

func TestValidRUT(t *testing.T) {
	assert.True(t, ValidRUT("77.567.635-3"))
	assert.True(t, ValidRUT("76086428-5"))
	assert.False(t, ValidRUT("77.567.635-4"))
	assert.False(t, ValidRUT("77567635"))
	assert.False(t, ValidRUT(""))
}
