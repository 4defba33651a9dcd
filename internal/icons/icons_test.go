package icons

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValid(t *testing.T) {
	assert.True(t, Valid("Utensils"))
	assert.True(t, Valid(Default))
	assert.False(t, Valid("utensils"), "icon names are case sensitive")
	assert.False(t, Valid("NotAnIcon"))
	assert.False(t, Valid(""))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "Pizza", Normalize("Pizza"))
	assert.Equal(t, Default, Normalize("Hamburger"))
	assert.Equal(t, Default, Normalize(""))
}

func TestAll_ContainsDefaultAndIsACopy(t *testing.T) {
	names := All()
	assert.Contains(t, names, Default)

	names[0] = "Mutated"
	assert.NotContains(t, All(), "Mutated", "All must hand out a copy")
}
