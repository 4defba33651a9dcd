package ids

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_UniqueAndPrefixed(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := New(KindSection)
		assert.True(t, strings.HasPrefix(id, "sec_"), "id %q should carry the section prefix", id)
		assert.Len(t, id, 28)
		_, dup := seen[id]
		assert.False(t, dup, "id %q generated twice", id)
		seen[id] = struct{}{}
	}
}

func TestNew_KindPrefixes(t *testing.T) {
	assert.True(t, strings.HasPrefix(New(KindBoard), "brd_"))
	assert.True(t, strings.HasPrefix(New(KindItem), "itm_"))
	assert.True(t, strings.HasPrefix(New(KindVolunteer), "vol_"))
}

func TestNewTemp(t *testing.T) {
	assert.Equal(t, "temp-section-1", NewTemp(KindSection, 1))
	assert.Equal(t, "temp-item-42", NewTemp(KindItem, 42))
	assert.Equal(t, "temp-volunteer-3", NewTemp(KindVolunteer, 3))
}

func TestIsTemp(t *testing.T) {
	assert.True(t, IsTemp(NewTemp(KindSection, 1)))
	assert.True(t, IsTemp("temp-item-7"))
	assert.False(t, IsTemp(New(KindSection)))
	assert.False(t, IsTemp("brd_0123456789abcdef01234567"))
	assert.False(t, IsTemp(""))
}

func TestNewToken_Length(t *testing.T) {
	token := NewToken()
	assert.Len(t, token, 48)
	assert.NotEqual(t, token, NewToken())
}

func TestFromSlug(t *testing.T) {
	id := New(KindBoard)

	assert.Equal(t, id, FromSlug(id), "bare ids pass through")
	assert.Equal(t, id, FromSlug("summer-picnic-"+id), "slug prefixes are ignored")
	assert.Equal(t, "not-an-id", FromSlug("not-an-id"), "unrecognized segments pass through")
}
