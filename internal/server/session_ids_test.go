package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSessionID_Format(t *testing.T) {
	assert := assert.New(t)

	used := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := GenerateSessionID(used)
		assert.Len(id, 6)
		for _, c := range id {
			assert.True(c >= 'A' && c <= 'Z', "unexpected character %q in %s", c, id)
		}
		used[id] = true
	}
	assert.Len(used, 100)
}

func TestGenerateSessionID_SkipsUsedIDs(t *testing.T) {
	used := map[string]bool{}
	first := GenerateSessionID(used)
	used[first] = true

	// Collisions are rare; generating a few more must never return a
	// claimed id.
	for i := 0; i < 50; i++ {
		id := GenerateSessionID(used)
		if id == first {
			t.Fatalf("generated already-used id %s", id)
		}
		used[id] = true
	}
}

func TestNormalizeSessionID(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("ABCDEF", NormalizeSessionID("abcdef"))
	assert.Equal("ABCDEF", NormalizeSessionID("  AbCdEf  "))
	assert.Equal("", NormalizeSessionID("   "))
}
