package token

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterIdempotent(t *testing.T) {
	id1 := Register("TEST_IDEMPOTENT")
	id2 := Register("TEST_IDEMPOTENT")

	assert.Equal(t, id1, id2, "same name should return same ID")
}

func TestRegisterDifferentNames(t *testing.T) {
	id1 := Register("TEST_NAME_A")
	id2 := Register("TEST_NAME_B")

	assert.NotEqual(t, id1, id2, "different names should return different IDs")
}

func TestRegisterConcurrent(t *testing.T) {
	const numGoroutines = 100
	var wg sync.WaitGroup
	ids := make([]TokenType, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			ids[idx] = Register("TEST_CONCURRENT")
		}(i)
	}
	wg.Wait()

	for i := 1; i < numGoroutines; i++ {
		require.Equal(t, ids[0], ids[i], "concurrent registration should return same ID")
	}
}

func TestLookupDynamicKeyword(t *testing.T) {
	expectedID := Register("TEST_LOOKUP")

	gotID, ok := LookupDynamicKeyword("TEST_LOOKUP")
	require.True(t, ok, "registered keyword should be found")
	assert.Equal(t, expectedID, gotID)
	assert.True(t, IsDynamic(gotID))
	assert.True(t, IsKeyword(gotID))
	assert.Equal(t, "TEST_LOOKUP", gotID.String())

	_, ok = LookupDynamicKeyword("NONEXISTENT_KEYWORD_12345")
	assert.False(t, ok, "unregistered keyword should not be found")
}

func TestLookupIdent(t *testing.T) {
	tests := []struct {
		word string
		want TokenType
	}{
		{"select", SELECT},
		{"union", UNION},
		{"update", UPDATE},
		{"null", NULL},
		{"col_a", IDENT},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			assert.Equal(t, tt.want, LookupIdent(tt.word))
		})
	}
	assert.Equal(t, "SELECT", SELECT.String())
	assert.Equal(t, "<=", LE.String())
	assert.False(t, IsDynamic(SELECT))
}

func TestTokenClasses(t *testing.T) {
	assert.True(t, IsTrivia(WHITESPACE))
	assert.True(t, IsTrivia(COMMENT))
	assert.False(t, IsTrivia(IDENT))
	assert.True(t, IsComparison(NE))
	assert.False(t, IsComparison(PLUS))
	assert.True(t, IsOperator(DCOLON))
	assert.Equal(t, "block_comment", BlockComment.SegmentType())
	assert.Equal(t, "inline_comment", LineComment.SegmentType())
}
