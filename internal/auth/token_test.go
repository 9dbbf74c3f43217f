package auth

import (
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestNewSessionTokenUnique(t *testing.T) {
	first, err := NewSessionToken()
	assert.Equal(t, nil, err)

	second, err := NewSessionToken()
	assert.Equal(t, nil, err)

	assert.NotEqual(t, "", first)
	assert.NotEqual(t, first, second)
}

func TestHashTokenDeterministic(t *testing.T) {
	assert.Equal(t, HashToken("abc"), HashToken("abc"))
	assert.NotEqual(t, HashToken("abc"), HashToken("abd"))
	assert.NotEqual(t, "abc", HashToken("abc"))
}
