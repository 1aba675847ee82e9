package utilities

import (
	"testing"

	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUserID(t *testing.T) {
	a := NewUserID()
	b := NewUserID()
	assert.NotEqual(t, a, b)

	_, err := ksuid.Parse(a)
	require.NoError(t, err)
}

func TestNewRequestIDWithNode(t *testing.T) {
	id := NewRequestIDWithNode(1)
	assert.NotEmpty(t, id)

	// out-of-range node falls back to a KSUID
	fallback := NewRequestIDWithNode(99999)
	_, err := ksuid.Parse(fallback)
	require.NoError(t, err)
}
