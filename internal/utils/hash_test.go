package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSHA256HexDeterministic(t *testing.T) {
	assert.Equal(t, SHA256Hex("dev@example.com"), SHA256Hex("dev@example.com"))
}

func TestSHA256HexDistinctInputs(t *testing.T) {
	corpus := []string{"dev@example.com", "dev@example.org", "Dev@example.com", "203.0.113.7", ""}
	seen := make(map[string]string)
	for _, v := range corpus {
		d := SHA256Hex(v)
		assert.Len(t, d, 64)
		prev, dup := seen[d]
		assert.False(t, dup, "collision between %q and %q", v, prev)
		seen[d] = v
	}
}

func TestSHA256HexKnownVector(t *testing.T) {
	// sha256 of the empty string
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		SHA256Hex(""))
}
