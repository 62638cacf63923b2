package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChildPrefix(t *testing.T) {
	tests := []struct {
		key  string
		want string
		ok   bool
	}{
		{"recipes/abc/original.png", "recipes/abc/", true},
		{"recipes/abc/large.jpg", "recipes/abc/", true},
		{"recipes/stray.png", "", false},
		{"recipes//x.png", "", false},
		{"avatars/abc/original.png", "", false},
	}
	for _, tt := range tests {
		got, ok := childPrefix("recipes/", tt.key)
		assert.Equal(t, tt.ok, ok, tt.key)
		assert.Equal(t, tt.want, got, tt.key)
	}
}
