package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTag(t *testing.T) {
	tests := []struct {
		name string
		tag  string
		ok   bool
	}{
		{"simple", "work", true},
		{"mixed case kept", "Work", true},
		{"inner space", "to do", true},
		{"empty", "", false},
		{"blank", "   ", false},
		{"padded", " work", false},
		{"null byte", "wo\x00rk", false},
		{"too long", strings.Repeat("a", MaxTag+1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Tag(tt.tag)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTag)
				assert.True(t, Is(err))
			}
		})
	}
}

func TestTitle(t *testing.T) {
	assert.NoError(t, Title("Meeting notes"))
	assert.ErrorIs(t, Title(" "), ErrInvalidTitle)
	assert.ErrorIs(t, Title(strings.Repeat("x", MaxTitle+1)), ErrInvalidTitle)
	assert.ErrorIs(t, FolderName(""), ErrInvalidFolder)
}

func TestLength(t *testing.T) {
	assert.NoError(t, Length("abc", 0))
	assert.NoError(t, Length("abc", 3))
	assert.ErrorIs(t, Length("abcd", 3), ErrInvalidTitle)
}

func TestColor(t *testing.T) {
	assert.NoError(t, Color(""))
	assert.NoError(t, Color("#6366f1"))
	assert.NoError(t, Color("#FFF"))
	assert.ErrorIs(t, Color("6366f1"), ErrInvalidColor)
	assert.ErrorIs(t, Color("#12345"), ErrInvalidColor)
}

func TestContent(t *testing.T) {
	assert.NoError(t, Content("hello", 0))
	assert.ErrorIs(t, Content("hello", 4), ErrContentTooLarge)
}
