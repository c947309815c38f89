package sanitizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/notifeed/pkg/sanitizer"
)

func TestSingleLine(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"  hello  ", "hello"},
		{"New\nMatch\r\nAlert", "New Match Alert"},
		{"a \t\t b", "a b"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizer.SingleLine(tt.in), "input %q", tt.in)
	}
}

func TestRemoveControlChars(t *testing.T) {
	assert.Equal(t, "hello\tworld\n", sanitizer.RemoveControlChars("hel\x00lo\tworld\x07\n"))
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "Tom & Jerry", sanitizer.StripHTML("<b>Tom</b> &amp; <i>Jerry</i>"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "", sanitizer.Truncate("hello", 0))
	assert.Equal(t, "hello", sanitizer.Truncate("hello", 5))
	assert.Equal(t, "hel...", sanitizer.Truncate("hello", 3))
	assert.Equal(t, "héll...", sanitizer.Truncate("héllo wörld", 4))
}

func TestCompose(t *testing.T) {
	clean := sanitizer.Compose(sanitizer.StripHTML, sanitizer.RemoveControlChars, sanitizer.SingleLine)
	assert.Equal(t, "Match Alert!", clean("  <h1>Match\x00\n Alert!</h1> "))
	assert.Equal(t, "x", sanitizer.Apply("  x  ", sanitizer.Trim))
	assert.Equal(t, 3, sanitizer.Apply(1, func(i int) int { return i + 2 }))
}
