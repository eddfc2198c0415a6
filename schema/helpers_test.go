package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"alice", "alice"},
		{"Jane Doe", "Jane D"},
		{"First Second Third", "First T"},
		{"  Bob  ", "Bob"},
		{"John   Smith", "John S"},
		{"Anne-Marie Smith", "Anne-Marie S"},
		{"O'Neill John", "O'Neill J"},
		{"J. R. R. Tolkien", "J T"},
		{"[John Smith]", "John S"},
		{"Hans Müller", "Hans M"},
		{"张三", "张三"},
		{"user@example.com", "user@example.com"},
		{"timebot[bot]", "timebot[bot]"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShortName(tt.name))
		})
	}
}

func TestFormatDevelopers(t *testing.T) {
	assert.Equal(t, "Jane D, Bob", FormatDevelopers([]string{"Jane Doe", "Bob"}))
	assert.Equal(t, "", FormatDevelopers(nil))
}
