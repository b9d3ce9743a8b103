package cli

import (
	"bufio"
	"strings"
	"testing"
)

func TestWantsBack(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "lowercase b", input: "b\n", expected: true},
		{name: "uppercase b", input: "B\n", expected: true},
		{name: "enter continues", input: "\n", expected: false},
		{name: "other input continues", input: "next\n", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := bufio.NewReader(strings.NewReader(tt.input))
			if got := wantsBack(reader); got != tt.expected {
				t.Errorf("wantsBack(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}
