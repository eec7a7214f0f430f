package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreview(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		n        int
		expected string
	}{
		{"short", "chatbot triage", 20, "chatbot triage"},
		{"collapses whitespace", "shelf\n\n  monitoring\tat scale", 40, "shelf monitoring at scale"},
		{"cut on runes", "réduction des coûts", 9, "réduction..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, preview(tt.in, tt.n))
		})
	}
}

func TestRootCommands(t *testing.T) {
	root := rootCmd()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	assert.Subset(t, names, []string{"run", "serve", "similar"})

	similar, _, err := root.Find([]string{"similar"})
	assert.NoError(t, err)
	assert.NotNil(t, similar.Flags().Lookup("query"))
	assert.NotNil(t, similar.Flags().Lookup("limit"))
}
