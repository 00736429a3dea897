package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/helloamger/discussions-archiver/pkg/gh"
)

func TestPreview(t *testing.T) {
	discussions := []gh.Discussion{
		{Number: 1, Title: "first"},
		{Number: 2, Title: "second"},
		{Number: 3, Title: "third"},
		{Number: 4, Title: "fourth"},
		{Number: 5, Title: "fifth"},
		{Number: 6, Title: "sixth, beyond the preview"},
	}

	buf := &bytes.Buffer{}
	preview(buf, discussions)

	out := buf.String()
	if !strings.Contains(out, "1. #1: first") {
		t.Errorf("Expected first item in preview, got %q", out)
	}
	if !strings.Contains(out, "5. #5: fifth") {
		t.Errorf("Expected fifth item in preview, got %q", out)
	}
	if strings.Contains(out, "sixth") {
		t.Errorf("Preview should stop after 5 items, got %q", out)
	}
}

func TestPreview_Empty(t *testing.T) {
	buf := &bytes.Buffer{}
	preview(buf, nil)

	if buf.Len() != 0 {
		t.Errorf("Expected no output for empty slice, got %q", buf.String())
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{
			name:     "short title unchanged",
			input:    "short",
			max:      50,
			expected: "short",
		},
		{
			name:     "exactly max unchanged",
			input:    strings.Repeat("a", 50),
			max:      50,
			expected: strings.Repeat("a", 50),
		},
		{
			name:     "long title truncated",
			input:    strings.Repeat("a", 60),
			max:      50,
			expected: strings.Repeat("a", 50) + "...",
		},
		{
			name:     "multi-byte runes counted as characters",
			input:    strings.Repeat("济", 60),
			max:      50,
			expected: strings.Repeat("济", 50) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.input, tt.max); got != tt.expected {
				t.Errorf("truncate() = %q, want %q", got, tt.expected)
			}
		})
	}
}
