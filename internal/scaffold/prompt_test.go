// SPDX-License-Identifier: MPL-2.0

package scaffold

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestValidateNo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		answer string
		want   bool
	}{
		{"", true},
		{"y", true},
		{"yes", true},
		{"Y", true},
		{"anything", true},
		{"n", false},
		{"N", false},
		{"no", false},
		{"No", false},
		{"  no  ", false},
		{"nope", true},
	}

	for _, tt := range tests {
		if got := ValidateNo(tt.answer); got != tt.want {
			t.Errorf("ValidateNo(%q) = %v, want %v", tt.answer, got, tt.want)
		}
	}
}

func TestLinePrompter(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	p := &LinePrompter{In: strings.NewReader("n\n\n"), Out: &out}

	first, err := p.Confirm(context.Background(), useDockerQuestion, useDockerHelp)
	if err != nil || first {
		t.Errorf("first Confirm() = %v, %v; want false", first, err)
	}
	second, err := p.Confirm(context.Background(), useDockerQuestion, "")
	if err != nil || !second {
		t.Errorf("second Confirm() = %v, %v; want true for an empty answer", second, err)
	}
	third, err := p.Confirm(context.Background(), useDockerQuestion, "")
	if err != nil || !third {
		t.Errorf("Confirm() at end of input = %v, %v; want true", third, err)
	}

	if !strings.Contains(out.String(), "Use docker for platform-independent packaging (Y/n)?") {
		t.Errorf("question not printed: %q", out.String())
	}
	if strings.Count(out.String(), "cross-platform Python packaging") != 1 {
		t.Errorf("help should be printed once: %q", out.String())
	}
}

func TestLinePrompter_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &LinePrompter{In: strings.NewReader("y\n"), Out: &bytes.Buffer{}}
	if _, err := p.Confirm(ctx, "?", ""); err == nil {
		t.Error("expected context error")
	}
}
