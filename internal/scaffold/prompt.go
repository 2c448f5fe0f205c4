// SPDX-License-Identifier: MPL-2.0

package scaffold

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	useDockerQuestion = "Use docker for platform-independent packaging (Y/n)?"
	useDockerHelp     = "This is highly recommended unless you are experienced \nwith cross-platform Python packaging."
)

type (
	// Prompter asks the user a yes/no question.
	Prompter interface {
		Confirm(ctx context.Context, question, help string) (bool, error)
	}

	// LinePrompter reads answers line by line from In and writes questions to Out.
	LinePrompter struct {
		In  io.Reader
		Out io.Writer

		scanner *bufio.Scanner
	}
)

// ValidateNo interprets an answer to a yes/no question that defaults to yes: only
// "n" and "no" (any case) mean no.
func ValidateNo(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "n", "no":
		return false
	default:
		return true
	}
}

// Confirm prints help and question, then reads one line. End of input counts as an
// empty answer.
func (p *LinePrompter) Confirm(ctx context.Context, question, help string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if p.scanner == nil {
		p.scanner = bufio.NewScanner(p.In)
	}
	if help != "" {
		fmt.Fprintln(p.Out, help)
	}
	fmt.Fprintln(p.Out, question)

	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
			return false, fmt.Errorf("failed to read answer: %w", err)
		}
		return ValidateNo(""), nil
	}
	return ValidateNo(p.scanner.Text()), nil
}
