package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/desertthunder/p2c/internal/shared"
)

// Console is a [Selector] that prints to a writer and reads answers one line at a time.
//
// End of input cancels the prompt in progress.
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

var _ Selector = (*Console)(nil)

// NewConsole creates a Console reading from r and writing to w.
func NewConsole(r io.Reader, w io.Writer) *Console {
	return &Console{in: bufio.NewReader(r), out: w}
}

// Select prints the menu and loops until the user picks an option or cancels.
func (c *Console) Select(ctx context.Context, m Menu) (int, error) {
	c.printMenu(m)

	question := m.Prompt
	for {
		line, err := c.ask(ctx, question)
		if err != nil {
			return 0, err
		}

		choice := ParseChoice(m, line)
		switch choice.Action {
		case ActionCancel:
			return 0, shared.ErrCancelled
		case ActionSelect:
			return choice.Key, nil
		case ActionInspect:
			c.printDetail(m.Inspect(ctx, choice.Key))
			c.printOptions(m)
			question = m.Prompt
		default:
			question = m.Retry
		}
	}
}

// Confirm asks question until the answer starts with y or n.
func (c *Console) Confirm(ctx context.Context, question string) (bool, error) {
	for {
		line, err := c.ask(ctx, question+" (y/n)? ")
		if err != nil {
			return false, err
		}
		if yes, ok := IsYes(line); ok {
			return yes, nil
		}
	}
}

// Input prints question and returns the line typed in response.
func (c *Console) Input(ctx context.Context, question string) (string, error) {
	return c.ask(ctx, question)
}

func (c *Console) ask(ctx context.Context, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	fmt.Fprint(c.out, question)

	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(c.out)
			return "", shared.ErrCancelled
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *Console) printMenu(m Menu) {
	if m.Title != "" {
		fmt.Fprintln(c.out, m.Title)
	}
	c.printOptions(m)
}

func (c *Console) printOptions(m Menu) {
	for _, o := range m.Options {
		fmt.Fprintf(c.out, "[%d] %s\n", o.Key, o.Label)
	}
}

func (c *Console) printDetail(d Detail) {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, d.Heading)
	for _, line := range d.Lines {
		fmt.Fprintf(c.out, "\t%s\n", line)
	}
	fmt.Fprintln(c.out)
}
