// Package prompt defines the interactive selection primitives used while resolving a copy run.
//
// A [Selector] shows a [Menu] and returns the key the user picked, asks yes/no questions and reads free
// text. [Console] implements it over line-oriented terminal I/O; the ui package provides a full-screen
// implementation. Cancelling any prompt yields [shared.ErrCancelled].
package prompt

import (
	"context"
	"strconv"
	"strings"
)

// Option is a single menu entry. Key is the number the user types to pick it.
type Option struct {
	Key   int
	Label string
}

// Detail is the output of inspecting an option: a heading followed by one line per entry.
type Detail struct {
	Heading string
	Lines   []string
}

// Menu describes an enumerated choice.
type Menu struct {
	Title   string // shown above the options, may be empty
	Prompt  string
	Retry   string // shown after invalid input
	Options []Option

	// Inspect, when set, enables the "L<n>" command which shows details of option n without choosing it.
	Inspect func(ctx context.Context, key int) Detail
}

// Lookup returns the option registered under key.
func (m Menu) Lookup(key int) (Option, bool) {
	for _, o := range m.Options {
		if o.Key == key {
			return o, true
		}
	}
	return Option{}, false
}

// Selector drives interactive prompts.
type Selector interface {
	// Select returns the key of the chosen option.
	Select(ctx context.Context, m Menu) (int, error)
	// Confirm asks a yes/no question.
	Confirm(ctx context.Context, question string) (bool, error)
	// Input reads a line of free text.
	Input(ctx context.Context, question string) (string, error)
}

// Action is the kind of a parsed menu response.
type Action int

const (
	ActionInvalid Action = iota
	ActionSelect
	ActionInspect
	ActionCancel
)

// Choice is a parsed menu response.
type Choice struct {
	Action Action
	Key    int
}

// ParseChoice interprets a line typed at a menu prompt.
//
// "-1" cancels, a valid key selects, and "L" or "l" followed by a valid key inspects when the menu
// supports it. Anything else is invalid.
func ParseChoice(m Menu, input string) Choice {
	input = strings.TrimSpace(input)
	if input == "-1" {
		return Choice{Action: ActionCancel}
	}

	if m.Inspect != nil && len(input) > 1 && (input[0] == 'L' || input[0] == 'l') {
		if key, ok := parseKey(m, input[1:]); ok {
			return Choice{Action: ActionInspect, Key: key}
		}
		return Choice{Action: ActionInvalid}
	}

	if key, ok := parseKey(m, input); ok {
		return Choice{Action: ActionSelect, Key: key}
	}
	return Choice{Action: ActionInvalid}
}

// parseKey accepts only plain decimal digits naming an existing option.
func parseKey(m Menu, s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	key, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	if _, ok := m.Lookup(key); !ok {
		return 0, false
	}
	return key, true
}

// IsYes reports whether a yes/no answer was given and what it was. Only the first character counts.
func IsYes(answer string) (yes, ok bool) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return false, false
	}
	switch answer[0] {
	case 'y', 'Y':
		return true, true
	case 'n', 'N':
		return false, true
	}
	return false, false
}
