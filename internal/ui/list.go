package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/p2c/internal/prompt"
)

var _ list.Item = optionItem{}

// optionItem wraps [prompt.Option] to implement [list.Item].
type optionItem struct {
	option prompt.Option
}

func (i optionItem) FilterValue() string { return i.option.Label }
func (i optionItem) Title() string       { return i.option.Label }
func (i optionItem) Description() string { return fmt.Sprintf("[%d]", i.option.Key) }

func optionItems(opts []prompt.Option) []list.Item {
	items := make([]list.Item, len(opts))
	for i, o := range opts {
		items[i] = optionItem{option: o}
	}
	return items
}
