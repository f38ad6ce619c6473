// Package ui implements the full-screen prompt flow using bubbletea's Elm architecture.
//
// [Selector] satisfies prompt.Selector. Each prompt runs its own short-lived program:
//  1. [MenuView] : Browse an enumerated menu and pick an option
//  2. [DetailView] : Inspect an option (e.g. the items of a playlist) without choosing it
//  3. [ConfirmView] : Answer a yes/no question
//  4. [InputView] : Type a line of text
//
// Keyboard navigation uses vim-style bindings (j/k, enter, l, esc, y/n, q) with contextual help displayed via
// charmbracelet/bubbles/help. Esc, q and ctrl+c cancel the prompt, which surfaces as shared.ErrCancelled.
package ui
