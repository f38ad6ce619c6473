package ui

import (
	"github.com/desertthunder/p2c/internal/prompt"
)

// detailLoadedMsg carries the result of inspecting a menu option.
type detailLoadedMsg struct {
	key    int
	detail prompt.Detail
}
