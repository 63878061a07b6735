package checkers

import "strings"

// BoardSize selects the grid dimension of a game.
type BoardSize int

const (
	Small BoardSize = iota
	Large
)

// DefaultBoardSize is used when no link or config says otherwise.
const DefaultBoardSize = Small

// Dimension returns the number of columns (and rows) of the grid.
func (s BoardSize) Dimension() int {
	if s == Large {
		return 10
	}
	return 8
}

// Symbol is the one-character form carried in the `size` link field.
func (s BoardSize) Symbol() string {
	if s == Large {
		return "l"
	}
	return "s"
}

func (s BoardSize) String() string {
	if s == Large {
		return "large"
	}
	return "small"
}

// ParseBoardSize resolves a size symbol. Unknown symbols report false.
func ParseBoardSize(symbol string) (BoardSize, bool) {
	switch strings.TrimSpace(symbol) {
	case "s":
		return Small, true
	case "l":
		return Large, true
	default:
		return Small, false
	}
}
