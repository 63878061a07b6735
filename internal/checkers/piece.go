package checkers

import (
	"fmt"
	"strconv"
	"strings"
)

// Team identifies a side. First plays white and starts on the low rows.
type Team int

const (
	First Team = iota
	Second
)

// DefaultTeam opens a fresh game.
const DefaultTeam = First

func (t Team) Symbol() string {
	if t == Second {
		return "R"
	}
	return "W"
}

func (t Team) String() string {
	if t == Second {
		return "red"
	}
	return "white"
}

func (t Team) Opponent() Team {
	if t == Second {
		return First
	}
	return Second
}

// Forward is the row delta a Man of this team advances by.
func (t Team) Forward() int {
	if t == Second {
		return -1
	}
	return 1
}

func ParseTeam(symbol string) (Team, bool) {
	switch strings.TrimSpace(symbol) {
	case "W":
		return First, true
	case "R":
		return Second, true
	default:
		return First, false
	}
}

// Rank is the promotion state of a piece.
type Rank int

const (
	Man Rank = iota
	King
)

func (r Rank) Symbol() string {
	if r == King {
		return "K"
	}
	return "M"
}

func (r Rank) String() string {
	if r == King {
		return "king"
	}
	return "man"
}

func ParseRank(symbol string) (Rank, bool) {
	switch symbol {
	case "M":
		return Man, true
	case "K":
		return King, true
	default:
		return Man, false
	}
}

// Cell is a resolved board coordinate, 0-indexed.
type Cell struct {
	Column int
	Row    int
}

func (c Cell) String() string { return fmt.Sprintf("%d,%d", c.Column, c.Row) }

func (c Cell) offset(d Delta) Cell { return Cell{Column: c.Column + d.Column, Row: c.Row + d.Row} }

// ParseCell reads "column,row".
func ParseCell(s string) (Cell, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 2 {
		return Cell{}, fmt.Errorf("cell %q: want column,row", s)
	}
	col, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Cell{}, fmt.Errorf("cell %q: column: %w", s, err)
	}
	row, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Cell{}, fmt.Errorf("cell %q: row: %w", s, err)
	}
	return Cell{Column: col, Row: row}, nil
}

// Delta is a single-step diagonal direction.
type Delta struct {
	Column int
	Row    int
}

var diagonals = [4]Delta{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}}

// SimpleDeltas lists the one-step moves open to a piece of the given rank and team.
func SimpleDeltas(rank Rank, team Team) []Delta {
	if rank == King {
		out := make([]Delta, len(diagonals))
		copy(out, diagonals[:])
		return out
	}
	fwd := team.Forward()
	return []Delta{{-1, fwd}, {1, fwd}}
}

// CaptureDeltas lists the jump landings (two steps) open to a piece.
func CaptureDeltas(rank Rank, team Team) []Delta {
	steps := SimpleDeltas(rank, team)
	for i := range steps {
		steps[i].Column *= 2
		steps[i].Row *= 2
	}
	return steps
}

// CrownRow is the row on which a Man of team is promoted.
func CrownRow(team Team, dim int) int {
	if team == Second {
		return 0
	}
	return dim - 1
}

// Piece is owned by the board cell it sits on. Coordinates change only through Board.move.
type Piece struct {
	column int
	row    int
	team   Team
	rank   Rank
}

func NewPiece(team Team, rank Rank) *Piece {
	return &Piece{team: team, rank: rank}
}

func (p *Piece) Column() int { return p.column }
func (p *Piece) Row() int    { return p.row }
func (p *Piece) Team() Team  { return p.team }
func (p *Piece) Rank() Rank  { return p.rank }
func (p *Piece) Cell() Cell  { return Cell{Column: p.column, Row: p.row} }

// Symbol is the rank+team prefix of the piece's board token.
func (p *Piece) Symbol() string { return p.rank.Symbol() + p.team.Symbol() }

func (p *Piece) canCapture(other *Piece) bool {
	return other != nil && other.team != p.team
}

// crown promotes a Man standing on its crown row. Reports whether it happened.
func (p *Piece) crown(dim int) bool {
	if p.rank == King || p.row != CrownRow(p.team, dim) {
		return false
	}
	p.rank = King
	return true
}
