package checkers

import "strings"

// Board is a dim×dim arena of optional pieces indexed row*dim+column.
type Board struct {
	size  BoardSize
	dim   int
	cells []*Piece
}

// NewBoard returns an empty board.
func NewBoard(size BoardSize) *Board {
	dim := size.Dimension()
	return &Board{size: size, dim: dim, cells: make([]*Piece, dim*dim)}
}

// NewStandardBoard returns the opening layout: men on the dark cells of the
// dim/2-1 rows nearest each team's edge, First on the low rows.
func NewStandardBoard(size BoardSize) *Board {
	b := NewBoard(size)
	rows := b.dim/2 - 1
	for row := 0; row < b.dim; row++ {
		var team Team
		switch {
		case row < rows:
			team = First
		case row >= b.dim-rows:
			team = Second
		default:
			continue
		}
		for col := 0; col < b.dim; col++ {
			if isDark(col, row) {
				b.place(NewPiece(team, Man), col, row)
			}
		}
	}
	return b
}

func isDark(col, row int) bool { return (col+row)%2 == 0 }

func (b *Board) Size() BoardSize { return b.size }
func (b *Board) Dimension() int  { return b.dim }

func (b *Board) inBounds(col, row int) bool {
	return col >= 0 && col < b.dim && row >= 0 && row < b.dim
}

// PieceAt returns the occupant, or nil for an empty or out-of-range cell.
func (b *Board) PieceAt(col, row int) *Piece {
	if !b.inBounds(col, row) {
		return nil
	}
	return b.cells[row*b.dim+col]
}

func (b *Board) IsOccupied(col, row int) bool { return b.PieceAt(col, row) != nil }

func (b *Board) place(p *Piece, col, row int) {
	if p == nil || !b.inBounds(col, row) {
		return
	}
	p.column, p.row = col, row
	b.cells[row*b.dim+col] = p
}

func (b *Board) remove(col, row int) *Piece {
	if !b.inBounds(col, row) {
		return nil
	}
	idx := row*b.dim + col
	p := b.cells[idx]
	b.cells[idx] = nil
	return p
}

// move relocates p. The destination must already be validated as empty.
func (b *Board) move(p *Piece, to Cell) {
	b.cells[p.row*b.dim+p.column] = nil
	p.column, p.row = to.Column, to.Row
	b.cells[to.Row*b.dim+to.Column] = p
}

// Pieces lists a team's pieces in row-major order.
func (b *Board) Pieces(team Team) []*Piece {
	var out []*Piece
	for _, p := range b.cells {
		if p != nil && p.team == team {
			out = append(out, p)
		}
	}
	return out
}

func (b *Board) Count(team Team) int { return len(b.Pieces(team)) }

// Clone deep-copies the board and its pieces.
func (b *Board) Clone() *Board {
	c := NewBoard(b.size)
	for i, p := range b.cells {
		if p != nil {
			cp := *p
			c.cells[i] = &cp
		}
	}
	return c
}

// Equal compares size and every cell's team and rank.
func (b *Board) Equal(o *Board) bool {
	if b == nil || o == nil {
		return b == o
	}
	if b.size != o.size {
		return false
	}
	for i := range b.cells {
		x, y := b.cells[i], o.cells[i]
		if (x == nil) != (y == nil) {
			return false
		}
		if x != nil && (x.team != y.team || x.rank != y.rank) {
			return false
		}
	}
	return true
}

// String draws the board top row first: w/r for men, W/R for kings.
func (b *Board) String() string {
	var sb strings.Builder
	for row := b.dim - 1; row >= 0; row-- {
		sb.WriteString(coordDigits[row : row+1])
		sb.WriteByte(' ')
		for col := 0; col < b.dim; col++ {
			p := b.PieceAt(col, row)
			switch {
			case p == nil && isDark(col, row):
				sb.WriteByte('.')
			case p == nil:
				sb.WriteByte(' ')
			default:
				sb.WriteByte(glyph(p))
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  ")
	sb.WriteString(coordDigits[:b.dim])
	return sb.String()
}

func glyph(p *Piece) byte {
	g := byte('w')
	if p.team == Second {
		g = 'r'
	}
	if p.rank == King {
		g -= 'a' - 'A'
	}
	return g
}
