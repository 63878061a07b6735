package checkers

import (
	"fmt"
	"strings"
)

// Coordinates are written as a single character so every token stays four
// characters wide. Boards up to 10×10 use 0-9; the letters cover wider grids.
const coordDigits = "0123456789abcdefghijklmnopqrstuvwxyz"

const tokenWidth = 4

// Encode writes one token per occupied cell, row-major, comma separated.
// Token layout: rank symbol, team symbol, column, row.
func (b *Board) Encode() string {
	tokens := make([]string, 0, len(b.cells))
	for row := 0; row < b.dim; row++ {
		for col := 0; col < b.dim; col++ {
			p := b.PieceAt(col, row)
			if p == nil {
				continue
			}
			tokens = append(tokens, p.Symbol()+coordDigits[col:col+1]+coordDigits[row:row+1])
		}
	}
	return strings.Join(tokens, ",")
}

// DecodeBoard parses a board token. It is all-or-nothing: any bad token fails
// the whole decode and no board is returned.
func DecodeBoard(size BoardSize, token string) (*Board, error) {
	b := NewBoard(size)
	if strings.TrimSpace(token) == "" {
		return b, nil
	}
	for i, tok := range strings.Split(token, ",") {
		if len(tok) != tokenWidth {
			return nil, fmt.Errorf("%w: token %d %q: want %d characters", ErrMalformedToken, i, tok, tokenWidth)
		}
		rank, ok := ParseRank(tok[0:1])
		if !ok {
			return nil, fmt.Errorf("%w: token %d %q: unknown rank", ErrMalformedToken, i, tok)
		}
		team, ok := ParseTeam(tok[1:2])
		if !ok {
			return nil, fmt.Errorf("%w: token %d %q: unknown team", ErrMalformedToken, i, tok)
		}
		col := strings.IndexByte(coordDigits, tok[2])
		row := strings.IndexByte(coordDigits, tok[3])
		if !b.inBounds(col, row) {
			return nil, fmt.Errorf("%w: token %d %q: cell out of range for %s board", ErrMalformedToken, i, tok, size)
		}
		if b.IsOccupied(col, row) {
			return nil, fmt.Errorf("%w: token %d %q: cell already occupied", ErrMalformedToken, i, tok)
		}
		b.place(NewPiece(team, rank), col, row)
	}
	return b, nil
}
