package checkers

import "fmt"

// Outcome reports what a move attempt did.
type Outcome int

const (
	Illegal Outcome = iota
	Moved
	CapturedMustContinue
	CapturedTurnEnds
)

func (o Outcome) String() string {
	switch o {
	case Moved:
		return "moved"
	case CapturedMustContinue:
		return "captured_must_continue"
	case CapturedTurnEnds:
		return "captured_turn_ends"
	default:
		return "illegal"
	}
}

// TurnEnds reports whether control passes to the other team.
func (o Outcome) TurnEnds() bool { return o == Moved || o == CapturedTurnEnds }

// Capture is one available jump: the opposing piece at Over is taken by landing on Land.
type Capture struct {
	Over Cell
	Land Cell
}

// TurnEngine validates and applies single move attempts against a board.
// A non-nil chain means the engine is in MustContinue(chain).
type TurnEngine struct {
	board *Board
	chain *Piece
}

func NewTurnEngine(b *Board) *TurnEngine { return &TurnEngine{board: b} }

// Chain returns the piece locked into a capture chain, or nil when idle.
func (e *TurnEngine) Chain() *Piece { return e.chain }

// Captures lists the jumps open to p from its current cell.
func (e *TurnEngine) Captures(p *Piece) []Capture {
	var out []Capture
	from := p.Cell()
	for _, d := range CaptureDeltas(p.rank, p.team) {
		over := from.offset(Delta{Column: d.Column / 2, Row: d.Row / 2})
		land := from.offset(d)
		if !e.board.inBounds(land.Column, land.Row) || e.board.IsOccupied(land.Column, land.Row) {
			continue
		}
		if !p.canCapture(e.board.PieceAt(over.Column, over.Row)) {
			continue
		}
		out = append(out, Capture{Over: over, Land: land})
	}
	return out
}

// Destinations lists every cell p may legally be dropped on right now.
// While a capture exists only landing cells are offered.
func (e *TurnEngine) Destinations(p *Piece) []Cell {
	if e.chain != nil && e.chain != p {
		return nil
	}
	if caps := e.Captures(p); len(caps) > 0 {
		out := make([]Cell, 0, len(caps))
		for _, c := range caps {
			out = append(out, c.Land)
		}
		return out
	}
	if e.chain != nil {
		return nil
	}
	var out []Cell
	for _, d := range SimpleDeltas(p.rank, p.team) {
		to := p.Cell().offset(d)
		if e.board.inBounds(to.Column, to.Row) && !e.board.IsOccupied(to.Column, to.Row) {
			out = append(out, to)
		}
	}
	return out
}

// HasMoves reports whether team has at least one legal destination.
func (e *TurnEngine) HasMoves(team Team) bool {
	for _, p := range e.board.Pieces(team) {
		if len(e.Destinations(p)) > 0 {
			return true
		}
	}
	return false
}

// Attempt validates and, when legal, applies moving p to `to`.
// Illegal attempts leave the board and the chain untouched.
func (e *TurnEngine) Attempt(p *Piece, to Cell) (Outcome, error) {
	if p == nil || e.board.PieceAt(p.column, p.row) != p {
		return Illegal, fmt.Errorf("%w: piece is not on this board", ErrIllegalMove)
	}
	if e.chain != nil && e.chain != p {
		return Illegal, fmt.Errorf("%w: piece at %s must continue capturing", ErrIllegalMove, e.chain.Cell())
	}

	if caps := e.Captures(p); len(caps) > 0 {
		var hit *Capture
		for i := range caps {
			if caps[i].Land == to {
				hit = &caps[i]
				break
			}
		}
		if hit == nil {
			return Illegal, fmt.Errorf("%w: %s must capture, %s is not a landing cell", ErrIllegalMove, p.Cell(), to)
		}
		captured := e.board.PieceAt(hit.Over.Column, hit.Over.Row)
		if !p.canCapture(captured) {
			return Illegal, fmt.Errorf("%w: nothing to capture at %s", ErrIllegalMove, hit.Over)
		}
		e.board.remove(hit.Over.Column, hit.Over.Row)
		e.board.move(p, to)
		p.crown(e.board.dim)
		if len(e.Captures(p)) > 0 {
			e.chain = p
			return CapturedMustContinue, nil
		}
		e.chain = nil
		return CapturedTurnEnds, nil
	}

	if e.chain != nil {
		return Illegal, fmt.Errorf("%w: capture chain of %s has no further capture", ErrIllegalMove, p.Cell())
	}
	if !e.board.inBounds(to.Column, to.Row) || e.board.IsOccupied(to.Column, to.Row) {
		return Illegal, fmt.Errorf("%w: %s is not an empty cell", ErrIllegalMove, to)
	}
	step := Delta{Column: to.Column - p.column, Row: to.Row - p.row}
	if !containsDelta(SimpleDeltas(p.rank, p.team), step) {
		return Illegal, fmt.Errorf("%w: %s cannot move %s to %s", ErrIllegalMove, p.rank, p.Cell(), to)
	}
	e.board.move(p, to)
	p.crown(e.board.dim)
	return Moved, nil
}

// reset drops any chain; used when the session starts a new turn state.
func (e *TurnEngine) reset() { e.chain = nil }

// lock restores a persisted MustContinue(p) state.
func (e *TurnEngine) lock(p *Piece) { e.chain = p }

func containsDelta(ds []Delta, d Delta) bool {
	for _, x := range ds {
		if x == d {
			return true
		}
	}
	return false
}
