package checkers

import (
	"fmt"
	"sync"
)

// Token holds the three serialized fields of a shareable game.
type Token struct {
	Board string
	Size  string
	Set   string
}

// Session owns one game in progress: the board, the active team and the
// capture chain. All methods are safe to call from concurrent goroutines;
// each runs to completion under the session lock.
type Session struct {
	mu     sync.Mutex
	size   BoardSize
	board  *Board
	engine *TurnEngine
	active Team
	// sender is the team that completed the most recent turn.
	sender Team
}

// NewSession starts a fresh game with the standard opening layout.
func NewSession(size BoardSize, starting Team) *Session {
	s := &Session{}
	s.reset(size, NewStandardBoard(size), starting)
	return s
}

func (s *Session) reset(size BoardSize, b *Board, active Team) {
	s.size = size
	s.board = b
	s.engine = NewTurnEngine(b)
	s.active = active
	s.sender = active.Opponent()
}

// NewGame discards the current board and starts over.
func (s *Session) NewGame(size BoardSize, starting Team) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset(size, NewStandardBoard(size), starting)
}

// LoadFromToken replaces the game with a decoded one. The team symbol names
// the team whose turn it is. On any failure the session is left unchanged.
func (s *Session) LoadFromToken(boardToken, sizeSymbol, teamSymbol string) error {
	size, ok := ParseBoardSize(sizeSymbol)
	if !ok {
		return fmt.Errorf("%w: unknown size %q", ErrInvalidToken, sizeSymbol)
	}
	team, ok := ParseTeam(teamSymbol)
	if !ok {
		return fmt.Errorf("%w: unknown set %q", ErrInvalidToken, teamSymbol)
	}
	b, err := DecodeBoard(size, boardToken)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset(size, b, team)
	return nil
}

// ToToken serializes the game. Set is the opponent of the team that finished
// the last turn, which is the team the recipient of the link plays next.
// A capture chain in progress is not part of the token.
func (s *Session) ToToken() Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Token{
		Board: s.board.Encode(),
		Size:  s.size.Symbol(),
		Set:   s.sender.Opponent().Symbol(),
	}
}

// AttemptMove moves the piece at from to to on behalf of the active team.
func (s *Session) AttemptMove(from, to Cell) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.board.PieceAt(from.Column, from.Row)
	if p == nil {
		return Illegal, fmt.Errorf("%w: %s", ErrNoPieceAtOrigin, from)
	}
	if s.engine.Chain() == nil && p.team != s.active {
		return Illegal, fmt.Errorf("%w: %s is %s, %s to move", ErrNotActiveTeam, from, p.team, s.active)
	}
	out, err := s.engine.Attempt(p, to)
	if err != nil {
		return out, err
	}
	if out.TurnEnds() {
		s.sender = s.active
		s.active = s.active.Opponent()
		s.engine.reset()
	}
	return out, nil
}

// ResumeChain restores a capture chain for the piece at c, e.g. after
// reloading a persisted game mid-turn. The piece must belong to the active
// team and still have a capture available.
func (s *Session) ResumeChain(c Cell) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.board.PieceAt(c.Column, c.Row)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrNoPieceAtOrigin, c)
	}
	if p.team != s.active {
		return fmt.Errorf("%w: %s", ErrNotActiveTeam, c)
	}
	if len(s.engine.Captures(p)) == 0 {
		return fmt.Errorf("%w: %s has no capture to continue", ErrIllegalMove, c)
	}
	s.engine.lock(p)
	return nil
}

// Destinations lists the legal targets of the piece at from for the active team.
func (s *Session) Destinations(from Cell) []Cell {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.board.PieceAt(from.Column, from.Row)
	if p == nil || p.team != s.active {
		return nil
	}
	return s.engine.Destinations(p)
}

// Winner reports the winning team once the team to move has no pieces or no
// legal move left.
func (s *Session) Winner() (Team, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine.Chain() != nil {
		return 0, false
	}
	if s.board.Count(s.active) == 0 || !s.engine.HasMoves(s.active) {
		return s.active.Opponent(), true
	}
	return 0, false
}

// Board returns a snapshot of the board for rendering.
func (s *Session) Board() *Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Clone()
}

func (s *Session) Size() BoardSize {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

func (s *Session) ActiveTeam() Team {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// ChainPiece returns the cell of the piece locked into a capture chain.
func (s *Session) ChainPiece() (Cell, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p := s.engine.Chain(); p != nil {
		return p.Cell(), true
	}
	return Cell{}, false
}
