package checkers

import "errors"

var (
	ErrIllegalMove     = errors.New("illegal move")
	ErrNoPieceAtOrigin = errors.New("no piece at origin")
	ErrNotActiveTeam   = errors.New("piece does not belong to the active team")
	ErrMalformedToken  = errors.New("malformed board token")
	ErrInvalidToken    = errors.New("invalid game token")
)
