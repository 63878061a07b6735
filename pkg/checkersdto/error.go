package checkersdto

// DomainError is the transport-facing form of a rules or store error.
type DomainError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
}

func (e DomainError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return "checkers service error"
}

// Stable error codes.
const (
	CodeIllegalMove   = "illegal_move"
	CodeNoPiece       = "no_piece_at_origin"
	CodeNotActiveTeam = "not_active_team"
	CodeInvalidToken  = "invalid_token"
	CodeBadRequest    = "bad_request"
	CodeNotFound      = "not_found"
	CodeNotYourTurn   = "not_your_turn"
	CodeConflict      = "conflict"
	CodeLobbyFull     = "lobby_full"
	CodeUnavailable   = "unavailable"
	CodeInternal      = "internal"
)
