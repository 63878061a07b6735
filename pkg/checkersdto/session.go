package checkersdto

// PieceState is one occupied cell.
type PieceState struct {
	Column int    `json:"column"`
	Row    int    `json:"row"`
	Team   string `json:"team"`
	Rank   string `json:"rank"`
}

// SessionState is a renderer-ready snapshot of a game.
type SessionState struct {
	GameID     string       `json:"game_id,omitempty"`
	Board      string       `json:"board"`
	Size       string       `json:"size"`
	Set        string       `json:"set"`
	Dimension  int          `json:"dimension"`
	ActiveTeam string       `json:"active_team"`
	Chain      string       `json:"chain,omitempty"`
	Pieces     []PieceState `json:"pieces"`
	Link       string       `json:"link"`
	Winner     string       `json:"winner,omitempty"`
	Status     string       `json:"status,omitempty"`
	White      string       `json:"white,omitempty"`
	Red        string       `json:"red,omitempty"`
	Message    string       `json:"message,omitempty"`
	BoardImage []byte       `json:"-"`
}

// MoveResult is returned for every move attempt.
type MoveResult struct {
	Outcome string        `json:"outcome"`
	From    string        `json:"from"`
	To      string        `json:"to"`
	Message string        `json:"message,omitempty"`
	State   *SessionState `json:"state"`
	Error   *DomainError  `json:"error,omitempty"`
}

// LobbyState lists a lobby waiting for or holding a game.
type LobbyState struct {
	Code      string `json:"code"`
	State     string `json:"state"`
	Size      string `json:"size"`
	Creator   string `json:"creator"`
	GameID    string `json:"game_id,omitempty"`
	Started   bool   `json:"started"`
	Message   string `json:"message,omitempty"`
	CreatedAt string `json:"created_at"`
}

// ChallengeState is a direct challenge between two users.
type ChallengeState struct {
	ID         string `json:"id"`
	Challenger string `json:"challenger"`
	Target     string `json:"target"`
	Size       string `json:"size"`
	Status     string `json:"status"`
	GameID     string `json:"game_id,omitempty"`
	Message    string `json:"message,omitempty"`
	CreatedAt  string `json:"created_at"`
}
