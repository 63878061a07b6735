package pvpcheckers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/park285/checkers-link/internal/checkers"
)

// Status represents a PvP game lifecycle state.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusFinished Status = "FINISHED"
	StatusResigned Status = "RESIGNED"
)

var (
	ErrNoGame         = errors.New("no active game")
	ErrNotYourTurn    = errors.New("not your turn")
	ErrNotParticipant = errors.New("user not in game")
	ErrNotActive      = errors.New("game no longer active")
	ErrConcurrent     = errors.New("concurrent update")
	ErrAlreadyPlaying = errors.New("user already in an active game")
	ErrNotInitialized = errors.New("pvp manager not initialized")
)

// Move is one attempt that changed the board.
type Move struct {
	Team    string `json:"team"`
	From    string `json:"from"`
	To      string `json:"to"`
	Outcome string `json:"outcome"`
}

// Game is the persisted state of a PvP match. Board, Size and Set are the
// same three fields a share link carries; Chain holds the cell of a piece
// that must keep capturing, since the link itself does not.
type Game struct {
	ID        string    `json:"id"`
	Board     string    `json:"board"`
	Size      string    `json:"size"`
	Set       string    `json:"set"`
	Chain     string    `json:"chain,omitempty"`
	Moves     []Move    `json:"moves"`
	Version   int       `json:"version"`
	Status    Status    `json:"status"`
	WhiteID   string    `json:"white_id"`
	WhiteName string    `json:"white_name"`
	RedID     string    `json:"red_id"`
	RedName   string    `json:"red_name"`
	Winner    string    `json:"winner,omitempty"`
	Outcome   string    `json:"outcome,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewGame describes the players and board of a match to create.
type NewGame struct {
	WhiteID   string
	WhiteName string
	RedID     string
	RedName   string
	Size      checkers.BoardSize
	Starting  checkers.Team
}

// Session rebuilds the rules session the game is at, including a capture
// chain in progress.
func (g *Game) Session() (*checkers.Session, error) {
	s := checkers.NewSession(checkers.DefaultBoardSize, checkers.DefaultTeam)
	if err := s.LoadFromToken(g.Board, g.Size, g.Set); err != nil {
		return nil, err
	}
	if strings.TrimSpace(g.Chain) != "" {
		c, err := checkers.ParseCell(g.Chain)
		if err != nil {
			return nil, fmt.Errorf("chain cell: %w", err)
		}
		if err := s.ResumeChain(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// TeamOf returns the team userID plays in g.
func (g *Game) TeamOf(userID string) (checkers.Team, bool) {
	switch strings.TrimSpace(userID) {
	case "":
		return 0, false
	case g.WhiteID:
		return checkers.First, true
	case g.RedID:
		return checkers.Second, true
	}
	return 0, false
}

// PlayerOf returns the id and display name of the player of team.
func (g *Game) PlayerOf(team checkers.Team) (id, name string) {
	if team == checkers.First {
		return g.WhiteID, g.WhiteName
	}
	return g.RedID, g.RedName
}

// LastMove returns the most recent move, if any.
func (g *Game) LastMove() (Move, bool) {
	if len(g.Moves) == 0 {
		return Move{}, false
	}
	return g.Moves[len(g.Moves)-1], true
}

func opponentID(g *Game, userID string) string {
	if g.WhiteID == userID {
		return g.RedID
	}
	if g.RedID == userID {
		return g.WhiteID
	}
	return ""
}
