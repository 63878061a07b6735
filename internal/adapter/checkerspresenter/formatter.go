package checkerspresenter

import (
	"errors"
	"strings"

	"github.com/park285/checkers-link/internal/checkers"
	"github.com/park285/checkers-link/internal/msgcat"
	"github.com/park285/checkers-link/internal/pvp"
	"github.com/park285/checkers-link/internal/pvpchan"
	"github.com/park285/checkers-link/internal/pvpcheckers"
	"github.com/park285/checkers-link/pkg/checkersdto"
)

// Formatter renders checkers state and errors into localized text blocks.
type Formatter struct {
	catalog *msgcat.Catalog
}

func NewFormatter(c *msgcat.Catalog) *Formatter {
	return &Formatter{catalog: c}
}

func (f *Formatter) TeamName(t checkers.Team) string {
	if t == checkers.First {
		return f.catalog.Text("team.white", nil)
	}
	return f.catalog.Text("team.red", nil)
}

func (f *Formatter) SizeName(s checkers.BoardSize) string {
	return f.catalog.Text("size."+s.String(), nil)
}

// Outcome describes a successful or illegal move attempt.
func (f *Formatter) Outcome(team checkers.Team, from, to checkers.Cell, out checkers.Outcome) string {
	return f.catalog.Text("outcome."+out.String(), map[string]string{
		"Team": f.TeamName(team),
		"From": from.String(),
		"To":   to.String(),
	})
}

// Turn names the team to move, or the winner once the game is over.
func (f *Formatter) Turn(s *checkers.Session) string {
	if w, ok := s.Winner(); ok {
		return f.catalog.Text("game.winner", map[string]string{"Team": f.TeamName(w)})
	}
	return f.catalog.Text("game.turn", map[string]string{
		"Team": f.TeamName(s.ActiveTeam()),
		"Size": f.SizeName(s.Size()),
	})
}

// Text is the ASCII board followed by the turn line.
func (f *Formatter) Text(s *checkers.Session) string {
	var sb strings.Builder
	sb.WriteString(s.Board().String())
	sb.WriteString("\n")
	sb.WriteString(f.Turn(s))
	return sb.String()
}

// GameText adds the player header and the resignation line of a PvP game.
func (f *Formatter) GameText(g *pvpcheckers.Game, s *checkers.Session) string {
	var sb strings.Builder
	sb.WriteString(f.catalog.Text("game.header", map[string]string{"White": g.WhiteName, "Red": g.RedName}))
	sb.WriteString("\n")
	sb.WriteString(s.Board().String())
	sb.WriteString("\n")
	switch g.Status {
	case pvpcheckers.StatusResigned:
		loser := g.WhiteName
		if g.Winner == g.WhiteID {
			loser = g.RedName
		}
		sb.WriteString(f.catalog.Text("game.resigned", map[string]string{"Name": loser}))
	default:
		sb.WriteString(f.Turn(s))
	}
	return sb.String()
}

func (f *Formatter) LobbyMade(code string) string {
	return f.catalog.Text("lobby.made", map[string]string{"Code": code})
}

func (f *Formatter) LobbyJoined(res *pvpchan.JoinResult) string {
	if res == nil || res.Meta == nil {
		return ""
	}
	if !res.Started {
		return f.catalog.Text("lobby.queued", map[string]string{"Code": res.Meta.ID})
	}
	return f.catalog.Text("lobby.started", map[string]string{
		"Code":  res.Meta.ID,
		"White": res.Meta.WhiteName,
		"Red":   res.Meta.RedName,
	})
}

func (f *Formatter) ChallengeSent(ch *pvp.Challenge) string {
	size, ok := checkers.ParseBoardSize(ch.Size)
	if !ok {
		size = checkers.DefaultBoardSize
	}
	return f.catalog.Text("challenge.sent", map[string]string{
		"Challenger": ch.ChallengerName,
		"Target":     ch.TargetID,
		"Size":       f.SizeName(size),
	})
}

func (f *Formatter) ChallengeAccepted(g *pvpcheckers.Game) string {
	return f.catalog.Text("challenge.accepted", map[string]string{"White": g.WhiteName, "Red": g.RedName})
}

func (f *Formatter) ChallengeDeclined(ch *pvp.Challenge) string {
	return f.catalog.Text("challenge.declined", map[string]string{"Target": ch.TargetID})
}

func (f *Formatter) LobbyList(list []*pvpchan.ChannelMeta) string {
	if len(list) == 0 {
		return f.catalog.Text("lobby.empty", nil)
	}
	lines := make([]string, 0, len(list))
	for _, m := range list {
		size, ok := checkers.ParseBoardSize(m.Size)
		if !ok {
			size = checkers.DefaultBoardSize
		}
		lines = append(lines, f.catalog.Text("lobby.entry", map[string]string{
			"Code":    m.ID,
			"Creator": m.CreatorName,
			"Size":    f.SizeName(size),
		}))
	}
	return strings.Join(lines, "\n")
}

// MoveError maps a failed move to a DomainError with the cells filled in.
func (f *Formatter) MoveError(err error, active checkers.Team, from, to checkers.Cell) *checkersdto.DomainError {
	switch {
	case errors.Is(err, checkers.ErrNoPieceAtOrigin):
		return &checkersdto.DomainError{Code: checkersdto.CodeNoPiece, Message: f.catalog.Text("error.no_piece", map[string]string{"From": from.String()})}
	case errors.Is(err, checkers.ErrNotActiveTeam):
		return &checkersdto.DomainError{Code: checkersdto.CodeNotActiveTeam, Message: f.catalog.Text("error.not_active_team", map[string]string{"Team": f.TeamName(active)})}
	case errors.Is(err, checkers.ErrIllegalMove):
		return &checkersdto.DomainError{Code: checkersdto.CodeIllegalMove, Message: f.Outcome(active, from, to, checkers.Illegal)}
	}
	return f.Error(err)
}

// Error maps store and rules errors to a DomainError.
func (f *Formatter) Error(err error) *checkersdto.DomainError {
	if err == nil {
		return nil
	}
	code, key, retry := checkersdto.CodeInternal, "error.internal", true
	switch {
	case errors.Is(err, checkers.ErrInvalidToken), errors.Is(err, checkers.ErrMalformedToken):
		code, key, retry = checkersdto.CodeInvalidToken, "error.invalid_token", false
	case errors.Is(err, checkers.ErrIllegalMove):
		code, key, retry = checkersdto.CodeIllegalMove, "outcome.illegal", false
	case errors.Is(err, pvpcheckers.ErrNotYourTurn):
		code, key, retry = checkersdto.CodeNotYourTurn, "error.not_your_turn", false
	case errors.Is(err, pvpcheckers.ErrNoGame), errors.Is(err, pvpcheckers.ErrNotParticipant), errors.Is(err, pvpcheckers.ErrNotActive):
		code, key, retry = checkersdto.CodeNotFound, "error.no_game", false
	case errors.Is(err, pvpcheckers.ErrConcurrent):
		code, key, retry = checkersdto.CodeConflict, "error.concurrent", true
	case errors.Is(err, pvpcheckers.ErrAlreadyPlaying), errors.Is(err, pvpchan.ErrPlayerBusy):
		code, key, retry = checkersdto.CodeConflict, "error.busy", false
	case errors.Is(err, pvpchan.ErrCreatorHasLobby):
		code, key, retry = checkersdto.CodeConflict, "lobby.has_lobby", false
	case errors.Is(err, pvpchan.ErrChannelGone):
		code, key, retry = checkersdto.CodeNotFound, "lobby.gone", false
	case errors.Is(err, pvpchan.ErrFull), errors.Is(err, pvpchan.ErrChannelActive):
		code, key, retry = checkersdto.CodeLobbyFull, "lobby.full", false
	case errors.Is(err, pvp.ErrNoPendingForUser):
		code, key, retry = checkersdto.CodeNotFound, "challenge.none", false
	case errors.Is(err, pvp.ErrAlreadyPending):
		code, key, retry = checkersdto.CodeConflict, "challenge.pending", false
	case errors.Is(err, pvp.ErrSelfChallenge):
		code, key, retry = checkersdto.CodeBadRequest, "challenge.self", false
	case errors.Is(err, pvpchan.ErrInvalidArgs), errors.Is(err, pvp.ErrInvalidArgs), errors.Is(err, ErrBadRequest):
		code, key, retry = checkersdto.CodeBadRequest, "error.bad_request", false
	case errors.Is(err, ErrUnavailable):
		code, key, retry = checkersdto.CodeUnavailable, "error.unavailable", true
	}
	msg := f.catalog.Text(key, nil)
	if key == "outcome.illegal" {
		msg = err.Error()
	}
	return &checkersdto.DomainError{Code: code, Message: msg, Retryable: retry}
}

var (
	// ErrBadRequest marks malformed transport input.
	ErrBadRequest = errors.New("bad request")
	// ErrUnavailable marks a request shed under load.
	ErrUnavailable = errors.New("unavailable")
)
