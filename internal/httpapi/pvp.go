package httpapi

import (
	"context"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/park285/checkers-link/internal/adapter/checkerspresenter"
	"github.com/park285/checkers-link/internal/checkers"
	"github.com/park285/checkers-link/internal/pvpchan"
	"github.com/park285/checkers-link/internal/pvpcheckers"
	"github.com/park285/checkers-link/pkg/checkersdto"
)

// pvpReady writes 503 when the server runs without Redis.
func (s *Server) pvpReady(ctx *fasthttp.RequestCtx) bool {
	if s.deps.Games == nil || s.deps.Lobby == nil || s.deps.Challenges == nil {
		s.writeError(ctx, fmt.Errorf("%w: pvp disabled", checkerspresenter.ErrUnavailable))
		return false
	}
	return true
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

type lobbyList struct {
	Lobbies []*checkersdto.LobbyState `json:"lobbies"`
	Message string                    `json:"message"`
}

// lobby lists open lobbies on GET and opens one on POST.
func (s *Server) lobby(ctx *fasthttp.RequestCtx) {
	if !s.pvpReady(ctx) {
		return
	}
	rctx, cancel := requestContext()
	defer cancel()

	if ctx.IsGet() {
		list, err := s.deps.Lobby.ListLobby(rctx)
		if err != nil {
			s.writeError(ctx, err)
			return
		}
		writeJSON(ctx, fasthttp.StatusOK, lobbyList{
			Lobbies: checkerspresenter.ToDTOLobbies(list),
			Message: s.fmt.LobbyList(list),
		})
		return
	}

	size := s.cfg.DefaultSize
	if v := arg(ctx, checkers.LinkSize); v != "" {
		if sz, ok := checkers.ParseBoardSize(v); ok {
			size = sz
		}
	}
	res, err := s.deps.Lobby.Make(rctx, arg(ctx, "user"), arg(ctx, "name"), size, pvpchan.ParseColorChoice(arg(ctx, "color")))
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	dto := checkerspresenter.ToDTOLobby(res.Meta)
	dto.Message = s.fmt.LobbyMade(res.Code)
	writeJSON(ctx, fasthttp.StatusOK, dto)
}

func (s *Server) lobbyJoin(ctx *fasthttp.RequestCtx) {
	if !s.pvpReady(ctx) {
		return
	}
	rctx, cancel := requestContext()
	defer cancel()
	res, err := s.deps.Lobby.Join(rctx, arg(ctx, "code"), arg(ctx, "user"), arg(ctx, "name"))
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	dto := checkerspresenter.ToDTOLobby(res.Meta)
	dto.Message = s.fmt.LobbyJoined(res)
	writeJSON(ctx, fasthttp.StatusOK, dto)
}

// activeGame loads the requesting user's game or writes the error.
func (s *Server) activeGame(ctx *fasthttp.RequestCtx, rctx context.Context) (*pvpcheckers.Game, bool) {
	user := arg(ctx, "user")
	if user == "" {
		s.writeError(ctx, checkerspresenter.ErrBadRequest)
		return nil, false
	}
	g, err := s.deps.Games.GetActiveGameByUser(rctx, user)
	if err != nil {
		s.writeError(ctx, err)
		return nil, false
	}
	if g == nil {
		s.writeError(ctx, pvpcheckers.ErrNoGame)
		return nil, false
	}
	return g, true
}

func (s *Server) gameState(g *pvpcheckers.Game) (*checkersdto.SessionState, error) {
	state, sess, err := checkerspresenter.GameState(g)
	if err != nil {
		return nil, err
	}
	state.Message = s.fmt.GameText(g, sess)
	return state, nil
}

func (s *Server) pvpGame(ctx *fasthttp.RequestCtx) {
	if !s.pvpReady(ctx) {
		return
	}
	rctx, cancel := requestContext()
	defer cancel()
	g, ok := s.activeGame(ctx, rctx)
	if !ok {
		return
	}
	state, err := s.gameState(g)
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, state)
}

func (s *Server) pvpBoardPNG(ctx *fasthttp.RequestCtx) {
	if !s.pvpReady(ctx) {
		return
	}
	rctx, cancel := requestContext()
	defer cancel()
	g, ok := s.activeGame(ctx, rctx)
	if !ok {
		return
	}
	viewer := arg(ctx, "user")
	s.renderPNG(ctx, func(c context.Context) ([]byte, error) {
		return s.deps.Games.RenderPNG(c, g, viewer)
	})
}

func (s *Server) pvpMove(ctx *fasthttp.RequestCtx) {
	if !s.pvpReady(ctx) {
		return
	}
	from, okFrom := cellArg(ctx, "from")
	to, okTo := cellArg(ctx, "to")
	user := arg(ctx, "user")
	if !okFrom || !okTo || user == "" {
		s.writeError(ctx, checkerspresenter.ErrBadRequest)
		return
	}
	rctx, cancel := requestContext()
	defer cancel()

	g, out, err := s.deps.Games.PlayMove(rctx, user, from, to)
	res := checkersdto.MoveResult{Outcome: out.String(), From: from.String(), To: to.String()}
	if g != nil {
		if state, serr := s.gameState(g); serr == nil {
			res.State = state
		}
	}
	if err != nil {
		team := checkers.First
		if g != nil {
			if sess, serr := g.Session(); serr == nil {
				team = sess.ActiveTeam()
			}
		}
		res.Error = s.fmt.MoveError(err, team, from, to)
		res.Message = res.Error.Message
		writeJSON(ctx, statusFor(res.Error.Code), res)
		return
	}
	team, _ := g.TeamOf(user)
	res.Message = s.fmt.Outcome(team, from, to, out)
	writeJSON(ctx, fasthttp.StatusOK, res)
}

func (s *Server) pvpResign(ctx *fasthttp.RequestCtx) {
	if !s.pvpReady(ctx) {
		return
	}
	user := arg(ctx, "user")
	if user == "" {
		s.writeError(ctx, checkerspresenter.ErrBadRequest)
		return
	}
	rctx, cancel := requestContext()
	defer cancel()
	g, err := s.deps.Games.Resign(rctx, user)
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	state, err := s.gameState(g)
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, state)
}

type historyEntry struct {
	GameID     string `json:"game_id"`
	White      string `json:"white"`
	Red        string `json:"red"`
	Size       string `json:"size"`
	Result     string `json:"result"`
	Method     string `json:"method"`
	FinalBoard string `json:"final_board"`
	Notation   string `json:"notation"`
	MoveCount  int    `json:"move_count"`
	EndedAt    string `json:"ended_at"`
	DurationMS int64  `json:"duration_ms"`
}

func (s *Server) pvpHistory(ctx *fasthttp.RequestCtx) {
	user := arg(ctx, "user")
	if user == "" {
		s.writeError(ctx, checkerspresenter.ErrBadRequest)
		return
	}
	if s.deps.Archive == nil {
		writeJSON(ctx, fasthttp.StatusOK, map[string]any{"games": []historyEntry{}})
		return
	}
	rctx, cancel := requestContext()
	defer cancel()
	results, err := s.deps.Archive.Results(rctx, user, ctx.QueryArgs().GetUintOrZero("limit"))
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	out := make([]historyEntry, 0, len(results))
	for _, r := range results {
		out = append(out, historyEntry{
			GameID:     r.GameID,
			White:      r.WhiteName,
			Red:        r.RedName,
			Size:       r.Size,
			Result:     r.Result,
			Method:     r.Method,
			FinalBoard: r.FinalBoard,
			Notation:   r.Notation,
			MoveCount:  r.MoveCount,
			EndedAt:    r.EndedAt.Format(time.RFC3339),
			DurationMS: r.Duration.Milliseconds(),
		})
	}
	writeJSON(ctx, fasthttp.StatusOK, map[string]any{"games": out})
}
