package httpapi

import (
	"github.com/valyala/fasthttp"

	"github.com/park285/checkers-link/internal/adapter/checkerspresenter"
	"github.com/park285/checkers-link/internal/checkers"
	"github.com/park285/checkers-link/internal/pvp"
	"github.com/park285/checkers-link/internal/pvpchan"
)

// challenge shows the caller's pending challenge on GET and sends one to
// target on POST.
func (s *Server) challenge(ctx *fasthttp.RequestCtx) {
	if !s.pvpReady(ctx) {
		return
	}
	user := arg(ctx, "user")
	if ctx.IsGet() {
		if user == "" {
			s.writeError(ctx, checkerspresenter.ErrBadRequest)
			return
		}
		ch := s.deps.Challenges.Pending(user)
		if ch == nil {
			s.writeError(ctx, pvp.ErrNoPendingForUser)
			return
		}
		dto := checkerspresenter.ToDTOChallenge(ch)
		dto.Message = s.fmt.ChallengeSent(ch)
		writeJSON(ctx, fasthttp.StatusOK, dto)
		return
	}

	rctx, cancel := requestContext()
	defer cancel()
	for _, id := range []string{user, arg(ctx, "target")} {
		if g, _ := s.deps.Games.GetActiveGameByUser(rctx, id); g != nil {
			s.writeError(ctx, pvpchan.ErrPlayerBusy)
			return
		}
	}
	size := s.cfg.DefaultSize
	if v := arg(ctx, checkers.LinkSize); v != "" {
		if sz, ok := checkers.ParseBoardSize(v); ok {
			size = sz
		}
	}
	ch, err := s.deps.Challenges.CreateChallenge(user, arg(ctx, "name"), arg(ctx, "target"), size, pvpchan.ParseColorChoice(arg(ctx, "color")))
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	dto := checkerspresenter.ToDTOChallenge(ch)
	dto.Message = s.fmt.ChallengeSent(ch)
	writeJSON(ctx, fasthttp.StatusOK, dto)
}

func (s *Server) challengeAccept(ctx *fasthttp.RequestCtx) {
	if !s.pvpReady(ctx) {
		return
	}
	rctx, cancel := requestContext()
	defer cancel()
	ch, g, err := s.deps.Challenges.Accept(rctx, arg(ctx, "user"), arg(ctx, "name"))
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	dto := checkerspresenter.ToDTOChallenge(ch)
	dto.Message = s.fmt.ChallengeAccepted(g)
	writeJSON(ctx, fasthttp.StatusOK, dto)
}

func (s *Server) challengeDecline(ctx *fasthttp.RequestCtx) {
	if !s.pvpReady(ctx) {
		return
	}
	ch, err := s.deps.Challenges.Decline(arg(ctx, "user"))
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	dto := checkerspresenter.ToDTOChallenge(ch)
	dto.Message = s.fmt.ChallengeDeclined(ch)
	writeJSON(ctx, fasthttp.StatusOK, dto)
}
