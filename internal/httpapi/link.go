package httpapi

import (
	"context"
	"fmt"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/park285/checkers-link/internal/adapter/checkerspresenter"
	"github.com/park285/checkers-link/internal/checkers"
	"github.com/park285/checkers-link/internal/render"
	"github.com/park285/checkers-link/pkg/checkersdto"
)

// openLink restores the session named by the request, resuming a capture
// chain when one is given. A broken token yields the default game and the
// token error.
func (s *Server) openLink(ctx *fasthttp.RequestCtx) (*checkers.Session, error) {
	raw := linkQuery(ctx)
	if raw == "" {
		return checkers.NewSession(s.cfg.DefaultSize, s.cfg.DefaultTeam), nil
	}
	sess, err := checkers.OpenLink(raw)
	if err != nil {
		return sess, err
	}
	if v := arg(ctx, "chain"); v != "" {
		c, err := checkers.ParseCell(v)
		if err != nil {
			return sess, fmt.Errorf("%w: chain: %v", checkerspresenter.ErrBadRequest, err)
		}
		if err := sess.ResumeChain(c); err != nil {
			return sess, fmt.Errorf("%w: chain: %v", checkerspresenter.ErrBadRequest, err)
		}
	}
	return sess, nil
}

func (s *Server) linkNew(ctx *fasthttp.RequestCtx) {
	size, team := s.cfg.DefaultSize, s.cfg.DefaultTeam
	if v := arg(ctx, checkers.LinkSize); v != "" {
		if sz, ok := checkers.ParseBoardSize(v); ok {
			size = sz
		}
	}
	if v := arg(ctx, checkers.LinkSet); v != "" {
		if t, ok := checkers.ParseTeam(v); ok {
			team = t
		}
	}
	sess := checkers.NewSession(size, team)
	state := checkerspresenter.StateOf(sess)
	state.Message = s.fmt.Turn(sess)
	writeJSON(ctx, fasthttp.StatusOK, state)
}

func (s *Server) linkMove(ctx *fasthttp.RequestCtx) {
	sess, err := s.openLink(ctx)
	if err != nil {
		de := s.fmt.Error(err)
		writeJSON(ctx, statusFor(de.Code), checkersdto.MoveResult{
			Outcome: checkers.Illegal.String(),
			State:   checkerspresenter.StateOf(sess),
			Error:   de,
		})
		return
	}
	from, okFrom := cellArg(ctx, "from")
	to, okTo := cellArg(ctx, "to")
	if !okFrom || !okTo {
		s.writeError(ctx, checkerspresenter.ErrBadRequest)
		return
	}

	team := sess.ActiveTeam()
	out, err := sess.AttemptMove(from, to)
	res := checkersdto.MoveResult{
		Outcome: out.String(),
		From:    from.String(),
		To:      to.String(),
		State:   checkerspresenter.StateOf(sess),
	}
	if err != nil {
		res.Error = s.fmt.MoveError(err, team, from, to)
		res.Message = res.Error.Message
		writeJSON(ctx, statusFor(res.Error.Code), res)
		return
	}
	res.Message = s.fmt.Outcome(team, from, to, out)
	res.State.Message = s.fmt.Turn(sess)
	writeJSON(ctx, fasthttp.StatusOK, res)
}

func (s *Server) linkText(ctx *fasthttp.RequestCtx) {
	sess, err := s.openLink(ctx)
	text := s.fmt.Text(sess)
	if err != nil {
		text = s.fmt.Error(err).Message + "\n" + text
	}
	writeText(ctx, fasthttp.StatusOK, text)
}

func (s *Server) linkDestinations(ctx *fasthttp.RequestCtx) {
	sess, err := s.openLink(ctx)
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	from, ok := cellArg(ctx, "from")
	if !ok {
		s.writeError(ctx, checkerspresenter.ErrBadRequest)
		return
	}
	cells := sess.Destinations(from)
	out := make([]string, 0, len(cells))
	for _, c := range cells {
		out = append(out, c.String())
	}
	writeJSON(ctx, fasthttp.StatusOK, map[string]any{"from": from.String(), "destinations": out})
}

func (s *Server) linkBoardPNG(ctx *fasthttp.RequestCtx) {
	sess, err := s.openLink(ctx)
	if err != nil {
		s.writeError(ctx, err)
		return
	}
	opts := render.RenderOptions{Turn: sess.ActiveTeam().String() + " to move"}
	if team, ok := checkers.ParseTeam(arg(ctx, "view")); ok && team == checkers.Second {
		opts.Flip = true
	}
	if c, ok := sess.ChainPiece(); ok {
		opts.Chain = &c
		opts.Destinations = sess.Destinations(c)
	}
	s.renderPNG(ctx, func(rctx context.Context) ([]byte, error) {
		return s.deps.Renderer.RenderPNG(rctx, sess.Board(), opts)
	})
}

func (s *Server) renderPNG(ctx *fasthttp.RequestCtx, draw func(context.Context) ([]byte, error)) {
	release, ok := s.acquireRender()
	if !ok {
		s.writeError(ctx, checkerspresenter.ErrUnavailable)
		return
	}
	defer release()
	rctx, cancel := requestContext()
	defer cancel()
	png, err := draw(rctx)
	if err != nil {
		s.log.Warn("render_failed", zap.Error(err))
		s.writeError(ctx, err)
		return
	}
	writePNG(ctx, png)
}
