package httpapi

import (
	"encoding/json"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/park285/checkers-link/internal/checkers"
	"github.com/park285/checkers-link/pkg/checkersdto"
)

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		ctx.Error("encode response", fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json; charset=utf-8")
	ctx.SetBody(raw)
}

func writePNG(ctx *fasthttp.RequestCtx, png []byte) {
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetContentType("image/png")
	ctx.Response.Header.Set("Cache-Control", "no-store")
	ctx.SetBody(png)
}

func writeText(ctx *fasthttp.RequestCtx, status int, text string) {
	ctx.SetStatusCode(status)
	ctx.SetContentType("text/plain; charset=utf-8")
	ctx.SetBodyString(text)
}

func statusFor(code string) int {
	switch code {
	case checkersdto.CodeBadRequest, checkersdto.CodeInvalidToken:
		return fasthttp.StatusBadRequest
	case checkersdto.CodeIllegalMove, checkersdto.CodeNoPiece, checkersdto.CodeNotActiveTeam:
		return fasthttp.StatusUnprocessableEntity
	case checkersdto.CodeNotFound:
		return fasthttp.StatusNotFound
	case checkersdto.CodeNotYourTurn, checkersdto.CodeConflict, checkersdto.CodeLobbyFull:
		return fasthttp.StatusConflict
	case checkersdto.CodeUnavailable:
		return fasthttp.StatusServiceUnavailable
	}
	return fasthttp.StatusInternalServerError
}

type errorBody struct {
	Error *checkersdto.DomainError `json:"error"`
}

func (s *Server) writeError(ctx *fasthttp.RequestCtx, err error) {
	de := s.fmt.Error(err)
	status := statusFor(de.Code)
	if status == fasthttp.StatusInternalServerError {
		s.log.Error("http_error", zap.String("path", string(ctx.Path())), zap.Error(err))
	}
	writeJSON(ctx, status, errorBody{Error: de})
}

// arg reads a parameter from the query string, then from a form body.
func arg(ctx *fasthttp.RequestCtx, name string) string {
	if v := ctx.QueryArgs().Peek(name); len(v) > 0 {
		return strings.TrimSpace(string(v))
	}
	return strings.TrimSpace(string(ctx.PostArgs().Peek(name)))
}

func cellArg(ctx *fasthttp.RequestCtx, name string) (checkers.Cell, bool) {
	c, err := checkers.ParseCell(arg(ctx, name))
	return c, err == nil
}

// linkQuery rebuilds the share link from the board, size and set parameters.
func linkQuery(ctx *fasthttp.RequestCtx) string {
	board, size, set := arg(ctx, checkers.LinkBoard), arg(ctx, checkers.LinkSize), arg(ctx, checkers.LinkSet)
	if board == "" && size == "" && set == "" {
		return ""
	}
	return checkers.Link{Token: checkers.Token{Board: board, Size: size, Set: set}}.Encode()
}
