package pvpcheckers

import (
	"context"
	"fmt"

	"github.com/park285/checkers-link/internal/checkers"
	"github.com/park285/checkers-link/internal/render"
)

// RenderPNG draws the game from viewerID's side; the red player sees the
// board flipped.
func (m *Manager) RenderPNG(ctx context.Context, g *Game, viewerID string) ([]byte, error) {
	if m == nil || g == nil {
		return nil, nil
	}
	s, err := g.Session()
	if err != nil {
		return nil, err
	}
	opts := render.RenderOptions{
		Header:    fmt.Sprintf("%s vs %s", g.WhiteName, g.RedName),
		Turn:      hudTurn(g, s),
		Highlight: lastHighlight(g),
	}
	if team, ok := g.TeamOf(viewerID); ok && team == checkers.Second {
		opts.Flip = true
	}
	if c, ok := s.ChainPiece(); ok {
		opts.Chain = &c
		opts.Destinations = s.Destinations(c)
	}
	return m.renderer.RenderPNG(ctx, s.Board(), opts)
}

func hudTurn(g *Game, s *checkers.Session) string {
	if g.Status != StatusActive {
		return fmt.Sprintf("%s | %s", g.Status, g.Outcome)
	}
	turns := len(g.Moves)/2 + 1
	return fmt.Sprintf("%s to move | move %d", s.ActiveTeam(), turns)
}

func lastHighlight(g *Game) *render.Highlight {
	mv, ok := g.LastMove()
	if !ok {
		return nil
	}
	from, ferr := checkers.ParseCell(mv.From)
	to, terr := checkers.ParseCell(mv.To)
	if ferr != nil || terr != nil {
		return nil
	}
	return &render.Highlight{From: from, To: to}
}
