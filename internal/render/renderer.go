package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/park285/checkers-link/internal/checkers"
)

// Highlight marks the last move on the board.
type Highlight struct {
	From checkers.Cell
	To   checkers.Cell
}

type RenderOptions struct {
	Header string
	Turn   string
	// Flip draws the board from the red side (row 0 on top).
	Flip         bool
	Highlight    *Highlight
	Destinations []checkers.Cell
	Chain        *checkers.Cell
}

type BoardRenderer interface {
	RenderPNG(ctx context.Context, board *checkers.Board, opts RenderOptions) ([]byte, error)
}

type pngRenderer struct {
	tile int
}

// NewPNGRenderer returns a renderer drawing tile×tile pixel cells.
func NewPNGRenderer(tile int) BoardRenderer {
	if tile < 16 {
		tile = 16
	}
	return &pngRenderer{tile: tile}
}

const (
	sideMargin = 24
	hudHeight  = 44
)

var (
	lightTile       = color.RGBA{240, 217, 181, 255}
	darkTile        = color.RGBA{120, 78, 52, 255}
	backgroundColor = color.RGBA{28, 31, 46, 255}
	hudTextColor    = color.RGBA{236, 239, 255, 255}
	coordColor      = color.RGBA{8, 214, 120, 255}
	moveFill        = color.NRGBA{R: 255, G: 228, B: 120, A: 120}
	destFill        = color.NRGBA{R: 120, G: 200, B: 255, A: 110}
	chainFill       = color.NRGBA{R: 255, G: 90, B: 90, A: 140}
)

func (r *pngRenderer) RenderPNG(ctx context.Context, board *checkers.Board, opts RenderOptions) ([]byte, error) {
	if board == nil {
		return nil, fmt.Errorf("board is nil")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	dim := board.Dimension()
	boardPx := dim * r.tile
	img := image.NewRGBA(image.Rect(0, 0, boardPx+sideMargin*2, boardPx+hudHeight+sideMargin*2))
	draw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)
	origin := image.Point{X: sideMargin, Y: hudHeight + sideMargin}

	drawHUD(img, opts)
	r.drawTiles(img, dim, origin, opts.Flip)
	if h := opts.Highlight; h != nil {
		r.fillCell(img, dim, origin, opts.Flip, h.From, moveFill)
		r.fillCell(img, dim, origin, opts.Flip, h.To, moveFill)
	}
	for _, c := range opts.Destinations {
		r.fillCell(img, dim, origin, opts.Flip, c, destFill)
	}
	if opts.Chain != nil {
		r.fillCell(img, dim, origin, opts.Flip, *opts.Chain, chainFill)
	}
	if err := r.drawPieces(img, board, origin, opts.Flip); err != nil {
		return nil, err
	}
	r.drawCoordinates(img, dim, origin, opts.Flip)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// cellRect maps a board cell to pixels. Row 0 is at the bottom unless flipped.
func (r *pngRenderer) cellRect(dim int, origin image.Point, flip bool, c checkers.Cell) image.Rectangle {
	col, row := c.Column, dim-1-c.Row
	if flip {
		col, row = dim-1-c.Column, c.Row
	}
	x := origin.X + col*r.tile
	y := origin.Y + row*r.tile
	return image.Rect(x, y, x+r.tile, y+r.tile)
}

func (r *pngRenderer) drawTiles(dst draw.Image, dim int, origin image.Point, flip bool) {
	for row := 0; row < dim; row++ {
		for col := 0; col < dim; col++ {
			clr := lightTile
			if (col+row)%2 == 0 {
				clr = darkTile
			}
			rect := r.cellRect(dim, origin, flip, checkers.Cell{Column: col, Row: row})
			draw.Draw(dst, rect, image.NewUniform(clr), image.Point{}, draw.Src)
		}
	}
}

func (r *pngRenderer) fillCell(dst draw.Image, dim int, origin image.Point, flip bool, c checkers.Cell, clr color.Color) {
	if c.Column < 0 || c.Column >= dim || c.Row < 0 || c.Row >= dim {
		return
	}
	draw.Draw(dst, r.cellRect(dim, origin, flip, c), image.NewUniform(clr), image.Point{}, draw.Over)
}

func (r *pngRenderer) drawPieces(dst draw.Image, board *checkers.Board, origin image.Point, flip bool) error {
	dim := board.Dimension()
	inset := r.tile / 10
	for _, team := range []checkers.Team{checkers.First, checkers.Second} {
		for _, p := range board.Pieces(team) {
			sprite, err := pieceImage(p.Team(), p.Rank(), r.tile-2*inset)
			if err != nil {
				return err
			}
			rect := r.cellRect(dim, origin, flip, p.Cell()).Inset(inset)
			draw.Draw(dst, rect, sprite, image.Point{}, draw.Over)
		}
	}
	return nil
}

func (r *pngRenderer) drawCoordinates(dst draw.Image, dim int, origin image.Point, flip bool) {
	face := basicfont.Face7x13
	for i := 0; i < dim; i++ {
		label := fmt.Sprint(i)
		w := font.MeasureString(face, label).Ceil()

		colRect := r.cellRect(dim, origin, flip, checkers.Cell{Column: i, Row: 0})
		x := colRect.Min.X + (r.tile-w)/2
		drawText(dst, face, label, x, origin.Y+dim*r.tile+sideMargin-8, coordColor)

		rowRect := r.cellRect(dim, origin, flip, checkers.Cell{Column: 0, Row: i})
		y := rowRect.Min.Y + r.tile/2 + 5
		drawText(dst, face, label, (sideMargin-w)/2, y, coordColor)
	}
}

func drawHUD(dst draw.Image, opts RenderOptions) {
	face := basicfont.Face7x13
	if opts.Header != "" {
		drawText(dst, face, opts.Header, sideMargin, 20, hudTextColor)
	}
	if opts.Turn != "" {
		drawText(dst, face, opts.Turn, sideMargin, 38, hudTextColor)
	}
}

func drawText(dst draw.Image, face font.Face, s string, x, y int, clr color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(clr),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
