package render

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	"github.com/park285/checkers-link/internal/checkers"
)

func TestRenderPNGDimensions(t *testing.T) {
	r := NewPNGRenderer(32)
	for _, size := range []checkers.BoardSize{checkers.Small, checkers.Large} {
		b := checkers.NewStandardBoard(size)
		raw, err := r.RenderPNG(context.Background(), b, RenderOptions{Header: "alice vs bob", Turn: "White to move"})
		if err != nil {
			t.Fatalf("RenderPNG(%s): %v", size, err)
		}
		img, err := png.Decode(bytes.NewReader(raw))
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		want := size.Dimension()*32 + sideMargin*2
		if got := img.Bounds().Dx(); got != want {
			t.Fatalf("width = %d, want %d", got, want)
		}
	}
}

func TestRenderDrawsPieceOnItsCell(t *testing.T) {
	b, err := checkers.DecodeBoard(checkers.Small, "KR00")
	if err != nil {
		t.Fatal(err)
	}
	pr := NewPNGRenderer(40).(*pngRenderer)
	raw, err := pr.RenderPNG(context.Background(), b, RenderOptions{})
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	origin := pr.cellRect(8, imagePoint(), false, checkers.Cell{Column: 0, Row: 0})
	cx := origin.Min.X + 20
	cy := origin.Min.Y + 10
	r, g, _, _ := img.At(cx, cy).RGBA()
	dr, dg, _, _ := darkTile.RGBA()
	if r == dr && g == dg {
		t.Fatalf("expected piece pixels at (%d,%d), found bare tile", cx, cy)
	}
}

func TestFlipMirrorsCells(t *testing.T) {
	pr := &pngRenderer{tile: 10}
	o := imagePoint()
	a := pr.cellRect(8, o, false, checkers.Cell{Column: 0, Row: 0})
	b := pr.cellRect(8, o, true, checkers.Cell{Column: 7, Row: 7})
	if a != b {
		t.Fatalf("flip mismatch: %v vs %v", a, b)
	}
}

func imagePoint() image.Point {
	return image.Point{X: sideMargin, Y: hudHeight + sideMargin}
}

func TestRenderHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewPNGRenderer(32).RenderPNG(ctx, checkers.NewBoard(checkers.Small), RenderOptions{}); err == nil {
		t.Fatalf("expected context error")
	}
}
