package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/park285/checkers-link/internal/checkers"
)

const pieceSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100" width="100" height="100">
<circle cx="51" cy="55" r="40" fill="#3a2a1c"/>
<circle cx="50" cy="50" r="40" fill="%s" stroke="%s" stroke-width="4"/>
<circle cx="50" cy="50" r="28" fill="none" stroke="%s" stroke-width="3"/>
%s</svg>`

const crownSVG = `<path d="M30 60 L33 38 L42 50 L50 33 L58 50 L67 38 L70 60 Z" fill="#f4c430" stroke="#8a6d00" stroke-width="2"/>
`

type pieceStyle struct {
	fill, stroke, ring string
}

var pieceStyles = map[checkers.Team]pieceStyle{
	checkers.First:  {fill: "#f5f1e6", stroke: "#9c9282", ring: "#c9c0ad"},
	checkers.Second: {fill: "#c0392b", stroke: "#7b1f16", ring: "#e06a5c"},
}

type pieceKey struct {
	team checkers.Team
	rank checkers.Rank
	size int
}

var (
	pieceCache   = map[pieceKey]image.Image{}
	pieceCacheMu sync.RWMutex
)

func pieceSource(team checkers.Team, rank checkers.Rank) []byte {
	st := pieceStyles[team]
	crown := ""
	if rank == checkers.King {
		crown = crownSVG
	}
	return []byte(fmt.Sprintf(pieceSVG, st.fill, st.stroke, st.ring, crown))
}

// pieceImage rasterizes (and caches) the sprite for a team/rank at size px.
func pieceImage(team checkers.Team, rank checkers.Rank, size int) (image.Image, error) {
	key := pieceKey{team: team, rank: rank, size: size}

	pieceCacheMu.RLock()
	if img, ok := pieceCache[key]; ok {
		pieceCacheMu.RUnlock()
		return img, nil
	}
	pieceCacheMu.RUnlock()

	icon, err := oksvg.ReadIconStream(bytes.NewReader(pieceSource(team, rank)))
	if err != nil {
		return nil, fmt.Errorf("parse piece svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Transparent), image.Point{}, draw.Src)
	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	pieceCacheMu.Lock()
	pieceCache[key] = img
	pieceCacheMu.Unlock()
	return img, nil
}
