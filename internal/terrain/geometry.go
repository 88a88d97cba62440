package terrain

import (
	gomath "math"

	"github.com/Faultbox/terrascape/pkg/math"
	"github.com/Faultbox/terrascape/pkg/mathd"
)

// Split says which diagonal divides a cell into its two triangles.
type Split int

const (
	// SplitSWtoNE divides the cell into triangles (BL,BR,TL) and
	// (BR,TR,TL), the diagonal running between BR and TL.
	SplitSWtoNE Split = iota
	// SplitSEtoNW divides the cell into triangles (BL,BR,TR) and
	// (BL,TR,TL), the diagonal running between BL and TR.
	SplitSEtoNW
)

func (s Split) String() string {
	if s == SplitSEtoNW {
		return "SEtoNW"
	}
	return "SWtoNE"
}

// Fixed odd multipliers decorrelating adjacent cells. The exact values are
// a seed choice; what matters is that this function is the single source of
// truth for every consumer, so the renderer and the raycaster can never
// disagree on where a diagonal lies.
const (
	splitMulLandblockX = 0x0CCAC033
	splitMulCellX      = 0x421BE3BD
	splitMulLandblockY = 0x6C1AC587
	splitMulCellY      = 0x519B8F25

	splitNorm = 1.0 / (1 << 32)
)

// SplitDirection deterministically picks the diagonal for a cell from its
// landblock and cell coordinates. Pure: identical inputs always yield the
// identical split.
func SplitDirection(landblockX, cellX, landblockY, cellY int) Split {
	h := uint32(landblockX)*splitMulLandblockX +
		uint32(cellX)*splitMulCellX +
		uint32(landblockY)*splitMulLandblockY +
		uint32(cellY)*splitMulCellY
	if float64(h)*splitNorm >= 0.5 {
		return SplitSEtoNW
	}
	return SplitSWtoNE
}

// VertexHeight resolves the world height of a global vertex through the
// flattened cache and the region height table. Vertices outside the map,
// outside the cache, or without a height delta resolve to 0 so traversal
// can probe just past the map edge without failing.
func VertexHeight(info Info, cache []Entry, globalX, globalY int) float32 {
	if globalX < 0 || globalY < 0 || globalX >= info.WidthInVertices() || globalY >= info.HeightInVertices() {
		return 0
	}
	idx := info.VertexIndex(globalX, globalY)
	if idx < 0 || idx >= len(cache) {
		return 0
	}
	h, ok := cache[idx].Height()
	if !ok {
		return 0
	}
	return info.LandHeight(h)
}

// cellCornerHeights returns the four corner heights of a cell in the order
// BL, BR, TR, TL.
func cellCornerHeights(info Info, cache []Entry, landblockX, landblockY, cellX, cellY int) (bl, br, tr, tl float32) {
	stride := info.LandblockVerticeLength() - 1
	gx := landblockX*stride + cellX
	gy := landblockY*stride + cellY
	bl = VertexHeight(info, cache, gx, gy)
	br = VertexHeight(info, cache, gx+1, gy)
	tr = VertexHeight(info, cache, gx+1, gy+1)
	tl = VertexHeight(info, cache, gx, gy+1)
	return
}

// Height interpolates the terrain height at a position local to a
// landblock. The containing triangle is found via the shared split
// function; a point exactly on the diagonal belongs to the first triangle
// of the split.
func Height(info Info, cache []Entry, landblockX, landblockY int, localX, localY float64) float32 {
	cell := info.CellSize()
	cells := info.LandblockVerticeLength() - 1

	cellX := clampCell(int(localX/cell), cells)
	cellY := clampCell(int(localY/cell), cells)

	// Fractions within the cell in [0,1].
	fx := localX/cell - float64(cellX)
	fy := localY/cell - float64(cellY)

	bl, br, tr, tl := cellCornerHeights(info, cache, landblockX, landblockY, cellX, cellY)
	b64, r64, t64, l64 := float64(bl), float64(br), float64(tr), float64(tl)

	var h float64
	switch SplitDirection(landblockX, cellX, landblockY, cellY) {
	case SplitSWtoNE:
		if fx+fy <= 1 {
			// Triangle BL, BR, TL.
			h = b64 + (r64-b64)*fx + (l64-b64)*fy
		} else {
			// Triangle BR, TR, TL.
			h = (l64 - t64 + r64) + (t64-l64)*fx + (t64-r64)*fy
		}
	default: // SplitSEtoNW
		if fy <= fx {
			// Triangle BL, BR, TR.
			h = b64 + (r64-b64)*fx + (t64-r64)*fy
		} else {
			// Triangle BL, TR, TL.
			h = b64 + (t64-l64)*fx + (l64-b64)*fy
		}
	}
	return float32(h)
}

// Normal returns the unit plane normal of the triangle containing a
// position local to a landblock, oriented so Z is positive.
func Normal(info Info, cache []Entry, landblockX, landblockY int, localX, localY float64) math.Vec3 {
	cell := info.CellSize()
	cells := info.LandblockVerticeLength() - 1

	cellX := clampCell(int(localX/cell), cells)
	cellY := clampCell(int(localY/cell), cells)
	fx := localX/cell - float64(cellX)
	fy := localY/cell - float64(cellY)

	bl, br, tr, tl := cellCornerHeights(info, cache, landblockX, landblockY, cellX, cellY)
	c := float32(cell)
	corners := [4]math.Vec3{
		{X: 0, Y: 0, Z: bl},
		{X: c, Y: 0, Z: br},
		{X: c, Y: c, Z: tr},
		{X: 0, Y: c, Z: tl},
	}

	split := SplitDirection(landblockX, cellX, landblockY, cellY)
	t0, t1 := CellTriangles(split)
	tri := t0
	if (split == SplitSWtoNE && fx+fy > 1) || (split == SplitSEtoNW && fy > fx) {
		tri = t1
	}

	a, b, cc := corners[tri[0]], corners[tri[1]], corners[tri[2]]
	n := b.Sub(a).Cross(cc.Sub(a)).Normalize()
	if n.Z < 0 {
		n = n.Scale(-1)
	}
	return n
}

// CellTriangles returns the two triangles of a split as corner indices
// into the BL, BR, TR, TL order.
func CellTriangles(s Split) (first, second [3]int) {
	if s == SplitSWtoNE {
		return [3]int{0, 1, 3}, [3]int{1, 2, 3}
	}
	return [3]int{0, 1, 2}, [3]int{0, 2, 3}
}

// CellCorners builds the four world-space corner positions of a cell in
// the order BL, BR, TR, TL, in double precision for the raycaster.
func CellCorners(info Info, cache []Entry, landblockX, landblockY, cellX, cellY int) [4]mathd.Vec3 {
	offX, offY := info.MapOffset()
	cell := info.CellSize()
	baseX := offX + float64(landblockX)*info.LandblockSize() + float64(cellX)*cell
	baseY := offY + float64(landblockY)*info.LandblockSize() + float64(cellY)*cell

	bl, br, tr, tl := cellCornerHeights(info, cache, landblockX, landblockY, cellX, cellY)
	return [4]mathd.Vec3{
		{X: baseX, Y: baseY, Z: float64(bl)},
		{X: baseX + cell, Y: baseY, Z: float64(br)},
		{X: baseX + cell, Y: baseY + cell, Z: float64(tr)},
		{X: baseX, Y: baseY + cell, Z: float64(tl)},
	}
}

// RoundHalfAwayFromZero snaps a ratio to the nearest integer, halves away
// from zero. Vertex snapping must not use round-half-to-even: a click on a
// cell center would then snap to different vertices depending on parity.
func RoundHalfAwayFromZero(v float64) int {
	return int(gomath.Round(v))
}

func clampCell(c, cells int) int {
	if c < 0 {
		return 0
	}
	if c >= cells {
		return cells - 1
	}
	return c
}
