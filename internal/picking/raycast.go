package picking

import (
	gomath "math"
	"sort"

	"github.com/Faultbox/terrascape/internal/terrain"
	"github.com/Faultbox/terrascape/pkg/mathd"
)

// Defaults bounding the landblock traversal. The step budget is generous;
// a ray crossing the whole of a 2048-landblock map diagonally stays well
// under it.
const (
	defaultMaxDistance = 200000.0
	defaultMaxSteps    = 8192

	// verticalBound pads landblock boxes above and below any realistic
	// terrain height so the AABB prune never rejects a real surface.
	verticalBound = 65536.0
)

// Camera supplies the matrices the raycaster unprojects through.
type Camera interface {
	ViewMatrix() mathd.Mat4
	ProjectionMatrix(aspect float64) mathd.Mat4
	Position() mathd.Vec3
}

// Result describes the closest terrain intersection of one ray. A miss is
// the zero value: a ray that leaves the map without touching a cell is a
// routine outcome, not an error.
type Result struct {
	Hit         bool
	HitPosition mathd.Vec3
	Distance    float64

	LandblockX  int
	LandblockY  int
	LandblockID uint16

	// CellX/CellY and VertexX/VertexY derive from the hit offset inside
	// the landblock, snapped with round-half-away-from-zero semantics.
	CellX   int
	CellY   int
	VertexX int
	VertexY int

	// NearestVertice is the global index of the snapped vertex.
	NearestVertice int
}

// Raycaster casts rays against a terrain-info provider plus a flattened
// cache snapshot. It is a pure reader: safe for concurrent use as long as
// the snapshot is not mutated mid-call.
type Raycaster struct {
	Info  terrain.Info
	Cache []terrain.Entry

	// MaxDistance and MaxSteps bound the landblock walk; zero values
	// select the defaults.
	MaxDistance float64
	MaxSteps    int
}

// CastScreen unprojects a pixel through the given view and projection
// matrices and casts the resulting ray.
func (rc *Raycaster) CastScreen(pixelX, pixelY, viewportW, viewportH float64, view, proj mathd.Mat4) Result {
	ray, ok := ScreenRay(pixelX, pixelY, viewportW, viewportH, view, proj)
	if !ok {
		return Result{}
	}
	return rc.Cast(ray)
}

// CastPixel is CastScreen with the matrices pulled from a camera.
func (rc *Raycaster) CastPixel(pixelX, pixelY, viewportW, viewportH float64, cam Camera) Result {
	return rc.CastScreen(pixelX, pixelY, viewportW, viewportH,
		cam.ViewMatrix(), cam.ProjectionMatrix(viewportW/viewportH))
}

// Cast walks landblocks along the ray with a 2D DDA and returns the
// closest triangle hit. Traversal stops once no remaining landblock could
// beat the best hit, the distance budget runs out, or the step budget is
// exhausted.
func (rc *Raycaster) Cast(ray Ray) Result {
	info := rc.Info
	offX, offY := info.MapOffset()
	lbSize := info.LandblockSize()

	maxDist := rc.MaxDistance
	if maxDist <= 0 {
		maxDist = defaultMaxDistance
	}
	maxSteps := rc.MaxSteps
	if maxSteps <= 0 {
		maxSteps = defaultMaxSteps
	}

	x := int(gomath.Floor((ray.Origin.X - offX) / lbSize))
	y := int(gomath.Floor((ray.Origin.Y - offY) / lbSize))

	stepX, tMaxX, tDeltaX := ddaAxis(ray.Origin.X-offX, ray.Direction.X, x, lbSize)
	stepY, tMaxY, tDeltaY := ddaAxis(ray.Origin.Y-offY, ray.Direction.Y, y, lbSize)

	best := Result{}
	bestT := gomath.Inf(1)
	traveled := 0.0

	for i := 0; i < maxSteps; i++ {
		if traveled > maxDist {
			break
		}
		// Entry distance only grows; once it passes the best hit no
		// remaining landblock can win.
		if best.Hit && traveled > bestT {
			break
		}

		rc.testLandblock(ray, x, y, &best, &bestT)

		if stepX == 0 && stepY == 0 {
			// Vertical ray: one column is the whole walk.
			break
		}
		if tMaxX < tMaxY {
			x += stepX
			traveled = tMaxX
			tMaxX += tDeltaX
		} else {
			y += stepY
			traveled = tMaxY
			tMaxY += tDeltaY
		}
	}
	return best
}

// ddaAxis initializes one axis of the Amanatides-Woo grid walk.
func ddaAxis(origin, dir float64, cell int, cellSize float64) (step int, tMax, tDelta float64) {
	switch {
	case dir > 0:
		return 1, (float64(cell+1)*cellSize - origin) / dir, cellSize / dir
	case dir < 0:
		return -1, (float64(cell)*cellSize - origin) / dir, -cellSize / dir
	default:
		return 0, gomath.Inf(1), gomath.Inf(1)
	}
}

func (rc *Raycaster) testLandblock(ray Ray, lbX, lbY int, best *Result, bestT *float64) {
	info := rc.Info
	if lbX < 0 || lbY < 0 || lbX >= info.WidthInLandblocks() || lbY >= info.HeightInLandblocks() {
		return
	}

	offX, offY := info.MapOffset()
	lbSize := info.LandblockSize()
	originX := offX + float64(lbX)*lbSize
	originY := offY + float64(lbY)*lbSize

	enter, hit := ray.IntersectAABB(
		mathd.Vec3{X: originX, Y: originY, Z: -verticalBound},
		mathd.Vec3{X: originX + lbSize, Y: originY + lbSize, Z: verticalBound},
	)
	if !hit || enter > *bestT {
		return
	}

	// Visit cells nearest the ray origin's horizontal projection first.
	// Purely a heuristic: the closest-hit selection below is what keeps
	// the result correct regardless of visit order.
	cells := info.LandblockVerticeLength() - 1
	cell := info.CellSize()
	type cellDist struct {
		cx, cy int
		d2     float64
	}
	order := make([]cellDist, 0, cells*cells)
	for cy := 0; cy < cells; cy++ {
		for cx := 0; cx < cells; cx++ {
			centerX := originX + (float64(cx)+0.5)*cell
			centerY := originY + (float64(cy)+0.5)*cell
			dx := centerX - ray.Origin.X
			dy := centerY - ray.Origin.Y
			order = append(order, cellDist{cx: cx, cy: cy, d2: dx*dx + dy*dy})
		}
	}
	sort.Slice(order, func(i, j int) bool { return order[i].d2 < order[j].d2 })

	for _, cd := range order {
		corners := terrain.CellCorners(info, rc.Cache, lbX, lbY, cd.cx, cd.cy)

		boxMin := corners[0]
		boxMax := corners[0]
		for _, c := range corners[1:] {
			boxMin.X = gomath.Min(boxMin.X, c.X)
			boxMin.Y = gomath.Min(boxMin.Y, c.Y)
			boxMin.Z = gomath.Min(boxMin.Z, c.Z)
			boxMax.X = gomath.Max(boxMax.X, c.X)
			boxMax.Y = gomath.Max(boxMax.Y, c.Y)
			boxMax.Z = gomath.Max(boxMax.Z, c.Z)
		}
		if enter, ok := ray.IntersectAABB(boxMin, boxMax); !ok || enter > *bestT {
			continue
		}

		t0, t1 := terrain.CellTriangles(terrain.SplitDirection(lbX, cd.cx, lbY, cd.cy))
		for _, tri := range [2][3]int{t0, t1} {
			t, ok := ray.IntersectTriangle(corners[tri[0]], corners[tri[1]], corners[tri[2]])
			if !ok || t >= *bestT {
				continue
			}
			*bestT = t
			*best = rc.deriveResult(ray, t, lbX, lbY)
		}
	}
}

// deriveResult fills in the addressing fields for a confirmed hit: cell
// and nearest-vertex coordinates snap the landblock-local offset to the
// vertex grid with round-half-away-from-zero semantics.
func (rc *Raycaster) deriveResult(ray Ray, t float64, lbX, lbY int) Result {
	info := rc.Info
	offX, offY := info.MapOffset()
	lbSize := info.LandblockSize()
	cell := info.CellSize()
	stride := info.LandblockVerticeLength() - 1

	pos := ray.At(t)
	localX := pos.X - (offX + float64(lbX)*lbSize)
	localY := pos.Y - (offY + float64(lbY)*lbSize)

	cellX := terrain.RoundHalfAwayFromZero(localX / cell)
	cellY := terrain.RoundHalfAwayFromZero(localY / cell)

	vx := lbX*stride + cellX
	vy := lbY*stride + cellY

	return Result{
		Hit:            true,
		HitPosition:    pos,
		Distance:       t,
		LandblockX:     lbX,
		LandblockY:     lbY,
		LandblockID:    info.LandblockID(lbX, lbY),
		CellX:          cellX,
		CellY:          cellY,
		VertexX:        vx,
		VertexY:        vy,
		NearestVertice: info.VertexIndex(vx, vy),
	}
}
