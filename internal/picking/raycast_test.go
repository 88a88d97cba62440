package picking

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/terrascape/internal/terrain"
	"github.com/Faultbox/terrascape/pkg/mathd"
)

func flatSetup(heightIndex uint8, height float32) (*terrain.Region, []terrain.Entry) {
	r := terrain.DefaultRegion()
	r.HeightTable[heightIndex] = height
	cache := make([]terrain.Entry, r.WidthInVertices()*r.HeightInVertices())
	for i := range cache {
		cache[i] = terrain.EntryFromHeight(heightIndex)
	}
	return r, cache
}

func TestCastFlatTerrain(t *testing.T) {
	r, cache := flatSetup(10, 50)
	rc := &Raycaster{Info: r, Cache: cache}

	res := rc.Cast(Ray{
		Origin:    mathd.Vec3{X: 12, Y: 12, Z: 100},
		Direction: mathd.Vec3{Z: -1},
	})

	if !res.Hit {
		t.Fatal("vertical ray over flat terrain missed")
	}
	if gomath.Abs(res.HitPosition.Z-50) > 1e-9 {
		t.Errorf("hit Z %v, want 50", res.HitPosition.Z)
	}
	if gomath.Abs(res.Distance-50) > 1e-9 {
		t.Errorf("distance %v, want 50", res.Distance)
	}
	if res.LandblockX != 0 || res.LandblockY != 0 {
		t.Errorf("landblock (%d,%d), want (0,0)", res.LandblockX, res.LandblockY)
	}
	if res.LandblockID != r.LandblockID(0, 0) {
		t.Errorf("landblock id %#x, want %#x", res.LandblockID, r.LandblockID(0, 0))
	}
	// Local offset 12 is half a cell: rounds away from zero, up to 1.
	if res.CellX != 1 || res.CellY != 1 {
		t.Errorf("cell (%d,%d), want (1,1)", res.CellX, res.CellY)
	}
	if res.VertexX != 1 || res.VertexY != 1 {
		t.Errorf("vertex (%d,%d), want (1,1)", res.VertexX, res.VertexY)
	}
	if res.NearestVertice != r.VertexIndex(1, 1) {
		t.Errorf("nearest vertice %d, want %d", res.NearestVertice, r.VertexIndex(1, 1))
	}
}

func TestCastScreenFlatTerrain(t *testing.T) {
	r, cache := flatSetup(10, 50)
	rc := &Raycaster{Info: r, Cache: cache}

	view := mathd.LookAt(
		mathd.Vec3{X: 12, Y: 12, Z: 100},
		mathd.Vec3{X: 12, Y: 12, Z: 0},
		mathd.Vec3{Y: 1},
	)
	proj := mathd.Perspective(gomath.Pi/4, 800.0/600.0, 1, 1000)

	res := rc.CastScreen(400, 300, 800, 600, view, proj)
	if !res.Hit {
		t.Fatal("center-pixel cast over flat terrain missed")
	}
	if res.HitPosition.Z < 49 || res.HitPosition.Z > 51 {
		t.Errorf("hit Z %v, want ~50", res.HitPosition.Z)
	}
	if gomath.Abs(res.HitPosition.X-12) > 1e-3 || gomath.Abs(res.HitPosition.Y-12) > 1e-3 {
		t.Errorf("hit at (%v,%v), want (12,12)", res.HitPosition.X, res.HitPosition.Y)
	}
	if res.LandblockX != 0 || res.LandblockY != 0 {
		t.Errorf("landblock (%d,%d), want (0,0)", res.LandblockX, res.LandblockY)
	}
}

func TestCastMatchesHeightModel(t *testing.T) {
	r := terrain.DefaultRegion()
	r.HeightTable[1] = 10
	r.HeightTable[2] = 20
	r.HeightTable[3] = 30
	r.HeightTable[4] = 15

	cache := make([]terrain.Entry, r.WidthInVertices()*r.HeightInVertices())
	cache[r.VertexIndex(0, 0)] = terrain.EntryFromHeight(1)
	cache[r.VertexIndex(1, 0)] = terrain.EntryFromHeight(2)
	cache[r.VertexIndex(1, 1)] = terrain.EntryFromHeight(3)
	cache[r.VertexIndex(0, 1)] = terrain.EntryFromHeight(4)

	rc := &Raycaster{Info: r, Cache: cache}

	for _, p := range [][2]float64{{6, 6}, {18, 18}, {3, 20}, {12, 11.5}} {
		res := rc.Cast(Ray{
			Origin:    mathd.Vec3{X: p[0], Y: p[1], Z: 1000},
			Direction: mathd.Vec3{Z: -1},
		})
		if !res.Hit {
			t.Fatalf("vertical ray at %v missed", p)
		}
		want := float64(terrain.Height(r, cache, 0, 0, p[0], p[1]))
		if gomath.Abs(res.HitPosition.Z-want) > 1e-4 {
			t.Errorf("hit Z at %v = %v, want %v from the height model", p, res.HitPosition.Z, want)
		}
	}
}

func TestCastAngledRayCrossesLandblocks(t *testing.T) {
	r, cache := flatSetup(10, 0)
	rc := &Raycaster{Info: r, Cache: cache}

	// From high above the first landblock, slanting far east: the DDA has
	// to walk several landblocks before the ray gets down to the surface.
	res := rc.Cast(Ray{
		Origin:    mathd.Vec3{X: 0, Y: 12, Z: 400},
		Direction: mathd.Vec3{X: 2, Z: -1}.Normalize(),
	})
	if !res.Hit {
		t.Fatal("angled ray missed flat terrain")
	}
	if gomath.Abs(res.HitPosition.X-800) > 1e-6 {
		t.Errorf("hit X %v, want 800", res.HitPosition.X)
	}
	if res.LandblockX != 4 {
		t.Errorf("landblock X %d, want 4", res.LandblockX)
	}
}

func TestCastLargeCoordinates(t *testing.T) {
	r := &terrain.Region{
		Name:        "wide",
		Landblocks:  1024,
		LandblocksY: 1024,
		Stride:      9,
		Cell:        24.0,
		HeightTable: make([]float32, 256),
	}

	// No cache at all: every vertex reads as height zero, which keeps a
	// 1024x1024-landblock map testable without gigabytes of entries.
	rc := &Raycaster{Info: r, Cache: nil}

	view := mathd.LookAt(
		mathd.Vec3{X: 192100, Y: 192100, Z: 500},
		mathd.Vec3{X: 192100, Y: 192100, Z: 0},
		mathd.Vec3{Y: 1},
	)
	proj := mathd.Perspective(gomath.Pi/4, 800.0/600.0, 1, 1000)

	res := rc.CastScreen(400, 300, 800, 600, view, proj)
	if !res.Hit {
		t.Fatal("cast at large coordinates missed")
	}
	if res.LandblockX != 1000 || res.LandblockY != 1000 {
		t.Errorf("landblock (%d,%d), want (1000,1000)", res.LandblockX, res.LandblockY)
	}
	// Local offset 100 over 24-unit cells rounds to cell 4.
	if res.CellX != 4 || res.CellY != 4 {
		t.Errorf("cell (%d,%d), want (4,4)", res.CellX, res.CellY)
	}
	if res.VertexX != 8004 || res.VertexY != 8004 {
		t.Errorf("vertex (%d,%d), want (8004,8004)", res.VertexX, res.VertexY)
	}
	// The snapped vertex must land on the 24-unit grid, exactly. This is
	// the float64 guarantee: at ~192k units a float32 pipeline is off by
	// whole vertices.
	if float64(res.VertexX)*r.CellSize() != 192096 {
		t.Errorf("vertex world X %v, want 192096", float64(res.VertexX)*r.CellSize())
	}
	if res.NearestVertice != r.VertexIndex(8004, 8004) {
		t.Errorf("nearest vertice %d, want %d", res.NearestVertice, r.VertexIndex(8004, 8004))
	}
}

func TestCastMisses(t *testing.T) {
	r, cache := flatSetup(10, 50)
	rc := &Raycaster{Info: r, Cache: cache}

	// Upward ray above the terrain.
	res := rc.Cast(Ray{Origin: mathd.Vec3{X: 12, Y: 12, Z: 100}, Direction: mathd.Vec3{Z: 1}})
	if res.Hit {
		t.Error("upward ray should miss")
	}
	if res != (Result{}) {
		t.Errorf("miss should be the zero result, got %+v", res)
	}

	// Ray pointing away from the map.
	res = rc.Cast(Ray{Origin: mathd.Vec3{X: -500, Y: -500, Z: 100}, Direction: mathd.Vec3{X: -1}})
	if res.Hit {
		t.Error("ray leaving the map should miss")
	}
}

type stubCamera struct {
	eye, target mathd.Vec3
}

func (c stubCamera) ViewMatrix() mathd.Mat4 {
	return mathd.LookAt(c.eye, c.target, mathd.Vec3{Z: 1})
}
func (c stubCamera) ProjectionMatrix(aspect float64) mathd.Mat4 {
	return mathd.Perspective(gomath.Pi/4, aspect, 1, 10000)
}
func (c stubCamera) Position() mathd.Vec3 { return c.eye }

func TestCastPixel(t *testing.T) {
	r, cache := flatSetup(10, 50)
	rc := &Raycaster{Info: r, Cache: cache}

	cam := stubCamera{
		eye:    mathd.Vec3{X: 100, Y: -200, Z: 300},
		target: mathd.Vec3{X: 100, Y: 100, Z: 0},
	}
	res := rc.CastPixel(400, 300, 800, 600, cam)
	if !res.Hit {
		t.Fatal("camera cast missed flat terrain")
	}
	if res.HitPosition.Z < 49 || res.HitPosition.Z > 51 {
		t.Errorf("hit Z %v, want ~50", res.HitPosition.Z)
	}
	if gomath.Abs(res.HitPosition.X-100) > 1e-3 {
		t.Errorf("hit X %v, want 100", res.HitPosition.X)
	}
}
