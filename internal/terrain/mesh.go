package terrain

import (
	"github.com/Faultbox/terrascape/pkg/math"
)

// Vertex is a terrain mesh vertex ready for GPU upload.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// TextureGroup groups triangles by terrain type for batched rendering.
type TextureGroup struct {
	TerrainType uint8
	StartIndex  int32
	IndexCount  int32
}

// Mesh holds one landblock worth of mesh data. Positions are relative to
// Origin so the buffers stay float32-accurate at large world coordinates;
// the renderer applies the origin as a model translation.
type Mesh struct {
	Origin   math.Vec3
	Vertices []Vertex
	Indices  []uint32
	Groups   []TextureGroup
	Bounds   Bounds
}

// Bounds is the axis-aligned bounding box of a mesh, in world space.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// BuildLandblockMesh creates the render mesh for one landblock from the
// flattened cache. Triangulation goes through SplitDirection, the same
// function the raycaster uses, so the rendered surface and the picked
// surface are the same surface.
func BuildLandblockMesh(info Info, cache []Entry, landblockX, landblockY int) *Mesh {
	offX, offY := info.MapOffset()
	lbSize := info.LandblockSize()
	cell := float32(info.CellSize())
	cells := info.LandblockVerticeLength() - 1

	origin := math.Vec3{
		X: float32(offX + float64(landblockX)*lbSize),
		Y: float32(offY + float64(landblockY)*lbSize),
	}

	var vertices []Vertex
	typeIndices := make(map[uint8][]uint32)

	bounds := Bounds{
		Min: math.Vec3{X: 1e10, Y: 1e10, Z: 1e10},
		Max: math.Vec3{X: -1e10, Y: -1e10, Z: -1e10},
	}

	for cy := 0; cy < cells; cy++ {
		for cx := 0; cx < cells; cx++ {
			bl, br, tr, tl := cellCornerHeights(info, cache, landblockX, landblockY, cx, cy)

			baseX := float32(cx) * cell
			baseY := float32(cy) * cell
			corners := [4]math.Vec3{
				{X: baseX, Y: baseY, Z: bl},
				{X: baseX + cell, Y: baseY, Z: br},
				{X: baseX + cell, Y: baseY + cell, Z: tr},
				{X: baseX, Y: baseY + cell, Z: tl},
			}
			uvs := [4][2]float32{
				{0, 0}, {1, 0}, {1, 1}, {0, 1},
			}

			for _, c := range corners {
				w := c.Add(origin)
				bounds.Min = bounds.Min.Min(w)
				bounds.Max = bounds.Max.Max(w)
			}

			// Texture batch keyed by the cell's BL vertex type.
			terrainType := uint8(0)
			gx := landblockX*cells + cx
			gy := landblockY*cells + cy
			if idx := info.VertexIndex(gx, gy); idx >= 0 && idx < len(cache) {
				if t, ok := cache[idx].Type(); ok {
					terrainType = t
				}
			}

			t0, t1 := CellTriangles(SplitDirection(landblockX, cx, landblockY, cy))
			for _, tri := range [2][3]int{t0, t1} {
				a := corners[tri[0]]
				b := corners[tri[1]]
				c := corners[tri[2]]
				n := b.Sub(a).Cross(c.Sub(a)).Normalize()
				if n.Z < 0 {
					n = n.Scale(-1)
				}

				base := uint32(len(vertices))
				for _, ci := range tri {
					p := corners[ci]
					vertices = append(vertices, Vertex{
						Position: [3]float32{p.X, p.Y, p.Z},
						Normal:   [3]float32{n.X, n.Y, n.Z},
						TexCoord: uvs[ci],
					})
				}
				typeIndices[terrainType] = append(typeIndices[terrainType], base, base+1, base+2)
			}
		}
	}

	// Flatten per-type index lists into one buffer with group ranges.
	mesh := &Mesh{Origin: origin, Vertices: vertices, Bounds: bounds}
	for t := 0; t < 256; t++ {
		idxs, ok := typeIndices[uint8(t)]
		if !ok {
			continue
		}
		mesh.Groups = append(mesh.Groups, TextureGroup{
			TerrainType: uint8(t),
			StartIndex:  int32(len(mesh.Indices)),
			IndexCount:  int32(len(idxs)),
		})
		mesh.Indices = append(mesh.Indices, idxs...)
	}
	return mesh
}
