package terrain

import "testing"

func flatCache(r *Region, heightIndex uint8) []Entry {
	cache := make([]Entry, r.WidthInVertices()*r.HeightInVertices())
	for i := range cache {
		cache[i] = EntryFromHeight(heightIndex)
	}
	return cache
}

func TestBuildLandblockMeshFlat(t *testing.T) {
	r := DefaultRegion()
	r.HeightTable[10] = 50
	cache := flatCache(r, 10)

	mesh := BuildLandblockMesh(r, cache, 0, 0)

	// 8x8 cells, two triangles each, three vertices per triangle.
	if want := 8 * 8 * 2 * 3; len(mesh.Vertices) != want {
		t.Errorf("vertex count %d, want %d", len(mesh.Vertices), want)
	}
	if len(mesh.Indices) != len(mesh.Vertices) {
		t.Errorf("index count %d, want %d", len(mesh.Indices), len(mesh.Vertices))
	}

	for i, v := range mesh.Vertices {
		if v.Normal != [3]float32{0, 0, 1} {
			t.Fatalf("vertex %d normal %v, want (0,0,1)", i, v.Normal)
		}
		if v.Position[2] != 50 {
			t.Fatalf("vertex %d height %v, want 50", i, v.Position[2])
		}
	}

	if mesh.Bounds.Min.Z != 50 || mesh.Bounds.Max.Z != 50 {
		t.Errorf("bounds Z [%v,%v], want [50,50]", mesh.Bounds.Min.Z, mesh.Bounds.Max.Z)
	}
	if mesh.Bounds.Max.X-mesh.Bounds.Min.X != 192 {
		t.Errorf("bounds X extent %v, want 192", mesh.Bounds.Max.X-mesh.Bounds.Min.X)
	}

	// Untyped terrain batches into a single group covering everything.
	if len(mesh.Groups) != 1 {
		t.Fatalf("group count %d, want 1", len(mesh.Groups))
	}
	if mesh.Groups[0].IndexCount != int32(len(mesh.Indices)) {
		t.Errorf("group index count %d, want %d", mesh.Groups[0].IndexCount, len(mesh.Indices))
	}
}

func TestBuildLandblockMeshOrigin(t *testing.T) {
	r := DefaultRegion()
	r.OffsetX = 96000
	cache := flatCache(r, 0)

	mesh := BuildLandblockMesh(r, cache, 3, 0)
	if mesh.Origin.X != 96000+3*192 {
		t.Errorf("origin X %v, want %v", mesh.Origin.X, 96000+3*192)
	}
	// Positions are landblock-local; none should carry the big offset.
	for i, v := range mesh.Vertices {
		if v.Position[0] < 0 || v.Position[0] > 192 {
			t.Fatalf("vertex %d position X %v outside landblock-local range", i, v.Position[0])
		}
	}
}

func TestBuildLandblockMeshTextureGroups(t *testing.T) {
	r := DefaultRegion()
	cache := flatCache(r, 10)

	// Type 5 on one cell's BL vertex splits the batch.
	e := cache[r.VertexIndex(2, 2)]
	e.SetType(5)
	cache[r.VertexIndex(2, 2)] = e

	mesh := BuildLandblockMesh(r, cache, 0, 0)
	if len(mesh.Groups) != 2 {
		t.Fatalf("group count %d, want 2", len(mesh.Groups))
	}

	var total int32
	for _, g := range mesh.Groups {
		total += g.IndexCount
	}
	if total != int32(len(mesh.Indices)) {
		t.Errorf("group index counts sum to %d, want %d", total, len(mesh.Indices))
	}
}

func TestBuildLandblockMeshSharesSplitWithHeight(t *testing.T) {
	r, cache := barycentricFixture(t)

	mesh := BuildLandblockMesh(r, cache, 0, 0)

	// Every mesh triangle must lie on the surface Height reports,
	// otherwise rendering and picking disagree.
	for i := 0; i < len(mesh.Indices); i += 3 {
		for _, vi := range mesh.Indices[i : i+3] {
			v := mesh.Vertices[vi]
			h := Height(r, cache, 0, 0, float64(v.Position[0]), float64(v.Position[1]))
			if h != v.Position[2] {
				t.Fatalf("vertex at (%v,%v): mesh height %v, model height %v",
					v.Position[0], v.Position[1], v.Position[2], h)
			}
		}
	}
}
