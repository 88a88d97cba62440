package document

import (
	"sort"

	"github.com/Faultbox/terrascape/internal/terrain"
)

// RecalculateCache rebuilds the whole flattened cache from scratch:
// every vertex is reset, then all visible layers merge in bottom-to-top.
func (d *Document) RecalculateCache() {
	d.mu.Lock()
	for i := range d.cache {
		d.cache[i] = terrain.Entry{}
	}
	for _, l := range d.flattenOrderLocked() {
		for idx, e := range l.deltas {
			d.cache[idx] = d.cache[idx].Merge(e)
		}
	}
	coords := d.allLandblocksLocked()
	d.mu.Unlock()

	d.notify(coords)
}

// RecalculateLandblocks rebuilds the cache only for the given landblocks.
// The result is identical to what a full rebuild would produce for those
// landblocks: their vertices (shared edges included) are reset and every
// visible layer re-merged over them.
func (d *Document) RecalculateLandblocks(coords []LandblockCoord) {
	d.mu.Lock()
	d.recalculateLandblocksLocked(coords)
	d.mu.Unlock()

	d.notify(coords)
}

func (d *Document) recalculateLandblocksLocked(coords []LandblockCoord) {
	if len(coords) == 0 {
		return
	}

	touched := make(map[int]struct{})
	for _, c := range coords {
		d.landblockVertexIndices(c, touched)
	}

	for idx := range touched {
		d.cache[idx] = terrain.Entry{}
	}
	for _, l := range d.flattenOrderLocked() {
		for idx, e := range l.deltas {
			if _, ok := touched[idx]; ok {
				d.cache[idx] = d.cache[idx].Merge(e)
			}
		}
	}
}

// landblockVertexIndices adds the global indices of every vertex of one
// landblock (its shared edge rows/columns included) to the set.
func (d *Document) landblockVertexIndices(c LandblockCoord, into map[int]struct{}) {
	stride := d.info.LandblockVerticeLength() - 1
	if c.X < 0 || c.Y < 0 || c.X >= d.info.WidthInLandblocks() || c.Y >= d.info.HeightInLandblocks() {
		return
	}
	for ly := 0; ly <= stride; ly++ {
		gy := c.Y*stride + ly
		for lx := 0; lx <= stride; lx++ {
			gx := c.X*stride + lx
			into[d.info.VertexIndex(gx, gy)] = struct{}{}
		}
	}
}

// flattenOrderLocked returns the visible layers in merge order: the base
// layer first, then document order (depth-first tree traversal).
func (d *Document) flattenOrderLocked() []*Layer {
	layers := collectLayers(d.root, true)
	for i, l := range layers {
		if l.isBase && i != 0 {
			copy(layers[1:i+1], layers[:i])
			layers[0] = l
			break
		}
	}
	return layers
}

// AffectedLandblocks returns every landblock whose cache a change to the
// given vertices invalidates. A vertex strictly inside a landblock affects
// one; a vertex on a shared edge affects two; a shared corner affects
// four. Landblocks outside the map are dropped.
func (d *Document) AffectedLandblocks(vertexIndices []int) []LandblockCoord {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.affectedLandblocksLocked(vertexIndices)
}

// AffectedLandblocksForLayer returns the landblocks the given layer's
// deltas contribute to.
func (d *Document) AffectedLandblocksForLayer(layerID string) ([]LandblockCoord, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	l, ok := d.byID[layerID].(*Layer)
	if !ok {
		return nil, ErrLayerNotFound
	}
	indices := make([]int, 0, len(l.deltas))
	for idx := range l.deltas {
		indices = append(indices, idx)
	}
	return d.affectedLandblocksLocked(indices), nil
}

func (d *Document) affectedLandblocksLocked(vertexIndices []int) []LandblockCoord {
	stride := d.info.LandblockVerticeLength() - 1
	seen := make(map[LandblockCoord]struct{})

	for _, idx := range vertexIndices {
		if idx < 0 || idx >= len(d.cache) {
			continue
		}
		gx, gy := d.info.VertexCoordinates(idx)

		xs := landblockAxisCoords(gx, stride, d.info.WidthInLandblocks())
		ys := landblockAxisCoords(gy, stride, d.info.HeightInLandblocks())
		for _, x := range xs {
			for _, y := range ys {
				seen[LandblockCoord{X: x, Y: y}] = struct{}{}
			}
		}
	}

	coords := make([]LandblockCoord, 0, len(seen))
	for c := range seen {
		coords = append(coords, c)
	}
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Y != coords[j].Y {
			return coords[i].Y < coords[j].Y
		}
		return coords[i].X < coords[j].X
	})
	return coords
}

// landblockAxisCoords returns the landblock coordinates along one axis
// that share the vertex at global coordinate g. A vertex with local
// coordinate 0 sits on the boundary and belongs to the previous landblock
// too; coordinates past the map edge are dropped.
func landblockAxisCoords(g, stride, mapLandblocks int) []int {
	lb := g / stride
	local := g % stride

	var out []int
	if lb < mapLandblocks {
		out = append(out, lb)
	}
	if local == 0 && lb > 0 {
		out = append(out, lb-1)
	}
	return out
}

func (d *Document) allLandblocksLocked() []LandblockCoord {
	w := d.info.WidthInLandblocks()
	h := d.info.HeightInLandblocks()
	coords := make([]LandblockCoord, 0, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			coords = append(coords, LandblockCoord{X: x, Y: y})
		}
	}
	return coords
}
