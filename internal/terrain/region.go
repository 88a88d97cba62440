package terrain

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Info is the read-only terrain-info contract the geometry model, document
// and raycaster consume. The editor's region/project model implements it;
// Region below is the standalone implementation used by tools and tests.
type Info interface {
	// Map dimensions in landblocks.
	WidthInLandblocks() int
	HeightInLandblocks() int

	// LandblockVerticeLength is the vertex stride of one landblock edge
	// (9 for the classic 8x8-cell landblock). The last row/column of
	// vertices is shared with the neighboring landblock.
	LandblockVerticeLength() int

	// Map dimensions in vertices: landblocks*(stride-1)+1.
	WidthInVertices() int
	HeightInVertices() int

	// CellSize and LandblockSize in world units (24 and 192 classically).
	CellSize() float64
	LandblockSize() float64

	// MapOffset is the world-space origin of vertex (0,0).
	MapOffset() (x, y float64)

	// VertexIndex and VertexCoordinates are mutual inverses over the
	// whole vertex grid.
	VertexIndex(x, y int) int
	VertexCoordinates(index int) (x, y int)

	// LandblockID packs landblock coordinates into the 16-bit id
	// (x<<8 | y). Only collision-free for maps up to 256x256 landblocks;
	// everything else in this package addresses landblocks by (x,y).
	LandblockID(x, y int) uint16

	// LandHeight resolves a height-table index to a world height.
	LandHeight(index uint8) float32

	// SceneryID looks up the scenery id for a terrain type and slot.
	SceneryID(terrainType uint8, slot int) (uint16, bool)
}

// Region is a concrete Info loaded from a YAML region file.
type Region struct {
	Name        string  `yaml:"name"`
	Landblocks  int     `yaml:"landblocks_wide"`
	LandblocksY int     `yaml:"landblocks_tall"`
	Stride      int     `yaml:"landblock_vertice_length"`
	Cell        float64 `yaml:"cell_size"`
	OffsetX     float64 `yaml:"offset_x"`
	OffsetY     float64 `yaml:"offset_y"`

	// HeightTable has exactly 256 entries. When the file omits it a
	// linear 2-units-per-step table is generated.
	HeightTable []float32 `yaml:"height_table"`

	// SceneryTypes maps a terrain type to its ordered scenery ids.
	SceneryTypes map[uint8][]uint16 `yaml:"scenery_types"`
}

// DefaultRegion returns a small region suitable for tools and tests:
// 16x16 landblocks, 9-vertex stride, 24-unit cells, linear height table.
func DefaultRegion() *Region {
	r := &Region{
		Name:        "default",
		Landblocks:  16,
		LandblocksY: 16,
		Stride:      9,
		Cell:        24.0,
	}
	r.fillDefaults()
	return r
}

// LoadRegion reads a region definition from a YAML file and validates it.
func LoadRegion(path string) (*Region, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading region file: %w", err)
	}
	r := &Region{}
	if err := yaml.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("parsing region file %s: %w", path, err)
	}
	r.fillDefaults()
	if err := r.validate(); err != nil {
		return nil, fmt.Errorf("region file %s: %w", path, err)
	}
	return r, nil
}

func (r *Region) fillDefaults() {
	if r.Landblocks == 0 {
		r.Landblocks = 16
	}
	if r.LandblocksY == 0 {
		r.LandblocksY = r.Landblocks
	}
	if r.Stride == 0 {
		r.Stride = 9
	}
	if r.Cell == 0 {
		r.Cell = 24.0
	}
	if len(r.HeightTable) == 0 {
		r.HeightTable = make([]float32, 256)
		for i := range r.HeightTable {
			r.HeightTable[i] = float32(i) * 2.0
		}
	}
}

func (r *Region) validate() error {
	if r.Landblocks < 1 || r.LandblocksY < 1 {
		return fmt.Errorf("invalid map size %dx%d landblocks", r.Landblocks, r.LandblocksY)
	}
	if r.Stride < 2 {
		return fmt.Errorf("invalid landblock vertice length %d", r.Stride)
	}
	if r.Cell <= 0 {
		return fmt.Errorf("invalid cell size %v", r.Cell)
	}
	if len(r.HeightTable) != 256 {
		return fmt.Errorf("height table has %d entries, want 256", len(r.HeightTable))
	}
	return nil
}

func (r *Region) WidthInLandblocks() int  { return r.Landblocks }
func (r *Region) HeightInLandblocks() int { return r.LandblocksY }

func (r *Region) LandblockVerticeLength() int { return r.Stride }

func (r *Region) WidthInVertices() int  { return r.Landblocks*(r.Stride-1) + 1 }
func (r *Region) HeightInVertices() int { return r.LandblocksY*(r.Stride-1) + 1 }

func (r *Region) CellSize() float64      { return r.Cell }
func (r *Region) LandblockSize() float64 { return r.Cell * float64(r.Stride-1) }

func (r *Region) MapOffset() (float64, float64) { return r.OffsetX, r.OffsetY }

// VertexIndex returns globalY*width + globalX. Coordinates are not bounds
// checked; callers probing past the map edge handle the range themselves.
func (r *Region) VertexIndex(x, y int) int {
	return y*r.WidthInVertices() + x
}

// VertexCoordinates is the inverse of VertexIndex.
func (r *Region) VertexCoordinates(index int) (int, int) {
	w := r.WidthInVertices()
	return index % w, index / w
}

func (r *Region) LandblockID(x, y int) uint16 {
	return uint16(x&0xFF)<<8 | uint16(y&0xFF)
}

func (r *Region) LandHeight(index uint8) float32 {
	return r.HeightTable[index]
}

func (r *Region) SceneryID(terrainType uint8, slot int) (uint16, bool) {
	ids, ok := r.SceneryTypes[terrainType]
	if !ok || slot < 0 || slot >= len(ids) {
		return 0, false
	}
	return ids[slot], true
}
