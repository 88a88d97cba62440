// Package terrain holds the per-vertex terrain data model and the geometry
// that maps it into world space: landblock/cell/vertex addressing, the cell
// split function, barycentric height lookup and landblock mesh building.
package terrain

// Flags marks which optional fields of an Entry are set. It is derived:
// setters and Unpack keep it in sync, callers never write it directly.
type Flags uint8

const (
	FlagHeight Flags = 1 << iota
	FlagType
	FlagScenery
	FlagRoad
)

// RoadMask covers the four adjacent edge segments a vertex can carry
// (one bit per cardinal neighbor). Road values outside the mask are
// truncated on write.
const RoadMask uint8 = 0x0F

// Entry is one vertex worth of terrain attributes. Every field is optional:
// an Entry inside a layer is a delta, and only its set fields override what
// lower layers define.
//
// Packed layout (32 bits):
//
//	bits  0-7   height (index into the region height table, not a world height)
//	bits  8-15  terrain type
//	bits 16-23  scenery selector
//	bits 24-27  road edge bitmask
//	bits 28-31  presence flags
type Entry struct {
	flags   Flags
	height  uint8
	terrain uint8
	scenery uint8
	road    uint8
}

// EntryFromHeight returns an entry with only the height index set.
func EntryFromHeight(height uint8) Entry {
	return Entry{flags: FlagHeight, height: height}
}

// EntryFromTexture returns an entry with terrain type and scenery set.
func EntryFromTexture(terrainType, scenery uint8) Entry {
	return Entry{flags: FlagType | FlagScenery, terrain: terrainType, scenery: scenery}
}

// EntryFromRoad returns an entry with only the road bitmask set.
func EntryFromRoad(road uint8) Entry {
	return Entry{flags: FlagRoad, road: road & RoadMask}
}

// Flags returns the derived presence bitfield.
func (e Entry) Flags() Flags {
	return e.flags
}

// IsEmpty reports whether no field is set.
func (e Entry) IsEmpty() bool {
	return e.flags == 0
}

// Height returns the height-table index and whether it is set.
func (e Entry) Height() (uint8, bool) {
	return e.height, e.flags&FlagHeight != 0
}

// Type returns the terrain/texture type and whether it is set.
func (e Entry) Type() (uint8, bool) {
	return e.terrain, e.flags&FlagType != 0
}

// Scenery returns the scenery-table selector and whether it is set.
func (e Entry) Scenery() (uint8, bool) {
	return e.scenery, e.flags&FlagScenery != 0
}

// Road returns the road edge bitmask and whether it is set.
func (e Entry) Road() (uint8, bool) {
	return e.road, e.flags&FlagRoad != 0
}

// SetHeight sets the height-table index.
func (e *Entry) SetHeight(v uint8) {
	e.height = v
	e.flags |= FlagHeight
}

// ClearHeight unsets the height-table index.
func (e *Entry) ClearHeight() {
	e.height = 0
	e.flags &^= FlagHeight
}

// SetType sets the terrain type.
func (e *Entry) SetType(v uint8) {
	e.terrain = v
	e.flags |= FlagType
}

// ClearType unsets the terrain type.
func (e *Entry) ClearType() {
	e.terrain = 0
	e.flags &^= FlagType
}

// SetScenery sets the scenery selector.
func (e *Entry) SetScenery(v uint8) {
	e.scenery = v
	e.flags |= FlagScenery
}

// ClearScenery unsets the scenery selector.
func (e *Entry) ClearScenery() {
	e.scenery = 0
	e.flags &^= FlagScenery
}

// SetRoad sets the road bitmask, truncated to RoadMask.
func (e *Entry) SetRoad(v uint8) {
	e.road = v & RoadMask
	e.flags |= FlagRoad
}

// ClearRoad unsets the road bitmask.
func (e *Entry) ClearRoad() {
	e.road = 0
	e.flags &^= FlagRoad
}

// Merge overlays other on top of e: every field set in other replaces the
// corresponding field of e, unset fields leave e untouched. This is the
// whole non-destructive layering story.
func (e Entry) Merge(other Entry) Entry {
	out := e
	if v, ok := other.Height(); ok {
		out.SetHeight(v)
	}
	if v, ok := other.Type(); ok {
		out.SetType(v)
	}
	if v, ok := other.Scenery(); ok {
		out.SetScenery(v)
	}
	if v, ok := other.Road(); ok {
		out.SetRoad(v)
	}
	return out
}

// Pack encodes the entry into a 32-bit word. UnpackEntry is its exact
// inverse, flags included.
func (e Entry) Pack() uint32 {
	return uint32(e.height) |
		uint32(e.terrain)<<8 |
		uint32(e.scenery)<<16 |
		uint32(e.road&RoadMask)<<24 |
		uint32(e.flags)<<28
}

// UnpackEntry decodes a word produced by Pack. Values of unset fields are
// normalized to zero so unpacked entries compare equal to their originals.
func UnpackEntry(w uint32) Entry {
	e := Entry{flags: Flags(w >> 28 & 0x0F)}
	if e.flags&FlagHeight != 0 {
		e.height = uint8(w)
	}
	if e.flags&FlagType != 0 {
		e.terrain = uint8(w >> 8)
	}
	if e.flags&FlagScenery != 0 {
		e.scenery = uint8(w >> 16)
	}
	if e.flags&FlagRoad != 0 {
		e.road = uint8(w>>24) & RoadMask
	}
	return e
}
