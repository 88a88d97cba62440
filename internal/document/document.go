package document

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/terrascape/internal/terrain"
)

// Validation failures callers branch on. These are expected, recoverable
// conditions, never panics.
var (
	ErrGroupNotFound    = errors.New("group not found")
	ErrLayerNotFound    = errors.New("layer not found")
	ErrBaseLayerExists  = errors.New("base layer already exists, only one allowed")
	ErrDuplicateID      = errors.New("duplicate layer or group id")
	ErrVertexOutOfRange = errors.New("vertex index out of range")
)

// LandblockCoord addresses one landblock by grid coordinates.
type LandblockCoord struct {
	X, Y int
}

// ChangedFunc receives the landblocks whose flattened cache was rebuilt.
// It is called synchronously on the mutating goroutine, after the document
// lock is released; deferring to another goroutine is the caller's call.
type ChangedFunc func(coords []LandblockCoord)

// Document is a layered terrain document. Mutations serialize behind an
// internal lock; cache reads take the read side, so a reader sees either
// the fully-old or fully-new cache for a landblock, never a torn one.
type Document struct {
	mu sync.RWMutex

	info terrain.Info
	root *Group
	byID map[string]Item

	version uint64
	cache   []terrain.Entry

	onChanged []ChangedFunc
	log       *zap.Logger
}

// New creates an empty document over a region, with a base layer named
// "Base" in the root group and an all-unset flattened cache. A nil logger
// is replaced with a no-op.
func New(info terrain.Info, log *zap.Logger) *Document {
	if log == nil {
		log = zap.NewNop()
	}
	d := &Document{
		info: info,
		root: &Group{id: uuid.NewString(), name: "root", visible: true},
		byID: make(map[string]Item),
		log:  log,
	}
	d.byID[d.root.ID()] = d.root
	d.cache = make([]terrain.Entry, info.WidthInVertices()*info.HeightInVertices())

	base := &Layer{
		id:      uuid.NewString(),
		name:    "Base",
		visible: true,
		isBase:  true,
		deltas:  make(map[int]terrain.Entry),
	}
	d.root.children = append(d.root.children, base)
	d.byID[base.id] = base
	return d
}

// Info returns the terrain-info provider the document was built over.
func (d *Document) Info() terrain.Info { return d.info }

// Version returns the monotonically increasing mutation counter, used for
// optimistic concurrency and persistence staleness checks.
func (d *Document) Version() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.version
}

// OnLandblocksChanged registers a change-notification callback.
func (d *Document) OnLandblocksChanged(fn ChangedFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onChanged = append(d.onChanged, fn)
}

// Root returns the root group.
func (d *Document) Root() *Group { return d.root }

// BaseLayer returns the document's base layer, or nil if it was removed.
func (d *Document) BaseLayer() *Layer {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.baseLayerLocked()
}

func (d *Document) baseLayerLocked() *Layer {
	for _, item := range d.byID {
		if l, ok := item.(*Layer); ok && l.isBase {
			return l
		}
	}
	return nil
}

// FindParentGroup resolves a slash-separated group path ("" or "/" is the
// root). Returns ErrGroupNotFound when any path segment is missing.
func (d *Document) FindParentGroup(path string) (*Group, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.findGroupLocked(path)
}

func (d *Document) findGroupLocked(path string) (*Group, error) {
	g := d.root
	path = strings.Trim(path, "/")
	if path == "" {
		return g, nil
	}
segments:
	for _, seg := range strings.Split(path, "/") {
		for _, child := range g.children {
			if sub, ok := child.(*Group); ok && sub.name == seg {
				g = sub
				continue segments
			}
		}
		return nil, ErrGroupNotFound
	}
	return g, nil
}

// FindItem looks up a layer or group by id anywhere in the tree.
func (d *Document) FindItem(id string) (Item, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	item, ok := d.byID[id]
	return item, ok
}

// AddLayer appends a layer to the group at groupPath. An empty id gets a
// generated one. Fails with ErrBaseLayerExists when isBase is requested
// and a base layer is already present.
func (d *Document) AddLayer(groupPath, name string, isBase bool, id string) (*Layer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if id == "" {
		id = uuid.NewString()
	}
	if _, exists := d.byID[id]; exists {
		return nil, ErrDuplicateID
	}
	if isBase && d.baseLayerLocked() != nil {
		return nil, ErrBaseLayerExists
	}
	g, err := d.findGroupLocked(groupPath)
	if err != nil {
		return nil, err
	}

	l := &Layer{
		id:      id,
		name:    name,
		visible: true,
		isBase:  isBase,
		deltas:  make(map[int]terrain.Entry),
	}
	g.children = append(g.children, l)
	d.byID[id] = l
	d.version++

	d.log.Debug("layer added",
		zap.String("id", id),
		zap.String("name", name),
		zap.Bool("base", isBase),
		zap.Uint64("version", d.version))
	return l, nil
}

// AddGroup appends a sub-group to the group at groupPath.
func (d *Document) AddGroup(groupPath, name string, id string) (*Group, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if id == "" {
		id = uuid.NewString()
	}
	if _, exists := d.byID[id]; exists {
		return nil, ErrDuplicateID
	}
	parent, err := d.findGroupLocked(groupPath)
	if err != nil {
		return nil, err
	}

	g := &Group{id: id, name: name, visible: true}
	parent.children = append(parent.children, g)
	d.byID[id] = g
	d.version++
	return g, nil
}

// RemoveLayer removes the layer with the given id from the group at
// groupPath and rebuilds the cache for the landblocks it touched.
func (d *Document) RemoveLayer(groupPath, id string) error {
	d.mu.Lock()

	g, err := d.findGroupLocked(groupPath)
	if err != nil {
		d.mu.Unlock()
		return err
	}
	item, ok := d.byID[id]
	if !ok {
		d.mu.Unlock()
		return ErrLayerNotFound
	}
	l, ok := item.(*Layer)
	if !ok {
		d.mu.Unlock()
		return ErrLayerNotFound
	}
	if g.removeChild(id) == nil {
		d.mu.Unlock()
		return ErrLayerNotFound
	}
	delete(d.byID, id)
	d.version++

	indices := make([]int, 0, len(l.deltas))
	for idx := range l.deltas {
		indices = append(indices, idx)
	}
	coords := d.affectedLandblocksLocked(indices)
	d.recalculateLandblocksLocked(coords)

	d.log.Debug("layer removed",
		zap.String("id", id),
		zap.Int("deltas", len(indices)),
		zap.Uint64("version", d.version))
	d.mu.Unlock()

	d.notify(coords)
	return nil
}

// SetVisible toggles visibility of a layer or group and rebuilds the cache
// for everything it contributes to.
func (d *Document) SetVisible(id string, visible bool) error {
	d.mu.Lock()

	item, ok := d.byID[id]
	if !ok {
		d.mu.Unlock()
		return ErrLayerNotFound
	}

	var indices []int
	switch n := item.(type) {
	case *Layer:
		if n.visible == visible {
			d.mu.Unlock()
			return nil
		}
		n.visible = visible
		for idx := range n.deltas {
			indices = append(indices, idx)
		}
	case *Group:
		if n.visible == visible {
			d.mu.Unlock()
			return nil
		}
		n.visible = visible
		for _, l := range collectLayers(n, false) {
			for idx := range l.deltas {
				indices = append(indices, idx)
			}
		}
	}
	d.version++

	coords := d.affectedLandblocksLocked(indices)
	d.recalculateLandblocksLocked(coords)
	d.mu.Unlock()

	d.notify(coords)
	return nil
}

// SetVertex writes (or, with a nil entry, removes) the delta for one vertex
// in one layer, then rebuilds the cache for every landblock sharing that
// vertex.
func (d *Document) SetVertex(layerID string, globalIndex int, e *terrain.Entry) error {
	d.mu.Lock()

	l, ok := d.byID[layerID].(*Layer)
	if !ok {
		d.mu.Unlock()
		return ErrLayerNotFound
	}
	if globalIndex < 0 || globalIndex >= len(d.cache) {
		d.mu.Unlock()
		return ErrVertexOutOfRange
	}

	if e == nil {
		delete(l.deltas, globalIndex)
	} else {
		l.deltas[globalIndex] = *e
	}
	d.version++

	coords := d.affectedLandblocksLocked([]int{globalIndex})
	d.recalculateLandblocksLocked(coords)
	d.mu.Unlock()

	d.notify(coords)
	return nil
}

// Vertex reads the delta for one vertex in one layer. ok is false when the
// layer does not exist or holds no delta for that vertex.
func (d *Document) Vertex(layerID string, globalIndex int) (terrain.Entry, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	l, lok := d.byID[layerID].(*Layer)
	if !lok {
		return terrain.Entry{}, false
	}
	e, ok := l.deltas[globalIndex]
	return e, ok
}

// CachedEntry reads the flattened cache for one vertex.
func (d *Document) CachedEntry(globalIndex int) terrain.Entry {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if globalIndex < 0 || globalIndex >= len(d.cache) {
		return terrain.Entry{}
	}
	return d.cache[globalIndex]
}

// CacheSnapshot copies the flattened cache for use by concurrent readers
// (raycasting, mesh building) that must not observe later edits mid-call.
func (d *Document) CacheSnapshot() []terrain.Entry {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]terrain.Entry, len(d.cache))
	copy(out, d.cache)
	return out
}

func (d *Document) notify(coords []LandblockCoord) {
	if len(coords) == 0 {
		return
	}
	d.mu.RLock()
	fns := make([]ChangedFunc, len(d.onChanged))
	copy(fns, d.onChanged)
	d.mu.RUnlock()
	for _, fn := range fns {
		fn(coords)
	}
}

// collectLayers returns the layers under g in document order (depth-first,
// children in list order). With visibleOnly set, invisible layers and the
// contents of invisible groups are skipped.
func collectLayers(g *Group, visibleOnly bool) []*Layer {
	var out []*Layer
	for _, child := range g.children {
		switch n := child.(type) {
		case *Layer:
			if visibleOnly && !n.visible {
				continue
			}
			out = append(out, n)
		case *Group:
			if visibleOnly && !n.visible {
				continue
			}
			out = append(out, collectLayers(n, visibleOnly)...)
		}
	}
	return out
}
