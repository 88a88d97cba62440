// Package document implements the layered terrain document: a tree of named
// layers and groups holding sparse per-vertex edits, flattened into a dense
// per-vertex cache that rendering and raycasting consume.
package document

import (
	"github.com/Faultbox/terrascape/internal/terrain"
)

// Item is a node of the layer tree: either a *Layer or a *Group.
// Traversal code switches on the concrete type.
type Item interface {
	ID() string
	Name() string
	Visible() bool

	item() // closed set
}

// Layer owns a sparse mapping from global vertex index to entry deltas.
// It never stores a full grid; an absent vertex means "whatever the layers
// below define".
type Layer struct {
	id      string
	name    string
	visible bool
	isBase  bool

	deltas map[int]terrain.Entry
}

func (l *Layer) ID() string    { return l.id }
func (l *Layer) Name() string  { return l.name }
func (l *Layer) Visible() bool { return l.visible }

// IsBase reports whether this is the document's base layer.
func (l *Layer) IsBase() bool { return l.isBase }

// DeltaCount returns the number of vertices this layer overrides.
func (l *Layer) DeltaCount() int { return len(l.deltas) }

func (l *Layer) item() {}

// Group owns an ordered list of children. Order is significant: later
// children override earlier ones when flattening, exactly like image
// editor layers stacked bottom-to-top.
type Group struct {
	id      string
	name    string
	visible bool

	children []Item
}

func (g *Group) ID() string    { return g.id }
func (g *Group) Name() string  { return g.name }
func (g *Group) Visible() bool { return g.visible }

// Children returns the ordered child list. The slice is owned by the
// document; callers must not mutate it.
func (g *Group) Children() []Item { return g.children }

func (g *Group) item() {}

func (g *Group) removeChild(id string) Item {
	for i, c := range g.children {
		if c.ID() == id {
			g.children = append(g.children[:i], g.children[i+1:]...)
			return c
		}
	}
	return nil
}
