package geom

import "strings"

// Edges is a bit mask of box edges, with the same values as wlr_edges
type Edges uint32

const (
	EdgeNone   Edges = 0
	EdgeTop    Edges = 1
	EdgeBottom Edges = 2
	EdgeLeft   Edges = 4
	EdgeRight  Edges = 8
)

// Vertical returns the single active edge on the y axis. A mask naming both
// top and bottom is treated as naming neither.
func (e Edges) Vertical() Edges {
	switch e & (EdgeTop | EdgeBottom) {
	case EdgeTop:
		return EdgeTop
	case EdgeBottom:
		return EdgeBottom
	default:
		return EdgeNone
	}
}

// Horizontal is the x axis counterpart of Vertical
func (e Edges) Horizontal() Edges {
	switch e & (EdgeLeft | EdgeRight) {
	case EdgeLeft:
		return EdgeLeft
	case EdgeRight:
		return EdgeRight
	default:
		return EdgeNone
	}
}

func (e Edges) String() string {
	if e&(EdgeTop|EdgeBottom|EdgeLeft|EdgeRight) == 0 {
		return "none"
	}
	var parts []string
	for _, edge := range []struct {
		bit  Edges
		name string
	}{{EdgeTop, "top"}, {EdgeBottom, "bottom"}, {EdgeLeft, "left"}, {EdgeRight, "right"}} {
		if e&edge.bit != 0 {
			parts = append(parts, edge.name)
		}
	}
	return strings.Join(parts, "|")
}
