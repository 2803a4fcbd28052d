package flip

// Layout positions the children of a container. Layouts only write layout
// fields (X, Y, and optionally Width), never the visual transform, so they
// can run every frame underneath running animations.
type Layout interface {
	Arrange(children []*Node)
}

// ColumnLayout stacks children top to bottom.
type ColumnLayout struct {
	// Gap is the vertical space between consecutive children.
	Gap float64
	// Width, when positive, stretches every child to this width.
	Width float64
}

// Arrange implements Layout.
func (l ColumnLayout) Arrange(children []*Node) {
	y := 0.0
	for _, c := range children {
		if l.Width > 0 && c.Width != l.Width {
			c.SetSize(l.Width, c.Height)
		}
		if c.X != 0 || c.Y != y {
			c.SetPosition(0, y)
		}
		y += c.Height + l.Gap
	}
}

// GridLayout flows fixed-size cells left to right, wrapping after Columns.
type GridLayout struct {
	Columns    int
	CellWidth  float64
	CellHeight float64
	Gap        float64
}

// Arrange implements Layout.
func (l GridLayout) Arrange(children []*Node) {
	cols := l.Columns
	if cols < 1 {
		cols = 1
	}
	for i, c := range children {
		x := float64(i%cols) * (l.CellWidth + l.Gap)
		y := float64(i/cols) * (l.CellHeight + l.Gap)
		if c.Width != l.CellWidth || c.Height != l.CellHeight {
			c.SetSize(l.CellWidth, l.CellHeight)
		}
		if c.X != x || c.Y != y {
			c.SetPosition(x, y)
		}
	}
}
