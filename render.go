package flip

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// color32 is a compact RGBA color using float32, for render commands only.
type color32 struct {
	R, G, B, A float32
}

// RenderCommand is a single draw instruction emitted during scene traversal.
type RenderCommand struct {
	Transform [6]float32
	Color     color32
	// Width and Height size solid fills, which draw WhitePixel stretched over
	// the layout box. Zero for custom images, which draw at natural size.
	Width, Height float32

	image     *ebiten.Image
	node      *Node
	treeOrder int
}

// affine32 converts a [6]float64 affine matrix to [6]float32.
func affine32(m [6]float64) [6]float32 {
	return [6]float32{float32(m[0]), float32(m[1]), float32(m[2]), float32(m[3]), float32(m[4]), float32(m[5])}
}

// traverse walks the node tree depth-first, updating transforms and emitting
// render commands for visible nodes with something to draw.
func (s *Scene) traverse(n *Node, parentTransform [6]float64, parentAlpha float64, parentRecomputed bool, treeOrder *int) {
	if !n.Visible {
		return
	}

	recompute := n.transformDirty || parentRecomputed
	if recompute {
		local := computeLocalTransform(n)
		n.worldTransform = multiplyAffine(parentTransform, local)
		n.worldAlpha = parentAlpha * n.Alpha
		n.transformDirty = false
	}

	if cmd, ok := nodeCommand(n); ok && s.onScreen(&cmd) {
		*treeOrder++
		cmd.treeOrder = *treeOrder
		s.commands = append(s.commands, cmd)
	}

	for _, child := range n.children {
		s.traverse(child, n.worldTransform, n.worldAlpha, recompute, treeOrder)
	}
}

// nodeCommand builds the draw command for n. Containers, empty boxes and
// fully transparent nodes emit nothing.
func nodeCommand(n *Node) (RenderCommand, bool) {
	a := n.Color.A * n.worldAlpha
	if a <= 0 {
		return RenderCommand{}, false
	}
	cmd := RenderCommand{
		Transform: affine32(n.worldTransform),
		Color:     color32{float32(n.Color.R), float32(n.Color.G), float32(n.Color.B), float32(a)},
		node:      n,
	}
	if n.customImage != nil {
		cmd.image = n.customImage
		return cmd, true
	}
	if n.Width <= 0 || n.Height <= 0 {
		return RenderCommand{}, false
	}
	cmd.image = WhitePixel
	cmd.Width, cmd.Height = float32(n.Width), float32(n.Height)
	return cmd, true
}

// onScreen reports whether the command's world bounds overlap the screen.
// Everything is drawn until the scene learns its size.
func (s *Scene) onScreen(cmd *RenderCommand) bool {
	if s.width <= 0 || s.height <= 0 {
		return true
	}
	w, h := float64(cmd.Width), float64(cmd.Height)
	if w == 0 || h == 0 {
		b := cmd.image.Bounds()
		w, h = float64(b.Dx()), float64(b.Dy())
	}
	screen := Rect{Width: float64(s.width), Height: float64(s.height)}
	return worldBounds(cmd.node, w, h).Intersects(screen)
}

// worldBounds returns the axis-aligned world box of n's local (0, 0, w, h)
// area, using the transform from the current traversal.
func worldBounds(n *Node, w, h float64) Rect {
	minX, minY := n.LocalToWorld(0, 0)
	maxX, maxY := minX, minY
	for _, p := range [3][2]float64{{w, 0}, {0, h}, {w, h}} {
		x, y := n.LocalToWorld(p[0], p[1])
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	return Rect{Left: minX, Top: minY, Width: maxX - minX, Height: maxY - minY}
}

// commandGeoM builds the GeoM for a command: the fill stretch (if any)
// followed by the node's world transform.
func commandGeoM(cmd *RenderCommand) ebiten.GeoM {
	var m ebiten.GeoM
	if cmd.Width > 0 && cmd.Height > 0 {
		m.Scale(float64(cmd.Width), float64(cmd.Height))
	}
	var world ebiten.GeoM
	t := cmd.Transform
	world.SetElement(0, 0, float64(t[0]))
	world.SetElement(1, 0, float64(t[1]))
	world.SetElement(0, 1, float64(t[2]))
	world.SetElement(1, 1, float64(t[3]))
	world.SetElement(0, 2, float64(t[4]))
	world.SetElement(1, 2, float64(t[5]))
	m.Concat(world)
	return m
}

// submit draws every command in tree order.
func (s *Scene) submit(target *ebiten.Image) {
	var op ebiten.DrawImageOptions
	for i := range s.commands {
		cmd := &s.commands[i]
		op.GeoM.Reset()
		op.GeoM.Concat(commandGeoM(cmd))
		op.ColorScale.Reset()
		a := cmd.Color.A
		op.ColorScale.Scale(cmd.Color.R*a, cmd.Color.G*a, cmd.Color.B*a, a)
		target.DrawImage(cmd.image, &op)
	}
}
