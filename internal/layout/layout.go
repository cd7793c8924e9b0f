package layout

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Interface texture coordinates, before scaling.
const (
	SlotSize  = 16
	SlotPitch = 18
	Columns   = 9
)

// Grid maps screen positions to container cells. Cell positions are kept in
// unscaled interface coordinates and the whole interface is drawn at Origin
// with Scale.
type Grid struct {
	Origin mgl32.Vec2
	Scale  float32
	Size   mgl32.Vec2 // unscaled interface size

	cells map[int]mgl32.Vec2
	order []int
}

func NewGrid(size mgl32.Vec2, scale float32) *Grid {
	if scale <= 0 {
		scale = 1
	}
	return &Grid{Size: size, Scale: scale, cells: make(map[int]mgl32.Vec2)}
}

// Center places the interface in the middle of a screen.
func (g *Grid) Center(screen mgl32.Vec2) {
	g.Origin = screen.Sub(g.Size.Mul(g.Scale)).Mul(0.5)
}

// Place puts cell at the unscaled position at.
func (g *Grid) Place(cell int, at mgl32.Vec2) {
	if _, ok := g.cells[cell]; !ok {
		g.order = append(g.order, cell)
	}
	g.cells[cell] = at
}

// PlaceRow puts count consecutive cells starting at firstCell next to each
// other, starting at at.
func (g *Grid) PlaceRow(firstCell, count int, at mgl32.Vec2) {
	for i := 0; i < count; i++ {
		g.Place(firstCell+i, at.Add(mgl32.Vec2{float32(i * SlotPitch), 0}))
	}
}

// PlaceRows lays out rows of Columns cells each.
func (g *Grid) PlaceRows(firstCell, rows int, at mgl32.Vec2) {
	for r := 0; r < rows; r++ {
		g.PlaceRow(firstCell+r*Columns, Columns, at.Add(mgl32.Vec2{0, float32(r * SlotPitch)}))
	}
}

// SlotOrigin returns the top-left screen position of cell.
func (g *Grid) SlotOrigin(cell int) (mgl32.Vec2, bool) {
	at, ok := g.cells[cell]
	if !ok {
		return mgl32.Vec2{}, false
	}
	return g.Origin.Add(at.Mul(g.Scale)), true
}

// SlotAt returns the cell under the screen position p, or -1.
func (g *Grid) SlotAt(p mgl32.Vec2) int {
	size := SlotSize * g.Scale
	for _, cell := range g.order {
		o, _ := g.SlotOrigin(cell)
		if p.X() >= o.X() && p.X() < o.X()+size && p.Y() >= o.Y() && p.Y() < o.Y()+size {
			return cell
		}
	}
	return -1
}

// Cells returns the number of placed cells.
func (g *Grid) Cells() int { return len(g.order) }

// ChestGrid lays out a chest with rows of nine slots on top of a player
// inventory: chest cells first, then the 27 main slots, then the hotbar.
func ChestGrid(rows int, scale float32) *Grid {
	chestH := rows * SlotPitch
	g := NewGrid(mgl32.Vec2{176, float32(114 + chestH)}, scale)
	g.PlaceRows(0, rows, mgl32.Vec2{8, 18})

	playerY := float32(chestH + 32)
	g.PlaceRows(rows*Columns, 3, mgl32.Vec2{8, playerY})
	g.PlaceRow(rows*Columns+27, Columns, mgl32.Vec2{8, playerY + 58})
	return g
}
