package rules

// Pos is a board coordinate. The board is unbounded in every direction.
type Pos struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Axis selects the direction a line runs in.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

func (a Axis) step() Pos {
	if a == Horizontal {
		return Pos{X: 1}
	}
	return Pos{Y: 1}
}

// Board maps occupied cells to their tiles.
type Board map[Pos]Tile

// CellAt returns the tile at p, if any.
func (b Board) CellAt(p Pos) (Tile, bool) {
	t, ok := b[p]
	return t, ok
}

// Line is a contiguous run of occupied cells along one axis, ordered from the
// lowest coordinate to the highest.
type Line struct {
	Axis  Axis
	Cells []Pos
	Tiles []Tile
}

// Len is the number of tiles in the line.
func (l Line) Len() int { return len(l.Tiles) }

// key identifies a line by its span so two placements touching the same run
// resolve to the same key.
func (l Line) key() lineKey {
	if len(l.Cells) == 0 {
		return lineKey{}
	}
	first, last := l.Cells[0], l.Cells[len(l.Cells)-1]
	return lineKey{axis: l.Axis, from: first, to: last}
}

type lineKey struct {
	axis     Axis
	from, to Pos
}

// CollectLine walks outward from p along axis while cells are occupied.
// With include set, p itself is part of the run (and must be occupied to
// contribute); without it the run is the union of both neighbor segments,
// which is what a candidate tile at p would join.
func (b Board) CollectLine(p Pos, axis Axis, include bool) Line {
	d := axis.step()
	line := Line{Axis: axis}

	var before []Pos
	for q := (Pos{p.X - d.X, p.Y - d.Y}); ; q = (Pos{q.X - d.X, q.Y - d.Y}) {
		if _, ok := b[q]; !ok {
			break
		}
		before = append(before, q)
	}
	for i := len(before) - 1; i >= 0; i-- {
		line.Cells = append(line.Cells, before[i])
	}
	if include {
		if _, ok := b[p]; ok {
			line.Cells = append(line.Cells, p)
		}
	}
	for q := (Pos{p.X + d.X, p.Y + d.Y}); ; q = (Pos{q.X + d.X, q.Y + d.Y}) {
		if _, ok := b[q]; !ok {
			break
		}
		line.Cells = append(line.Cells, q)
	}

	line.Tiles = make([]Tile, len(line.Cells))
	for i, c := range line.Cells {
		line.Tiles[i] = b[c]
	}
	return line
}

// segments splits the neighbor run around p (collected without p) into the
// part before p and the part after it.
func (b Board) segments(p Pos, axis Axis) (before, after []Tile) {
	d := axis.step()
	for q := (Pos{p.X - d.X, p.Y - d.Y}); ; q = (Pos{q.X - d.X, q.Y - d.Y}) {
		t, ok := b[q]
		if !ok {
			break
		}
		before = append(before, t)
	}
	for q := (Pos{p.X + d.X, p.Y + d.Y}); ; q = (Pos{q.X + d.X, q.Y + d.Y}) {
		t, ok := b[q]
		if !ok {
			break
		}
		after = append(after, t)
	}
	return before, after
}
