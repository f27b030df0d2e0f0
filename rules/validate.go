package rules

import "sort"

type attribute int

const (
	byShape attribute = iota + 1
	byColor
)

// ValidatePlacement decides whether t may go to p. placed lists the cells the
// acting player already filled during the current step; they are expected to
// be on b already. No state is changed.
//
// Checks run in a fixed order: catalog, occupancy, adjacency, horizontal line,
// vertical line, duplicates across both lines, then turn geometry.
func ValidatePlacement(b Board, placed []Pos, t Tile, p Pos) error {
	if _, err := t.Code(); err != nil {
		return err
	}
	if _, ok := b[p]; ok {
		return ErrOccupied
	}

	h := b.CollectLine(p, Horizontal, false)
	v := b.CollectLine(p, Vertical, false)
	if len(b) > 0 && h.Len() == 0 && v.Len() == 0 {
		return ErrNotAdjacent
	}

	for _, axis := range []Axis{Horizontal, Vertical} {
		if err := checkLine(b, p, axis, t); err != nil {
			return err
		}
	}

	for _, l := range []Line{h, v} {
		for _, other := range l.Tiles {
			if other == t {
				return ErrDuplicateTile
			}
		}
	}

	return checkGeometry(placed, p)
}

// checkLine validates the run t would join along axis.
func checkLine(b Board, p Pos, axis Axis, t Tile) error {
	before, after := b.segments(p, axis)
	run := make([]Tile, 0, len(before)+len(after))
	run = append(run, before...)
	run = append(run, after...)

	switch len(run) {
	case 0:
		return nil
	case 1:
		n := run[0]
		sameShape, sameColor := n.Shape == t.Shape, n.Color == t.Color
		switch {
		case sameShape && sameColor:
			return ErrDuplicateTile
		case !sameShape && !sameColor:
			return ErrAttributeMismatch
		}
		return nil
	}

	for _, seg := range [][]Tile{before, after} {
		if len(seg) < 2 {
			continue
		}
		if _, err := classify(seg); err != nil {
			return ErrMalformedLine
		}
	}

	if len(run) >= MaxLine {
		return ErrLineFull
	}

	// Both segments are sound on their own; a failure here means t would join
	// two lines that do not belong together.
	attr, err := classify(run)
	if err != nil {
		return err
	}

	switch attr {
	case byShape:
		if t.Shape != run[0].Shape {
			return ErrLineMismatch
		}
		for _, o := range run {
			if o.Color == t.Color {
				return ErrDuplicateTile
			}
		}
	case byColor:
		if t.Color != run[0].Color {
			return ErrLineMismatch
		}
		for _, o := range run {
			if o.Shape == t.Shape {
				return ErrDuplicateTile
			}
		}
	}
	return nil
}

// classify returns the attribute a run of two or more tiles holds fixed. The
// other attribute must take distinct values.
func classify(run []Tile) (attribute, error) {
	sameShape, sameColor := true, true
	for _, o := range run[1:] {
		if o.Shape != run[0].Shape {
			sameShape = false
		}
		if o.Color != run[0].Color {
			sameColor = false
		}
	}

	var attr attribute
	switch {
	case sameShape && sameColor:
		return 0, ErrDuplicateTile
	case sameShape:
		attr = byShape
	case sameColor:
		attr = byColor
	default:
		return 0, ErrLineMismatch
	}

	seen := make(map[Tile]bool, len(run))
	for _, o := range run {
		if seen[o] {
			return 0, ErrDuplicateTile
		}
		seen[o] = true
	}
	return attr, nil
}

// checkGeometry enforces that every cell used this step, p included, shares a
// row or a column and forms an unbroken run along it.
func checkGeometry(placed []Pos, p Pos) error {
	if len(placed) == 0 {
		return nil
	}
	all := append(append(make([]Pos, 0, len(placed)+1), placed...), p)

	sameRow, sameCol := true, true
	for _, q := range all[1:] {
		if q.Y != all[0].Y {
			sameRow = false
		}
		if q.X != all[0].X {
			sameCol = false
		}
	}

	coords := make([]int, 0, len(all))
	switch {
	case sameRow:
		for _, q := range all {
			coords = append(coords, q.X)
		}
	case sameCol:
		for _, q := range all {
			coords = append(coords, q.Y)
		}
	default:
		return ErrNotInLine
	}

	sort.Ints(coords)
	for i := 1; i < len(coords); i++ {
		if coords[i] != coords[i-1]+1 {
			return ErrGap
		}
	}
	return nil
}

// LineIsSound reports whether a line of two or more tiles has a common
// attribute and no repeated tile. Shorter lines are always sound.
func LineIsSound(l Line) bool {
	if l.Len() < 2 {
		return true
	}
	_, err := classify(l.Tiles)
	return err == nil && l.Len() <= MaxLine
}
