// Package rules holds the storage-free game rules: the tile catalog, the board
// line resolver, placement validation and scoring.
package rules

import "fmt"

// Shape is one of the six tile shapes.
type Shape string

// Color is one of the six tile colors.
type Color string

const (
	Circle  Shape = "circle"
	Square  Shape = "square"
	Star    Shape = "star"
	Diamond Shape = "diamond"
	Cross   Shape = "x"
	Plus    Shape = "plus"
)

const (
	Red    Color = "red"
	Orange Color = "orange"
	Yellow Color = "yellow"
	Green  Color = "green"
	Purple Color = "purple"
	Blue   Color = "blue"
)

const (
	// RackSize is the number of tiles a rack is topped up to.
	RackSize = 6
	// MaxLine is the longest legal line; reaching it earns the full-set bonus.
	MaxLine = 6
	// FullSetBonus is added once per line of length MaxLine.
	FullSetBonus = 6
	// EndGameBonus goes to the player whose turn empties every rack with an empty pool.
	EndGameBonus = 6
	// CopiesPerPair is how many tile instances exist for each shape/color pair.
	CopiesPerPair = 3
	// MaxCatchUpSteps bounds how many timed-out turns one request may skip.
	MaxCatchUpSteps = 100
)

var shapes = []Shape{Circle, Square, Star, Diamond, Cross, Plus}

var colors = []Color{Red, Orange, Yellow, Green, Purple, Blue}

// Shapes returns the ordered shape list.
func Shapes() []Shape { return append([]Shape(nil), shapes...) }

// Colors returns the ordered color list.
func Colors() []Color { return append([]Color(nil), colors...) }

// Tile is a shape/color pair. Two tile instances with the same pair are
// interchangeable for every rule.
type Tile struct {
	Shape Shape `json:"shape"`
	Color Color `json:"color"`
}

func (t Tile) String() string { return fmt.Sprintf("%s %s", t.Color, t.Shape) }

// Code returns the catalog identifier of the pair: shapeIndex*10 + colorIndex.
func (t Tile) Code() (int, error) {
	si, ci := indexOf(shapes, t.Shape), indexOf(colors, t.Color)
	if si < 0 || ci < 0 {
		return 0, fmt.Errorf("%w: %s", ErrUnknownTile, t)
	}
	return si*10 + ci, nil
}

// Decode resolves a catalog identifier to its shape/color pair.
func Decode(code int) (Tile, error) {
	si, ci := code/10, code%10
	if code < 0 || si >= len(shapes) || ci >= len(colors) {
		return Tile{}, fmt.Errorf("%w: code %d", ErrUnknownTile, code)
	}
	return Tile{Shape: shapes[si], Color: colors[ci]}, nil
}

// Catalog returns every pair in code order.
func Catalog() []Tile {
	out := make([]Tile, 0, len(shapes)*len(colors))
	for _, s := range shapes {
		for _, c := range colors {
			out = append(out, Tile{Shape: s, Color: c})
		}
	}
	return out
}

func indexOf[T comparable](list []T, v T) int {
	for i, x := range list {
		if x == v {
			return i
		}
	}
	return -1
}
