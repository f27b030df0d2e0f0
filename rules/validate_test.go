package rules

import (
	"errors"
	"math/rand"
	"testing"
)

func squareLine() Board {
	b := Board{}
	for i, c := range Colors() {
		b[Pos{i, 0}] = Tile{Square, c}
	}
	return b
}

func TestValidatePlacement(t *testing.T) {
	tests := []struct {
		name   string
		board  Board
		placed []Pos
		tile   Tile
		pos    Pos
		want   error
	}{
		{
			name:  "first tile anywhere",
			board: Board{},
			tile:  Tile{Circle, Red},
			pos:   Pos{42, -7},
		},
		{
			name:  "shares shape",
			board: Board{{0, 0}: {Circle, Red}},
			tile:  Tile{Circle, Blue},
			pos:   Pos{1, 0},
		},
		{
			name:  "shares color",
			board: Board{{0, 0}: {Circle, Red}},
			tile:  Tile{Star, Red},
			pos:   Pos{0, 1},
		},
		{
			name:  "identical neighbor",
			board: Board{{0, 0}: {Circle, Red}},
			tile:  Tile{Circle, Red},
			pos:   Pos{1, 0},
			want:  ErrDuplicateTile,
		},
		{
			name:  "nothing shared",
			board: Board{{0, 0}: {Circle, Red}},
			tile:  Tile{Square, Blue},
			pos:   Pos{1, 0},
			want:  ErrAttributeMismatch,
		},
		{
			name:  "occupied",
			board: Board{{0, 0}: {Circle, Red}},
			tile:  Tile{Circle, Blue},
			pos:   Pos{0, 0},
			want:  ErrOccupied,
		},
		{
			name:  "not adjacent",
			board: Board{{0, 0}: {Circle, Red}},
			tile:  Tile{Circle, Blue},
			pos:   Pos{2, 0},
			want:  ErrNotAdjacent,
		},
		{
			name:  "diagonal is not adjacent",
			board: Board{{0, 0}: {Circle, Red}},
			tile:  Tile{Circle, Blue},
			pos:   Pos{1, 1},
			want:  ErrNotAdjacent,
		},
		{
			name:  "extends shape line",
			board: Board{{0, 0}: {Circle, Red}, {1, 0}: {Circle, Blue}},
			tile:  Tile{Circle, Green},
			pos:   Pos{-1, 0},
		},
		{
			name:  "wrong shape for shape line",
			board: Board{{0, 0}: {Circle, Red}, {1, 0}: {Circle, Blue}},
			tile:  Tile{Star, Green},
			pos:   Pos{2, 0},
			want:  ErrLineMismatch,
		},
		{
			name:  "repeated color in shape line",
			board: Board{{0, 0}: {Circle, Red}, {1, 0}: {Circle, Blue}},
			tile:  Tile{Circle, Red},
			pos:   Pos{2, 0},
			want:  ErrDuplicateTile,
		},
		{
			name:  "repeated shape in color line",
			board: Board{{0, 0}: {Circle, Red}, {0, 1}: {Star, Red}},
			tile:  Tile{Star, Red},
			pos:   Pos{0, 2},
			want:  ErrDuplicateTile,
		},
		{
			name:  "seventh tile at the end",
			board: squareLine(),
			tile:  Tile{Square, Red},
			pos:   Pos{6, 0},
			want:  ErrLineFull,
		},
		{
			name:  "seventh tile at the start",
			board: squareLine(),
			tile:  Tile{Square, Blue},
			pos:   Pos{-1, 0},
			want:  ErrLineFull,
		},
		{
			name:  "joins incompatible lines",
			board: Board{{0, 0}: {Circle, Red}, {2, 0}: {Square, Blue}},
			tile:  Tile{Circle, Blue},
			pos:   Pos{1, 0},
			want:  ErrLineMismatch,
		},
		{
			name: "joins compatible lines",
			board: Board{
				{0, 0}: {Circle, Red}, {1, 0}: {Circle, Orange},
				{3, 0}: {Circle, Green},
			},
			tile: Tile{Circle, Yellow},
			pos:  Pos{2, 0},
		},
		{
			name:  "crossing lines both checked",
			board: Board{{0, 0}: {Circle, Red}, {1, 1}: {Square, Blue}},
			tile:  Tile{Circle, Blue},
			pos:   Pos{1, 0},
		},
		{
			name:  "crossing line rejects",
			board: Board{{0, 0}: {Circle, Red}, {1, 1}: {Star, Green}},
			tile:  Tile{Circle, Blue},
			pos:   Pos{1, 0},
			want:  ErrAttributeMismatch,
		},
		{
			name:   "second tile in the same row",
			board:  Board{{0, 0}: {Circle, Red}, {1, 0}: {Circle, Blue}},
			placed: []Pos{{1, 0}},
			tile:   Tile{Circle, Green},
			pos:    Pos{2, 0},
		},
		{
			name:   "turn tiles leave the row",
			board:  Board{{0, 0}: {Circle, Red}, {1, 0}: {Circle, Blue}},
			placed: []Pos{{1, 0}},
			tile:   Tile{Square, Red},
			pos:    Pos{0, 1},
			want:   ErrNotInLine,
		},
		{
			name:   "turn tiles leave a gap",
			board:  Board{{0, 0}: {Circle, Red}, {1, 0}: {Circle, Blue}},
			placed: []Pos{{0, 0}},
			tile:   Tile{Circle, Green},
			pos:    Pos{2, 0},
			want:   ErrGap,
		},
		{
			name:  "unknown tile",
			board: Board{},
			tile:  Tile{"hexagon", Red},
			pos:   Pos{0, 0},
			want:  ErrUnknownTile,
		},
		{
			name:  "malformed board line",
			board: Board{{0, 0}: {Circle, Red}, {1, 0}: {Square, Blue}},
			tile:  Tile{Circle, Green},
			pos:   Pos{2, 0},
			want:  ErrMalformedLine,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePlacement(tt.board, tt.placed, tt.tile, tt.pos)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSingleNeighborSymmetry(t *testing.T) {
	for _, n := range Catalog() {
		for _, c := range Catalog() {
			b := Board{{0, 0}: n}
			err := ValidatePlacement(b, nil, c, Pos{1, 0})
			exactlyOne := (n.Shape == c.Shape) != (n.Color == c.Color)
			if exactlyOne != (err == nil) {
				t.Fatalf("%s next to %s: err = %v, exactly one shared = %v", c, n, err, exactlyOne)
			}
		}
	}
}

func TestMalformedLinesNeverForm(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	catalog := Catalog()

	for game := 0; game < 20; game++ {
		b := Board{}
		for attempt := 0; attempt < 2000; attempt++ {
			tile := catalog[rng.Intn(len(catalog))]
			pos := Pos{rng.Intn(13) - 6, rng.Intn(13) - 6}
			err := ValidatePlacement(b, nil, tile, pos)
			if errors.Is(err, ErrMalformedLine) {
				t.Fatalf("game %d: validator reported malformed line at %v", game, pos)
			}
			if err != nil {
				continue
			}
			b[pos] = tile

			for p := range b {
				for _, axis := range []Axis{Horizontal, Vertical} {
					if l := b.CollectLine(p, axis, true); !LineIsSound(l) {
						t.Fatalf("game %d: unsound line %v after placing %s at %v", game, l.Tiles, tile, pos)
					}
				}
			}
		}
	}
}

func TestIsViolation(t *testing.T) {
	if !IsViolation(ErrGap) || !IsViolation(ErrLineFull) {
		t.Fatal("rule errors not classified as violations")
	}
	if IsViolation(ErrMalformedLine) {
		t.Fatal("malformed line classified as a player violation")
	}
	if IsViolation(errors.New("db down")) {
		t.Fatal("arbitrary error classified as violation")
	}
}
