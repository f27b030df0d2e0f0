package rules

import (
	"math/rand"
	"testing"
)

func TestScorePlacement(t *testing.T) {
	tests := []struct {
		name  string
		board Board
		pos   Pos
		want  Score
	}{
		{
			name:  "lone first tile",
			board: Board{{0, 0}: {Circle, Red}},
			pos:   Pos{0, 0},
			want:  Score{},
		},
		{
			name:  "pair",
			board: Board{{0, 0}: {Circle, Red}, {1, 0}: {Circle, Blue}},
			pos:   Pos{1, 0},
			want:  Score{Points: 2},
		},
		{
			name: "both lines",
			board: Board{
				{0, 0}: {Circle, Red}, {1, 0}: {Circle, Blue},
				{1, 1}: {Square, Blue}, {1, 2}: {Star, Blue},
			},
			pos:  Pos{1, 0},
			want: Score{Points: 2 + 3},
		},
		{
			name:  "full set",
			board: squareLine(),
			pos:   Pos{5, 0},
			want:  Score{Points: 12, Qwirkles: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScorePlacement(tt.board, tt.pos); got != tt.want {
				t.Fatalf("score = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestScoreStepDedupesSharedLines(t *testing.T) {
	b := Board{
		{0, 0}: {Circle, Red},
		{1, 0}: {Circle, Blue},
		{2, 0}: {Circle, Green},
	}
	// (1,0) and (2,0) placed this turn share the row; it counts once.
	got := ScoreStep(b, []Pos{{1, 0}, {2, 0}})
	if got != (Score{Points: 3}) {
		t.Fatalf("score = %+v, want 3 points", got)
	}
}

func TestScoreStepFullSetBonus(t *testing.T) {
	b := squareLine()
	got := ScoreStep(b, []Pos{{3, 0}, {4, 0}, {5, 0}})
	if got != (Score{Points: 12, Qwirkles: 1}) {
		t.Fatalf("score = %+v, want 12 points and one full set", got)
	}
}

func TestScoreStepCrossLines(t *testing.T) {
	b := Board{
		{0, 0}: {Circle, Red},
		{0, 1}: {Circle, Blue},
		{1, 1}: {Square, Blue},
		{1, 0}: {Square, Red},
	}
	// Placed (1,0) and (1,1) this turn: column x=1 (2), row y=0 (2), row y=1 (2).
	got := ScoreStep(b, []Pos{{1, 0}, {1, 1}})
	if got.Points != 6 {
		t.Fatalf("points = %d, want 6", got.Points)
	}
}

func TestScoreStepOrderIndependent(t *testing.T) {
	b := squareLine()
	b[Pos{2, 1}] = Tile{Circle, Yellow}
	b[Pos{2, 2}] = Tile{Star, Yellow}
	placed := []Pos{{0, 0}, {1, 0}, {2, 0}, {3, 0}}

	want := ScoreStep(b, placed)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		shuffled := append([]Pos(nil), placed...)
		rng.Shuffle(len(shuffled), func(a, c int) { shuffled[a], shuffled[c] = shuffled[c], shuffled[a] })
		if got := ScoreStep(b, shuffled); got != want {
			t.Fatalf("order %v scored %+v, want %+v", shuffled, got, want)
		}
	}
}

func TestScoreStepEmpty(t *testing.T) {
	if got := ScoreStep(Board{}, nil); got != (Score{}) {
		t.Fatalf("empty step scored %+v", got)
	}
}
