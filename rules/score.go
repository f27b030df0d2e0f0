package rules

// Score is the outcome of scoring one placement or one whole step.
type Score struct {
	Points   int `json:"points"`
	Qwirkles int `json:"qwirkles"`
}

func (s Score) add(o Score) Score {
	return Score{Points: s.Points + o.Points, Qwirkles: s.Qwirkles + o.Qwirkles}
}

// ScoreLine scores a single line: its length when longer than one tile, plus
// the full-set bonus at MaxLine.
func ScoreLine(l Line) Score {
	n := l.Len()
	if n <= 1 {
		return Score{}
	}
	if n == MaxLine {
		return Score{Points: n + FullSetBonus, Qwirkles: 1}
	}
	return Score{Points: n}
}

// ScorePlacement scores the tile already placed at p through both of its lines.
func ScorePlacement(b Board, p Pos) Score {
	return ScoreLine(b.CollectLine(p, Horizontal, true)).
		add(ScoreLine(b.CollectLine(p, Vertical, true)))
}

// ScoreStep scores every distinct line touched by the cells placed during one
// step. A line shared by several placements counts once, so the result does
// not depend on the order the tiles went down.
func ScoreStep(b Board, placed []Pos) Score {
	seen := make(map[lineKey]bool)
	var total Score
	for _, p := range placed {
		for _, axis := range []Axis{Horizontal, Vertical} {
			l := b.CollectLine(p, axis, true)
			if l.Len() <= 1 {
				continue
			}
			k := l.key()
			if seen[k] {
				continue
			}
			seen[k] = true
			total = total.add(ScoreLine(l))
		}
	}
	return total
}
