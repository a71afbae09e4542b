/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package quiz

// Tile is a rendered board cell. It carries the value only, never the
// question text.
type Tile struct {
	Coord Coord  `json:"coord"`
	Value int    `json:"value"`
	Owner Team   `json:"owner"`
	Color string `json:"color"`
}

// Layout is the board as the view draws it: one header per category, and
// one column of tiles per category below.
type Layout struct {
	Headers []string `json:"headers"`
	Columns [][]Tile `json:"columns"`
}

func NewLayout(b Board, owner func(Coord) Team) Layout {
	l := Layout{
		Headers: make([]string, len(b.Categories)),
		Columns: make([][]Tile, len(b.Categories)),
	}

	for ci, c := range b.Categories {
		l.Headers[ci] = c.Name
		l.Columns[ci] = make([]Tile, len(c.Questions))

		for qi, q := range c.Questions {
			coord := Coord{Category: ci, Question: qi}
			t := NoTeam
			if owner != nil {
				t = owner(coord)
			}
			l.Columns[ci][qi] = Tile{
				Coord: coord,
				Value: q.Value,
				Owner: t,
				Color: t.Color(),
			}
		}
	}

	return l
}

type TeamScore struct {
	Team  Team   `json:"team"`
	Color string `json:"color"`
	Score int    `json:"score"`
}

// QuestionView is the open question. Solution is only filled in once it
// has been revealed.
type QuestionView struct {
	Coord       Coord  `json:"coord"`
	Title       string `json:"title"`
	Text        string `json:"text"`
	Value       int    `json:"value"`
	Owner       Team   `json:"owner"`
	Media       *Media `json:"media,omitempty"`
	HasSolution bool   `json:"hasSolution"`
	Solution    string `json:"solution,omitempty"`
}

// View is everything a client needs to draw a session.
type View struct {
	Board    Layout        `json:"board"`
	Scores   []TeamScore   `json:"scores"`
	Phase    Phase         `json:"phase"`
	Question *QuestionView `json:"question,omitempty"`
	Playback *Playback     `json:"playback,omitempty"`
	Policy   string        `json:"policy"`
}

func (s *Session) View() View {
	v := View{
		Board:    NewLayout(s.board, s.Owner),
		Scores:   make([]TeamScore, 0, len(Teams)),
		Phase:    s.phase,
		Playback: s.playback,
		Policy:   s.opts.Policy.String(),
	}

	for _, t := range Teams {
		v.Scores = append(v.Scores, TeamScore{Team: t, Color: t.Color(), Score: s.scores[t]})
	}

	if s.selection != nil {
		q := s.selection.Question
		title := q.Category
		if title == "" {
			title = s.board.Categories[s.selection.Coord.Category].Name
		}

		qv := &QuestionView{
			Coord:       s.selection.Coord,
			Title:       title,
			Text:        q.Text,
			Value:       q.Value,
			Owner:       s.Owner(s.selection.Coord),
			Media:       MediaFor(q),
			HasSolution: q.HasSolution(),
		}
		if s.phase == SolutionShown {
			qv.Solution = q.Solution
		}
		v.Question = qv
	}

	return v
}
