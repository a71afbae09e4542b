/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package quiz

import (
	"fmt"
	"time"
)

// Phase is the state of the question view.
type Phase int

const (
	Closed Phase = iota
	Open
	SolutionShown
)

var phaseNames = [...]string{
	Closed:        "closed",
	Open:          "open",
	SolutionShown: "solution-shown",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(b []byte) error {
	for i, name := range phaseNames {
		if name == string(b) {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", b)
}

// AwardPolicy decides what happens when an awarded tile is awarded again.
type AwardPolicy int

const (
	// Reassign moves the tile: the previous team loses the value before
	// the new team gains it.
	Reassign AwardPolicy = iota
	// Forbid rejects awarding a tile that already has a team.
	Forbid
)

func ParseAwardPolicy(s string) (AwardPolicy, error) {
	switch s {
	case "reassign":
		return Reassign, nil
	case "forbid":
		return Forbid, nil
	}
	return Reassign, fmt.Errorf("unknown award policy %q (want reassign or forbid)", s)
}

func (p AwardPolicy) String() string {
	if p == Forbid {
		return "forbid"
	}
	return "reassign"
}

type Options struct {
	Policy AwardPolicy
	// AutoClose closes the question view after every award.
	AutoClose bool
	Now       func() time.Time
}

// Selection is the open question and where it sits on the board.
type Selection struct {
	Coord    Coord    `json:"coord"`
	Question Question `json:"question"`
}

// Award records the effect of one scoring action.
type Award struct {
	Coord    Coord `json:"coord"`
	Team     Team  `json:"team"`
	Previous Team  `json:"previous"`
	Value    int   `json:"value"`
	Closed   bool  `json:"closed"`
}

// Session is one game's board state. It is not safe for concurrent use;
// the owning hub serializes access.
type Session struct {
	board Board
	opts  Options

	tiles  [][]Team
	scores [len(teamNames)]int

	phase     Phase
	selection *Selection
	playback  *Playback
}

func NewSession(board Board, opts Options) *Session {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	board = board.Clone()
	tiles := make([][]Team, len(board.Categories))
	for i, c := range board.Categories {
		tiles[i] = make([]Team, len(c.Questions))
	}

	return &Session{
		board: board,
		opts:  opts,
		tiles: tiles,
	}
}

func (s *Session) Board() Board {
	return s.board
}

func (s *Session) Phase() Phase {
	return s.phase
}

func (s *Session) Policy() AwardPolicy {
	return s.opts.Policy
}

func (s *Session) Selection() (Selection, bool) {
	if s.selection == nil {
		return Selection{}, false
	}
	return *s.selection, true
}

// Playback returns the current audio handle, or nil.
func (s *Session) Playback() *Playback {
	return s.playback
}

// Owner returns the team a tile is awarded to, or NoTeam.
func (s *Session) Owner(c Coord) Team {
	if !s.board.Valid(c) {
		return NoTeam
	}
	return s.tiles[c.Category][c.Question]
}

func (s *Session) Score(t Team) int {
	if !t.valid() {
		return 0
	}
	return s.scores[t]
}

// Open shows the question at c. Awarded tiles can be opened again.
func (s *Session) Open(c Coord) (Selection, error) {
	q, err := s.board.Question(c)
	if err != nil {
		return Selection{}, err
	}

	s.playback = nil
	s.selection = &Selection{Coord: c, Question: q}
	s.phase = Open

	return *s.selection, nil
}

// RevealSolution shows the solution of the open question. It reports
// false and changes nothing when there is no open question, no solution,
// or the solution is already shown.
func (s *Session) RevealSolution() bool {
	if s.phase != Open || s.selection == nil || !s.selection.Question.HasSolution() {
		return false
	}

	s.phase = SolutionShown

	return true
}

// Close hides the question view and drops its playback handle.
func (s *Session) Close() {
	s.phase = Closed
	s.selection = nil
	s.playback = nil
}

// Award gives the open question's value to t.
func (s *Session) Award(t Team) (Award, error) {
	if !t.valid() {
		return Award{}, fmt.Errorf("%w: %s", ErrUnknownTeam, t)
	}
	if s.selection == nil {
		return Award{}, ErrNoSelection
	}

	c := s.selection.Coord
	value := s.selection.Question.Value
	prev := s.tiles[c.Category][c.Question]

	if prev != NoTeam && s.opts.Policy == Forbid {
		return Award{}, fmt.Errorf("%w: %s to %s", ErrTileAssigned, c, prev)
	}

	if prev != NoTeam {
		s.scores[prev] -= value
	}
	s.scores[t] += value
	s.tiles[c.Category][c.Question] = t

	award := Award{
		Coord:    c,
		Team:     t,
		Previous: prev,
		Value:    value,
	}

	if s.opts.AutoClose {
		s.Close()
		award.Closed = true
	}

	return award, nil
}

// PlayAudio replaces the current playback handle with a new one for the
// open question's audio.
func (s *Session) PlayAudio() (*Playback, error) {
	if s.selection == nil {
		return nil, ErrNoSelection
	}

	m := MediaFor(s.selection.Question)
	if m == nil || m.Kind != MediaAudio {
		return nil, ErrNoAudio
	}

	s.playback = newPlayback(m.URL, s.opts.Now())

	return s.playback, nil
}

// StopAudio drops the current playback handle and returns it.
func (s *Session) StopAudio() *Playback {
	p := s.playback
	s.playback = nil
	return p
}

// Snapshot is the persistable state of a session. Playback handles are
// not part of it.
type Snapshot struct {
	Board     Board      `json:"board"`
	Tiles     [][]Team   `json:"tiles"`
	Phase     Phase      `json:"phase"`
	Selection *Selection `json:"selection,omitempty"`
	SavedAt   time.Time  `json:"savedAt"`
}

func (s *Session) Snapshot() Snapshot {
	tiles := make([][]Team, len(s.tiles))
	for i, col := range s.tiles {
		tiles[i] = append([]Team(nil), col...)
	}

	snap := Snapshot{
		Board:   s.board.Clone(),
		Tiles:   tiles,
		Phase:   s.phase,
		SavedAt: s.opts.Now(),
	}
	if s.selection != nil {
		sel := *s.selection
		snap.Selection = &sel
	}

	return snap
}

// Restore rebuilds a session from a snapshot. Scores are recomputed from
// the tiles.
func Restore(snap Snapshot, opts Options) (*Session, error) {
	s := NewSession(snap.Board, opts)

	if len(snap.Tiles) != len(s.tiles) {
		return nil, fmt.Errorf("snapshot has %d tile columns, board has %d", len(snap.Tiles), len(s.tiles))
	}

	for ci, col := range snap.Tiles {
		if len(col) != len(s.tiles[ci]) {
			return nil, fmt.Errorf("snapshot column %d has %d tiles, board has %d", ci, len(col), len(s.tiles[ci]))
		}
		for qi, t := range col {
			if t == NoTeam {
				continue
			}
			if !t.valid() {
				return nil, fmt.Errorf("%w: %s", ErrUnknownTeam, t)
			}
			s.tiles[ci][qi] = t
			s.scores[t] += s.board.Categories[ci].Questions[qi].Value
		}
	}

	if snap.Selection != nil && snap.Phase != Closed {
		if _, err := s.Open(snap.Selection.Coord); err != nil {
			return nil, err
		}
		if snap.Phase == SolutionShown {
			s.RevealSolution()
		}
	}

	return s, nil
}
