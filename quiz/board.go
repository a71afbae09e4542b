/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package quiz holds the quiz board model: documents, tile assignment,
// team scoring, the question selection state machine and sound cues.
package quiz

import "fmt"

// MediaKind identifies how a question's media is presented.
type MediaKind string

const (
	MediaNone    MediaKind = ""
	MediaAudio   MediaKind = "audio"
	MediaPicture MediaKind = "picture"
	MediaVideo   MediaKind = "video"
)

func (k MediaKind) valid() bool {
	switch k {
	case MediaNone, MediaAudio, MediaPicture, MediaVideo:
		return true
	}
	return false
}

type Question struct {
	Text     string    `json:"question" yaml:"question"`
	Category string    `json:"category" yaml:"category"`
	Value    int       `json:"value" yaml:"value"`
	Type     MediaKind `json:"type,omitempty" yaml:"type,omitempty"`
	MediaURL string    `json:"mediaUrl,omitempty" yaml:"mediaUrl,omitempty"`
	Solution string    `json:"solution,omitempty" yaml:"solution,omitempty"`
}

// HasSolution reports whether the question can have its solution revealed.
func (q Question) HasSolution() bool {
	return q.Solution != ""
}

type Category struct {
	Name      string     `json:"name" yaml:"name"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Board is the ordered list of categories for a session. Column order
// follows category order.
type Board struct {
	Categories []Category `json:"categories" yaml:"categories"`
}

// Coord addresses a single tile.
type Coord struct {
	Category int `json:"category"`
	Question int `json:"question"`
}

func (c Coord) String() string {
	return fmt.Sprintf("%d/%d", c.Category, c.Question)
}

// Valid reports whether c indexes a question on the board.
func (b Board) Valid(c Coord) bool {
	if c.Category < 0 || c.Category >= len(b.Categories) {
		return false
	}
	return c.Question >= 0 && c.Question < len(b.Categories[c.Category].Questions)
}

// Question returns the question at c.
func (b Board) Question(c Coord) (Question, error) {
	if !b.Valid(c) {
		return Question{}, fmt.Errorf("%w: %s", ErrInvalidCoord, c)
	}
	return b.Categories[c.Category].Questions[c.Question], nil
}

// TileCount is the number of questions across all categories.
func (b Board) TileCount() int {
	n := 0
	for _, c := range b.Categories {
		n += len(c.Questions)
	}
	return n
}

// Clone returns a deep copy, so a session never shares slices with the
// catalog it was created from.
func (b Board) Clone() Board {
	out := Board{Categories: make([]Category, len(b.Categories))}
	for i, c := range b.Categories {
		out.Categories[i] = Category{
			Name:      c.Name,
			Questions: append([]Question(nil), c.Questions...),
		}
	}
	return out
}

// validate rejects documents that would leave the board empty, so they
// surface as load failures.
func (b Board) validate() error {
	if len(b.Categories) == 0 {
		return fmt.Errorf("%w: no categories", ErrMalformedDocument)
	}

	for ci, c := range b.Categories {
		if len(c.Questions) == 0 {
			return fmt.Errorf("%w: category %d (%q) has no questions", ErrMalformedDocument, ci, c.Name)
		}
		for qi, q := range c.Questions {
			if !q.Type.valid() {
				return fmt.Errorf("%w: category %d question %d: unsupported media type %q", ErrMalformedDocument, ci, qi, q.Type)
			}
			if q.Value < 0 {
				return fmt.Errorf("%w: category %d question %d: negative value %d", ErrMalformedDocument, ci, qi, q.Value)
			}
		}
	}
	return nil
}
