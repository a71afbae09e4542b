package quiz

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleJSON = `{
  "categories": [
    {
      "name": "Science",
      "questions": [
        {"question": "H2O?", "category": "Science", "value": 100, "solution": "Water"},
        {"question": "Hear this", "category": "Science", "value": 200, "type": "audio", "mediaUrl": "/media/a.mp3"}
      ]
    },
    {
      "name": "Film",
      "questions": [
        {"question": "Which film?", "category": "Film", "value": 100, "type": "video", "mediaUrl": "/media/f.mp4"}
      ]
    }
  ]
}`

const sampleYAML = `categories:
  - name: Science
    questions:
      - question: H2O?
        category: Science
        value: 100
        solution: Water
`

func TestDecodeJSON(t *testing.T) {
	board, err := Decode(strings.NewReader(sampleJSON), FormatJSON)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(board.Categories) != 2 || board.TileCount() != 3 {
		t.Fatalf("unexpected board shape: %+v", board)
	}
	q := board.Categories[0].Questions[1]
	if q.Type != MediaAudio || q.MediaURL != "/media/a.mp3" {
		t.Fatalf("media not decoded: %+v", q)
	}
	if !board.Categories[0].Questions[0].HasSolution() {
		t.Fatalf("solution not decoded")
	}
}

func TestDecodeYAML(t *testing.T) {
	board, err := Decode(strings.NewReader(sampleYAML), FormatYAML)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := board.Categories[0].Questions[0].Solution; got != "Water" {
		t.Fatalf("solution = %q", got)
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"syntax":       `{"categories": [`,
		"media type":   `{"categories":[{"name":"A","questions":[{"question":"q","value":1,"type":"hologram"}]}]}`,
		"negative":     `{"categories":[{"name":"A","questions":[{"question":"q","value":-5}]}]}`,
		"fractional":   `{"categories":[{"name":"A","questions":[{"question":"q","value":1.5}]}]}`,
		"wrong shape":  `{"categories":{"name":"A"}}`,
		"empty":        `{}`,
		"misspelled":   `{"categorys":[{"name":"A","questions":[{"question":"q","value":1}]}]}`,
		"null":         `{"categories":null}`,
		"no columns":   `{"categories":[]}`,
		"empty column": `{"categories":[{"name":"A","questions":[]}]}`,
		"trailing":     `{"categories":[{"name":"A","questions":[{"question":"q","value":1}]}]} trailing garbage`,
		"two values":   `{"categories":[{"name":"A","questions":[{"question":"q","value":1}]}]} {}`,
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(doc), FormatJSON); !errors.Is(err, ErrMalformedDocument) {
				t.Fatalf("expected ErrMalformedDocument, got %v", err)
			}
		})
	}
}

func TestDecodeYAMLRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"empty":         "",
		"no categories": "title: Quiz\n",
		"empty column":  "categories:\n  - name: A\n    questions: []\n",
		"two documents": sampleYAML + "---\ncategories: []\n",
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(doc), FormatYAML); !errors.Is(err, ErrMalformedDocument) {
				t.Fatalf("expected ErrMalformedDocument, got %v", err)
			}
		})
	}
}

func TestFormatFor(t *testing.T) {
	if FormatFor("quiz.YML") != FormatYAML || FormatFor("/x/questions.yaml") != FormatYAML {
		t.Fatalf("yaml extensions not detected")
	}
	if FormatFor("questions.json") != FormatJSON || FormatFor("questions") != FormatJSON {
		t.Fatalf("json should be the default")
	}
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.json")
	if err := os.WriteFile(path, []byte(sampleJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	result := Load(context.Background(), NewSource(path, time.Second))
	if !result.OK() {
		t.Fatalf("load: %v", result.Err)
	}

	missing := Load(context.Background(), NewSource(filepath.Join(t.TempDir(), "nope.json"), time.Second))
	if missing.OK() {
		t.Fatalf("expected failure for missing file")
	}
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/questions.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(sampleJSON))
	}))
	defer srv.Close()

	src := NewSource(srv.URL+"/questions.json", time.Second)
	if _, ok := src.(*HTTPSource); !ok {
		t.Fatalf("expected HTTPSource, got %T", src)
	}

	result := Load(context.Background(), src)
	if !result.OK() {
		t.Fatalf("load: %v", result.Err)
	}
	if len(result.Board.Categories) != 2 {
		t.Fatalf("unexpected board: %+v", result.Board)
	}

	failed := Load(context.Background(), NewSource(srv.URL+"/missing.json", time.Second))
	if failed.OK() {
		t.Fatalf("expected failure on 404")
	}
}
