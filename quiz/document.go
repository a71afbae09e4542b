/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package quiz

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Format selects the document decoder.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatFor picks a decoder from a file name or URL path.
func FormatFor(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Decode parses a quiz document into a board.
func Decode(r io.Reader, format Format) (Board, error) {
	var board Board

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		if err := dec.Decode(&board); err != nil {
			return Board{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
		var extra any
		if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
			return Board{}, fmt.Errorf("%w: more than one document", ErrMalformedDocument)
		}
	default:
		dec := json.NewDecoder(r)
		if err := dec.Decode(&board); err != nil {
			return Board{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
		if _, err := dec.Token(); !errors.Is(err, io.EOF) {
			return Board{}, fmt.Errorf("%w: trailing data after document", ErrMalformedDocument)
		}
	}

	if err := board.validate(); err != nil {
		return Board{}, err
	}

	return board, nil
}

// Source produces a board from wherever the quiz document lives.
type Source interface {
	Load(ctx context.Context) (Board, error)
	String() string
}

// NewSource returns an HTTPSource for http(s) locations, otherwise a FileSource.
func NewSource(location string, timeout time.Duration) Source {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return &HTTPSource{URL: location, Client: &http.Client{Timeout: timeout}}
	}
	return &FileSource{Path: location}
}

type FileSource struct {
	Path string
}

func (s *FileSource) Load(ctx context.Context) (Board, error) {
	if err := ctx.Err(); err != nil {
		return Board{}, err
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return Board{}, err
	}

	return Decode(bytes.NewReader(data), FormatFor(s.Path))
}

func (s *FileSource) String() string {
	return s.Path
}

type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s *HTTPSource) Load(ctx context.Context) (Board, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return Board{}, err
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return Board{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Board{}, fmt.Errorf("fetch %s: unexpected status %s", s.URL, resp.Status)
	}

	return Decode(resp.Body, FormatFor(req.URL.Path))
}

func (s *HTTPSource) String() string {
	return s.URL
}

// LoadResult is the outcome of one load attempt. Err is nil on success.
type LoadResult struct {
	Board    Board
	Err      error
	LoadedAt time.Time
}

func (r LoadResult) OK() bool {
	return r.Err == nil
}

// Load runs a single load against src.
func Load(ctx context.Context, src Source) LoadResult {
	board, err := src.Load(ctx)
	if err != nil {
		return LoadResult{Err: fmt.Errorf("load %s: %w", src, err), LoadedAt: time.Now()}
	}
	return LoadResult{Board: board, LoadedAt: time.Now()}
}
