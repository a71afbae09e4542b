/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
)

func humanReadableSize(bytes int64) string {
	const unit = 1000

	size := float64(bytes)
	for _, suffix := range []string{"B", "kB", "MB", "GB", "TB", "PB"} {
		if size < unit || suffix == "PB" {
			if suffix == "B" {
				return fmt.Sprintf("%d B", bytes)
			}
			return fmt.Sprintf("%.1f %s", size, suffix)
		}
		size /= unit
	}

	return fmt.Sprintf("%d B", bytes)
}

// sizeRecorder counts response bytes for logging.
type sizeRecorder struct {
	http.ResponseWriter
	written int64
	status  int
}

func (s *sizeRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func (s *sizeRecorder) Write(b []byte) (int, error) {
	n, err := s.ResponseWriter.Write(b)
	s.written += int64(n)
	return n, err
}

// serveMedia serves the logo, sounds and question media from the media
// directory. Missing files are left to the browser to report.
func serveMedia(cfg *Config) httprouter.Handle {
	files := http.FileServer(http.Dir(cfg.media))

	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		startTime := time.Now()

		securityHeaders(cfg, w)
		w.Header().Set("Cache-Control", "public, max-age=3600")

		rec := &sizeRecorder{ResponseWriter: w, status: http.StatusOK}

		r.URL.Path = p.ByName("filepath")
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(rec, r)
		} else {
			files.ServeHTTP(rec, r)
		}

		logf(cfg, "SERVE: Media %s (%s, %d) to %s in %s",
			r.URL.Path,
			humanReadableSize(rec.written),
			rec.status,
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}
