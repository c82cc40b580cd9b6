package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/tejashwikalptaru/gopraise/internal/domain"
)

// ListResponse is the body of GET /api/list.
type ListResponse struct {
	Songs []string `json:"songs"`
}

var contentTypes = map[string]string{
	".mp3": "audio/mpeg",
	".wav": "audio/wav",
	".pdf": "application/pdf",
	".mp4": "video/mp4",
	".mov": "video/quicktime",
	".txt": "text/plain; charset=utf-8",
}

// ContentTypeFor returns the response content type for an object key.
func ContentTypeFor(key string) string {
	if ct, ok := contentTypes[path.Ext(key)]; ok {
		return ct
	}
	return "application/octet-stream"
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("dir")
	if prefix == "" {
		prefix = s.opts.ListDir
	}

	objects, err := s.store.List(r.Context(), prefix, s.opts.ListLimit)
	if err != nil {
		s.logger.Error("list failed", slog.String("prefix", prefix), slog.Any("error", err))
		writeText(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	songs := []string{}
	for _, o := range objects {
		if !strings.HasSuffix(o.Key, ".mp3") {
			continue
		}
		songs = append(songs, o.Key[strings.LastIndex(o.Key, "/")+1:])
	}

	writeJSON(w, ListResponse{Songs: songs})
}

func (s *Server) handleBooks(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, Books())
}

func (s *Server) handleBibleFile(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(mux.Vars(r)["name"])
	if err != nil {
		writeText(w, http.StatusBadRequest, "Bad Request")
		return
	}
	s.serveObject(w, r, "bible/"+name, "text/plain; charset=utf-8", "Bible file not found")
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	key, err := url.PathUnescape(mux.Vars(r)["key"])
	if err != nil {
		writeText(w, http.StatusBadRequest, "Bad Request")
		return
	}
	w.Header().Set("Accept-Ranges", "bytes")
	s.serveObject(w, r, key, ContentTypeFor(key), "File not found")
}

func (s *Server) serveObject(w http.ResponseWriter, r *http.Request, key, contentType, notFound string) {
	blob, err := s.store.Get(r.Context(), key)
	if errors.Is(err, domain.ErrObjectNotFound) {
		writeText(w, http.StatusNotFound, notFound)
		return
	}
	if err != nil {
		s.logger.Error("get failed", slog.String("key", key), slog.Any("error", err))
		writeText(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	defer blob.Body.Close()

	w.Header().Set("Content-Type", contentType)
	if blob.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(blob.Size, 10))
	}
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(w, blob.Body); err != nil {
		s.logger.Warn("error streaming object", slog.String("key", key), slog.Any("error", err))
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}
