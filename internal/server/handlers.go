package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type pageBody struct {
	Content []Employee `json:"content"`
	Last    bool       `json:"last"`
	First   bool       `json:"first"`
	Number  int        `json:"number"`
	Size    int        `json:"size"`
}

// errorBody mirrors the error envelope the original service sent.
type errorBody struct {
	Timestamp string `json:"timestamp"`
	Status    int    `json:"status"`
	Error     string `json:"error"`
	Message   string `json:"message"`
	Path      string `json:"path"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := intParam(q.Get("page"), 0)
	if err != nil || page < 0 {
		s.writeError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid page %q", q.Get("page")))
		return
	}
	size, err := intParam(q.Get("size"), defaultPageSize)
	if err != nil || size <= 0 {
		s.writeError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid size %q", q.Get("size")))
		return
	}
	size = min(size, s.maxPageSize)
	if page > math.MaxInt/size-1 {
		s.writeError(w, r, http.StatusBadRequest, fmt.Sprintf("page %d is out of range", page))
		return
	}

	body := pageBody{Content: []Employee{}, Last: true, First: page == 0, Number: page, Size: size}

	var idFilter *int64
	if raw := q.Get("id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			// an id that cannot exist matches nothing
			s.writeJSON(w, http.StatusOK, body)
			return
		}
		idFilter = &id
	}

	items, last, err := s.repo.List(r.Context(), page, size, idFilter)
	if err != nil {
		s.log.Error().Err(err).Msg("list employees")
		s.writeError(w, r, http.StatusInternalServerError, "could not list employees")
		return
	}
	body.Content = items
	body.Last = last
	s.writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	e, err := s.repo.Get(r.Context(), id)
	if err != nil {
		s.repoError(w, r, id, err)
		return
	}
	s.writeJSON(w, http.StatusOK, e)
}

// handleUpdate writes every known field in the body but echoes only first
// name, last name and birth date. Unknown keys are ignored.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	var u Update
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&u); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "malformed JSON body")
		return
	}
	if err := u.Validate(); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	e, err := s.repo.Update(r.Context(), id, u)
	if err != nil {
		s.repoError(w, r, id, err)
		return
	}
	s.log.Info().Int64("id", id).Msg("employee updated")
	s.writeJSON(w, http.StatusOK, e.core())
}

func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid id %q", raw))
		return 0, false
	}
	return id, true
}

func (s *Server) repoError(w http.ResponseWriter, r *http.Request, id int64, err error) {
	if errors.Is(err, ErrNotFound) {
		s.writeError(w, r, http.StatusNotFound, fmt.Sprintf("Employee not found with id : '%d'", id))
		return
	}
	s.log.Error().Err(err).Int64("id", id).Msg("employee lookup")
	s.writeError(w, r, http.StatusInternalServerError, "internal error")
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	s.writeJSON(w, code, errorBody{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Status:    code,
		Error:     http.StatusText(code),
		Message:   msg,
		Path:      r.URL.Path,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn().Err(err).Msg("write response")
	}
}

func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
