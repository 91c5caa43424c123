package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MatsuStefanie/cursomc/internal/domain"
)

const maxBodyBytes = 1 << 20

func idParam(r *http.Request) (uint, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid id %q", errBadRequest, raw)
	}
	return uint(id), nil
}

// pageRequest reads page, linesPerPage, direction and orderBy. Missing values
// are left zero so each listing applies its own defaults.
func pageRequest(r *http.Request) (domain.PageRequest, error) {
	q := r.URL.Query()
	var pr domain.PageRequest
	var err error
	if v := q.Get("page"); v != "" {
		if pr.Page, err = strconv.Atoi(v); err != nil || pr.Page < 0 {
			return pr, fmt.Errorf("%w: invalid page %q", errBadRequest, v)
		}
	}
	if v := q.Get("linesPerPage"); v != "" {
		if pr.LinesPerPage, err = strconv.Atoi(v); err != nil || pr.LinesPerPage < 1 {
			return pr, fmt.Errorf("%w: invalid linesPerPage %q", errBadRequest, v)
		}
	}
	pr.Direction = strings.ToUpper(strings.TrimSpace(q.Get("direction")))
	pr.OrderBy = strings.TrimSpace(q.Get("orderBy"))
	return pr, nil
}

// idList parses a comma separated list of ids such as "1,3,4".
func idList(s string) ([]uint, error) {
	var out []uint
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid id %q", errBadRequest, part)
		}
		out = append(out, uint(id))
	}
	return out, nil
}

// firstOf returns the first non-empty query value among names.
func firstOf(r *http.Request, names ...string) string {
	q := r.URL.Query()
	for _, n := range names {
		if v := q.Get(n); v != "" {
			return v
		}
	}
	return ""
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func created(w http.ResponseWriter, r *http.Request, id uint, body any) {
	w.Header().Set("Location", fmt.Sprintf("%s/%d", strings.TrimRight(r.URL.Path, "/"), id))
	if body == nil {
		w.WriteHeader(http.StatusCreated)
		return
	}
	writeJSON(w, http.StatusCreated, body)
}
