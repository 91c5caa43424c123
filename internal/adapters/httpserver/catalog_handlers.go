package httpserver

import (
	"bytes"
	"net/http"

	"github.com/MatsuStefanie/cursomc/internal/auth"
	"github.com/MatsuStefanie/cursomc/internal/domain"
)

type categoryBody struct {
	Name string `json:"name"`
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	list, err := s.categories.FindAll(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) pageCategories(w http.ResponseWriter, r *http.Request) {
	pr, err := pageRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	page, err := s.categories.FindPage(r.Context(), pr)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) getCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.categories.Find(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	var body categoryBody
	if err := decodeJSON(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	c := &domain.Category{Name: body.Name}
	if err := s.categories.Insert(r.Context(), auth.FromContext(r.Context()), c); err != nil {
		s.writeError(w, r, err)
		return
	}
	created(w, r, c.ID, nil)
}

func (s *Server) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body categoryBody
	if err := decodeJSON(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.categories.Update(r.Context(), auth.FromContext(r.Context()), id, body.Name); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.categories.Delete(r.Context(), auth.FromContext(r.Context()), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// searchProducts accepts both the Portuguese (nome, categorias) and English
// (name, categories) query parameters.
func (s *Server) searchProducts(w http.ResponseWriter, r *http.Request) {
	pr, err := pageRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ids, err := idList(firstOf(r, "categorias", "categories"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	page, err := s.products.Search(r.Context(), firstOf(r, "nome", "name"), ids, pr)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.products.Find(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) exportProducts(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.products.ExportXLSX(r.Context(), auth.FromContext(r.Context()), &buf); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=products.xlsx")
	_, _ = buf.WriteTo(w)
}

func (s *Server) listStates(w http.ResponseWriter, r *http.Request) {
	list, err := s.locations.FindStates(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) listCities(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	list, err := s.locations.FindCities(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
