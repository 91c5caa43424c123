package httpserver

import (
	"net/http"

	"github.com/MatsuStefanie/cursomc/internal/auth"
	"github.com/MatsuStefanie/cursomc/internal/domain"
)

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	var draft domain.Order
	if err := decodeJSON(w, r, &draft); err != nil {
		s.writeError(w, r, err)
		return
	}
	o, err := s.orders.Insert(r.Context(), auth.FromContext(r.Context()), &draft)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	created(w, r, o.ID, nil)
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	o, err := s.orders.Find(r.Context(), auth.FromContext(r.Context()), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (s *Server) pageOrders(w http.ResponseWriter, r *http.Request) {
	pr, err := pageRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	page, err := s.orders.FindPage(r.Context(), auth.FromContext(r.Context()), pr)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}
