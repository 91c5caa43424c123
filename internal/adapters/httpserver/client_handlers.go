package httpserver

import (
	"fmt"
	"io"
	"net/http"

	"github.com/MatsuStefanie/cursomc/internal/auth"
	"github.com/MatsuStefanie/cursomc/internal/usecase"
)

const maxPictureBytes = 10 << 20

func (s *Server) listClients(w http.ResponseWriter, r *http.Request) {
	list, err := s.clients.FindAll(r.Context(), auth.FromContext(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) pageClients(w http.ResponseWriter, r *http.Request) {
	pr, err := pageRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	page, err := s.clients.FindPage(r.Context(), auth.FromContext(r.Context()), pr)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) getClientByEmail(w http.ResponseWriter, r *http.Request) {
	c, err := s.clients.FindByEmail(r.Context(), auth.FromContext(r.Context()), r.URL.Query().Get("value"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) getClient(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.clients.Find(r.Context(), auth.FromContext(r.Context()), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) createClient(w http.ResponseWriter, r *http.Request) {
	var in usecase.NewClient
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.clients.Insert(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	created(w, r, c.ID, nil)
}

func (s *Server) updateClient(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var in usecase.ClientUpdate
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.clients.Update(r.Context(), auth.FromContext(r.Context()), id, in); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteClient(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.clients.Delete(r.Context(), auth.FromContext(r.Context()), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// uploadPicture stores the caller's profile picture from the multipart field
// "file" and answers with its URI in Location.
func (s *Server) uploadPicture(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPictureBytes)
	file, hdr, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: multipart field \"file\": %v", errBadRequest, err))
		return
	}
	defer file.Close()
	raw, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	uri, err := s.clients.UploadProfilePicture(r.Context(), auth.FromContext(r.Context()), raw, hdr.Filename)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", uri)
	w.WriteHeader(http.StatusCreated)
}
