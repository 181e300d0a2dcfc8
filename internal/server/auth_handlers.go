package server

import (
	"mime"
	"net/http"

	"github.com/Tomlord1122/project-backend/internal/domain"
)

// loginRequest mirrors the OAuth2 password form: the email goes in username.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginHandler accepts an application/x-www-form-urlencoded or
// multipart/form-data body, or JSON with the same field names.
func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		if !s.decodeJSON(w, r, &req) {
			return
		}
	case "multipart/form-data":
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid form body")
			return
		}
		req.Username = r.PostForm.Get("username")
		req.Password = r.PostForm.Get("password")
	default:
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid form body")
			return
		}
		req.Username = r.PostForm.Get("username")
		req.Password = r.PostForm.Get("password")
	}

	if req.Username == "" {
		s.respondWithServiceError(w, r, domain.NewValidationError("username", "field required"), "login")
		return
	}
	if req.Password == "" {
		s.respondWithServiceError(w, r, domain.NewValidationError("password", "field required"), "login")
		return
	}

	token, err := s.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.respondWithServiceError(w, r, err, "login")
		return
	}

	respondWithJSON(w, http.StatusOK, token)
}
