package server

import (
	"net/http"

	"github.com/Tomlord1122/project-backend/internal/service"
)

func (s *Server) createUserHandler(w http.ResponseWriter, r *http.Request) {
	var req service.CreateUserRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	user, err := s.userService.Register(r.Context(), req)
	if err != nil {
		s.respondWithServiceError(w, r, err, "create user")
		return
	}

	respondWithJSON(w, http.StatusOK, user)
}

func (s *Server) listUsersHandler(w http.ResponseWriter, r *http.Request) {
	page, err := pageParams(r)
	if err != nil {
		s.respondWithServiceError(w, r, err, "list users")
		return
	}

	users, err := s.userService.ListUsers(r.Context(), page)
	if err != nil {
		s.respondWithServiceError(w, r, err, "list users")
		return
	}

	respondWithJSON(w, http.StatusOK, users)
}

func (s *Server) getUserWithTasksHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondWithServiceError(w, r, err, "get user with tasks")
		return
	}

	user, err := s.userService.GetUserWithTasks(r.Context(), id)
	if err != nil {
		s.respondWithServiceError(w, r, err, "get user with tasks")
		return
	}

	respondWithJSON(w, http.StatusOK, user)
}
