package server

import (
	"net/http"

	"github.com/Tomlord1122/project-backend/internal/service"
)

// createTaskHandler creates a task owned by the user in the path. The route
// is wrapped by RequireAuth, so the acting user is always present.
func (s *Server) createTaskHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, err := pathID(r)
	if err != nil {
		s.respondWithServiceError(w, r, err, "create task")
		return
	}

	var req service.TaskRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	task, err := s.taskService.CreateTask(r.Context(), CurrentUser(r.Context()), ownerID, req)
	if err != nil {
		s.respondWithServiceError(w, r, err, "create task")
		return
	}

	respondWithJSON(w, http.StatusOK, task)
}

func (s *Server) listTasksHandler(w http.ResponseWriter, r *http.Request) {
	page, err := pageParams(r)
	if err != nil {
		s.respondWithServiceError(w, r, err, "list tasks")
		return
	}

	tasks, err := s.taskService.ListTasks(r.Context(), page)
	if err != nil {
		s.respondWithServiceError(w, r, err, "list tasks")
		return
	}

	respondWithJSON(w, http.StatusOK, tasks)
}

func (s *Server) updateTaskHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondWithServiceError(w, r, err, "update task")
		return
	}

	var req service.TaskRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	task, err := s.taskService.UpdateTask(r.Context(), CurrentUser(r.Context()), id, req)
	if err != nil {
		s.respondWithServiceError(w, r, err, "update task")
		return
	}

	respondWithJSON(w, http.StatusOK, task)
}

func (s *Server) deleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondWithServiceError(w, r, err, "delete task")
		return
	}

	if err := s.taskService.DeleteTask(r.Context(), CurrentUser(r.Context()), id); err != nil {
		s.respondWithServiceError(w, r, err, "delete task")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"detail": "Task deleted"})
}
