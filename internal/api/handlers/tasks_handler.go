package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/taskhub/engine/internal/api/types"
	"github.com/taskhub/engine/internal/auth"
	"github.com/taskhub/engine/internal/services"
	appErr "github.com/taskhub/engine/pkg/errors"
)

type TasksHandler struct {
	svc services.TaskService
}

func NewTasksHandler(svc services.TaskService) *TasksHandler {
	return &TasksHandler{svc: svc}
}

func (h *TasksHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	var req types.TaskCreateRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	task, err := h.svc.Create(r.Context(), id, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (h *TasksHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	items, err := h.svc.List(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *TasksHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	taskID, ok := parseTaskID(w, r)
	if !ok {
		return
	}
	task, err := h.svc.Get(r.Context(), id, taskID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TasksHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	taskID, ok := parseTaskID(w, r)
	if !ok {
		return
	}
	var req types.TaskUpdateRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	task, err := h.svc.Update(r.Context(), id, taskID, services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		Completed:   req.Completed,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TasksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	taskID, ok := parseTaskID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id, taskID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types.MessageResponse{Message: "Task Deleted Successfully"})
}

// identity reads the caller set by the auth middleware. Routes mounted
// without it fail closed.
func identity(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeError(w, r, appErr.New(appErr.CodeUnauthorized, "No authorization token provided"))
	}
	return id, ok
}

func parseTaskID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorStr(w, http.StatusBadRequest, "Invalid Task ID")
		return uuid.Nil, false
	}
	return id, true
}
