package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/felixgeelhaar/orbita/internal/scheduling/application/apperrors"
	"github.com/felixgeelhaar/orbita/internal/scheduling/application/commands"
	"github.com/felixgeelhaar/orbita/internal/scheduling/domain"
	"github.com/google/uuid"
)

type createTaskRequest struct {
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	EstimatedDuration int        `json:"estimatedDurationMinutes"`
	Priority          int        `json:"priority"`
	Tag               string     `json:"tag"`
	AutoSchedule      bool       `json:"isAutoSchedule"`
	StartTime         *time.Time `json:"startTime,omitempty"`
	EndTime           *time.Time `json:"endTime,omitempty"`
}

type taskPatchRequest struct {
	Title             *string    `json:"title,omitempty"`
	Description       *string    `json:"description,omitempty"`
	EstimatedDuration *int       `json:"estimatedDurationMinutes,omitempty"`
	Priority          *int       `json:"priority,omitempty"`
	Tag               *string    `json:"tag,omitempty"`
	AutoSchedule      *bool      `json:"isAutoSchedule,omitempty"`
	StartTimeCleared  bool       `json:"startTimeCleared,omitempty"`
	StartTime         *time.Time `json:"startTime,omitempty"`
	EndTime           *time.Time `json:"endTime,omitempty"`
}

// handleCreateTask handles POST /tasks.
func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerIDFromContext(r.Context())
	if !ok {
		writeAuthError(w, errMissingToken)
		return
	}

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	duration, err := domain.NewDuration(time.Duration(req.EstimatedDuration) * time.Minute)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.handlers.CreateTask(r.Context(), time.Now().UTC(), commands.CreateTaskCommand{
		OwnerID:           ownerID,
		Title:             req.Title,
		Description:       req.Description,
		EstimatedDuration: duration,
		Priority:          req.Priority,
		Tag:               domain.Tag(req.Tag),
		AutoSchedule:      req.AutoSchedule,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
	})
	if err != nil {
		s.writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"task":          newTaskResponse(result.Task),
		"notifications": newNotificationResponses(result.Notifications),
	})
}

// handleListTasks handles GET /tasks.
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerIDFromContext(r.Context())
	if !ok {
		writeAuthError(w, errMissingToken)
		return
	}

	var status *domain.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		switch raw {
		case "pending":
			v := domain.StatusPending
			status = &v
		case "completed":
			v := domain.StatusCompleted
			status = &v
		default:
			writeJSONError(w, http.StatusBadRequest, "unrecognized status filter")
			return
		}
	}

	from, to, err := parseDateRange(r, "startDate", "endDate")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	tasks, err := s.handlers.Tasks.FindByOwner(r.Context(), ownerID, status, from, to)
	if err != nil {
		s.writeCommandError(w, err)
		return
	}
	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, newTaskResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleGetTask handles GET /tasks/{id}.
func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerIDFromContext(r.Context())
	if !ok {
		writeAuthError(w, errMissingToken)
		return
	}
	taskID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid task id")
		return
	}
	task, err := s.handlers.Tasks.FindByID(r.Context(), ownerID, taskID)
	if err != nil {
		s.writeCommandError(w, err)
		return
	}
	if task == nil {
		writeJSONError(w, http.StatusNotFound, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, newTaskResponse(task))
}

// handleUpdateTask handles PUT /tasks/{id}.
func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerIDFromContext(r.Context())
	if !ok {
		writeAuthError(w, errMissingToken)
		return
	}
	taskID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	var req taskPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cmd := commands.UpdateTaskCommand{
		OwnerID:          ownerID,
		TaskID:           taskID,
		Title:            req.Title,
		Description:      req.Description,
		Priority:         req.Priority,
		StartTimeCleared: req.StartTimeCleared,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		AutoSchedule:     req.AutoSchedule,
	}
	if req.Tag != nil {
		tag := domain.Tag(*req.Tag)
		cmd.Tag = &tag
	}
	if req.EstimatedDuration != nil {
		duration, err := domain.NewDuration(time.Duration(*req.EstimatedDuration) * time.Minute)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		cmd.EstimatedDuration = &duration
	}

	result, err := s.handlers.UpdateTask(r.Context(), time.Now().UTC(), cmd)
	if err != nil {
		s.writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"task":          newTaskResponse(result.Task),
		"notifications": newNotificationResponses(result.Notifications),
	})
}

// handleDeleteTask handles DELETE /tasks/{id}; the mirror ScheduleItem
// (if any) is deleted alongside it, per spec.md §6.
func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerIDFromContext(r.Context())
	if !ok {
		writeAuthError(w, errMissingToken)
		return
	}
	taskID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid task id")
		return
	}
	task, err := s.handlers.Tasks.FindByID(r.Context(), ownerID, taskID)
	if err != nil {
		s.writeCommandError(w, err)
		return
	}
	if task == nil {
		writeJSONError(w, http.StatusNotFound, "task not found")
		return
	}
	if err := s.handlers.Items.DeleteByTaskID(r.Context(), ownerID, taskID); err != nil {
		s.writeCommandError(w, err)
		return
	}
	if err := s.handlers.Tasks.Delete(r.Context(), ownerID, taskID); err != nil {
		s.writeCommandError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRescheduleTask handles POST /tasks/{id}/reschedule.
func (s *Server) handleRescheduleTask(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerIDFromContext(r.Context())
	if !ok {
		writeAuthError(w, errMissingToken)
		return
	}
	taskID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid task id")
		return
	}
	result, err := s.handlers.RescheduleTask(r.Context(), time.Now().UTC(), commands.RescheduleTaskCommand{
		OwnerID: ownerID,
		TaskID:  taskID,
	})
	if err != nil {
		if kind, ok := apperrors.KindOf(err); ok && kind == apperrors.KindSchedulingRefusal {
			writeJSON(w, http.StatusConflict, map[string]string{
				"message": "Could not find an optimal time to reschedule the task.",
			})
			return
		}
		s.writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"task":          newTaskResponse(result.Task),
		"notifications": newNotificationResponses(result.Notifications),
	})
}

func parseDateRange(r *http.Request, startParam, endParam string) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if raw := r.URL.Query().Get(startParam); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, nil, err
		}
		from = &t
	}
	if raw := r.URL.Query().Get(endParam); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, nil, err
		}
		to = &t
	}
	return from, to, nil
}
