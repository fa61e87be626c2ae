package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/felixgeelhaar/orbita/internal/scheduling/application/commands"
	"github.com/felixgeelhaar/orbita/internal/scheduling/domain"
	"github.com/google/uuid"
)

type createScheduleItemRequest struct {
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	StartTime time.Time  `json:"startTime"`
	EndTime   time.Time  `json:"endTime"`
	TaskID    *uuid.UUID `json:"taskId,omitempty"`
}

// handleCreateScheduleItem handles POST /schedule. A type=event item
// runs through the cascade (spec.md §4.5); any other type is recorded
// directly, serialized behind the same per-owner lock the core entry
// points use.
func (s *Server) handleCreateScheduleItem(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerIDFromContext(r.Context())
	if !ok {
		writeAuthError(w, errMissingToken)
		return
	}

	var req createScheduleItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if domain.ItemType(req.Type) == domain.ItemTypeEvent {
		result, err := s.handlers.OnNewEvent(r.Context(), time.Now().UTC(), commands.OnNewEventCommand{
			OwnerID:   ownerID,
			Title:     req.Title,
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
		})
		if err != nil {
			s.writeCommandError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"item":          newScheduleItemResponse(result.Item),
			"notifications": newNotificationResponses(result.Notifications),
		})
		return
	}

	var item *domain.ScheduleItem
	lockErr := s.withOwnerLock(r.Context(), ownerID, func(ctx context.Context) error {
		it, err := domain.NewScheduleItem(ownerID, req.Title, req.StartTime, req.EndTime, domain.ItemType(req.Type), req.TaskID)
		if err != nil {
			return err
		}
		if err := s.handlers.Items.Save(ctx, it); err != nil {
			return err
		}
		item = it
		return nil
	})
	if lockErr != nil {
		s.writeCommandError(w, lockErr)
		return
	}
	writeJSON(w, http.StatusCreated, newScheduleItemResponse(item))
}

// handleListScheduleItems handles GET /schedule.
func (s *Server) handleListScheduleItems(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerIDFromContext(r.Context())
	if !ok {
		writeAuthError(w, errMissingToken)
		return
	}

	var itemType *domain.ItemType
	if raw := r.URL.Query().Get("type"); raw != "" {
		t := domain.ItemType(raw)
		itemType = &t
	}
	from, to, err := parseDateRange(r, "startDate", "endDate")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := s.handlers.Items.FindByOwner(r.Context(), ownerID, itemType, from, to)
	if err != nil {
		s.writeCommandError(w, err)
		return
	}
	out := make([]scheduleItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, newScheduleItemResponse(item))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleDeleteScheduleItem handles DELETE /schedule/{id}. If the
// removed item was an event, every auto-scheduled task placed at or
// after the freed window gets a best-effort reschedule attempt, since
// the event may have been the reason it couldn't claim an earlier
// slot.
func (s *Server) handleDeleteScheduleItem(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerIDFromContext(r.Context())
	if !ok {
		writeAuthError(w, errMissingToken)
		return
	}
	itemID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid schedule item id")
		return
	}

	item, err := s.handlers.Items.FindByID(r.Context(), ownerID, itemID)
	if err != nil {
		s.writeCommandError(w, err)
		return
	}
	if item == nil {
		writeJSONError(w, http.StatusNotFound, "schedule item not found")
		return
	}

	wasEvent := item.IsEvent()
	freedFrom := item.StartTime()

	if err := s.handlers.Items.Delete(r.Context(), ownerID, itemID); err != nil {
		s.writeCommandError(w, err)
		return
	}

	if wasEvent {
		s.reconcileAfterEventRemoval(r.Context(), ownerID, freedFrom)
	}

	w.WriteHeader(http.StatusNoContent)
}

// reconcileAfterEventRemoval best-effort reschedules every placed,
// auto-scheduled task starting at or after freedFrom, now that an
// event may have freed up an earlier slot. Failures are logged and
// otherwise ignored: the delete itself already succeeded.
func (s *Server) reconcileAfterEventRemoval(ctx context.Context, ownerID uuid.UUID, freedFrom time.Time) {
	tasks, err := s.handlers.Tasks.FindPlacedAutoScheduled(ctx, ownerID)
	if err != nil {
		s.logger.Warn("post-delete reconciliation: failed to list placed tasks", "error", err)
		return
	}
	for _, task := range tasks {
		start := task.StartTime()
		if start == nil || start.Before(freedFrom) {
			continue
		}
		if _, err := s.handlers.RescheduleTask(ctx, time.Now().UTC(), commands.RescheduleTaskCommand{
			OwnerID: ownerID,
			TaskID:  task.ID(),
		}); err != nil {
			s.logger.Debug("post-delete reconciliation: reschedule attempt declined", "task_id", task.ID(), "error", err)
		}
	}
}
