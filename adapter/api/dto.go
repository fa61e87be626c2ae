package api

import (
	"time"

	"github.com/felixgeelhaar/orbita/internal/scheduling/domain"
	"github.com/google/uuid"
)

// taskResponse is the wire shape for a domain.Task.
type taskResponse struct {
	ID                uuid.UUID  `json:"id"`
	OwnerID           uuid.UUID  `json:"ownerId"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	EstimatedDuration int        `json:"estimatedDurationMinutes"`
	Priority          int        `json:"priority"`
	Tag               string     `json:"tag"`
	AutoSchedule      bool       `json:"isAutoSchedule"`
	Status            string     `json:"status"`
	StartTime         *time.Time `json:"startTime,omitempty"`
	EndTime           *time.Time `json:"endTime,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

func newTaskResponse(t *domain.Task) taskResponse {
	return taskResponse{
		ID:                t.ID(),
		OwnerID:           t.OwnerID(),
		Title:             t.Title(),
		Description:       t.Description(),
		EstimatedDuration: int(t.EstimatedDuration().Value().Minutes()),
		Priority:          t.Priority(),
		Tag:               string(t.Tag()),
		AutoSchedule:      t.IsAutoSchedule(),
		Status:            t.Status().String(),
		StartTime:         t.StartTime(),
		EndTime:           t.EndTime(),
		CreatedAt:         t.CreatedAt(),
		UpdatedAt:         t.UpdatedAt(),
	}
}

// scheduleItemResponse is the wire shape for a domain.ScheduleItem.
type scheduleItemResponse struct {
	ID        uuid.UUID  `json:"id"`
	OwnerID   uuid.UUID  `json:"ownerId"`
	Title     string     `json:"title"`
	Type      string     `json:"type"`
	StartTime time.Time  `json:"startTime"`
	EndTime   time.Time  `json:"endTime"`
	TaskID    *uuid.UUID `json:"taskId,omitempty"`
}

func newScheduleItemResponse(item *domain.ScheduleItem) scheduleItemResponse {
	return scheduleItemResponse{
		ID:        item.ID(),
		OwnerID:   item.OwnerID(),
		Title:     item.Title(),
		Type:      string(item.Type()),
		StartTime: item.StartTime(),
		EndTime:   item.EndTime(),
		TaskID:    item.TaskID(),
	}
}

// energySampleResponse is the wire shape for a domain.EnergySample.
type energySampleResponse struct {
	ID               uuid.UUID `json:"id"`
	OwnerID          uuid.UUID `json:"ownerId"`
	Date             time.Time `json:"date"`
	Hour             int       `json:"hour"`
	EnergyLevel      float64   `json:"energyLevel"`
	Stage            string    `json:"stage"`
	MoodLabel        string    `json:"moodLabel,omitempty"`
	HasManualCheckIn bool      `json:"hasManualCheckIn"`
}

func newEnergySampleResponse(s *domain.EnergySample) energySampleResponse {
	return energySampleResponse{
		ID:               s.ID(),
		OwnerID:          s.OwnerID(),
		Date:             s.Date(),
		Hour:             s.Hour(),
		EnergyLevel:      s.EnergyLevel(),
		Stage:            string(s.Stage()),
		MoodLabel:        s.MoodLabel(),
		HasManualCheckIn: s.HasManualCheckIn(),
	}
}

// historicalPatternResponse is the wire shape for a
// domain.HistoricalEnergyPattern.
type historicalPatternResponse struct {
	Hour         int     `json:"hour"`
	AverageLevel float64 `json:"averageLevel"`
	SampleCount  int     `json:"sampleCount"`
	Stage        string  `json:"stage"`
	IsEstimated  bool    `json:"isEstimated"`
}

func newHistoricalPatternResponse(p *domain.HistoricalEnergyPattern) historicalPatternResponse {
	return historicalPatternResponse{
		Hour:         p.Hour(),
		AverageLevel: p.AverageLevel(),
		SampleCount:  p.SampleCount(),
		Stage:        string(p.Stage()),
		IsEstimated:  p.IsEstimated(),
	}
}

// notificationResponse is the wire shape for a domain.Notification.
type notificationResponse struct {
	ID        uuid.UUID                   `json:"id"`
	Type      domain.NotificationType     `json:"type"`
	Severity  domain.Severity             `json:"severity"`
	Title     string                      `json:"title"`
	Message   string                      `json:"message"`
	Timestamp time.Time                   `json:"timestamp"`
	TaskID    *uuid.UUID                  `json:"taskId,omitempty"`
	Actions   []domain.Action             `json:"actions,omitempty"`
	Metadata  domain.NotificationMetadata `json:"metadata"`
}

func newNotificationResponse(n domain.Notification) notificationResponse {
	return notificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Severity:  n.Severity,
		Title:     n.Title,
		Message:   n.Message,
		Timestamp: n.Timestamp,
		TaskID:    n.TaskID,
		Actions:   n.Actions,
		Metadata:  n.Metadata,
	}
}

func newNotificationResponses(ns []domain.Notification) []notificationResponse {
	out := make([]notificationResponse, 0, len(ns))
	for _, n := range ns {
		out = append(out, newNotificationResponse(n))
	}
	return out
}

// sleepScheduleResponse is the wire shape for a domain.SleepSchedule.
type sleepScheduleResponse struct {
	Bedtime    int    `json:"bedtime"`
	WakeHour   int    `json:"wakeHour"`
	Chronotype string `json:"chronotype"`
}

func newSleepScheduleResponse(s *domain.SleepSchedule) sleepScheduleResponse {
	return sleepScheduleResponse{
		Bedtime:    s.Bedtime(),
		WakeHour:   s.WakeHour(),
		Chronotype: string(s.Chronotype()),
	}
}
