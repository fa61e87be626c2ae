package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/felixgeelhaar/orbita/internal/scheduling/application/energy"
	"github.com/felixgeelhaar/orbita/internal/scheduling/domain"
)

type recordEnergySampleRequest struct {
	Date      time.Time `json:"date"`
	Hour      *int      `json:"hour"`
	Level     float64   `json:"energyLevel"`
	Stage     string    `json:"stage,omitempty"`
	MoodLabel string    `json:"moodLabel,omitempty"`
}

// handleRecordEnergySample handles POST /energy: a manual check-in is
// persisted and the owner's running hourly averages are refreshed
// (spec.md §4.2).
func (s *Server) handleRecordEnergySample(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerIDFromContext(r.Context())
	if !ok {
		writeAuthError(w, errMissingToken)
		return
	}

	var req recordEnergySampleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// An omitted hour is taken from the current UTC hour.
	hour := time.Now().UTC().Hour()
	if req.Hour != nil {
		hour = *req.Hour
	}

	stage := domain.Stage(req.Stage)
	if stage == "" {
		schedule, err := s.energy.Sleep.Get(r.Context(), ownerID)
		if err != nil {
			s.writeCommandError(w, err)
			return
		}
		_, stage = energy.HourLevel(schedule, hour)
	}

	sample, err := domain.NewEnergySample(ownerID, req.Date, hour, req.Level, stage, req.MoodLabel, true)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.energy.Samples.Save(r.Context(), sample); err != nil {
		s.writeCommandError(w, err)
		return
	}
	if err := s.energy.UpdateHistoricalPatterns(r.Context(), ownerID); err != nil {
		s.writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newEnergySampleResponse(sample))
}

// handleTodayEnergy handles GET /energy: today's forecast, recorded or
// synthesized from the sleep-schedule curve.
func (s *Server) handleTodayEnergy(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerIDFromContext(r.Context())
	if !ok {
		writeAuthError(w, errMissingToken)
		return
	}
	samples, err := s.energy.TodayForecast(r.Context(), ownerID, time.Now().UTC())
	if err != nil {
		s.writeCommandError(w, err)
		return
	}
	out := make([]energySampleResponse, 0, len(samples))
	for _, sample := range samples {
		out = append(out, newEnergySampleResponse(sample))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleEnergyPatterns handles GET /energy/patterns.
func (s *Server) handleEnergyPatterns(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerIDFromContext(r.Context())
	if !ok {
		writeAuthError(w, errMissingToken)
		return
	}
	patterns, err := s.energy.HistoricalPatterns(r.Context(), ownerID)
	if err != nil {
		s.writeCommandError(w, err)
		return
	}
	out := make([]historicalPatternResponse, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, newHistoricalPatternResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

type sleepScheduleRequest struct {
	Bedtime            int    `json:"bedtime"`
	WakeHour           int    `json:"wakeHour"`
	Chronotype         string `json:"chronotype,omitempty"`
	GenerateEnergyData bool   `json:"generateEnergyData,omitempty"`
}

// handleSetSleepSchedule handles PUT /auth/sleep-schedule. When
// generateEnergyData is set, a day of samples is seeded from the new
// curve and the historical patterns are refreshed to match.
func (s *Server) handleSetSleepSchedule(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerIDFromContext(r.Context())
	if !ok {
		writeAuthError(w, errMissingToken)
		return
	}

	var req sleepScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	schedule, err := domain.NewSleepSchedule(ownerID, req.Bedtime, req.WakeHour, domain.Chronotype(req.Chronotype))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.energy.Sleep.Save(r.Context(), schedule); err != nil {
		s.writeCommandError(w, err)
		return
	}

	if req.GenerateEnergyData {
		samples, err := energy.SeedDailySamples(ownerID, time.Now().UTC(), schedule, s.seedRNG)
		if err != nil {
			s.writeCommandError(w, err)
			return
		}
		for _, sample := range samples {
			if err := s.energy.Samples.Save(r.Context(), sample); err != nil {
				s.writeCommandError(w, err)
				return
			}
		}
		if err := s.energy.UpdateHistoricalPatterns(r.Context(), ownerID); err != nil {
			s.writeCommandError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, newSleepScheduleResponse(schedule))
}
