package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"ai-diet-planner/internal/planner"

	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

type pageData struct {
	Form        formData
	Error       string
	Plan        planner.DietPlan
	Durations   []planner.PlanDuration
	Languages   []planner.Language
	Preferences []planner.DietaryPreference
}

func newPageData(f formData) pageData {
	return pageData{
		Form:        f,
		Durations:   planner.PlanDurations,
		Languages:   planner.Languages,
		Preferences: planner.DietaryPreferences,
	}
}

// statusFor maps a generation failure to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, planner.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, newPageData(defaultForm()))
}

// submitPlan handles POST /plan from the HTML form.
func (s *Server) submitPlan(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	form, err := readForm(r)
	if err != nil {
		data := newPageData(form)
		data.Error = err.Error()
		s.render(w, r, http.StatusBadRequest, data)
		return
	}

	data := newPageData(form)
	input, err := form.input()
	if err == nil {
		data.Plan, err = s.generator.GeneratePlan(r.Context(), input)
	}
	if err != nil {
		data.Plan = nil
		data.Error = err.Error()
		s.render(w, r, statusFor(err), data)
		return
	}
	s.render(w, r, http.StatusOK, data)
}

type planResponse struct {
	Plan  planner.DietPlan `json:"plan,omitempty"`
	Error string           `json:"error,omitempty"`
}

// createPlan handles POST /api/plans with a JSON UserInput body.
func (s *Server) createPlan(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var input planner.UserInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondJSON(w, r, http.StatusBadRequest, planResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if input.Duration == "" {
		input.Duration = planner.DurationShort
	}
	if input.Language == "" {
		input.Language = planner.LanguageEnglish
	}

	plan, err := s.generator.GeneratePlan(r.Context(), input)
	if err != nil {
		s.respondJSON(w, r, statusFor(err), planResponse{Error: err.Error()})
		return
	}
	s.respondJSON(w, r, http.StatusOK, planResponse{Plan: plan})
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pages.ExecuteTemplate(w, "page.html", data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Failed to render page")
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Failed to encode response")
	}
}
