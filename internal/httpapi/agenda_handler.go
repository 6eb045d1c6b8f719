package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/example/agenda-generator/internal/agenda"
	"github.com/example/agenda-generator/internal/persistence"
)

// AgendaHandler serves the three agenda routes (§6).
type AgendaHandler struct {
	service  *agenda.Service
	respond  responder
	validate *validator.Validate
}

// NewAgendaHandler wires an agenda.Service into the three HTTP routes.
func NewAgendaHandler(service *agenda.Service, logger *slog.Logger) *AgendaHandler {
	return &AgendaHandler{
		service:  service,
		respond:  newResponder(logger),
		validate: validator.New(),
	}
}

type generateRequest struct {
	RoleID               string `json:"role_id" validate:"required"`
	Weeks                []int  `json:"weeks" validate:"required,min=1,dive,min=1"`
	Year                 int    `json:"year" validate:"required"`
	OptimizationStrategy string `json:"optimization_strategy" validate:"required"`
}

// Generate handles POST /agendas/generate (§6).
func (h *AgendaHandler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respond.writeError(ctx, w, http.StatusBadRequest, "リクエストの形式が不正です。")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.respond.writeJSON(ctx, w, http.StatusBadRequest, errorResponse{
			Message: "リクエストの内容に誤りがあります。",
			Errors:  fieldErrorsFrom(err),
		})
		return
	}

	result, err := h.service.Generate(ctx, agenda.GenerateParams{
		RoleID:               req.RoleID,
		Weeks:                req.Weeks,
		Year:                 req.Year,
		OptimizationStrategy: req.OptimizationStrategy,
	})
	if err != nil {
		h.respond.handleServiceError(ctx, w, err)
		return
	}

	h.respond.writeJSON(ctx, w, http.StatusCreated, toAgendaResponse(result))
}

// Get handles GET /agendas/{id} (§6).
func (h *AgendaHandler) Get(w http.ResponseWriter, r *http.Request, id string) {
	ctx := r.Context()

	result, err := h.service.Get(ctx, id)
	if err != nil {
		h.respond.handleServiceError(ctx, w, err)
		return
	}

	h.respond.writeJSON(ctx, w, http.StatusOK, toAgendaResponse(result))
}

// List handles GET /agendas?role_id=&status= (§6).
func (h *AgendaHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	roleID := strings.TrimSpace(r.URL.Query().Get("role_id"))
	if roleID == "" {
		h.respond.writeError(ctx, w, http.StatusBadRequest, "role_id は必須です。")
		return
	}

	var status *persistence.AgendaStatus
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		s := persistence.AgendaStatus(raw)
		status = &s
	}

	agendas, err := h.service.List(ctx, roleID, status)
	if err != nil {
		h.respond.handleServiceError(ctx, w, err)
		return
	}

	resp := make([]agendaSummaryResponse, 0, len(agendas))
	for _, a := range agendas {
		resp = append(resp, toAgendaSummaryResponse(a))
	}
	h.respond.writeJSON(ctx, w, http.StatusOK, resp)
}

func fieldErrorsFrom(err error) map[string]string {
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": err.Error()}
	}
	out := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}

type agendaEntryResponse struct {
	ID       string `json:"id"`
	PersonID string `json:"person_id"`
	RoleID   string `json:"role_id"`
	Date     string `json:"date"`
	Start    string `json:"start_time"`
	End      string `json:"end_time"`
}

type agendaCoverageResponse struct {
	ID                  string `json:"id"`
	RoleID              string `json:"role_id"`
	Date                string `json:"date"`
	Start               string `json:"start_time"`
	End                 string `json:"end_time"`
	IsCovered           bool   `json:"is_covered"`
	RequiredPersonCount int    `json:"required_person_count"`
}

type agendaSummaryResponse struct {
	ID        string `json:"id"`
	RoleID    string `json:"role_id"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type agendaResponse struct {
	agendaSummaryResponse
	Entries  []agendaEntryResponse    `json:"entries"`
	Coverage []agendaCoverageResponse `json:"coverage"`
}

func toAgendaSummaryResponse(a persistence.Agenda) agendaSummaryResponse {
	return agendaSummaryResponse{
		ID:        a.ID,
		RoleID:    a.RoleID,
		Status:    string(a.Status),
		CreatedAt: a.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: a.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func toAgendaResponse(result agenda.GenerateResult) agendaResponse {
	entries := make([]agendaEntryResponse, 0, len(result.Entries))
	for _, e := range result.Entries {
		entries = append(entries, agendaEntryResponse{
			ID:       e.ID,
			PersonID: e.PersonID,
			RoleID:   e.RoleID,
			Date:     e.Date.String(),
			Start:    e.Start.String(),
			End:      e.End.String(),
		})
	}

	coverage := make([]agendaCoverageResponse, 0, len(result.Coverage))
	for _, c := range result.Coverage {
		coverage = append(coverage, agendaCoverageResponse{
			ID:                  c.ID,
			RoleID:              c.RoleID,
			Date:                c.Date.String(),
			Start:               c.Start.String(),
			End:                 c.End.String(),
			IsCovered:           c.IsCovered,
			RequiredPersonCount: c.RequiredPersonCount,
		})
	}

	return agendaResponse{
		agendaSummaryResponse: toAgendaSummaryResponse(result.Agenda),
		Entries:               entries,
		Coverage:              coverage,
	}
}
