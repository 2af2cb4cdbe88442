package statements

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/de-tools/statement-atlas/pkg/adapters"
	"github.com/de-tools/statement-atlas/pkg/format"
	"github.com/de-tools/statement-atlas/pkg/models/api"
	"github.com/de-tools/statement-atlas/pkg/models/domain"
	"github.com/de-tools/statement-atlas/pkg/query"
	"github.com/de-tools/statement-atlas/pkg/services/statements"
	"github.com/de-tools/statement-atlas/pkg/store/fmp"
)

type Handler struct {
	svc statements.Service
}

func NewHandler(svc statements.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) ListStatements(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	q := parseStatementQuery(r)

	sort, err := parseSort(q)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	records, err := h.svc.Display(ctx, adapters.MapStatementQueryToFilterInput(q), sort)
	switch {
	case err == nil:
	case errors.Is(err, query.ErrInvalidArgument):
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, fmp.ErrCredentialNotFound):
		logger.Error().Err(err).Msg("statements source is not configured")
		writeError(w, r, http.StatusInternalServerError, fmp.UserMessage(err))
		return
	default:
		logger.Error().Err(err).Msg("failed to load statements")
		writeError(w, r, http.StatusBadGateway, fmp.UserMessage(err))
		return
	}

	writeJSON(w, r, http.StatusOK, adapters.MapRecordsDomainToApi(records))
}

func (h *Handler) ListSortFields(w http.ResponseWriter, r *http.Request) {
	fields := query.SortFields()
	response := make([]api.SortField, 0, len(fields))
	for _, field := range fields {
		response = append(response, api.SortField{Name: string(field), Label: format.ColumnLabel(field)})
	}
	writeJSON(w, r, http.StatusOK, response)
}

func parseStatementQuery(r *http.Request) api.StatementQuery {
	values := r.URL.Query()
	return api.StatementQuery{
		Start:        values.Get("start"),
		End:          values.Get("end"),
		RevenueMin:   values.Get("revenue_min"),
		RevenueMax:   values.Get("revenue_max"),
		NetIncomeMin: values.Get("net_income_min"),
		NetIncomeMax: values.Get("net_income_max"),
		Sort:         values.Get("sort"),
		Direction:    values.Get("direction"),
	}
}

// parseSort returns nil when no sort field was requested.
func parseSort(q api.StatementQuery) (*domain.SortSpec, error) {
	if q.Sort == "" {
		return nil, nil
	}
	field, err := query.ParseSortField(q.Sort)
	if err != nil {
		return nil, err
	}
	direction, err := query.ParseSortDirection(q.Direction)
	if err != nil {
		return nil, err
	}
	return &domain.SortSpec{Field: field, Direction: direction}, nil
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, r, status, api.Error{Error: message})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}
