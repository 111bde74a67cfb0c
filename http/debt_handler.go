package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"clearmoney/domain"
	"clearmoney/repository"
	"clearmoney/service"
)

// DebtPlanner is the part of service.DebtPlanService the handlers use.
type DebtPlanner interface {
	Compare(ctx context.Context, input domain.PayoffInput) (domain.ComparisonReport, error)
	Simulate(ctx context.Context, input domain.PayoffInput, strategy domain.Strategy) (domain.MethodResult, error)
	GetPlan(ctx context.Context, id string) (domain.PlanRecord, error)
}

type Explainer interface {
	Explain(ctx context.Context, result domain.ComparisonResult) string
}

type DebtHandler struct {
	planner   DebtPlanner
	explainer Explainer
	log       *logrus.Logger
}

func NewDebtHandler(planner DebtPlanner, explainer Explainer, log *logrus.Logger) *DebtHandler {
	return &DebtHandler{planner: planner, explainer: explainer, log: log}
}

// Compare handles POST /debts/compare. With ?explain=true the response also
// carries a narrative explanation.
func (h *DebtHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var input domain.PayoffInput
	if !decodeJSON(w, r, &input) {
		return
	}

	report, err := h.planner.Compare(r.Context(), input)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	if explain, _ := strconv.ParseBool(r.URL.Query().Get("explain")); explain && h.explainer != nil {
		report.Explanation = h.explainer.Explain(r.Context(), report.ComparisonResult)
	}

	writeJSON(w, http.StatusOK, report)
}

// Simulate handles POST /debts/simulate?strategy=snowball|avalanche. The
// strategy parameter is required.
func (h *DebtHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	strategy := domain.Strategy(r.URL.Query().Get("strategy"))
	if strategy == "" {
		writeError(w, http.StatusBadRequest, "strategy query parameter is required (snowball or avalanche)")
		return
	}

	var input domain.PayoffInput
	if !decodeJSON(w, r, &input) {
		return
	}

	result, err := h.planner.Simulate(r.Context(), input, strategy)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *DebtHandler) RequiredPayment(w http.ResponseWriter, r *http.Request) {
	var input domain.RequiredPaymentInput
	if !decodeJSON(w, r, &input) {
		return
	}

	result, err := service.RequiredPayment(input)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetPlan handles GET /plans/{id}.
func (h *DebtHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	record, err := h.planner.GetPlan(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *DebtHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrUnknownStrategy):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrPlanNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		h.log.WithError(err).Error("debt plan request failed")
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
