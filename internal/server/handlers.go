package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/theirongolddev/cbudget/internal/budget"
	"github.com/theirongolddev/cbudget/internal/catalog"
	"github.com/theirongolddev/cbudget/internal/log"
	"github.com/theirongolddev/cbudget/internal/model"

	json "github.com/goccy/go-json"
)

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleCatalog(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	entries := s.cfg.Catalog.Entries()
	out := make([]CatalogEntry, len(entries))
	for i, e := range entries {
		out[i] = CatalogEntry{Name: e.Name, Group: e.Group, DefaultAmount: e.DefaultAmount}
	}
	log.FromContext(r.Context()).Debug("catalog listed", log.FieldOperation, log.OpCatalog, "categories", len(out))
	writeJSON(w, http.StatusOK, out)
}

func (s *Service) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req EvaluateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.countEvaluation(false)
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	snap, err := s.snapshotFrom(req)
	if err != nil {
		s.countEvaluation(false)
		log.FromContext(r.Context()).Debug("rejected evaluation", log.FieldError, err, log.FieldOperation, log.OpEvaluate)
		writeError(w, statusFor(err), err.Error())
		return
	}

	withSchedule := r.URL.Query().Get("schedule") == "1"
	if withSchedule && snap.HorizonMonths() > budget.MaxScheduleMonths {
		s.countEvaluation(false)
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("schedule is limited to %d months, got %d", budget.MaxScheduleMonths, snap.HorizonMonths()))
		return
	}

	resp := Evaluation(snap, withSchedule)

	s.countEvaluation(true)
	log.FromContext(r.Context()).Debug("evaluated",
		log.FieldOperation, log.OpEvaluate,
		log.FieldMonths, resp.Result.HorizonMonths,
		log.FieldIncome, resp.Result.TotalIncome.String(),
		log.FieldExpense, resp.Result.TotalExpenditure.String(),
		log.FieldNet, resp.Result.NetCashFlow.String(),
	)
	writeJSON(w, http.StatusOK, resp)
}

// snapshotFrom merges a request over the configured defaults.
func (s *Service) snapshotFrom(req EvaluateRequest) (model.Snapshot, error) {
	incomes := s.cfg.Incomes
	if req.Incomes != nil {
		incomes = make([]model.IncomeEntry, len(req.Incomes))
		for i, in := range req.Incomes {
			label := in.Label
			if label == "" {
				label = fmt.Sprintf("Income %d", i+1)
			}
			incomes[i] = model.IncomeEntry{Label: label, Amount: in.Amount}
		}
	}

	months := s.cfg.Months
	if req.HorizonMonths != nil {
		months = *req.HorizonMonths
	}

	expenses := append([]model.ExpenseCategory(nil), s.cfg.Expenses...)
	for _, er := range req.Expenses {
		e, err := s.cfg.Catalog.Resolve(er.Name)
		if err != nil {
			return model.Snapshot{}, err
		}
		for i := range expenses {
			if expenses[i].Name != e.Name {
				continue
			}
			if er.Active != nil {
				expenses[i].Active = *er.Active
			}
			if er.Amount != nil {
				expenses[i].Amount = *er.Amount
			}
		}
	}

	return model.NewSnapshot(incomes, expenses, months)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidAmount),
		errors.Is(err, model.ErrInvalidHorizon),
		errors.Is(err, catalog.ErrUnknownCategory):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{
		Status:  status,
		Message: message,
	})
}
