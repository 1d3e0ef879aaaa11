package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/socialbudget/backend/internal/draft"
	"github.com/socialbudget/backend/internal/models"
	"github.com/socialbudget/backend/internal/service"
)

// maxReceiptMemory bounds the in-memory part of a multipart upload.
const maxReceiptMemory = 32 << 20

type handlers struct {
	deps Dependencies
}

func (h *handlers) listEmployees(w http.ResponseWriter, r *http.Request) {
	idx, err := h.deps.Expenses.RosterIndex(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load employees")
		return
	}
	writeJSON(w, http.StatusOK, idx.Employees())
}

func (h *handlers) listExpenses(w http.ResponseWriter, r *http.Request) {
	year, quarter, err := parseYearQuarter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	expenses, err := h.deps.Expenses.ListQuarter(r.Context(), year, quarter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load expenses")
		return
	}
	writeJSON(w, http.StatusOK, models.ExpensesResponse{Expenses: expenses})
}

func (h *handlers) createExpense(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxReceiptMemory); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart form data")
		return
	}

	attendeeIDs := r.PostForm["attendeeIds[]"]
	if len(attendeeIDs) == 0 {
		attendeeIDs = r.PostForm["attendeeIds"]
	}

	d := draft.Draft{
		Date:        r.PostFormValue("date"),
		Description: r.PostFormValue("description"),
		AmountRaw:   r.PostFormValue("amount"),
		AttendeeIDs: attendeeIDs,
		ReceiptURL:  r.PostFormValue("receiptUrl"),
	}

	var receipt *service.Receipt
	if file, header, err := r.FormFile("receipt"); err == nil {
		defer file.Close()
		receipt = &service.Receipt{Filename: header.Filename, Data: file}
	}

	resp, err := h.deps.Expenses.Create(r.Context(), d, receipt)
	if err != nil {
		if isInputError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("failed to create expense", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save expense")
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *handlers) getBudgets(w http.ResponseWriter, r *http.Request) {
	year, quarter, err := parseYearQuarter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.deps.Budgets.Build(r.Context(), year, quarter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build budgets")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// parseYearQuarter reads year and quarter query parameters, defaulting to
// the current quarter.
func parseYearQuarter(r *http.Request) (int, int, error) {
	now := time.Now()
	year := now.Year()
	quarter := service.QuarterOf(now)

	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return 0, 0, fmt.Errorf("invalid year")
		}
		year = parsed
	}
	if raw := r.URL.Query().Get("quarter"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 4 {
			return 0, 0, fmt.Errorf("invalid quarter")
		}
		quarter = parsed
	}
	return year, quarter, nil
}

// isInputError separates problems the client can fix from server faults.
func isInputError(err error) bool {
	for _, inputErr := range []error{
		draft.ErrMissingReceipt,
		draft.ErrMissingDate,
		draft.ErrMissingDescription,
		draft.ErrInvalidAmount,
		draft.ErrNoAttendees,
		service.ErrBadDate,
		service.ErrUnknownAttendee,
	} {
		if errors.Is(err, inputErr) {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
