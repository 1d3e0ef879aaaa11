// Package client is a typed client for the expense and budget API. It is
// what a form frontend talks through: load the roster and current figures,
// then submit a validated draft as a multipart post.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/socialbudget/backend/internal/draft"
	"github.com/socialbudget/backend/internal/models"
)

// SubmissionError is a rejected submission. The server's error message is
// carried verbatim so it can be shown to the user as-is.
type SubmissionError struct {
	Status  int
	Message string
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submission failed (%d): %s", e.Status, e.Message)
}

// Client talks to one social budget backend.
type Client struct {
	base string
	hc   *http.Client
}

// New creates a client for the backend at baseURL.
func New(baseURL string) *Client {
	return &Client{base: strings.TrimRight(baseURL, "/"), hc: &http.Client{}}
}

// Employees fetches the roster.
func (c *Client) Employees(ctx context.Context) ([]models.Employee, error) {
	var employees []models.Employee
	if err := c.getJSON(ctx, "/api/employees", nil, &employees); err != nil {
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}
	return employees, nil
}

// Expenses fetches the expense list for a quarter.
func (c *Client) Expenses(ctx context.Context, year, quarter int) (models.ExpensesResponse, error) {
	var resp models.ExpensesResponse
	if err := c.getJSON(ctx, "/api/expenses", quarterQuery(year, quarter), &resp); err != nil {
		return models.ExpensesResponse{}, fmt.Errorf("failed to load expenses: %w", err)
	}
	return resp, nil
}

// Budgets fetches the budget rollup for a quarter.
func (c *Client) Budgets(ctx context.Context, year, quarter int) (models.BudgetResponse, error) {
	var resp models.BudgetResponse
	if err := c.getJSON(ctx, "/api/budgets", quarterQuery(year, quarter), &resp); err != nil {
		return models.BudgetResponse{}, fmt.Errorf("failed to load budgets: %w", err)
	}
	return resp, nil
}

// SubmitExpense validates the draft locally and posts it as a multipart
// form, attaching the receipt file when given. The draft value is not
// modified: after a failure the caller still holds the filled-in draft and
// can retry without re-entering anything.
func (c *Client) SubmitExpense(ctx context.Context, d draft.Draft, receipt io.Reader) (models.ExpenseResponse, error) {
	if receipt != nil && d.ReceiptFilename == "" {
		d.ReceiptFilename = "receipt"
	}
	if err := draft.Validate(d); err != nil {
		return models.ExpenseResponse{}, err
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fields := map[string]string{
		"date":        d.Date,
		"description": d.Description,
		"amount":      d.AmountRaw,
		"receiptUrl":  strings.TrimSpace(d.ReceiptURL),
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return models.ExpenseResponse{}, fmt.Errorf("failed to build form: %w", err)
		}
	}
	for _, id := range d.AttendeeIDs {
		if err := writer.WriteField("attendeeIds[]", id); err != nil {
			return models.ExpenseResponse{}, fmt.Errorf("failed to build form: %w", err)
		}
	}
	if receipt != nil {
		part, err := writer.CreateFormFile("receipt", d.ReceiptFilename)
		if err != nil {
			return models.ExpenseResponse{}, fmt.Errorf("failed to build form: %w", err)
		}
		if _, err := io.Copy(part, receipt); err != nil {
			return models.ExpenseResponse{}, fmt.Errorf("failed to read receipt: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return models.ExpenseResponse{}, fmt.Errorf("failed to build form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/expenses", body)
	if err != nil {
		return models.ExpenseResponse{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.hc.Do(req)
	if err != nil {
		return models.ExpenseResponse{}, fmt.Errorf("submission failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.ExpenseResponse{}, &SubmissionError{
			Status:  resp.StatusCode,
			Message: decodeErrorMessage(resp.Body),
		}
	}

	var created models.ExpenseResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return models.ExpenseResponse{}, fmt.Errorf("failed to decode response: %w", err)
	}
	return created, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	target := c.base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, decodeErrorMessage(resp.Body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// decodeErrorMessage extracts the server's {"error": ...} body, falling
// back to the raw text.
func decodeErrorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return "unreadable error response"
	}
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(raw))
}

func quarterQuery(year, quarter int) url.Values {
	return url.Values{
		"year":    []string{strconv.Itoa(year)},
		"quarter": []string{strconv.Itoa(quarter)},
	}
}
