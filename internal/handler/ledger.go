package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"reflect"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/wicaksana/fee-engine/internal/domain"
	customError "github.com/wicaksana/fee-engine/pkg/errors"
	"github.com/wicaksana/fee-engine/pkg/response"
)

// LedgerService is the engine surface the HTTP layer consumes.
type LedgerService interface {
	GenerateMonthly(ctx context.Context, request *domain.GenerateMonthlyRequest) (*domain.GenerateMonthlyResult, error)
	ComputeArrears(ctx context.Context, studentID string, asOf time.Time) (*domain.ArrearsBreakdown, error)
	ProcessAggregatePayment(ctx context.Context, studentID string, request *domain.AggregatePaymentRequest) (*domain.AggregatePaymentResult, error)
	NormalizeDueDates(ctx context.Context) (*domain.NormalizeDueDatesResult, error)
	StudentAggregate(ctx context.Context, studentID, feeType string, month, year int) (*domain.StudentAggregate, error)
	AssessAbsenceFine(ctx context.Context, studentID string, month, year int) (*domain.FineAssessment, error)
	StudentLedger(ctx context.Context, studentID string) (*domain.LedgerView, error)
}

type LedgerHandler struct {
	service   LedgerService
	validator *validator.Validate
}

func NewLedgerHandler(service LedgerService) *LedgerHandler {
	return &LedgerHandler{
		service:   service,
		validator: newValidator(),
	}
}

// newValidator registers the decimal-aware rules the request tags use.
func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	v.RegisterValidation("decimal_gt", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(float64)
		if !ok {
			return false
		}
		param, err := strconv.ParseFloat(fl.Param(), 64)
		if err != nil {
			return false
		}
		return value > param
	})

	v.RegisterValidation("decimal_gte", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(float64)
		if !ok {
			return false
		}
		param, err := strconv.ParseFloat(fl.Param(), 64)
		if err != nil {
			return false
		}
		return value >= param
	})

	return v
}

// GenerateMonthly handles POST /fees/generate-monthly
func (h *LedgerHandler) GenerateMonthly(w http.ResponseWriter, r *http.Request) {
	var request domain.GenerateMonthlyRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	result, err := h.service.GenerateMonthly(r.Context(), &request)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.Success(w, result)
}

// GetArrears handles GET /students/{studentId}/arrears
func (h *LedgerHandler) GetArrears(w http.ResponseWriter, r *http.Request) {
	studentID := mux.Vars(r)["studentId"]

	asOf := time.Time{}
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.BadRequest(w, "as_of must be YYYY-MM-DD", err)
			return
		}
		asOf = parsed
	}

	breakdown, err := h.service.ComputeArrears(r.Context(), studentID, asOf)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.Success(w, breakdown)
}

// ProcessAggregatePayment handles PUT /students/{studentId}/payments/aggregate
func (h *LedgerHandler) ProcessAggregatePayment(w http.ResponseWriter, r *http.Request) {
	studentID := mux.Vars(r)["studentId"]

	var request domain.AggregatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	result, err := h.service.ProcessAggregatePayment(r.Context(), studentID, &request)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.Success(w, result)
}

// FixDueDates handles PUT /fees/fix-due-dates
func (h *LedgerHandler) FixDueDates(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.NormalizeDueDates(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.Success(w, result)
}

// GetStudentAggregate handles GET /students/{studentId}/aggregate
func (h *LedgerHandler) GetStudentAggregate(w http.ResponseWriter, r *http.Request) {
	studentID := mux.Vars(r)["studentId"]

	month, year, ok := monthYearParams(w, r)
	if !ok {
		return
	}

	aggregate, err := h.service.StudentAggregate(r.Context(), studentID, r.URL.Query().Get("fee_type"), month, year)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.Success(w, aggregate)
}

// GetAbsenceFine handles GET /students/{studentId}/fine
func (h *LedgerHandler) GetAbsenceFine(w http.ResponseWriter, r *http.Request) {
	studentID := mux.Vars(r)["studentId"]

	month, year, ok := monthYearParams(w, r)
	if !ok {
		return
	}

	assessment, err := h.service.AssessAbsenceFine(r.Context(), studentID, month, year)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.Success(w, assessment)
}

// GetLedger handles GET /students/{studentId}/ledger
func (h *LedgerHandler) GetLedger(w http.ResponseWriter, r *http.Request) {
	studentID := mux.Vars(r)["studentId"]

	view, err := h.service.StudentLedger(r.Context(), studentID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.Success(w, view)
}

// monthYearParams reads the month/year query pair, defaulting to the current
// period when absent.
func monthYearParams(w http.ResponseWriter, r *http.Request) (month, year int, ok bool) {
	now := time.Now()
	month, year = int(now.Month()), now.Year()

	if raw := r.URL.Query().Get("month"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 12 {
			response.BadRequest(w, "month must be 1-12", err)
			return 0, 0, false
		}
		month = parsed
	}

	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, "year must be numeric", err)
			return 0, 0, false
		}
		year = parsed
	}

	return month, year, true
}

func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case customError.IsValidation(err):
		response.BadRequest(w, "Payment rejected", err)
	case customError.IsNotFound(err):
		response.NotFound(w, err.Error())
	case customError.IsConflict(err):
		response.Conflict(w, "Period already generated", err)
	default:
		response.InternalServerError(w, "Operation failed", err)
	}
}
