package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vinzencor/student-management-backend/api/responses"
	"github.com/vinzencor/student-management-backend/api/validators"
	"github.com/vinzencor/student-management-backend/internal/fees"
	"github.com/vinzencor/student-management-backend/pkg/enums"
	pkgerrors "github.com/vinzencor/student-management-backend/pkg/errors"
	"github.com/vinzencor/student-management-backend/pkg/logger"
)

type createFeeRequest struct {
	StudentID   string  `json:"student_id" validate:"required,uuid"`
	CourseID    *string `json:"course_id" validate:"omitempty,uuid"`
	Amount      int64   `json:"amount_cents" validate:"required,gt=0"`
	DueDate     string  `json:"due_date" validate:"required"`
	FeeType     string  `json:"fee_type"`
	Description *string `json:"description"`
}

type recordPaymentRequest struct {
	StudentID   string  `json:"student_id" validate:"required,uuid"`
	Amount      int64   `json:"amount_cents" validate:"required,gt=0"`
	Method      string  `json:"method"`
	Description *string `json:"description"`
}

type payFeeRequest struct {
	Amount      int64   `json:"amount_cents" validate:"required,gt=0"`
	Method      string  `json:"method"`
	Description *string `json:"description"`
}

// ListFees returns the aggregated per-student fee overview.
func ListFees(svc fees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "fee service unavailable"))
			return
		}

		views, err := svc.ListAggregated(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows := make([]aggregatedFeeRow, 0, len(views))
		for _, view := range views {
			rows = append(rows, newAggregatedFeeRow(view))
		}
		responses.WriteSuccess(w, map[string]any{"fees": rows})
	}
}

// ListStudentFees returns every ledger entry for one student.
func ListStudentFees(svc fees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "fee service unavailable"))
			return
		}

		studentID, err := uuid.Parse(chi.URLParam(r, "studentID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid student id"))
			return
		}

		entries, err := svc.ListStudentEntries(r.Context(), studentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views := make([]ledgerEntryView, 0, len(entries))
		for _, entry := range entries {
			views = append(views, newLedgerEntryView(entry))
		}
		responses.WriteSuccess(w, map[string]any{"fees": views})
	}
}

// CreateFee records a new ledger entry for a student.
func CreateFee(svc fees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "fee service unavailable"))
			return
		}

		var req createFeeRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		studentID, err := uuid.Parse(req.StudentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid student id"))
			return
		}

		dueDate, err := time.Parse(dateLayout, req.DueDate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "due_date must be YYYY-MM-DD"))
			return
		}

		input := fees.CreateEntryInput{
			StudentID:   studentID,
			AmountCents: req.Amount,
			DueDate:     dueDate,
			FeeType:     enums.FeeTypeTuition,
			Description: req.Description,
		}
		if req.CourseID != nil {
			courseID, err := uuid.Parse(*req.CourseID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid course id"))
				return
			}
			input.CourseID = &courseID
		}
		if req.FeeType != "" {
			feeType, err := enums.ParseFeeType(req.FeeType)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid fee type"))
				return
			}
			input.FeeType = feeType
		}

		entry, err := svc.CreateEntry(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"fee": newLedgerEntryView(*entry)})
	}
}

// RecordPayment applies a payment against a student's outstanding balance and
// returns the resulting receipt.
func RecordPayment(svc fees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "fee service unavailable"))
			return
		}

		var req recordPaymentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		studentID, err := uuid.Parse(req.StudentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid student id"))
			return
		}

		result, err := svc.RecordPayment(r.Context(), fees.RecordPaymentInput{
			StudentID:   studentID,
			AmountCents: req.Amount,
			Method:      enums.PaymentMethod(req.Method),
			Description: req.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newPaymentResultView(result))
	}
}

// PayFee applies a payment directly to one ledger entry.
func PayFee(svc fees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "fee service unavailable"))
			return
		}

		entryID, err := uuid.Parse(chi.URLParam(r, "feeID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid fee id"))
			return
		}

		var req payFeeRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.PayEntry(r.Context(), fees.PayEntryInput{
			EntryID:     entryID,
			AmountCents: req.Amount,
			Method:      enums.PaymentMethod(req.Method),
			Description: req.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newPaymentResultView(result))
	}
}
