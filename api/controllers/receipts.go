package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vinzencor/student-management-backend/api/responses"
	"github.com/vinzencor/student-management-backend/api/validators"
	"github.com/vinzencor/student-management-backend/internal/receipts"
	pkgerrors "github.com/vinzencor/student-management-backend/pkg/errors"
	"github.com/vinzencor/student-management-backend/pkg/logger"
	"github.com/vinzencor/student-management-backend/pkg/pagination"
)

// ListReceipts returns paginated payment receipts, newest first.
func ListReceipts(svc receipts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "receipt service unavailable"))
			return
		}

		input := receipts.ListReceiptsInput{}

		studentID, err := validators.ParseQueryUUID(r, "student_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.StudentID = studentID

		from, err := validators.ParseQueryDate(r, "from")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.From = from

		to, err := validators.ParseQueryDate(r, "to")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.To = to

		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 200)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.Limit = limit

		if cursor := strings.TrimSpace(r.URL.Query().Get("cursor")); cursor != "" {
			input.Cursor = cursor
		}

		records, next, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views := make([]receiptView, 0, len(records))
		for _, record := range records {
			views = append(views, newReceiptView(record))
		}
		payload := map[string]any{"receipts": views}
		if next != nil {
			payload["next_cursor"] = pagination.EncodeCursor(*next)
		}
		responses.WriteSuccess(w, payload)
	}
}

// GetReceipt returns a single receipt by id.
func GetReceipt(svc receipts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "receipt service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "receiptID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid receipt id"))
			return
		}

		receipt, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"receipt": newReceiptView(*receipt)})
	}
}
