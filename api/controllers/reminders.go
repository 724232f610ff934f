package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/vinzencor/student-management-backend/api/responses"
	"github.com/vinzencor/student-management-backend/api/validators"
	"github.com/vinzencor/student-management-backend/internal/reminders"
	pkgerrors "github.com/vinzencor/student-management-backend/pkg/errors"
	"github.com/vinzencor/student-management-backend/pkg/logger"
)

type sendReminderRequest struct {
	FeeID string `json:"fee_id" validate:"required,uuid"`
}

type sendBulkRemindersRequest struct {
	FeeIDs []string `json:"fee_ids" validate:"required,min=1,dive,uuid"`
}

// SendReminder emails a fee reminder for one outstanding ledger entry.
func SendReminder(svc reminders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reminder service unavailable"))
			return
		}

		var req sendReminderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		feeID, err := uuid.Parse(req.FeeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid fee id"))
			return
		}

		if err := svc.SendReminder(r.Context(), feeID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"sent": 1})
	}
}

// SendBulkReminders emails reminders for a batch of entries and reports how
// many were delivered.
func SendBulkReminders(svc reminders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reminder service unavailable"))
			return
		}

		var req sendBulkRemindersRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		feeIDs := make([]uuid.UUID, 0, len(req.FeeIDs))
		for _, raw := range req.FeeIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid fee id"))
				return
			}
			feeIDs = append(feeIDs, id)
		}

		sent, err := svc.SendBulk(r.Context(), feeIDs)
		if err != nil && sent == 0 {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payload := map[string]any{"sent": sent, "requested": len(feeIDs)}
		if err != nil {
			payload["failed"] = len(feeIDs) - sent
		}
		responses.WriteSuccess(w, payload)
	}
}
