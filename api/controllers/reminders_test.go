package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	pkgerrors "github.com/vinzencor/student-management-backend/pkg/errors"
)

type testReminderService struct {
	sendFn     func(ctx context.Context, entryID uuid.UUID) error
	sendBulkFn func(ctx context.Context, entryIDs []uuid.UUID) (int, error)
}

func (s *testReminderService) SendReminder(ctx context.Context, entryID uuid.UUID) error {
	if s.sendFn != nil {
		return s.sendFn(ctx, entryID)
	}
	return nil
}

func (s *testReminderService) SendBulk(ctx context.Context, entryIDs []uuid.UUID) (int, error) {
	if s.sendBulkFn != nil {
		return s.sendBulkFn(ctx, entryIDs)
	}
	return len(entryIDs), nil
}

func TestSendReminderSuccess(t *testing.T) {
	feeID := uuid.New()
	called := false
	svc := &testReminderService{
		sendFn: func(ctx context.Context, entryID uuid.UUID) error {
			called = true
			if entryID != feeID {
				t.Fatalf("unexpected fee id %s", entryID)
			}
			return nil
		},
	}

	body := `{"fee_id":"` + feeID.String() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reminders", strings.NewReader(body))
	resp := httptest.NewRecorder()
	SendReminder(svc, testControllerLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if !called {
		t.Fatal("expected service called")
	}
}

func TestSendReminderSettledEntry(t *testing.T) {
	svc := &testReminderService{
		sendFn: func(ctx context.Context, entryID uuid.UUID) error {
			return pkgerrors.New(pkgerrors.CodeValidation, "fee entry is not outstanding")
		},
	}

	body := `{"fee_id":"` + uuid.NewString() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reminders", strings.NewReader(body))
	resp := httptest.NewRecorder()
	SendReminder(svc, testControllerLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestSendBulkRemindersPartialFailure(t *testing.T) {
	ids := []string{uuid.NewString(), uuid.NewString(), uuid.NewString()}
	svc := &testReminderService{
		sendBulkFn: func(ctx context.Context, entryIDs []uuid.UUID) (int, error) {
			if len(entryIDs) != 3 {
				t.Fatalf("unexpected batch size %d", len(entryIDs))
			}
			return 2, multierr.Append(nil, pkgerrors.New(pkgerrors.CodeDependency, "mail provider rejected message"))
		},
	}

	body := `{"fee_ids":["` + strings.Join(ids, `","`) + `"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reminders/bulk", strings.NewReader(body))
	resp := httptest.NewRecorder()
	SendBulkReminders(svc, testControllerLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data map[string]int `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data["sent"] != 2 || envelope.Data["failed"] != 1 {
		t.Fatalf("unexpected counts %+v", envelope.Data)
	}
}

func TestSendBulkRemindersAllFailed(t *testing.T) {
	svc := &testReminderService{
		sendBulkFn: func(ctx context.Context, entryIDs []uuid.UUID) (int, error) {
			return 0, pkgerrors.New(pkgerrors.CodeDependency, "mail provider unavailable")
		},
	}

	body := `{"fee_ids":["` + uuid.NewString() + `"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reminders/bulk", strings.NewReader(body))
	resp := httptest.NewRecorder()
	SendBulkReminders(svc, testControllerLogger())(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
}

func TestSendBulkRemindersEmptyBatch(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reminders/bulk", strings.NewReader(`{"fee_ids":[]}`))
	resp := httptest.NewRecorder()
	SendBulkReminders(&testReminderService{}, testControllerLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}
