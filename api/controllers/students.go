package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vinzencor/student-management-backend/api/responses"
	"github.com/vinzencor/student-management-backend/internal/students"
	pkgerrors "github.com/vinzencor/student-management-backend/pkg/errors"
	"github.com/vinzencor/student-management-backend/pkg/logger"
)

// ListStudents returns the active roster.
func ListStudents(svc students.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "student service unavailable"))
			return
		}

		roster, err := svc.ListActive(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views := make([]studentView, 0, len(roster))
		for _, student := range roster {
			views = append(views, newStudentView(student))
		}
		responses.WriteSuccess(w, map[string]any{"students": views})
	}
}

// GetStudent returns a single student by id.
func GetStudent(svc students.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "student service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "studentID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid student id"))
			return
		}

		student, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"student": newStudentView(*student)})
	}
}
