package controllers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vinzencor/student-management-backend/internal/fees"
	"github.com/vinzencor/student-management-backend/pkg/db/models"
)

const dateLayout = "2006-01-02"

// formatMoney renders integer cents as a fixed two-decimal string.
func formatMoney(cents int64) string {
	return decimal.NewFromInt(cents).Shift(-2).StringFixed(2)
}

type ledgerEntryView struct {
	ID          string  `json:"id"`
	StudentID   string  `json:"student_id"`
	CourseID    *string `json:"course_id,omitempty"`
	Amount      string  `json:"amount"`
	Paid        string  `json:"paid"`
	Outstanding string  `json:"outstanding"`
	DueDate     string  `json:"due_date"`
	PaidDate    *string `json:"paid_date,omitempty"`
	Status      string  `json:"status"`
	FeeType     string  `json:"fee_type"`
	Description *string `json:"description,omitempty"`
}

func newLedgerEntryView(entry models.LedgerEntry) ledgerEntryView {
	view := ledgerEntryView{
		ID:          entry.ID.String(),
		StudentID:   entry.StudentID.String(),
		Amount:      formatMoney(entry.AmountCents),
		Paid:        formatMoney(entry.PaidCents),
		Outstanding: formatMoney(entry.OutstandingCents()),
		DueDate:     entry.DueDate.Format(dateLayout),
		Status:      entry.Status.String(),
		FeeType:     entry.FeeType.String(),
		Description: entry.Description,
	}
	if entry.CourseID != nil {
		id := entry.CourseID.String()
		view.CourseID = &id
	}
	if entry.PaidDate != nil {
		paid := entry.PaidDate.Format(dateLayout)
		view.PaidDate = &paid
	}
	return view
}

type aggregatedFeeRow struct {
	StudentID       string            `json:"student_id"`
	StudentName     string            `json:"student_name"`
	Courses         []string          `json:"courses"`
	TotalAmount     string            `json:"total_amount"`
	TotalPaid       string            `json:"total_paid"`
	Remaining       string            `json:"remaining"`
	Status          string            `json:"status"`
	Expected        bool              `json:"expected"`
	EarliestDueDate string            `json:"earliest_due_date"`
	LatestPaidDate  *string           `json:"latest_paid_date,omitempty"`
	Entries         []ledgerEntryView `json:"entries"`
}

func newAggregatedFeeRow(view fees.AggregatedFeeView) aggregatedFeeRow {
	row := aggregatedFeeRow{
		StudentID:       view.Student.ID.String(),
		StudentName:     view.Student.FullName(),
		Courses:         make([]string, 0, len(view.Courses)),
		TotalAmount:     formatMoney(view.TotalAmountCents),
		TotalPaid:       formatMoney(view.TotalPaidCents),
		Remaining:       formatMoney(view.RemainingCents),
		Status:          view.Status.String(),
		Expected:        view.Expected,
		EarliestDueDate: view.EarliestDueDate.Format(dateLayout),
		Entries:         make([]ledgerEntryView, 0, len(view.Entries)),
	}
	for _, course := range view.Courses {
		row.Courses = append(row.Courses, course.Name)
	}
	if view.LatestPaidDate != nil {
		paid := view.LatestPaidDate.Format(dateLayout)
		row.LatestPaidDate = &paid
	}
	for _, entry := range view.Entries {
		row.Entries = append(row.Entries, newLedgerEntryView(entry))
	}
	return row
}

type receiptView struct {
	ID          string  `json:"id"`
	Number      string  `json:"number"`
	StudentID   string  `json:"student_id"`
	StudentName string  `json:"student_name"`
	CourseName  string  `json:"course_name"`
	Amount      string  `json:"amount"`
	PaymentDate string  `json:"payment_date"`
	Method      string  `json:"method"`
	Description *string `json:"description,omitempty"`
}

func newReceiptView(receipt models.Receipt) receiptView {
	return receiptView{
		ID:          receipt.ID.String(),
		Number:      receipt.Number,
		StudentID:   receipt.StudentID.String(),
		StudentName: receipt.StudentName,
		CourseName:  receipt.CourseName,
		Amount:      formatMoney(receipt.AmountCents),
		PaymentDate: receipt.PaymentDate.Format(time.RFC3339),
		Method:      receipt.Method.String(),
		Description: receipt.Description,
	}
}

type paymentResultView struct {
	Receipt        receiptView       `json:"receipt"`
	UpdatedEntries []ledgerEntryView `json:"updated_entries"`
	Allocated      string            `json:"allocated"`
	Surplus        string            `json:"surplus"`
}

func newPaymentResultView(result *fees.PaymentResult) paymentResultView {
	view := paymentResultView{
		Receipt:        newReceiptView(*result.Receipt),
		UpdatedEntries: make([]ledgerEntryView, 0, len(result.UpdatedEntries)),
		Allocated:      formatMoney(result.AllocatedCents),
		Surplus:        formatMoney(result.SurplusCents),
	}
	for _, entry := range result.UpdatedEntries {
		view.UpdatedEntries = append(view.UpdatedEntries, newLedgerEntryView(entry))
	}
	return view
}

type studentView struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Email           *string  `json:"email,omitempty"`
	Phone           *string  `json:"phone,omitempty"`
	AdmissionNumber *string  `json:"admission_number,omitempty"`
	Status          string   `json:"status"`
	Courses         []string `json:"courses"`
	GuardianName    *string  `json:"guardian_name,omitempty"`
}

func newStudentView(student models.Student) studentView {
	view := studentView{
		ID:              student.ID.String(),
		Name:            student.FullName(),
		Email:           student.Email,
		Phone:           student.Phone,
		AdmissionNumber: student.AdmissionNumber,
		Status:          student.Status.String(),
		Courses:         []string{},
	}
	if student.PrimaryCourse != nil {
		view.Courses = append(view.Courses, student.PrimaryCourse.Name)
	}
	for _, enrollment := range student.Enrollments {
		if enrollment.Course != nil && (student.PrimaryCourse == nil || enrollment.Course.ID != student.PrimaryCourse.ID) {
			view.Courses = append(view.Courses, enrollment.Course.Name)
		}
	}
	if student.Guardian != nil {
		name := student.Guardian.Name
		view.GuardianName = &name
	}
	return view
}
