package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vinzencor/student-management-backend/api/controllers"
	"github.com/vinzencor/student-management-backend/api/middleware"
	"github.com/vinzencor/student-management-backend/internal/fees"
	"github.com/vinzencor/student-management-backend/internal/receipts"
	"github.com/vinzencor/student-management-backend/internal/reminders"
	"github.com/vinzencor/student-management-backend/internal/students"
	"github.com/vinzencor/student-management-backend/pkg/config"
	"github.com/vinzencor/student-management-backend/pkg/db"
	"github.com/vinzencor/student-management-backend/pkg/logger"
	"github.com/vinzencor/student-management-backend/pkg/redis"
)

// RouterParams carries everything NewRouter needs to assemble the API.
type RouterParams struct {
	Config    *config.Config
	Logger    *logger.Logger
	DB        *db.Client
	Redis     *redis.Client
	Metrics   prometheus.Gatherer
	Fees      fees.Service
	Receipts  receipts.Service
	Reminders reminders.Service
	Students  students.Service
}

func NewRouter(p RouterParams) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(p.Logger),
		middleware.RequestID(p.Logger),
		middleware.Logging(p.Logger),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(p.Config))
		r.Get("/ready", controllers.HealthReady(p.Config, p.DB, p.Redis, p.Logger))
	})

	if p.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(p.Redis, p.Logger))

		r.Route("/students", func(r chi.Router) {
			r.Get("/", controllers.ListStudents(p.Students, p.Logger))
			r.Get("/{studentID}", controllers.GetStudent(p.Students, p.Logger))
			r.Get("/{studentID}/fees", controllers.ListStudentFees(p.Fees, p.Logger))
		})

		r.Route("/fees", func(r chi.Router) {
			r.Get("/", controllers.ListFees(p.Fees, p.Logger))
			r.Post("/", controllers.CreateFee(p.Fees, p.Logger))
			r.Post("/{feeID}/pay", controllers.PayFee(p.Fees, p.Logger))
		})

		r.Post("/payments", controllers.RecordPayment(p.Fees, p.Logger))

		r.Route("/receipts", func(r chi.Router) {
			r.Get("/", controllers.ListReceipts(p.Receipts, p.Logger))
			r.Get("/{receiptID}", controllers.GetReceipt(p.Receipts, p.Logger))
		})

		r.Route("/reminders", func(r chi.Router) {
			r.Post("/", controllers.SendReminder(p.Reminders, p.Logger))
			r.Post("/bulk", controllers.SendBulkReminders(p.Reminders, p.Logger))
		})
	})

	return r
}
