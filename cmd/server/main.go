package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"servibook/internal/api"
	"servibook/internal/auth"
	"servibook/internal/repository"
	"servibook/internal/service"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
)

func main() {
	godotenv.Load()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	staffExclusive := os.Getenv("BOOKING_STAFF_EXCLUSIVE") == "true"
	pendingTTL := 24 * time.Hour
	if v := os.Getenv("PENDING_BOOKING_TTL_HOURS"); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil || hours <= 0 {
			log.Fatalf("Invalid PENDING_BOOKING_TTL_HOURS: %q", v)
		}
		pendingTTL = time.Duration(hours) * time.Hour
	}

	bookingRepo := repository.NewBookingRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	jobRepo := repository.NewJobRepository(db)
	adminAuthRepo := repository.NewAdminAuthRepository(db)

	sender := service.NewSenderService(catalogRepo)
	availabilitySvc := service.NewAvailabilityService(scheduleRepo, catalogRepo, bookingRepo)
	bookingSvc := service.NewBookingService(bookingRepo, catalogRepo, sender)
	bookingSvc.StaffExclusive = staffExclusive
	paymentSvc := service.NewPaymentService(paymentRepo, bookingRepo)
	adminAuthSvc := service.NewAdminAuthService(adminAuthRepo)
	jobSvc := service.NewJobService(jobRepo)

	availabilityHandler := api.NewAvailabilityHandler(availabilitySvc)
	bookingHandler := api.NewBookingHandler(bookingSvc)
	paymentHandler := api.NewPaymentHandler(paymentSvc)
	openingHoursHandler := api.NewOpeningHoursHandler(scheduleRepo)
	adminHandler := api.NewAdminHandler(paymentSvc)
	adminAuthHandler := api.NewAdminAuthHandler(adminAuthSvc)

	r := mux.NewRouter()
	r.Use(api.PrometheusMiddleware)
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Public endpoints
	pub := r.PathPrefix("/api").Subrouter()
	pub.HandleFunc("/businesses/{businessID}/services/{serviceID}/available-slots", availabilityHandler.GetAvailableSlots).Methods("GET")
	pub.HandleFunc("/businesses/{id}/opening-hours", openingHoursHandler.GetOpeningHours).Methods("GET")
	pub.HandleFunc("/businesses/{id}/bookings", bookingHandler.ListBusinessBookings).Methods("GET")
	pub.HandleFunc("/customers/{id}/bookings", bookingHandler.ListCustomerBookings).Methods("GET")
	pub.HandleFunc("/bookings", bookingHandler.CreateBooking).Methods("POST")
	pub.HandleFunc("/bookings/{id}", bookingHandler.GetBooking).Methods("GET")
	pub.HandleFunc("/bookings/{id}/status", bookingHandler.UpdateBookingStatus).Methods("PATCH")
	pub.HandleFunc("/bookings/{id}/cancel", bookingHandler.CancelBooking).Methods("PATCH")
	pub.HandleFunc("/bookings/{id}/reschedule", bookingHandler.RescheduleBooking).Methods("PATCH")
	pub.HandleFunc("/bookings/{id}/payments", paymentHandler.ListBookingPayments).Methods("GET")
	pub.HandleFunc("/payments", paymentHandler.CreatePayment).Methods("POST")
	pub.HandleFunc("/payments/{id}/status", paymentHandler.UpdatePaymentStatus).Methods("PATCH")

	// Admin endpoints (protected)
	r.HandleFunc("/admin/login", adminAuthHandler.Login).Methods("POST")
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.AdminAuthMiddleware)
	admin.HandleFunc("/register", adminAuthHandler.Register).Methods("POST")
	admin.HandleFunc("/businesses/{id}/opening-hours", openingHoursHandler.PutOpeningHours).Methods("PUT")
	admin.HandleFunc("/bookings/unpaid", adminHandler.ListUnpaidBookings).Methods("GET")
	admin.HandleFunc("/businesses/{id}/bookings/unpaid", adminHandler.ListUnpaidBookings).Methods("GET")
	admin.HandleFunc("/businesses/{id}/revenue", adminHandler.GetRevenue).Methods("GET")

	c := cron.New()
	c.AddFunc("@every 10m", func() {
		if err := jobSvc.CompleteElapsedBookings(); err != nil {
			log.Printf("Cron Job error: %v", err)
		}
	})
	c.AddFunc("@hourly", func() {
		if err := jobSvc.CancelStaleUnpaidBookings(pendingTTL); err != nil {
			log.Printf("Cron Job error: %v", err)
		}
	})
	c.Start()
	defer c.Stop()

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, cors(r)))
}
