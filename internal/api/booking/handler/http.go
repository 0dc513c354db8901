package bookingHandler

import (
	bookingService "github.com/ktrillos2/brahneyker/internal/api/booking/service"
	"github.com/ktrillos2/brahneyker/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type BookingHandler struct {
	log            *logrus.Logger
	validator      *validator.Validate
	middleware     middleware.Middleware
	bookingService bookingService.IBookingService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	bookingService bookingService.IBookingService,
) *BookingHandler {
	return &BookingHandler{
		log:            log,
		validator:      validate,
		middleware:     middleware,
		bookingService: bookingService,
	}
}

func (h *BookingHandler) Start(srv fiber.Router) {
	bookings := srv.Group("/bookings")

	bookings.Post("/webhook", h.middleware.NewGatewayAuth, h.middleware.NewRateLimiter, h.Webhook)
	bookings.Get("/appointments", h.middleware.NewGatewayAuth, h.ListAppointments)
	bookings.Get("/appointments/:id", h.middleware.NewGatewayAuth, h.GetAppointment)
	bookings.Patch("/appointments/:id/status", h.middleware.NewGatewayAuth, h.UpdateAppointmentStatus)
	bookings.Delete("/appointments/:id", h.middleware.NewGatewayAuth, h.DeleteAppointment)
}
