package bookingHandler

import (
	"errors"
	"time"

	contextPkg "github.com/ktrillos2/brahneyker/pkg/context"
	"github.com/ktrillos2/brahneyker/pkg/handlerUtil"
	"github.com/ktrillos2/brahneyker/pkg/log"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *BookingHandler) GetAppointment(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	id := ctx.Params("id")
	if id == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("appointment ID is required"), ctx.Path())
	}

	appointment, err := h.bookingService.GetAppointment(c, id)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_appointment")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, appointment)
	}
}

func (h *BookingHandler) ListAppointments(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	phone := ctx.Query("phone")
	if phone == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("phone query parameter is required"), ctx.Path())
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"phone":      phone,
	}).Debug("Processing list appointments request")

	appointments, err := h.bookingService.ListAppointmentsByPhone(c, phone)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "list_appointments")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, appointments)
	}
}

func (h *BookingHandler) UpdateAppointmentStatus(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	id := ctx.Params("id")
	if id == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("appointment ID is required"), ctx.Path())
	}

	var req struct {
		Status string `json:"status" validate:"required"`
	}
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "parse_request_body")
	}
	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.bookingService.UpdateAppointmentStatus(c, id, req.Status); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "update_appointment_status")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
			"message": "Appointment status updated successfully",
		})
	}
}

func (h *BookingHandler) DeleteAppointment(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	id := ctx.Params("id")
	if id == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("appointment ID is required"), ctx.Path())
	}

	if err := h.bookingService.DeleteAppointment(c, id); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "delete_appointment")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
			"message": "Appointment deleted successfully",
		})
	}
}
