package handlers

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"geomaqui-os/internal/core/domain"
	"geomaqui-os/internal/core/services"
	"geomaqui-os/internal/pkg/pagination"
	"geomaqui-os/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ScheduleHandler handles service order endpoints
type ScheduleHandler struct {
	scheduleService *services.ScheduleService
	receiptService  *services.ReceiptService
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(scheduleService *services.ScheduleService, receiptService *services.ReceiptService) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleService: scheduleService,
		receiptService:  receiptService,
	}
}

// ConcludeRequest represents conclusion request body. The final value
// is raw because clients send it either as a number or as the string
// typed into the form field.
type ConcludeRequest struct {
	WorkDoneDescription string          `json:"workDoneDescription"`
	FinalValue          json.RawMessage `json:"finalValue"`
}

// scheduleError maps lifecycle errors to HTTP responses
func scheduleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrScheduleNotFound):
		return response.NotFound(c, "Schedule not found")
	case errors.Is(err, domain.ErrInvalidTransition):
		return response.Conflict(c, "Operation not allowed in current status")
	case errors.Is(err, domain.ErrMissingSelection):
		return response.BadRequest(c, "A valid technician must be selected")
	case errors.Is(err, domain.ErrSelfTransfer):
		return response.BadRequest(c, "Schedule is already with this technician")
	case errors.Is(err, domain.ErrInvalidAmount):
		return response.BadRequest(c, "Value must be a non-negative number")
	case errors.Is(err, domain.ErrMissingFields):
		return response.BadRequest(c, "Required fields are missing")
	default:
		return response.InternalServerError(c, "Failed to process schedule")
	}
}

// Create handles booking a new service order
// @Summary Book service order
// @Description Create a new service order assigned to a technician
// @Tags Schedules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateScheduleInput true "Booking data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /schedules [post]
func (h *ScheduleHandler) Create(c *fiber.Ctx) error {
	var input services.CreateScheduleInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	sched, err := h.scheduleService.Create(c.Context(), actorFromCtx(c), &input)
	if err != nil {
		return scheduleError(c, err)
	}

	return response.Created(c, "Schedule created successfully", sched)
}

// List handles schedule listing
// @Summary List service orders
// @Description List schedules visible to the caller, newest first. Technicians only see their own.
// @Tags Schedules
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Router /schedules [get]
func (h *ScheduleHandler) List(c *fiber.Ctx) error {
	all := h.scheduleService.List(actorFromCtx(c), c.Query("status"))

	params := pagination.GetParams(c)
	start, end := params.Bounds(len(all))

	return response.Success(c, "", pagination.NewResponse(all[start:end], params, len(all)))
}

// Get handles fetching a single schedule
// @Summary Get service order
// @Tags Schedules
// @Produce json
// @Security BearerAuth
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /schedules/{id} [get]
func (h *ScheduleHandler) Get(c *fiber.Ctx) error {
	sched, err := h.scheduleService.Get(actorFromCtx(c), c.Params("id"))
	if err != nil {
		return scheduleError(c, err)
	}
	return response.Success(c, "", sched)
}

// Accept handles accepting a schedule
// @Summary Accept service order
// @Description Move a pending or rescheduled order to ACCEPTED
// @Tags Schedules
// @Produce json
// @Security BearerAuth
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /schedules/{id}/accept [post]
func (h *ScheduleHandler) Accept(c *fiber.Ctx) error {
	sched, err := h.scheduleService.Accept(c.Context(), actorFromCtx(c), c.Params("id"))
	if err != nil {
		return scheduleError(c, err)
	}
	return response.Success(c, "Schedule accepted", sched)
}

// Conclude handles concluding a schedule
// @Summary Conclude service order
// @Description Finish an accepted order with the technical report and charged value
// @Tags Schedules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Schedule ID"
// @Param body body ConcludeRequest true "Conclusion data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /schedules/{id}/conclude [post]
func (h *ScheduleHandler) Conclude(c *fiber.Ctx) error {
	var req ConcludeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	// The final value arrives as a form field, so a quoted number is
	// accepted alongside a plain one. A missing value is not a free
	// conclusion; the charge must be stated, even when it is zero.
	raw := strings.Trim(string(req.FinalValue), `"`)
	if raw == "" || raw == "null" {
		return response.BadRequest(c, "Value must be a non-negative number")
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return response.BadRequest(c, "Value must be a non-negative number")
	}

	input := services.ConcludeInput{
		WorkDoneDescription: req.WorkDoneDescription,
		FinalValue:          value,
	}
	sched, err := h.scheduleService.Conclude(c.Context(), actorFromCtx(c), c.Params("id"), &input)
	if err != nil {
		return scheduleError(c, err)
	}
	return response.Success(c, "Schedule concluded", sched)
}

// Reschedule handles parking a schedule for a new slot
// @Summary Reschedule service order
// @Tags Schedules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Schedule ID"
// @Param body body services.RescheduleInput false "New slot"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /schedules/{id}/reschedule [post]
func (h *ScheduleHandler) Reschedule(c *fiber.Ctx) error {
	var input services.RescheduleInput
	if err := c.BodyParser(&input); err != nil && len(c.Body()) > 0 {
		return response.BadRequest(c, "Invalid request body")
	}

	sched, err := h.scheduleService.Reschedule(c.Context(), actorFromCtx(c), c.Params("id"), &input)
	if err != nil {
		return scheduleError(c, err)
	}
	return response.Success(c, "Schedule rescheduled", sched)
}

// Transfer handles reassigning a schedule
// @Summary Transfer service order
// @Description Reassign the order to another technician, logging the transfer
// @Tags Schedules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Schedule ID"
// @Param body body services.TransferInput true "Transfer data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /schedules/{id}/transfer [post]
func (h *ScheduleHandler) Transfer(c *fiber.Ctx) error {
	var input services.TransferInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	sched, err := h.scheduleService.Transfer(c.Context(), actorFromCtx(c), c.Params("id"), &input)
	if err != nil {
		return scheduleError(c, err)
	}
	return response.Success(c, "Schedule transferred", sched)
}

// Document renders the printable OS document
// @Summary Render OS document
// @Description Render the printable service order document as HTML
// @Tags Schedules
// @Produce html
// @Security BearerAuth
// @Param id path string true "Schedule ID"
// @Success 200 {string} string "HTML document"
// @Failure 404 {object} response.Response
// @Router /schedules/{id}/document [get]
func (h *ScheduleHandler) Document(c *fiber.Ctx) error {
	html, err := h.receiptService.RenderDocument(actorFromCtx(c), c.Params("id"))
	if err != nil {
		return scheduleError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(html)
}

// Receipt renders the booking receipt
// @Summary Render booking receipt
// @Description Render the booking receipt with the short protocol as HTML
// @Tags Schedules
// @Produce html
// @Security BearerAuth
// @Param id path string true "Schedule ID"
// @Success 200 {string} string "HTML document"
// @Failure 404 {object} response.Response
// @Router /schedules/{id}/receipt [get]
func (h *ScheduleHandler) Receipt(c *fiber.Ctx) error {
	html, err := h.receiptService.RenderReceipt(actorFromCtx(c), c.Params("id"))
	if err != nil {
		return scheduleError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(html)
}
