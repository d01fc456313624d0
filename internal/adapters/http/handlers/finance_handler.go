package handlers

import (
	"errors"
	"strconv"

	"geomaqui-os/internal/core/domain"
	"geomaqui-os/internal/core/services"
	"geomaqui-os/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// FinanceHandler handles earnings and ledger endpoints
type FinanceHandler struct {
	financeService *services.FinanceService
}

// NewFinanceHandler creates a new finance handler
func NewFinanceHandler(financeService *services.FinanceService) *FinanceHandler {
	return &FinanceHandler{financeService: financeService}
}

// windowParam reads the days query parameter, defaulting to 7
func windowParam(c *fiber.Ctx) int {
	days, err := strconv.Atoi(c.Query("days", "7"))
	if err != nil {
		return 0
	}
	return days
}

// Summary returns the earnings window for the caller
// @Summary Earnings summary
// @Description Technicians get their own totals and commission; admins get the company breakdown; attendants get activity counts
// @Tags Finance
// @Produce json
// @Security BearerAuth
// @Param days query int false "Window in days (1, 7 or 30)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /finance/summary [get]
func (h *FinanceHandler) Summary(c *fiber.Ctx) error {
	actor := actorFromCtx(c)
	days := windowParam(c)

	var (
		data interface{}
		err  error
	)
	switch actor.Role {
	case domain.RoleTechnician:
		data, err = h.financeService.TechnicianSummary(actor.ID, days)
	case domain.RoleAdmin:
		data, err = h.financeService.AdminSummary(days)
	default:
		data, err = h.financeService.Overview(days)
	}
	if err != nil {
		if errors.Is(err, domain.ErrInvalidWindow) {
			return response.BadRequest(c, "Window must be 1, 7 or 30 days")
		}
		return response.InternalServerError(c, "Failed to compute summary")
	}

	return response.Success(c, "", data)
}

// TechnicianSummary returns one technician's window (admin only)
// @Summary Technician earnings
// @Tags Finance
// @Produce json
// @Security BearerAuth
// @Param id path string true "Technician ID"
// @Param days query int false "Window in days (1, 7 or 30)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /finance/technicians/{id} [get]
func (h *FinanceHandler) TechnicianSummary(c *fiber.Ctx) error {
	data, err := h.financeService.TechnicianSummary(c.Params("id"), windowParam(c))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidWindow) {
			return response.BadRequest(c, "Window must be 1, 7 or 30 days")
		}
		return response.InternalServerError(c, "Failed to compute summary")
	}
	return response.Success(c, "", data)
}

// RecordSale registers a store sale
// @Summary Record sale
// @Tags Finance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.RecordSaleInput true "Sale data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /finance/sales [post]
func (h *FinanceHandler) RecordSale(c *fiber.Ctx) error {
	var input services.RecordSaleInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	sale, err := h.financeService.RecordSale(c.Context(), actorFromCtx(c), &input)
	if err != nil {
		return financeError(c, err)
	}
	return response.Created(c, "Sale recorded", sale)
}

// ListSales lists all sales
// @Summary List sales
// @Tags Finance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /finance/sales [get]
func (h *FinanceHandler) ListSales(c *fiber.Ctx) error {
	return response.Success(c, "", fiber.Map{"sales": h.financeService.ListSales()})
}

// RecordExpense registers an operational expense
// @Summary Record expense
// @Tags Finance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.RecordExpenseInput true "Expense data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /finance/expenses [post]
func (h *FinanceHandler) RecordExpense(c *fiber.Ctx) error {
	var input services.RecordExpenseInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	expense, err := h.financeService.RecordExpense(c.Context(), &input)
	if err != nil {
		return financeError(c, err)
	}
	return response.Created(c, "Expense recorded", expense)
}

// ListExpenses lists all expenses
// @Summary List expenses
// @Tags Finance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /finance/expenses [get]
func (h *FinanceHandler) ListExpenses(c *fiber.Ctx) error {
	return response.Success(c, "", fiber.Map{"expenses": h.financeService.ListExpenses()})
}

// RecordPayment registers a commission payout
// @Summary Record commission payment
// @Tags Finance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.RecordPaymentInput true "Payment data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /finance/payments [post]
func (h *FinanceHandler) RecordPayment(c *fiber.Ctx) error {
	var input services.RecordPaymentInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	payment, err := h.financeService.RecordPayment(c.Context(), &input)
	if err != nil {
		return financeError(c, err)
	}
	return response.Created(c, "Payment recorded", payment)
}

// ListPayments lists all commission payments
// @Summary List commission payments
// @Tags Finance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /finance/payments [get]
func (h *FinanceHandler) ListPayments(c *fiber.Ctx) error {
	return response.Success(c, "", fiber.Map{"payments": h.financeService.ListPayments()})
}

// financeError maps finance errors to HTTP responses
func financeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		return response.BadRequest(c, "Value must be a non-negative number")
	case errors.Is(err, domain.ErrInvalidCategory):
		return response.BadRequest(c, "Invalid expense category")
	case errors.Is(err, domain.ErrMissingFields):
		return response.BadRequest(c, "Required fields are missing")
	case errors.Is(err, domain.ErrUserNotFound):
		return response.NotFound(c, "User not found")
	default:
		return response.InternalServerError(c, "Failed to record entry")
	}
}
