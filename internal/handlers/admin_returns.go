package handlers

import (
	"errors"

	domainerrors "falko/internal/errors"
	"falko/internal/models"
	"falko/internal/repositories"
	"falko/internal/services/returns"
	"falko/internal/utils"
	"falko/internal/utils/pagination"

	"github.com/gofiber/fiber/v2"
)

type AdminReturnsHandler struct {
	returnsService returns.Service
}

func NewAdminReturnsHandler(returnsService returns.Service) *AdminReturnsHandler {
	return &AdminReturnsHandler{returnsService: returnsService}
}

// ListReturns handles GET /admin/returns with status/order/customer filters
// and pagination.
func (h *AdminReturnsHandler) ListReturns(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)

	filter := repositories.ReturnFilter{
		Status:     c.Query("status"),
		OrderID:    c.Query("order_id"),
		CustomerID: c.Query("customer_id"),
		Limit:      p.Limit,
		Offset:     p.Offset,
	}
	if filter.Status != "" && !models.ValidReturnStatus(filter.Status) {
		return utils.BadRequest(c, "invalid_data", "unknown status filter")
	}

	rets, total, err := h.returnsService.ListReturns(c.Context(), filter)
	if err != nil {
		return utils.InternalError(c, "failed to fetch returns")
	}

	p.Total = total
	return utils.Success(c, pagination.Response(p, rets))
}

// GetReturn handles GET /admin/returns/:id.
func (h *AdminReturnsHandler) GetReturn(c *fiber.Ctx) error {
	ret, err := h.returnsService.GetReturn(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domainerrors.ErrReturnNotFound) {
			return utils.NotFound(c, domainerrors.ErrReturnNotFound.Code, domainerrors.ErrReturnNotFound.Message)
		}
		return utils.InternalError(c, "failed to fetch return")
	}
	return utils.Success(c, fiber.Map{"return": ret})
}

// UpdateStatus handles PUT /admin/returns/:id/status. Moving a return to
// received triggers refund processing; if the refund fails the status change
// still stands and the response reports the degraded outcome.
func (h *AdminReturnsHandler) UpdateStatus(c *fiber.Ctx) error {
	var input struct {
		Status string `json:"status" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid_data", "invalid request format")
	}
	if err := validate.Struct(input); err != nil {
		return utils.BadRequest(c, "invalid_data", "status is required")
	}

	ret, err := h.returnsService.UpdateStatus(c.Context(), c.Params("id"), input.Status)
	if err != nil {
		if errors.Is(err, domainerrors.ErrInvalidStatus) {
			return utils.DomainFail(c, fiber.StatusBadRequest, domainerrors.ErrInvalidStatus)
		}
		if errors.Is(err, domainerrors.ErrReturnNotFound) {
			return utils.NotFound(c, domainerrors.ErrReturnNotFound.Code, domainerrors.ErrReturnNotFound.Message)
		}
		if ret != nil {
			// Status committed but the refund did not complete.
			return utils.Respond(c, fiber.StatusOK, fiber.Map{
				"return":       ret,
				"refund_error": err.Error(),
			})
		}
		return utils.InternalError(c, "failed to update return status")
	}

	return utils.Success(c, fiber.Map{"return": ret})
}

// ProcessRefund handles POST /admin/returns/:id/refund for manual retries.
func (h *AdminReturnsHandler) ProcessRefund(c *fiber.Ctx) error {
	if err := h.returnsService.ProcessRefund(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, domainerrors.ErrReturnNotFound) {
			return utils.NotFound(c, domainerrors.ErrReturnNotFound.Code, domainerrors.ErrReturnNotFound.Message)
		}
		if errors.Is(err, domainerrors.ErrRefundAlreadyProcessed) {
			return utils.DomainFail(c, fiber.StatusBadRequest, domainerrors.ErrRefundAlreadyProcessed)
		}
		return utils.InternalError(c, "failed to process refund")
	}
	return utils.Success(c, fiber.Map{"success": true})
}
