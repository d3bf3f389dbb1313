package handlers

import (
	"errors"

	domainerrors "falko/internal/errors"
	"falko/internal/middleware"
	"falko/internal/models"
	"falko/internal/services/returns"
	"falko/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type ReturnsHandler struct {
	returnsService returns.Service
}

func NewReturnsHandler(returnsService returns.Service) *ReturnsHandler {
	return &ReturnsHandler{returnsService: returnsService}
}

type returnItemInput struct {
	VariantID string `json:"variant_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
	UnitPrice int64  `json:"unit_price" validate:"required,gt=0"`
	Title     string `json:"title" validate:"required"`
}

type createReturnInput struct {
	OrderID            string            `json:"order_id" validate:"required"`
	Items              []returnItemInput `json:"items" validate:"required,min=1,dive"`
	ReasonCode         string            `json:"reason_code" validate:"required"`
	SatisfactionRating *int              `json:"satisfaction_rating" validate:"omitempty,min=1,max=5"`
	SizeIssue          string            `json:"size_issue"`
	QualityIssue       string            `json:"quality_issue"`
	Description        string            `json:"description"`
	RefundMethod       string            `json:"refund_method" validate:"required,oneof=card loyalty_points"`
}

// CreateReturn handles POST /store/returns.
func (h *ReturnsHandler) CreateReturn(c *fiber.Ctx) error {
	customerID, ok := middleware.CustomerID(c)
	if !ok {
		return utils.Unauthorized(c, "customer authentication required")
	}

	var input createReturnInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid_data", "invalid request format")
	}
	if err := validate.Struct(input); err != nil {
		return utils.BadRequest(c, "invalid_data", err.Error())
	}

	items := make([]models.ReturnItem, len(input.Items))
	for i, it := range input.Items {
		items[i] = models.ReturnItem{
			VariantID: it.VariantID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Title:     it.Title,
		}
	}

	ret, err := h.returnsService.CreateReturn(c.Context(), returns.CreateReturnRequest{
		OrderID:            input.OrderID,
		CustomerID:         customerID,
		Items:              items,
		ReasonCode:         input.ReasonCode,
		SatisfactionRating: input.SatisfactionRating,
		SizeIssue:          input.SizeIssue,
		QualityIssue:       input.QualityIssue,
		Description:        input.Description,
		RefundMethod:       input.RefundMethod,
	})
	if err != nil {
		var invalid *returns.InvalidRequestError
		if errors.As(err, &invalid) {
			return utils.BadRequest(c, "invalid_data", invalid.Error())
		}
		if errors.Is(err, domainerrors.ErrOrderNotFound) {
			return utils.NotFound(c, domainerrors.ErrOrderNotFound.Code, domainerrors.ErrOrderNotFound.Message)
		}
		if errors.Is(err, domainerrors.ErrNotEligible) {
			return utils.DomainFail(c, fiber.StatusBadRequest, domainerrors.ErrNotEligible)
		}
		return utils.InternalError(c, "failed to create return")
	}

	return utils.Created(c, fiber.Map{"return": ret})
}

// ListReturns handles GET /store/returns for the authenticated customer.
func (h *ReturnsHandler) ListReturns(c *fiber.Ctx) error {
	customerID, ok := middleware.CustomerID(c)
	if !ok {
		return utils.Unauthorized(c, "customer authentication required")
	}

	rets, err := h.returnsService.ListCustomerReturns(c.Context(), customerID)
	if err != nil {
		return utils.InternalError(c, "failed to fetch returns")
	}
	return utils.Success(c, fiber.Map{"returns": rets})
}

// GetReturn handles GET /store/returns/:id. Customers can only read their
// own returns.
func (h *ReturnsHandler) GetReturn(c *fiber.Ctx) error {
	customerID, ok := middleware.CustomerID(c)
	if !ok {
		return utils.Unauthorized(c, "customer authentication required")
	}

	ret, err := h.returnsService.GetReturn(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domainerrors.ErrReturnNotFound) {
			return utils.NotFound(c, domainerrors.ErrReturnNotFound.Code, domainerrors.ErrReturnNotFound.Message)
		}
		return utils.InternalError(c, "failed to fetch return")
	}
	if ret.CustomerID != customerID {
		return utils.NotFound(c, domainerrors.ErrReturnNotFound.Code, domainerrors.ErrReturnNotFound.Message)
	}

	return utils.Success(c, fiber.Map{"return": ret})
}

// CheckEligibility handles GET /store/returns/eligibility/:order_id.
func (h *ReturnsHandler) CheckEligibility(c *fiber.Ctx) error {
	if _, ok := middleware.CustomerID(c); !ok {
		return utils.Unauthorized(c, "customer authentication required")
	}

	eligible, err := h.returnsService.IsOrderEligibleForReturn(c.Context(), c.Params("order_id"))
	if err != nil {
		if errors.Is(err, domainerrors.ErrOrderNotFound) {
			return utils.NotFound(c, domainerrors.ErrOrderNotFound.Code, domainerrors.ErrOrderNotFound.Message)
		}
		return utils.InternalError(c, "failed to check eligibility")
	}

	return utils.Success(c, fiber.Map{"eligible": eligible})
}
