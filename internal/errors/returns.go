package errors

var (
	ErrReturnNotFound = &DomainError{
		Code:    "RETURN_NOT_FOUND",
		Message: "return not found",
	}
	ErrOrderNotFound = &DomainError{
		Code:    "ORDER_NOT_FOUND",
		Message: "order not found",
	}
	ErrNotEligible = &DomainError{
		Code:    "NOT_ELIGIBLE",
		Message: "order is not eligible for return (must be completed and within 14 days)",
	}
	ErrInvalidStatus = &DomainError{
		Code:    "INVALID_STATUS",
		Message: "unknown return status",
	}
	ErrRefundAlreadyProcessed = &DomainError{
		Code:    "REFUND_ALREADY_PROCESSED",
		Message: "refund has already been processed for this return",
	}
)
