package errors

var (
	ErrAccountNotFound = &DomainError{
		Code:    "ACCOUNT_NOT_FOUND",
		Message: "loyalty account not found",
	}
	ErrInsufficientPoints = &DomainError{
		Code:    "INSUFFICIENT_POINTS",
		Message: "insufficient loyalty points",
	}
	ErrRewardNotFound = &DomainError{
		Code:    "REWARD_NOT_FOUND",
		Message: "reward not found",
	}
	ErrRewardInactive = &DomainError{
		Code:    "REWARD_INACTIVE",
		Message: "reward is not active",
	}
	ErrRewardExpired = &DomainError{
		Code:    "REWARD_EXPIRED",
		Message: "reward is no longer valid",
	}
	ErrInvalidPoints = &DomainError{
		Code:    "INVALID_POINTS",
		Message: "points must be positive",
	}
)
