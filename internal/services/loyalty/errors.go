package loyalty

import "fmt"

// InsufficientPointsError carries the shortfall so clients can render
// "you need N more points".
type InsufficientPointsError struct {
	Required  int
	Available int
}

func (e *InsufficientPointsError) Error() string {
	return fmt.Sprintf("insufficient points: required %d, available %d", e.Required, e.Available)
}
