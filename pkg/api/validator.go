package api

import "errors"

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

func (p DirectionPayload) Validate() error {
	if p.Dx == 0 && p.Dy == 0 {
		return errors.New("movement vector cannot be zero")
	}
	return validateCardinal(p.Dx, p.Dy)
}

func (p FacingPayload) Validate() error {
	if p.IsZero() {
		return nil
	}
	return validateCardinal(p.Dx, p.Dy)
}

// validateCardinal: движение только по четырем направлениям
func validateCardinal(dx, dy int) error {
	if dx < -1 || dx > 1 || dy < -1 || dy > 1 {
		return errors.New("movement step too large")
	}
	if dx != 0 && dy != 0 {
		return errors.New("diagonal movement is not allowed")
	}
	return nil
}
