package models

import "strings"

// Car is a read-only vehicle reference.
type Car struct {
	ID    int64  `json:"id"`
	Model string `json:"model"`
	Plate string `json:"plate"`
}

// ParseCarDescriptor splits a legacy free-text "model plate" descriptor into
// structured fields: the first word is the model, the second the plate, and
// anything after is ignored. It exists as a compatibility shim for callers
// that still send the combined form; new callers should send model and plate
// separately.
func ParseCarDescriptor(descriptor string) Car {
	parts := strings.Fields(descriptor)

	car := Car{}
	if len(parts) > 0 {
		car.Model = parts[0]
	}
	if len(parts) > 1 {
		car.Plate = parts[1]
	}
	return car
}

// Descriptor renders the combined "model plate" form.
func (c Car) Descriptor() string {
	if c.Plate == "" {
		return c.Model
	}
	return c.Model + " " + c.Plate
}
