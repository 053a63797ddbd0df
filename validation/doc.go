// Package validation provides input validation for scenarios, requests and
// configuration.
//
// Struct tag validation uses go-playground/validator:
//
//	type Scenario struct {
//	    Take int    `json:"take" validate:"min=0"`
//	    Mode string `json:"mode" validate:"omitempty,oneof=lazy eager"`
//	}
//	err := validation.Validate(sc)
//
// Programmatic validation collects field errors:
//
//	v := validation.New()
//	v.Min("port", cfg.Port, 1)
//	err := v.Validate()
package validation
