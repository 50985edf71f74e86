// Package validation checks configuration structs and request input.
//
// Struct tag validation uses go-playground/validator with one extra tag,
// "depname", accepting dependency names. Programmatic validation collects
// field errors and turns them into a single AppError.
//
// # Struct Tag Validation
//
//	type RegistryConfig struct {
//	    Warm []string `mapstructure:"warm" validate:"dive,depname"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.DependencyName("name", c.Param("name"))
//	if appErr := v.Validate(); appErr != nil { ... }
package validation
