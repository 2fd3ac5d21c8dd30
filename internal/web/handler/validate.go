package handler

import "github.com/go-playground/validator/v10"

// Validate is the shared request validator instance.
var Validate = validator.New()
