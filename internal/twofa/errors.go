package twofa

import "errors"

var errValidatorRequired = errors.New("twofa: validator is required")
