// Initium
// Copyright (c) 2026 The Initium Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Initium.
//
// Initium is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Initium is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Initium.  If not, see <http://www.gnu.org/licenses/>.

// Package validation checks request structs with go-playground/validator
// and turns failures into per-field messages.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/initium-app/initium/pkg/launchers"
)

var (
	ErrMissingParams = errors.New("missing params")
	ErrInvalidParams = errors.New("invalid params")
)

const MaxLauncherIDLength = 128

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// use json names in messages so they match what the caller sent
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("launchtype", validateLaunchType)
	_ = v.RegisterValidation("launcherid", validateLauncherID)
	_ = v.RegisterValidation("envkey", validateEnvKey)

	return &Validator{validate: v}
}

// DefaultValidator is shared by every request handler.
var DefaultValidator = NewValidator()

// Validate returns an *Error listing every failed field, or nil.
func (v *Validator) Validate(params any) error {
	if err := v.validate.Struct(params); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return NewError(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// ValidateAndUnmarshal decodes JSON params into dest and validates it.
func ValidateAndUnmarshal[T any](params json.RawMessage, dest *T) error {
	if len(params) == 0 {
		return ErrMissingParams
	}
	if err := json.Unmarshal(params, dest); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return DefaultValidator.Validate(dest)
}

func validateLaunchType(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	_, err := launchers.ParseLaunchType(val)
	return err == nil
}

// validateLauncherID rejects ids that would be awkward in URLs, logs and
// CLI arguments: surrounding whitespace, control characters, slashes or
// excessive length.
func validateLauncherID(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	if len(val) > MaxLauncherIDLength || strings.TrimSpace(val) != val {
		return false
	}
	return !strings.ContainsFunc(val, func(r rune) bool {
		return unicode.IsControl(r) || r == '/' || r == '\\'
	})
}

func validateEnvKey(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return false
	}
	return !strings.ContainsAny(val, "=\x00")
}
