// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// validate is shared by all handlers; validator caches struct metadata.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// request is implemented by every JSON request body.
type request interface {
	normalize()
}

type createCategoryRequest struct {
	Name     string     `json:"name" validate:"required,max=255"`
	ParentID *uuid.UUID `json:"parentId"`
}

func (r *createCategoryRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

type updateCategoryRequest struct {
	Name     *string      `json:"name" validate:"omitempty,min=1,max=255"`
	ParentID optionalUUID `json:"parentId"`
}

func (r *updateCategoryRequest) normalize() {
	trimPtr(r.Name)
}

type createBookRequest struct {
	Name       string    `json:"name" validate:"required,max=255"`
	CategoryID uuid.UUID `json:"categoryId" validate:"required"`
}

func (r *createBookRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

type updateBookRequest struct {
	Name       *string    `json:"name" validate:"omitempty,min=1,max=255"`
	CategoryID *uuid.UUID `json:"categoryId"`
}

func (r *updateBookRequest) normalize() {
	trimPtr(r.Name)
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

// optionalUUID tells an absent field apart from an explicit null.
// Set is true whenever the field appears in the body; Value is nil for null.
type optionalUUID struct {
	Set   bool
	Value *uuid.UUID
}

func (o *optionalUUID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var id uuid.UUID
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	o.Value = &id
	return nil
}

// validationMessage turns the first validator failure into a short message.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request"
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must not be empty", fe.Field())
	case "max":
		return fmt.Sprintf("%s is too long (max %s characters)", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
