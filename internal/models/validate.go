package models

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var nonSpace = regexp.MustCompile(`\S`)

func init() {
	validate = validator.New()

	// String must contain at least one non-whitespace character.
	_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return nonSpace.MatchString(fl.Field().String())
	})
}

// ValidationError reports one or more schema violations in a payload or
// document. It is a caller error: the request is rejected, never retried.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid payload: " + strings.Join(e.Fields, "; ")
}

func newValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func structError(err error) *ValidationError {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return newValidationError(err.Error())
	}
	fields := make([]string, 0, len(verrs))
	for _, e := range verrs {
		fields = append(fields, fieldErrorToString(e))
	}
	return &ValidationError{Fields: fields}
}

func fieldErrorToString(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "notblank":
		return fmt.Sprintf("%s must not be blank", e.Field())
	case "min":
		if e.Kind().String() == "slice" {
			return fmt.Sprintf("%s must not be empty", e.Field())
		}
		return fmt.Sprintf("%s is too short", e.Field())
	case "max":
		return fmt.Sprintf("%s is too long", e.Field())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", e.Field(), e.Param())
	case "gte":
		return fmt.Sprintf("%s must not be negative", e.Field())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", e.Field(), e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", e.Field(), e.Param())
	default:
		return fmt.Sprintf("%s is invalid", e.Field())
	}
}

// hasMember reports whether id references one of members.
func hasMember(id string, members []GroupMember) bool {
	for _, m := range members {
		if m.ID == id {
			return true
		}
	}
	return false
}

// Normalize applies schema defaults in place: missing currency becomes "INR"
// and a zero quantity becomes 1. Numeric defaults (tax, sgst, cgst, discount)
// are the zero value and need no filling.
func (d *ExpenseDocument) Normalize() {
	if d.Currency == "" {
		d.Currency = "INR"
	}
	for i := range d.Items {
		if d.Items[i].Qty == 0 {
			d.Items[i].Qty = 1
		}
	}
}

// Validate checks the document against the receipt schema.
func (d *ExpenseDocument) Validate() error {
	if err := validate.Struct(d); err != nil {
		return structError(err)
	}
	return nil
}

// Validate checks group shape and that PayerID references a member.
func (g *Group) Validate() error {
	if err := validate.Struct(g); err != nil {
		return structError(err)
	}
	if !hasMember(g.PayerID, g.Members) {
		return newValidationError(fmt.Sprintf("payerId %q is not a group member", g.PayerID))
	}
	return nil
}

// Normalize applies schema defaults to the payload in place.
func (p *InvitePayload) Normalize() {
	p.Expense.Normalize()
}

// Normalized returns a deep copy of the payload with defaults applied,
// leaving the receiver untouched. Signing works on this copy so that the
// canonical bytes never depend on which optional fields the caller omitted.
func (p *InvitePayload) Normalized() *InvitePayload {
	out := *p
	out.Members = append([]GroupMember(nil), p.Members...)
	out.Expense.Items = append([]LineItem(nil), p.Expense.Items...)
	if p.Expense.ServiceCharge != nil {
		sc := *p.Expense.ServiceCharge
		out.Expense.ServiceCharge = &sc
	}
	out.Normalize()
	return &out
}

// Validate checks the payload against the invite schema, including that
// PayerID references one of Members. Structurally invalid payloads are a
// fatal verification failure, never a partial recovery.
func (p *InvitePayload) Validate() error {
	if err := validate.Struct(p); err != nil {
		return structError(err)
	}
	if !hasMember(p.PayerID, p.Members) {
		return newValidationError(fmt.Sprintf("payerId %q is not a group member", p.PayerID))
	}
	return nil
}

// Normalize applies schema defaults to the snapshot in place.
func (s *ExpenseSnapshot) Normalize() {
	s.Expense.Normalize()
}

// Validate checks the snapshot against the persistence schema.
func (s *ExpenseSnapshot) Validate() error {
	if err := validate.Struct(s); err != nil {
		return structError(err)
	}
	if !hasMember(s.PayerID, s.Members) {
		return newValidationError(fmt.Sprintf("payerId %q is not a group member", s.PayerID))
	}
	return nil
}
