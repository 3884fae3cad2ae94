package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/noah-isme/inventory-api/internal/dto"
	"github.com/noah-isme/inventory-api/internal/models"
	appErrors "github.com/noah-isme/inventory-api/pkg/errors"
)

const (
	reasonInvalidID       = "Invalid ID. Must be greater than 0."
	reasonNameRequired    = "Item name is required."
	reasonNegativeQty     = "Quantity cannot be negative."
	reasonNegativePrice   = "Price cannot be negative."
	reasonInvalidItemBody = "Invalid inventory item."
)

var inventoryReasons = map[string]string{
	"id":       reasonInvalidID,
	"name":     reasonNameRequired,
	"quantity": reasonNegativeQty,
	"price":    reasonNegativePrice,
}

// InventoryValidator checks candidate items and lookup ids. Every rule is
// evaluated so a single response can list all violations.
type InventoryValidator struct {
	validate *validator.Validate
}

// NewInventoryValidator registers the inventory rules on validate.
func NewInventoryValidator(validate *validator.Validate) *InventoryValidator {
	if validate == nil {
		validate = validator.New()
	}
	validate.RegisterTagNameFunc(jsonFieldName)
	validate.RegisterCustomTypeFunc(moneyValue, models.Money{})
	// notblank is a fixed, valid tag name; registration cannot fail.
	_ = validate.RegisterValidation("notblank", validators.NotBlank)
	return &InventoryValidator{validate: validate}
}

// ValidateItem returns every rule the candidate breaks, in field order.
func (v *InventoryValidator) ValidateItem(req dto.CreateInventoryItemRequest) []appErrors.FieldViolation {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []appErrors.FieldViolation{{Reason: reasonInvalidItemBody}}
	}
	violations := make([]appErrors.FieldViolation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		reason, ok := inventoryReasons[fe.Field()]
		if !ok {
			reason = reasonInvalidItemBody
		}
		violations = append(violations, appErrors.FieldViolation{Field: fe.Field(), Reason: reason})
	}
	return violations
}

// ValidateID rejects ids that cannot key a stored item.
func (v *InventoryValidator) ValidateID(id int) []appErrors.FieldViolation {
	if err := v.validate.Var(id, "gt=0"); err != nil {
		return []appErrors.FieldViolation{{Field: "id", Reason: reasonInvalidID}}
	}
	return nil
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// moneyValue hands numeric tags the sign of the amount, so gte=0 holds
// exactly at any scale.
func moneyValue(field reflect.Value) interface{} {
	if m, ok := field.Interface().(models.Money); ok {
		return m.Sign()
	}
	return nil
}
