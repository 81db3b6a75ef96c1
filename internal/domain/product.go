package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	MaxProductNameLen        = 40
	MaxProductDescriptionLen = 600

	priceMaxDigits     = 10
	priceDecimalPlaces = 2
)

const priceValueError = "cannot set a product price to a %s value, enter a value from 0.01"

type Product struct {
	ID          uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string          `json:"name" gorm:"type:varchar(40);not null"`
	ImageRef    string          `json:"imageRef" gorm:"type:varchar(255);not null"`
	Width       uint            `json:"width"`
	Height      uint            `json:"height"`
	Description string          `json:"description" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
}

// Validate runs every field rule and returns the first violation.
func (p *Product) Validate() error {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if utf8.RuneCountInString(name) > MaxProductNameLen {
		return &ValidationError{Field: "name", Message: fmt.Sprintf("name must be at most %d characters", MaxProductNameLen)}
	}
	if strings.TrimSpace(p.ImageRef) == "" {
		return &ValidationError{Field: "image", Message: "image is required"}
	}
	if utf8.RuneCountInString(p.Description) > MaxProductDescriptionLen {
		return &ValidationError{Field: "description", Message: fmt.Sprintf("description must be at most %d characters", MaxProductDescriptionLen)}
	}
	return ValidatePrice(p.Price)
}

// ValidatePrice accepts strictly positive prices that fit decimal(10,2).
// Negative and zero prices get distinct messages.
func ValidatePrice(price decimal.Decimal) error {
	if !price.Round(priceDecimalPlaces).Equal(price) {
		return &ValidationError{Field: "price", Message: fmt.Sprintf("ensure that there are no more than %d decimal places", priceDecimalPlaces)}
	}
	limit := decimal.New(1, priceMaxDigits-priceDecimalPlaces)
	if price.Abs().GreaterThanOrEqual(limit) {
		return &ValidationError{Field: "price", Message: fmt.Sprintf("ensure that there are no more than %d digits in total", priceMaxDigits)}
	}
	if price.IsNegative() {
		return &ValidationError{Field: "price", Message: fmt.Sprintf(priceValueError, "negative")}
	}
	if price.IsZero() {
		return &ValidationError{Field: "price", Message: fmt.Sprintf(priceValueError, "zero")}
	}
	return nil
}
