package inventory

import (
	"fmt"          // Length message
	"math"         // Finite number check
	"strconv"      // Numeric coercion
	"strings"      // Whitespace trimming
	"unicode/utf8" // Name length in characters

	"vegetable_inventory/internal/domain" // Importing domain models

	"github.com/pkg/errors" // Validation sentinels
)

// User-visible validation messages
const (
	MissingFieldMessage = "You must give a name and a quantity for the vegetable!"
	TypeCoercionMessage = "Quantity must be an integer, and price must be a float."
)

// NameTooLongMessage is shown for names longer than the name column
var NameTooLongMessage = fmt.Sprintf("The vegetable name cannot be longer than %d characters.", domain.MaxNameLength)

var (
	// ErrMissingField means name or quantity was empty or absent
	ErrMissingField = errors.New("missing name or quantity")
	// ErrTypeCoercion means quantity is not an integer or price is not a float
	ErrTypeCoercion = errors.New("quantity or price is not numeric")
	// ErrNameTooLong means the name does not fit the name column
	ErrNameTooLong = errors.New("name is too long")
)

// VegetableForm is the raw submitted vegetable form
type VegetableForm struct {
	Name     string `form:"name"`     // Vegetable name
	Quantity string `form:"quantity"` // Integer quantity
	Price    string `form:"price"`    // Float unit price
}

// VegetableInput is a validated vegetable ready to persist
type VegetableInput struct {
	Name       string
	Quantity   int
	Price      float64
	TotalValue float64
}

// Parse validates the form and computes the total value
func (f VegetableForm) Parse() (VegetableInput, error) {
	name := strings.TrimSpace(f.Name)         // Whitespace-only names count as missing
	quantity := strings.TrimSpace(f.Quantity) // Surrounding spaces are tolerated
	if name == "" || quantity == "" {
		return VegetableInput{}, ErrMissingField
	}
	if utf8.RuneCountInString(name) > domain.MaxNameLength {
		return VegetableInput{}, ErrNameTooLong
	}
	q, err := strconv.Atoi(quantity)
	if err != nil {
		return VegetableInput{}, ErrTypeCoercion
	}
	p, err := strconv.ParseFloat(strings.TrimSpace(f.Price), 64)
	if err != nil || !isFinite(p) {
		return VegetableInput{}, ErrTypeCoercion // NaN and Inf cannot be stored or cached
	}
	total := domain.ComputeTotalValue(q, p)
	if !isFinite(total) {
		return VegetableInput{}, ErrTypeCoercion // Product overflows float64
	}
	return VegetableInput{
		Name:       name,
		Quantity:   q,
		Price:      p,
		TotalValue: total,
	}, nil
}

// Model converts the input into a Vegetable row
func (in VegetableInput) Model() domain.Vegetable {
	return domain.Vegetable{
		Name:       in.Name,
		Quantity:   in.Quantity,
		Price:      in.Price,
		TotalValue: in.TotalValue,
	}
}

// Message returns the user-visible text for a validation error, or "" for other errors
func Message(err error) string {
	switch {
	case errors.Is(err, ErrMissingField):
		return MissingFieldMessage
	case errors.Is(err, ErrTypeCoercion):
		return TypeCoercionMessage
	case errors.Is(err, ErrNameTooLong):
		return NameTooLongMessage
	default:
		return ""
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
