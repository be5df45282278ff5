package inventory

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVegetableForm_Parse_Valid(t *testing.T) {
	in, err := VegetableForm{Name: "Potato", Quantity: "4", Price: "2.5"}.Parse()
	require.NoError(t, err)
	assert.Equal(t, "Potato", in.Name)
	assert.Equal(t, 4, in.Quantity)
	assert.Equal(t, 2.5, in.Price)
	assert.Equal(t, 10.0, in.TotalValue)
}

func TestVegetableForm_Parse_TotalIsProduct(t *testing.T) {
	pairs := []struct {
		quantity string
		price    string
		q        int
		p        float64
	}{
		{"3", "0.1", 3, 0.1},
		{"0", "9.99", 0, 9.99},
		{"7", "-1.5", 7, -1.5},
		{"123456", "0.07", 123456, 0.07},
		{" 12 ", " 1e2 ", 12, 100},
	}
	for _, tc := range pairs {
		in, err := VegetableForm{Name: "Leek", Quantity: tc.quantity, Price: tc.price}.Parse()
		require.NoError(t, err)
		assert.Equal(t, float64(tc.q)*tc.p, in.TotalValue)
		assert.Equal(t, in.Model().TotalValue, in.TotalValue)
	}
}

func TestVegetableForm_Parse_MissingField(t *testing.T) {
	forms := []VegetableForm{
		{Name: "", Quantity: "1", Price: "1"},
		{Name: "Carrot", Quantity: "", Price: "1"},
		{Name: "   ", Quantity: "1", Price: "1"},
		{},
	}
	for _, f := range forms {
		_, err := f.Parse()
		assert.ErrorIs(t, err, ErrMissingField)
		assert.Equal(t, MissingFieldMessage, Message(err))
	}
}

func TestVegetableForm_Parse_TypeCoercion(t *testing.T) {
	forms := []VegetableForm{
		{Name: "Carrot", Quantity: "abc", Price: "1"},
		{Name: "Carrot", Quantity: "1.5", Price: "1"},
		{Name: "Carrot", Quantity: "1", Price: "cheap"},
		{Name: "Carrot", Quantity: "1", Price: ""},
		{Name: "Carrot", Quantity: "99999999999999999999", Price: "1"},
		{Name: "Carrot", Quantity: "1", Price: "NaN"},
		{Name: "Carrot", Quantity: "1", Price: "Inf"},
		{Name: "Carrot", Quantity: "1", Price: "-infinity"},
		{Name: "Carrot", Quantity: "10", Price: "1.7e308"},
	}
	for _, f := range forms {
		_, err := f.Parse()
		assert.ErrorIs(t, err, ErrTypeCoercion)
		assert.Equal(t, TypeCoercionMessage, Message(err))
	}
}

func TestVegetableForm_Parse_NameLength(t *testing.T) {
	in, err := VegetableForm{Name: strings.Repeat("é", 255), Quantity: "1", Price: "1"}.Parse()
	require.NoError(t, err)
	assert.Equal(t, 255, utf8.RuneCountInString(in.Name))

	_, err = VegetableForm{Name: strings.Repeat("a", 256), Quantity: "1", Price: "1"}.Parse()
	assert.ErrorIs(t, err, ErrNameTooLong)
	assert.Equal(t, NameTooLongMessage, Message(err))
}

func TestMessage_UnknownError(t *testing.T) {
	assert.Empty(t, Message(ErrNotFound))
	assert.Empty(t, Message(nil))
}
