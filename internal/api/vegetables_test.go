package api_test

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vegetable_inventory/internal/inventory"
)

func TestAddVegetable_CreatesAndRedirects(t *testing.T) {
	app := newTestApp(t)

	w := app.post("/add-vegetable", vegetableForm("Potato", "4", "2.5"))
	page := app.follow(w, "/add-vegetable")
	assert.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "Vegetable Potato was added with a quantity of 4")
	assert.Contains(t, page.Body.String(), `<strong id="total-sum">10.00</strong>`)

	list, err := app.vegetables.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Potato", list[0].Name)
	assert.Equal(t, 4, list[0].Quantity)
	assert.Equal(t, 2.5, list[0].Price)
	assert.Equal(t, 10.0, list[0].TotalValue)

	// The flash is shown once
	assert.NotContains(t, app.get("/add-vegetable").Body.String(), "was added")
}

func TestAddVegetable_MissingFieldCreatesNothing(t *testing.T) {
	app := newTestApp(t)

	for _, form := range []url.Values{
		vegetableForm("", "4", "2.5"),
		vegetableForm("Potato", "", "2.5"),
		{"price": {"1"}},
	} {
		w := app.post("/add-vegetable", form)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), inventory.MissingFieldMessage)
	}

	list, err := app.vegetables.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAddVegetable_NonNumericCreatesNothing(t *testing.T) {
	app := newTestApp(t)

	w := app.post("/add-vegetable", vegetableForm("Potato", "abc", "2.5"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), inventory.TypeCoercionMessage)
	// Submitted values are echoed back into the form
	assert.Contains(t, w.Body.String(), `value="abc"`)

	w = app.post("/add-vegetable", vegetableForm("Potato", "3", "free"))
	assert.Contains(t, w.Body.String(), inventory.TypeCoercionMessage)

	list, err := app.vegetables.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAddVegetable_RejectsOverlongNameAndNonFinitePrice(t *testing.T) {
	app := newTestApp(t)

	w := app.post("/add-vegetable", vegetableForm(strings.Repeat("p", 4000), "1", "1"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), inventory.NameTooLongMessage)
	require.NotNil(t, app.cookie)
	assert.Less(t, len(app.cookie.String()), 4096)

	w = app.post("/add-vegetable", vegetableForm("Potato", "1", "NaN"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), inventory.TypeCoercionMessage)

	list, err := app.vegetables.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAddVegetable_RunningSum(t *testing.T) {
	app := newTestApp(t)

	assert.Contains(t, app.get("/add-vegetable").Body.String(), `<strong id="total-sum">0.00</strong>`)

	for _, q := range []string{"10", "20", "30"} {
		w := app.post("/add-vegetable", vegetableForm("Onion", q, "1.0"))
		require.Equal(t, http.StatusFound, w.Code)
	}
	assert.Contains(t, app.get("/add-vegetable").Body.String(), `<strong id="total-sum">60.00</strong>`)
}

func TestAddVegetable_EscapesOnlyAtRender(t *testing.T) {
	app := newTestApp(t)

	w := app.post("/add-vegetable", vegetableForm("<b>Kale</b>", "1", "1"))
	require.Equal(t, http.StatusFound, w.Code)

	list, err := app.vegetables.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "<b>Kale</b>", list[0].Name)

	body := app.get("/add-vegetable").Body.String()
	assert.NotContains(t, body, "<b>Kale</b>")
	assert.Contains(t, body, "&lt;b&gt;Kale&lt;/b&gt;")
}

func TestQuery_SubstringMatch(t *testing.T) {
	app := newTestApp(t)
	for _, name := range []string{"Potato", "Carrot"} {
		_, err := app.vegetables.Create(context.Background(), inventory.VegetableInput{Name: name, Quantity: 1, Price: 1, TotalValue: 1})
		require.NoError(t, err)
	}

	w := app.post("/query", url.Values{"query_str": {"pot"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Potato:")
	assert.NotContains(t, w.Body.String(), "Carrot")

	w = app.get("/query")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Potato")

	w = app.post("/query", url.Values{"query_str": {""}})
	assert.NotContains(t, w.Body.String(), "Potato")

	w = app.post("/query", url.Values{"query_str": {"zucchini"}})
	assert.Contains(t, w.Body.String(), "No vegetables match.")
}

func TestEditVegetable_Overwrites(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	v, err := app.vegetables.Create(ctx, inventory.VegetableInput{Name: "Beet", Quantity: 2, Price: 3, TotalValue: 6})
	require.NoError(t, err)
	path := fmt.Sprintf("/edit/%d", v.ID)

	w := app.get(path)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="Beet"`)

	w = app.post(path, vegetableForm("Red beet", "5", "1.5"))
	page := app.follow(w, "/")
	assert.Contains(t, page.Body.String(), "Vegetable data updated successfully!")

	got, err := app.vegetables.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "Red beet", got.Name)
	assert.Equal(t, 5, got.Quantity)
	assert.Equal(t, 1.5, got.Price)
	assert.Equal(t, 7.5, got.TotalValue)
}

func TestEditVegetable_InvalidFormKeepsRow(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	v, err := app.vegetables.Create(ctx, inventory.VegetableInput{Name: "Beet", Quantity: 2, Price: 3, TotalValue: 6})
	require.NoError(t, err)

	w := app.post(fmt.Sprintf("/edit/%d", v.ID), vegetableForm("", "5", "1"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), inventory.MissingFieldMessage)

	got, err := app.vegetables.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, *v, *got)
}

func TestEditVegetable_UnknownID(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	v, err := app.vegetables.Create(ctx, inventory.VegetableInput{Name: "Beet", Quantity: 2, Price: 3, TotalValue: 6})
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, app.get("/edit/999").Code)
	assert.Equal(t, http.StatusNotFound, app.post("/edit/999", vegetableForm("Leek", "1", "1")).Code)
	assert.Equal(t, http.StatusNotFound, app.get("/edit/beet").Code)

	got, err := app.vegetables.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "Beet", got.Name)
}

func TestDeleteVegetable(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	v, err := app.vegetables.Create(ctx, inventory.VegetableInput{Name: "Turnip", Quantity: 1, Price: 2, TotalValue: 2})
	require.NoError(t, err)
	path := fmt.Sprintf("/delete/%d", v.ID)

	w := app.get(path)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Turnip")

	page := app.follow(app.post(path, nil), "/add-vegetable")
	assert.Contains(t, page.Body.String(), "Vegetable Turnip was deleted")

	_, err = app.vegetables.GetByID(ctx, v.ID)
	assert.ErrorIs(t, err, inventory.ErrNotFound)

	assert.Equal(t, http.StatusNotFound, app.post(path, nil).Code)
	assert.Equal(t, http.StatusNotFound, app.get("/delete/999").Code)
}
