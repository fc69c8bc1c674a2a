package consolidate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleList() *ShoppingList {
	return Rebuild([]MergedItem{
		{LineItem: LineItem{Name: "Tomato", Quantity: ptr(5.0), Unit: "pcs"}, ItemKey: "tomato|pcs"},
		{LineItem: LineItem{Name: "Milk", Quantity: ptr(1.5), Unit: "liter"}, ItemKey: "milk|liter"},
		{LineItem: LineItem{Name: "salt", Unit: "g"}, ItemKey: "salt|g"},
	})
}

func TestExportFormat(t *testing.T) {
	text := Export(sampleList())

	assert.Equal(t, "Produce:\n- Tomato (5 pcs)\n\nDairy:\n- Milk (1.5 liter)\n\nPantry:\n- salt\n", text)
}

func TestExportOmitsEmptyCategories(t *testing.T) {
	text := Export(sampleList())
	assert.NotContains(t, text, "Frozen")
	assert.NotContains(t, text, "Bakery")
	assert.NotContains(t, text, "Other")
}

func TestExportRoundTrip(t *testing.T) {
	list := sampleList()
	parsed := ParseExport(Export(list))

	want := map[string][3]string{}
	for _, item := range list.Items() {
		q := ""
		if item.Quantity != nil {
			q = FormatQuantity(*item.Quantity)
		}
		want[item.ItemKey] = [3]string{item.Name, q, item.Unit}
	}

	got := map[string][3]string{}
	for _, item := range parsed.Items() {
		q := ""
		if item.Quantity != nil {
			q = FormatQuantity(*item.Quantity)
		}
		got[item.ItemKey] = [3]string{item.Name, q, item.Unit}
	}

	assert.Equal(t, want, got, "rendering then parsing must recover the same (name, quantity, unit) tuples")
}

func TestParseExportToleratesParensInNames(t *testing.T) {
	parsed := ParseExport("Pantry:\n- crushed tomatoes (canned)\n- flour (2.5 kg)\n")
	require.Len(t, parsed.Groups, 1)
	items := parsed.Groups[0].Items
	require.Len(t, items, 2)

	// "(canned)" is not a quantity, so it stays part of the name.
	assert.Equal(t, "crushed tomatoes (canned)", items[0].Name)
	assert.Nil(t, items[0].Quantity)

	assert.Equal(t, "flour", items[1].Name)
	require.NotNil(t, items[1].Quantity)
	assert.Equal(t, 2.5, *items[1].Quantity)
	assert.Equal(t, "kg", items[1].Unit)
}
