package consolidate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeSumsByKey(t *testing.T) {
	merged := Merge([]LineItem{
		{Name: "Tomato", Quantity: ptr(2.0), Unit: "pcs"},
		{Name: "tomato", Quantity: ptr(3.0), Unit: "pcs"},
		{Name: "Milk", Quantity: ptr(1.0), Unit: "liter"},
	})

	require.Len(t, merged, 2)
	assert.Equal(t, "Tomato", merged[0].Name) // first-seen representative
	assert.Equal(t, 5.0, *merged[0].Quantity)
	assert.Equal(t, "Milk", merged[1].Name)
	assert.Equal(t, 1.0, *merged[1].Quantity)
}

func TestMergeUnitSensitiveIdentity(t *testing.T) {
	merged := Merge([]LineItem{
		{Name: "flour", Quantity: ptr(500.0), Unit: "g"},
		{Name: "flour", Quantity: ptr(2.0), Unit: "cups"},
	})

	require.Len(t, merged, 2, "different units must never merge")
	assert.Equal(t, 500.0, *merged[0].Quantity)
	assert.Equal(t, 2.0, *merged[1].Quantity)
}

func TestMergeNullQuantityTolerance(t *testing.T) {
	// Unknown running total adopts the first numeric contribution.
	merged := Merge([]LineItem{
		{Name: "salt", Unit: "g"},
		{Name: "salt", Quantity: ptr(5.0), Unit: "g"},
	})
	require.Len(t, merged, 1)
	require.NotNil(t, merged[0].Quantity)
	assert.Equal(t, 5.0, *merged[0].Quantity)

	// A later unknown contribution never resets a numeric total.
	merged = Merge([]LineItem{
		{Name: "salt", Quantity: ptr(5.0), Unit: "g"},
		{Name: "salt", Unit: "g"},
	})
	require.Len(t, merged, 1)
	require.NotNil(t, merged[0].Quantity)
	assert.Equal(t, 5.0, *merged[0].Quantity)
}

func TestMergeInsertionOrderStable(t *testing.T) {
	items := []LineItem{
		{Name: "zucchini", Unit: ""},
		{Name: "apple", Unit: ""},
		{Name: "milk", Unit: "liter"},
		{Name: "apple", Quantity: ptr(1.0), Unit: ""},
	}

	merged := Merge(items)
	require.Len(t, merged, 3)
	assert.Equal(t, "zucchini", merged[0].Name)
	assert.Equal(t, "apple", merged[1].Name)
	assert.Equal(t, "milk", merged[2].Name)
}

func TestMergeDeterministic(t *testing.T) {
	items := []LineItem{
		{Name: "rice", Quantity: ptr(0.1), Unit: "kg"},
		{Name: "rice", Quantity: ptr(0.2), Unit: "kg"},
		{Name: "rice", Quantity: ptr(0.3), Unit: "kg"},
	}

	a := Merge(items)
	b := Merge(items)
	require.Len(t, a, 1)
	assert.Equal(t, *a[0].Quantity, *b[0].Quantity, "same order must accumulate bit-for-bit identically")
}
