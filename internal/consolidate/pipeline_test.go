package consolidate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawItems(items ...string) []json.RawMessage {
	out := make([]json.RawMessage, len(items))
	for i, s := range items {
		out[i] = json.RawMessage(s)
	}
	return out
}

func TestConsolidateExampleScenario(t *testing.T) {
	fragments := []Fragment{
		{Success: true, Items: rawItems(`{"ingredient":"Tomato","amount":2,"unit":"pcs"}`)},
		{Success: true, Items: rawItems(
			`{"ingredient":"tomato","amount":3,"unit":"pcs"}`,
			`{"ingredient":"Milk","amount":1,"unit":"liter"}`,
		)},
	}

	res, err := Consolidate(fragments)
	require.NoError(t, err)
	assert.Equal(t, 2, res.FragmentCount)
	assert.Equal(t, 0, res.FailedFragments)

	require.Len(t, res.List.Groups, 2)

	produce := res.List.Groups[0]
	assert.Equal(t, CategoryProduce, produce.Category)
	require.Len(t, produce.Items, 1)
	assert.Equal(t, "Tomato", produce.Items[0].Name)
	assert.Equal(t, 5.0, *produce.Items[0].Quantity)
	assert.Equal(t, "pcs", produce.Items[0].Unit)

	dairy := res.List.Groups[1]
	assert.Equal(t, CategoryDairy, dairy.Category)
	require.Len(t, dairy.Items, 1)
	assert.Equal(t, "Milk", dairy.Items[0].Name)
	assert.Equal(t, 1.0, *dairy.Items[0].Quantity)
}

func TestConsolidateAllFragmentsFailed(t *testing.T) {
	fragments := []Fragment{
		{Success: false},
		{Success: false},
		{Success: false},
	}

	res, err := Consolidate(fragments)
	assert.ErrorIs(t, err, ErrAllFragmentsFailed)
	assert.Nil(t, res)
}

func TestConsolidateEmptySuccessIsNotFailure(t *testing.T) {
	// Every recipe was sufficient: a legitimately empty list, not an error.
	fragments := []Fragment{
		{Success: true},
		{Success: true},
	}

	res, err := Consolidate(fragments)
	require.NoError(t, err)
	assert.Empty(t, res.List.Groups)
}

func TestConsolidatePartialFailureContinues(t *testing.T) {
	fragments := []Fragment{
		{Success: false},
		{Success: true, Items: rawItems(`{"name":"bread","amount":1,"unit":"loaf"}`)},
	}

	res, err := Consolidate(fragments)
	require.NoError(t, err)
	assert.Equal(t, 1, res.FailedFragments)
	require.Len(t, res.List.Groups, 1)
	assert.Equal(t, CategoryBakery, res.List.Groups[0].Category)
}

func TestConsolidateIdempotent(t *testing.T) {
	fragments := []Fragment{
		{Success: true, Items: rawItems(
			`{"ingredient":"onion","amount":0.1,"unit":"kg"}`,
			`{"ingredient":"onion","amount":0.2,"unit":"kg"}`,
			`"salt"`,
			`{"canonical_name":"frozen peas","quantity":"1 ½","unit":"bag"}`,
		)},
	}

	first, err := Consolidate(fragments)
	require.NoError(t, err)
	second, err := Consolidate(fragments)
	require.NoError(t, err)

	a, err := json.Marshal(first.List)
	require.NoError(t, err)
	b, err := json.Marshal(second.List)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b), "same input and order must yield byte-identical output")
	assert.Equal(t, Export(first.List), Export(second.List))
}

func TestConsolidateEmptyNameLandsInOther(t *testing.T) {
	fragments := []Fragment{
		{Success: true, Items: rawItems(`{"amount":1,"unit":"pcs"}`, `""`)},
	}

	res, err := Consolidate(fragments)
	require.NoError(t, err)
	require.Len(t, res.List.Groups, 1)

	group := res.List.Groups[0]
	assert.Equal(t, CategoryOther, group.Category)
	require.Len(t, group.Items, 2, "same fallback name, different units stay separate")
	assert.Equal(t, FallbackName, group.Items[0].Name)
}
