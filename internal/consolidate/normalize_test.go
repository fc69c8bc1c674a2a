package consolidate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAliasPriority(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want LineItem
	}{
		{
			name: "canonical_name wins over ingredient and name",
			raw:  `{"canonical_name":"flour","ingredient":"wheat flour","name":"Flour (AP)","amount":500,"unit":"g"}`,
			want: LineItem{Name: "flour", Quantity: ptr(500.0), Unit: "g"},
		},
		{
			name: "ingredient wins over name",
			raw:  `{"ingredient":"Tomato","name":"tomato, ripe","amount":2,"unit":"pcs"}`,
			want: LineItem{Name: "Tomato", Quantity: ptr(2.0), Unit: "pcs"},
		},
		{
			name: "amount wins over quantity",
			raw:  `{"name":"milk","amount":1,"quantity":3,"unit":"liter"}`,
			want: LineItem{Name: "milk", Quantity: ptr(1.0), Unit: "liter"},
		},
		{
			name: "quantity alias used when amount absent",
			raw:  `{"name":"rice","quantity":2,"unit":"kg"}`,
			want: LineItem{Name: "rice", Quantity: ptr(2.0), Unit: "kg"},
		},
		{
			name: "bare string becomes name only",
			raw:  `"olive oil"`,
			want: LineItem{Name: "olive oil"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(json.RawMessage(tt.raw))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeQuantityDegradation(t *testing.T) {
	// A non-numeric quantity degrades to unknown, it never drops the item.
	got := Normalize(json.RawMessage(`{"name":"salt","amount":"to taste","unit":"g"}`))
	assert.Equal(t, "salt", got.Name)
	assert.Nil(t, got.Quantity)
	assert.Equal(t, "g", got.Unit)

	// Numeric strings are parsed.
	got = Normalize(json.RawMessage(`{"name":"sugar","amount":"2.5","unit":"cups"}`))
	require.NotNil(t, got.Quantity)
	assert.Equal(t, 2.5, *got.Quantity)
}

func TestNormalizeEmptyNameFallsBack(t *testing.T) {
	for _, raw := range []string{`{}`, `{"name":"  "}`, `""`, `42`} {
		got := Normalize(json.RawMessage(raw))
		assert.Equal(t, FallbackName, got.Name, "raw=%s", raw)
	}
}

func TestParseQuantityString(t *testing.T) {
	tests := []struct {
		in   string
		want *float64
	}{
		{"2", ptr(2.0)},
		{"1.5", ptr(1.5)},
		{"1/2", ptr(0.5)},
		{"1 1/2", ptr(1.5)},
		{"½", ptr(0.5)},
		{"1 ½", ptr(1.5)},
		{"", nil},
		{"a pinch", nil},
		{"1/0", nil},
		// ParseFloat-isms that are not quantities and would not survive
		// JSON re-encoding.
		{"inf", nil},
		{"+Inf", nil},
		{"-inf", nil},
		{"NaN", nil},
		{"inf ½", nil},
	}
	for _, tt := range tests {
		got := ParseQuantityString(tt.in)
		if tt.want == nil {
			assert.Nil(t, got, "in=%q", tt.in)
		} else {
			require.NotNil(t, got, "in=%q", tt.in)
			assert.InDelta(t, *tt.want, *got, 1e-9, "in=%q", tt.in)
		}
	}
}

func TestItemKeyUnitSensitivity(t *testing.T) {
	grams := LineItem{Name: "flour", Quantity: ptr(500.0), Unit: "g"}
	cups := LineItem{Name: "flour", Quantity: ptr(2.0), Unit: "cups"}
	assert.NotEqual(t, grams.Key(), cups.Key())

	// Case and surrounding whitespace do not split identity.
	a := LineItem{Name: " Flour ", Unit: "G"}
	b := LineItem{Name: "flour", Unit: "g"}
	assert.Equal(t, a.Key(), b.Key())
}

func ptr(f float64) *float64 { return &f }
