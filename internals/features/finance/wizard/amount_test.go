package wizard

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerceAmount(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want string
	}{
		{"numeric string", "30000", "30000"},
		{"padded decimal string", " 1250.75 ", "1250.75"},
		{"float", 2000.5, "2000.5"},
		{"int", 6000, "6000"},
		{"json number", json.Number("42"), "42"},
		{"NaN", math.NaN(), "0"},
		{"infinity", math.Inf(1), "0"},
		{"infinity string", "Infinity", "0"},
		{"garbage", "abc", "0"},
		{"empty", "", "0"},
		{"nil", nil, "0"},
		{"unsupported type", struct{}{}, "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CoerceAmount(tc.in)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.want)), "got %s", got)
		})
	}
}

func TestFee_DecodesStringAndNumberAmounts(t *testing.T) {
	var fees []Fee
	raw := `[
		{"id":"6f1b1c1e-8a55-4d4e-9a43-0d7c1d7b1a01","fee_type":"Tuition","amount":"30000","is_required":true},
		{"id":"6f1b1c1e-8a55-4d4e-9a43-0d7c1d7b1a02","fee_type":"Laboratory","amount":2000,"is_required":false},
		{"id":"6f1b1c1e-8a55-4d4e-9a43-0d7c1d7b1a03","fee_type":"Broken","amount":"n/a","is_required":false}
	]`
	require.NoError(t, sonic.UnmarshalString(raw, &fees))
	require.Len(t, fees, 3)
	assert.True(t, fees[0].Amount.Equal(decimal.NewFromInt(30000)))
	assert.True(t, fees[1].Amount.Equal(decimal.NewFromInt(2000)))
	assert.True(t, fees[2].Amount.IsZero())
}
