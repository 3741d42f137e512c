package domain

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestCart_Normalize(t *testing.T) {
	p1, p2, p3 := uuid.New(), uuid.New(), uuid.New()

	tests := []struct {
		name string
		in   Cart
		want []CartLine
	}{
		{
			name: "empty cart",
			in:   Cart{},
			want: []CartLine{},
		},
		{
			name: "no duplicates keeps order",
			in:   Cart{{ProductID: p1, Quantity: 1}, {ProductID: p2, Quantity: 2}},
			want: []CartLine{{ProductID: p1, Quantity: 1}, {ProductID: p2, Quantity: 2}},
		},
		{
			name: "duplicates are summed at first position",
			in: Cart{
				{ProductID: p2, Quantity: 1},
				{ProductID: p1, Quantity: 2},
				{ProductID: p2, Quantity: 4},
				{ProductID: p3, Quantity: 1},
				{ProductID: p1, Quantity: 1},
			},
			want: []CartLine{
				{ProductID: p2, Quantity: 5},
				{ProductID: p1, Quantity: 3},
				{ProductID: p3, Quantity: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i].ProductID != tt.want[i].ProductID || got[i].Quantity != tt.want[i].Quantity {
					t.Errorf("line %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestCart_NormalizeDoesNotMutateInput(t *testing.T) {
	p1 := uuid.New()
	in := Cart{{ProductID: p1, Quantity: 1}, {ProductID: p1, Quantity: 1}}
	_ = in.Normalize()
	if in[0].Quantity != 1 || len(in) != 2 {
		t.Errorf("input mutated: %+v", in)
	}
}

func TestCart_NormalizeSaturates(t *testing.T) {
	p1 := uuid.New()
	got := Cart{
		{ProductID: p1, Quantity: math.MaxInt32},
		{ProductID: p1, Quantity: math.MaxInt32},
		{ProductID: p1, Quantity: 3},
	}.Normalize()
	if len(got) != 1 || got[0].Quantity != math.MaxInt32 {
		t.Errorf("Normalize() = %+v, want one line capped at MaxInt32", got)
	}
}

func TestCart_QuantityOverflow(t *testing.T) {
	p1, p2 := uuid.New(), uuid.New()

	tests := []struct {
		name      string
		in        Cart
		wantIndex int
		wantOver  bool
	}{
		{"small", Cart{{ProductID: p1, Quantity: 2}, {ProductID: p1, Quantity: 3}}, 0, false},
		{"single max line", Cart{{ProductID: p1, Quantity: math.MaxInt32}}, 0, false},
		{"two max lines", Cart{{ProductID: p1, Quantity: math.MaxInt32}, {ProductID: p1, Quantity: 1}}, 0, true},
		{"wraps back to positive", Cart{
			{ProductID: p1, Quantity: math.MaxInt32},
			{ProductID: p1, Quantity: math.MaxInt32},
			{ProductID: p1, Quantity: 3},
		}, 0, true},
		{"reports first line of product", Cart{
			{ProductID: p2, Quantity: 1},
			{ProductID: p1, Quantity: math.MaxInt32},
			{ProductID: p1, Quantity: math.MaxInt32},
		}, 1, true},
		{"different products do not add up", Cart{
			{ProductID: p1, Quantity: math.MaxInt32},
			{ProductID: p2, Quantity: math.MaxInt32},
		}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i, over := tt.in.QuantityOverflow()
			if over != tt.wantOver || i != tt.wantIndex {
				t.Errorf("QuantityOverflow() = (%d, %v), want (%d, %v)", i, over, tt.wantIndex, tt.wantOver)
			}
		})
	}
}

func TestCart_ProductIDs(t *testing.T) {
	p1, p2 := uuid.New(), uuid.New()
	ids := Cart{{ProductID: p2}, {ProductID: p1}, {ProductID: p2}}.ProductIDs()
	if len(ids) != 2 || ids[0] != p2 || ids[1] != p1 {
		t.Errorf("ProductIDs() = %v", ids)
	}
}

func TestValidatedLine_LineTotal(t *testing.T) {
	line := ValidatedLine{Quantity: 3, UnitPrice: decimal.RequireFromString("0.10")}
	if !line.LineTotal().Equal(decimal.RequireFromString("0.30")) {
		t.Errorf("LineTotal() = %s, want 0.30", line.LineTotal())
	}
}

func TestPaymentResult_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		result PaymentResult
		want   int
	}{
		{"complete", PaymentResult{TransactionID: "t", MerchantOrderID: "m", BankReferenceID: "b"}, 0},
		{"blank bank reference", PaymentResult{TransactionID: "t", MerchantOrderID: "m", BankReferenceID: "  "}, 1},
		{"nothing", PaymentResult{}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.MissingFields(); len(got) != tt.want {
				t.Errorf("MissingFields() = %v, want %d entries", got, tt.want)
			}
		})
	}
}

func TestPaymentMode_IsOnline(t *testing.T) {
	if PaymentModeCashOnDelivery.IsOnline() {
		t.Error("cash on delivery is not online")
	}
	if !PaymentMode("card").IsOnline() {
		t.Error("gateway method should be online")
	}
	if PaymentMode("").IsOnline() {
		t.Error("empty mode is not online")
	}
}
