package pipeline

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// The mortgage triple lives in deal_data under these keys.
const (
	KeyPurchasePrice = "purchase_price"
	KeyDownPayment   = "down_payment"
	KeyLoanAmount    = "loan_amount"
)

type TripleField int

const (
	FieldPurchasePrice TripleField = iota
	FieldDownPayment
	FieldLoanAmount
)

// AmountMode is the down-payment entry mode.
type AmountMode int

const (
	ModeDollar AmountMode = iota
	ModePercent
)

// Triple holds the derived numeric relationship purchase_price =
// down_payment + loan_amount. A zero value means the field is unset.
type Triple struct {
	PurchasePrice float64
	DownPayment   float64
	LoanAmount    float64
}

// Consistent reports whether the triangle invariant holds, within a cent.
// It is vacuously true while fewer than two fields are anchored.
func (t Triple) Consistent() bool {
	set := 0
	for _, v := range []float64{t.PurchasePrice, t.DownPayment, t.LoanAmount} {
		if v > 0 {
			set++
		}
	}
	if set < 2 {
		return true
	}
	return math.Abs(t.PurchasePrice-(t.DownPayment+t.LoanAmount)) < 0.01
}

// ApplyEdit applies one user edit to the triple and recomputes its
// counterpart fields. raw is the field's input text; grouping separators are
// stripped before parsing. An empty raw clears the field (clearing either of
// the down-payment/loan pair clears the other once a price anchor exists).
// Non-numeric input, a negative amount, and a percent edit without a purchase
// price are all silent no-ops: the previous triple is returned with ok=false.
func ApplyEdit(t Triple, field TripleField, raw string, mode AmountMode) (Triple, bool) {
	if strings.TrimSpace(raw) == "" {
		return clearField(t, field), true
	}

	v, err := ParseAmount(raw)
	if err != nil {
		return t, false
	}

	switch field {
	case FieldPurchasePrice:
		t.PurchasePrice = v
		if t.DownPayment > 0 {
			t.LoanAmount = v - t.DownPayment
		} else if t.LoanAmount > 0 {
			t.DownPayment = v - t.LoanAmount
		}
	case FieldDownPayment:
		if mode == ModePercent {
			if t.PurchasePrice <= 0 {
				// no anchor to resolve a percent against
				return t, false
			}
			v = v / 100 * t.PurchasePrice
		}
		t.DownPayment = v
		if t.PurchasePrice > 0 {
			t.LoanAmount = t.PurchasePrice - v
		}
	case FieldLoanAmount:
		t.LoanAmount = v
		if t.PurchasePrice > 0 {
			t.DownPayment = t.PurchasePrice - v
		}
	}
	return t, true
}

func clearField(t Triple, field TripleField) Triple {
	switch field {
	case FieldPurchasePrice:
		t.PurchasePrice = 0
	case FieldDownPayment:
		t.DownPayment = 0
		if t.PurchasePrice > 0 {
			t.LoanAmount = 0
		}
	case FieldLoanAmount:
		t.LoanAmount = 0
		if t.PurchasePrice > 0 {
			t.DownPayment = 0
		}
	}
	return t
}

// DownPaymentPercent returns the down payment as a share of the purchase
// price. ok is false without a price anchor.
func DownPaymentPercent(t Triple) (float64, bool) {
	if t.PurchasePrice <= 0 {
		return 0, false
	}
	return t.DownPayment / t.PurchasePrice * 100, true
}

// ParseAmount parses a decimal input with grouping separators stripped.
func ParseAmount(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.TrimPrefix(s, "$")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", raw, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("parse amount %q: negative", raw)
	}
	return v, nil
}

// FormatPercent renders a percentage to one decimal place ("20.0").
func FormatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', 1, 64)
}

// FormatDollar renders a dollar amount with comma grouping and no decimals
// ("300,000").
func FormatDollar(v float64) string {
	n := int64(math.Round(v))
	neg := n < 0
	if neg {
		n = -n
	}
	s := strconv.FormatInt(n, 10)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		s = "-" + s
	}
	return s
}

// TripleFromDealData pulls the three mortgage keys out of an open deal_data
// map; anything non-numeric reads as unset.
func TripleFromDealData(data map[string]any) Triple {
	return Triple{
		PurchasePrice: numberAt(data, KeyPurchasePrice),
		DownPayment:   numberAt(data, KeyDownPayment),
		LoanAmount:    numberAt(data, KeyLoanAmount),
	}
}

// WriteDealData writes the triple back into deal_data, deleting cleared keys.
func (t Triple) WriteDealData(data map[string]any) {
	writeOrDelete(data, KeyPurchasePrice, t.PurchasePrice)
	writeOrDelete(data, KeyDownPayment, t.DownPayment)
	writeOrDelete(data, KeyLoanAmount, t.LoanAmount)
}

func writeOrDelete(data map[string]any, key string, v float64) {
	if v > 0 {
		data[key] = v
		return
	}
	delete(data, key)
}

func numberAt(data map[string]any, key string) float64 {
	switch v := data[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		n, err := ParseAmount(v)
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}
