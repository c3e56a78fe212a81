package ledger

import "github.com/shopspring/decimal"

const (
	pricePlaces  = 2
	storedPlaces = 6 // NUMERIC(18,6) in the Postgres store
)

// round2 rounds half away from zero to cents.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(pricePlaces)
}

// WeightedAverage merges q units at price into a balance of q0 units at avg0.
// The previous average is kept when the resulting quantity is zero.
func WeightedAverage(avg0 decimal.Decimal, q0 int, price decimal.Decimal, q int) decimal.Decimal {
	total := q0 + q
	if total == 0 {
		return avg0
	}
	value := avg0.Mul(decimal.NewFromInt(int64(q0))).Add(price.Mul(decimal.NewFromInt(int64(q))))
	return round2(value.Div(decimal.NewFromInt(int64(total))))
}

// fitsStoredPrecision reports whether d survives storage without rounding.
func fitsStoredPrecision(d decimal.Decimal) bool {
	return d.Equal(d.Round(storedPlaces))
}
