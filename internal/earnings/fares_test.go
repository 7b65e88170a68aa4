package earnings

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFaresCompute(t *testing.T) {
	fares := Fares{Base: decimal.NewFromInt(20), PerKm: decimal.NewFromInt(5), PerHour: decimal.NewFromInt(10)}
	distance := decimal.RequireFromString("4.5")
	half, odd := 30, 7

	cases := []struct {
		name     string
		distance *decimal.Decimal
		minutes  *int
		distFare string
		timeFare string
		total    string
	}{
		{"base only", nil, nil, "0", "0", "20"},
		{"distance and time", &distance, &half, "22.5", "5", "47.5"},
		{"time rounds to cents", nil, &odd, "0", "1.17", "21.17"},
	}
	for _, tc := range cases {
		got := fares.Compute(tc.distance, tc.minutes)
		if !got.DistanceFare.Equal(decimal.RequireFromString(tc.distFare)) {
			t.Fatalf("%s: distance fare %s", tc.name, got.DistanceFare)
		}
		if !got.TimeFare.Equal(decimal.RequireFromString(tc.timeFare)) {
			t.Fatalf("%s: time fare %s", tc.name, got.TimeFare)
		}
		if !got.Total.Equal(decimal.RequireFromString(tc.total)) {
			t.Fatalf("%s: total %s", tc.name, got.Total)
		}
	}
}
