package earnings

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/marketplace-backend/pkg/config"
)

var sixty = decimal.NewFromInt(60)

// Fares prices a completed delivery.
type Fares struct {
	Base    decimal.Decimal
	PerKm   decimal.Decimal
	PerHour decimal.Decimal
}

func FaresFromRates(rates config.CommerceRates) Fares {
	return Fares{Base: rates.BaseFare, PerKm: rates.PerKmRate, PerHour: rates.PerHourRate}
}

type Breakdown struct {
	BaseFare     decimal.Decimal
	DistanceFare decimal.Decimal
	TimeFare     decimal.Decimal
	Total        decimal.Decimal
}

// Compute rounds each component to cents; the total is the sum of the
// rounded parts. Missing distance or time contributes nothing.
func (f Fares) Compute(distanceKm *decimal.Decimal, minutes *int) Breakdown {
	out := Breakdown{
		BaseFare:     f.Base.Round(2),
		DistanceFare: decimal.Zero,
		TimeFare:     decimal.Zero,
	}
	if distanceKm != nil && distanceKm.IsPositive() {
		out.DistanceFare = distanceKm.Mul(f.PerKm).Round(2)
	}
	if minutes != nil && *minutes > 0 {
		out.TimeFare = decimal.NewFromInt(int64(*minutes)).Div(sixty).Mul(f.PerHour).Round(2)
	}
	out.Total = out.BaseFare.Add(out.DistanceFare).Add(out.TimeFare)
	return out
}
