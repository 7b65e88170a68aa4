package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CommerceRates is the parsed form of CommerceConfig.
type CommerceRates struct {
	DeliveryCharge   decimal.Decimal
	BaseFare         decimal.Decimal
	PerKmRate        decimal.Decimal
	PerHourRate      decimal.Decimal
	EstimatedTransit time.Duration
}

// Rates parses the configured amounts. Negative amounts are rejected.
func (c CommerceConfig) Rates() (CommerceRates, error) {
	parse := func(name, raw string) (decimal.Decimal, error) {
		value, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Zero, fmt.Errorf("parsing %s: %w", name, err)
		}
		if value.IsNegative() {
			return decimal.Zero, fmt.Errorf("%s must not be negative", name)
		}
		return value, nil
	}

	var (
		rates CommerceRates
		err   error
	)
	if rates.DeliveryCharge, err = parse("delivery charge", c.DeliveryCharge); err != nil {
		return CommerceRates{}, err
	}
	if rates.BaseFare, err = parse("base fare", c.BaseFare); err != nil {
		return CommerceRates{}, err
	}
	if rates.PerKmRate, err = parse("per km rate", c.PerKmRate); err != nil {
		return CommerceRates{}, err
	}
	if rates.PerHourRate, err = parse("per hour rate", c.PerHourRate); err != nil {
		return CommerceRates{}, err
	}
	rates.EstimatedTransit = c.EstimatedTransit
	if rates.EstimatedTransit <= 0 {
		rates.EstimatedTransit = 2 * time.Hour
	}
	return rates, nil
}
