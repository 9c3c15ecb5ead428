package stubapi

import (
	"github.com/shopspring/decimal"

	"github.com/parceldesk/courier-client/internal/backend"
	"github.com/parceldesk/courier-client/internal/booking"
	"github.com/parceldesk/courier-client/internal/domain"
)

// Pricing constants mirror the production tariff: a flat base rate, a
// per-gram charge, delivery and packing surcharges, an admin fee for
// office-booked parcels, and tax on the subtotal.
var (
	baseRate      = decimal.NewFromInt(50)
	perGramCharge = decimal.RequireFromString("0.02")
	adminFee      = decimal.NewFromInt(50)
	taxRate       = decimal.RequireFromString("0.05")

	deliveryCharges = map[domain.DeliveryType]decimal.Decimal{
		domain.DeliveryStandard: decimal.NewFromInt(30),
		domain.DeliveryExpress:  decimal.NewFromInt(80),
		domain.DeliverySameDay:  decimal.NewFromInt(150),
	}

	packingCharges = map[domain.PackingPreference]decimal.Decimal{
		domain.PackingBasic:   decimal.NewFromInt(10),
		domain.PackingPremium: decimal.NewFromInt(30),
	}
)

// CalculateCost quotes the service cost for a prospective booking.
func CalculateCost(req booking.Request, bookedByOfficer bool) backend.CostCalculation {
	weightCharge := perGramCharge.Mul(decimal.NewFromInt(int64(req.ParcelWeightInGram)))
	deliveryCharge := deliveryCharges[req.ParcelDeliveryType]
	packingCharge := packingCharges[req.ParcelPackingPreference]

	fee := decimal.Zero
	if bookedByOfficer {
		fee = adminFee
	}

	subtotal := baseRate.Add(weightCharge).Add(deliveryCharge).Add(packingCharge).Add(fee)
	tax := subtotal.Mul(taxRate)

	return backend.CostCalculation{
		TotalCost: subtotal.Add(tax).Round(2),
		Breakdown: backend.CostBreakdown{
			BaseRate:       baseRate,
			WeightCharge:   weightCharge,
			DeliveryCharge: deliveryCharge,
			PackingCharge:  packingCharge,
			AdminFee:       fee,
			Tax:            tax.Round(2),
		},
	}
}
