package orders

import "math"

// DefaultPackSize is the fallback dispensable-units-per-package used when a
// catalog record carries no pack size. Catalog entries are expected to
// supply a real pack size; the fallback matches the legacy console data.
const DefaultPackSize = 24

// AdministrationsPerDay maps a frequency code to its dose count per day.
// PRN and QD both derive with 1 dose-equivalent per day for quantity
// purposes; that is a quantity simplification, not a clinical statement.
func AdministrationsPerDay(f Frequency) int {
	switch f {
	case FreqBID:
		return 2
	case FreqTID, FreqQ8H:
		return 3
	case FreqQID, FreqQ6H:
		return 4
	case FreqQD, FreqPRN:
		return 1
	default:
		return 1
	}
}

// DeriveDispenseQuantity converts dosing inputs into whole packages:
// ceil(dosage x administrations-per-day x days / packSize), minimum 1.
// Pure; safe to call redundantly.
func DeriveDispenseQuantity(dosage float64, f Frequency, durationDays, packSize int) int {
	if packSize <= 0 {
		packSize = DefaultPackSize
	}
	if dosage <= 0 {
		dosage = DefaultDosage
	}
	if durationDays <= 0 {
		durationDays = 1
	}
	totalUnits := dosage * float64(AdministrationsPerDay(f)) * float64(durationDays)
	q := int(math.Ceil(totalUnits / float64(packSize)))
	if q < 1 {
		q = 1
	}
	return q
}

// EffectiveQuantity is the multiplier applied to the unit price when the
// item contributes to a category total.
func (it *Item) EffectiveQuantity() int {
	switch it.Category {
	case CategoryPrescription:
		return it.DispenseQuantity
	case CategoryMaterial:
		return it.Quantity
	default:
		return 1
	}
}

// CategoryTotal sums unit price x effective quantity over non-voided items.
// Negative prices or quantities are clamped to 0 defensively; the result is
// rounded to cents and never negative.
func CategoryTotal(items []*Item) float64 {
	var total float64
	for _, it := range items {
		if !it.Active() {
			continue
		}
		price := it.UnitPrice
		if price < 0 {
			price = 0
		}
		qty := it.EffectiveQuantity()
		if qty < 0 {
			qty = 0
		}
		total += price * float64(qty)
	}
	return roundCents(total)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
