package engine

// Quote is the charge for an admitted booking, integer cents throughout.
// FinalCents is always exactly OriginalCents - DiscountCents; the discount
// is the only place truncation happens.
type Quote struct {
	OriginalCents int64
	DiscountCents int64
	FinalCents    int64
}

// Price computes the charge for a booking at the tier's hourly rate with
// the tier's percentage discount applied once, truncating.
func Price(pricePerHourCents int64, durationMinutes int, discountPercentage int) Quote {
	original := pricePerHourCents * int64(durationMinutes) / 60
	if discountPercentage <= 0 {
		return Quote{OriginalCents: original, FinalCents: original}
	}
	discount := original * int64(discountPercentage) / 100
	return Quote{
		OriginalCents: original,
		DiscountCents: discount,
		FinalCents:    original - discount,
	}
}
