package model

// ComputeLineTotal derives a line total from a unit price and quantity.
// Price recomputation happens eagerly on every cart mutation, never lazily
// at read time, so aggregation stays O(1) per item.
func ComputeLineTotal(unitPrice int64, quantity int) int64 {
	if quantity < 0 {
		return 0
	}
	return unitPrice * int64(quantity)
}

// ComputeCartTotals sums item totals and discounted totals.
func ComputeCartTotals(items []CartItem) (total, discounted int64) {
	for _, item := range items {
		total += item.Price
		discounted += item.DiscountedPrice
	}
	return total, discounted
}
