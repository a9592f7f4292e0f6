package coins

// coin is a helper for test to create a market coin priced in dollars.
func coin(id string, price float64, change24h float64) MarketCoin {
	return MarketCoin{
		ID:             id,
		Symbol:         id,
		Name:           id,
		CurrentPrice:   USD(price),
		PriceChange24h: Percent(change24h),
	}
}

// ids returns the ids of coins, in order.
func ids(coins []MarketCoin) []string {
	res := make([]string, 0, len(coins))
	for _, c := range coins {
		res = append(res, c.ID)
	}
	return res
}
