package curate

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/price-curator/internal/model"
)

// renderPrompt builds the training text for body and price.
func renderPrompt(body string, price float64) string {
	return fmt.Sprintf("%s\n\n%s\n\n%s%s", model.Question, body, model.PricePrefix, priceLabel(price))
}

// priceLabel rounds half to even and always shows two zero decimals, e.g. "49.00".
func priceLabel(price float64) string {
	return decimal.NewFromFloat(price).RoundBank(0).StringFixed(2)
}
