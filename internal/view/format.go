// Package view holds the presentation helpers shared by the HTML templates.
package view

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Money formats an amount in dollars with two decimals and grouped thousands.
func Money(amount float64) string {
	return printer.Sprintf("$%.2f", amount)
}

// BadgeLabel is the cart badge text. Counts above 99 show as "99+".
func BadgeLabel(count int) string {
	if count > 99 {
		return "99+"
	}
	if count < 0 {
		count = 0
	}
	return strconv.Itoa(count)
}

// Title title-cases a tag or cuisine for headings.
func Title(s string) string {
	return cases.Title(language.English).String(strings.TrimSpace(s))
}

// Stars returns five flags, one per star, set for each whole star of the
// rounded rating.
func Stars(rating float64) []bool {
	filled := int(math.Round(rating))
	stars := make([]bool, 5)
	for i := range stars {
		stars[i] = i < filled
	}
	return stars
}

// Rating prints a rating with one decimal.
func Rating(rating float64) string {
	return strconv.FormatFloat(rating, 'f', 1, 64)
}

// DiscountPercent is the whole-number saving between old and new price.
func DiscountPercent(price, oldPrice float64) int {
	if oldPrice <= 0 || price >= oldPrice {
		return 0
	}
	return int(math.Round((oldPrice - price) / oldPrice * 100))
}
