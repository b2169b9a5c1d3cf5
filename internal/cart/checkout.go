package cart

// Delivery is the delivery method chosen at checkout.
type Delivery string

const (
	DeliveryFree Delivery = "free"
	DeliveryFlat Delivery = "flat"
)

// Charge returns the delivery fee and whether the method is known.
func (d Delivery) Charge() (float64, bool) {
	switch d {
	case DeliveryFree:
		return 0, true
	case DeliveryFlat:
		return 5, true
	default:
		return 0, false
	}
}

// Payment is the payment method chosen at checkout.
type Payment string

const (
	PaymentCOD  Payment = "cod"
	PaymentUPI  Payment = "upi"
	PaymentBank Payment = "bank"
)

func (p Payment) Valid() bool {
	switch p {
	case PaymentCOD, PaymentUPI, PaymentBank:
		return true
	}
	return false
}

// CheckoutTotals is the summary shown on the checkout page.
type CheckoutTotals struct {
	Subtotal       float64
	DeliveryCharge float64
	Total          float64
}

// CheckoutTotals sums the items with the delivery charge. Unknown delivery
// methods charge nothing.
func (c *Cart) CheckoutTotals(d Delivery) CheckoutTotals {
	t := CheckoutTotals{Subtotal: c.Totals().Subtotal}
	t.DeliveryCharge, _ = d.Charge()
	t.Total = t.Subtotal + t.DeliveryCharge
	return t
}
