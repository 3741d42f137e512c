package email

import (
	"html/template"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EmailTemplate is implemented by every message the publisher renders.
type EmailTemplate interface {
	Subject() string
	TemplateName() string
}

// OrderConfirmationEmail is sent when an order is placed.
type OrderConfirmationEmail struct {
	OrderID        uuid.UUID
	CustomerName   string
	OrderDate      time.Time
	Lines          int
	Total          decimal.Decimal
	CashOnDelivery bool
	DueDate        time.Time
}

func (e OrderConfirmationEmail) Subject() string {
	return "Order Confirmation - " + orderNumber(e.OrderID)
}

func (e OrderConfirmationEmail) TemplateName() string {
	return "order_confirmation"
}

// ShippingNoticeEmail is sent when an order's fulfillment moves to shipped.
type ShippingNoticeEmail struct {
	OrderID      uuid.UUID
	CustomerName string
	ShippedDate  time.Time
}

func (e ShippingNoticeEmail) Subject() string {
	return "Your Order Has Shipped - " + orderNumber(e.OrderID)
}

func (e ShippingNoticeEmail) TemplateName() string {
	return "shipping_notice"
}

// orderNumber is the short customer-facing form of an order id.
func orderNumber(id uuid.UUID) string {
	return "#" + id.String()[:8]
}

var templates = template.Must(template.New("email").Funcs(template.FuncMap{
	"orderNumber": orderNumber,
	"money":       func(d decimal.Decimal) string { return d.StringFixed(2) },
	"date":        func(t time.Time) string { return t.Format("January 2, 2006") },
}).Parse(`
{{define "order_confirmation"}}<div class="email-content">
<h1>Thanks for your order, {{.CustomerName}}!</h1>
<p>Order {{orderNumber .OrderID}} was placed on {{date .OrderDate}}.</p>
<p>Items: {{.Lines}}<br>Total: {{money .Total}}</p>
{{if .CashOnDelivery}}<p>Please have {{money .Total}} ready on delivery. Payment is due by {{date .DueDate}}.</p>{{else}}<p>Your payment has been received.</p>{{end}}
<p>We will let you know when it ships.</p>
</div>{{end}}
{{define "shipping_notice"}}<div class="email-content">
<h1>Your order is on its way</h1>
<p>Hi {{.CustomerName}}, order {{orderNumber .OrderID}} shipped on {{date .ShippedDate}}.</p>
</div>{{end}}
`))
