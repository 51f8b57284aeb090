package order

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Order is a cart submitted from the shop web app
type Order struct {
	Items       []LineItem
	TotalAmount decimal.Decimal
	// Timestamp is the web app submission time in unix milliseconds.
	// It doubles as the order number shown to the customer.
	Timestamp int64
}

// LineItem is one product model/size in the cart
type LineItem struct {
	Title      string
	Size       string
	Color      string
	Price      decimal.Decimal
	Quantity   int
	IsPreOrder bool
}

// Subtotal returns price × quantity
func (li LineItem) Subtotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Kind defines whether the order ships from stock
type Kind string

const (
	KindInStock  Kind = "in_stock"
	KindPreOrder Kind = "pre_order"
)

// String returns string representation
func (k Kind) String() string {
	return string(k)
}

// Number returns the customer-facing order number
func (o *Order) Number() string {
	return strconv.FormatInt(o.Timestamp, 10)
}

// PlacedAt returns the submission time in loc
func (o *Order) PlacedAt(loc *time.Location) time.Time {
	return time.UnixMilli(o.Timestamp).In(loc)
}

// Kind reports a pre-order when the first item is a pre-order.
// The web app never mixes stock and pre-order items in one cart.
func (o *Order) Kind() Kind {
	if len(o.Items) > 0 && o.Items[0].IsPreOrder {
		return KindPreOrder
	}
	return KindInStock
}

// ItemCount returns the total number of units
func (o *Order) ItemCount() int {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}

// Customer is the Telegram user who placed the order
type Customer struct {
	ID        int64
	FirstName string
	LastName  string
	Username  string
}

// FullName joins first and last name
func (c Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Handle returns the username or "нет" when the user has none
func (c Customer) Handle() string {
	if c.Username == "" {
		return "нет"
	}
	return c.Username
}
