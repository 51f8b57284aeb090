package order

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"sneakerculture/pkg/errors"
)

var (
	// ErrInvalidPayload indicates web app data that is not a valid order document
	ErrInvalidPayload = errors.Wrap(errors.ErrInvalidInput, "invalid order payload")

	// ErrEmptyOrder indicates an order without items
	ErrEmptyOrder = errors.Wrap(errors.ErrInvalidInput, "order has no items")
)

// payload mirrors the JSON the shop web app sends via Telegram.WebApp.sendData
type payload struct {
	Items       []itemPayload   `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Timestamp   json.Number     `json:"timestamp"`
}

type itemPayload struct {
	Title      string          `json:"title"`
	Size       flexString      `json:"size"`
	Color      string          `json:"color"`
	Price      decimal.Decimal `json:"price"`
	Quantity   json.Number     `json:"quantity"`
	IsPreOrder bool            `json:"isPreOrder"`
}

// flexString accepts a JSON string or number (sizes come as 42 or "42.5")
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// ParsePayload decodes web app data into an Order
func ParsePayload(data []byte) (*Order, error) {
	var p payload
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&p); err != nil {
		return nil, errors.Wrapf(ErrInvalidPayload, "%v", err)
	}

	if len(p.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	timestamp, err := parseInteger(p.Timestamp)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidPayload, "timestamp: %v", err)
	}

	o := &Order{
		Items:       make([]LineItem, 0, len(p.Items)),
		TotalAmount: p.TotalAmount,
		Timestamp:   timestamp,
	}

	for i, item := range p.Items {
		quantity, err := parseInteger(item.Quantity)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidPayload, "items[%d].quantity: %v", i, err)
		}
		if quantity < 0 {
			return nil, errors.NewValidationError("quantity", "must not be negative", quantity)
		}

		o.Items = append(o.Items, LineItem{
			Title:      item.Title,
			Size:       string(item.Size),
			Color:      item.Color,
			Price:      item.Price,
			Quantity:   int(quantity),
			IsPreOrder: item.IsPreOrder,
		})
	}

	return o, nil
}

// parseInteger accepts integral JSON numbers, including ones written as
// floats (1700000000000.0). An absent value is zero.
func parseInteger(n json.Number) (int64, error) {
	s := strings.TrimSpace(n.String())
	if s == "" {
		return 0, nil
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() {
		return 0, errors.Newf("%s is not an integer", s)
	}
	return d.IntPart(), nil
}
