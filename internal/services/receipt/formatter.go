package receipt

import (
	"time"

	"sneakerculture/internal/domain/order"
	"sneakerculture/pkg/errors"
	"sneakerculture/pkg/markdown"
	"sneakerculture/pkg/templates"
)

const (
	adminTemplate    = "receipts/admin"
	customerTemplate = "receipts/customer"

	dateLayout = "02.01.2006 15:04"
)

var kindLabels = map[order.Kind]string{
	order.KindInStock:  "В наличии",
	order.KindPreOrder: "Предзаказ",
}

// Formatter renders order receipts as MarkdownV2 text
type Formatter struct {
	escaper   *markdown.Escaper
	templates *templates.Registry
	loc       *time.Location
}

// NewFormatter creates a formatter. Dates are printed in loc.
func NewFormatter(escaper *markdown.Escaper, registry *templates.Registry, loc *time.Location) *Formatter {
	if loc == nil {
		loc = time.UTC
	}
	return &Formatter{
		escaper:   escaper,
		templates: registry,
		loc:       loc,
	}
}

// AdminReceipt renders the new-order notification for the shop admin chat
func (f *Formatter) AdminReceipt(o *order.Order, c order.Customer) (string, error) {
	return f.render(adminTemplate, o, c)
}

// CustomerReceipt renders the order confirmation sent back to the customer
func (f *Formatter) CustomerReceipt(o *order.Order, c order.Customer) (string, error) {
	return f.render(customerTemplate, o, c)
}

// render fills the raw layout first and escapes the whole message once.
// Field values are never escaped on their own.
func (f *Formatter) render(id string, o *order.Order, c order.Customer) (string, error) {
	raw, err := f.templates.Render(id, f.view(o, c))
	if err != nil {
		return "", errors.Wrapf(err, "render %s", id)
	}
	return f.escaper.Escape(raw), nil
}

type receiptView struct {
	Number     string
	FullName   string
	Handle     string
	CustomerID int64
	Date       string
	Total      string
	Kind       string
	Items      []itemView
}

type itemView struct {
	Title    string
	Size     string
	Color    string
	Price    string
	Quantity int
}

func (f *Formatter) view(o *order.Order, c order.Customer) receiptView {
	items := make([]itemView, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, itemView{
			Title:    item.Title,
			Size:     item.Size,
			Color:    item.Color,
			Price:    item.Price.StringFixed(2),
			Quantity: item.Quantity,
		})
	}

	return receiptView{
		Number:     o.Number(),
		FullName:   c.FullName(),
		Handle:     c.Handle(),
		CustomerID: c.ID,
		Date:       o.PlacedAt(f.loc).Format(dateLayout),
		Total:      o.TotalAmount.StringFixed(2),
		Kind:       kindLabels[o.Kind()],
		Items:      items,
	}
}
