package receipt

import (
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sneakerculture/internal/domain/order"
	"sneakerculture/pkg/markdown"
	"sneakerculture/pkg/templates"
)

func testOrder() *order.Order {
	return &order.Order{
		Items: []order.LineItem{
			{Title: "Nike Air Max 90", Size: "42", Color: "Black", Price: decimal.NewFromInt(12990), Quantity: 1},
			{Title: "Adidas Samba OG", Size: "42.5", Color: "White", Price: decimal.RequireFromString("9990.5"), Quantity: 2},
		},
		TotalAmount: decimal.NewFromInt(32971),
		Timestamp:   1700000000000,
	}
}

func testCustomer() order.Customer {
	return order.Customer{ID: 123456789, FirstName: "Иван", LastName: "Петров", Username: "ivan_p"}
}

func newTestFormatter() *Formatter {
	return NewFormatter(markdown.NewEscaper(), templates.Get(), time.UTC)
}

func TestFormatter_AdminReceipt(t *testing.T) {
	text, err := newTestFormatter().AdminReceipt(testOrder(), testCustomer())
	require.NoError(t, err)

	expected := "🛒 *НОВЫЙ ЗАКАЗ* 1700000000000\n\n" +
		"👤 *Клиент:* \\[Иван Петров\\]\n" +
		"🔗 @ivan\\_p\n" +
		"🆔 ID: `123456789`\n" +
		"📅 *Дата:* 14\\.11\\.2023 22:13\n\n" +
		"📋 *Состав заказа:*\n" +
		"\n• Nike Air Max 90\n  Размер: 42\n  Цвет: Black\n  Цена: 12990\\.00 руб × 1 шт\n" +
		"\n• Adidas Samba OG\n  Размер: 42\\.5\n  Цвет: White\n  Цена: 9990\\.50 руб × 2 шт\n" +
		"\n💵 *Итого:* 32971\\.00 руб\n" +
		"🚚 *Тип:* В наличии"

	assert.Equal(t, expected, text)
}

func TestFormatter_CustomerReceipt(t *testing.T) {
	text, err := newTestFormatter().CustomerReceipt(testOrder(), testCustomer())
	require.NoError(t, err)

	expected := "✅ *Спасибо за заказ*\n\n" +
		"Иван Петров, ваш заказ успешно оформлен\n" +
		"Наш менеджер свяжется с вами в ближайшее время для уточнения деталей\n\n" +
		"*Номер заказа:* 1700000000000\n" +
		"*Сумма заказа:* 32971\\.00 руб\n" +
		"\n• Nike Air Max 90\n  Размер: 42\n  Цвет: Black\n  Цена: 12990\\.00 руб × 1 шт\n" +
		"\n• Adidas Samba OG\n  Размер: 42\\.5\n  Цвет: White\n  Цена: 9990\\.50 руб × 2 шт\n"

	assert.Equal(t, expected, text)
}

func TestFormatter_PreOrderAndMissingUsername(t *testing.T) {
	o := testOrder()
	o.Items[0].IsPreOrder = true

	text, err := newTestFormatter().AdminReceipt(o, order.Customer{ID: 7, FirstName: "Anna"})
	require.NoError(t, err)

	assert.Contains(t, text, "👤 *Клиент:* \\[Anna\\]\n")
	assert.Contains(t, text, "🔗 @нет\n")
	assert.True(t, strings.HasSuffix(text, "🚚 *Тип:* Предзаказ"))
}

func TestFormatter_EscapesFieldPunctuation(t *testing.T) {
	o := testOrder()
	o.Items = o.Items[:1]
	o.Items[0].Title = "Air-Force 1 (Low)!"
	o.Items[0].Color = "Black/White #2"

	text, err := newTestFormatter().CustomerReceipt(o, testCustomer())
	require.NoError(t, err)

	assert.Contains(t, text, "\n• Air\\-Force 1 \\(Low\\)\\!\n")
	assert.Contains(t, text, "  Цвет: Black/White \\#2\n")
}

func TestFormatter_DateUsesLocation(t *testing.T) {
	moscow := time.FixedZone("MSK", 3*60*60)
	f := NewFormatter(markdown.NewEscaper(), templates.Get(), moscow)

	text, err := f.AdminReceipt(testOrder(), testCustomer())
	require.NoError(t, err)
	assert.Contains(t, text, "📅 *Дата:* 15\\.11\\.2023 01:13\n")
}

func TestFormatter_MissingTemplate(t *testing.T) {
	registry, err := templates.NewRegistryFromFS(fstest.MapFS{})
	require.NoError(t, err)

	f := NewFormatter(markdown.NewEscaper(), registry, nil)
	_, err = f.AdminReceipt(testOrder(), testCustomer())
	assert.Error(t, err)
}
