package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

var (
	// Order metrics
	OrdersProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sneakerculture_orders_processed_total",
			Help: "Total number of web app orders by outcome",
		},
		[]string{"status"}, // status: sent|duplicate|invalid|failed
	)

	OrderItems = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sneakerculture_order_items_total",
			Help: "Total number of ordered units",
		},
		[]string{"kind"}, // kind: in_stock|pre_order
	)

	OrderAmount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sneakerculture_order_amount_rub_total",
			Help: "Total amount of accepted orders in rubles",
		},
		[]string{"kind"},
	)

	// Receipt metrics
	ReceiptsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sneakerculture_receipts_sent_total",
			Help: "Total number of receipt deliveries",
		},
		[]string{"recipient", "status"}, // recipient: admin|customer, status: success|error
	)

	ReceiptSendLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sneakerculture_receipt_send_latency_seconds",
			Help:    "Receipt delivery latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"recipient"},
	)

	ReceiptRenderDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sneakerculture_receipt_render_duration_seconds",
			Help:    "Time spent rendering and escaping a receipt",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		},
	)

	// Bot metrics
	CommandExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sneakerculture_command_executions_total",
			Help: "Total number of bot command executions",
		},
		[]string{"command", "status"},
	)

	CommandDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sneakerculture_command_duration_seconds",
			Help:    "Bot command execution duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"command"},
	)

	TelegramAPICalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sneakerculture_telegram_api_calls_total",
			Help: "Total number of Telegram Bot API calls",
		},
		[]string{"method", "status"}, // status: success|error
	)
)

// Init registers all metrics with the default registry
func Init() {
	// Order metrics
	prometheus.MustRegister(OrdersProcessed)
	prometheus.MustRegister(OrderItems)
	prometheus.MustRegister(OrderAmount)

	// Receipt metrics
	prometheus.MustRegister(ReceiptsSent)
	prometheus.MustRegister(ReceiptSendLatency)
	prometheus.MustRegister(ReceiptRenderDuration)

	// Bot metrics
	prometheus.MustRegister(CommandExecutions)
	prometheus.MustRegister(CommandDuration)
	prometheus.MustRegister(TelegramAPICalls)
}

// Handler returns Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordOrder records the outcome of one web app order
func RecordOrder(status string) {
	OrdersProcessed.WithLabelValues(status).Inc()
}

// RecordAcceptedOrder records units and amount of a delivered order
func RecordAcceptedOrder(kind string, units int, amount decimal.Decimal) {
	OrderItems.WithLabelValues(kind).Add(float64(units))
	OrderAmount.WithLabelValues(kind).Add(amount.InexactFloat64())
}

// RecordReceipt records a receipt delivery
func RecordReceipt(recipient string, latency time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	ReceiptsSent.WithLabelValues(recipient, status).Inc()
	ReceiptSendLatency.WithLabelValues(recipient).Observe(latency.Seconds())
}

// RecordReceiptRender records the time spent building a receipt
func RecordReceiptRender(duration time.Duration) {
	ReceiptRenderDuration.Observe(duration.Seconds())
}

// RecordCommand records a bot command execution
func RecordCommand(command string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}

	CommandExecutions.WithLabelValues(command, status).Inc()
	CommandDuration.WithLabelValues(command).Observe(duration.Seconds())
}

// RecordTelegramCall records a Bot API request
func RecordTelegramCall(method string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	TelegramAPICalls.WithLabelValues(method, status).Inc()
}
