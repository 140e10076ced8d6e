package types

// Action values attached to log context.
const (
	ActionCreateBill   = "create_bill"
	ActionListBills    = "list_bills"
	ActionCreateRide   = "create_ride"
	ActionListRides    = "list_rides"
	ActionExportRides  = "export_rides"
	ActionPreviewRide  = "preview_ride_invoice"
	ActionSendInvoice  = "send_ride_invoice"
	ActionEmailDeliver = "deliver_invoice_email"
	ActionHealthCheck  = "health_check"
	ActionServerStart  = "http_server_start"
	ActionServerStop   = "http_server_stop"
	ActionAppShutdown  = "app_shutdown"
	ActionQueueConsume = "email_queue_consume"
)
