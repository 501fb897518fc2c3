package types

const (
	ActionRabbitMQConnected       = "rabbitmq_connected"
	ActionRabbitConnectionClosed  = "rabbitmq_connection_closed"
	ActionRabbitConnectionClosing = "rabbitmq_connection_closing"
	ActionRabbitReconnected       = "rabbitmq_reconnection_success"

	ActionRedisConnected = "redis_connected"

	ActionDatabaseTransactionFailed = "database_transaction_failed"
	ActionMigrationsApplied         = "migrations_applied"

	ActionCreateQuote      = "create_quote"
	ActionGetQuote         = "get_quote"
	ActionConfirmQuote     = "confirm_quote"
	ActionGetTicket        = "get_ticket"
	ActionRecordLocation   = "record_location"
	ActionCurrentLocation  = "current_location"
	ActionFleetPositions   = "fleet_positions"
	ActionListDestinations = "list_destinations"

	ActionSelectDestination = "terminal_select_destination"
	ActionConfirmFare       = "terminal_confirm"
	ActionCancelFare        = "terminal_cancel"
	ActionResetTerminal     = "terminal_reset"
	ActionResolveLocation   = "terminal_resolve_location"

	ActionPublishFareEvent = "publish_fare_event"
	ActionReceiveFareEvent = "receive_fare_event"
)
