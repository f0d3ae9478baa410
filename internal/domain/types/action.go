package types

const (
	ActionRabbitMQConnected       = "rabbitmq_connected"
	ActionRabbitConnectionClosed  = "rabbitmq_connection_closed"
	ActionRabbitConnectionClosing = "rabbitmq_connection_closing"
	ActionRabbitReconnected       = "rabbitmq_reconnection_success"

	ActionExternalServiceFailed = "external_service_failed"

	ActionSessionCreated   = "session_created"
	ActionSessionListed    = "session_listed"
	ActionRemoteFallback   = "remote_fallback"
	ActionEventPublished   = "event_published"
	ActionEventPublishFail = "event_publish_failed"
	ActionIngestMessage    = "ingest_message"
	ActionFeedConnected    = "feed_connected"
	ActionFeedDisconnected = "feed_disconnected"
	ActionUserRegistered   = "user_registered"
	ActionUserLoggedIn     = "user_logged_in"
	ActionTokensRefreshed  = "tokens_refreshed"
)
