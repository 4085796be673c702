package observability

// Metric name prefixes
const (
	MetricPrefix = "clubledger"
)

// Metric names
const (
	// Payment metrics
	PaymentsCompletedTotal = MetricPrefix + ".payments.completed_total"
	PaymentsFailedTotal    = MetricPrefix + ".payments.failed_total"
	PaymentAmountCents     = MetricPrefix + ".payments.amount_cents"

	// Ledger metrics
	CreditChangesTotal      = MetricPrefix + ".credits.changes_total"
	MembershipsExpiredTotal = MetricPrefix + ".memberships.expired_total"

	// NATS metrics
	NATSMessagesReceivedTotal  = MetricPrefix + ".nats.messages_received_total"
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"

	// Task metrics
	TasksProcessedTotal = MetricPrefix + ".tasks.processed_total"
)

// Label keys
const (
	LabelType      = "type"
	LabelMethod    = "method"
	LabelEventType = "event_type"
	LabelKind      = "kind"
	LabelTask      = "task"
	LabelOutcome   = "outcome"
)

// Task outcomes
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)
