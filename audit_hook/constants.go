package audithook

// Action constants for audit events.
const (
	// Ledger lifecycle actions
	ActionLedgerStarted = "ledger.started"
	ActionLedgerStopped = "ledger.stopped"

	// Token actions
	ActionTokenMinted   = "token.minted"
	ActionTokenTransfer = "token.transfer"
	ActionTokenApproval = "token.approval"
	ActionTokenRejected = "token.rejected"
)

// Resource constants for audit events.
const (
	ResourceLedger    = "ledger"
	ResourceBalance   = "balance"
	ResourceAllowance = "allowance"
)

// Category constants for audit events.
const (
	CategoryLifecycle = "lifecycle"
	CategoryTransfer  = "transfer"
	CategoryAccess    = "access"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)
