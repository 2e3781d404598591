package order

// Status is the shop order lifecycle. PendingConfirm is the held state;
// confirm and cancel move forward exactly once; refund is terminal from
// either post-commit state.
type Status string

const (
	StatusPendingConfirm Status = "pending_confirm"
	StatusAwaiting       Status = "awaiting"
	StatusCompleted      Status = "completed"
	StatusCancelled      Status = "cancelled"
	StatusRefunded       Status = "refunded"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPendingConfirm, StatusAwaiting, StatusCompleted, StatusCancelled, StatusRefunded:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusRefunded
}
