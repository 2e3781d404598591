package booking

// Status is the appointment lifecycle. Unconfirmed is the held state; finish
// and cancel move forward exactly once; refund is terminal from finished.
type Status string

const (
	StatusUnconfirmed Status = "unconfirmed"
	StatusFinished    Status = "finished"
	StatusCancelled   Status = "cancelled"
	StatusRefunded    Status = "refunded"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusUnconfirmed, StatusFinished, StatusCancelled, StatusRefunded:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusRefunded
}
