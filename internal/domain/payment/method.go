package payment

import "errors"

var ErrInvalidMethod = errors.New("invalid payment method")

// Method selects how a reservation unit is funded: a hold against the user's
// savings balance, or an online payment through the gateway.
type Method string

const (
	MethodBalance Method = "balance"
	MethodOnline  Method = "online"
)

func NewMethod(s string) (Method, error) {
	m := Method(s)
	if !m.IsValid() {
		return "", ErrInvalidMethod
	}
	return m, nil
}

func (m Method) String() string {
	return string(m)
}

func (m Method) IsValid() bool {
	switch m {
	case MethodBalance, MethodOnline:
		return true
	default:
		return false
	}
}
