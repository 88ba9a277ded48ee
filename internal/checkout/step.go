package checkout

type Step int

const (
	StepAddress Step = iota + 1
	StepPayment
	StepConfirmation
)

// CanAdvance reports whether the flow may move from s to next. Steps only move forward by one.
func CanAdvance(s, next Step) bool {
	return next == s+1 && next <= StepConfirmation
}

func (s Step) IsTerminal() bool {
	return s == StepConfirmation
}

// String representation (for logging)
func (s Step) String() string {
	switch s {
	case StepAddress:
		return "ADDRESS"
	case StepPayment:
		return "PAYMENT"
	case StepConfirmation:
		return "CONFIRMATION"
	default:
		return "UNKNOWN"
	}
}

// Method is the payment method name the backend expects.
type Method string

const (
	MethodGateway Method = "Razorpay"
	MethodUPI     Method = "UPI"
	MethodCOD     Method = "COD"
)

func (m Method) Valid() bool {
	return m == MethodGateway || m == MethodUPI || m == MethodCOD
}
