package failure

type Severity int

// caller control flow
const (
	SeverityFatal Severity = iota
	SeverityRecoverable
)

func (s Severity) String() string {
	switch s {
	case SeverityRecoverable:
		return "recoverable"
	default:
		return "fatal"
	}
}

type ClassifiedError interface {
	error
	Severity() Severity
}
