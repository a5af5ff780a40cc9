package models

// FormState is the submission state of the form controller.
type FormState int

const (
	Idle FormState = iota
	Submitting
)

func (s FormState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	default:
		return "unknown"
	}
}
