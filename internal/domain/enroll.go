package domain

// EnrollStatus is a result code carried by the device's EnrollStatus signal.
type EnrollStatus string

const (
	EnrollStagePassed       EnrollStatus = "enroll-stage-passed"
	EnrollRetryScan         EnrollStatus = "enroll-retry-scan"
	EnrollSwipeTooShort     EnrollStatus = "enroll-swipe-too-short"
	EnrollFingerNotCentered EnrollStatus = "enroll-finger-not-centered"
	EnrollRemoveAndRetry    EnrollStatus = "enroll-remove-and-retry"
	EnrollUnknownError      EnrollStatus = "enroll-unknown-error"
	EnrollCompleted         EnrollStatus = "enroll-completed"
	EnrollFailed            EnrollStatus = "enroll-failed"
	EnrollDisconnected      EnrollStatus = "enroll-disconnected"
	EnrollDataFull          EnrollStatus = "enroll-data-full"
	EnrollTooFast           EnrollStatus = "enroll-too-fast"
	EnrollDuplicate         EnrollStatus = "enroll-duplicate"
	EnrollCancelled         EnrollStatus = "enroll-cancelled"
)

var enrollMessages = map[EnrollStatus]string{
	EnrollStagePassed:       "Scan successful. Lift your finger and place it again.",
	EnrollRetryScan:         "Scan failed. Please try again.",
	EnrollSwipeTooShort:     "Swipe was too short. Please try again.",
	EnrollFingerNotCentered: "Finger not centered. Please try again.",
	EnrollRemoveAndRetry:    "Remove your finger and try again.",
	EnrollUnknownError:      "An unknown error occurred during enrollment.",
	EnrollCompleted:         "Enrollment completed.",
	EnrollFailed:            "Enrollment failed.",
	EnrollDisconnected:      "The fingerprint device was disconnected.",
	EnrollDataFull:          "The device has no room for more fingerprints.",
	EnrollTooFast:           "Finger lifted too fast. Please try again.",
	EnrollDuplicate:         "This fingerprint is already enrolled.",
	EnrollCancelled:         "Enrollment cancelled.",
}

// Message returns the status line for a result code.
// Unrecognised codes are passed through verbatim.
func (s EnrollStatus) Message() string {
	if m, ok := enrollMessages[s]; ok {
		return m
	}
	return string(s)
}

// EnrollStartingMessage is shown between the start request and the first signal.
const EnrollStartingMessage = "Place your finger on the reader."

// EnrollSignal is one occurrence of the EnrollStatus signal.
// Err is set when the signal payload could not be decoded.
type EnrollSignal struct {
	Result string
	Done   bool
	Err    error
}

// EnrollState tracks where a session is in its lifecycle.
type EnrollState string

const (
	StateIdle      EnrollState = "idle"
	StateClaimed   EnrollState = "claimed"
	StateStarted   EnrollState = "started"
	StateStreaming EnrollState = "streaming"
	StateCompleted EnrollState = "completed"
	StateFailed    EnrollState = "failed"
	StateCancelled EnrollState = "cancelled"
	StateReleased  EnrollState = "released"
)

// EnrollOutcome is the terminal result of an enrollment session.
type EnrollOutcome string

const (
	OutcomeCompleted EnrollOutcome = "completed"
	OutcomeFailed    EnrollOutcome = "failed"
	OutcomeCancelled EnrollOutcome = "cancelled"
)

// State returns the terminal state matching the outcome.
func (o EnrollOutcome) State() EnrollState {
	switch o {
	case OutcomeCompleted:
		return StateCompleted
	case OutcomeCancelled:
		return StateCancelled
	default:
		return StateFailed
	}
}

// OutcomeForStatus derives the outcome of a done=true signal.
func OutcomeForStatus(s EnrollStatus) EnrollOutcome {
	switch s {
	case EnrollCompleted:
		return OutcomeCompleted
	case EnrollCancelled:
		return OutcomeCancelled
	default:
		return OutcomeFailed
	}
}

// EnrollSession is the transient state of one enrollment.
// StageCount is nil when the device does not report a positive stage count.
type EnrollSession struct {
	Finger          Finger
	Username        string
	StageCount      *int
	StagesPassed    int
	CancelRequested bool
	State           EnrollState
}

// NewEnrollSession returns an idle session.
func NewEnrollSession(username string, finger Finger) *EnrollSession {
	return &EnrollSession{
		Finger:   finger,
		Username: username,
		State:    StateIdle,
	}
}

// Apply records one status signal and returns the message to show.
func (s *EnrollSession) Apply(status EnrollStatus) string {
	if status == EnrollStagePassed {
		s.StagesPassed++
	}
	return status.Message()
}

// StageCountFrom normalises the device's stage count: non-positive means unknown.
func StageCountFrom(n int32) *int {
	if n <= 0 {
		return nil
	}
	v := int(n)
	return &v
}
