package domain

// Event is emitted by the orchestrator towards the presentation layer.
type Event interface {
	isEvent()
}

// DeviceRef identifies the discovered device object.
type DeviceRef struct {
	Path string
}

type DeviceFound struct {
	Ref DeviceRef
}

type DeviceNotFound struct {
	Err *Error
}

// UsersFound carries a snapshot of the user list and the resulting selection.
type UsersFound struct {
	Users    []User
	Selected *User
}

type UserSelected struct {
	User User
}

type EnrolledFingers struct {
	Username string
	Fingers  []Finger
}

type EnrollStarted struct {
	Username   string
	Finger     Finger
	StageCount *int
}

type EnrollProgress struct {
	Status       EnrollStatus
	Message      string
	StagesPassed int
	StageCount   *int
	Done         bool
}

// EnrollTerminal ends a session. RefreshFingers is set only on completion.
type EnrollTerminal struct {
	Outcome        EnrollOutcome
	Message        string
	StagesPassed   int
	RefreshFingers bool
}

type DeleteComplete struct {
	Username string
	Finger   Finger
}

// ClearComplete reports the all-users clear. Err is the last recorded failure.
type ClearComplete struct {
	Usernames []string
	Err       *Error
}

type OperationError struct {
	Err *Error
}

func (DeviceFound) isEvent()     {}
func (DeviceNotFound) isEvent()  {}
func (UsersFound) isEvent()      {}
func (UserSelected) isEvent()    {}
func (EnrolledFingers) isEvent() {}
func (EnrollStarted) isEvent()   {}
func (EnrollProgress) isEvent()  {}
func (EnrollTerminal) isEvent()  {}
func (DeleteComplete) isEvent()  {}
func (ClearComplete) isEvent()   {}
func (OperationError) isEvent()  {}

// DeviceInfo describes the discovered reader. StageCount is nil when unknown.
type DeviceInfo struct {
	Path       string `json:"path"`
	ScanType   string `json:"scan_type,omitempty"`
	StageCount *int   `json:"stage_count,omitempty"`
	// Readers lists every reader the service knows, default included.
	Readers []string `json:"readers,omitempty"`
}
