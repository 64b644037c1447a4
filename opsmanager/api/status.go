package api

type ProbeStatus string

// String implements Stringer interface
func (st ProbeStatus) String() string {
	return string(st)
}

const (
	Accessible    ProbeStatus = "accessible"
	Unreachable   ProbeStatus = "unreachable"
	Timeout       ProbeStatus = "timeout"
	ProbeError    ProbeStatus = "error"
	Authenticated ProbeStatus = "authenticated"
	Unauthorized  ProbeStatus = "unauthorized"
	NotChecked    ProbeStatus = "not_checked"
)

// AttemptDetail records one reachability attempt of the retry ladder.
type AttemptDetail struct {
	Attempt      int     `json:"attempt"`
	Status       string  `json:"status"`
	StatusCode   int     `json:"status_code,omitempty"`
	ResponseTime float64 `json:"response_time"`
	TimeoutSecs  float64 `json:"timeout,omitempty"`
	Error        string  `json:"error,omitempty"`
}

type AccessibilityResult struct {
	Status         ProbeStatus     `json:"status"`
	ResponseTime   float64         `json:"response_time"`
	Attempts       int             `json:"attempts"`
	Details        string          `json:"details,omitempty"`
	AttemptDetails []AttemptDetail `json:"attempt_details,omitempty"`
}

type AuthResult struct {
	Status       ProbeStatus `json:"status"`
	ResponseTime float64     `json:"response_time"`
	StatusCode   int         `json:"status_code,omitempty"`
	Error        string      `json:"error,omitempty"`
}

// InstanceStatus is the combined probe outcome of one Ops Manager.
type InstanceStatus struct {
	Url            string              `json:"url"`
	Hostname       string              `json:"hostname"`
	Region         string              `json:"region"`
	Environment    string              `json:"environment"`
	Accessibility  AccessibilityResult `json:"accessibility"`
	Authentication AuthResult          `json:"authentication"`
	Version        string              `json:"version"`
}
