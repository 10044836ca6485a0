package usecase

// CaptureLeadInput is one waitlist submission plus the request metadata
// the transport layer derived for it.
type CaptureLeadInput struct {
	Email    string `json:"email"`
	Company  string `json:"company"`
	Source   string `json:"source"`
	Campaign string `json:"campaign"`

	UserAgent string `json:"-"`
	ClientIP  string `json:"-"`
}

type CaptureStatus string

const (
	StatusAccepted CaptureStatus = "ACCEPTED"
	StatusDropped  CaptureStatus = "DROPPED" // honeypot
)

type CaptureLeadOutput struct {
	ID     string        `json:"id,omitempty"`
	Status CaptureStatus `json:"-"`
}
