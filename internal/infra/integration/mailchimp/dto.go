package mailchimp

// StatusPending makes Mailchimp send the double opt-in confirmation.
const StatusPending = "pending"

type AddListMemberInput struct {
	EmailAddress string `json:"email_address"`
	Status       string `json:"status"`
}

type errorResponse struct {
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}
