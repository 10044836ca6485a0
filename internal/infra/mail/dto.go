package mail

type LeadNotificationData struct {
	Email     string
	Source    string
	Campaign  string
	UserAgent string
	IP        string
	Time      string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       string
}
