package mail

type AcknowledgmentData struct {
	SenderName string
	InquiryID  string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}
