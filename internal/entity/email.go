package entity

import "time"

// InboundEmail is a parsed message handed over by the mail-fetching collaborator.
// From carries the raw header ("Jane Smith" <jane@acme.com>); SenderEmail is the
// bare address the fetcher already extracted.
type InboundEmail struct {
	MessageID   string    `json:"message_id"`
	From        string    `json:"from"`
	SenderEmail string    `json:"sender_email"`
	SenderName  string    `json:"sender_name,omitempty"`
	Subject     string    `json:"subject"`
	Date        time.Time `json:"date"`
	Body        string    `json:"body"`
}

// OutboundEmail is what we hand to the mail-sending collaborator.
type OutboundEmail struct {
	To          string       `json:"to"`
	Subject     string       `json:"subject"`
	Body        string       `json:"body"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

type Attachment struct {
	Filename string `json:"filename"`
	Content  []byte `json:"content"`
	MIMEType string `json:"mime_type"`
}
