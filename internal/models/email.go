package models

// Email is a single outgoing message with an optional attachment
type Email struct {
	To             string
	Subject        string
	Body           string
	AttachmentName string
	Attachment     []byte
}
