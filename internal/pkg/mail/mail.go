package mail

import (
	"context"
	"io"
)

// Message is one outgoing email. To must not be empty. When both bodies are
// set the message goes out as multipart/alternative.
type Message struct {
	// From overrides the client's configured sender.
	From     string
	To       []string
	Cc       []string
	Bcc      []string
	Subject  string
	TextBody string
	HTMLBody string
}

// Mail is the outbound notification sink. Send failures are reported to the
// caller, which maps them to a delivery error.
type Mail interface {
	io.Closer
	Send(ctx context.Context, msg Message) error
}
