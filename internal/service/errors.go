package service

import "errors"

// Messages returned to the webhook caller for recoverable failures.
const (
	MsgMissingSubject  = "Missing email subject"
	MsgParentNotFound  = "Blog parent page not found"
	MsgNoPagePath      = "Unable to determine page path"
	MsgCreateDirFailed = "Unable to create page directory"
	MsgAttachmentFmt   = "Unable to store attachment: %s"
)

// ExpectedError is a failure the caller can correct by changing the request
// or the site setup. Its message is safe to return verbatim.
// Every other error leaving the service is unexpected.
type ExpectedError struct {
	Message string
	Err     error
}

func (e *ExpectedError) Error() string {
	return e.Message
}

func (e *ExpectedError) Unwrap() error {
	return e.Err
}

func expected(msg string, cause error) error {
	return &ExpectedError{Message: msg, Err: cause}
}

// AsExpected returns the message of an ExpectedError anywhere in err's chain.
func AsExpected(err error) (string, bool) {
	var e *ExpectedError
	if errors.As(err, &e) {
		return e.Message, true
	}
	return "", false
}
