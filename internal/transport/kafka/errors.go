package kafka

import "errors"

type permanent struct{ err error }

func (p *permanent) Error() string { return "permanent: " + p.err.Error() }
func (p *permanent) Unwrap() error { return p.err }

// Permanent marks err as one redelivery cannot fix, such as a malformed event
// or an escrow that does not exist. The consumer commits past such messages.
// Permanent(nil) is nil.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanent{err: err}
}

// IsPermanent reports whether err or anything it wraps came from Permanent.
func IsPermanent(err error) bool {
	var p *permanent
	return errors.As(err, &p)
}
