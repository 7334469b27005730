package queue

import "errors"

// ErrDuplicate is returned by Join when the caller already occupies the
// queue. No mutation has happened when it is returned.
var ErrDuplicate = errors.New("caller is already in this queue")

// ErrEmptyIdentifier is returned when a phone number or queue name is
// blank.
var ErrEmptyIdentifier = errors.New("phone number and queue name must be non-empty")
