package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrPersistence      = errors.New("persistence failure")
	ErrRemoteSubmission = errors.New("remote submission failure")
	ErrRemoteStatus     = errors.New("remote status check failure")
	ErrPollingTimeout   = errors.New("polling timeout")
)
