package domain

import "errors"

var (
	ErrNotificationNotFound = errors.New("notification_not_found")
	ErrNotRecipient         = errors.New("not_recipient")
)
