package domain

import "errors"

var (
	ErrEntityNotFound   = errors.New("entity_not_found")
	ErrSelfFollow       = errors.New("self_follow")
	ErrNotActable       = errors.New("not_actable")
	ErrAlreadyFollowing = errors.New("already_following")
	ErrQueryTooShort    = errors.New("query_too_short")
)
