package domain

import "errors"

var (
	ErrRatingNotFound  = errors.New("rating_not_found")
	ErrScoreOutOfRange = errors.New("score_out_of_range")
	ErrAlreadyLiked    = errors.New("already_liked")
	ErrEmptyComment    = errors.New("empty_comment")
	ErrCommentNotFound = errors.New("comment_not_found")
	ErrNotCommentOwner = errors.New("not_comment_owner")
	ErrNotRatingOwner  = errors.New("not_rating_owner")
)
