package domain

import "errors"

var (
	ErrBusinessNotFound = errors.New("business_not_found")
	ErrInvalidName      = errors.New("invalid_business_name")
	ErrInvalidSlug      = errors.New("invalid_slug")
	ErrSlugTaken        = errors.New("slug_taken")
	ErrNotOwner         = errors.New("not_owner")

	ErrAlreadyClaimed      = errors.New("business_already_claimed")
	ErrClaimReasonTooShort = errors.New("claim_reason_too_short")
	ErrClaimExists         = errors.New("claim_exists")
	ErrClaimNotFound       = errors.New("claim_not_found")
	ErrClaimNotPending     = errors.New("claim_not_pending")

	ErrMembershipNotFound = errors.New("membership_not_found")
	ErrMembershipExists   = errors.New("membership_exists")
	ErrCannotInviteSelf   = errors.New("cannot_invite_self")
	ErrInviteNotPending   = errors.New("invite_not_pending")
	ErrNotActiveManager   = errors.New("not_active_manager")

	ErrAlreadyFollowing = errors.New("already_following_business")
)
