package errors

import "errors"

var (
	ErrInvalidRequest               = errors.New("invalid request")
	ErrEnterpriseNotFound           = errors.New("enterprise not found")
	ErrEnterpriseLocked             = errors.New("enterprise is locked")
	ErrMemberNotFound               = errors.New("member not found")
	ErrMemberAlreadyExists          = errors.New("member already exists")
	ErrMemberUpdateForbidden        = errors.New("member update forbidden")
	ErrPrimaryMemberProtected       = errors.New("primary member is protected")
	ErrInvitationRejectionForbidden = errors.New("invitation rejection forbidden")
	ErrInvitationTokenInvalid       = errors.New("invitation token invalid")
	ErrIdempotencyKeyRequired       = errors.New("idempotency key is required")
	ErrIdempotencyConflict          = errors.New("idempotency key conflict")
)
