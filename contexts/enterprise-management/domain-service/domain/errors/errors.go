package errors

import "errors"

var (
	ErrInvalidRequest           = errors.New("invalid request")
	ErrDomainNotFound           = errors.New("domain not found")
	ErrDomainAlreadyExists      = errors.New("domain already exists")
	ErrDomainVerifiedByOther    = errors.New("root domain verified by another enterprise")
	ErrDomainVerificationFailed = errors.New("domain verification failed")
)
