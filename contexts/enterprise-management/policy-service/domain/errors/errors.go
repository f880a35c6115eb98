package errors

import "errors"

var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrPolicyNotFound     = errors.New("policy not found")
	ErrEnterpriseNotFound = errors.New("enterprise not found")
	ErrForbidden          = errors.New("forbidden")
)
