package service

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure for the boundary layer
type ErrorKind string

const (
	KindInvalid         ErrorKind = "invalid"
	KindUnauthenticated ErrorKind = "unauthenticated"
	KindForbidden       ErrorKind = "forbidden"
	KindNotFound        ErrorKind = "not_found"
	KindConflict        ErrorKind = "conflict"
	KindInternal        ErrorKind = "internal"
)

// Error is a classified service failure. Message is safe to show to callers.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrEmailTaken is returned by user stores when the email unique index is violated
var ErrEmailTaken = errors.New("email already registered")

// ErrReferralCodeTaken is returned by user stores when the referral code unique index is violated
var ErrReferralCodeTaken = errors.New("referral code already assigned")

func invalid(format string, args ...any) error {
	return &Error{Kind: KindInvalid, Message: fmt.Sprintf(format, args...)}
}

func unauthenticated(message string) error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

func forbidden(message string) error {
	return &Error{Kind: KindForbidden, Message: message}
}

func notFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

func conflict(message string) error {
	return &Error{Kind: KindConflict, Message: message}
}

// KindOf returns the kind of err, or KindInternal for unclassified errors
func KindOf(err error) ErrorKind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err is a service error of the given kind
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

// PublicMessage returns the caller-facing message for err.
// Unclassified errors never expose their text.
func PublicMessage(err error) string {
	var svcErr *Error
	if errors.As(err, &svcErr) && svcErr.Kind != KindInternal {
		return svcErr.Message
	}
	return "Internal server error"
}

const (
	msgUserNotFound       = "User not found"
	msgVaultNotFound      = "Vault not found"
	msgEmailTaken         = "User with this email already exists"
	msgBadCredentials     = "Incorrect email or password"
	msgOnlyWhisperers     = "Only whisperers can create vaults"
	msgOnlyListeners      = "Only listeners can create pledges"
	msgNotUnlocked        = "Vault is not unlocked yet"
	msgMustPledge         = "You must pledge to access this content"
	msgAccessDenied       = "Access denied"
	msgNotVaultOwner      = "Only the vault owner can modify this vault"
	msgUnlockRequiresFund = "Vault must be funded before it can be unlocked"
)
