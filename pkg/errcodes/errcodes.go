package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	Forbidden           failure.ErrorCode = "Forbidden"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"
	CredentialsMismatch failure.ErrorCode = "CredentialsMismatch"

	// Session and role gate.
	SessionRequired   failure.ErrorCode = "SessionRequired"
	SessionInvalid    failure.ErrorCode = "SessionInvalid"
	AdminRoleRequired failure.ErrorCode = "AdminRoleRequired"
	UserNotFound      failure.ErrorCode = "UserNotFound"

	// Deals.
	DealNotFound             failure.ErrorCode = "DealNotFound"
	InvalidDealID            failure.ErrorCode = "InvalidDealID"
	InvalidCategory          failure.ErrorCode = "InvalidCategory"
	InvalidURL               failure.ErrorCode = "InvalidURL"
	DiscountNotBelowOriginal failure.ErrorCode = "DiscountNotBelowOriginal"
	DeleteNotConfirmed       failure.ErrorCode = "DeleteNotConfirmed"
)
