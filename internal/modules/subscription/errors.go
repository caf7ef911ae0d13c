package subscription

import "foodgram/internal/pkg/apperr"

var (
	ErrSelfSubscription  = apperr.New(apperr.KindValidation, "SELF_SUBSCRIPTION", "You cannot subscribe to yourself")
	ErrAlreadySubscribed = apperr.New(apperr.KindValidation, "ALREADY_SUBSCRIBED", "You are already subscribed to this author")
	ErrNotSubscribed     = apperr.New(apperr.KindNotFound, "NOT_SUBSCRIBED", "You are not subscribed to this author")
	ErrAuthorNotFound    = apperr.New(apperr.KindNotFound, "AUTHOR_NOT_FOUND", "Author not found")
	ErrAuthRequired      = apperr.New(apperr.KindAuthentication, "NOT_AUTHENTICATED", "Authentication credentials were not provided")
)
