package model

import "foodgram-backend/internal/shared/apperr"

var (
	ErrUserNotFound       = apperr.New(apperr.KindNotFound, "USER_NOT_FOUND", "user not found")
	ErrEmailExists        = apperr.New(apperr.KindConflict, "EMAIL_EXISTS", "a user with that email already exists")
	ErrUsernameExists     = apperr.New(apperr.KindConflict, "USERNAME_EXISTS", "a user with that username already exists")
	ErrInvalidCredentials = apperr.New(apperr.KindBadRequest, "INVALID_CREDENTIALS", "unable to log in with provided credentials")

	ErrSelfSubscription  = apperr.New(apperr.KindBadRequest, "SELF_SUBSCRIPTION", "you cannot subscribe to yourself")
	ErrAlreadySubscribed = apperr.New(apperr.KindConflict, "ALREADY_SUBSCRIBED", "you are already subscribed to this user")
	ErrNotSubscribed     = apperr.New(apperr.KindBadRequest, "NOT_SUBSCRIBED", "you are not subscribed to this user")
)
