// FILE: internal/service/errors.go
package service

import "errors"

var (
	ErrInvalidPackage          = errors.New("unknown credit package")
	ErrGatewayNotConfigured    = errors.New("payment gateway is not configured")
	ErrPaymentInitiationFailed = errors.New("failed to initiate payment")
	ErrTransactionNotFound     = errors.New("transaction not found")
	ErrUserNotFound            = errors.New("user not found")
	ErrInsufficientCredits     = errors.New("insufficient credits")
	ErrForbidden               = errors.New("forbidden")
	ErrSessionNotFound         = errors.New("chat session not found")
	ErrEmailTaken              = errors.New("email already registered")
	ErrInvalidCredentials      = errors.New("invalid email or password")
	ErrInvalidUserStatus       = errors.New("invalid user status")
)
