package model

import "errors"

var (
	// Account related errors
	ErrAccountNotFound      = errors.New("account not found")
	ErrAccountAlreadyExists = errors.New("account already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")

	// Token related errors
	ErrInvalidToken = errors.New("invalid token")

	// Permission related errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Marketplace related errors
	ErrListingNotFound   = errors.New("listing not found")
	ErrEquipmentNotFound = errors.New("equipment request not found")

	// Price lookup errors
	ErrNoPriceData = errors.New("no price data found in response")
)
