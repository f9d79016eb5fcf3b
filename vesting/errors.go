// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vesting

import "errors"

var (
	ErrZeroVestingAmount        = errors.New("vesting amount must be greater than zero")
	ErrStartBeforeNow           = errors.New("start time must not precede block time")
	ErrEndBeforeStart           = errors.New("end time must not precede start time")
	ErrRegistrationBeforeNow    = errors.New("registration time must not precede block time")
	ErrStartBeforeRegistration  = errors.New("start time must not precede registration time")
	ErrPrevestingExceedsVesting = errors.New("prevesting amount exceeds vesting amount")
	ErrClaimedExceedsVested     = errors.New("claimed amount exceeds vested amount")
	ErrDivideByZero             = errors.New("divide by zero")
	ErrInvalidBlockTime         = errors.New("block time must be greater than zero")
	ErrEmptySchedule            = errors.New("payment schedule is empty")
	ErrScheduleTooLong          = errors.New("payment schedule is too long")
	ErrUnknownModel             = errors.New("unknown vesting model")
	ErrUnknownStatus            = errors.New("unknown payment status")
)
