// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import "errors"

var (
	ErrInvalidPlan       = errors.New("invalid plan")
	ErrInvalidStep       = errors.New("invalid step")
	ErrUnknownAction     = errors.New("unknown action")
	ErrUnknownQuery      = errors.New("unknown query")
	ErrUnknownField      = errors.New("unknown field")
	ErrRequirementFailed = errors.New("requirement failed")
)
