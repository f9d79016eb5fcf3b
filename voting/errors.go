// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package voting

import "errors"

var ErrClaimedExceedsPrevested = errors.New("claimed amount exceeds prevested amount")
