// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package snapshot

import "errors"

var ErrCorruptIndex = errors.New("corrupt snapshot index")
