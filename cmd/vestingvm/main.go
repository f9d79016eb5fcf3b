// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// "vestingvm" runs a vesting node and replays simulation plans.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Jazz877/kleo-vesting/cmd/vestingvm/cmd"
)

func main() {
	if err := cmd.NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "vestingvm failed: %v\n", err)
		os.Exit(1)
	}
	os.Exit(0)
}
