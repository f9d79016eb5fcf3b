// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// "vesting-cli" signs and submits vesting calls and queries a node.
package main

import (
	"context"
	"os"

	"github.com/Jazz877/kleo-vesting/cmd/vesting-cli/cmd"
	"github.com/Jazz877/kleo-vesting/utils"
)

func main() {
	if err := cmd.Execute(context.Background()); err != nil {
		utils.Outf("{{red}}vesting-cli exited with error:{{/}} %+v\n", err)
		os.Exit(1)
	}
	os.Exit(0)
}
