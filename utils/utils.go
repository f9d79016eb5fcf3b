// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"path"
	"strings"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
	"github.com/ava-labs/avalanchego/utils/perms"

	formatter "github.com/onsi/ginkgo/v2/formatter"

	"github.com/Jazz877/kleo-vesting/consts"
)

var ErrInvalidBalance = errors.New("invalid balance")

var unit = new(big.Int).Exp(big.NewInt(10), big.NewInt(consts.Decimals), nil)

func ToID(bytes []byte) ids.ID {
	return ids.ID(hashing.ComputeHash256Array(bytes))
}

// InitSubDirectory creates [rootPath]/[name] if it does not exist.
func InitSubDirectory(rootPath string, name string) (string, error) {
	p := path.Join(rootPath, name)
	return p, os.MkdirAll(p, perms.ReadWriteExecute)
}

// Outf writes a formatted, colorized string to stdout.
//
//	Outf("{{green}}{{bold}}claimed %s{{/}}\n", amount)
//
// See github.com/onsi/ginkgo/v2/formatter for the color tags.
func Outf(format string, args ...interface{}) {
	fmt.Fprint(formatter.ColorableStdOut, formatter.F(format, args...))
}

// FormatBalance renders base units with [consts.Decimals] decimals.
func FormatBalance(bal uint64) string {
	q, r := new(big.Int).QuoRem(new(big.Int).SetUint64(bal), unit, new(big.Int))
	frac := r.String()
	return q.String() + "." + strings.Repeat("0", consts.Decimals-len(frac)) + frac
}

// ParseBalance converts a decimal amount to base units. Digits beyond
// [consts.Decimals] are rejected rather than rounded.
func ParseBalance(bal string) (uint64, error) {
	r, ok := new(big.Rat).SetString(strings.TrimSpace(bal))
	if !ok || r.Sign() < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidBalance, bal)
	}
	r.Mul(r, new(big.Rat).SetInt(unit))
	if !r.IsInt() || !r.Num().IsUint64() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidBalance, bal)
	}
	return r.Num().Uint64(), nil
}
