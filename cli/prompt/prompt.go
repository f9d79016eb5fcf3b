// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package prompt

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/Jazz877/kleo-vesting/codec"
	"github.com/Jazz877/kleo-vesting/consts"
	"github.com/Jazz877/kleo-vesting/utils"
)

var (
	ErrInputEmpty      = errors.New("input is empty")
	ErrIndexOutOfRange = errors.New("index out-of-range")
	ErrAmountTooLarge  = errors.New("amount too large")
	ErrInvalidRatio    = errors.New("invalid ratio")
	ErrNegativeTime    = errors.New("time is negative")
)

// ask prompts for [label] until [parse] accepts the trimmed input and
// returns what it parsed.
func ask[T any](label string, parse func(string) (T, error)) (T, error) {
	p := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			_, err := parse(strings.TrimSpace(input))
			return err
		},
	}
	raw, err := p.Run()
	if err != nil {
		var empty T
		return empty, err
	}
	return parse(strings.TrimSpace(raw))
}

func parseAddress(input string) (codec.Address, error) {
	if len(input) == 0 {
		return codec.EmptyAddress, ErrInputEmpty
	}
	return codec.ParseAddressBech32(consts.HRP, input)
}

func parseOptionalAddress(input string) (codec.Address, error) {
	if len(input) == 0 {
		return codec.EmptyAddress, nil
	}
	return parseAddress(input)
}

func amountParser(limit uint64) func(string) (uint64, error) {
	return func(input string) (uint64, error) {
		if len(input) == 0 {
			return 0, ErrInputEmpty
		}
		amount, err := utils.ParseBalance(input)
		if err != nil {
			return 0, err
		}
		if amount > limit {
			return 0, fmt.Errorf("%w: %s > %s", ErrAmountTooLarge, utils.FormatBalance(amount), utils.FormatBalance(limit))
		}
		return amount, nil
	}
}

func parseTime(input string) (int64, error) {
	ms, err := strconv.ParseInt(input, 10, 64)
	if err != nil {
		return 0, err
	}
	if ms < 0 {
		return 0, ErrNegativeTime
	}
	return ms, nil
}

// ParseRatio converts a decimal string ("0.5") to a fixed point ratio with
// [consts.RatioPrecision] as 1.0.
func ParseRatio(input string) (uint64, error) {
	r, ok := new(big.Rat).SetString(strings.TrimSpace(input))
	if !ok || r.Sign() <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRatio, input)
	}
	r.Mul(r, new(big.Rat).SetInt(new(big.Int).SetUint64(consts.RatioPrecision)))
	v := new(big.Int).Quo(r.Num(), r.Denom())
	if !v.IsUint64() || v.Uint64() == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRatio, input)
	}
	return v.Uint64(), nil
}

func choiceParser(n int) func(string) (int, error) {
	return func(input string) (int, error) {
		index, err := strconv.Atoi(input)
		if err != nil {
			return -1, err
		}
		if index < 0 || index >= n {
			return -1, ErrIndexOutOfRange
		}
		return index, nil
	}
}

func Address(label string) (codec.Address, error) {
	return ask(label, parseAddress)
}

// OptionalAddress returns [codec.EmptyAddress] when nothing is entered.
func OptionalAddress(label string) (codec.Address, error) {
	return ask(label+" (leave empty for default)", parseOptionalAddress)
}

// Amount reads a token amount in whole units of at most [limit] base units.
func Amount(label string, limit uint64) (uint64, error) {
	return ask(label+" ("+consts.Symbol+")", amountParser(limit))
}

// Time reads a unix timestamp in milliseconds.
func Time(label string) (int64, error) {
	return ask(label+" (unix ms)", parseTime)
}

func Ratio(label string) (uint64, error) {
	return ask(label+" (1.0 = one vote per token)", ParseRatio)
}

// Choice reads an index below [n]. A single option is picked without asking.
func Choice(label string, n int) (int, error) {
	if n == 1 {
		utils.Outf("{{yellow}}%s:{{/}} 0 [auto-selected]\n", label)
		return 0, nil
	}
	return ask(label, choiceParser(n))
}

// Continue asks for confirmation before a call is submitted.
func Continue() (bool, error) {
	p := promptui.Prompt{
		Label:     "submit call",
		IsConfirm: true,
	}
	_, err := p.Run()
	switch {
	case errors.Is(err, promptui.ErrAbort):
		utils.Outf("{{red}}aborted{{/}}\n")
		return false, nil
	case err != nil:
		return false, err
	default:
		return true, nil
	}
}
