// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vesting

import (
	"fmt"
	"strings"

	"github.com/Jazz877/kleo-vesting/codec"
	"github.com/Jazz877/kleo-vesting/consts"
)

// Model selects how an account accrues.
type Model uint8

const (
	// Continuous interpolates the vested amount from the block time.
	Continuous Model = iota
	// Scheduled releases a precomputed payment per block interval.
	Scheduled
)

func (m Model) String() string {
	switch m {
	case Continuous:
		return "continuous"
	case Scheduled:
		return "scheduled"
	default:
		return fmt.Sprintf("model(%d)", uint8(m))
	}
}

func ParseModel(s string) (Model, error) {
	switch strings.ToLower(s) {
	case "", "continuous":
		return Continuous, nil
	case "scheduled":
		return Scheduled, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownModel, s)
	}
}

func (m Model) MarshalText() ([]byte, error) {
	if m > Scheduled {
		return nil, fmt.Errorf("%w: %d", ErrUnknownModel, m)
	}
	return []byte(m.String()), nil
}

func (m *Model) UnmarshalText(b []byte) error {
	parsed, err := ParseModel(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

type PaymentStatus uint8

const (
	Pending PaymentStatus = iota
	Paid
	Revoked
)

func (s PaymentStatus) String() string {
	switch s {
	case Pending:
		return "pending"
	case Paid:
		return "paid"
	case Revoked:
		return "revoked"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

func (s PaymentStatus) MarshalText() ([]byte, error) {
	if s > Revoked {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStatus, s)
	}
	return []byte(s.String()), nil
}

func (s *PaymentStatus) UnmarshalText(b []byte) error {
	switch string(b) {
	case "pending":
		*s = Pending
	case "paid":
		*s = Paid
	case "revoked":
		*s = Revoked
	default:
		return fmt.Errorf("%w: %s", ErrUnknownStatus, b)
	}
	return nil
}

// Payment is the slice of an account released at one block interval.
type Payment struct {
	Amount    uint64        `json:"amount"`
	Height    uint64        `json:"height"`
	Timestamp int64         `json:"timestamp"`
	Status    PaymentStatus `json:"status"`
}

const paymentSize = consts.Uint64Len*2 + consts.Int64Len + consts.ByteLen

// Account is the live vesting record of a beneficiary.
type Account struct {
	Address          codec.Address `json:"address"`
	VestingAmount    uint64        `json:"vestingAmount"`
	PrevestingAmount uint64        `json:"prevestingAmount"`
	RegistrationTime int64         `json:"registrationTime"`
	StartTime        int64         `json:"startTime"`
	EndTime          int64         `json:"endTime"`
	ClaimedAmount    uint64        `json:"claimedAmount"`
	Payments         []Payment     `json:"payments,omitempty"`
}

// Validate checks the registration invariants of a against the block time
// [now].
func (a *Account) Validate(now int64) error {
	switch {
	case a.VestingAmount == 0:
		return ErrZeroVestingAmount
	case a.PrevestingAmount > a.VestingAmount:
		return fmt.Errorf("%w: %d > %d", ErrPrevestingExceedsVesting, a.PrevestingAmount, a.VestingAmount)
	case a.RegistrationTime < now:
		return fmt.Errorf("%w: %d < %d", ErrRegistrationBeforeNow, a.RegistrationTime, now)
	case a.StartTime < now:
		return fmt.Errorf("%w: %d < %d", ErrStartBeforeNow, a.StartTime, now)
	case a.StartTime < a.RegistrationTime:
		return fmt.Errorf("%w: %d < %d", ErrStartBeforeRegistration, a.StartTime, a.RegistrationTime)
	case a.EndTime < a.StartTime:
		return fmt.Errorf("%w: %d < %d", ErrEndBeforeStart, a.EndTime, a.StartTime)
	default:
		return nil
	}
}

// Size returns the number of bytes Marshal writes for a.
func (a *Account) Size() int {
	return codec.AddressLen + consts.Uint64Len*3 + consts.Int64Len*3 + consts.IntLen + len(a.Payments)*paymentSize
}

func (a *Account) Marshal(p *codec.Packer) {
	p.PackAddress(a.Address)
	p.PackUint64(a.VestingAmount)
	p.PackUint64(a.PrevestingAmount)
	p.PackInt64(a.RegistrationTime)
	p.PackInt64(a.StartTime)
	p.PackInt64(a.EndTime)
	p.PackUint64(a.ClaimedAmount)
	packPayments(p, a.Payments)
}

func UnmarshalAccount(p *codec.Packer) (*Account, error) {
	var a Account
	p.UnpackAddress(&a.Address)
	a.VestingAmount = p.UnpackUint64(true)
	a.PrevestingAmount = p.UnpackUint64(false)
	a.RegistrationTime = p.UnpackInt64(false)
	a.StartTime = p.UnpackInt64(false)
	a.EndTime = p.UnpackInt64(false)
	a.ClaimedAmount = p.UnpackUint64(false)
	a.Payments = unpackPayments(p)
	return &a, p.Err()
}

func packPayments(p *codec.Packer, payments []Payment) {
	p.PackInt(uint32(len(payments)))
	for _, pm := range payments {
		p.PackUint64(pm.Amount)
		p.PackUint64(pm.Height)
		p.PackInt64(pm.Timestamp)
		p.PackByte(byte(pm.Status))
	}
}

func unpackPayments(p *codec.Packer) []Payment {
	count := p.UnpackInt(false)
	if count == 0 || p.Err() != nil {
		return nil
	}
	if remaining := len(p.Bytes()) - p.Offset(); int(count) > remaining/paymentSize {
		// Length prefix is larger than the rest of the input.
		var skip []byte
		p.UnpackFixedBytes(remaining+1, &skip)
		return nil
	}
	payments := make([]Payment, count)
	for i := range payments {
		payments[i].Amount = p.UnpackUint64(false)
		payments[i].Height = p.UnpackUint64(false)
		payments[i].Timestamp = p.UnpackInt64(false)
		payments[i].Status = PaymentStatus(p.UnpackByte())
	}
	return payments
}

// Clone returns a deep copy of a.
func (a *Account) Clone() *Account {
	c := *a
	if a.Payments != nil {
		c.Payments = make([]Payment, len(a.Payments))
		copy(c.Payments, a.Payments)
	}
	return &c
}
