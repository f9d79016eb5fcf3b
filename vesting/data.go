// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vesting

import (
	"github.com/ava-labs/avalanchego/utils/math"
	"github.com/ava-labs/avalanchego/utils/wrappers"

	"github.com/Jazz877/kleo-vesting/codec"
	"github.com/Jazz877/kleo-vesting/consts"
)

// Data is the projection of an account at a point in time.
type Data struct {
	Address          codec.Address `json:"address"`
	VestingAmount    uint64        `json:"vestingAmount"`
	VestedAmount     uint64        `json:"vestedAmount"`
	ClaimableAmount  uint64        `json:"claimableAmount"`
	ClaimedAmount    uint64        `json:"claimedAmount"`
	PrevestingAmount uint64        `json:"prevestingAmount"`
	PrevestedAmount  uint64        `json:"prevestedAmount"`
	RegistrationTime int64         `json:"registrationTime"`
	StartTime        int64         `json:"startTime"`
	EndTime          int64         `json:"endTime"`
	Payments         []Payment     `json:"payments,omitempty"`
}

// Project computes the Data of a at time [t] and height [h].
func (a *Account) Project(model Model, t int64, h uint64, withPayments bool) (*Data, error) {
	vested, claimed, err := a.Amounts(model, t, h)
	if err != nil {
		return nil, err
	}
	claimable, err := Claimable(vested, claimed)
	if err != nil {
		return nil, err
	}
	prevested, err := a.Prevested(t)
	if err != nil {
		return nil, err
	}
	d := &Data{
		Address:          a.Address,
		VestingAmount:    a.VestingAmount,
		VestedAmount:     vested,
		ClaimableAmount:  claimable,
		ClaimedAmount:    claimed,
		PrevestingAmount: a.PrevestingAmount,
		PrevestedAmount:  prevested,
		RegistrationTime: a.RegistrationTime,
		StartTime:        a.StartTime,
		EndTime:          a.EndTime,
	}
	if withPayments && len(a.Payments) > 0 {
		d.Payments = make([]Payment, len(a.Payments))
		copy(d.Payments, a.Payments)
	}
	return d, nil
}

// Closed returns the final projection of an account leaving the live store:
// everything it was entitled to has been claimed and nothing remains
// claimable.
func (d *Data) Closed() *Data {
	c := *d
	c.Payments = nil
	c.ClaimedAmount = d.VestedAmount
	c.ClaimableAmount = 0
	return &c
}

// Revoked returns the final projection of a deregistered account: nothing
// remains vesting, vested or claimable.
func (d *Data) Revoked() *Data {
	return &Data{
		Address:          d.Address,
		RegistrationTime: d.RegistrationTime,
		StartTime:        d.StartTime,
		EndTime:          d.EndTime,
	}
}

func (d *Data) Size() int {
	return codec.AddressLen + consts.Uint64Len*6 + consts.Int64Len*3 + consts.IntLen + len(d.Payments)*paymentSize
}

func (d *Data) Marshal(p *codec.Packer) {
	p.PackAddress(d.Address)
	p.PackUint64(d.VestingAmount)
	p.PackUint64(d.VestedAmount)
	p.PackUint64(d.ClaimableAmount)
	p.PackUint64(d.ClaimedAmount)
	p.PackUint64(d.PrevestingAmount)
	p.PackUint64(d.PrevestedAmount)
	p.PackInt64(d.RegistrationTime)
	p.PackInt64(d.StartTime)
	p.PackInt64(d.EndTime)
	packPayments(p, d.Payments)
}

func UnmarshalData(p *codec.Packer) (*Data, error) {
	var d Data
	p.UnpackAddress(&d.Address)
	d.VestingAmount = p.UnpackUint64(false)
	d.VestedAmount = p.UnpackUint64(false)
	d.ClaimableAmount = p.UnpackUint64(false)
	d.ClaimedAmount = p.UnpackUint64(false)
	d.PrevestingAmount = p.UnpackUint64(false)
	d.PrevestedAmount = p.UnpackUint64(false)
	d.RegistrationTime = p.UnpackInt64(false)
	d.StartTime = p.UnpackInt64(false)
	d.EndTime = p.UnpackInt64(false)
	d.Payments = unpackPayments(p)
	return &d, p.Err()
}

// Totals is the aggregate of all live accounts at a snapshot.
type Totals struct {
	VestingAmount    uint64 `json:"vestingAmount"`
	VestedAmount     uint64 `json:"vestedAmount"`
	ClaimedAmount    uint64 `json:"claimedAmount"`
	PrevestingAmount uint64 `json:"prevestingAmount"`
	PrevestedAmount  uint64 `json:"prevestedAmount"`
}

const TotalsSize = consts.Uint64Len * 5

// Add accumulates [d] into t.
func (t *Totals) Add(d *Data) error {
	var (
		errs wrappers.Errs
		err  error
	)
	t.VestingAmount, err = math.Add(t.VestingAmount, d.VestingAmount)
	errs.Add(err)
	t.VestedAmount, err = math.Add(t.VestedAmount, d.VestedAmount)
	errs.Add(err)
	t.ClaimedAmount, err = math.Add(t.ClaimedAmount, d.ClaimedAmount)
	errs.Add(err)
	t.PrevestingAmount, err = math.Add(t.PrevestingAmount, d.PrevestingAmount)
	errs.Add(err)
	t.PrevestedAmount, err = math.Add(t.PrevestedAmount, d.PrevestedAmount)
	errs.Add(err)
	return errs.Err
}

func (t *Totals) Marshal(p *codec.Packer) {
	p.PackUint64(t.VestingAmount)
	p.PackUint64(t.VestedAmount)
	p.PackUint64(t.ClaimedAmount)
	p.PackUint64(t.PrevestingAmount)
	p.PackUint64(t.PrevestedAmount)
}

func UnmarshalTotals(p *codec.Packer) (*Totals, error) {
	var t Totals
	t.VestingAmount = p.UnpackUint64(false)
	t.VestedAmount = p.UnpackUint64(false)
	t.ClaimedAmount = p.UnpackUint64(false)
	t.PrevestingAmount = p.UnpackUint64(false)
	t.PrevestedAmount = p.UnpackUint64(false)
	return &t, p.Err()
}
