// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vesting

import (
	"fmt"

	"github.com/ava-labs/avalanchego/utils/math"
)

// Vested returns the amount vested at time [t] under the continuous model.
func (a *Account) Vested(t int64) (uint64, error) {
	switch {
	case t < a.StartTime:
		return 0, nil
	case t >= a.EndTime:
		return a.VestingAmount, nil
	default:
		return MulDiv(a.VestingAmount, uint64(t-a.StartTime), uint64(a.EndTime-a.StartTime))
	}
}

// Prevested returns the amount usable for governance at time [t]. It ramps
// from the registration time to the start time, never drops below the
// prevesting amount and becomes the full vesting amount once vesting starts.
func (a *Account) Prevested(t int64) (uint64, error) {
	if t >= a.StartTime {
		return a.VestingAmount, nil
	}
	var ramp uint64
	if t > a.RegistrationTime {
		var err error
		ramp, err = MulDiv(a.VestingAmount, uint64(t-a.RegistrationTime), uint64(a.StartTime-a.RegistrationTime))
		if err != nil {
			return 0, err
		}
	}
	return max(a.PrevestingAmount, ramp), nil
}

// sumPayments adds up the payments due at height [h] that [include] selects.
// Nothing is due before the start time.
func (a *Account) sumPayments(t int64, h uint64, include func(PaymentStatus) bool) (uint64, error) {
	if t < a.StartTime {
		return 0, nil
	}
	var total uint64
	for _, p := range a.Payments {
		if p.Height > h || !include(p.Status) {
			continue
		}
		var err error
		total, err = math.Add(total, p.Amount)
		if err != nil {
			return 0, err
		}
	}
	return total, nil
}

// VestedAt returns the sum of payments due at height [h] that were not
// revoked.
func (a *Account) VestedAt(t int64, h uint64) (uint64, error) {
	return a.sumPayments(t, h, func(s PaymentStatus) bool { return s != Revoked })
}

// ClaimedAt returns the sum of paid payments due at height [h].
func (a *Account) ClaimedAt(t int64, h uint64) (uint64, error) {
	return a.sumPayments(t, h, func(s PaymentStatus) bool { return s == Paid })
}

// ClaimableAt returns the sum of pending payments due at height [h].
func (a *Account) ClaimableAt(t int64, h uint64) (uint64, error) {
	return a.sumPayments(t, h, func(s PaymentStatus) bool { return s == Pending })
}

// Amounts returns the vested and claimed amounts of a at time [t] and
// height [h] under [model].
func (a *Account) Amounts(model Model, t int64, h uint64) (uint64, uint64, error) {
	switch model {
	case Continuous:
		vested, err := a.Vested(t)
		return vested, a.ClaimedAmount, err
	case Scheduled:
		vested, err := a.VestedAt(t, h)
		if err != nil {
			return 0, 0, err
		}
		claimed, err := a.ClaimedAt(t, h)
		return vested, claimed, err
	default:
		return 0, 0, fmt.Errorf("%w: %d", ErrUnknownModel, model)
	}
}

// Claimable returns vested minus claimed. An underflow means the account
// invariants were violated and is reported, never clamped.
func Claimable(vested, claimed uint64) (uint64, error) {
	claimable, err := math.Sub(vested, claimed)
	if err != nil {
		return 0, fmt.Errorf("%w: vested=%d claimed=%d", ErrClaimedExceedsVested, vested, claimed)
	}
	return claimable, nil
}

// SettleDue marks every pending payment due at height [h] as paid and
// returns the amount settled.
func (a *Account) SettleDue(h uint64) (uint64, error) {
	var settled uint64
	for i := range a.Payments {
		p := &a.Payments[i]
		if p.Status != Pending || p.Height > h {
			continue
		}
		var err error
		settled, err = math.Add(settled, p.Amount)
		if err != nil {
			return 0, err
		}
		p.Status = Paid
	}
	a.ClaimedAmount += settled
	return settled, nil
}

// Settle is SettleDue for a call at time [t]. Nothing is due before the
// start time.
func (a *Account) Settle(t int64, h uint64) (uint64, error) {
	if t < a.StartTime {
		return 0, nil
	}
	return a.SettleDue(h)
}

// RevokeFuture marks every pending payment due after height [h] as revoked
// and returns the amount revoked.
func (a *Account) RevokeFuture(h uint64) (uint64, error) {
	return a.revokeWhere(func(p Payment) bool { return p.Height > h })
}

// Revoke is RevokeFuture for a call at time [t]. Before the start time every
// pending payment is revoked.
func (a *Account) Revoke(t int64, h uint64) (uint64, error) {
	if t < a.StartTime {
		return a.revokeWhere(func(Payment) bool { return true })
	}
	return a.RevokeFuture(h)
}

func (a *Account) revokeWhere(f func(Payment) bool) (uint64, error) {
	var revoked uint64
	for i := range a.Payments {
		p := &a.Payments[i]
		if p.Status != Pending || !f(*p) {
			continue
		}
		var err error
		revoked, err = math.Add(revoked, p.Amount)
		if err != nil {
			return 0, err
		}
		p.Status = Revoked
	}
	return revoked, nil
}

// HasPending returns whether any payment of a is still pending.
func (a *Account) HasPending() bool {
	for _, p := range a.Payments {
		if p.Status == Pending {
			return true
		}
	}
	return false
}
