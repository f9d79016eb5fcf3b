// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"fmt"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/Jazz877/kleo-vesting/auth"
	"github.com/Jazz877/kleo-vesting/codec"
	"github.com/Jazz877/kleo-vesting/consts"
	"github.com/Jazz877/kleo-vesting/utils"
)

// MaxCallSize bounds the encoding of a single call.
const MaxCallSize = 64 * 1024

// Call is an action submitted by [Actor]. Calls submitted over the API
// must carry an [Auth] whose signer derives [Actor]. Calls built in process
// (genesis tooling, simulations) may leave it empty.
type Call struct {
	Actor  codec.Address `json:"actor"`
	Nonce  uint64        `json:"nonce"`
	Action Action        `json:"action"`
	Auth   *auth.ED25519 `json:"auth,omitempty"`

	digest []byte
	bytes  []byte
	id     ids.ID
}

// NewCall builds an unsigned call.
func NewCall(actor codec.Address, nonce uint64, action Action) (*Call, error) {
	c := &Call{Actor: actor, Nonce: nonce, Action: action}
	if err := c.init(); err != nil {
		return nil, err
	}
	return c, nil
}

// SignCall builds a call on behalf of the address controlled by
// [factory].
func SignCall(nonce uint64, action Action, factory *auth.ED25519Factory) (*Call, error) {
	c := &Call{Actor: factory.Address(), Nonce: nonce, Action: action}
	digest, err := c.Digest()
	if err != nil {
		return nil, err
	}
	c.Auth = factory.Sign(digest)
	if err := c.init(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Call) init() error {
	p := codec.NewWriter(c.Size(), MaxCallSize)
	c.Marshal(p)
	if err := p.Err(); err != nil {
		return err
	}
	c.bytes = p.Bytes()
	c.id = utils.ToID(c.bytes)
	return nil
}

func (c *Call) ID() ids.ID { return c.id }

func (c *Call) Bytes() []byte { return c.bytes }

func (c *Call) digestSize() int {
	return codec.AddressLen + consts.Uint64Len + consts.ByteLen + c.Action.Size()
}

// Digest is the signed part of the call.
func (c *Call) Digest() ([]byte, error) {
	if len(c.digest) > 0 {
		return c.digest, nil
	}
	p := codec.NewWriter(c.digestSize(), MaxCallSize)
	c.marshalDigest(p)
	if err := p.Err(); err != nil {
		return nil, err
	}
	c.digest = p.Bytes()
	return c.digest, nil
}

func (c *Call) Size() int {
	size := c.digestSize() + consts.BoolLen
	if c.Auth != nil {
		size += c.Auth.Size()
	}
	return size
}

func (c *Call) marshalDigest(p *codec.Packer) {
	p.PackAddress(c.Actor)
	p.PackUint64(c.Nonce)
	p.PackByte(c.Action.GetTypeID())
	c.Action.Marshal(p)
}

func (c *Call) Marshal(p *codec.Packer) {
	c.marshalDigest(p)
	p.PackBool(c.Auth != nil)
	if c.Auth != nil {
		c.Auth.Marshal(p)
	}
}

// Verify checks that [Auth] signed the call and derives [Actor].
func (c *Call) Verify() error {
	if err := c.CheckAuth(); err != nil {
		return err
	}
	digest, err := c.Digest()
	if err != nil {
		return err
	}
	return c.Auth.Verify(digest)
}

// CheckAuth checks that the call is signed by the key controlling [Actor]
// without verifying the signature.
func (c *Call) CheckAuth() error {
	if c.Auth == nil {
		return ErrMissingAuth
	}
	if c.Auth.Actor() != c.Actor {
		return fmt.Errorf("%w: signer=%s actor=%s", ErrActorMismatch, c.Auth.Actor(), c.Actor)
	}
	return nil
}

// VerifyCalls checks the signatures of [calls] together and returns one
// entry per call, nil when the call is valid.
func VerifyCalls(calls []*Call) []error {
	errs := make([]error, len(calls))
	bv := auth.NewBatchVerifier(len(calls))
	checked := make([]int, 0, len(calls))
	for i, c := range calls {
		if err := c.CheckAuth(); err != nil {
			errs[i] = err
			continue
		}
		digest, err := c.Digest()
		if err != nil {
			errs[i] = err
			continue
		}
		bv.Add(digest, c.Auth)
		checked = append(checked, i)
	}
	for j, err := range bv.Verify() {
		errs[checked[j]] = err
	}
	return errs
}

// UnmarshalCall decodes a call using the actions registered in
// [registry].
func UnmarshalCall(b []byte, registry *ActionRegistry) (*Call, error) {
	p := codec.NewReader(b, MaxCallSize)
	var c Call
	p.UnpackAddress(&c.Actor)
	c.Nonce = p.UnpackUint64(false)
	typeID := p.UnpackByte()
	unmarshal, ok := registry.LookupIndex(typeID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrActionNotRegistered, typeID)
	}
	action, err := unmarshal(p)
	if err != nil {
		return nil, err
	}
	c.Action = action
	digestEnd := p.Offset()
	if p.UnpackBool() {
		a, err := auth.UnmarshalED25519(p)
		if err != nil {
			return nil, err
		}
		c.Auth = a
	}
	if err := p.Err(); err != nil {
		return nil, err
	}
	if !p.Empty() {
		return nil, ErrInvalidObject
	}
	c.digest = b[:digestEnd]
	c.bytes = b
	c.id = utils.ToID(b)
	return &c, nil
}
