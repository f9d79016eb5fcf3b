// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import (
	"errors"

	"github.com/ava-labs/avalanchego/database"

	"github.com/Jazz877/kleo-vesting/auth"
	"github.com/Jazz877/kleo-vesting/codec"
	"github.com/Jazz877/kleo-vesting/crypto/ed25519"
)

const (
	defaultPrefix = 0x0
	keyPrefix     = 0x1

	defaultKeyKey      = "key"
	defaultEndpointKey = "endpoint"
)

func defaultKey(key string) []byte {
	k := make([]byte, 1+len(key))
	k[0] = defaultPrefix
	copy(k[1:], key)
	return k
}

func (h *Handler) StoreDefault(key string, value []byte) error {
	return h.db.Put(defaultKey(key), value)
}

// GetDefault returns nil when [key] was never stored.
func (h *Handler) GetDefault(key string) ([]byte, error) {
	v, err := h.db.Get(defaultKey(key))
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	return v, err
}

func (h *Handler) StoreEndpoint(uri string) error {
	return h.StoreDefault(defaultEndpointKey, []byte(uri))
}

func (h *Handler) GetEndpoint() (string, error) {
	v, err := h.GetDefault(defaultEndpointKey)
	if err != nil {
		return "", err
	}
	if len(v) == 0 {
		return "", ErrNoEndpoint
	}
	return string(v), nil
}

func addressKey(addr codec.Address) []byte {
	k := make([]byte, 1+codec.AddressLen)
	k[0] = keyPrefix
	copy(k[1:], addr[:])
	return k
}

func (h *Handler) StoreKey(priv ed25519.PrivateKey) (codec.Address, error) {
	addr := auth.NewED25519Address(priv.PublicKey())
	k := addressKey(addr)
	has, err := h.db.Has(k)
	if err != nil {
		return codec.EmptyAddress, err
	}
	if has {
		return codec.EmptyAddress, ErrDuplicate
	}
	return addr, h.db.Put(k, priv[:])
}

func (h *Handler) GetKey(addr codec.Address) (ed25519.PrivateKey, error) {
	v, err := h.db.Get(addressKey(addr))
	if err != nil {
		return ed25519.EmptyPrivateKey, err
	}
	return ed25519.PrivateKey(v), nil
}

// GetKeys returns the stored keys ordered by address.
func (h *Handler) GetKeys() ([]ed25519.PrivateKey, error) {
	iter := h.db.NewIteratorWithPrefix([]byte{keyPrefix})
	defer iter.Release()

	keys := []ed25519.PrivateKey{}
	for iter.Next() {
		keys = append(keys, ed25519.PrivateKey(iter.Value()))
	}
	return keys, iter.Error()
}

func (h *Handler) StoreDefaultKey(addr codec.Address) error {
	return h.StoreDefault(defaultKeyKey, addr[:])
}

// GetDefaultKey returns the address and signer of the default key.
func (h *Handler) GetDefaultKey() (codec.Address, *auth.ED25519Factory, error) {
	v, err := h.GetDefault(defaultKeyKey)
	if err != nil {
		return codec.EmptyAddress, nil, err
	}
	if len(v) == 0 {
		return codec.EmptyAddress, nil, ErrNoKeys
	}
	addr := codec.Address(v)
	priv, err := h.GetKey(addr)
	if err != nil {
		return codec.EmptyAddress, nil, err
	}
	return addr, auth.NewED25519Factory(priv), nil
}
