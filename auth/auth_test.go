// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auth

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Jazz877/kleo-vesting/codec"
	"github.com/Jazz877/kleo-vesting/crypto/ed25519"
)

func newFactory(t *testing.T) *ED25519Factory {
	priv, err := ed25519.GeneratePrivateKey()
	require.NoError(t, err)
	return NewED25519Factory(priv)
}

func TestED25519(t *testing.T) {
	require := require.New(t)
	factory := newFactory(t)
	msg := []byte("claim")

	auth := factory.Sign(msg)
	require.Equal(factory.Address(), auth.Actor())
	require.NoError(auth.Verify(msg))
	require.ErrorIs(auth.Verify([]byte("deregister")), ed25519.ErrInvalidSignature)

	p := codec.NewWriter(auth.Size(), auth.Size())
	auth.Marshal(p)
	require.NoError(p.Err())
	require.Len(p.Bytes(), ED25519Size)

	parsed, err := UnmarshalED25519(codec.NewReader(p.Bytes(), ED25519Size))
	require.NoError(err)
	require.Equal(auth.Signer, parsed.Signer)
	require.Equal(auth.Signature, parsed.Signature)
	require.Equal(factory.Address(), parsed.Actor())
	require.NoError(parsed.Verify(msg))

	_, err = UnmarshalED25519(codec.NewReader(p.Bytes()[:ED25519Size-1], ED25519Size))
	require.Error(err)
}

func TestBatchVerifier(t *testing.T) {
	for _, count := range []int{1, ed25519.MinBatchSize - 1, ed25519.MinBatchSize, 16} {
		t.Run(fmt.Sprintf("valid %d", count), func(t *testing.T) {
			require := require.New(t)
			bv := NewBatchVerifier(count)
			for i := 0; i < count; i++ {
				msg := []byte(fmt.Sprintf("call %d", i))
				bv.Add(msg, newFactory(t).Sign(msg))
			}
			for _, err := range bv.Verify() {
				require.NoError(err)
			}
		})
	}

	t.Run("invalid signature is isolated", func(t *testing.T) {
		require := require.New(t)
		const count = 8
		const bad = 5
		bv := NewBatchVerifier(count)
		for i := 0; i < count; i++ {
			msg := []byte(fmt.Sprintf("call %d", i))
			auth := newFactory(t).Sign(msg)
			if i == bad {
				auth.Signature[0]++
			}
			bv.Add(msg, auth)
		}
		errs := bv.Verify()
		require.Len(errs, count)
		for i, err := range errs {
			if i == bad {
				require.ErrorIs(err, ed25519.ErrInvalidSignature)
				continue
			}
			require.NoError(err)
		}
	})
}
