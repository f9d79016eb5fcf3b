// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Jazz877/kleo-vesting/auth"
	"github.com/Jazz877/kleo-vesting/crypto/ed25519"
)

func newHandler(t *testing.T) *Handler {
	h, err := New(filepath.Join(t.TempDir(), "db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, h.CloseDatabase())
	})
	return h
}

func TestKeys(t *testing.T) {
	require := require.New(t)
	h := newHandler(t)

	_, _, err := h.GetDefaultKey()
	require.ErrorIs(err, ErrNoKeys)

	priv, err := ed25519.GeneratePrivateKey()
	require.NoError(err)
	addr, err := h.StoreKey(priv)
	require.NoError(err)
	require.Equal(auth.NewED25519Address(priv.PublicKey()), addr)
	_, err = h.StoreKey(priv)
	require.ErrorIs(err, ErrDuplicate)

	other, err := ed25519.GeneratePrivateKey()
	require.NoError(err)
	_, err = h.StoreKey(other)
	require.NoError(err)
	keys, err := h.GetKeys()
	require.NoError(err)
	require.Len(keys, 2)
	require.Contains(keys, priv)
	require.Contains(keys, other)

	require.NoError(h.StoreDefaultKey(addr))
	defaultAddr, factory, err := h.GetDefaultKey()
	require.NoError(err)
	require.Equal(addr, defaultAddr)
	require.Equal(addr, factory.Address())
}

func TestImportExportKey(t *testing.T) {
	require := require.New(t)
	h := newHandler(t)

	priv, err := ed25519.GeneratePrivateKey()
	require.NoError(err)
	file := filepath.Join(t.TempDir(), "key.pk")
	require.NoError(priv.Save(file))
	require.NoError(h.ImportKey(file))

	exported := filepath.Join(t.TempDir(), "exported.pk")
	require.NoError(h.ExportKey(exported))
	loaded, err := ed25519.LoadKey(exported)
	require.NoError(err)
	require.Equal(priv, loaded)
}

func TestEndpoint(t *testing.T) {
	require := require.New(t)
	h := newHandler(t)

	_, err := h.GetEndpoint()
	require.ErrorIs(err, ErrNoEndpoint)
	require.NoError(h.StoreEndpoint("http://127.0.0.1:9650"))
	uri, err := h.GetEndpoint()
	require.NoError(err)
	require.Equal("http://127.0.0.1:9650", uri)
}
