// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package keys

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVerifyValue(t *testing.T) {
	tests := map[string]struct {
		key   []byte
		value []byte
		valid bool
	}{
		"empty value": {
			key:   EncodeChunks([]byte("k"), 0),
			value: nil,
			valid: true,
		},
		"fits": {
			key:   EncodeChunks([]byte("k"), 2),
			value: bytes.Repeat([]byte{1}, 100),
			valid: true,
		},
		"too large": {
			key:   EncodeChunks([]byte("k"), 1),
			value: bytes.Repeat([]byte{1}, 64),
			valid: false,
		},
		"missing suffix": {
			key:   []byte{1},
			value: []byte{1},
			valid: false,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, tt.valid, VerifyValue(tt.key, tt.value))
		})
	}
}

func TestMaxChunks(t *testing.T) {
	require := require.New(t)
	chunks, ok := MaxChunks(EncodeChunks([]byte("account"), 300))
	require.True(ok)
	require.Equal(uint16(300), chunks)
	require.True(Valid(EncodeChunks(nil, 1)))
	require.False(Valid([]byte{0}))
}
