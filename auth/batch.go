// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auth

import "github.com/Jazz877/kleo-vesting/crypto/ed25519"

// BatchVerifier checks the signatures of many messages. When the batch
// fails, each signature is checked on its own so only the invalid ones are
// reported.
type BatchVerifier struct {
	msgs  [][]byte
	auths []*ED25519
}

func NewBatchVerifier(count int) *BatchVerifier {
	return &BatchVerifier{
		msgs:  make([][]byte, 0, count),
		auths: make([]*ED25519, 0, count),
	}
}

func (b *BatchVerifier) Add(msg []byte, auth *ED25519) {
	b.msgs = append(b.msgs, msg)
	b.auths = append(b.auths, auth)
}

// Verify returns one entry per added message, nil for a valid signature.
func (b *BatchVerifier) Verify() []error {
	errs := make([]error, len(b.auths))
	if len(b.auths) >= ed25519.MinBatchSize {
		batch := ed25519.NewBatch(len(b.auths))
		for i, a := range b.auths {
			batch.Add(b.msgs[i], a.Signer, a.Signature)
		}
		if batch.Verify() {
			return errs
		}
	}
	for i, a := range b.auths {
		errs[i] = a.Verify(b.msgs[i])
	}
	return errs
}
