package main

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"
	"math/rand/v2"
)

var errInvalidSignature = errors.New("invalid signature")

// signedMessage is a single verification request.
type signedMessage struct {
	Seq       int
	PublicKey ed25519.PublicKey
	Message   []byte
	Signature []byte
}

// verifyBatch verifies every signature in msgs, failing the batch on the
// first invalid one.
func verifyBatch(ctx context.Context, msgs []signedMessage) ([]struct{}, error) {
	for i, m := range msgs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !ed25519.Verify(m.PublicKey, m.Message, m.Signature) {
			return nil, fmt.Errorf("message %d of %d: %w", i, len(msgs), errInvalidSignature)
		}
	}
	return make([]struct{}, len(msgs)), nil
}

// signer produces the requests for a run. Messages are signed by a small
// set of keys, and every invalidEvery-th signature is corrupted.
type signer struct {
	keys         []ed25519.PrivateKey
	invalidEvery int
	seed         uint64
}

func newSigner(numKeys, invalidEvery int, seed uint64) (*signer, error) {
	if numKeys <= 0 {
		return nil, errors.New("at least one key is required")
	}

	rng := rand.New(rand.NewPCG(seed, seed))
	keys := make([]ed25519.PrivateKey, numKeys)
	for i := range keys {
		var keySeed [ed25519.SeedSize]byte
		for j := range keySeed {
			keySeed[j] = byte(rng.UintN(256))
		}
		keys[i] = ed25519.NewKeyFromSeed(keySeed[:])
	}
	return &signer{keys: keys, invalidEvery: invalidEvery, seed: seed}, nil
}

// invalid reports whether request i gets a corrupted signature.
func (s *signer) invalid(i int) bool {
	return s.invalidEvery > 0 && (i+1)%s.invalidEvery == 0
}

// next returns request i.
func (s *signer) next(i int) signedMessage {
	key := s.keys[i%len(s.keys)]
	msg := []byte(fmt.Sprintf("batchbench message %d/%d", s.seed, i))
	sig := ed25519.Sign(key, msg)
	if s.invalid(i) {
		sig[0] ^= 0xff
	}
	return signedMessage{
		Seq:       i,
		PublicKey: key.Public().(ed25519.PublicKey),
		Message:   msg,
		Signature: sig,
	}
}
