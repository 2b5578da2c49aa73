// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"

	"github.com/danielhkuo/votedesk/election"
	"github.com/danielhkuo/votedesk/models"
)

var (
	ErrSecretTooShort = errors.New("admin secret must be at least 4 characters")
)

const minSecretLen = 4

// BcryptCost is the work factor for new secret hashes.
var BcryptCost = bcrypt.DefaultCost

// HashSecret hashes an organization's admin secret for storage.
func HashSecret(secret string) ([]byte, error) {
	if len(secret) < minSecretLen {
		return nil, ErrSecretTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("secret salting & hashing failed: %w", err)
	}
	return hash, nil
}

// CheckSecret compares a secret with its stored hash. A mismatch is not an
// error; a malformed hash is.
func CheckSecret(hash []byte, secret string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(hash, []byte(secret))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("failed to verify secret: %w", err)
}

// OrganizationSource loads organizations with their secret hash.
type OrganizationSource interface {
	GetOrganization(ctx context.Context, id int64) (models.Organization, error)
}

// Verifier checks admin secrets against the stored organization hash. It is
// the one credential check behind start, end, reconduct, clearing results
// and closing the booth.
type Verifier struct {
	orgs OrganizationSource
}

var _ election.Authorizer = (*Verifier)(nil)

func NewVerifier(orgs OrganizationSource) *Verifier {
	return &Verifier{orgs: orgs}
}

func (v *Verifier) Authorize(ctx context.Context, orgID int64, secret string) (bool, error) {
	if secret == "" {
		return false, nil
	}
	org, err := v.orgs.GetOrganization(ctx, orgID)
	if errors.Is(err, election.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return CheckSecret(org.SecretHash, secret)
}

// voterCodeAlphabet leaves out 0/O and 1/I so codes survive being read aloud.
const voterCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const voterCodeLen = 8

// GenerateVoterCode creates a random voter id for QR cards and ID slips.
func GenerateVoterCode() (string, error) {
	b := make([]byte, voterCodeLen)
	max := big.NewInt(int64(len(voterCodeAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate voter code: %w", err)
		}
		b[i] = voterCodeAlphabet[n.Int64()]
	}
	return string(b), nil
}
