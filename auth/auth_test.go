// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/danielhkuo/votedesk/election"
	"github.com/danielhkuo/votedesk/models"
)

func init() {
	BcryptCost = bcrypt.MinCost
}

type stubOrgs struct {
	orgs map[int64]models.Organization
	err  error
}

func (s stubOrgs) GetOrganization(_ context.Context, id int64) (models.Organization, error) {
	if s.err != nil {
		return models.Organization{}, s.err
	}
	org, ok := s.orgs[id]
	if !ok {
		return models.Organization{}, fmt.Errorf("organization %d: %w", id, election.ErrNotFound)
	}
	return org, nil
}

func TestHashSecret(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		wantErr error
	}{
		{"valid secret", "hunter22", nil},
		{"minimum length", "abcd", nil},
		{"too short", "abc", ErrSecretTooShort},
		{"empty", "", ErrSecretTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashSecret(tt.secret)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("HashSecret() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && string(hash) == tt.secret {
				t.Error("HashSecret() returned the plain secret")
			}
		})
	}
}

func TestCheckSecret(t *testing.T) {
	hash, err := HashSecret("correct-horse")
	if err != nil {
		t.Fatalf("HashSecret() error = %v", err)
	}

	tests := []struct {
		name    string
		hash    []byte
		secret  string
		want    bool
		wantErr bool
	}{
		{"correct secret", hash, "correct-horse", true, false},
		{"wrong secret", hash, "battery-staple", false, false},
		{"case matters", hash, "CORRECT-HORSE", false, false},
		{"malformed hash", []byte("not-a-hash"), "correct-horse", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CheckSecret(tt.hash, tt.secret)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckSecret() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("CheckSecret() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVerifierAuthorize(t *testing.T) {
	hash, err := HashSecret("desk-secret")
	if err != nil {
		t.Fatalf("HashSecret() error = %v", err)
	}
	v := NewVerifier(stubOrgs{orgs: map[int64]models.Organization{
		1: {ID: 1, Name: "ACME", SecretHash: hash},
	}})

	tests := []struct {
		name   string
		orgID  int64
		secret string
		want   bool
	}{
		{"correct secret", 1, "desk-secret", true},
		{"wrong secret", 1, "desk-secreT", false},
		{"empty secret", 1, "", false},
		{"unknown organization", 2, "desk-secret", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Authorize(context.Background(), tt.orgID, tt.secret)
			if err != nil {
				t.Fatalf("Authorize() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Authorize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVerifierAuthorize_StorageError(t *testing.T) {
	boom := errors.New("disk unplugged")
	v := NewVerifier(stubOrgs{err: boom})

	ok, err := v.Authorize(context.Background(), 1, "desk-secret")
	if !errors.Is(err, boom) {
		t.Errorf("Authorize() error = %v, want %v", err, boom)
	}
	if ok {
		t.Error("Authorize() should not succeed on storage failure")
	}
}

func TestGenerateVoterCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := GenerateVoterCode()
		if err != nil {
			t.Fatalf("GenerateVoterCode() error = %v", err)
		}
		if len(code) != voterCodeLen {
			t.Errorf("GenerateVoterCode() length = %d, want %d", len(code), voterCodeLen)
		}
		for _, c := range code {
			if !strings.ContainsRune(voterCodeAlphabet, c) {
				t.Errorf("GenerateVoterCode() contains invalid char: %c", c)
			}
		}
		seen[code] = true
	}

	// 32^8 codes; 50 draws should never collide
	if len(seen) != 50 {
		t.Errorf("GenerateVoterCode() produced duplicates: %d unique of 50", len(seen))
	}
}
