// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides admin credential checks and voter code generation.

# Admin Secrets

Each organization has one admin secret. Only its bcrypt hash is stored:

	hash, err := auth.HashSecret(secret)
	ok, err := auth.CheckSecret(hash, secret)

A wrong secret is reported as ok == false with a nil error. Errors are
reserved for malformed hashes and storage failures.

# Verifier

Verifier implements election.Authorizer on top of the stored hash:

	verifier := auth.NewVerifier(store)
	ok, err := verifier.Authorize(ctx, orgID, secret)

The same check gates starting Direct elections, ending and reconducting
elections, clearing results and closing the voting booth.

# Voter Codes

Voter ids printed on QR cards or ID slips are 8 characters drawn from an
alphabet without look-alike characters:

	code, err := auth.GenerateVoterCode() // e.g. "K7PQ2MXA"
*/
package auth
