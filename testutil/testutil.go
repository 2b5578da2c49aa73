// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/danielhkuo/votedesk/auth"
	"github.com/danielhkuo/votedesk/cliparse"
	"github.com/danielhkuo/votedesk/db"
	"github.com/danielhkuo/votedesk/models"
	"github.com/danielhkuo/votedesk/store"
)

// TestAdminSecret is the admin secret of every organization created here.
const TestAdminSecret = "test-secret"

func init() {
	// Full-cost bcrypt makes every fixture take tens of milliseconds.
	auth.BcryptCost = bcrypt.MinCost
}

// SetupTestDB creates a fresh sqlite database file with the full schema.
// It is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	conn, err := db.Open(db.TypeSQLite, path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn, db.TypeSQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	cfg := cliparse.Defaults()
	cfg.DatabaseURL = ":memory:"
	return cfg
}

// CreateTestOrg creates an organization whose secret is TestAdminSecret.
func CreateTestOrg(t *testing.T, s *store.Store, name string) int64 {
	t.Helper()

	hash, err := auth.HashSecret(TestAdminSecret)
	if err != nil {
		t.Fatalf("Failed to hash secret: %v", err)
	}
	id, err := s.CreateOrganization(context.Background(), name, hash)
	if err != nil {
		t.Fatalf("Failed to create test organization: %v", err)
	}
	return id
}

// CreateTestVoter registers a voter and returns its row id.
func CreateTestVoter(t *testing.T, s *store.Store, orgID int64, name, voterID string) int64 {
	t.Helper()

	id, err := s.CreateVoter(context.Background(), models.Voter{OrgID: orgID, Name: name, VoterID: voterID})
	if err != nil {
		t.Fatalf("Failed to create test voter: %v", err)
	}
	return id
}

// CreateTestCandidate adds a candidate and returns its id.
func CreateTestCandidate(t *testing.T, s *store.Store, orgID int64, position, name string) int64 {
	t.Helper()

	id, err := s.CreateCandidate(context.Background(), models.Candidate{OrgID: orgID, Position: position, Name: name})
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}
	return id
}

// CreateTestElection creates an election in NotStarted state.
func CreateTestElection(t *testing.T, s *store.Store, orgID int64, typ models.ElectionType, positions ...string) int64 {
	t.Helper()

	id, err := s.CreateElection(context.Background(), models.Election{
		OrgID:     orgID,
		Name:      "Test Election",
		Positions: positions,
		Type:      typ,
	})
	if err != nil {
		t.Fatalf("Failed to create test election: %v", err)
	}
	return id
}

// InsertTestBallot writes a ballot directly, bypassing the booth.
func InsertTestBallot(t *testing.T, s *store.Store, b models.Ballot) {
	t.Helper()

	if b.CastAt.IsZero() {
		b.CastAt = time.Now().UTC()
	}
	if err := s.InsertBallot(context.Background(), b); err != nil {
		t.Fatalf("Failed to insert test ballot: %v", err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body any, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
