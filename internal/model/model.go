// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Role classifies an account for authorization checks.
type Role string

const (
	RoleGuest Role = "guest"
	RoleAdmin Role = "admin"
)

// ProgramCode identifies a distributable program on the licensing side.
// It is a loosely-coupled string, not a foreign key into the catalog:
// licenses may be issued for programs that were never indexed.
type ProgramCode string

// Fingerprint is a client-computed device identifier (HWID).
type Fingerprint string

// User represents an account stored on the server. Passwords are hashed
// with a per-user salt and never stored in plaintext.
type User struct {
	ID        uuid.UUID // PK
	Username  string    // unique
	PwdHash   []byte    // Argon2id(password, SaltAuth)
	SaltAuth  []byte    // per-user auth salt
	Role      Role
	CreatedAt time.Time
}

// Tokens collects issued session tokens for the authenticated surface.
type Tokens struct {
	AccessToken string
	ExpiresAt   time.Time
}

// Program is a catalog entry pointing at a file in the program file store.
// Deleting a Program removes only the catalog row, never the file.
type Program struct {
	ID          uuid.UUID
	Name        string
	Description string
	FileName    string // unique; must exist in the file store at indexing time
	CreatedAt   time.Time
}

// License authorizes one device to run one program. Multiple rows may exist
// for the same (fingerprint, program code) pair over time; any row with
// Active=true authorizes access.
type License struct {
	ID          uuid.UUID
	Fingerprint Fingerprint
	ProgramCode ProgramCode
	Key         string // opaque 128-bit hex token, unique
	Active      bool
	LastSeen    *time.Time // nil until the first successful verification
	CreatedAt   time.Time
}

// ActivationRequest is a device's unauthenticated ask for a license, pending
// admin review. Approval converts it into a License; rejection discards it.
// Either way the pending row is deleted.
type ActivationRequest struct {
	ID          uuid.UUID
	Fingerprint Fingerprint
	ProgramCode ProgramCode
	Note        string
	CreatedAt   time.Time
}
