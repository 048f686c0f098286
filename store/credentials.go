// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/danielhkuo/ballot-box/apperr"
	"github.com/danielhkuo/ballot-box/auth"
	"github.com/danielhkuo/ballot-box/db"
	"github.com/danielhkuo/ballot-box/models"
)

var (
	ErrInvalidCredentials  = apperr.Authentication("invalid credential key or password")
	ErrWrongPassword       = apperr.Authentication("current password is incorrect")
	ErrIdentityNotFound    = apperr.NotFound("identity not found")
	ErrDuplicateCredential = apperr.Conflict("credential key is already registered")
)

const identityColumns = `
	id, name, age, email, mobile, address, credential_key, password_hash,
	role, has_voted, voted_at, created_at
`

// Credentials owns identity records. It is the only writer of password
// hashes and never writes has_voted.
type Credentials struct {
	db     *sql.DB
	hasher *auth.PasswordHasher
	now    func() time.Time
}

func NewCredentials(conn *sql.DB, hasher *auth.PasswordHasher) *Credentials {
	return &Credentials{db: conn, hasher: hasher, now: time.Now}
}

// Create registers a voter. The password is hashed here and nowhere else.
func (c *Credentials) Create(ctx context.Context, draft models.IdentityDraft) (models.Identity, error) {
	return c.create(ctx, draft, models.RoleVoter)
}

// CreateAdmin registers an administrator. Seeding the same credential key
// twice returns the existing admin with created=false.
func (c *Credentials) CreateAdmin(ctx context.Context, draft models.IdentityDraft) (identity models.Identity, created bool, err error) {
	identity, err = c.create(ctx, draft, models.RoleAdmin)
	if err == nil {
		return identity, true, nil
	}
	if !errors.Is(err, ErrDuplicateCredential) {
		return models.Identity{}, false, err
	}

	existing, err := c.getBy(ctx, "credential_key", strings.TrimSpace(draft.CredentialKey))
	if err != nil {
		return models.Identity{}, false, err
	}
	if existing.Role != models.RoleAdmin {
		return models.Identity{}, false, apperr.Conflict("credential key belongs to a voter")
	}
	return existing, false, nil
}

func (c *Credentials) create(ctx context.Context, draft models.IdentityDraft, role models.Role) (models.Identity, error) {
	draft, err := normalizeIdentityDraft(draft)
	if err != nil {
		return models.Identity{}, err
	}

	hash, err := c.hasher.Hash(draft.Password)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindValidation {
			return models.Identity{}, err
		}
		return models.Identity{}, apperr.Internal(err)
	}

	id, err := auth.GenerateID()
	if err != nil {
		return models.Identity{}, apperr.Internal(err)
	}

	identity := models.Identity{
		ID:            id,
		Name:          draft.Name,
		Age:           draft.Age,
		Email:         draft.Email,
		Mobile:        draft.Mobile,
		Address:       draft.Address,
		CredentialKey: draft.CredentialKey,
		PasswordHash:  hash,
		Role:          role,
		CreatedAt:     c.now().UTC(),
	}

	// Uniqueness is left to the constraint; a prior SELECT would race
	_, err = c.db.ExecContext(ctx, `
		INSERT INTO identity (id, name, age, email, mobile, address, credential_key,
		                      password_hash, role, has_voted, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, FALSE, $10)
	`, identity.ID, identity.Name, nullInt(identity.Age), nullString(identity.Email),
		nullString(identity.Mobile), identity.Address, identity.CredentialKey,
		identity.PasswordHash, string(identity.Role), identity.CreatedAt)

	if err != nil {
		if db.IsUniqueViolation(err) {
			return models.Identity{}, ErrDuplicateCredential
		}
		return models.Identity{}, apperr.Internal(fmt.Errorf("failed to insert identity: %w", err))
	}

	return identity, nil
}

// Verify checks a login. Unknown key and wrong password give the same error
// and cost one bcrypt comparison each.
func (c *Credentials) Verify(ctx context.Context, credentialKey, password string) (models.Identity, error) {
	// Same normalization as Create
	credentialKey = strings.TrimSpace(credentialKey)
	identity, err := c.getBy(ctx, "credential_key", credentialKey)
	if errors.Is(err, ErrIdentityNotFound) {
		c.hasher.CompareDummy(password)
		return models.Identity{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.Identity{}, err
	}

	if !c.hasher.Compare(identity.PasswordHash, password) {
		return models.Identity{}, ErrInvalidCredentials
	}
	return identity, nil
}

// ChangePassword replaces the hash after re-verifying the current password
func (c *Credentials) ChangePassword(ctx context.Context, identityID, current, next string) error {
	identity, err := c.Get(ctx, identityID)
	if err != nil {
		return err
	}

	if !c.hasher.Compare(identity.PasswordHash, current) {
		return ErrWrongPassword
	}

	hash, err := c.hasher.Hash(next)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindValidation {
			return err
		}
		return apperr.Internal(err)
	}

	// Conditional on the hash we verified against, so two concurrent
	// changes cannot both pass with the same current password
	res, err := c.db.ExecContext(ctx, `
		UPDATE identity SET password_hash = $1
		WHERE id = $2 AND password_hash = $3
	`, hash, identityID, identity.PasswordHash)
	if err != nil {
		return apperr.Internal(fmt.Errorf("failed to update password: %w", err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Internal(err)
	}
	if n == 0 {
		return ErrWrongPassword
	}

	return nil
}

// Get loads an identity by ID
func (c *Credentials) Get(ctx context.Context, identityID string) (models.Identity, error) {
	return c.getBy(ctx, "id", identityID)
}

// getBy loads by one of the two unique columns. column is never user input.
func (c *Credentials) getBy(ctx context.Context, column, value string) (models.Identity, error) {
	row := c.db.QueryRowContext(ctx, `SELECT `+identityColumns+` FROM identity WHERE `+column+` = $1`, value)

	identity, err := scanIdentity(row)
	if err == sql.ErrNoRows {
		return models.Identity{}, ErrIdentityNotFound
	}
	if err != nil {
		return models.Identity{}, apperr.Internal(fmt.Errorf("failed to query identity: %w", err))
	}
	return identity, nil
}

func scanIdentity(row *sql.Row) (models.Identity, error) {
	var (
		identity models.Identity
		age      sql.NullInt64
		email    sql.NullString
		mobile   sql.NullString
		role     string
		votedAt  sql.NullTime
	)

	err := row.Scan(
		&identity.ID, &identity.Name, &age, &email, &mobile, &identity.Address,
		&identity.CredentialKey, &identity.PasswordHash, &role, &identity.HasVoted,
		&votedAt, &identity.CreatedAt,
	)
	if err != nil {
		return models.Identity{}, err
	}

	identity.Role = models.Role(role)
	identity.Email = email.String
	identity.Mobile = mobile.String
	if age.Valid {
		a := int(age.Int64)
		identity.Age = &a
	}
	if votedAt.Valid {
		t := votedAt.Time
		identity.VotedAt = &t
	}

	return identity, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}
