package models

import (
	"encoding/json"
	"time"
)

// Role is the tagged role of an identity
type Role string

const (
	RoleVoter Role = "voter"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleVoter || r == RoleAdmin
}

// Request types

type RegisterRequest struct {
	Name          string `json:"name"`
	Age           *int   `json:"age,omitempty"`
	Email         string `json:"email,omitempty"`
	Mobile        string `json:"mobile,omitempty"`
	Address       string `json:"address"`
	CredentialKey string `json:"credential_key"`
	Password      string `json:"password"`
}

type LoginRequest struct {
	CredentialKey string `json:"credential_key"`
	Password      string `json:"password"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type CandidateRequest struct {
	Name  string `json:"name"`
	Party string `json:"party"`
	Age   *int   `json:"age,omitempty"`
}

// Legacy request types, accepted on the /user/... paths only

// LegacyKey is a credential key sent either as a JSON string or as a number
type LegacyKey string

func (k *LegacyKey) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*k = LegacyKey(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*k = LegacyKey(n.String())
	return nil
}

type LegacySignupRequest struct {
	Name             string    `json:"name"`
	Age              *int      `json:"age,omitempty"`
	Email            string    `json:"email,omitempty"`
	Mobile           string    `json:"mobile,omitempty"`
	Address          string    `json:"address"`
	AadharCardNumber LegacyKey `json:"aadharCardNumber"`
	Password         string    `json:"password"`
	Role             Role      `json:"role,omitempty"`
}

type LegacyLoginRequest struct {
	AadharCardNumber LegacyKey `json:"aadharCardNumber"`
	Password         string    `json:"password"`
}

type LegacyChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Response types

type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type RegisterResponse struct {
	Profile   Profile   `json:"profile"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Profile is the only shape in which an identity leaves the server
type Profile struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Age           *int       `json:"age,omitempty"`
	Email         string     `json:"email,omitempty"`
	Mobile        string     `json:"mobile,omitempty"`
	Address       string     `json:"address"`
	CredentialKey string     `json:"credential_key"` // masked
	Role          Role       `json:"role"`
	HasVoted      bool       `json:"has_voted"`
	VotedAt       *time.Time `json:"voted_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type TallyEntry struct {
	Party string `json:"party"`
	Count int    `json:"count"`
}

type VoteReceipt struct {
	CandidateID string    `json:"candidate_id"`
	CastAt      time.Time `json:"cast_at"`
	Message     string    `json:"message"`
}

type AuditReport struct {
	TotalVoteCount   int  `json:"total_vote_count"`
	VotersWhoVoted   int  `json:"voters_who_voted"`
	VoteRecords      int  `json:"vote_records"`
	MismatchedCounts int  `json:"mismatched_candidates"`
	Consistent       bool `json:"consistent"`
}

// Domain types

// IdentityDraft is the input to identity creation. Password is plaintext and
// only lives long enough to be hashed.
type IdentityDraft struct {
	Name          string
	Age           *int
	Email         string
	Mobile        string
	Address       string
	CredentialKey string
	Password      string
}

type Identity struct {
	ID            string
	Name          string
	Age           *int
	Email         string
	Mobile        string
	Address       string
	CredentialKey string
	PasswordHash  string `json:"-"` // Never expose in JSON
	Role          Role
	HasVoted      bool
	VotedAt       *time.Time
	CreatedAt     time.Time
}

type CandidateDraft struct {
	Name  string
	Party string
	Age   *int
}

type Candidate struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Party     string    `json:"party"`
	Age       *int      `json:"age,omitempty"`
	VoteCount int       `json:"vote_count"`
	CreatedAt time.Time `json:"created_at"`
}

// VoteRecord is one ballot. It references the voter internally and is never
// serialized to clients.
type VoteRecord struct {
	VoterID     string
	CandidateID string
	CastAt      time.Time
	IPHash      *string
	UserAgent   *string
}

// BallotMeta is request metadata stored alongside a vote record
type BallotMeta struct {
	IPHash    string
	UserAgent string
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
