package auth

import (
	stderrors "errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// MaxProfileTokenLength is the width of the token column.
const MaxProfileTokenLength = 32

// Account is a local directory principal.
type Account struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Username      string     `bun:"username,notnull,unique" json:"username,omitempty"`
	Email         string     `bun:"email,notnull" json:"email,omitempty"`
	FirstName     string     `bun:"first_name,notnull" json:"first_name,omitempty"`
	LastName      string     `bun:"last_name,notnull" json:"last_name,omitempty"`
	IsActive      bool       `bun:"is_active,notnull" json:"is_active"`
	IsSuperuser   bool       `bun:"is_superuser,notnull" json:"is_superuser"`
	IsStaff       bool       `bun:"is_staff,notnull" json:"is_staff"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// NewAccount returns an active account ready to be registered. The email is
// stored lower-cased.
func NewAccount(username, email string) *Account {
	return &Account{
		Username: username,
		Email:    strings.ToLower(strings.TrimSpace(email)),
		IsActive: true,
	}
}

// Profile links an account to its FogBugz person.
type Profile struct {
	bun.BaseModel   `bun:"table:fogbugz_profiles,alias:fbp"`
	AccountID       uuid.UUID  `bun:"account_id,pk,type:uuid" json:"account_id"`
	Account         *Account   `bun:"rel:belongs-to,join:account_id=id" json:"account,omitempty"`
	Token           string     `bun:"token,notnull" json:"-"`
	IxPerson        int        `bun:"ix_person,notnull" json:"ix_person"`
	IsNormal        bool       `bun:"is_normal,notnull" json:"is_normal"`
	IsCommunity     bool       `bun:"is_community,notnull" json:"is_community"`
	IsAdministrator bool       `bun:"is_administrator,notnull" json:"is_administrator"`
	CreatedAt       *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt       *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Role returns the remote role stored in the flag columns.
func (p *Profile) Role() RemoteRole {
	if p == nil {
		return RemoteRoleNormal
	}
	return RemoteRoleFromFlags(p.IsCommunity, p.IsAdministrator)
}

// SetRole projects role onto the three flag columns, exactly one is set.
func (p *Profile) SetRole(role RemoteRole) *Profile {
	p.IsNormal, p.IsCommunity, p.IsAdministrator = role.Flags()
	return p
}

// Validate checks the column constraints before a write.
func (p *Profile) Validate() error {
	err := validation.ValidateStruct(p,
		validation.Field(&p.AccountID, validation.By(requireUUID)),
		validation.Field(&p.Token, validation.Length(0, MaxProfileTokenLength)),
		validation.Field(&p.IxPerson, validation.Required, validation.Min(1)),
	)
	if err != nil {
		return errors.Wrap(err, errors.CategoryValidation, ErrInvalidProfile.Message).
			WithTextCode(TextCodeInvalidProfile).
			WithMetadata(map[string]any{"account_id": p.AccountID.String()})
	}
	return nil
}

func requireUUID(value any) error {
	id, _ := value.(uuid.UUID)
	if id == uuid.Nil {
		return stderrors.New("cannot be blank")
	}
	return nil
}
