package auth

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Profiles is the bun backed ProfileStore.
type Profiles interface {
	ProfileStore

	GetTx(ctx context.Context, tx bun.IDB, accountID uuid.UUID) (*Profile, error)
	CreateTx(ctx context.Context, tx bun.IDB, profile *Profile) (*Profile, error)
	SaveTx(ctx context.Context, tx bun.IDB, profile *Profile) error
}

type profiles struct {
	db *bun.DB
}

var _ Profiles = (*profiles)(nil)

// ix_person is never rewritten once the profile exists.
var profileColumns = []string{
	"token",
	"is_normal",
	"is_community",
	"is_administrator",
	"updated_at",
}

func NewProfilesRepository(db *bun.DB) Profiles {
	return &profiles{db: db}
}

func (p *profiles) Get(ctx context.Context, accountID uuid.UUID) (*Profile, error) {
	return p.GetTx(ctx, p.db, accountID)
}

func (p *profiles) GetTx(ctx context.Context, tx bun.IDB, accountID uuid.UUID) (*Profile, error) {
	if accountID == uuid.Nil {
		return nil, repository.NewRecordNotFound()
	}

	record := &Profile{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.account_id = ?", accountID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if IsNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"account_id": accountID.String(),
				})
		}
		return nil, err
	}

	return record, nil
}

func (p *profiles) Create(ctx context.Context, profile *Profile) (*Profile, error) {
	return p.CreateTx(ctx, p.db, profile)
}

func (p *profiles) CreateTx(ctx context.Context, tx bun.IDB, profile *Profile) (*Profile, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	if _, err := tx.NewInsert().Model(profile).Exec(ctx); err != nil {
		return nil, err
	}

	return profile, nil
}

func (p *profiles) Save(ctx context.Context, profile *Profile) error {
	return p.SaveTx(ctx, p.db, profile)
}

func (p *profiles) SaveTx(ctx context.Context, tx bun.IDB, profile *Profile) error {
	if err := profile.Validate(); err != nil {
		return err
	}

	now := time.Now()
	profile.UpdatedAt = &now

	res, err := tx.NewUpdate().
		Model(profile).
		Column(profileColumns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return err
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"account_id": profile.AccountID.String(),
			})
	}

	return nil
}
