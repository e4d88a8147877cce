package auth

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Accounts is the bun backed AccountStore.
type Accounts interface {
	AccountStore

	FindByEmailTx(ctx context.Context, tx bun.IDB, email string) (*Account, error)
	FindByLoginNameTx(ctx context.Context, tx bun.IDB, name string) (*Account, error)
	RegisterTx(ctx context.Context, tx bun.IDB, account *Account) (*Account, error)
	SaveTx(ctx context.Context, tx bun.IDB, account *Account) error
}

type accounts struct {
	repository.Repository[*Account]
	db *bun.DB
}

var (
	_ Accounts     = (*accounts)(nil)
	_ AccountStore = (*accounts)(nil)
)

// accountColumns are the columns Save writes.
var accountColumns = []string{
	"username",
	"email",
	"first_name",
	"last_name",
	"is_active",
	"is_superuser",
	"is_staff",
	"updated_at",
}

func NewAccountsRepository(db *bun.DB) Accounts {
	repo := repository.NewRepository[*Account](db, repository.ModelHandlers[*Account]{
		NewRecord: func() *Account { return &Account{} },
		GetID: func(a *Account) uuid.UUID {
			if a == nil {
				return uuid.Nil
			}
			return a.ID
		},
		SetID: func(a *Account, id uuid.UUID) {
			if a != nil {
				a.ID = id
			}
		},
		GetIdentifier: func() string {
			return "username"
		},
	})

	return &accounts{
		Repository: repo,
		db:         db,
	}
}

func (a *accounts) FindByEmail(ctx context.Context, email string) (*Account, error) {
	return a.FindByEmailTx(ctx, a.db, email)
}

// FindByEmailTx matches email case-insensitively. When several accounts share
// an address the oldest one wins.
func (a *accounts) FindByEmailTx(ctx context.Context, tx bun.IDB, email string) (*Account, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, repository.NewRecordNotFound()
	}

	record := &Account{}
	err := tx.NewSelect().
		Model(record).
		Where("LOWER(?TableAlias.email) = ?", strings.ToLower(email)).
		OrderExpr("?TableAlias.created_at ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if IsNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"email": email,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *accounts) FindByLoginName(ctx context.Context, name string) (*Account, error) {
	return a.FindByLoginNameTx(ctx, a.db, name)
}

func (a *accounts) FindByLoginNameTx(ctx context.Context, tx bun.IDB, name string) (*Account, error) {
	if name == "" {
		return nil, repository.NewRecordNotFound()
	}

	record := &Account{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.username = ?", name).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if IsNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"username": name,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *accounts) Register(ctx context.Context, account *Account) (*Account, error) {
	return a.RegisterTx(ctx, a.db, account)
}

func (a *accounts) RegisterTx(ctx context.Context, tx bun.IDB, account *Account) (*Account, error) {
	prepareAccountDefaults(account)
	return a.Repository.CreateTx(ctx, tx, account)
}

func (a *accounts) Save(ctx context.Context, account *Account) error {
	return a.SaveTx(ctx, a.db, account)
}

// SaveTx writes the mutable columns of an existing account, including flags
// that flip back to false.
func (a *accounts) SaveTx(ctx context.Context, tx bun.IDB, account *Account) error {
	if account == nil || account.ID == uuid.Nil {
		return repository.NewRecordNotFound()
	}

	now := time.Now()
	account.UpdatedAt = &now

	res, err := tx.NewUpdate().
		Model(account).
		Column(accountColumns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return err
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"id": account.ID.String(),
			})
	}

	return nil
}

func prepareAccountDefaults(record *Account) {
	if record == nil {
		return
	}

	record.Email = strings.ToLower(strings.TrimSpace(record.Email))

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}
