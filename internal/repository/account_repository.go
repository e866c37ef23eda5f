package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/seller-admin-service/internal/domain"
)

// AccountRepository defines persistence access for login identities.
type AccountRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	GetByLoginID(ctx context.Context, loginID string) (*domain.Account, error)
	LoginIDTaken(ctx context.Context, loginID string) (bool, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	SoftDelete(ctx context.Context, id int64) error
}

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository returns a Postgres-backed implementation.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

func (r *accountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	const query = `
        SELECT id, login_id, password_hash, role, is_deleted, created_at
        FROM accounts WHERE id=$1 AND is_deleted=FALSE`
	return r.scanAccount(r.pool.QueryRow(ctx, query, id))
}

func (r *accountRepository) GetByLoginID(ctx context.Context, loginID string) (*domain.Account, error) {
	const query = `
        SELECT id, login_id, password_hash, role, is_deleted, created_at
        FROM accounts WHERE login_id=$1 AND is_deleted=FALSE`
	return r.scanAccount(r.pool.QueryRow(ctx, query, loginID))
}

func (r *accountRepository) LoginIDTaken(ctx context.Context, loginID string) (bool, error) {
	const query = `
        SELECT EXISTS (SELECT 1 FROM accounts WHERE login_id=$1)`
	var taken bool
	err := r.pool.QueryRow(ctx, query, loginID).Scan(&taken)
	return taken, err
}

func (r *accountRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	const query = `
        UPDATE accounts SET password_hash=$1 WHERE id=$2 AND is_deleted=FALSE`
	cmd, err := r.pool.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *accountRepository) SoftDelete(ctx context.Context, id int64) error {
	const query = `
        UPDATE accounts SET is_deleted=TRUE WHERE id=$1 AND is_deleted=FALSE`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *accountRepository) scanAccount(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	if err := row.Scan(
		&account.ID,
		&account.LoginID,
		&account.PasswordHash,
		&account.Role,
		&account.IsDeleted,
		&account.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &account, nil
}
