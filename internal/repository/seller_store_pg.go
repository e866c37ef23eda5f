package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/seller-admin-service/internal/domain"
	"github.com/spec-kit/seller-admin-service/internal/temporal"
	apperrors "github.com/spec-kit/seller-admin-service/pkg/util/errorutil"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so the read queries
// can run inside or outside a revision transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const infoColumns = `seller_account_id, status, name_kr, name_en, center_number,
        profile_image_url, background_image_url, app_user_id, ceo_name, company_name,
        business_number, certificate_image_url, online_business_number, online_business_image_url,
        short_description, long_description, site_url, kakao_id, insta_id,
        zip_code, address, detail_address,
        weekday_start_time, weekday_end_time, weekend_start_time, weekend_end_time,
        bank_name, bank_holder_name, bank_account_number, modifier, start_time, close_time`

type sellerStore struct {
	pool *pgxpool.Pool
}

// NewSellerStore returns a Postgres-backed implementation.
func NewSellerStore(pool *pgxpool.Pool) SellerStore {
	return &sellerStore{pool: pool}
}

func (s *sellerStore) WithTx(ctx context.Context, fn func(tx SellerTx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return apperrors.NewPersistenceError(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&sellerTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewPersistenceError(err)
	}
	return nil
}

func (s *sellerStore) SellerAccountIDByAccountNo(ctx context.Context, accountNo int64) (int64, error) {
	return sellerAccountIDByAccountNo(ctx, s.pool, accountNo)
}

func (s *sellerStore) CurrentInfo(ctx context.Context, sellerAccountID int64) (*domain.SellerInfo, error) {
	return currentInfo(ctx, s.pool, sellerAccountID)
}

func (s *sellerStore) ManagersByInfoID(ctx context.Context, infoID int64) ([]domain.ManagerInfo, error) {
	const query = `
        SELECT id, seller_info_id, name, contact_number, email, ranking
        FROM manager_infos WHERE seller_info_id=$1 ORDER BY ranking ASC`
	rows, err := s.pool.Query(ctx, query, infoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ManagerInfo
	for rows.Next() {
		var m domain.ManagerInfo
		if err := rows.Scan(&m.ID, &m.SellerInfoID, &m.Name, &m.ContactNumber, &m.Email, &m.Ranking); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func (s *sellerStore) StatusHistory(ctx context.Context, sellerAccountID int64) ([]domain.StatusChange, error) {
	const query = `
        SELECT id, seller_account_id, status, changed_at, modifier
        FROM seller_status_change_histories
        WHERE seller_account_id=$1 ORDER BY changed_at ASC, id ASC`
	rows, err := s.pool.Query(ctx, query, sellerAccountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StatusChange
	for rows.Next() {
		var change domain.StatusChange
		if err := rows.Scan(&change.ID, &change.SellerAccountID, &change.Status, &change.ChangedAt, &change.ModifierID); err != nil {
			return nil, err
		}
		result = append(result, change)
	}
	return result, rows.Err()
}

func (s *sellerStore) NameKRTaken(ctx context.Context, nameKR string) (bool, error) {
	const query = `
        SELECT EXISTS (SELECT 1 FROM seller_infos WHERE name_kr=$1 AND close_time=$2)`
	var taken bool
	err := s.pool.QueryRow(ctx, query, nameKR, temporal.OpenEnd).Scan(&taken)
	return taken, err
}

func (s *sellerStore) NameENTaken(ctx context.Context, nameEN string) (bool, error) {
	const query = `
        SELECT EXISTS (SELECT 1 FROM seller_infos WHERE name_en=$1 AND close_time=$2)`
	var taken bool
	err := s.pool.QueryRow(ctx, query, nameEN, temporal.OpenEnd).Scan(&taken)
	return taken, err
}

func (s *sellerStore) ListOpen(ctx context.Context, filter SellerFilter) ([]SellerSummary, error) {
	query, args := buildListQuery(`
        SELECT sa.id, a.id, a.login_id, si.name_kr, si.name_en, si.status,
               COALESCE(m.name, ''), COALESCE(m.contact_number, ''), sa.created_at`, filter, true)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []SellerSummary
	for rows.Next() {
		var item SellerSummary
		if err := rows.Scan(
			&item.SellerAccountID,
			&item.AccountNo,
			&item.LoginID,
			&item.NameKR,
			&item.NameEN,
			&item.Status,
			&item.ManagerName,
			&item.ManagerNumber,
			&item.RegisteredAt,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (s *sellerStore) CountOpen(ctx context.Context, filter SellerFilter) (int64, error) {
	filter.Limit = 0
	filter.Offset = 0
	query, args := buildListQuery(`SELECT COUNT(*)`, filter, false)

	var count int64
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// buildListQuery assembles the filtered open-version listing shared by ListOpen
// and CountOpen.
func buildListQuery(selectClause string, filter SellerFilter, withManagers bool) (string, []any) {
	var b strings.Builder
	b.WriteString(selectClause)
	b.WriteString(`
        FROM seller_infos si
        JOIN seller_accounts sa ON sa.id = si.seller_account_id
        JOIN accounts a ON a.id = sa.account_id`)
	if withManagers {
		b.WriteString(`
        LEFT JOIN manager_infos m ON m.seller_info_id = si.id AND m.ranking = 1`)
	}

	args := []any{temporal.OpenEnd}
	b.WriteString(`
        WHERE si.close_time = $1 AND a.is_deleted = FALSE`)

	appendCond := func(cond string, value any) {
		args = append(args, value)
		b.WriteString(fmt.Sprintf(" AND "+cond, len(args)))
	}

	if filter.Status != nil {
		appendCond("si.status = $%d", *filter.Status)
	}
	if filter.NameKR != nil {
		appendCond("si.name_kr ILIKE '%%' || $%d || '%%'", *filter.NameKR)
	}
	if filter.NameEN != nil {
		appendCond("si.name_en ILIKE '%%' || $%d || '%%'", *filter.NameEN)
	}
	if filter.LoginID != nil {
		appendCond("a.login_id = $%d", *filter.LoginID)
	}
	if filter.CreatedFrom != nil {
		appendCond("sa.created_at >= $%d", *filter.CreatedFrom)
	}
	if filter.CreatedBefore != nil {
		appendCond("sa.created_at < $%d", *filter.CreatedBefore)
	}

	if withManagers {
		b.WriteString(" ORDER BY sa.id DESC")
		if filter.Limit > 0 {
			args = append(args, filter.Limit)
			b.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
		}
		if filter.Offset > 0 {
			args = append(args, filter.Offset)
			b.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))
		}
	}
	return b.String(), args
}

type sellerTx struct {
	tx pgx.Tx
}

func (t *sellerTx) Now(ctx context.Context) (time.Time, error) {
	var now time.Time
	if err := t.tx.QueryRow(ctx, `SELECT now()`).Scan(&now); err != nil {
		return time.Time{}, apperrors.NewPersistenceError(err)
	}
	return now, nil
}

func (t *sellerTx) SellerAccountIDByAccountNo(ctx context.Context, accountNo int64) (int64, error) {
	return sellerAccountIDByAccountNo(ctx, t.tx, accountNo)
}

func (t *sellerTx) CurrentInfo(ctx context.Context, sellerAccountID int64) (*domain.SellerInfo, error) {
	return currentInfo(ctx, t.tx, sellerAccountID)
}

func (t *sellerTx) ResolveAppUser(ctx context.Context, appID string) (int64, error) {
	const query = `
        SELECT id FROM app_users WHERE app_id=$1 AND is_deleted=FALSE`
	var id int64
	if err := t.tx.QueryRow(ctx, query, appID).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (t *sellerTx) InsertInfoVersion(ctx context.Context, info *domain.SellerInfo) error {
	query := `
        INSERT INTO seller_infos (` + infoColumns + `)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,
                $17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28,$29,$30,$31,$32)
        RETURNING id`
	return t.tx.QueryRow(ctx, query,
		info.SellerAccountID,
		info.Status,
		info.NameKR,
		info.NameEN,
		info.CenterNumber,
		info.ProfileImageURL,
		info.BackgroundImageURL,
		info.AppUserID,
		info.CEOName,
		info.CompanyName,
		info.BusinessNumber,
		info.CertificateImageURL,
		info.OnlineBusinessNumber,
		info.OnlineBusinessImageURL,
		info.ShortDescription,
		info.LongDescription,
		info.SiteURL,
		info.KakaoID,
		info.InstaID,
		info.ZipCode,
		info.Address,
		info.DetailAddress,
		info.WeekdayStartTime,
		info.WeekdayEndTime,
		info.WeekendStartTime,
		info.WeekendEndTime,
		info.BankName,
		info.BankHolderName,
		info.BankAccountNumber,
		info.ModifierID,
		info.Window.Start,
		info.Window.Close,
	).Scan(&info.ID)
}

func (t *sellerTx) CloseInfoVersion(ctx context.Context, infoID int64, asOf time.Time) error {
	const query = `
        UPDATE seller_infos SET close_time=$1 WHERE id=$2 AND close_time=$3`
	cmd, err := t.tx.Exec(ctx, query, asOf, infoID, temporal.OpenEnd)
	if err != nil {
		return apperrors.NewPersistenceError(err)
	}
	if cmd.RowsAffected() == 0 {
		// A concurrent revision already closed this version.
		return apperrors.NewConflict("seller version was revised concurrently", map[string]any{"version_id": infoID})
	}
	return nil
}

func (t *sellerTx) CopyInfoVersion(ctx context.Context, fromID int64, status domain.SellerStatus, modifierID int64, asOf time.Time) (int64, error) {
	const query = `
        INSERT INTO seller_infos (seller_account_id, status, name_kr, name_en, center_number,
            profile_image_url, background_image_url, app_user_id, ceo_name, company_name,
            business_number, certificate_image_url, online_business_number, online_business_image_url,
            short_description, long_description, site_url, kakao_id, insta_id,
            zip_code, address, detail_address,
            weekday_start_time, weekday_end_time, weekend_start_time, weekend_end_time,
            bank_name, bank_holder_name, bank_account_number, modifier, start_time, close_time)
        SELECT seller_account_id, $1, name_kr, name_en, center_number,
            profile_image_url, background_image_url, app_user_id, ceo_name, company_name,
            business_number, certificate_image_url, online_business_number, online_business_image_url,
            short_description, long_description, site_url, kakao_id, insta_id,
            zip_code, address, detail_address,
            weekday_start_time, weekday_end_time, weekend_start_time, weekend_end_time,
            bank_name, bank_holder_name, bank_account_number, $2, $3, $4
        FROM seller_infos WHERE id=$5
        RETURNING id`
	var newID int64
	if err := t.tx.QueryRow(ctx, query, status, modifierID, asOf, temporal.OpenEnd, fromID).Scan(&newID); err != nil {
		return 0, err
	}
	return newID, nil
}

func (t *sellerTx) InsertManagers(ctx context.Context, infoID int64, managers []domain.ManagerInfo) error {
	const query = `
        INSERT INTO manager_infos (seller_info_id, name, contact_number, email, ranking)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id`
	for i := range managers {
		managers[i].SellerInfoID = infoID
		if err := t.tx.QueryRow(ctx, query,
			infoID,
			managers[i].Name,
			managers[i].ContactNumber,
			managers[i].Email,
			managers[i].Ranking,
		).Scan(&managers[i].ID); err != nil {
			return err
		}
	}
	return nil
}

func (t *sellerTx) CopyManagers(ctx context.Context, fromInfoID, toInfoID int64) error {
	const query = `
        INSERT INTO manager_infos (seller_info_id, name, contact_number, email, ranking)
        SELECT $1, name, contact_number, email, ranking
        FROM manager_infos WHERE seller_info_id=$2`
	_, err := t.tx.Exec(ctx, query, toInfoID, fromInfoID)
	return err
}

func (t *sellerTx) AppendStatusChange(ctx context.Context, change *domain.StatusChange) error {
	const query = `
        INSERT INTO seller_status_change_histories (seller_account_id, status, changed_at, modifier)
        VALUES ($1,$2,$3,$4)
        RETURNING id`
	if err := t.tx.QueryRow(ctx, query,
		change.SellerAccountID,
		change.Status,
		change.ChangedAt,
		change.ModifierID,
	).Scan(&change.ID); err != nil {
		return apperrors.NewPersistenceError(err)
	}
	return nil
}

func (t *sellerTx) InsertAccount(ctx context.Context, account *domain.Account) error {
	const query = `
        INSERT INTO accounts (login_id, password_hash, role)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return t.tx.QueryRow(ctx, query,
		account.LoginID,
		account.PasswordHash,
		account.Role,
	).Scan(&account.ID, &account.CreatedAt)
}

func (t *sellerTx) InsertSellerAccount(ctx context.Context, accountID int64) (int64, error) {
	const query = `
        INSERT INTO seller_accounts (account_id) VALUES ($1) RETURNING id`
	var id int64
	if err := t.tx.QueryRow(ctx, query, accountID).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func sellerAccountIDByAccountNo(ctx context.Context, q querier, accountNo int64) (int64, error) {
	const query = `
        SELECT sa.id
        FROM seller_accounts sa
        JOIN accounts a ON a.id = sa.account_id
        WHERE a.id=$1 AND a.is_deleted=FALSE`
	var id int64
	if err := q.QueryRow(ctx, query, accountNo).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func currentInfo(ctx context.Context, q querier, sellerAccountID int64) (*domain.SellerInfo, error) {
	query := `
        SELECT id, ` + infoColumns + `
        FROM seller_infos
        WHERE seller_account_id=$1 AND close_time=$2`

	var info domain.SellerInfo
	if err := q.QueryRow(ctx, query, sellerAccountID, temporal.OpenEnd).Scan(
		&info.ID,
		&info.SellerAccountID,
		&info.Status,
		&info.NameKR,
		&info.NameEN,
		&info.CenterNumber,
		&info.ProfileImageURL,
		&info.BackgroundImageURL,
		&info.AppUserID,
		&info.CEOName,
		&info.CompanyName,
		&info.BusinessNumber,
		&info.CertificateImageURL,
		&info.OnlineBusinessNumber,
		&info.OnlineBusinessImageURL,
		&info.ShortDescription,
		&info.LongDescription,
		&info.SiteURL,
		&info.KakaoID,
		&info.InstaID,
		&info.ZipCode,
		&info.Address,
		&info.DetailAddress,
		&info.WeekdayStartTime,
		&info.WeekdayEndTime,
		&info.WeekendStartTime,
		&info.WeekendEndTime,
		&info.BankName,
		&info.BankHolderName,
		&info.BankAccountNumber,
		&info.ModifierID,
		&info.Window.Start,
		&info.Window.Close,
	); err != nil {
		return nil, err
	}
	return &info, nil
}
