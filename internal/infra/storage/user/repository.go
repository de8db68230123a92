package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/BNP-ReservationService/internal/domain"
	"github.com/m04kA/BNP-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/BNP-ReservationService/pkg/psqlbuilder"
)

var userColumns = []string{
	"dni",
	"email",
	"name",
	"password_hash",
	"role",
	"strikes",
	"banned_until",
	"recovery_token",
	"recovery_expires",
	"created_at",
}

// Repository репозиторий учёта пользователей: строки, баны, восстановление
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория пользователей
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает пользователя. Дубликаты DNI/email транслируются в
// ErrDuplicateDNI / ErrDuplicateEmail.
func (r *Repository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("users").
		Columns("dni", "email", "name", "password_hash", "role").
		Values(u.DNI, u.Email, u.Name, u.PasswordHash, u.Role).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			if pqErr.Constraint == "users_email_key" {
				return nil, ErrDuplicateEmail
			}
			return nil, ErrDuplicateDNI
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	u.CreatedAt = createdAt.Time
	return u, nil
}

// GetByDNI получает пользователя по DNI
func (r *Repository) GetByDNI(ctx context.Context, dni string) (*domain.User, error) {
	return r.getOne(ctx, squirrel.Eq{"dni": dni}, false)
}

// GetByDNIForUpdate получает пользователя по DNI с блокировкой строки.
// Обязателен перед применением strike: конкурирующие checkpoint-ы одного
// пользователя сериализуются на его строке, иначе инкременты теряются.
func (r *Repository) GetByDNIForUpdate(ctx context.Context, dni string) (*domain.User, error) {
	return r.getOne(ctx, squirrel.Eq{"dni": dni}, true)
}

// GetByDNIAndEmail получает пользователя по паре DNI+email (восстановление)
func (r *Repository) GetByDNIAndEmail(ctx context.Context, dni, email string) (*domain.User, error) {
	return r.getOne(ctx, squirrel.And{
		squirrel.Eq{"dni": dni},
		squirrel.Eq{"email": email},
	}, false)
}

func (r *Repository) getOne(ctx context.Context, where squirrel.Sqlizer, forUpdate bool) (*domain.User, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(userColumns...).
		From("users").
		Where(where)

	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getOne - build select query: %v", ErrBuildQuery, err)
	}

	var (
		u         domain.User
		createdAt sql.NullTime
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&u.DNI,
		&u.Email,
		&u.Name,
		&u.PasswordHash,
		&u.Role,
		&u.Strikes,
		&u.BannedUntil,
		&u.RecoveryToken,
		&u.RecoveryExpires,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: getOne - scan user: %v", ErrScanRow, err)
	}

	u.CreatedAt = createdAt.Time
	return &u, nil
}

// ApplyStrike увеличивает счётчик strikes и, если новый счётчик достиг
// лимита, продлевает бан до now + banFor. Порог проверяется как ">=",
// а не "==": каждый новый strike пользователя, уже перешедшего лимит,
// заново накладывает бан от текущего момента — поведение исходной
// политики сохранено сознательно.
// Вызывать строго после GetByDNIForUpdate внутри той же транзакции.
func (r *Repository) ApplyStrike(ctx context.Context, dni string, now time.Time, strikeLimit int, banFor time.Duration) (*domain.User, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("users").
		Set("strikes", squirrel.Expr("strikes + 1")).
		Where(squirrel.Eq{"dni": dni}).
		Suffix("RETURNING strikes").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ApplyStrike - build update query: %v", ErrBuildQuery, err)
	}

	var strikes int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&strikes); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: ApplyStrike - execute update: %v", ErrExecQuery, err)
	}

	var bannedUntil *time.Time
	if strikes >= strikeLimit {
		until := now.Add(banFor)
		bannedUntil = &until

		query, args, err = psqlbuilder.Update("users").
			Set("banned_until", until).
			Where(squirrel.Eq{"dni": dni}).
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("%w: ApplyStrike - build ban query: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("%w: ApplyStrike - execute ban update: %v", ErrExecQuery, err)
		}
	}

	return &domain.User{DNI: dni, Strikes: strikes, BannedUntil: bannedUntil}, nil
}

// SetRecoveryToken сохраняет OTP восстановления и срок его действия
func (r *Repository) SetRecoveryToken(ctx context.Context, dni, token string, expires time.Time) error {
	return r.update(ctx, dni, map[string]interface{}{
		"recovery_token":   token,
		"recovery_expires": expires,
	}, "SetRecoveryToken")
}

// ResetPassword устанавливает новый хеш пароля и сбрасывает OTP
func (r *Repository) ResetPassword(ctx context.Context, dni, passwordHash string) error {
	return r.update(ctx, dni, map[string]interface{}{
		"password_hash":    passwordHash,
		"recovery_token":   nil,
		"recovery_expires": nil,
	}, "ResetPassword")
}

func (r *Repository) update(ctx context.Context, dni string, set map[string]interface{}, op string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("users").
		SetMap(set).
		Where(squirrel.Eq{"dni": dni}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}
