package reservation

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

// Имена constraint-ов из migrations/001_init.sql.
// uq_room_slot_active — частичный уникальный индекс (room_id, starts_at)
// по активным состояниям: страховка от двойного бронирования слота
// на случай, если две транзакции всё же прошли проверку доступности.
const (
	constraintRoomSlotActive = "uq_room_slot_active"
	constraintCode           = "reservations_code_key"
	constraintToken          = "reservations_token_key"
)

const defaultAdminLimit = 100

var reservationColumns = []string{
	"id",
	"code",
	"token",
	"user_dni",
	"kind",
	"room_id",
	"book_id",
	"reference_date",
	"starts_at",
	"ends_at",
	"reason",
	"party_size",
	"state",
	"checked_in_at",
	"checked_out_at",
	"created_at",
}

// Repository репозиторий для работы с резервациями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория резерваций
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую резервацию в состоянии pending.
// Если в контексте есть активная транзакция, использует её — при создании
// с проверкой доступности это обязательно, иначе проверка и вставка не
// атомарны. Нарушение частичного уникального индекса по слоту зала
// транслируется в ErrSlotTaken, коллизия кода/токена — в ErrCodeCollision.
func (r *Repository) Create(ctx context.Context, rsv *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var roomID, bookID *int64
	switch rsv.Resource.Kind {
	case domain.KindRoom:
		roomID = &rsv.Resource.ID
	case domain.KindBook:
		bookID = &rsv.Resource.ID
	}

	query, args, err := psqlbuilder.Insert("reservations").
		Columns(
			"code",
			"token",
			"user_dni",
			"kind",
			"room_id",
			"book_id",
			"reference_date",
			"starts_at",
			"ends_at",
			"reason",
			"party_size",
			"state",
		).
		Values(
			rsv.Code,
			rsv.Token,
			rsv.UserDNI,
			rsv.Resource.Kind,
			roomID,
			bookID,
			rsv.ReferenceDate,
			rsv.StartsAt,
			rsv.EndsAt,
			rsv.Reason,
			rsv.PartySize,
			rsv.State,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&rsv.ID, &createdAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			switch pqErr.Constraint {
			case constraintRoomSlotActive:
				return nil, ErrSlotTaken
			case constraintCode, constraintToken:
				return nil, ErrCodeCollision
			}
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	rsv.CreatedAt = createdAt.Time
	return rsv, nil
}

// GetByID получает резервацию по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByTokenOrCode ищет резервацию по check-in токену или
// человекочитаемому коду. Внутри транзакции строка блокируется FOR UPDATE,
// чтобы конкурирующие checkpoint-ы по одной резервации сериализовались.
func (r *Repository) GetByTokenOrCode(ctx context.Context, key string) (*domain.Reservation, error) {
	return r.getOne(ctx, squirrel.Or{
		squirrel.Eq{"token": key},
		squirrel.Eq{"code": key},
	})
}

func (r *Repository) getOne(ctx context.Context, where interface{}) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(where)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getOne - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getOne - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	reservations, err := r.scanReservations(rows)
	if err != nil {
		return nil, err
	}
	if len(reservations) == 0 {
		return nil, ErrReservationNotFound
	}
	return reservations[0], nil
}

// OccupiedRoomSlots возвращает стартовые моменты активных резерваций зала
// на указанную гражданскую дату. Внутри транзакции строки блокируются
// FOR UPDATE (используется usecase-ом создания резервации).
func (r *Repository) OccupiedRoomSlots(ctx context.Context, roomID int64, date time.Time) ([]time.Time, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("starts_at").
		From("reservations").
		Where(squirrel.Eq{"room_id": roomID}).
		Where(squirrel.Eq{"state": statesToStrings(domain.RoomOccupyingStates)}).
		Where(squirrel.Expr("DATE(starts_at) = ?", date)).
		OrderBy("starts_at ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: OccupiedRoomSlots - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: OccupiedRoomSlots - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]time.Time, 0)
	for rows.Next() {
		var startsAt time.Time
		if err := rows.Scan(&startsAt); err != nil {
			return nil, fmt.Errorf("%w: OccupiedRoomSlots - scan starts_at: %v", ErrScanRow, err)
		}
		slots = append(slots, startsAt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: OccupiedRoomSlots - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}

// GetBookWindow возвращает активные резервации книги, пересекающие отрезок
// [from, to] (пересечение интервалов: starts_at <= to AND ends_at >= from).
// Внутри транзакции строки блокируются FOR UPDATE.
func (r *Repository) GetBookWindow(ctx context.Context, bookID int64, from, to time.Time) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"book_id": bookID}).
		Where(squirrel.Eq{"state": statesToStrings(domain.BookOccupyingStates)}).
		Where(squirrel.LtOrEq{"starts_at": to}).
		Where(squirrel.GtOrEq{"ends_at": from}).
		OrderBy("starts_at ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBookWindow - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBookWindow - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// CountUserRoomsOnDate возвращает количество активных резерваций залов
// пользователя, стартующих в указанную гражданскую дату (по всем залам)
func (r *Repository) CountUserRoomsOnDate(ctx context.Context, dni string, date time.Time) (int, error) {
	return r.count(ctx, psqlbuilder.Select("COUNT(*)").
		From("reservations").
		Where(squirrel.Eq{"user_dni": dni}).
		Where(squirrel.Eq{"kind": domain.KindRoom}).
		Where(squirrel.Eq{"state": statesToStrings(domain.RoomOccupyingStates)}).
		Where(squirrel.Expr("DATE(starts_at) = ?", date)),
		"CountUserRoomsOnDate")
}

// CountUserActiveLoans возвращает количество активных книжных резерваций
// пользователя (pending + delivered)
func (r *Repository) CountUserActiveLoans(ctx context.Context, dni string) (int, error) {
	return r.count(ctx, psqlbuilder.Select("COUNT(*)").
		From("reservations").
		Where(squirrel.Eq{"user_dni": dni}).
		Where(squirrel.Eq{"kind": domain.KindBook}).
		Where(squirrel.Eq{"state": statesToStrings(domain.BookOccupyingStates)}),
		"CountUserActiveLoans")
}

// CountByResource возвращает общее число резерваций ресурса (вся история).
// Используется guard-ом физического удаления ресурса из каталога.
func (r *Repository) CountByResource(ctx context.Context, ref domain.ResourceRef) (int, error) {
	column := "room_id"
	if ref.Kind == domain.KindBook {
		column = "book_id"
	}
	return r.count(ctx, psqlbuilder.Select("COUNT(*)").
		From("reservations").
		Where(squirrel.Eq{column: ref.ID}),
		"CountByResource")
}

func (r *Repository) count(ctx context.Context, builder squirrel.SelectBuilder, op string) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	var cnt int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&cnt); err != nil {
		return 0, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	return cnt, nil
}

// UpdateStateIf условно переводит резервацию из ожидаемого состояния в
// новое (compare-and-swap). Ноль затронутых строк означает, что состояние
// уже изменил кто-то другой — вызывающий код трактует это как "уже закрыта".
// Опциональные checkedInAt / checkedOutAt проставляются той же командой,
// чтобы переход и отметка времени были атомарны.
func (r *Repository) UpdateStateIf(
	ctx context.Context,
	id int64,
	from, to domain.ReservationState,
	checkedInAt, checkedOutAt *time.Time,
) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("reservations").
		Set("state", to).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"state": from})

	if checkedInAt != nil {
		updateBuilder = updateBuilder.Set("checked_in_at", *checkedInAt)
	}
	if checkedOutAt != nil {
		updateBuilder = updateBuilder.Set("checked_out_at", *checkedOutAt)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStateIf - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStateIf - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStateIf - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrStateConflict
	}

	return nil
}

// GetByUser получает резервации пользователя, опционально фильтруя по состоянию
func (r *Repository) GetByUser(ctx context.Context, dni string, state *domain.ReservationState) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"user_dni": dni}).
		OrderBy("starts_at DESC")

	if state != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"state": *state})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUser - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUser - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// ListAdmin административная выборка резерваций с фильтрами по состоянию
// и гражданской дате, новые первыми
func (r *Repository) ListAdmin(ctx context.Context, filter domain.AdminReservationsFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	limit := filter.Limit
	if limit == 0 {
		limit = defaultAdminLimit
	}

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		OrderBy("reference_date DESC, id DESC").
		Limit(limit)

	if filter.State != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"state": *filter.State})
	}
	if filter.ReferenceDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.Expr("DATE(reference_date) = ?", *filter.ReferenceDate))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListAdmin - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListAdmin - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// scanReservations сканирует результаты запроса в слайс резерваций
func (r *Repository) scanReservations(rows *sql.Rows) ([]*domain.Reservation, error) {
	reservations := make([]*domain.Reservation, 0)

	for rows.Next() {
		var (
			rsv            domain.Reservation
			roomID, bookID sql.NullInt64
			createdAt      sql.NullTime
		)

		err := rows.Scan(
			&rsv.ID,
			&rsv.Code,
			&rsv.Token,
			&rsv.UserDNI,
			&rsv.Resource.Kind,
			&roomID,
			&bookID,
			&rsv.ReferenceDate,
			&rsv.StartsAt,
			&rsv.EndsAt,
			&rsv.Reason,
			&rsv.PartySize,
			&rsv.State,
			&rsv.CheckedInAt,
			&rsv.CheckedOutAt,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanReservations - scan row: %v", ErrScanRow, err)
		}

		// Восстанавливаем tagged union: колонка выбирается тегом kind
		switch rsv.Resource.Kind {
		case domain.KindRoom:
			rsv.Resource.ID = roomID.Int64
		case domain.KindBook:
			rsv.Resource.ID = bookID.Int64
		}
		if rsv.Resource.ID == 0 {
			return nil, fmt.Errorf("%w: scanReservations - reservation id=%d has no resource reference for kind=%s",
				ErrScanRow, rsv.ID, rsv.Resource.Kind)
		}

		rsv.CreatedAt = createdAt.Time
		reservations = append(reservations, &rsv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanReservations - rows error: %v", ErrScanRow, err)
	}

	return reservations, nil
}

func statesToStrings(states []domain.ReservationState) []string {
	out := make([]string, len(states))
	for i, s := range states {
		out[i] = string(s)
	}
	return out
}
