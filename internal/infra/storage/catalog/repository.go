package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/BNP-ReservationService/internal/domain"
	"github.com/m04kA/BNP-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/BNP-ReservationService/pkg/psqlbuilder"
)

// Repository репозиторий каталога: сайты, книги, залы/оборудование
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// ---------------------------------------------------------------
// Сайты (sedes)
// ---------------------------------------------------------------

// NextSiteCode генерирует следующий код сайта глобальной
// последовательности: SED-001, SED-002, ...
func (r *Repository) NextSiteCode(ctx context.Context) (string, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var lastID int64
	err := executor.QueryRowContext(ctx, "SELECT COALESCE(MAX(id), 0) FROM sites").Scan(&lastID)
	if err != nil {
		return "", fmt.Errorf("%w: NextSiteCode - execute query: %v", ErrExecQuery, err)
	}

	return fmt.Sprintf("%s-%03d", domain.SiteCodePrefix, lastID+1), nil
}

// CreateSite создает сайт с уже сгенерированным кодом
func (r *Repository) CreateSite(ctx context.Context, s *domain.Site) (*domain.Site, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("sites").
		Columns("code", "name", "address", "phone", "active").
		Values(s.Code, s.Name, s.Address, s.Phone, true).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateSite - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&s.ID); err != nil {
		return nil, fmt.Errorf("%w: CreateSite - execute insert: %v", ErrExecQuery, err)
	}

	s.Active = true
	return s, nil
}

// GetSite получает сайт по ID
func (r *Repository) GetSite(ctx context.Context, id int64) (*domain.Site, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "code", "name", "address", "phone", "active").
		From("sites").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetSite - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.Site
	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.Code, &s.Name, &s.Address, &s.Phone, &s.Active)
	if err == sql.ErrNoRows {
		return nil, ErrSiteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetSite - scan site: %v", ErrScanRow, err)
	}

	return &s, nil
}

// ListSites возвращает сайты; onlyActive=true отдает только активные
func (r *Repository) ListSites(ctx context.Context, onlyActive bool) ([]*domain.Site, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("id", "code", "name", "address", "phone", "active").
		From("sites").
		OrderBy("id ASC")
	if onlyActive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListSites - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListSites - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	sites := make([]*domain.Site, 0)
	for rows.Next() {
		var s domain.Site
		if err := rows.Scan(&s.ID, &s.Code, &s.Name, &s.Address, &s.Phone, &s.Active); err != nil {
			return nil, fmt.Errorf("%w: ListSites - scan row: %v", ErrScanRow, err)
		}
		sites = append(sites, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListSites - rows error: %v", ErrScanRow, err)
	}

	return sites, nil
}

// UpdateSite обновляет атрибуты сайта. Код не редактируется.
func (r *Repository) UpdateSite(ctx context.Context, id int64, set map[string]interface{}) error {
	delete(set, "code")
	return r.updateByID(ctx, "sites", id, set, ErrSiteNotFound, "UpdateSite")
}

// DeleteSite физически удаляет сайт. Отклоняется, пока на сайте
// числится хотя бы одна книга или зал (referential-integrity guard).
func (r *Repository) DeleteSite(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var inventory int
	err := executor.QueryRowContext(ctx,
		"SELECT (SELECT COUNT(*) FROM books WHERE site_id = $1) + (SELECT COUNT(*) FROM rooms WHERE site_id = $1)",
		id,
	).Scan(&inventory)
	if err != nil {
		return fmt.Errorf("%w: DeleteSite - count inventory: %v", ErrExecQuery, err)
	}
	if inventory > 0 {
		return ErrSiteHasInventory
	}

	query, args, err := psqlbuilder.Delete("sites").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteSite - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteSite - execute delete: %v", ErrExecQuery, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteSite - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrSiteNotFound
	}

	return nil
}

// ---------------------------------------------------------------
// Книги
// ---------------------------------------------------------------

var bookColumns = []string{
	"id", "inventory_code", "title", "author", "isbn", "category", "site_id", "stock_total", "active",
}

// NextInventoryCode генерирует инвентарный код вида SED-001-LIB-0004 /
// SED-001-REC-0002 на основе кода сайта и счётчика его инвентаря
func (r *Repository) NextInventoryCode(ctx context.Context, siteID int64, kind domain.ResourceKind) (string, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	site, err := r.GetSite(ctx, siteID)
	if err != nil {
		return "", err
	}

	table, infix := "rooms", domain.RoomInventoryInfix
	if kind == domain.KindBook {
		table, infix = "books", domain.BookInventoryInfix
	}

	var count int
	err = executor.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE site_id = $1", table), siteID,
	).Scan(&count)
	if err != nil {
		return "", fmt.Errorf("%w: NextInventoryCode - count inventory: %v", ErrExecQuery, err)
	}

	return fmt.Sprintf("%s-%s-%04d", site.Code, infix, count+1), nil
}

// CreateBook создает книгу
func (r *Repository) CreateBook(ctx context.Context, b *domain.Book) (*domain.Book, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("books").
		Columns("inventory_code", "title", "author", "isbn", "category", "site_id", "stock_total", "active").
		Values(b.InventoryCode, b.Title, b.Author, b.ISBN, b.Category, b.SiteID, b.StockTotal, true).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateBook - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&b.ID); err != nil {
		return nil, fmt.Errorf("%w: CreateBook - execute insert: %v", ErrExecQuery, err)
	}

	b.Active = true
	return b, nil
}

// GetBook получает книгу по ID
func (r *Repository) GetBook(ctx context.Context, id int64) (*domain.Book, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookColumns...).
		From("books").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBook - build select query: %v", ErrBuildQuery, err)
	}

	var b domain.Book
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&b.ID, &b.InventoryCode, &b.Title, &b.Author, &b.ISBN, &b.Category, &b.SiteID, &b.StockTotal, &b.Active,
	)
	if err == sql.ErrNoRows {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBook - scan book: %v", ErrScanRow, err)
	}

	return &b, nil
}

// BooksFilter фильтр публичного поиска книг
type BooksFilter struct {
	Query      *string // поиск по названию/автору/ISBN (ILIKE)
	SiteID     *int64
	Category   *string
	OnlyActive bool
}

// ListBooks возвращает книги по фильтру, новые первыми
func (r *Repository) ListBooks(ctx context.Context, filter BooksFilter) ([]*domain.Book, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookColumns...).
		From("books").
		OrderBy("id DESC")

	if filter.OnlyActive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"active": true})
	}
	if filter.SiteID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"site_id": *filter.SiteID})
	}
	if filter.Category != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"category": *filter.Category})
	}
	if filter.Query != nil {
		pattern := "%" + *filter.Query + "%"
		selectBuilder = selectBuilder.Where(squirrel.Or{
			squirrel.ILike{"title": pattern},
			squirrel.ILike{"author": pattern},
			squirrel.ILike{"isbn": pattern},
		})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListBooks - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBooks - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	books := make([]*domain.Book, 0)
	for rows.Next() {
		var b domain.Book
		if err := rows.Scan(&b.ID, &b.InventoryCode, &b.Title, &b.Author, &b.ISBN, &b.Category, &b.SiteID, &b.StockTotal, &b.Active); err != nil {
			return nil, fmt.Errorf("%w: ListBooks - scan row: %v", ErrScanRow, err)
		}
		books = append(books, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBooks - rows error: %v", ErrScanRow, err)
	}

	return books, nil
}

// UpdateBook обновляет атрибуты книги. Инвентарный код не редактируется.
func (r *Repository) UpdateBook(ctx context.Context, id int64, set map[string]interface{}) error {
	delete(set, "inventory_code")
	return r.updateByID(ctx, "books", id, set, ErrBookNotFound, "UpdateBook")
}

// DeleteBook физически удаляет книгу. Guard по истории резерваций
// выполняет сервис каталога до вызова.
func (r *Repository) DeleteBook(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "books", id, ErrBookNotFound, "DeleteBook")
}

// ---------------------------------------------------------------
// Залы / оборудование
// ---------------------------------------------------------------

var roomColumns = []string{
	"id", "inventory_code", "name", "room_type", "site_id", "capacity", "active",
}

// CreateRoom создает зал или единицу оборудования
func (r *Repository) CreateRoom(ctx context.Context, room *domain.Room) (*domain.Room, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("rooms").
		Columns("inventory_code", "name", "room_type", "site_id", "capacity", "active").
		Values(room.InventoryCode, room.Name, room.RoomType, room.SiteID, room.Capacity, true).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateRoom - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&room.ID); err != nil {
		return nil, fmt.Errorf("%w: CreateRoom - execute insert: %v", ErrExecQuery, err)
	}

	room.Active = true
	return room, nil
}

// GetRoom получает зал по ID
func (r *Repository) GetRoom(ctx context.Context, id int64) (*domain.Room, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(roomColumns...).
		From("rooms").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetRoom - build select query: %v", ErrBuildQuery, err)
	}

	var room domain.Room
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&room.ID, &room.InventoryCode, &room.Name, &room.RoomType, &room.SiteID, &room.Capacity, &room.Active,
	)
	if err == sql.ErrNoRows {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetRoom - scan room: %v", ErrScanRow, err)
	}

	return &room, nil
}

// RoomsFilter фильтр публичного поиска залов/оборудования
type RoomsFilter struct {
	RoomType   *string // "SALA" | "EQUIPO"
	SiteID     *int64
	OnlyActive bool
}

// ListRooms возвращает залы по фильтру, новые первыми
func (r *Repository) ListRooms(ctx context.Context, filter RoomsFilter) ([]*domain.Room, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(roomColumns...).
		From("rooms").
		OrderBy("id DESC")

	if filter.OnlyActive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"active": true})
	}
	if filter.SiteID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"site_id": *filter.SiteID})
	}
	if filter.RoomType != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"room_type": *filter.RoomType})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListRooms - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListRooms - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	rooms := make([]*domain.Room, 0)
	for rows.Next() {
		var room domain.Room
		if err := rows.Scan(&room.ID, &room.InventoryCode, &room.Name, &room.RoomType, &room.SiteID, &room.Capacity, &room.Active); err != nil {
			return nil, fmt.Errorf("%w: ListRooms - scan row: %v", ErrScanRow, err)
		}
		rooms = append(rooms, &room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListRooms - rows error: %v", ErrScanRow, err)
	}

	return rooms, nil
}

// UpdateRoom обновляет атрибуты зала. Инвентарный код не редактируется.
func (r *Repository) UpdateRoom(ctx context.Context, id int64, set map[string]interface{}) error {
	delete(set, "inventory_code")
	return r.updateByID(ctx, "rooms", id, set, ErrRoomNotFound, "UpdateRoom")
}

// DeleteRoom физически удаляет зал. Guard по истории резерваций
// выполняет сервис каталога до вызова.
func (r *Repository) DeleteRoom(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "rooms", id, ErrRoomNotFound, "DeleteRoom")
}

// ---------------------------------------------------------------
// Общие helpers
// ---------------------------------------------------------------

func (r *Repository) updateByID(ctx context.Context, table string, id int64, set map[string]interface{}, notFound error, op string) error {
	if len(set) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		SetMap(set).
		Where(squirrel.Eq{"id": id}).
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
		return notFound
	}

	return nil
}

func (r *Repository) deleteByID(ctx context.Context, table string, id int64, notFound error, op string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build delete query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute delete: %v", ErrExecQuery, op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return notFound
	}

	return nil
}
