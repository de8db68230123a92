package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/BNP-ReservationService/internal/domain"
	catalogstore "github.com/m04kA/BNP-ReservationService/internal/infra/storage/catalog"
	"github.com/m04kA/BNP-ReservationService/pkg/ptr"
)

// ============================================================
// Фейки зависимостей
// ============================================================

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeCatalog in-memory каталог, повторяющий генерацию кодов хранилища
type fakeCatalog struct {
	sites map[int64]*domain.Site
	books map[int64]*domain.Book
	rooms map[int64]*domain.Room

	nextSiteID int64
	nextBookID int64
	nextRoomID int64
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		sites: make(map[int64]*domain.Site),
		books: make(map[int64]*domain.Book),
		rooms: make(map[int64]*domain.Room),
	}
}

func (f *fakeCatalog) NextSiteCode(ctx context.Context) (string, error) {
	return fmt.Sprintf("SED-%03d", f.nextSiteID+1), nil
}

func (f *fakeCatalog) CreateSite(ctx context.Context, s *domain.Site) (*domain.Site, error) {
	f.nextSiteID++
	out := *s
	out.ID = f.nextSiteID
	out.Active = true
	f.sites[out.ID] = &out
	return &out, nil
}

func (f *fakeCatalog) GetSite(ctx context.Context, id int64) (*domain.Site, error) {
	s, ok := f.sites[id]
	if !ok {
		return nil, catalogstore.ErrSiteNotFound
	}
	return s, nil
}

func (f *fakeCatalog) ListSites(ctx context.Context, onlyActive bool) ([]*domain.Site, error) {
	out := make([]*domain.Site, 0)
	for _, s := range f.sites {
		if onlyActive && !s.Active {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeCatalog) UpdateSite(ctx context.Context, id int64, set map[string]interface{}) error {
	s, ok := f.sites[id]
	if !ok {
		return catalogstore.ErrSiteNotFound
	}
	if name, ok := set["name"]; ok {
		s.Name = name.(string)
	}
	if active, ok := set["active"]; ok {
		s.Active = active.(bool)
	}
	return nil
}

func (f *fakeCatalog) DeleteSite(ctx context.Context, id int64) error {
	if _, ok := f.sites[id]; !ok {
		return catalogstore.ErrSiteNotFound
	}
	for _, b := range f.books {
		if b.SiteID == id {
			return catalogstore.ErrSiteHasInventory
		}
	}
	for _, r := range f.rooms {
		if r.SiteID == id {
			return catalogstore.ErrSiteHasInventory
		}
	}
	delete(f.sites, id)
	return nil
}

func (f *fakeCatalog) NextInventoryCode(ctx context.Context, siteID int64, kind domain.ResourceKind) (string, error) {
	site, ok := f.sites[siteID]
	if !ok {
		return "", catalogstore.ErrSiteNotFound
	}

	count := 0
	suffix := "LIB"
	if kind == domain.KindRoom {
		suffix = "REC"
		for _, r := range f.rooms {
			if r.SiteID == siteID {
				count++
			}
		}
	} else {
		for _, b := range f.books {
			if b.SiteID == siteID {
				count++
			}
		}
	}
	return fmt.Sprintf("%s-%s-%04d", site.Code, suffix, count+1), nil
}

func (f *fakeCatalog) CreateBook(ctx context.Context, b *domain.Book) (*domain.Book, error) {
	f.nextBookID++
	out := *b
	out.ID = f.nextBookID
	out.Active = true
	f.books[out.ID] = &out
	return &out, nil
}

func (f *fakeCatalog) GetBook(ctx context.Context, id int64) (*domain.Book, error) {
	b, ok := f.books[id]
	if !ok {
		return nil, catalogstore.ErrBookNotFound
	}
	return b, nil
}

func (f *fakeCatalog) ListBooks(ctx context.Context, filter catalogstore.BooksFilter) ([]*domain.Book, error) {
	out := make([]*domain.Book, 0)
	for _, b := range f.books {
		if filter.OnlyActive && !b.Active {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeCatalog) UpdateBook(ctx context.Context, id int64, set map[string]interface{}) error {
	b, ok := f.books[id]
	if !ok {
		return catalogstore.ErrBookNotFound
	}
	if stock, ok := set["stock_total"]; ok {
		b.StockTotal = stock.(int)
	}
	if active, ok := set["active"]; ok {
		b.Active = active.(bool)
	}
	return nil
}

func (f *fakeCatalog) DeleteBook(ctx context.Context, id int64) error {
	if _, ok := f.books[id]; !ok {
		return catalogstore.ErrBookNotFound
	}
	delete(f.books, id)
	return nil
}

func (f *fakeCatalog) CreateRoom(ctx context.Context, room *domain.Room) (*domain.Room, error) {
	f.nextRoomID++
	out := *room
	out.ID = f.nextRoomID
	out.Active = true
	f.rooms[out.ID] = &out
	return &out, nil
}

func (f *fakeCatalog) GetRoom(ctx context.Context, id int64) (*domain.Room, error) {
	r, ok := f.rooms[id]
	if !ok {
		return nil, catalogstore.ErrRoomNotFound
	}
	return r, nil
}

func (f *fakeCatalog) ListRooms(ctx context.Context, filter catalogstore.RoomsFilter) ([]*domain.Room, error) {
	out := make([]*domain.Room, 0)
	for _, r := range f.rooms {
		if filter.OnlyActive && !r.Active {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeCatalog) UpdateRoom(ctx context.Context, id int64, set map[string]interface{}) error {
	r, ok := f.rooms[id]
	if !ok {
		return catalogstore.ErrRoomNotFound
	}
	if active, ok := set["active"]; ok {
		r.Active = active.(bool)
	}
	return nil
}

func (f *fakeCatalog) DeleteRoom(ctx context.Context, id int64) error {
	if _, ok := f.rooms[id]; !ok {
		return catalogstore.ErrRoomNotFound
	}
	delete(f.rooms, id)
	return nil
}

type fakeCounter struct {
	counts map[domain.ResourceRef]int
}

func (f *fakeCounter) CountByResource(ctx context.Context, ref domain.ResourceRef) (int, error) {
	return f.counts[ref], nil
}

// ============================================================
// Окружение теста
// ============================================================

type env struct {
	catalog *fakeCatalog
	counter *fakeCounter
	svc     *Service
}

func newEnv(t *testing.T) *env {
	t.Helper()

	e := &env{
		catalog: newFakeCatalog(),
		counter: &fakeCounter{counts: make(map[domain.ResourceRef]int)},
	}
	e.svc = NewService(e.catalog, e.counter, fakeTxManager{}, nopLogger{})
	return e
}

func (e *env) createSite(t *testing.T) *domain.Site {
	t.Helper()
	site, err := e.svc.CreateSite(context.Background(), &CreateSiteInput{Name: "Sede Central", Address: "Av. Abancay s/n"})
	require.NoError(t, err)
	return site
}

// ============================================================
// Сценарии
// ============================================================

func TestCreateSite_GeneratesCode(t *testing.T) {
	e := newEnv(t)

	first := e.createSite(t)
	assert.Equal(t, "SED-001", first.Code)
	assert.True(t, first.Active)

	second, err := e.svc.CreateSite(context.Background(), &CreateSiteInput{Name: "Sede San Borja"})
	require.NoError(t, err)
	assert.Equal(t, "SED-002", second.Code)
}

func TestCreateSite_RequiresName(t *testing.T) {
	e := newEnv(t)
	_, err := e.svc.CreateSite(context.Background(), &CreateSiteInput{Name: "  "})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateBook_GeneratesInventoryCode(t *testing.T) {
	e := newEnv(t)
	site := e.createSite(t)

	book, err := e.svc.CreateBook(context.Background(), &CreateBookInput{
		Title:      "Los ríos profundos",
		Author:     "José María Arguedas",
		SiteID:     site.ID,
		StockTotal: 3,
	})
	require.NoError(t, err)
	require.NotNil(t, book.InventoryCode)
	assert.Equal(t, "SED-001-LIB-0001", *book.InventoryCode)

	// Счётчик идет по сайту и типу ресурса
	second, err := e.svc.CreateBook(context.Background(), &CreateBookInput{
		Title: "Redoble por Rancas", Author: "Manuel Scorza", SiteID: site.ID, StockTotal: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "SED-001-LIB-0002", *second.InventoryCode)
}

func TestCreateRoom_GeneratesInventoryCode(t *testing.T) {
	e := newEnv(t)
	site := e.createSite(t)

	room, err := e.svc.CreateRoom(context.Background(), &CreateRoomInput{
		Name:     "Sala de Estudio 1",
		RoomType: RoomTypeSala,
		SiteID:   site.ID,
		Capacity: ptr.Ptr(6),
	})
	require.NoError(t, err)
	require.NotNil(t, room.InventoryCode)
	assert.Equal(t, "SED-001-REC-0001", *room.InventoryCode)
}

func TestCreateRoom_InvalidType(t *testing.T) {
	e := newEnv(t)
	site := e.createSite(t)

	_, err := e.svc.CreateRoom(context.Background(), &CreateRoomInput{
		Name: "Cabina", RoomType: "CABINA", SiteID: site.ID,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateBook_UnknownSite(t *testing.T) {
	e := newEnv(t)
	_, err := e.svc.CreateBook(context.Background(), &CreateBookInput{
		Title: "Trilce", Author: "César Vallejo", SiteID: 99, StockTotal: 1,
	})
	assert.ErrorIs(t, err, ErrSiteNotFound)
}

func TestCreateBook_InvalidStock(t *testing.T) {
	e := newEnv(t)
	site := e.createSite(t)
	_, err := e.svc.CreateBook(context.Background(), &CreateBookInput{
		Title: "Trilce", Author: "César Vallejo", SiteID: site.ID, StockTotal: 0,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDeleteSite_WithInventory(t *testing.T) {
	e := newEnv(t)
	site := e.createSite(t)
	_, err := e.svc.CreateBook(context.Background(), &CreateBookInput{
		Title: "Trilce", Author: "César Vallejo", SiteID: site.ID, StockTotal: 1,
	})
	require.NoError(t, err)

	err = e.svc.DeleteSite(context.Background(), site.ID)
	assert.ErrorIs(t, err, ErrSiteHasInventory)
}

func TestDeleteBook_WithReservationsOnlyDeactivates(t *testing.T) {
	e := newEnv(t)
	site := e.createSite(t)
	book, err := e.svc.CreateBook(context.Background(), &CreateBookInput{
		Title: "Trilce", Author: "César Vallejo", SiteID: site.ID, StockTotal: 1,
	})
	require.NoError(t, err)

	e.counter.counts[domain.ResourceRef{Kind: domain.KindBook, ID: book.ID}] = 4

	err = e.svc.DeleteBook(context.Background(), book.ID)
	assert.ErrorIs(t, err, ErrHasReservations)

	// Деактивация через update остается доступной
	updated, err := e.svc.UpdateBook(context.Background(), book.ID, BookUpdate{Active: ptr.Ptr(false)})
	require.NoError(t, err)
	assert.False(t, updated.Active)
}

func TestDeleteRoom_WithoutHistory(t *testing.T) {
	e := newEnv(t)
	site := e.createSite(t)
	room, err := e.svc.CreateRoom(context.Background(), &CreateRoomInput{
		Name: "Sala 1", RoomType: RoomTypeSala, SiteID: site.ID,
	})
	require.NoError(t, err)

	require.NoError(t, e.svc.DeleteRoom(context.Background(), room.ID))

	_, err = e.svc.GetRoom(context.Background(), room.ID)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestUpdateBook_InvalidStock(t *testing.T) {
	e := newEnv(t)
	site := e.createSite(t)
	book, err := e.svc.CreateBook(context.Background(), &CreateBookInput{
		Title: "Trilce", Author: "César Vallejo", SiteID: site.ID, StockTotal: 1,
	})
	require.NoError(t, err)

	_, err = e.svc.UpdateBook(context.Background(), book.ID, BookUpdate{StockTotal: ptr.Ptr(0)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
