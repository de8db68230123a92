package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/BNP-ReservationService/internal/domain"
	catalogstore "github.com/m04kA/BNP-ReservationService/internal/infra/storage/catalog"
	reservationstore "github.com/m04kA/BNP-ReservationService/internal/infra/storage/reservation"
	userstore "github.com/m04kA/BNP-ReservationService/internal/infra/storage/user"
	"github.com/m04kA/BNP-ReservationService/internal/integrations/mailer"
	"github.com/m04kA/BNP-ReservationService/pkg/civiltime"
)

const (
	// Количество попыток перегенерации человекочитаемого кода при
	// коллизии уникального индекса
	maxCodeAttempts = 3

	mailTimeout = 10 * time.Second
)

// UseCase создание резервации: контроль допуска + запись PENDING
type UseCase struct {
	reservations ReservationRepository
	users        UserRepository
	catalog      CatalogRepository
	txManager    TransactionManager
	mailer       Mailer
	policy       domain.Policy
	timeProvider TimeProvider
	metrics      Metrics
	log          Logger
}

// NewUseCase создает экземпляр usecase создания резервации.
// mailer и metrics опциональны (nil отключает уведомления/метрики).
func NewUseCase(
	reservations ReservationRepository,
	users UserRepository,
	catalog CatalogRepository,
	txManager TransactionManager,
	mail Mailer,
	policy domain.Policy,
	timeProvider TimeProvider,
	metrics Metrics,
	log Logger,
) *UseCase {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	return &UseCase{
		reservations: reservations,
		users:        users,
		catalog:      catalog,
		txManager:    txManager,
		mailer:       mail,
		policy:       policy,
		timeProvider: timeProvider,
		metrics:      metrics,
		log:          log,
	}
}

// Execute проводит запрос через контроль допуска и создает резервацию
// в состоянии PENDING. Все проверки занятости и лимитов выполняются
// в одной сериализуемой транзакции с записью.
func (u *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	normalizeRequest(req)

	// Один момент времени на всю операцию
	now := u.timeProvider.Now()

	user, err := u.users.GetByDNI(ctx, req.UserDNI)
	if err != nil {
		if errors.Is(err, userstore.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: dni %s", ErrUserNotFound, req.UserDNI)
		}
		u.log.Error("CreateReservation: failed to load user dni=%s: %v", req.UserDNI, err)
		return nil, fmt.Errorf("%w: failed to load user: %v", ErrInternal, err)
	}

	// Санкции проверяются раньше любых проверок ресурса
	if user.IsBanned(now) {
		return nil, &BannedError{Until: *user.BannedUntil, Remaining: user.BanRemaining(now)}
	}

	itemName, err := u.checkResource(ctx, req)
	if err != nil {
		return nil, err
	}

	rsv := &domain.Reservation{
		Token:   newToken(),
		UserDNI: req.UserDNI,
		Resource: domain.ResourceRef{
			Kind: req.Kind,
			ID:   req.ResourceID,
		},
		ReferenceDate: req.ReferenceDate,
		StartsAt:      req.StartsAt,
		EndsAt:        req.EndsAt,
		Reason:        req.Reason,
		PartySize:     req.PartySize,
		State:         domain.StatePending,
		CreatedAt:     now,
	}

	var created *domain.Reservation
	txErr := u.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		if req.Kind == domain.KindRoom {
			if err := u.admitRoom(ctx, req); err != nil {
				return err
			}
		} else {
			if err := u.admitBook(ctx, req); err != nil {
				return err
			}
		}

		created, err = u.createWithCode(ctx, rsv)
		return err
	})
	if txErr != nil {
		return nil, u.mapTxError(txErr, req)
	}

	u.log.Info("CreateReservation: created id=%d code=%s kind=%s user=%s",
		created.ID, created.Code, created.Resource.Kind, created.UserDNI)
	if u.metrics != nil {
		u.metrics.IncReservationCreated(string(created.Resource.Kind))
	}

	u.sendConfirmation(user, itemName, created)

	return buildResponse(created), nil
}

// checkResource проверяет существование и доступность ресурса,
// возвращает его отображаемое имя для письма подтверждения
func (u *UseCase) checkResource(ctx context.Context, req *Request) (string, error) {
	if req.Kind == domain.KindRoom {
		room, err := u.catalog.GetRoom(ctx, req.ResourceID)
		if err != nil {
			if errors.Is(err, catalogstore.ErrRoomNotFound) {
				return "", fmt.Errorf("%w: id %d", ErrRoomNotFound, req.ResourceID)
			}
			u.log.Error("CreateReservation: failed to load room id=%d: %v", req.ResourceID, err)
			return "", fmt.Errorf("%w: failed to load room: %v", ErrInternal, err)
		}
		if !room.Active {
			return "", fmt.Errorf("%w: id %d", ErrRoomInactive, req.ResourceID)
		}
		return room.Name, nil
	}

	book, err := u.catalog.GetBook(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, catalogstore.ErrBookNotFound) {
			return "", fmt.Errorf("%w: id %d", ErrBookNotFound, req.ResourceID)
		}
		u.log.Error("CreateReservation: failed to load book id=%d: %v", req.ResourceID, err)
		return "", fmt.Errorf("%w: failed to load book: %v", ErrInternal, err)
	}
	// Деактивированный титул для новых займов неотличим от отсутствующего
	if !book.Active {
		return "", fmt.Errorf("%w: id %d", ErrBookNotFound, req.ResourceID)
	}

	// Лимит срока займа — чистая проверка входа, но держим её после
	// проверки существования титула, чтобы порядок ошибок был стабильным
	loanDays := civiltime.DaysBetween(req.StartsAt, req.EndsAt) + 1
	if loanDays > u.policy.MaxLoanDays {
		return "", fmt.Errorf("%w: requested %d days, limit %d", ErrLoanTooLong, loanDays, u.policy.MaxLoanDays)
	}

	return book.Title, nil
}

// admitRoom проверки допуска для слотового ресурса (внутри транзакции)
func (u *UseCase) admitRoom(ctx context.Context, req *Request) error {
	occupied, err := u.reservations.OccupiedRoomSlots(ctx, req.ResourceID, req.ReferenceDate)
	if err != nil {
		return fmt.Errorf("%w: failed to load occupied slots: %v", ErrInternal, err)
	}
	if slotTaken(occupied, req.StartsAt) {
		return fmt.Errorf("%w: room %d at %s", ErrSlotTaken, req.ResourceID, req.StartsAt.Format(domain.DateTimeFormat))
	}

	count, err := u.reservations.CountUserRoomsOnDate(ctx, req.UserDNI, req.ReferenceDate)
	if err != nil {
		return fmt.Errorf("%w: failed to count user rooms: %v", ErrInternal, err)
	}
	if count >= u.policy.MaxRoomsPerDay {
		return fmt.Errorf("%w: %d of %d on %s", ErrDailyRoomLimit, count, u.policy.MaxRoomsPerDay, req.ReferenceDate.Format(domain.DateFormat))
	}

	return nil
}

// admitBook проверки допуска для стокового ресурса (внутри транзакции)
func (u *UseCase) admitBook(ctx context.Context, req *Request) error {
	book, err := u.catalog.GetBook(ctx, req.ResourceID)
	if err != nil {
		return fmt.Errorf("%w: failed to reload book: %v", ErrInternal, err)
	}

	existing, err := u.reservations.GetBookWindow(ctx, req.ResourceID, civiltime.Date(req.StartsAt), civiltime.Date(req.EndsAt))
	if err != nil {
		return fmt.Errorf("%w: failed to load overlapping loans: %v", ErrInternal, err)
	}
	if day, full := firstFullDay(req.StartsAt, req.EndsAt, existing, book.StockTotal); full {
		return &NoStockError{Date: day}
	}

	loans, err := u.reservations.CountUserActiveLoans(ctx, req.UserDNI)
	if err != nil {
		return fmt.Errorf("%w: failed to count active loans: %v", ErrInternal, err)
	}
	if loans >= u.policy.MaxActiveLoans {
		return fmt.Errorf("%w: %d of %d", ErrLoanLimit, loans, u.policy.MaxActiveLoans)
	}

	return nil
}

// createWithCode пишет резервацию, перегенерируя короткий код при
// коллизии. Токен уникален по построению и не перегенерируется.
func (u *UseCase) createWithCode(ctx context.Context, rsv *domain.Reservation) (*domain.Reservation, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		rsv.Code = newHumanCode(rsv.Resource.Kind)

		created, err := u.reservations.Create(ctx, rsv)
		if err == nil {
			return created, nil
		}
		if errors.Is(err, reservationstore.ErrCodeCollision) {
			u.log.Warn("CreateReservation: code collision code=%s, retrying", rsv.Code)
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("%w: failed to generate unique code after %d attempts", ErrInternal, maxCodeAttempts)
}

// mapTxError переводит ошибки транзакции в ошибки usecase. Ошибки
// допуска проходят насквозь; нарушение частичного уникального индекса
// на коммите — это проигранная гонка за слот.
func (u *UseCase) mapTxError(err error, req *Request) error {
	switch {
	case errors.Is(err, ErrSlotTaken),
		errors.Is(err, ErrDailyRoomLimit),
		errors.Is(err, ErrNoStock),
		errors.Is(err, ErrLoanLimit),
		errors.Is(err, ErrLoanTooLong):
		return err
	case errors.Is(err, reservationstore.ErrSlotTaken):
		return fmt.Errorf("%w: room %d at %s", ErrSlotTaken, req.ResourceID, req.StartsAt.Format(domain.DateTimeFormat))
	case errors.Is(err, ErrInternal):
		return err
	default:
		u.log.Error("CreateReservation: transaction failed: %v", err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}

// sendConfirmation отправляет письмо подтверждения fire-and-forget:
// сбой доставки логируется и никогда не откатывает резервацию
func (u *UseCase) sendConfirmation(user *domain.User, itemName string, rsv *domain.Reservation) {
	if u.mailer == nil || user.Email == "" {
		return
	}

	serviceName := "Reserva de Sala"
	dateLine := fmt.Sprintf("%s %s", rsv.ReferenceDate.Format(domain.DateFormat), rsv.StartsAt.Format(domain.TimeFormat))
	if rsv.Resource.Kind == domain.KindBook {
		serviceName = "Préstamo de Libro"
		dateLine = fmt.Sprintf("Del %s al %s", rsv.StartsAt.Format(domain.DateFormat), rsv.EndsAt.Format(domain.DateFormat))
	}

	subject, html := mailer.BookingConfirmation(user.Name, serviceName, itemName, dateLine, rsv.Code)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
		defer cancel()

		if err := u.mailer.Send(ctx, user.Email, subject, html); err != nil {
			u.log.Warn("CreateReservation: confirmation email failed code=%s: %v", rsv.Code, err)
		}
	}()
}
