package catalog

import "errors"

var (
	// ErrSiteNotFound возвращается, когда сайт не найден
	ErrSiteNotFound = errors.New("service/catalog: site not found")

	// ErrBookNotFound возвращается, когда книга не найдена
	ErrBookNotFound = errors.New("service/catalog: book not found")

	// ErrRoomNotFound возвращается, когда зал не найден
	ErrRoomNotFound = errors.New("service/catalog: room not found")

	// ErrSiteHasInventory возвращается при удалении сайта с инвентарём
	ErrSiteHasInventory = errors.New("service/catalog: site still has inventory")

	// ErrHasReservations возвращается при удалении ресурса с историей
	// резерваций; такой ресурс можно только деактивировать
	ErrHasReservations = errors.New("service/catalog: resource has reservation history")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("service/catalog: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service/catalog: internal error")
)
