package catalog

import "errors"

var (
	// ErrSiteNotFound возвращается, когда сайт (sede) не найден
	ErrSiteNotFound = errors.New("catalog.repository: site not found")

	// ErrBookNotFound возвращается, когда книга не найдена
	ErrBookNotFound = errors.New("catalog.repository: book not found")

	// ErrRoomNotFound возвращается, когда зал/оборудование не найдено
	ErrRoomNotFound = errors.New("catalog.repository: room not found")

	// ErrSiteHasInventory возвращается при попытке физического удаления
	// сайта, на котором ещё числится инвентарь
	ErrSiteHasInventory = errors.New("catalog.repository: site still owns inventory")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("catalog.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("catalog.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("catalog.repository: failed to scan row")
)
