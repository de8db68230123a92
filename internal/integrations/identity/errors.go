package identity

import "errors"

var (
	// ErrDNINotFound возвращается, когда DNI не прошёл проверку в реестре
	ErrDNINotFound = errors.New("identity client: dni not found or invalid")

	// ErrNotConfigured возвращается, когда клиент вызван без токена доступа
	ErrNotConfigured = errors.New("identity client: token not configured")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("identity client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе реестра
	ErrInvalidResponse = errors.New("identity client: invalid response")

	// ErrServiceUnavailable возвращается, когда внешний реестр недоступен
	ErrServiceUnavailable = errors.New("identity client: verification service unavailable")
)
