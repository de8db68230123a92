package mailer

import "errors"

var (
	// ErrNotConfigured возвращается, когда клиент вызван без API-ключа
	ErrNotConfigured = errors.New("mailer client: api key not configured")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("mailer client: internal error")

	// ErrDeliveryFailed возвращается, когда провайдер отклонил отправку.
	// Ошибки доставки логируются и никогда не откатывают зафиксированную
	// резервацию или checkpoint.
	ErrDeliveryFailed = errors.New("mailer client: delivery failed")
)
