package users

import "errors"

var (
	// ErrUserNotFound возвращается, когда пользователь не найден
	ErrUserNotFound = errors.New("service/users: user not found")

	// ErrDuplicateDNI возвращается при повторной регистрации DNI
	ErrDuplicateDNI = errors.New("service/users: dni already registered")

	// ErrDuplicateEmail возвращается при повторной регистрации email
	ErrDuplicateEmail = errors.New("service/users: email already registered")

	// ErrDNINotVerified возвращается, когда реестр не подтвердил DNI
	ErrDNINotVerified = errors.New("service/users: dni not found in registry")

	// ErrInvalidCredentials возвращается при неверной паре DNI/пароль
	ErrInvalidCredentials = errors.New("service/users: invalid credentials")

	// ErrInvalidOTP возвращается при неверном коде восстановления
	ErrInvalidOTP = errors.New("service/users: invalid recovery code")

	// ErrOTPExpired возвращается при просроченном коде восстановления
	ErrOTPExpired = errors.New("service/users: recovery code expired")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("service/users: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service/users: internal error")
)
