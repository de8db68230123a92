package identity

// Person подтверждённые реестром атрибуты гражданина
type Person struct {
	DNI      string
	FullName string
}

// verifyRequest тело запроса проверки DNI
type verifyRequest struct {
	DNI string `json:"dni"`
}

// verifyResponse ответ реестра
type verifyResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Nombres          string `json:"nombres"`
		ApellidoPaterno  string `json:"apellido_paterno"`
		ApellidoMaterno  string `json:"apellido_materno"`
		NumeroDocumento  string `json:"numero"`
	} `json:"data"`
}
