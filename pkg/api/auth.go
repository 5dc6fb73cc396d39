package api

// SessionRequest представляет запрос на открытие сессии для ресурса (пути ноутбука)
type SessionRequest struct {
	FilePath string `json:"file_path"` // путь ноутбука, к которому подключается клиент
}

// SessionResponse представляет ответ с токеном сессии
type SessionResponse struct {
	SessionToken string `json:"session_token"` // JWT, привязанный к file_path
	FilePath     string `json:"file_path"`
	ExpiresIn    int64  `json:"expires_in"` // время жизни токена в секундах
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}
