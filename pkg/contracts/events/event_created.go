package events

// Evento emitido pelo market-service após a criação de um mercado de previsão.
type EventCreated struct {
	RequestID string `json:"request_id"`
	Title     string `json:"title"`
	DueDate   int64  `json:"due_date"`
	TsUnixMs  int64  `json:"ts_unix_ms"`
}
