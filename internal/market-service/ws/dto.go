package ws

// ClientMsg representa uma mensagem recebida do cliente WebSocket
// Type: subscribe | unsubscribe | ping
// EventID: obrigatório para subscribe/unsubscribe (request_id do mercado)
type ClientMsg struct {
	Type    string `json:"type"`    // subscribe | unsubscribe | ping
	EventID string `json:"eventId"` // requerido em subscribe/unsubscribe
}

// BetUpdate representa uma aposta recém registrada enviada aos clientes WebSocket
type BetUpdate struct {
	EventID string      `json:"eventId"`
	Payload interface{} `json:"payload"`
}
