package repo

import "time"

// Event é o mercado de previsão persistido no Postgres.
// Predict e Contracts são colunas JSONB opcionais.
type Event struct {
	RequestID   string
	Title       string
	Description string
	DueDate     int64 // epoch (segundos)
	Predict     *Predict
	Contracts   map[string]string // rede -> endereço do contrato
	CreatedAt   time.Time
}

// Predict guarda o palpite estruturado associado ao mercado.
type Predict struct {
	Price  float64 `json:"price"`
	Symbol string  `json:"symbol"`
}

// Bet é a aposta persistida no Postgres. Imutável após criação.
type Bet struct {
	ID             int64
	EventRequestID string
	WalletAddress  string
	Prediction     string // "YES" | "NO"
	Tokens         float64
	CreatedAt      time.Time
}

// TopBetter é uma linha do ranking de carteiras por total apostado.
type TopBetter struct {
	WalletAddress string
	TotalTokens   float64
}

// EventStats agrega as apostas de um mercado numa única passada.
type EventStats struct {
	RequestID   string
	Title       string
	TotalBets   int64
	TotalTokens float64
	YesBets     int64
	NoBets      int64
}
