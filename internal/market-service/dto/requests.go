package dto

// Predict é o palpite estruturado opcional de um mercado.
type Predict struct {
	Price  float64 `json:"price"`
	Symbol string  `json:"symbol"`
}

type CreateEventRequest struct {
	RequestID   string            `json:"requestId"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	DueDate     int64             `json:"dueDate"` // epoch (segundos)
	Predict     *Predict          `json:"predict,omitempty"`
	Contracts   map[string]string `json:"contracts,omitempty"` // rede -> endereço
}

// ContractsUpdate substitui o mapeamento de contratos do mercado por inteiro.
type ContractsUpdate struct {
	Contracts map[string]string `json:"contracts"`
}

type CreateBetRequest struct {
	EventRequestID string  `json:"eventRequestId"`
	WalletAddress  string  `json:"walletAddress"`
	Prediction     string  `json:"prediction"` // "YES" | "NO"
	Tokens         float64 `json:"tokens"`     // > 0
}
