package dto

type EventResponse struct {
	RequestID   string            `json:"requestId"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	DueDate     int64             `json:"dueDate"`
	Predict     *Predict          `json:"predict,omitempty"`
	Contracts   map[string]string `json:"contracts,omitempty"`
}

type BetResponse struct {
	ID             int64   `json:"id"`
	EventRequestID string  `json:"eventRequestId"`
	WalletAddress  string  `json:"walletAddress"`
	Prediction     string  `json:"prediction"`
	Tokens         float64 `json:"tokens"`
}

type TopBetterResponse struct {
	WalletAddress string  `json:"walletAddress"`
	TotalTokens   float64 `json:"totalTokens"`
}

type EventStatsResponse struct {
	RequestID   string  `json:"requestId"`
	Title       string  `json:"title"`
	TotalBets   int64   `json:"totalBets"`
	TotalTokens float64 `json:"totalTokens"`
	YesBets     int64   `json:"yesBets"`
	NoBets      int64   `json:"noBets"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
