package events

type BetPlaced struct {
	BetID          int64   `json:"bet_id"`
	EventRequestID string  `json:"event_request_id"`
	WalletAddress  string  `json:"wallet_address"`
	Prediction     string  `json:"prediction"` // "YES" | "NO"
	Tokens         float64 `json:"tokens"`
	TsUnixMs       int64   `json:"ts_unix_ms"`
}
