package topics

const (
	// Bets
	BetPlaced = "bet_placed"

	// Events (mercados de previsão)
	EventCreated = "event_created"

	// DLQs
	BetPlacedDLQ = "bet_placed_dlq"
)
