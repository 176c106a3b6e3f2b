package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/radieske/prediction-market-poc/internal/market-service/cache"
	"github.com/radieske/prediction-market-poc/internal/market-service/dto"
	"github.com/radieske/prediction-market-poc/internal/market-service/repo"
	"github.com/radieske/prediction-market-poc/internal/market-service/ws"
	ev "github.com/radieske/prediction-market-poc/pkg/contracts/events"
)

const (
	defaultListLimit       = 100
	defaultTopBettersLimit = 10
)

// Repo define as operações de persistência usadas pelos handlers HTTP
type Repo interface {
	CreateEvent(ctx context.Context, e *repo.Event) error
	UpdateEventContracts(ctx context.Context, requestID string, contracts map[string]string) (*repo.Event, error)
	GetEvent(ctx context.Context, requestID string) (*repo.Event, error)
	ListEvents(ctx context.Context, skip, limit int) ([]repo.Event, error)
	CreateBet(ctx context.Context, b *repo.Bet) error
	ListBetsByEvent(ctx context.Context, requestID string) ([]repo.Bet, error)
	ListBetsByWallet(ctx context.Context, walletAddress string) ([]repo.Bet, error)
	TopBetters(ctx context.Context, limit int) ([]repo.TopBetter, error)
	LargestBet(ctx context.Context) (*repo.Bet, error)
	EventStats(ctx context.Context, requestID string) (*repo.EventStats, error)
}

// Cache define o cache de leitura dos endpoints de agregados
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any) error
}

// Server expõe a API REST de mercados de previsão e apostas
type Server struct {
	log   *zap.Logger
	repo  Repo
	cache Cache
	hub   *ws.Hub
	publ  interface {
		PublishBetPlaced(context.Context, ev.BetPlaced) error
		PublishEventCreated(context.Context, ev.EventCreated) error
	}
}

func NewServer(log *zap.Logger, r Repo, c Cache, hub *ws.Hub, p interface {
	PublishBetPlaced(context.Context, ev.BetPlaced) error
	PublishEventCreated(context.Context, ev.EventCreated) error
}) *Server {
	return &Server{log: log, repo: r, cache: c, hub: hub, publ: p}
}

// Router retorna o roteador HTTP com os endpoints REST e o feed WebSocket
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(withRequestID)
	r.Use(withCORS)
	r.Use(withMetrics)

	r.Post("/v1/events", s.createEvent)                      // Cria um mercado
	r.Get("/v1/events", s.listEvents)                        // Lista mercados (skip/limit)
	r.Get("/v1/events/{requestId}", s.getEvent)              // Busca mercado por request_id
	r.Put("/v1/events/{requestId}", s.updateEventContracts)  // Substitui contratos do mercado
	r.Get("/v1/events/{requestId}/stats", s.eventStats)      // Agregados do mercado
	r.Get("/v1/events/{requestId}/bets", s.listBetsForEvent) // Apostas de um mercado
	r.Post("/v1/bets", s.createBet)                          // Registra aposta
	r.Get("/v1/bets/{walletAddress}", s.listBetsByWallet)    // Apostas de uma carteira
	r.Get("/v1/top-betters", s.topBetters)                   // Ranking por total apostado
	r.Get("/v1/largest-bet", s.largestBet)                   // Maior aposta individual
	r.Get("/v1/ws", s.hub.HandleWS)                          // Feed de apostas ao vivo

	return r
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, dto.ErrorResponse{Error: msg})
}

// createEvent cria um mercado; request_id duplicado retorna 400
func (s *Server) createEvent(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.RequestID == "" || req.Title == "" || req.DueDate <= 0 {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	e := &repo.Event{
		RequestID:   req.RequestID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Contracts:   req.Contracts,
	}
	if req.Predict != nil {
		e.Predict = &repo.Predict{Price: req.Predict.Price, Symbol: req.Predict.Symbol}
	}

	if err := s.repo.CreateEvent(r.Context(), e); err != nil {
		if errors.Is(err, repo.ErrDuplicateEvent) {
			writeError(w, http.StatusBadRequest, "an event with this request id already exists")
			return
		}
		s.log.Error("create event", zap.String("requestId", req.RequestID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Publica event_created best-effort; falha não derruba a criação
	_ = s.publ.PublishEventCreated(r.Context(), ev.EventCreated{
		RequestID: e.RequestID,
		Title:     e.Title,
		DueDate:   e.DueDate,
	})

	writeJSON(w, http.StatusCreated, toEventResponse(e))
}

// updateEventContracts substitui o mapeamento de contratos por inteiro
func (s *Server) updateEventContracts(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "requestId")

	var req dto.ContractsUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}

	e, err := s.repo.UpdateEventContracts(r.Context(), requestID, req.Contracts)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toEventResponse(e))
}

// listEvents retorna mercados paginados via skip/limit
func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	skip := queryInt(r, "skip", 0)
	limit := queryInt(r, "limit", defaultListLimit)

	events, err := s.repo.ListEvents(r.Context(), skip, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		out = append(out, toEventResponse(&events[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getEvent(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "requestId")

	e, err := s.repo.GetEvent(r.Context(), requestID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toEventResponse(e))
}

// eventStats retorna os agregados de um mercado, preferencialmente do cache
func (s *Server) eventStats(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "requestId")
	key := cache.KeyEventStats(requestID)

	var cached dto.EventStatsResponse
	if ok, _ := s.cache.Get(r.Context(), key, &cached); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	st, err := s.repo.EventStats(r.Context(), requestID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := dto.EventStatsResponse{
		RequestID:   st.RequestID,
		Title:       st.Title,
		TotalBets:   st.TotalBets,
		TotalTokens: st.TotalTokens,
		YesBets:     st.YesBets,
		NoBets:      st.NoBets,
	}
	_ = s.cache.Set(r.Context(), key, resp)
	writeJSON(w, http.StatusOK, resp)
}

// createBet valida o payload antes de persistir; mercado ausente retorna 404
func (s *Server) createBet(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.EventRequestID == "" || req.WalletAddress == "" {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Tokens <= 0 {
		writeError(w, http.StatusBadRequest, "tokens must be greater than zero")
		return
	}
	if req.Prediction != "YES" && req.Prediction != "NO" {
		writeError(w, http.StatusBadRequest, "prediction must be YES or NO")
		return
	}

	b := &repo.Bet{
		EventRequestID: req.EventRequestID,
		WalletAddress:  req.WalletAddress,
		Prediction:     req.Prediction,
		Tokens:         req.Tokens,
	}
	if err := s.repo.CreateBet(r.Context(), b); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		s.log.Error("create bet", zap.String("eventRequestId", req.EventRequestID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Publica bet_placed best-effort; o bet-feed-worker cuida de ranking e broadcast
	_ = s.publ.PublishBetPlaced(r.Context(), ev.BetPlaced{
		BetID:          b.ID,
		EventRequestID: b.EventRequestID,
		WalletAddress:  b.WalletAddress,
		Prediction:     b.Prediction,
		Tokens:         b.Tokens,
	})

	writeJSON(w, http.StatusCreated, toBetResponse(b))
}

func (s *Server) listBetsForEvent(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "requestId")

	bets, err := s.repo.ListBetsByEvent(r.Context(), requestID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toBetResponses(bets))
}

func (s *Server) listBetsByWallet(w http.ResponseWriter, r *http.Request) {
	walletAddress := chi.URLParam(r, "walletAddress")

	bets, err := s.repo.ListBetsByWallet(r.Context(), walletAddress)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no bets found for this wallet")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toBetResponses(bets))
}

// topBetters retorna o ranking por total apostado, preferencialmente do cache
func (s *Server) topBetters(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultTopBettersLimit)
	key := cache.KeyTopBetters(limit)

	var cached []dto.TopBetterResponse
	if ok, _ := s.cache.Get(r.Context(), key, &cached); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	top, err := s.repo.TopBetters(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]dto.TopBetterResponse, 0, len(top))
	for _, t := range top {
		out = append(out, dto.TopBetterResponse{WalletAddress: t.WalletAddress, TotalTokens: t.TotalTokens})
	}
	_ = s.cache.Set(r.Context(), key, out)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) largestBet(w http.ResponseWriter, r *http.Request) {
	b, err := s.repo.LargestBet(r.Context())
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no bets found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toBetResponse(b))
}

// queryInt lê um parâmetro inteiro da query string, caindo no default
// quando ausente ou inválido (valores negativos incluídos)
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func toEventResponse(e *repo.Event) dto.EventResponse {
	resp := dto.EventResponse{
		RequestID:   e.RequestID,
		Title:       e.Title,
		Description: e.Description,
		DueDate:     e.DueDate,
		Contracts:   e.Contracts,
	}
	if e.Predict != nil {
		resp.Predict = &dto.Predict{Price: e.Predict.Price, Symbol: e.Predict.Symbol}
	}
	return resp
}

func toBetResponse(b *repo.Bet) dto.BetResponse {
	return dto.BetResponse{
		ID:             b.ID,
		EventRequestID: b.EventRequestID,
		WalletAddress:  b.WalletAddress,
		Prediction:     b.Prediction,
		Tokens:         b.Tokens,
	}
}

func toBetResponses(bets []repo.Bet) []dto.BetResponse {
	out := make([]dto.BetResponse, 0, len(bets))
	for i := range bets {
		out = append(out, toBetResponse(&bets[i]))
	}
	return out
}
