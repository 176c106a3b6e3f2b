package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/lib/pq"
)

// Postgres implementa a persistência de mercados e apostas em banco Postgres
type Postgres struct{ db *sql.DB }

// NewPostgres retorna uma instância do repositório
func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEvent = errors.New("event already exists")
)

// isUniqueViolation identifica violação de chave única (código 23505 do Postgres)
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// jsonbOrNil serializa um valor opcional para coluna JSONB (NULL quando ausente)
func jsonbOrNil(v any) (any, error) {
	switch t := v.(type) {
	case *Predict:
		if t == nil {
			return nil, nil
		}
	case map[string]string:
		if t == nil {
			return nil, nil
		}
	case nil:
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// CreateEvent insere um novo mercado; request_id duplicado retorna ErrDuplicateEvent
func (p *Postgres) CreateEvent(ctx context.Context, e *Event) error {
	predict, err := jsonbOrNil(e.Predict)
	if err != nil {
		return err
	}
	contracts, err := jsonbOrNil(e.Contracts)
	if err != nil {
		return err
	}

	err = p.db.QueryRowContext(ctx, `
		INSERT INTO events (request_id, title, description, due_date, predict, contracts)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at`,
		e.RequestID, e.Title, e.Description, e.DueDate, predict, contracts,
	).Scan(&e.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEvent
		}
		return err
	}
	return nil
}

// UpdateEventContracts substitui o mapeamento de contratos por inteiro (sem merge)
func (p *Postgres) UpdateEventContracts(ctx context.Context, requestID string, contracts map[string]string) (*Event, error) {
	raw, err := jsonbOrNil(contracts)
	if err != nil {
		return nil, err
	}

	res, err := p.db.ExecContext(ctx,
		`UPDATE events SET contracts=$1 WHERE request_id=$2`, raw, requestID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return p.GetEvent(ctx, requestID)
}

// GetEvent retorna um mercado pelo request_id
func (p *Postgres) GetEvent(ctx context.Context, requestID string) (*Event, error) {
	row := p.db.QueryRowContext(ctx, `
		SELECT request_id, title, description, due_date, predict, contracts, created_at
		FROM events WHERE request_id=$1`, requestID)
	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return e, err
}

// ListEvents retorna mercados paginados (ordem de armazenamento)
func (p *Postgres) ListEvents(ctx context.Context, skip, limit int) ([]Event, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT request_id, title, description, due_date, predict, contracts, created_at
		FROM events OFFSET $1 LIMIT $2`, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

type rowScanner interface{ Scan(dest ...any) error }

func scanEvent(r rowScanner) (*Event, error) {
	var e Event
	var predict, contracts []byte
	if err := r.Scan(&e.RequestID, &e.Title, &e.Description, &e.DueDate, &predict, &contracts, &e.CreatedAt); err != nil {
		return nil, err
	}
	if len(predict) > 0 {
		e.Predict = &Predict{}
		if err := json.Unmarshal(predict, e.Predict); err != nil {
			return nil, err
		}
	}
	if len(contracts) > 0 {
		if err := json.Unmarshal(contracts, &e.Contracts); err != nil {
			return nil, err
		}
	}
	return &e, nil
}

// CreateBet insere uma aposta validando a existência do mercado na mesma transação
// Mercado ausente retorna ErrNotFound (checagem explícita, não violação de FK)
func (p *Postgres) CreateBet(ctx context.Context, b *Bet) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM events WHERE request_id=$1`, b.EventRequestID).Scan(&exists)
	if err == sql.ErrNoRows {
		return ErrNotFound
	} else if err != nil {
		return err
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO bets (event_request_id, wallet_address, prediction, tokens)
		VALUES ($1,$2,$3,$4)
		RETURNING id, created_at`,
		b.EventRequestID, b.WalletAddress, b.Prediction, b.Tokens,
	).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// ListBetsByEvent retorna todas as apostas de um mercado (sem ordenação garantida)
func (p *Postgres) ListBetsByEvent(ctx context.Context, requestID string) ([]Bet, error) {
	var exists int
	err := p.db.QueryRowContext(ctx,
		`SELECT 1 FROM events WHERE request_id=$1`, requestID).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}

	return p.listBets(ctx,
		`SELECT id, event_request_id, wallet_address, prediction, tokens, created_at
		 FROM bets WHERE event_request_id=$1`, requestID)
}

// ListBetsByWallet retorna as apostas de uma carteira; ErrNotFound quando não há nenhuma
func (p *Postgres) ListBetsByWallet(ctx context.Context, walletAddress string) ([]Bet, error) {
	bets, err := p.listBets(ctx,
		`SELECT id, event_request_id, wallet_address, prediction, tokens, created_at
		 FROM bets WHERE wallet_address=$1`, walletAddress)
	if err != nil {
		return nil, err
	}
	if len(bets) == 0 {
		return nil, ErrNotFound
	}
	return bets, nil
}

func (p *Postgres) listBets(ctx context.Context, query string, args ...any) ([]Bet, error) {
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Bet, 0)
	for rows.Next() {
		var b Bet
		if err := rows.Scan(&b.ID, &b.EventRequestID, &b.WalletAddress, &b.Prediction, &b.Tokens, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// TopBetters agrupa apostas por carteira e ordena pelo total apostado (desc)
// Empates ficam em ordem indefinida (sem critério secundário)
func (p *Postgres) TopBetters(ctx context.Context, limit int) ([]TopBetter, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT wallet_address, SUM(tokens) AS total_tokens
		FROM bets
		GROUP BY wallet_address
		ORDER BY total_tokens DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]TopBetter, 0)
	for rows.Next() {
		var t TopBetter
		if err := rows.Scan(&t.WalletAddress, &t.TotalTokens); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// LargestBet retorna a maior aposta individual; ErrNotFound se não houver apostas
func (p *Postgres) LargestBet(ctx context.Context) (*Bet, error) {
	var b Bet
	err := p.db.QueryRowContext(ctx, `
		SELECT id, event_request_id, wallet_address, prediction, tokens, created_at
		FROM bets ORDER BY tokens DESC LIMIT 1`,
	).Scan(&b.ID, &b.EventRequestID, &b.WalletAddress, &b.Prediction, &b.Tokens, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return &b, nil
}

// EventStats computa contagens e soma de tokens numa única passada pelas apostas
func (p *Postgres) EventStats(ctx context.Context, requestID string) (*EventStats, error) {
	s := EventStats{RequestID: requestID}
	err := p.db.QueryRowContext(ctx,
		`SELECT title FROM events WHERE request_id=$1`, requestID).Scan(&s.Title)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}

	err = p.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(tokens), 0),
		       COUNT(*) FILTER (WHERE prediction = 'YES'),
		       COUNT(*) FILTER (WHERE prediction = 'NO')
		FROM bets
		WHERE event_request_id=$1`, requestID,
	).Scan(&s.TotalBets, &s.TotalTokens, &s.YesBets, &s.NoBets)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
