package repo

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pq.Error{Code: "23505"}))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"})) // FK violation não é conflito
	assert.False(t, isUniqueViolation(errors.New("boom")))
	assert.False(t, isUniqueViolation(nil))
}

func TestJSONBOrNil(t *testing.T) {
	// ponteiro nil e map nil viram NULL
	v, err := jsonbOrNil((*Predict)(nil))
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = jsonbOrNil(map[string]string(nil))
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = jsonbOrNil(&Predict{Price: 1.5, Symbol: "BTC"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":1.5,"symbol":"BTC"}`, string(v.([]byte)))

	v, err = jsonbOrNil(map[string]string{"mainnet": "0xaaa"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"mainnet":"0xaaa"}`, string(v.([]byte)))
}

// fakeRow simula o Scan de uma linha de events
type fakeRow struct{ vals []any }

func (f fakeRow) Scan(dest ...any) error {
	for i := range dest {
		if f.vals[i] == nil {
			continue
		}
		switch d := dest[i].(type) {
		case *string:
			*d = f.vals[i].(string)
		case *int64:
			*d = f.vals[i].(int64)
		case *[]byte:
			*d = f.vals[i].([]byte)
		case *time.Time:
			*d = f.vals[i].(time.Time)
		default:
			return fmt.Errorf("unexpected dest %T", dest[i])
		}
	}
	return nil
}

func TestScanEvent(t *testing.T) {
	now := time.Now()

	e, err := scanEvent(fakeRow{vals: []any{
		"evt1", "Will it rain?", "amanhã", int64(1700000000),
		[]byte(`{"price":42.5,"symbol":"BTC"}`),
		[]byte(`{"mainnet":"0xaaa"}`),
		now,
	}})
	require.NoError(t, err)
	assert.Equal(t, "evt1", e.RequestID)
	assert.Equal(t, int64(1700000000), e.DueDate)
	require.NotNil(t, e.Predict)
	assert.Equal(t, 42.5, e.Predict.Price)
	assert.Equal(t, map[string]string{"mainnet": "0xaaa"}, e.Contracts)

	// colunas JSONB nulas ficam como nil
	e, err = scanEvent(fakeRow{vals: []any{
		"evt2", "t", "", int64(1), nil, nil, now,
	}})
	require.NoError(t, err)
	assert.Nil(t, e.Predict)
	assert.Nil(t, e.Contracts)
}
