package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/radieske/prediction-market-poc/internal/market-service/cache"
)

func TestStatsKeyMatchesMarketService(t *testing.T) {
	// a chave invalidada aqui tem que bater com a chave cacheada pela API
	assert.Equal(t, cache.KeyEventStats("evt1"), StatsKey("evt1"))
}
