package adapter

import (
	"context"
	"testing"
	"time"

	"utbk-prep/internal/domain"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestGetHit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(client)

	mock.ExpectGet("utbkprep:assessment:pool:PU:9").SetVal("cached-pool")

	val, err := cache.Get(context.Background(), "utbkprep:assessment:pool:PU:9")

	assert.NoError(t, err)
	assert.Equal(t, "cached-pool", val)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMissTranslatesToCacheMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(client)

	mock.ExpectGet("missing").RedisNil()

	_, err := cache.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestSet(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(client)

	mock.ExpectSet("key", "value", 5*time.Minute).SetVal("OK")

	err := cache.Set(context.Background(), "key", "value", 5*time.Minute)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(client)

	mock.ExpectDel("key").SetVal(1)

	err := cache.Delete(context.Background(), "key")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
