package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/laundry-api/internal/domain/entity"
	"github.com/sangkips/laundry-api/internal/domain/repository"
	"github.com/stretchr/testify/require"
)

// memoryKeys enforces one row per key like the unique index does
type memoryKeys struct {
	mu   sync.Mutex
	rows map[string]*entity.IdempotencyKey
}

func newMemoryKeys() *memoryKeys {
	return &memoryKeys{rows: make(map[string]*entity.IdempotencyKey)}
}

func (m *memoryKeys) GetByKey(_ context.Context, key string) (*entity.IdempotencyKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row, ok := m.rows[key]; ok {
		cp := *row
		return &cp, nil
	}
	return nil, nil
}

func (m *memoryKeys) Create(_ context.Context, ikey *entity.IdempotencyKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[ikey.Key]; ok {
		return repository.ErrDuplicate
	}
	if ikey.ID == uuid.Nil {
		ikey.ID = uuid.New()
	}
	cp := *ikey
	m.rows[ikey.Key] = &cp
	return nil
}

func (m *memoryKeys) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, row := range m.rows {
		if row.ID == id {
			delete(m.rows, key)
		}
	}
	return nil
}

func (m *memoryKeys) DeleteExpired(context.Context) (int64, error) {
	return 0, nil
}

func idempotentRouter(keys *memoryKeys, tenantID uuid.UUID, calls *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("tenant_id", tenantID)
		c.Next()
	})
	r.Use(Idempotency(IdempotencyConfig{Repo: keys, TTL: time.Hour}))
	r.POST("/invoices", func(c *gin.Context) {
		*calls++
		c.JSON(http.StatusCreated, gin.H{"call": *calls})
	})
	return r
}

func post(r *gin.Engine, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/invoices", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(IdempotencyKeyHeader, key)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	keys := newMemoryKeys()
	calls := 0
	r := idempotentRouter(keys, uuid.New(), &calls)

	first := post(r, "till-1", `{"a":1}`)
	require.Equal(t, http.StatusCreated, first.Code)

	again := post(r, "till-1", `{"a":1}`)
	require.Equal(t, http.StatusCreated, again.Code)
	require.Equal(t, "true", again.Header().Get(ReplayedHeader))
	require.JSONEq(t, first.Body.String(), again.Body.String())
	require.Equal(t, 1, calls)

	other := post(r, "till-1", `{"a":2}`)
	require.Equal(t, http.StatusConflict, other.Code)
	require.Equal(t, 1, calls)
}

func TestIdempotencyExpiredKeyIsReusable(t *testing.T) {
	keys := newMemoryKeys()
	tenantID := uuid.New()
	require.NoError(t, keys.Create(context.Background(), &entity.IdempotencyKey{
		TenantID:     tenantID,
		Key:          "till-2",
		Endpoint:     "POST /invoices",
		RequestHash:  "stale",
		ResponseCode: http.StatusCreated,
		ResponseBody: `{"call":0}`,
		ExpiresAt:    time.Now().UTC().Add(-time.Minute),
	}))

	calls := 0
	r := idempotentRouter(keys, tenantID, &calls)

	first := post(r, "till-2", `{"a":1}`)
	require.Equal(t, http.StatusCreated, first.Code)
	require.Empty(t, first.Header().Get(ReplayedHeader))
	require.Equal(t, 1, calls)

	stored, err := keys.GetByKey(context.Background(), "till-2")
	require.NoError(t, err)
	require.False(t, stored.IsExpired())
	require.JSONEq(t, `{"call":1}`, stored.ResponseBody)

	again := post(r, "till-2", `{"a":1}`)
	require.Equal(t, "true", again.Header().Get(ReplayedHeader))
	require.Equal(t, 1, calls)
}
