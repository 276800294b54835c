package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assettrack/internal/core/id"
	"assettrack/internal/domain/reconcile"
	"assettrack/internal/domain/transaction"
	"assettrack/internal/infrastructure/http/v1/middleware"
)

type stubFeed struct {
	records []*reconcile.RawRecord
	err     error
}

func (f *stubFeed) Fetch(ctx context.Context) ([]*reconcile.RawRecord, error) {
	return f.records, f.err
}

type stubRepo struct {
	inserted int
}

func (r *stubRepo) Create(ctx context.Context, tx *transaction.Transaction) error { return nil }

func (r *stubRepo) InsertBatch(ctx context.Context, txs []*transaction.Transaction) error {
	r.inserted += len(txs)
	return nil
}

func (r *stubRepo) Update(ctx context.Context, tx *transaction.Transaction) error { return nil }

func (r *stubRepo) GetByID(ctx context.Context, txID id.ID) (*transaction.Transaction, error) {
	return nil, errors.New("not found")
}

func (r *stubRepo) ListByNotifiedRange(ctx context.Context, start, end time.Time) ([]*transaction.Transaction, error) {
	return nil, nil
}

func (r *stubRepo) ListByDate(ctx context.Context, start, end time.Time, includeDeleted bool) ([]*transaction.Transaction, error) {
	return nil, nil
}

func (r *stubRepo) HardDelete(ctx context.Context, txID id.ID) error { return nil }

const testSyncToken = "sync-secret"

func newSyncRouter(feed reconcile.Feed) *gin.Engine {
	gin.SetMode(gin.TestMode)
	syncSvc := reconcile.NewService(feed, &stubRepo{})
	handler := NewSyncHandler(syncSvc)

	router := gin.New()
	router.Use(middleware.ErrorHandler())
	router.POST("/api/sync", middleware.RequireBearer(testSyncToken), handler.Trigger)
	return router
}

func postSync(router *gin.Engine, token, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/sync", reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSyncRejectsMissingToken(t *testing.T) {
	router := newSyncRouter(&stubFeed{})

	w := postSync(router, "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postSync(router, "wrong", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSyncReturnsStats(t *testing.T) {
	now := time.Now()
	feed := &stubFeed{records: []*reconcile.RawRecord{
		{
			TransactionDate: now.Format("2006-01-02"),
			PartsDay:        "morning",
			Room:            "A101",
			TransactionType: "check-out",
			AssetYear:       2024,
			AssetCode:       9,
			StaffCode:       "NV001",
			NotifiedAt:      now,
		},
	}}
	router := newSyncRouter(feed)

	w := postSync(router, testSyncToken, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, float64(1), resp["fetched"])
	assert.Equal(t, float64(1), resp["filteredToday"])
	assert.Equal(t, float64(1), resp["inserted"])
	assert.Contains(t, resp, "durationMs")
	assert.Contains(t, resp, "date")
}

func TestSyncReportsFeedFailure(t *testing.T) {
	router := newSyncRouter(&stubFeed{err: errors.New("connection refused")})

	w := postSync(router, testSyncToken, "")
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp, "error")
}

func TestSyncBindsDateFromChunkedBody(t *testing.T) {
	router := newSyncRouter(&stubFeed{})

	// Chunked transfer carries no Content-Length; the date must still bind.
	req := httptest.NewRequest(http.MethodPost, "/api/sync", strings.NewReader(`{"date":"2026-08-28"}`))
	req.ContentLength = -1
	req.Header.Set("Authorization", "Bearer "+testSyncToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2026-08-28", resp["date"])
}

func TestSyncRejectsBadDate(t *testing.T) {
	router := newSyncRouter(&stubFeed{})

	w := postSync(router, testSyncToken, `{"date":"29-08-2026"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
