package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stockd/internal/config"
	"stockd/internal/http/dto"
	"stockd/internal/http/resp"
	"stockd/internal/metrics"
	"stockd/internal/model"
	"stockd/internal/persist"
	"stockd/internal/queue"
	"stockd/internal/service/stock"
	"stockd/internal/sse"
	"stockd/internal/store/memory"
)

type publisherMock struct {
	mock.Mock
}

func (m *publisherMock) Publish(ctx context.Context, payload []byte, routingKey string) error {
	args := m.Called(ctx, payload, routingKey)
	return args.Error(0)
}

func setupRouter(t *testing.T, publisher queue.Publisher) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		InventoryFile:       filepath.Join(t.TempDir(), "inventory.json"),
		LowStockThreshold:   5,
		RabbitPublishPrefix: "stock",
	}
	logger := zap.NewNop()
	hub := sse.NewHub()
	svc := stock.NewService(
		memory.New(logger),
		persist.NewFileStore(logger),
		hub,
		metrics.NewWith(prometheus.NewRegistry()),
		logger,
	)
	handler := NewHandler(cfg, svc, hub, logger, publisher)

	router := gin.New()
	router.POST("/inventory/add", handler.Add)
	router.POST("/inventory/remove", handler.Remove)
	router.GET("/inventory", handler.Report)
	router.GET("/inventory/items/:item", handler.Quantity)
	router.GET("/inventory/low-stock", handler.LowStock)
	router.GET("/inventory/log", handler.LogEntries)
	router.POST("/inventory/save", handler.SaveFile)
	router.POST("/inventory/load", handler.LoadFile)
	router.POST("/inventory/adjust/publish", handler.PublishAdjustment)
	return router
}

func performJSONRequest(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAddController(t *testing.T) {
	t.Run("invalid json", func(t *testing.T) {
		router := setupRouter(t, &publisherMock{})

		req := httptest.NewRequest(http.MethodPost, "/inventory/add", bytes.NewReader([]byte("{bad json")))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty item", func(t *testing.T) {
		router := setupRouter(t, &publisherMock{})

		rec := performJSONRequest(t, router, http.MethodPost, "/inventory/add", dto.AdjustRequest{Qty: 10})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var respBody dto.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &respBody))
		require.Equal(t, resp.CodeBadRequest, respBody.Code)
	})

	t.Run("negative quantity", func(t *testing.T) {
		router := setupRouter(t, &publisherMock{})

		rec := performJSONRequest(t, router, http.MethodPost, "/inventory/add", dto.AdjustRequest{Item: "banana", Qty: -2})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("success", func(t *testing.T) {
		router := setupRouter(t, &publisherMock{})

		rec := performJSONRequest(t, router, http.MethodPost, "/inventory/add", dto.AdjustRequest{Item: "apple", Qty: 10})
		require.Equal(t, http.StatusOK, rec.Code)

		var item model.Item
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
		require.Equal(t, model.Item{Name: "apple", Quantity: 10}, item)
	})
}

func TestRemoveController(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		router := setupRouter(t, &publisherMock{})

		rec := performJSONRequest(t, router, http.MethodPost, "/inventory/remove", dto.AdjustRequest{Item: "orange", Qty: 1})
		require.Equal(t, http.StatusNotFound, rec.Code)

		var respBody dto.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &respBody))
		require.Equal(t, resp.CodeNotFound, respBody.Code)
	})

	t.Run("success", func(t *testing.T) {
		router := setupRouter(t, &publisherMock{})

		rec := performJSONRequest(t, router, http.MethodPost, "/inventory/add", dto.AdjustRequest{Item: "apple", Qty: 10})
		require.Equal(t, http.StatusOK, rec.Code)

		rec = performJSONRequest(t, router, http.MethodPost, "/inventory/remove", dto.AdjustRequest{Item: "apple", Qty: 3})
		require.Equal(t, http.StatusOK, rec.Code)

		var item model.Item
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
		require.Equal(t, model.Item{Name: "apple", Quantity: 7}, item)
	})
}

func TestQuantityController(t *testing.T) {
	router := setupRouter(t, &publisherMock{})

	rec := performJSONRequest(t, router, http.MethodGet, "/inventory/items/ghost", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got dto.QuantityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, dto.QuantityResponse{Item: "ghost", Quantity: 0}, got)
}

func TestReportController(t *testing.T) {
	router := setupRouter(t, &publisherMock{})

	for _, req := range []dto.AdjustRequest{
		{Item: "pear", Qty: 3},
		{Item: "apple", Qty: 9},
	} {
		rec := performJSONRequest(t, router, http.MethodPost, "/inventory/add", req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := performJSONRequest(t, router, http.MethodGet, "/inventory", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var items []model.Item
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Equal(t, []model.Item{
		{Name: "pear", Quantity: 3},
		{Name: "apple", Quantity: 9},
	}, items)
}

func TestLowStockController(t *testing.T) {
	router := setupRouter(t, &publisherMock{})

	for _, req := range []dto.AdjustRequest{
		{Item: "apple", Qty: 7},
		{Item: "pear", Qty: 2},
	} {
		rec := performJSONRequest(t, router, http.MethodPost, "/inventory/add", req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	t.Run("default threshold", func(t *testing.T) {
		rec := performJSONRequest(t, router, http.MethodGet, "/inventory/low-stock", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var items []model.Item
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
		require.Equal(t, []model.Item{{Name: "pear", Quantity: 2}}, items)
	})

	t.Run("explicit threshold", func(t *testing.T) {
		rec := performJSONRequest(t, router, http.MethodGet, "/inventory/low-stock?threshold=8", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var items []model.Item
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
		require.Equal(t, []model.Item{
			{Name: "apple", Quantity: 7},
			{Name: "pear", Quantity: 2},
		}, items)
	})

	t.Run("bad threshold", func(t *testing.T) {
		rec := performJSONRequest(t, router, http.MethodGet, "/inventory/low-stock?threshold=lots", nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSaveLoadControllers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	router := setupRouter(t, &publisherMock{})

	rec := performJSONRequest(t, router, http.MethodPost, "/inventory/add", dto.AdjustRequest{Item: "apple", Qty: 7})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = performJSONRequest(t, router, http.MethodPost, "/inventory/save", dto.FileRequest{Path: path})
	require.Equal(t, http.StatusOK, rec.Code)

	// wipe the store, then load the snapshot back
	rec = performJSONRequest(t, router, http.MethodPost, "/inventory/remove", dto.AdjustRequest{Item: "apple", Qty: 7})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = performJSONRequest(t, router, http.MethodPost, "/inventory/load", dto.FileRequest{Path: path})
	require.Equal(t, http.StatusOK, rec.Code)

	var loaded dto.LoadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loaded))
	require.Equal(t, 1, loaded.Items)

	rec = performJSONRequest(t, router, http.MethodGet, "/inventory/items/apple", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got dto.QuantityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, int64(7), got.Quantity)
}

func TestLoadControllerMissingFileStartsFresh(t *testing.T) {
	router := setupRouter(t, &publisherMock{})

	rec := performJSONRequest(t, router, http.MethodPost, "/inventory/load", dto.FileRequest{
		Path: filepath.Join(t.TempDir(), "nope.json"),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var loaded dto.LoadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loaded))
	require.Zero(t, loaded.Items)
}

func TestPublishAdjustmentController(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		pub := &publisherMock{}
		pub.On("Publish", mock.Anything, mock.Anything, "stock.add").Return(nil).Once()
		router := setupRouter(t, pub)

		rec := performJSONRequest(t, router, http.MethodPost, "/inventory/adjust/publish", dto.AdjustCommandRequest{
			Op:   "add",
			Item: "apple",
			Qty:  5,
		})
		require.Equal(t, http.StatusAccepted, rec.Code)
		pub.AssertExpectations(t)

		var payload map[string]any
		call := pub.Calls[0]
		body := call.Arguments.Get(1).([]byte)
		require.NoError(t, json.Unmarshal(body, &payload))
		require.Equal(t, "apple", payload["item"])
		require.Equal(t, "add", payload["op"])
	})

	t.Run("invalid op", func(t *testing.T) {
		router := setupRouter(t, &publisherMock{})

		rec := performJSONRequest(t, router, http.MethodPost, "/inventory/adjust/publish", dto.AdjustCommandRequest{
			Op:   "restock",
			Item: "apple",
			Qty:  5,
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("publish error", func(t *testing.T) {
		pub := &publisherMock{}
		pub.On("Publish", mock.Anything, mock.Anything, "stock.remove").Return(errors.New("publish failed")).Once()
		router := setupRouter(t, pub)

		rec := performJSONRequest(t, router, http.MethodPost, "/inventory/adjust/publish", dto.AdjustCommandRequest{
			Op:   "remove",
			Item: "apple",
			Qty:  5,
		})
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		pub.AssertExpectations(t)
	})
}
