package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stockd/internal/config"
	"stockd/internal/domain"
	"stockd/internal/http/dto"
	"stockd/internal/http/resp"
	"stockd/internal/model"
	"stockd/internal/queue"
	"stockd/internal/service/stock"
	"stockd/internal/sse"
)

type Handler struct {
	cfg *config.Config
	svc *stock.Service
	hub *sse.Hub
	log *zap.Logger
	pub queue.Publisher
}

func NewHandler(cfg *config.Config, svc *stock.Service, hub *sse.Hub, logger *zap.Logger, publisher queue.Publisher) *Handler {
	return &Handler{cfg: cfg, svc: svc, hub: hub, log: logger, pub: publisher}
}

func (h *Handler) Add(c *gin.Context) {
	var req dto.AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "invalid json"})
		return
	}

	item, err := h.svc.Add(c.Request.Context(), req.Item, req.Qty)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyItem):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "item is required"})
		case errors.Is(err, domain.ErrNegativeQuantity):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "cannot add negative quantity"})
		case errors.Is(err, domain.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "stored quantity is not numeric"})
		default:
			h.log.Error("add failed", zap.String("item", req.Item), zap.Error(err))
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to add item"})
		}
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) Remove(c *gin.Context) {
	var req dto.AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "invalid json"})
		return
	}

	item, err := h.svc.Remove(c.Request.Context(), req.Item, req.Qty)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrItemNotFound):
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Code: resp.CodeNotFound, Message: "item not found in inventory"})
		case errors.Is(err, domain.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "stored quantity is not numeric"})
		default:
			h.log.Error("remove failed", zap.String("item", req.Item), zap.Error(err))
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to remove item"})
		}
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) Quantity(c *gin.Context) {
	item := c.Param("item")
	qty, err := h.svc.Quantity(c.Request.Context(), item)
	if err != nil {
		h.log.Error("quantity lookup failed", zap.String("item", item), zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to read quantity"})
		return
	}
	c.JSON(http.StatusOK, dto.QuantityResponse{Item: item, Quantity: qty})
}

func (h *Handler) Report(c *gin.Context) {
	items, err := h.svc.Report(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to list inventory"})
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) LowStock(c *gin.Context) {
	threshold := h.cfg.LowStockThreshold
	if v := c.Query("threshold"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "threshold must be an integer"})
			return
		}
		threshold = n
	}

	items, err := h.svc.LowStock(c.Request.Context(), threshold)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to list low stock"})
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) LogEntries(c *gin.Context) {
	entries, err := h.svc.Log(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to list log"})
		return
	}
	if entries == nil {
		entries = []model.LogEntry{}
	}
	c.JSON(http.StatusOK, entries)
}

func (h *Handler) SaveFile(c *gin.Context) {
	path, ok := h.filePath(c)
	if !ok {
		return
	}
	if err := h.svc.Save(c.Request.Context(), path); err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to save inventory"})
		return
	}
	c.JSON(http.StatusOK, dto.StatusResponse{Code: resp.CodeOK, Message: "saved"})
}

func (h *Handler) LoadFile(c *gin.Context) {
	path, ok := h.filePath(c)
	if !ok {
		return
	}
	count, err := h.svc.Load(c.Request.Context(), path)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to load inventory"})
		return
	}
	c.JSON(http.StatusOK, dto.LoadResponse{Code: resp.CodeOK, Items: count})
}

// filePath reads the optional {path} body; an empty body selects the
// configured default file.
func (h *Handler) filePath(c *gin.Context) (string, bool) {
	var req dto.FileRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "invalid json"})
		return "", false
	}
	if req.Path == "" {
		return h.cfg.InventoryFile, true
	}
	return req.Path, true
}

func (h *Handler) PublishAdjustment(c *gin.Context) {
	var req dto.AdjustCommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "invalid json"})
		return
	}
	if !domain.IsValidAction(req.Op) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "op must be one of: add, remove"})
		return
	}
	if req.Item == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "item is required"})
		return
	}

	payload, err := json.Marshal(map[string]any{
		"op":   req.Op,
		"item": req.Item,
		"qty":  req.Qty,
	})
	if err != nil {
		h.log.Error("adjustment payload marshal failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to publish adjustment"})
		return
	}

	prefix := h.cfg.RabbitPublishPrefix
	if prefix == "" {
		prefix = "stock"
	}
	routingKey := prefix + "." + req.Op
	if err := h.pub.Publish(c.Request.Context(), payload, routingKey); err != nil {
		h.log.Error("publish adjustment failed",
			zap.String("op", req.Op),
			zap.String("item", req.Item),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to publish adjustment"})
		return
	}

	c.JSON(http.StatusAccepted, dto.StatusResponse{Code: resp.CodeQueued, Message: "queued"})
}

func (h *Handler) Events(c *gin.Context) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		h.log.Error("streaming unsupported")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "streaming unsupported"})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	flusher.Flush()

	client := &sse.Client{
		Item: c.Query("item"),
		Ch:   make(chan model.StockEvent, 16),
	}
	h.hub.Register(client)
	defer h.hub.Unregister(client)

	heartbeat := time.NewTicker(h.cfg.SSEHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(c.Writer, ": ping\n\n"); err != nil {
				h.log.Error("heartbeat write failed", zap.Error(err))
				return
			}
			flusher.Flush()
		case event, ok := <-client.Ch:
			if !ok {
				return
			}
			if err := writeStockEvent(c.Writer, event); err != nil {
				h.log.Error("write stock event failed", zap.Error(err))
				return
			}
			flusher.Flush()
		}
	}
}

func writeStockEvent(w http.ResponseWriter, event model.StockEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "id: %d\nevent: stock\ndata: %s\n\n", event.Seq, payload)
	return err
}
