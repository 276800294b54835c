package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"assettrack/internal/core/apperror"
	"assettrack/internal/core/civil"
	"assettrack/internal/core/id"
	"assettrack/internal/domain/transaction"
	"assettrack/internal/infrastructure/http/v1/dto"
)

// TransactionHandler serves the check-in/check-out entry endpoints.
type TransactionHandler struct {
	*BaseHandler
	txs *transaction.Service
}

// NewTransactionHandler creates a transaction handler.
func NewTransactionHandler(txs *transaction.Service) *TransactionHandler {
	return &TransactionHandler{BaseHandler: NewBaseHandler(), txs: txs}
}

// Create handles POST /api/transactions.
func (h *TransactionHandler) Create(c *gin.Context) {
	var req dto.CreateTransactionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	date, err := time.ParseInLocation(civil.Layout, req.TransactionDate, civil.Zone)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid transactionDate, expected YYYY-MM-DD").
			WithDetail("value", req.TransactionDate))
		return
	}

	in := transaction.CreateInput{
		TransactionDate: date,
		PartsDay:        req.PartsDay,
		Room:            req.Room,
		TransactionType: req.TransactionType,
		AssetYear:       req.AssetYear,
		AssetCode:       req.AssetCode,
		StaffCode:       req.StaffCode,
	}
	if req.Note != "" {
		in.Note = &req.Note
	}

	created, err := h.txs.Create(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, created.ID.String())
}

// Get handles GET /api/transactions/:id.
func (h *TransactionHandler) Get(c *gin.Context) {
	txID, ok := h.parseID(c)
	if !ok {
		return
	}

	tx, err := h.txs.Get(c.Request.Context(), txID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromTransaction(tx))
}

// List handles GET /api/transactions?date=YYYY-MM-DD.
func (h *TransactionHandler) List(c *gin.Context) {
	var q dto.ListTransactionsQuery
	if !h.BindQuery(c, &q) {
		return
	}

	list, err := h.txs.ListByDate(c.Request.Context(), q.Date, q.IncludeDeleted)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromTransactions(list))
}

// UpdateNote handles PATCH /api/transactions/:id/note.
func (h *TransactionHandler) UpdateNote(c *gin.Context) {
	txID, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateNoteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	updated, err := h.txs.EditNote(c.Request.Context(), txID, req.Note)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromTransaction(updated))
}

// Delete handles DELETE /api/transactions/:id (soft delete).
func (h *TransactionHandler) Delete(c *gin.Context) {
	txID, ok := h.parseID(c)
	if !ok {
		return
	}

	if _, err := h.txs.SoftDelete(c.Request.Context(), txID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// HardDelete handles DELETE /api/transactions/:id/hard, admin only.
func (h *TransactionHandler) HardDelete(c *gin.Context) {
	txID, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.txs.HardDelete(c.Request.Context(), txID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

func (h *TransactionHandler) parseID(c *gin.Context) (id.ID, bool) {
	txID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id").WithDetail("value", c.Param("id")))
		return id.ID{}, false
	}
	return txID, true
}
