package dto

import (
	"time"

	"assettrack/internal/core/civil"
	"assettrack/internal/domain/transaction"
)

// CreateTransactionRequest for recording a check-in or check-out entry.
type CreateTransactionRequest struct {
	TransactionDate string `json:"transactionDate" binding:"required"`
	PartsDay        string `json:"partsDay"`
	Room            string `json:"room" binding:"required"`
	TransactionType string `json:"transactionType" binding:"required,oneof=check-in check-out"`
	AssetYear       int64  `json:"assetYear"`
	AssetCode       int64  `json:"assetCode"`
	StaffCode       string `json:"staffCode" binding:"required"`
	Note            string `json:"note"`
}

// UpdateNoteRequest for editing the note of an existing entry.
type UpdateNoteRequest struct {
	Note string `json:"note"`
}

// ListTransactionsQuery filters the entry listing.
type ListTransactionsQuery struct {
	Date           string `form:"date"`
	IncludeDeleted bool   `form:"includeDeleted"`
}

// ChangeEventResponse is one change-log entry.
type ChangeEventResponse struct {
	Time     time.Time `json:"time"`
	Field    string    `json:"field"`
	OldValue string    `json:"oldValue"`
	NewValue string    `json:"newValue"`
	EditedBy string    `json:"editedBy"`
}

// TransactionResponse is the collaborator-facing entry shape.
type TransactionResponse struct {
	ID              string                `json:"id"`
	TransactionDate string                `json:"transactionDate"`
	PartsDay        string                `json:"partsDay"`
	Room            string                `json:"room"`
	TransactionType string                `json:"transactionType"`
	AssetYear       int64                 `json:"assetYear"`
	AssetCode       int64                 `json:"assetCode"`
	StaffCode       string                `json:"staffCode"`
	Note            string                `json:"note"`
	NotifiedAt      time.Time             `json:"notifiedAt"`
	IsDeleted       bool                  `json:"isDeleted"`
	DeletedAt       *time.Time            `json:"deletedAt,omitempty"`
	DeletedBy       *string               `json:"deletedBy,omitempty"`
	ChangeLogs      []ChangeEventResponse `json:"changeLogs"`
	CreatedDate     time.Time             `json:"createdDate"`
	UpdatedDate     *time.Time            `json:"updatedDate,omitempty"`
}

// FromTransaction creates TransactionResponse from the domain model.
func FromTransaction(t *transaction.Transaction) TransactionResponse {
	logs := make([]ChangeEventResponse, 0, len(t.ChangeLogs))
	for _, ev := range t.ChangeLogs {
		logs = append(logs, ChangeEventResponse{
			Time:     ev.Time,
			Field:    ev.Field,
			OldValue: ev.OldValue,
			NewValue: ev.NewValue,
			EditedBy: ev.EditedBy,
		})
	}
	return TransactionResponse{
		ID:              t.ID.String(),
		TransactionDate: t.TransactionDate.Format(civil.Layout),
		PartsDay:        t.PartsDay,
		Room:            t.Room,
		TransactionType: t.TransactionType,
		AssetYear:       t.AssetYear,
		AssetCode:       t.AssetCode,
		StaffCode:       t.StaffCode,
		Note:            t.NoteValue(),
		NotifiedAt:      t.NotifiedAt,
		IsDeleted:       t.IsDeleted,
		DeletedAt:       t.DeletedAt,
		DeletedBy:       t.DeletedBy,
		ChangeLogs:      logs,
		CreatedDate:     t.CreatedDate,
		UpdatedDate:     t.UpdatedDate,
	}
}

// FromTransactions maps a list of entries.
func FromTransactions(list []*transaction.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(list))
	for _, t := range list {
		out = append(out, FromTransaction(t))
	}
	return out
}
