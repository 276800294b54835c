package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/klauspost/compress/zstd"

	"assettrack/internal/core/id"
	"assettrack/internal/domain/transaction"
)

// CompressionAlgo specifies the compression algorithm used.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// ChangeArchive persists transaction change logs to a separate audit table
// so edit history survives hard deletes. Larger payloads are stored
// zstd-compressed.
type ChangeArchive struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	compressThreshold int
}

// NewChangeArchive creates a change archive.
func NewChangeArchive(txManager *TxManager) (*ChangeArchive, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	return &ChangeArchive{
		txManager:         txManager,
		encoder:           encoder,
		compressThreshold: 10 * 1024,
	}, nil
}

// Archive implements transaction.Auditor.
func (a *ChangeArchive) Archive(ctx context.Context, txID id.ID, events []transaction.ChangeEvent) error {
	if len(events) == 0 {
		return nil
	}

	payload, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("marshal change events: %w", err)
	}

	algo := CompressionNone
	data := payload
	compressed := false
	if len(payload) > a.compressThreshold {
		data = a.encoder.EncodeAll(payload, nil)
		compressed = true
		algo = CompressionZstd
	}

	q := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Insert("change_archive").
		Columns("id", "transaction_id", "events", "events_compressed", "compression_algo", "created_at").
		Values(id.New(), txID, data, compressed, algo, time.Now().UTC())

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build archive insert: %w", err)
	}

	querier := a.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert change archive: %w", err)
	}
	return nil
}
