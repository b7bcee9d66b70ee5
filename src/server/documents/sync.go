package documents

import (
	"context"

	"lsp-navigator/src/internal/types"
)

// versioned is implemented by handles whose text changes over time
type versioned interface {
	VersionedSnapshot() (*Text, int32)
}

// SyncDocument brings the channel's copy of doc up to date before a position
// request when the channel tracks open documents. Other channels are left
// alone. Handles without a version are sent as version 1.
func SyncDocument(ctx context.Context, ch types.Channel, doc DocumentHandle) error {
	syncer, ok := ch.(types.DocumentSyncer)
	if !ok {
		return nil
	}

	if v, ok := doc.(versioned); ok {
		text, version := v.VersionedSnapshot()
		return syncer.EnsureOpen(ctx, string(doc.URI()), doc.Language(), version, text.String())
	}

	text, err := doc.Text(ctx)
	if err != nil {
		return err
	}
	return syncer.EnsureOpen(ctx, string(doc.URI()), doc.Language(), 1, text.String())
}
