package dashboard

import "context"

type Repository interface {
	// GetSettings returns the client's settings row. serviceerr.ErrNotFound
	// when the client has none.
	GetSettings(ctx context.Context, clientID string) (Settings, error)
	// ListProperties returns the client's properties, newest first.
	ListProperties(ctx context.Context, clientID string) ([]Property, error)
	// ListVisibleDocuments returns the client's visible documents, newest
	// first.
	ListVisibleDocuments(ctx context.Context, clientID string) ([]Document, error)
}
