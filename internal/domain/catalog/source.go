package catalog

import "context"

// Source is the read side of the external catalog service. The DynamoDB
// store implements it for real traffic; tests use a Fixture.
type Source interface {
	// List returns the current catalog snapshot.
	List(ctx context.Context) ([]Item, error)
	// Get returns a single item or ErrNotFound.
	Get(ctx context.Context, id string) (Item, error)
}

// Writer is the mutation side, used only by the admin console. Mutations go
// through the same external service the storefront reads from.
type Writer interface {
	Put(ctx context.Context, item Item) error
	Delete(ctx context.Context, id string) error
}

// Store combines both sides of the catalog service.
type Store interface {
	Source
	Writer
}
