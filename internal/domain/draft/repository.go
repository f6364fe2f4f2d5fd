package draft

import "context"

// Repository describes draft persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Draft, error)
	GetByID(ctx context.Context, id int64) (Draft, bool, error)
	Create(ctx context.Context, item Draft) (Draft, error)
}
