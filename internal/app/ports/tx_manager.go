package ports

import "context"

// TxManager runs fn as the single critical section for diplomacy mutation.
// Nested calls are not supported.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
