package repository

import "context"

// Transactor выполняет fn атомарно: при ошибке все изменения внутри fn откатываются.
// Вложенные вызовы используют уже открытую транзакцию.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type txMarkerKey struct{}

// MarkTransaction помечает контекст как выполняющийся внутри транзакции.
func MarkTransaction(ctx context.Context) context.Context {
	return context.WithValue(ctx, txMarkerKey{}, true)
}

func InTransaction(ctx context.Context) bool {
	v, _ := ctx.Value(txMarkerKey{}).(bool)
	return v
}
