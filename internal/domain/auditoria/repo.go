package auditoria

import "context"

type Repository interface {
	Insert(ctx context.Context, reg *RegistroAuditoria) error
	List(ctx context.Context, f Filter, limit, offset int) ([]*RegistroAuditoria, int, error)
}
