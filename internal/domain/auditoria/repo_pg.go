package auditoria

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HugoRoca/paper-tbc-web-sub001/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const registroCols = `id, usuario_id, recurso, accion, registro_id, metodo, ruta, ip,
	estado_http, datos, request_id, created_at`

func (r *repoPG) Insert(ctx context.Context, reg *RegistroAuditoria) error {
	reg.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO registro_auditoria (id, usuario_id, recurso, accion, registro_id,
			metodo, ruta, ip, estado_http, datos, request_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		reg.ID, reg.UsuarioID, reg.Recurso, reg.Accion, reg.RegistroID,
		reg.Metodo, reg.Ruta, reg.IP, reg.EstadoHTTP, reg.Datos, reg.RequestID)
	return err
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*RegistroAuditoria, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	n := 0
	if f.UsuarioID != "" {
		n++
		where += fmt.Sprintf(` AND usuario_id = $%d`, n)
		args = append(args, f.UsuarioID)
	}
	if f.Recurso != "" {
		n++
		where += fmt.Sprintf(` AND recurso = $%d`, n)
		args = append(args, f.Recurso)
	}
	if f.Accion != "" {
		n++
		where += fmt.Sprintf(` AND accion = $%d`, n)
		args = append(args, f.Accion)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM registro_auditoria`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+registroCols+` FROM registro_auditoria`+where+` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, n+1, n+2)
	rows, err := r.conn(ctx).Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*RegistroAuditoria
	for rows.Next() {
		var reg RegistroAuditoria
		if err := rows.Scan(&reg.ID, &reg.UsuarioID, &reg.Recurso, &reg.Accion, &reg.RegistroID,
			&reg.Metodo, &reg.Ruta, &reg.IP, &reg.EstadoHTTP, &reg.Datos, &reg.RequestID,
			&reg.CreatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, &reg)
	}
	return items, total, rows.Err()
}
