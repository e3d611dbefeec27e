package alerta

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

const alertaCols = `id, tipo, mensaje, estado, contacto_id, caso_indice_id, tpt_indicacion_id,
	establecimiento_id, fecha_resolucion, usuario_resuelve_id, observaciones, created_at, updated_at`

func (r *repoPG) scan(row pgx.Row) (*Alerta, error) {
	var a Alerta
	err := row.Scan(&a.ID, &a.Tipo, &a.Mensaje, &a.Estado, &a.ContactoID, &a.CasoIndiceID,
		&a.TptIndicacionID, &a.EstablecimientoID, &a.FechaResolucion, &a.UsuarioResuelveID,
		&a.Observaciones, &a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

func (r *repoPG) Create(ctx context.Context, a *Alerta) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO alerta (id, tipo, mensaje, estado, contacto_id, caso_indice_id,
			tpt_indicacion_id, establecimiento_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		a.ID, a.Tipo, a.Mensaje, a.Estado, a.ContactoID, a.CasoIndiceID,
		a.TptIndicacionID, a.EstablecimientoID)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Alerta, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+alertaCols+` FROM alerta WHERE id = $1`, id))
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Alerta, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	n := 0
	if f.Estado != "" {
		n++
		where += fmt.Sprintf(` AND estado = $%d`, n)
		args = append(args, f.Estado)
	}
	if f.Tipo != "" {
		n++
		where += fmt.Sprintf(` AND tipo = $%d`, n)
		args = append(args, f.Tipo)
	}
	if f.ContactoID != nil {
		n++
		where += fmt.Sprintf(` AND contacto_id = $%d`, n)
		args = append(args, *f.ContactoID)
	}
	if f.EstablecimientoID != nil {
		n++
		where += fmt.Sprintf(` AND establecimiento_id = $%d`, n)
		args = append(args, *f.EstablecimientoID)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM alerta`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+alertaCols+` FROM alerta`+where+` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, n+1, n+2)
	rows, err := r.conn(ctx).Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Alerta
	for rows.Next() {
		a, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}

func (r *repoPG) Update(ctx context.Context, a *Alerta) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE alerta SET tipo=$2, mensaje=$3, estado=$4, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.Tipo, a.Mensaje, a.Estado)
	return err
}

func (r *repoPG) Resolver(ctx context.Context, id uuid.UUID, userID string, observaciones *string) (bool, error) {
	// Conditional so a second resolver call never overwrites the first.
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE alerta SET estado=$2, fecha_resolucion=NOW(), usuario_resuelve_id=$3,
			observaciones=$4, updated_at=NOW()
		WHERE id = $1 AND estado <> $2`,
		id, EstadoResuelta, userID, observaciones)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM alerta WHERE id = $1`, id)
	return err
}
