package catalogo

import (
	"context"

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

// =========== Establecimiento Repository ===========

type establecimientoRepoPG struct{ pool *pgxpool.Pool }

func NewEstablecimientoRepoPG(pool *pgxpool.Pool) EstablecimientoRepository {
	return &establecimientoRepoPG{pool: pool}
}

func (r *establecimientoRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const estCols = `id, nombre, codigo, distrito, activo, created_at, updated_at`

func (r *establecimientoRepoPG) scan(row pgx.Row) (*Establecimiento, error) {
	var e Establecimiento
	err := row.Scan(&e.ID, &e.Nombre, &e.Codigo, &e.Distrito, &e.Activo, &e.CreatedAt, &e.UpdatedAt)
	return &e, err
}

func (r *establecimientoRepoPG) Create(ctx context.Context, e *Establecimiento) error {
	e.ID = uuid.New()
	e.Activo = true
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO establecimiento (id, nombre, codigo, distrito, activo)
		VALUES ($1,$2,$3,$4,$5)`,
		e.ID, e.Nombre, e.Codigo, e.Distrito, e.Activo)
	return err
}

func (r *establecimientoRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Establecimiento, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+estCols+` FROM establecimiento WHERE id = $1`, id))
}

func (r *establecimientoRepoPG) List(ctx context.Context, soloActivos bool, limit, offset int) ([]*Establecimiento, int, error) {
	where := ``
	if soloActivos {
		where = ` WHERE activo = TRUE`
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM establecimiento`+where).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+estCols+` FROM establecimiento`+where+` ORDER BY nombre LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Establecimiento
	for rows.Next() {
		e, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, e)
	}
	return items, total, rows.Err()
}

func (r *establecimientoRepoPG) Update(ctx context.Context, e *Establecimiento) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE establecimiento SET nombre=$2, codigo=$3, distrito=$4, updated_at=NOW()
		WHERE id = $1`,
		e.ID, e.Nombre, e.Codigo, e.Distrito)
	return err
}

func (r *establecimientoRepoPG) Deactivate(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `UPDATE establecimiento SET activo=FALSE, updated_at=NOW() WHERE id = $1`, id)
	return err
}

// =========== EsquemaTpt Repository ===========

type esquemaRepoPG struct{ pool *pgxpool.Pool }

func NewEsquemaRepoPG(pool *pgxpool.Pool) EsquemaRepository {
	return &esquemaRepoPG{pool: pool}
}

func (r *esquemaRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const esqCols = `id, nombre, descripcion, duracion_meses, activo, created_at, updated_at`

func (r *esquemaRepoPG) scan(row pgx.Row) (*EsquemaTpt, error) {
	var e EsquemaTpt
	err := row.Scan(&e.ID, &e.Nombre, &e.Descripcion, &e.DuracionMeses, &e.Activo, &e.CreatedAt, &e.UpdatedAt)
	return &e, err
}

func (r *esquemaRepoPG) Create(ctx context.Context, e *EsquemaTpt) error {
	e.ID = uuid.New()
	e.Activo = true
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO esquema_tpt (id, nombre, descripcion, duracion_meses, activo)
		VALUES ($1,$2,$3,$4,$5)`,
		e.ID, e.Nombre, e.Descripcion, e.DuracionMeses, e.Activo)
	return err
}

func (r *esquemaRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*EsquemaTpt, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+esqCols+` FROM esquema_tpt WHERE id = $1`, id))
}

func (r *esquemaRepoPG) List(ctx context.Context, soloActivos bool, limit, offset int) ([]*EsquemaTpt, int, error) {
	where := ``
	if soloActivos {
		where = ` WHERE activo = TRUE`
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM esquema_tpt`+where).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+esqCols+` FROM esquema_tpt`+where+` ORDER BY nombre LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*EsquemaTpt
	for rows.Next() {
		e, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, e)
	}
	return items, total, rows.Err()
}

func (r *esquemaRepoPG) Update(ctx context.Context, e *EsquemaTpt) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE esquema_tpt SET nombre=$2, descripcion=$3, duracion_meses=$4, updated_at=NOW()
		WHERE id = $1`,
		e.ID, e.Nombre, e.Descripcion, e.DuracionMeses)
	return err
}

func (r *esquemaRepoPG) Deactivate(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `UPDATE esquema_tpt SET activo=FALSE, updated_at=NOW() WHERE id = $1`, id)
	return err
}
