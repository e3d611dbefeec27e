package derivacion

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

const derivacionCols = `id, contacto_id, establecimiento_origen_id, establecimiento_destino_id,
	motivo, estado, fecha_derivacion, fecha_aceptacion, usuario_deriva_id, usuario_acepta_id,
	observaciones, created_at, updated_at`

func (r *repoPG) scan(row pgx.Row) (*Derivacion, error) {
	var d Derivacion
	err := row.Scan(&d.ID, &d.ContactoID, &d.EstablecimientoOrigenID, &d.EstablecimientoDestinoID,
		&d.Motivo, &d.Estado, &d.FechaDerivacion, &d.FechaAceptacion, &d.UsuarioDerivaID,
		&d.UsuarioAceptaID, &d.Observaciones, &d.CreatedAt, &d.UpdatedAt)
	return &d, err
}

func (r *repoPG) Create(ctx context.Context, d *Derivacion) error {
	d.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO derivacion (id, contacto_id, establecimiento_origen_id,
			establecimiento_destino_id, motivo, estado, fecha_derivacion, usuario_deriva_id, observaciones)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		d.ID, d.ContactoID, d.EstablecimientoOrigenID, d.EstablecimientoDestinoID,
		d.Motivo, d.Estado, d.FechaDerivacion, d.UsuarioDerivaID, d.Observaciones)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Derivacion, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+derivacionCols+` FROM derivacion WHERE id = $1`, id))
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Derivacion, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	n := 0
	if f.Estado != "" {
		n++
		where += fmt.Sprintf(` AND estado = $%d`, n)
		args = append(args, f.Estado)
	}
	if f.ContactoID != nil {
		n++
		where += fmt.Sprintf(` AND contacto_id = $%d`, n)
		args = append(args, *f.ContactoID)
	}
	if f.EstablecimientoOrigenID != nil {
		n++
		where += fmt.Sprintf(` AND establecimiento_origen_id = $%d`, n)
		args = append(args, *f.EstablecimientoOrigenID)
	}
	if f.EstablecimientoDestinoID != nil {
		n++
		where += fmt.Sprintf(` AND establecimiento_destino_id = $%d`, n)
		args = append(args, *f.EstablecimientoDestinoID)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM derivacion`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+derivacionCols+` FROM derivacion`+where+` ORDER BY fecha_derivacion DESC LIMIT $%d OFFSET $%d`, n+1, n+2)
	rows, err := r.conn(ctx).Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Derivacion
	for rows.Next() {
		d, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, d)
	}
	return items, total, rows.Err()
}

func (r *repoPG) Update(ctx context.Context, d *Derivacion) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE derivacion SET motivo=$2, estado=$3, observaciones=$4, updated_at=NOW()
		WHERE id = $1`,
		d.ID, d.Motivo, d.Estado, d.Observaciones)
	return err
}

func (r *repoPG) Aceptar(ctx context.Context, id uuid.UUID, userID string) (bool, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE derivacion SET estado=$2, fecha_aceptacion=NOW(), usuario_acepta_id=$3, updated_at=NOW()
		WHERE id = $1 AND estado = $4`,
		id, EstadoAceptada, userID, EstadoPendiente)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *repoPG) Rechazar(ctx context.Context, id uuid.UUID, userID string, observaciones *string) (bool, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE derivacion SET estado=$2, usuario_acepta_id=$3, observaciones=$4, updated_at=NOW()
		WHERE id = $1 AND estado = $5`,
		id, EstadoRechazada, userID, observaciones, EstadoPendiente)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM derivacion WHERE id = $1`, id)
	return err
}
