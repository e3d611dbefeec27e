package contacto

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

const contactoCols = `id, caso_indice_id, nombres, apellidos, dni, fecha_nacimiento,
	tipo_contacto, establecimiento_id, usuario_registro_id, activo, created_at, updated_at`

func (r *repoPG) scan(row pgx.Row) (*Contacto, error) {
	var c Contacto
	err := row.Scan(&c.ID, &c.CasoIndiceID, &c.Nombres, &c.Apellidos, &c.DNI, &c.FechaNacimiento,
		&c.TipoContacto, &c.EstablecimientoID, &c.UsuarioRegistroID, &c.Activo, &c.CreatedAt, &c.UpdatedAt)
	return &c, err
}

func (r *repoPG) Create(ctx context.Context, contacto *Contacto) error {
	contacto.ID = uuid.New()
	contacto.Activo = true
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO contacto (id, caso_indice_id, nombres, apellidos, dni, fecha_nacimiento,
			tipo_contacto, establecimiento_id, usuario_registro_id, activo)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		contacto.ID, contacto.CasoIndiceID, contacto.Nombres, contacto.Apellidos, contacto.DNI,
		contacto.FechaNacimiento, contacto.TipoContacto, contacto.EstablecimientoID,
		contacto.UsuarioRegistroID, contacto.Activo)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Contacto, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+contactoCols+` FROM contacto WHERE id = $1`, id))
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Contacto, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	n := 0
	if f.SoloActivos {
		where += ` AND activo = TRUE`
	}
	if f.CasoIndiceID != nil {
		n++
		where += fmt.Sprintf(` AND caso_indice_id = $%d`, n)
		args = append(args, *f.CasoIndiceID)
	}
	if f.EstablecimientoID != nil {
		n++
		where += fmt.Sprintf(` AND establecimiento_id = $%d`, n)
		args = append(args, *f.EstablecimientoID)
	}
	if f.TipoContacto != "" {
		n++
		where += fmt.Sprintf(` AND tipo_contacto = $%d`, n)
		args = append(args, f.TipoContacto)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM contacto`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+contactoCols+` FROM contacto`+where+` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, n+1, n+2)
	rows, err := r.conn(ctx).Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Contacto
	for rows.Next() {
		c, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, rows.Err()
}

func (r *repoPG) ListByCaso(ctx context.Context, casoID uuid.UUID, limit, offset int) ([]*Contacto, int, error) {
	return r.List(ctx, Filter{CasoIndiceID: &casoID, SoloActivos: true}, limit, offset)
}

func (r *repoPG) Update(ctx context.Context, contacto *Contacto) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE contacto SET nombres=$2, apellidos=$3, dni=$4, fecha_nacimiento=$5,
			tipo_contacto=$6, establecimiento_id=$7, updated_at=NOW()
		WHERE id = $1`,
		contacto.ID, contacto.Nombres, contacto.Apellidos, contacto.DNI,
		contacto.FechaNacimiento, contacto.TipoContacto, contacto.EstablecimientoID)
	return err
}

func (r *repoPG) Deactivate(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `UPDATE contacto SET activo=FALSE, updated_at=NOW() WHERE id = $1`, id)
	return err
}
