package casoindice

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

const casoCols = `id, nombres, apellidos, dni, fecha_diagnostico, tipo_tb,
	establecimiento_id, usuario_registro_id, activo, created_at, updated_at`

func (r *repoPG) scan(row pgx.Row) (*CasoIndice, error) {
	var c CasoIndice
	err := row.Scan(&c.ID, &c.Nombres, &c.Apellidos, &c.DNI, &c.FechaDiagnostico, &c.TipoTB,
		&c.EstablecimientoID, &c.UsuarioRegistroID, &c.Activo, &c.CreatedAt, &c.UpdatedAt)
	return &c, err
}

func (r *repoPG) Create(ctx context.Context, caso *CasoIndice) error {
	caso.ID = uuid.New()
	caso.Activo = true
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO caso_indice (id, nombres, apellidos, dni, fecha_diagnostico, tipo_tb,
			establecimiento_id, usuario_registro_id, activo)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		caso.ID, caso.Nombres, caso.Apellidos, caso.DNI, caso.FechaDiagnostico, caso.TipoTB,
		caso.EstablecimientoID, caso.UsuarioRegistroID, caso.Activo)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*CasoIndice, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+casoCols+` FROM caso_indice WHERE id = $1`, id))
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*CasoIndice, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	n := 0
	if f.SoloActivos {
		where += ` AND activo = TRUE`
	}
	if f.EstablecimientoID != nil {
		n++
		where += fmt.Sprintf(` AND establecimiento_id = $%d`, n)
		args = append(args, *f.EstablecimientoID)
	}
	if f.DNI != "" {
		n++
		where += fmt.Sprintf(` AND dni = $%d`, n)
		args = append(args, f.DNI)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM caso_indice`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+casoCols+` FROM caso_indice`+where+` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, n+1, n+2)
	rows, err := r.conn(ctx).Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*CasoIndice
	for rows.Next() {
		c, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, rows.Err()
}

func (r *repoPG) Update(ctx context.Context, caso *CasoIndice) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE caso_indice SET nombres=$2, apellidos=$3, dni=$4, fecha_diagnostico=$5,
			tipo_tb=$6, establecimiento_id=$7, updated_at=NOW()
		WHERE id = $1`,
		caso.ID, caso.Nombres, caso.Apellidos, caso.DNI, caso.FechaDiagnostico,
		caso.TipoTB, caso.EstablecimientoID)
	return err
}

func (r *repoPG) Deactivate(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `UPDATE caso_indice SET activo=FALSE, updated_at=NOW() WHERE id = $1`, id)
	return err
}
