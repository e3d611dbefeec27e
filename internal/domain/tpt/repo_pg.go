package tpt

import (
	"context"
	"fmt"
	"time"

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

func conn(ctx context.Context, pool *pgxpool.Pool) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return pool
}

// ---- TptIndicacion ----

type indicacionRepoPG struct{ pool *pgxpool.Pool }

func NewIndicacionRepoPG(pool *pgxpool.Pool) IndicacionRepository {
	return &indicacionRepoPG{pool: pool}
}

const indicacionCols = `id, contacto_id, esquema_id, fecha_indicacion, fecha_inicio,
	fecha_fin_prevista, estado, establecimiento_id, usuario_indica_id, created_at, updated_at`

func scanIndicacion(row pgx.Row) (*TptIndicacion, error) {
	var i TptIndicacion
	err := row.Scan(&i.ID, &i.ContactoID, &i.EsquemaID, &i.FechaIndicacion, &i.FechaInicio,
		&i.FechaFinPrevista, &i.Estado, &i.EstablecimientoID, &i.UsuarioIndicaID,
		&i.CreatedAt, &i.UpdatedAt)
	return &i, err
}

func (r *indicacionRepoPG) Create(ctx context.Context, ind *TptIndicacion) error {
	ind.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO tpt_indicacion (id, contacto_id, esquema_id, fecha_indicacion,
			fecha_inicio, fecha_fin_prevista, estado, establecimiento_id, usuario_indica_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		ind.ID, ind.ContactoID, ind.EsquemaID, ind.FechaIndicacion, ind.FechaInicio,
		ind.FechaFinPrevista, ind.Estado, ind.EstablecimientoID, ind.UsuarioIndicaID)
	return err
}

func (r *indicacionRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*TptIndicacion, error) {
	return scanIndicacion(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+indicacionCols+` FROM tpt_indicacion WHERE id = $1`, id))
}

func (r *indicacionRepoPG) List(ctx context.Context, f IndicacionFilter, limit, offset int) ([]*TptIndicacion, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	n := 0
	if f.ContactoID != nil {
		n++
		where += fmt.Sprintf(` AND contacto_id = $%d`, n)
		args = append(args, *f.ContactoID)
	}
	if f.Estado != "" {
		n++
		where += fmt.Sprintf(` AND estado = $%d`, n)
		args = append(args, f.Estado)
	}
	if f.EstablecimientoID != nil {
		n++
		where += fmt.Sprintf(` AND establecimiento_id = $%d`, n)
		args = append(args, *f.EstablecimientoID)
	}

	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM tpt_indicacion`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+indicacionCols+` FROM tpt_indicacion`+where+` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, n+1, n+2)
	rows, err := conn(ctx, r.pool).Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*TptIndicacion
	for rows.Next() {
		i, err := scanIndicacion(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, i)
	}
	return items, total, rows.Err()
}

func (r *indicacionRepoPG) ListByContacto(ctx context.Context, contactoID uuid.UUID, limit, offset int) ([]*TptIndicacion, int, error) {
	return r.List(ctx, IndicacionFilter{ContactoID: &contactoID}, limit, offset)
}

func (r *indicacionRepoPG) Update(ctx context.Context, ind *TptIndicacion) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE tpt_indicacion SET esquema_id=$2, fecha_indicacion=$3, fecha_inicio=$4,
			fecha_fin_prevista=$5, estado=$6, establecimiento_id=$7, updated_at=NOW()
		WHERE id = $1`,
		ind.ID, ind.EsquemaID, ind.FechaIndicacion, ind.FechaInicio,
		ind.FechaFinPrevista, ind.Estado, ind.EstablecimientoID)
	return err
}

func (r *indicacionRepoPG) Iniciar(ctx context.Context, id uuid.UUID, fechaInicio, fechaFin time.Time) (bool, error) {
	// Conditional update so two concurrent iniciar calls cannot both win.
	tag, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE tpt_indicacion
		SET fecha_inicio=$2, fecha_fin_prevista=$3, estado=$4, updated_at=NOW()
		WHERE id = $1 AND estado = $5`,
		id, fechaInicio, fechaFin, EstadoEnCurso, EstadoIndicado)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *indicacionRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM tpt_indicacion WHERE id = $1`, id)
	return err
}

// ---- TptConsentimiento ----

type consentimientoRepoPG struct{ pool *pgxpool.Pool }

func NewConsentimientoRepoPG(pool *pgxpool.Pool) ConsentimientoRepository {
	return &consentimientoRepoPG{pool: pool}
}

const consentimientoCols = `id, tpt_indicacion_id, fecha_consentimiento, consentimiento_firmado,
	archivo_path, observaciones, usuario_registro_id, created_at, updated_at`

func scanConsentimiento(row pgx.Row) (*TptConsentimiento, error) {
	var c TptConsentimiento
	err := row.Scan(&c.ID, &c.TptIndicacionID, &c.FechaConsentimiento, &c.ConsentimientoFirmado,
		&c.ArchivoPath, &c.Observaciones, &c.UsuarioRegistroID, &c.CreatedAt, &c.UpdatedAt)
	return &c, err
}

func (r *consentimientoRepoPG) Create(ctx context.Context, cons *TptConsentimiento) (bool, error) {
	cons.ID = uuid.New()
	// The unique index on tpt_indicacion_id makes the 1:1 rule atomic.
	tag, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO tpt_consentimiento (id, tpt_indicacion_id, fecha_consentimiento,
			consentimiento_firmado, archivo_path, observaciones, usuario_registro_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (tpt_indicacion_id) DO NOTHING`,
		cons.ID, cons.TptIndicacionID, cons.FechaConsentimiento, cons.ConsentimientoFirmado,
		cons.ArchivoPath, cons.Observaciones, cons.UsuarioRegistroID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *consentimientoRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*TptConsentimiento, error) {
	return scanConsentimiento(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+consentimientoCols+` FROM tpt_consentimiento WHERE id = $1`, id))
}

func (r *consentimientoRepoPG) GetByIndicacion(ctx context.Context, indicacionID uuid.UUID) (*TptConsentimiento, error) {
	return scanConsentimiento(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+consentimientoCols+` FROM tpt_consentimiento WHERE tpt_indicacion_id = $1`, indicacionID))
}

func (r *consentimientoRepoPG) List(ctx context.Context, limit, offset int) ([]*TptConsentimiento, int, error) {
	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM tpt_consentimiento`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+consentimientoCols+` FROM tpt_consentimiento ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*TptConsentimiento
	for rows.Next() {
		c, err := scanConsentimiento(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, rows.Err()
}

func (r *consentimientoRepoPG) Update(ctx context.Context, cons *TptConsentimiento) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE tpt_consentimiento SET fecha_consentimiento=$2, consentimiento_firmado=$3,
			archivo_path=$4, observaciones=$5, updated_at=NOW()
		WHERE id = $1`,
		cons.ID, cons.FechaConsentimiento, cons.ConsentimientoFirmado,
		cons.ArchivoPath, cons.Observaciones)
	return err
}

func (r *consentimientoRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM tpt_consentimiento WHERE id = $1`, id)
	return err
}

// ---- TptSeguimiento ----

type seguimientoRepoPG struct{ pool *pgxpool.Pool }

func NewSeguimientoRepoPG(pool *pgxpool.Pool) SeguimientoRepository {
	return &seguimientoRepoPG{pool: pool}
}

const seguimientoCols = `id, tpt_indicacion_id, fecha_seguimiento, dosis_administrada,
	efectos_adversos, observaciones, establecimiento_id, usuario_registro_id, created_at, updated_at`

func scanSeguimiento(row pgx.Row) (*TptSeguimiento, error) {
	var s TptSeguimiento
	err := row.Scan(&s.ID, &s.TptIndicacionID, &s.FechaSeguimiento, &s.DosisAdministrada,
		&s.EfectosAdversos, &s.Observaciones, &s.EstablecimientoID, &s.UsuarioRegistroID,
		&s.CreatedAt, &s.UpdatedAt)
	return &s, err
}

func (r *seguimientoRepoPG) CreateEnCurso(ctx context.Context, seg *TptSeguimiento) (bool, error) {
	seg.ID = uuid.New()
	// The estado check rides in the INSERT itself, so the row only lands
	// while the indication is still "En curso".
	tag, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO tpt_seguimiento (id, tpt_indicacion_id, fecha_seguimiento,
			dosis_administrada, efectos_adversos, observaciones, establecimiento_id, usuario_registro_id)
		SELECT $1,$2,$3,$4,$5,$6,$7,$8
		WHERE EXISTS (SELECT 1 FROM tpt_indicacion WHERE id = $2 AND estado = $9)`,
		seg.ID, seg.TptIndicacionID, seg.FechaSeguimiento, seg.DosisAdministrada,
		seg.EfectosAdversos, seg.Observaciones, seg.EstablecimientoID, seg.UsuarioRegistroID,
		EstadoEnCurso)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *seguimientoRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*TptSeguimiento, error) {
	return scanSeguimiento(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+seguimientoCols+` FROM tpt_seguimiento WHERE id = $1`, id))
}

func (r *seguimientoRepoPG) List(ctx context.Context, f SeguimientoFilter, limit, offset int) ([]*TptSeguimiento, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	n := 0
	if f.TptIndicacionID != nil {
		n++
		where += fmt.Sprintf(` AND tpt_indicacion_id = $%d`, n)
		args = append(args, *f.TptIndicacionID)
	}
	if f.EstablecimientoID != nil {
		n++
		where += fmt.Sprintf(` AND establecimiento_id = $%d`, n)
		args = append(args, *f.EstablecimientoID)
	}
	if f.EfectosAdversos != nil {
		n++
		where += fmt.Sprintf(` AND efectos_adversos = $%d`, n)
		args = append(args, *f.EfectosAdversos)
	}
	if f.FechaDesde != nil {
		n++
		where += fmt.Sprintf(` AND fecha_seguimiento >= $%d`, n)
		args = append(args, *f.FechaDesde)
	}
	if f.FechaHasta != nil {
		n++
		where += fmt.Sprintf(` AND fecha_seguimiento <= $%d`, n)
		args = append(args, *f.FechaHasta)
	}

	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM tpt_seguimiento`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+seguimientoCols+` FROM tpt_seguimiento`+where+` ORDER BY fecha_seguimiento DESC LIMIT $%d OFFSET $%d`, n+1, n+2)
	rows, err := conn(ctx, r.pool).Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*TptSeguimiento
	for rows.Next() {
		s, err := scanSeguimiento(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, s)
	}
	return items, total, rows.Err()
}

func (r *seguimientoRepoPG) ListByIndicacion(ctx context.Context, indicacionID uuid.UUID, limit, offset int) ([]*TptSeguimiento, int, error) {
	return r.List(ctx, SeguimientoFilter{TptIndicacionID: &indicacionID}, limit, offset)
}

func (r *seguimientoRepoPG) Update(ctx context.Context, seg *TptSeguimiento) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE tpt_seguimiento SET fecha_seguimiento=$2, dosis_administrada=$3,
			efectos_adversos=$4, observaciones=$5, establecimiento_id=$6, updated_at=NOW()
		WHERE id = $1`,
		seg.ID, seg.FechaSeguimiento, seg.DosisAdministrada, seg.EfectosAdversos,
		seg.Observaciones, seg.EstablecimientoID)
	return err
}

func (r *seguimientoRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM tpt_seguimiento WHERE id = $1`, id)
	return err
}

// ---- ReaccionAdversa ----

type reaccionRepoPG struct{ pool *pgxpool.Pool }

func NewReaccionRepoPG(pool *pgxpool.Pool) ReaccionRepository {
	return &reaccionRepoPG{pool: pool}
}

const reaccionCols = `id, tpt_indicacion_id, fecha_reaccion, tipo_reaccion, severidad,
	sintomas, resultado, establecimiento_id, usuario_registro_id, created_at, updated_at`

func scanReaccion(row pgx.Row) (*ReaccionAdversa, error) {
	var ra ReaccionAdversa
	err := row.Scan(&ra.ID, &ra.TptIndicacionID, &ra.FechaReaccion, &ra.TipoReaccion, &ra.Severidad,
		&ra.Sintomas, &ra.Resultado, &ra.EstablecimientoID, &ra.UsuarioRegistroID,
		&ra.CreatedAt, &ra.UpdatedAt)
	return &ra, err
}

func (r *reaccionRepoPG) Create(ctx context.Context, ra *ReaccionAdversa) error {
	ra.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO reaccion_adversa (id, tpt_indicacion_id, fecha_reaccion, tipo_reaccion,
			severidad, sintomas, resultado, establecimiento_id, usuario_registro_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		ra.ID, ra.TptIndicacionID, ra.FechaReaccion, ra.TipoReaccion, ra.Severidad,
		ra.Sintomas, ra.Resultado, ra.EstablecimientoID, ra.UsuarioRegistroID)
	return err
}

func (r *reaccionRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*ReaccionAdversa, error) {
	return scanReaccion(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+reaccionCols+` FROM reaccion_adversa WHERE id = $1`, id))
}

func (r *reaccionRepoPG) List(ctx context.Context, f ReaccionFilter, limit, offset int) ([]*ReaccionAdversa, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	n := 0
	if f.TptIndicacionID != nil {
		n++
		where += fmt.Sprintf(` AND tpt_indicacion_id = $%d`, n)
		args = append(args, *f.TptIndicacionID)
	}
	if f.Severidad != "" {
		n++
		where += fmt.Sprintf(` AND severidad = $%d`, n)
		args = append(args, f.Severidad)
	}
	if f.Resultado != "" {
		n++
		where += fmt.Sprintf(` AND resultado = $%d`, n)
		args = append(args, f.Resultado)
	}
	if f.EstablecimientoID != nil {
		n++
		where += fmt.Sprintf(` AND establecimiento_id = $%d`, n)
		args = append(args, *f.EstablecimientoID)
	}

	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM reaccion_adversa`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+reaccionCols+` FROM reaccion_adversa`+where+` ORDER BY fecha_reaccion DESC LIMIT $%d OFFSET $%d`, n+1, n+2)
	rows, err := conn(ctx, r.pool).Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*ReaccionAdversa
	for rows.Next() {
		ra, err := scanReaccion(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, ra)
	}
	return items, total, rows.Err()
}

func (r *reaccionRepoPG) Update(ctx context.Context, ra *ReaccionAdversa) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE reaccion_adversa SET fecha_reaccion=$2, tipo_reaccion=$3, severidad=$4,
			sintomas=$5, resultado=$6, establecimiento_id=$7, updated_at=NOW()
		WHERE id = $1`,
		ra.ID, ra.FechaReaccion, ra.TipoReaccion, ra.Severidad,
		ra.Sintomas, ra.Resultado, ra.EstablecimientoID)
	return err
}

func (r *reaccionRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM reaccion_adversa WHERE id = $1`, id)
	return err
}
