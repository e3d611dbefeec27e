package tpt

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/HugoRoca/paper-tbc-web-sub001/internal/domain/casoindice"
	"github.com/HugoRoca/paper-tbc-web-sub001/internal/domain/catalogo"
	"github.com/HugoRoca/paper-tbc-web-sub001/internal/domain/contacto"
	"github.com/HugoRoca/paper-tbc-web-sub001/internal/platform/apperror"
)

// -- Mock repositories --

type mockIndicacionRepo struct {
	items  map[uuid.UUID]*TptIndicacion
	order  []uuid.UUID
	getErr error
}

func newMockIndicacionRepo() *mockIndicacionRepo {
	return &mockIndicacionRepo{items: make(map[uuid.UUID]*TptIndicacion)}
}

func (m *mockIndicacionRepo) Create(_ context.Context, ind *TptIndicacion) error {
	ind.ID = uuid.New()
	m.items[ind.ID] = ind
	m.order = append(m.order, ind.ID)
	return nil
}

func (m *mockIndicacionRepo) GetByID(_ context.Context, id uuid.UUID) (*TptIndicacion, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	ind, ok := m.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *ind
	return &cp, nil
}

func (m *mockIndicacionRepo) List(_ context.Context, f IndicacionFilter, limit, offset int) ([]*TptIndicacion, int, error) {
	var result []*TptIndicacion
	for _, id := range m.order {
		ind, ok := m.items[id]
		if !ok {
			continue
		}
		if f.ContactoID != nil && ind.ContactoID != *f.ContactoID {
			continue
		}
		if f.Estado != "" && ind.Estado != f.Estado {
			continue
		}
		result = append(result, ind)
	}
	total := len(result)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return result[offset:end], total, nil
}

func (m *mockIndicacionRepo) ListByContacto(ctx context.Context, contactoID uuid.UUID, limit, offset int) ([]*TptIndicacion, int, error) {
	return m.List(ctx, IndicacionFilter{ContactoID: &contactoID}, limit, offset)
}

func (m *mockIndicacionRepo) Update(_ context.Context, ind *TptIndicacion) error {
	m.items[ind.ID] = ind
	return nil
}

func (m *mockIndicacionRepo) Iniciar(_ context.Context, id uuid.UUID, fechaInicio, fechaFin time.Time) (bool, error) {
	ind, ok := m.items[id]
	if !ok || ind.Estado != EstadoIndicado {
		return false, nil
	}
	ind.FechaInicio = &fechaInicio
	ind.FechaFinPrevista = &fechaFin
	ind.Estado = EstadoEnCurso
	return true, nil
}

func (m *mockIndicacionRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

type mockConsentimientoRepo struct {
	items map[uuid.UUID]*TptConsentimiento
}

func newMockConsentimientoRepo() *mockConsentimientoRepo {
	return &mockConsentimientoRepo{items: make(map[uuid.UUID]*TptConsentimiento)}
}

func (m *mockConsentimientoRepo) Create(_ context.Context, cons *TptConsentimiento) (bool, error) {
	for _, existing := range m.items {
		if existing.TptIndicacionID == cons.TptIndicacionID {
			return false, nil
		}
	}
	cons.ID = uuid.New()
	m.items[cons.ID] = cons
	return true, nil
}

func (m *mockConsentimientoRepo) GetByID(_ context.Context, id uuid.UUID) (*TptConsentimiento, error) {
	cons, ok := m.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return cons, nil
}

func (m *mockConsentimientoRepo) GetByIndicacion(_ context.Context, indicacionID uuid.UUID) (*TptConsentimiento, error) {
	for _, cons := range m.items {
		if cons.TptIndicacionID == indicacionID {
			return cons, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockConsentimientoRepo) List(_ context.Context, limit, offset int) ([]*TptConsentimiento, int, error) {
	var result []*TptConsentimiento
	for _, cons := range m.items {
		result = append(result, cons)
	}
	return result, len(result), nil
}

func (m *mockConsentimientoRepo) Update(_ context.Context, cons *TptConsentimiento) error {
	m.items[cons.ID] = cons
	return nil
}

func (m *mockConsentimientoRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

type mockSeguimientoRepo struct {
	items        map[uuid.UUID]*TptSeguimiento
	indicaciones *mockIndicacionRepo
}

func newMockSeguimientoRepo(ind *mockIndicacionRepo) *mockSeguimientoRepo {
	return &mockSeguimientoRepo{items: make(map[uuid.UUID]*TptSeguimiento), indicaciones: ind}
}

func (m *mockSeguimientoRepo) CreateEnCurso(_ context.Context, seg *TptSeguimiento) (bool, error) {
	ind, ok := m.indicaciones.items[seg.TptIndicacionID]
	if !ok || ind.Estado != EstadoEnCurso {
		return false, nil
	}
	seg.ID = uuid.New()
	m.items[seg.ID] = seg
	return true, nil
}

func (m *mockSeguimientoRepo) GetByID(_ context.Context, id uuid.UUID) (*TptSeguimiento, error) {
	seg, ok := m.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return seg, nil
}

func (m *mockSeguimientoRepo) List(_ context.Context, f SeguimientoFilter, limit, offset int) ([]*TptSeguimiento, int, error) {
	var result []*TptSeguimiento
	for _, seg := range m.items {
		if f.TptIndicacionID != nil && seg.TptIndicacionID != *f.TptIndicacionID {
			continue
		}
		result = append(result, seg)
	}
	return result, len(result), nil
}

func (m *mockSeguimientoRepo) ListByIndicacion(ctx context.Context, indicacionID uuid.UUID, limit, offset int) ([]*TptSeguimiento, int, error) {
	return m.List(ctx, SeguimientoFilter{TptIndicacionID: &indicacionID}, limit, offset)
}

func (m *mockSeguimientoRepo) Update(_ context.Context, seg *TptSeguimiento) error {
	m.items[seg.ID] = seg
	return nil
}

func (m *mockSeguimientoRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

type mockReaccionRepo struct {
	items map[uuid.UUID]*ReaccionAdversa
}

func newMockReaccionRepo() *mockReaccionRepo {
	return &mockReaccionRepo{items: make(map[uuid.UUID]*ReaccionAdversa)}
}

func (m *mockReaccionRepo) Create(_ context.Context, ra *ReaccionAdversa) error {
	ra.ID = uuid.New()
	m.items[ra.ID] = ra
	return nil
}

func (m *mockReaccionRepo) GetByID(_ context.Context, id uuid.UUID) (*ReaccionAdversa, error) {
	ra, ok := m.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return ra, nil
}

func (m *mockReaccionRepo) List(_ context.Context, f ReaccionFilter, limit, offset int) ([]*ReaccionAdversa, int, error) {
	var result []*ReaccionAdversa
	for _, ra := range m.items {
		result = append(result, ra)
	}
	return result, len(result), nil
}

func (m *mockReaccionRepo) Update(_ context.Context, ra *ReaccionAdversa) error {
	m.items[ra.ID] = ra
	return nil
}

func (m *mockReaccionRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

// -- Supporting service mocks --

type mockEstablecimientoRepo struct {
	items map[uuid.UUID]*catalogo.Establecimiento
}

func (m *mockEstablecimientoRepo) Create(_ context.Context, e *catalogo.Establecimiento) error {
	e.ID = uuid.New()
	e.Activo = true
	m.items[e.ID] = e
	return nil
}

func (m *mockEstablecimientoRepo) GetByID(_ context.Context, id uuid.UUID) (*catalogo.Establecimiento, error) {
	e, ok := m.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return e, nil
}

func (m *mockEstablecimientoRepo) List(_ context.Context, soloActivos bool, limit, offset int) ([]*catalogo.Establecimiento, int, error) {
	return nil, 0, nil
}
func (m *mockEstablecimientoRepo) Update(_ context.Context, e *catalogo.Establecimiento) error {
	return nil
}
func (m *mockEstablecimientoRepo) Deactivate(_ context.Context, id uuid.UUID) error { return nil }

type mockEsquemaRepo struct {
	items map[uuid.UUID]*catalogo.EsquemaTpt
}

func (m *mockEsquemaRepo) Create(_ context.Context, e *catalogo.EsquemaTpt) error {
	e.ID = uuid.New()
	e.Activo = true
	m.items[e.ID] = e
	return nil
}

func (m *mockEsquemaRepo) GetByID(_ context.Context, id uuid.UUID) (*catalogo.EsquemaTpt, error) {
	e, ok := m.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return e, nil
}

func (m *mockEsquemaRepo) List(_ context.Context, soloActivos bool, limit, offset int) ([]*catalogo.EsquemaTpt, int, error) {
	return nil, 0, nil
}
func (m *mockEsquemaRepo) Update(_ context.Context, e *catalogo.EsquemaTpt) error { return nil }
func (m *mockEsquemaRepo) Deactivate(_ context.Context, id uuid.UUID) error       { return nil }

type mockCasoRepo struct {
	items map[uuid.UUID]*casoindice.CasoIndice
}

func (m *mockCasoRepo) Create(_ context.Context, caso *casoindice.CasoIndice) error {
	caso.ID = uuid.New()
	caso.Activo = true
	m.items[caso.ID] = caso
	return nil
}

func (m *mockCasoRepo) GetByID(_ context.Context, id uuid.UUID) (*casoindice.CasoIndice, error) {
	caso, ok := m.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return caso, nil
}

func (m *mockCasoRepo) List(_ context.Context, f casoindice.Filter, limit, offset int) ([]*casoindice.CasoIndice, int, error) {
	return nil, 0, nil
}
func (m *mockCasoRepo) Update(_ context.Context, caso *casoindice.CasoIndice) error { return nil }
func (m *mockCasoRepo) Deactivate(_ context.Context, id uuid.UUID) error            { return nil }

type mockContactoRepo struct {
	items map[uuid.UUID]*contacto.Contacto
}

func (m *mockContactoRepo) Create(_ context.Context, c *contacto.Contacto) error {
	c.ID = uuid.New()
	c.Activo = true
	m.items[c.ID] = c
	return nil
}

func (m *mockContactoRepo) GetByID(_ context.Context, id uuid.UUID) (*contacto.Contacto, error) {
	c, ok := m.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return c, nil
}

func (m *mockContactoRepo) List(_ context.Context, f contacto.Filter, limit, offset int) ([]*contacto.Contacto, int, error) {
	return nil, 0, nil
}
func (m *mockContactoRepo) ListByCaso(_ context.Context, casoID uuid.UUID, limit, offset int) ([]*contacto.Contacto, int, error) {
	return nil, 0, nil
}
func (m *mockContactoRepo) Update(_ context.Context, c *contacto.Contacto) error { return nil }
func (m *mockContactoRepo) Deactivate(_ context.Context, id uuid.UUID) error     { return nil }

// -- Test environment --

type testEnv struct {
	svc        *Service
	contactoID uuid.UUID
	esquemaID  uuid.UUID
	estID      uuid.UUID

	indicaciones    *mockIndicacionRepo
	consentimientos *mockConsentimientoRepo
	seguimientos    *mockSeguimientoRepo
	reacciones      *mockReaccionRepo
}

func newTestEnv(strict bool) *testEnv {
	estRepo := &mockEstablecimientoRepo{items: make(map[uuid.UUID]*catalogo.Establecimiento)}
	esqRepo := &mockEsquemaRepo{items: make(map[uuid.UUID]*catalogo.EsquemaTpt)}
	catalogSvc := catalogo.NewService(estRepo, esqRepo)

	est := &catalogo.Establecimiento{Nombre: "CS San Juan", Codigo: "CS-001"}
	estRepo.Create(context.Background(), est)
	esquema := &catalogo.EsquemaTpt{Nombre: "6H", DuracionMeses: 6}
	esqRepo.Create(context.Background(), esquema)

	casoRepo := &mockCasoRepo{items: make(map[uuid.UUID]*casoindice.CasoIndice)}
	casoSvc := casoindice.NewService(casoRepo, catalogSvc)
	caso := &casoindice.CasoIndice{Nombres: "Juan", Apellidos: "Pérez", DNI: "12345678", EstablecimientoID: est.ID}
	casoRepo.Create(context.Background(), caso)

	contactoRepo := &mockContactoRepo{items: make(map[uuid.UUID]*contacto.Contacto)}
	contactoSvc := contacto.NewService(contactoRepo, casoSvc, catalogSvc)
	cont := &contacto.Contacto{
		CasoIndiceID: caso.ID, Nombres: "María", Apellidos: "García", DNI: "87654321",
		TipoContacto: contacto.TipoIntradomiciliario, EstablecimientoID: est.ID,
	}
	contactoRepo.Create(context.Background(), cont)

	indRepo := newMockIndicacionRepo()
	consRepo := newMockConsentimientoRepo()
	segRepo := newMockSeguimientoRepo(indRepo)
	reacRepo := newMockReaccionRepo()

	return &testEnv{
		svc:             NewService(indRepo, consRepo, segRepo, reacRepo, contactoSvc, catalogSvc, strict),
		contactoID:      cont.ID,
		esquemaID:       esquema.ID,
		estID:           est.ID,
		indicaciones:    indRepo,
		consentimientos: consRepo,
		seguimientos:    segRepo,
		reacciones:      reacRepo,
	}
}

func (env *testEnv) newIndicacion(t *testing.T) *TptIndicacion {
	t.Helper()
	ind := &TptIndicacion{
		ContactoID:        env.contactoID,
		EsquemaID:         env.esquemaID,
		EstablecimientoID: env.estID,
	}
	if err := env.svc.CreateIndicacion(context.Background(), ind, "medico-1"); err != nil {
		t.Fatalf("create indicacion: %v", err)
	}
	return ind
}

// -- Indicaciones --

func TestCreateIndicacion_Defaults(t *testing.T) {
	env := newTestEnv(false)

	ind := env.newIndicacion(t)
	if ind.Estado != EstadoIndicado {
		t.Errorf("expected default estado Indicado, got %s", ind.Estado)
	}
	if ind.FechaIndicacion.IsZero() {
		t.Error("expected fecha_indicacion to be set")
	}
	if ind.UsuarioIndicaID != "medico-1" {
		t.Errorf("expected prescribing user to be set, got %q", ind.UsuarioIndicaID)
	}
}

func TestCreateIndicacion_ComputesFechaFin(t *testing.T) {
	env := newTestEnv(false)

	inicio := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	ind := &TptIndicacion{
		ContactoID:        env.contactoID,
		EsquemaID:         env.esquemaID,
		EstablecimientoID: env.estID,
		FechaInicio:       &inicio,
	}
	if err := env.svc.CreateIndicacion(context.Background(), ind, "medico-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)
	if ind.FechaFinPrevista == nil || !ind.FechaFinPrevista.Equal(want) {
		t.Errorf("expected fecha_fin_prevista %v, got %v", want, ind.FechaFinPrevista)
	}
}

func TestCreateIndicacion_ContactoMustExist(t *testing.T) {
	env := newTestEnv(false)

	ind := &TptIndicacion{ContactoID: uuid.New(), EsquemaID: env.esquemaID, EstablecimientoID: env.estID}
	err := env.svc.CreateIndicacion(context.Background(), ind, "medico-1")
	if !apperror.IsNotFound(err) {
		t.Errorf("expected not found for unknown contacto, got %v", err)
	}
}

func TestCreateIndicacion_EsquemaMustExist(t *testing.T) {
	env := newTestEnv(false)

	ind := &TptIndicacion{ContactoID: env.contactoID, EsquemaID: uuid.New(), EstablecimientoID: env.estID}
	err := env.svc.CreateIndicacion(context.Background(), ind, "medico-1")
	if !apperror.IsNotFound(err) {
		t.Errorf("expected not found for unknown esquema, got %v", err)
	}
}

func TestIniciar(t *testing.T) {
	env := newTestEnv(false)
	ind := env.newIndicacion(t)

	inicio := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	got, err := env.svc.Iniciar(context.Background(), ind.ID, inicio)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Estado != EstadoEnCurso {
		t.Errorf("expected estado 'En curso', got %s", got.Estado)
	}
	if got.FechaInicio == nil || !got.FechaInicio.Equal(inicio) {
		t.Errorf("expected fecha_inicio %v, got %v", inicio, got.FechaInicio)
	}
	// 6 meses de esquema: 2024-01-15 + 6 = 2024-07-15
	want := time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)
	if got.FechaFinPrevista == nil || !got.FechaFinPrevista.Equal(want) {
		t.Errorf("expected fecha_fin_prevista %v, got %v", want, got.FechaFinPrevista)
	}
}

func TestIniciar_SoloDesdeIndicado(t *testing.T) {
	env := newTestEnv(false)
	ind := env.newIndicacion(t)

	inicio := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if _, err := env.svc.Iniciar(context.Background(), ind.ID, inicio); err != nil {
		t.Fatalf("first iniciar: %v", err)
	}

	// Second start attempt must fail and leave the record untouched.
	otra := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	_, err := env.svc.Iniciar(context.Background(), ind.ID, otra)
	if !apperror.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}

	got, _ := env.svc.GetIndicacion(context.Background(), ind.ID)
	if !got.FechaInicio.Equal(inicio) {
		t.Errorf("expected original fecha_inicio preserved, got %v", got.FechaInicio)
	}
	if got.Estado != EstadoEnCurso {
		t.Errorf("expected estado 'En curso', got %s", got.Estado)
	}
}

func TestIniciar_NotFound(t *testing.T) {
	env := newTestEnv(false)

	_, err := env.svc.Iniciar(context.Background(), uuid.New(), time.Now())
	if !apperror.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestUpdateIndicacion_Permisivo(t *testing.T) {
	env := newTestEnv(false)
	ind := env.newIndicacion(t)

	// Without strict transitions any valid estado is accepted, matching
	// the historical behavior.
	upd := &TptIndicacion{ID: ind.ID, Estado: EstadoCompletado}
	if err := env.svc.UpdateIndicacion(context.Background(), upd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := env.svc.GetIndicacion(context.Background(), ind.ID)
	if got.Estado != EstadoCompletado {
		t.Errorf("expected Completado, got %s", got.Estado)
	}
}

func TestUpdateIndicacion_EstrictoRechazaSalto(t *testing.T) {
	env := newTestEnv(true)
	ind := env.newIndicacion(t)

	upd := &TptIndicacion{ID: ind.ID, Estado: EstadoCompletado}
	err := env.svc.UpdateIndicacion(context.Background(), upd)
	if apperror.KindOf(err) != apperror.KindValidation {
		t.Errorf("expected validation error for Indicado -> Completado, got %v", err)
	}
}

func TestUpdateIndicacion_EstrictoPermiteSuspender(t *testing.T) {
	env := newTestEnv(true)
	ind := env.newIndicacion(t)

	upd := &TptIndicacion{ID: ind.ID, Estado: EstadoSuspenso}
	if err := env.svc.UpdateIndicacion(context.Background(), upd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdateIndicacion_EstadoInvalido(t *testing.T) {
	env := newTestEnv(false)
	ind := env.newIndicacion(t)

	upd := &TptIndicacion{ID: ind.ID, Estado: "Curado"}
	err := env.svc.UpdateIndicacion(context.Background(), upd)
	if apperror.KindOf(err) != apperror.KindValidation {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestUpdateIndicacion_ContactoInmutable(t *testing.T) {
	env := newTestEnv(false)
	ind := env.newIndicacion(t)

	upd := &TptIndicacion{ID: ind.ID, ContactoID: uuid.New()}
	if err := env.svc.UpdateIndicacion(context.Background(), upd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if upd.ContactoID != env.contactoID {
		t.Error("expected contacto_id to be immutable")
	}
	if upd.UsuarioIndicaID != "medico-1" {
		t.Error("expected usuario_indica_id to be immutable")
	}
}

func TestDeleteIndicacion(t *testing.T) {
	env := newTestEnv(false)
	ind := env.newIndicacion(t)

	if err := env.svc.DeleteIndicacion(context.Background(), ind.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.svc.GetIndicacion(context.Background(), ind.ID); !apperror.IsNotFound(err) {
		t.Error("expected indicacion to be gone")
	}
}

// -- Consentimientos --

func TestCreateConsentimiento(t *testing.T) {
	env := newTestEnv(false)
	ind := env.newIndicacion(t)

	cons := &TptConsentimiento{TptIndicacionID: ind.ID, ConsentimientoFirmado: true}
	if err := env.svc.CreateConsentimiento(context.Background(), cons, "enf-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cons.ID == uuid.Nil {
		t.Error("expected ID to be set")
	}
}

func TestCreateConsentimiento_Duplicado(t *testing.T) {
	env := newTestEnv(false)
	ind := env.newIndicacion(t)

	primero := &TptConsentimiento{TptIndicacionID: ind.ID, ConsentimientoFirmado: true}
	if err := env.svc.CreateConsentimiento(context.Background(), primero, "enf-1"); err != nil {
		t.Fatalf("first consent: %v", err)
	}

	segundo := &TptConsentimiento{TptIndicacionID: ind.ID}
	err := env.svc.CreateConsentimiento(context.Background(), segundo, "enf-2")
	if !apperror.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}

	// Exactly one row for the indication, the first one.
	if len(env.consentimientos.items) != 1 {
		t.Errorf("expected 1 consent row, got %d", len(env.consentimientos.items))
	}
	got, _ := env.svc.GetConsentimientoByIndicacion(context.Background(), ind.ID)
	if got.UsuarioRegistroID != "enf-1" {
		t.Errorf("expected first consent preserved, got user %q", got.UsuarioRegistroID)
	}
}

func TestCreateConsentimiento_IndicacionMustExist(t *testing.T) {
	env := newTestEnv(false)

	cons := &TptConsentimiento{TptIndicacionID: uuid.New()}
	err := env.svc.CreateConsentimiento(context.Background(), cons, "enf-1")
	if !apperror.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestGetConsentimientoByIndicacion_Absent(t *testing.T) {
	env := newTestEnv(false)
	ind := env.newIndicacion(t)

	_, err := env.svc.GetConsentimientoByIndicacion(context.Background(), ind.ID)
	if !apperror.IsNotFound(err) {
		t.Errorf("expected not found when no consent exists, got %v", err)
	}
}

// -- Seguimientos --

func TestCreateSeguimiento_RequiereEnCurso(t *testing.T) {
	env := newTestEnv(false)
	ind := env.newIndicacion(t) // estado Indicado

	seg := &TptSeguimiento{TptIndicacionID: ind.ID, DosisAdministrada: true, EstablecimientoID: env.estID}
	err := env.svc.CreateSeguimiento(context.Background(), seg, "enf-1")
	if !apperror.IsConflict(err) {
		t.Fatalf("expected conflict for estado Indicado, got %v", err)
	}
	if len(env.seguimientos.items) != 0 {
		t.Errorf("expected no rows, got %d", len(env.seguimientos.items))
	}
}

func TestCreateSeguimiento_EnCurso(t *testing.T) {
	env := newTestEnv(false)
	ind := env.newIndicacion(t)
	env.svc.Iniciar(context.Background(), ind.ID, time.Now())

	seg := &TptSeguimiento{TptIndicacionID: ind.ID, DosisAdministrada: true, EstablecimientoID: env.estID}
	if err := env.svc.CreateSeguimiento(context.Background(), seg, "enf-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seg.ID == uuid.Nil {
		t.Error("expected ID to be set")
	}
}

func TestCreateSeguimiento_RechazadoTrasSuspension(t *testing.T) {
	env := newTestEnv(false)
	ind := env.newIndicacion(t)
	env.svc.Iniciar(context.Background(), ind.ID, time.Now())

	upd := &TptIndicacion{ID: ind.ID, Estado: EstadoSuspenso}
	if err := env.svc.UpdateIndicacion(context.Background(), upd); err != nil {
		t.Fatalf("suspend: %v", err)
	}

	seg := &TptSeguimiento{TptIndicacionID: ind.ID, EstablecimientoID: env.estID}
	err := env.svc.CreateSeguimiento(context.Background(), seg, "enf-1")
	if !apperror.IsConflict(err) {
		t.Errorf("expected conflict after suspension, got %v", err)
	}
}

// -- Reacciones adversas --

func TestCreateReaccion(t *testing.T) {
	env := newTestEnv(false)
	ind := env.newIndicacion(t)

	ra := &ReaccionAdversa{
		TptIndicacionID:   ind.ID,
		TipoReaccion:      "Hepatotoxicidad",
		Severidad:         SeveridadModerada,
		EstablecimientoID: env.estID,
	}
	if err := env.svc.CreateReaccion(context.Background(), ra, "medico-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ra.Resultado != ResultadoPendiente {
		t.Errorf("expected default resultado Pendiente, got %s", ra.Resultado)
	}
}

func TestCreateReaccion_SinGateDeEstado(t *testing.T) {
	env := newTestEnv(false)
	ind := env.newIndicacion(t)

	// Reactions can surface even after the course was abandoned.
	upd := &TptIndicacion{ID: ind.ID, Estado: EstadoAbandonado}
	if err := env.svc.UpdateIndicacion(context.Background(), upd); err != nil {
		t.Fatalf("abandon: %v", err)
	}

	ra := &ReaccionAdversa{
		TptIndicacionID:   ind.ID,
		TipoReaccion:      "Rash",
		Severidad:         SeveridadLeve,
		EstablecimientoID: env.estID,
	}
	if err := env.svc.CreateReaccion(context.Background(), ra, "medico-1"); err != nil {
		t.Errorf("expected reaction to be accepted regardless of estado, got %v", err)
	}
}

func TestCreateReaccion_SeveridadInvalida(t *testing.T) {
	env := newTestEnv(false)
	ind := env.newIndicacion(t)

	ra := &ReaccionAdversa{
		TptIndicacionID:   ind.ID,
		TipoReaccion:      "Rash",
		Severidad:         "Crítica",
		EstablecimientoID: env.estID,
	}
	err := env.svc.CreateReaccion(context.Background(), ra, "medico-1")
	if apperror.KindOf(err) != apperror.KindValidation {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestListIndicaciones_SegundaPagina(t *testing.T) {
	env := newTestEnv(false)
	for i := 0; i < 15; i++ {
		env.newIndicacion(t)
	}

	items, total, err := env.svc.ListIndicaciones(context.Background(), IndicacionFilter{}, 10, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 15 {
		t.Errorf("expected total 15, got %d", total)
	}
	if len(items) != 5 {
		t.Errorf("expected 5 items on the second page, got %d", len(items))
	}

	first, _, err := env.svc.ListIndicaciones(context.Background(), IndicacionFilter{}, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != 10 {
		t.Errorf("expected 10 items on the first page, got %d", len(first))
	}
}

func TestGetIndicacion_RepoFailureIsInternal(t *testing.T) {
	env := newTestEnv(false)
	env.indicaciones.getErr = errors.New("conexión rechazada")

	_, err := env.svc.GetIndicacion(context.Background(), uuid.New())
	if apperror.KindOf(err) != apperror.KindInternal {
		t.Errorf("expected internal error, got %v", err)
	}
	if apperror.IsNotFound(err) {
		t.Error("repo failure must not surface as not found")
	}
}
