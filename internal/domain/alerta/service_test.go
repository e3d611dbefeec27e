package alerta

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/HugoRoca/paper-tbc-web-sub001/internal/platform/apperror"
)

type mockRepo struct {
	items  map[uuid.UUID]*Alerta
	getErr error
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[uuid.UUID]*Alerta)}
}

func (m *mockRepo) Create(_ context.Context, a *Alerta) error {
	a.ID = uuid.New()
	m.items[a.ID] = a
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Alerta, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	a, ok := m.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *a
	return &cp, nil
}

func (m *mockRepo) List(_ context.Context, f Filter, limit, offset int) ([]*Alerta, int, error) {
	var result []*Alerta
	for _, a := range m.items {
		if f.Estado != "" && a.Estado != f.Estado {
			continue
		}
		if f.Tipo != "" && a.Tipo != f.Tipo {
			continue
		}
		result = append(result, a)
	}
	return result, len(result), nil
}

func (m *mockRepo) Update(_ context.Context, a *Alerta) error {
	m.items[a.ID] = a
	return nil
}

func (m *mockRepo) Resolver(_ context.Context, id uuid.UUID, userID string, observaciones *string) (bool, error) {
	a, ok := m.items[id]
	if !ok || a.Estado == EstadoResuelta {
		return false, nil
	}
	now := time.Now()
	a.Estado = EstadoResuelta
	a.FechaResolucion = &now
	a.UsuarioResuelveID = &userID
	a.Observaciones = observaciones
	return true, nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func newTestService() *Service {
	return NewService(newMockRepo())
}

func TestCreateAlerta_DefaultActiva(t *testing.T) {
	svc := newTestService()

	a := &Alerta{Tipo: "seguimiento_vencido", Mensaje: "Seguimiento pendiente hace 30 días", EstablecimientoID: uuid.New()}
	if err := svc.Create(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Estado != EstadoActiva {
		t.Errorf("expected default estado Activa, got %s", a.Estado)
	}
}

func TestCreateAlerta_MensajeRequired(t *testing.T) {
	svc := newTestService()

	err := svc.Create(context.Background(), &Alerta{Tipo: "seguimiento_vencido"})
	if apperror.KindOf(err) != apperror.KindValidation {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestResolver(t *testing.T) {
	svc := newTestService()

	a := &Alerta{Tipo: "seguimiento_vencido", Mensaje: "Seguimiento pendiente", EstablecimientoID: uuid.New()}
	svc.Create(context.Background(), a)

	obs := "Contacto ubicado"
	got, err := svc.Resolver(context.Background(), a.ID, "user-1", &obs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Estado != EstadoResuelta {
		t.Errorf("expected Resuelta, got %s", got.Estado)
	}
	if got.FechaResolucion == nil {
		t.Error("expected fecha_resolucion to be set")
	}
	if got.UsuarioResuelveID == nil || *got.UsuarioResuelveID != "user-1" {
		t.Error("expected resolving user to be set")
	}
}

func TestResolver_YaResuelta(t *testing.T) {
	svc := newTestService()

	a := &Alerta{Tipo: "seguimiento_vencido", Mensaje: "Seguimiento pendiente", EstablecimientoID: uuid.New()}
	svc.Create(context.Background(), a)

	obs1 := "Primera resolución"
	primero, err := svc.Resolver(context.Background(), a.ID, "user-1", &obs1)
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}

	obs2 := "Segunda resolución"
	_, err = svc.Resolver(context.Background(), a.ID, "user-2", &obs2)
	if !apperror.IsConflict(err) {
		t.Fatalf("expected conflict on second resolve, got %v", err)
	}

	// First resolution data must survive.
	got, _ := svc.GetByID(context.Background(), a.ID)
	if *got.UsuarioResuelveID != "user-1" {
		t.Errorf("expected first resolver preserved, got %q", *got.UsuarioResuelveID)
	}
	if *got.Observaciones != obs1 {
		t.Errorf("expected first observations preserved, got %q", *got.Observaciones)
	}
	if !got.FechaResolucion.Equal(*primero.FechaResolucion) {
		t.Error("expected first resolution date preserved")
	}
}

func TestResolver_NotFound(t *testing.T) {
	svc := newTestService()

	_, err := svc.Resolver(context.Background(), uuid.New(), "user-1", nil)
	if !apperror.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestUpdateAlerta_EstadoInvalido(t *testing.T) {
	svc := newTestService()

	a := &Alerta{Tipo: "seguimiento_vencido", Mensaje: "Seguimiento pendiente", EstablecimientoID: uuid.New()}
	svc.Create(context.Background(), a)

	err := svc.Update(context.Background(), &Alerta{ID: a.ID, Estado: "Cerrada"})
	if apperror.KindOf(err) != apperror.KindValidation {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestGetAlerta_RepoFailureIsInternal(t *testing.T) {
	repo := newMockRepo()
	repo.getErr = errors.New("conexión rechazada")
	svc := NewService(repo)

	_, err := svc.GetByID(context.Background(), uuid.New())
	if apperror.KindOf(err) != apperror.KindInternal {
		t.Errorf("expected internal error, got %v", err)
	}
	if apperror.IsNotFound(err) {
		t.Error("repo failure must not surface as not found")
	}
}
