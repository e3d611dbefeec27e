package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		want Kind
	}{
		{NotFound("contacto_no_encontrado", "Contacto no encontrado"), KindNotFound},
		{Validation("dni_requerido", "El DNI es obligatorio"), KindValidation},
		{Conflict("consentimiento_duplicado", "Ya existe un consentimiento"), KindConflict},
		{Internal(errors.New("conn refused")), KindInternal},
		{errors.New("plain"), KindInternal},
	}
	for _, tc := range cases {
		if got := KindOf(tc.err); got != tc.want {
			t.Errorf("KindOf(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestKindOfWrapped(t *testing.T) {
	inner := NotFound("alerta_no_encontrada", "Alerta no encontrada")
	wrapped := fmt.Errorf("resolviendo alerta: %w", inner)
	if !IsNotFound(wrapped) {
		t.Fatal("wrapped not-found error should still report not-found")
	}
}

func TestMessageFormatting(t *testing.T) {
	err := Validation("transicion_invalida", "Transición de estado no permitida: de '%s' a '%s'", "Indicado", "Completado")
	want := "Transición de estado no permitida: de 'Indicado' a 'Completado'"
	if err.Message != want {
		t.Fatalf("message = %q, want %q", err.Message, want)
	}
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestInternalHidesCause(t *testing.T) {
	cause := errors.New("pq: relation does not exist")
	err := Internal(cause)
	if err.Message != "Error interno del servidor" {
		t.Fatalf("message = %q", err.Message)
	}
	if !errors.Is(err, cause) {
		t.Fatal("Internal should wrap the cause for logging")
	}
}

func TestIsConflict(t *testing.T) {
	if !IsConflict(Conflict("tpt_no_indicado", "Solo se pueden iniciar TPT en estado 'Indicado'")) {
		t.Fatal("expected conflict")
	}
	if IsConflict(NotFound("x", "y")) {
		t.Fatal("not-found is not a conflict")
	}
}
