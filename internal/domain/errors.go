package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrUnauthenticated = errors.New("credencial ausente o inválida")
	ErrForbidden       = errors.New("acceso denegado")
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrConflict        = errors.New("conflicto con el estado actual")
	ErrDuplicate       = errors.New("recurso duplicado")
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrUpstream        = errors.New("falla en servicio externo")
)

// Kind clasifica cualquier error en una de las seis categorías que ve el cliente.
type Kind string

const (
	KindUnauthenticated  Kind = "Unauthenticated"
	KindForbidden        Kind = "Forbidden"
	KindNotFound         Kind = "NotFound"
	KindConflict         Kind = "Conflict"
	KindValidationFailed Kind = "ValidationFailed"
	KindUpstreamFailure  Kind = "UpstreamFailure"
)

// KindOf devuelve la categoría del error. Todo lo no clasificado cuenta como UpstreamFailure:
// si no es un error de dominio, vino de la persistencia o del proveedor de identidad.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return KindUnauthenticated
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConflict), errors.Is(err, ErrDuplicate):
		return KindConflict
	case errors.Is(err, ErrInvalidInput):
		return KindValidationFailed
	default:
		return KindUpstreamFailure
	}
}

// Upstream envuelve la falla de un colaborador externo conservando la causa original.
// errors.Is(err, ErrUpstream) se cumple siempre sobre el resultado.
func Upstream(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrUpstream) {
		return err
	}
	return fmt.Errorf("%s: %w", op, errors.Join(ErrUpstream, err))
}

// Invalid devuelve un ErrInvalidInput con detalle legible.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Conflict devuelve un ErrConflict con detalle legible.
func Conflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}
