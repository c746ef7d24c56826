package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrForbidden            = errors.New("acceso denegado")
	ErrConflict             = errors.New("conflicto con el estado actual")
	ErrInsufficientStock    = errors.New("stock insuficiente")
	ErrExternalLookup       = errors.New("consulta de entidad de negocio fallida")
	ErrAmbiguousDestination = errors.New("estado de inventario destino ambiguo")
)

// Kind clasifica un error para que los llamadores decidan por tipo y no por mensaje.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindInsufficientStock
	KindExternalLookup
	KindConcurrencyConflict
	KindAmbiguousState
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindInsufficientStock:
		return "insufficient_stock"
	case KindExternalLookup:
		return "external_lookup"
	case KindConcurrencyConflict:
		return "concurrency_conflict"
	case KindAmbiguousState:
		return "ambiguous_state"
	default:
		return "unknown"
	}
}

// Códigos estables expuestos en las respuestas de error.
const (
	CodeProductNotFound         = "PRODUCT_NOT_FOUND"
	CodeProductInactive         = "PRODUCT_INACTIVE"
	CodeInvalidRoute            = "INVALID_ROUTE"
	CodeInvalidQuantity         = "INVALID_QUANTITY"
	CodeInvalidCost             = "INVALID_COST"
	CodeInvalidBusinessEntity   = "INVALID_BUSINESS_ENTITY"
	CodeInvalidRequest          = "INVALID_REQUEST"
	CodeSourceInventoryNotFound = "SOURCE_INVENTORY_NOT_FOUND"
	CodeInventoryNotFound       = "INVENTORY_NOT_FOUND"
	CodeInventoryByKeyNotFound  = "INVENTORY_BY_PRODUCT_AND_BUSINESS_ENTITY_NOT_FOUND"
	CodeTransactionNotFound     = "INVENTORY_TRANSACTION_NOT_FOUND"
	CodeInsufficientStock       = "INSUFFICIENT_STOCK"
	CodeExternalLookup          = "EXTERNAL_LOOKUP_FAILED"
	CodeConcurrencyConflict     = "CONCURRENCY_CONFLICT"
	CodeAmbiguousDestination    = "AMBIGUOUS_DESTINATION_STATE"
)

// Error error de dominio etiquetado con Kind y un código estable.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is permite errors.Is(err, domain.ErrNotFound) y similares sobre errores etiquetados.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrInvalidInput:
		return e.Kind == KindValidation
	case ErrInsufficientStock:
		return e.Kind == KindInsufficientStock
	case ErrExternalLookup:
		return e.Kind == KindExternalLookup
	case ErrConflict:
		return e.Kind == KindConcurrencyConflict
	case ErrAmbiguousDestination:
		return e.Kind == KindAmbiguousState
	}
	return false
}

// KindOf devuelve el Kind del primer error etiquetado en la cadena; KindUnknown si no hay.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	var se *InsufficientStockError
	if errors.As(err, &se) {
		return KindInsufficientStock
	}
	return KindUnknown
}

// CodeOf devuelve el código estable del error, o "" si no está etiquetado.
func CodeOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	var se *InsufficientStockError
	if errors.As(err, &se) {
		return CodeInsufficientStock
	}
	return ""
}

// Validation construye un error de validación (error del llamador, nunca se reintenta).
func Validation(code, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: fmt.Sprintf(format, args...)}
}

// NotFound construye un error de recurso ausente.
func NotFound(code, format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: fmt.Sprintf(format, args...)}
}

// ExternalLookup error fatal fail-closed al consultar una entidad de negocio.
func ExternalLookup(entityID int64, err error) *Error {
	return &Error{
		Kind:    KindExternalLookup,
		Code:    CodeExternalLookup,
		Message: "no se pudo consultar la entidad de negocio " + strconv.FormatInt(entityID, 10),
		Err:     err,
	}
}

// ConcurrencyConflict conflicto de escritura concurrente sobre el mismo registro.
func ConcurrencyConflict(err error) *Error {
	return &Error{Kind: KindConcurrencyConflict, Code: CodeConcurrencyConflict, Message: "conflicto de concurrencia en inventario", Err: err}
}

// AmbiguousDestination el colaborador no distinguió "ausente" de "fallo" al leer el destino.
func AmbiguousDestination(productID, entityID int64, err error) *Error {
	return &Error{
		Kind:    KindAmbiguousState,
		Code:    CodeAmbiguousDestination,
		Message: fmt.Sprintf("no se pudo determinar el inventario destino (producto %d, entidad %d)", productID, entityID),
		Err:     err,
	}
}

// StockShortfall detalle de un faltante: disponible vs solicitado.
type StockShortfall struct {
	ProductID int64 `json:"product_id"`
	EntityID  int64 `json:"business_entity_id"`
	Available int64 `json:"available"`
	Requested int64 `json:"requested"`
}

// InsufficientStockError lleva el detalle de cada producto sin stock suficiente.
// Para el flujo de ventas, Applied lista los ítems que ya quedaron descontados antes del
// fallo; Partial es true cuando hubo aplicación parcial.
type InsufficientStockError struct {
	Shortfalls []StockShortfall
	Applied    []int64
	Partial    bool
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortfalls))
	for _, s := range e.Shortfalls {
		parts = append(parts, fmt.Sprintf("producto %d en entidad %d (disponible: %d, requerido: %d)",
			s.ProductID, s.EntityID, s.Available, s.Requested))
	}
	return "stock insuficiente: " + strings.Join(parts, "; ")
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// Partial reporta si err indica que parte del lote ya se aplicó.
func Partial(err error) bool {
	var se *InsufficientStockError
	if errors.As(err, &se) {
		return se.Partial
	}
	var pe *PartialApplyError
	if errors.As(err, &pe) {
		return len(pe.Applied) > 0
	}
	return false
}

// PartialApplyError envuelve un fallo que abortó un lote después de aplicar algunos ítems.
type PartialApplyError struct {
	Applied []int64
	Err     error
}

func (e *PartialApplyError) Error() string {
	return fmt.Sprintf("lote abortado tras aplicar %d ítem(s): %v", len(e.Applied), e.Err)
}

func (e *PartialApplyError) Unwrap() error { return e.Err }
