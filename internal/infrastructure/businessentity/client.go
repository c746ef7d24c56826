package businessentity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/jhoicas/retailpulse-inventory/internal/application/inventory"
	"github.com/jhoicas/retailpulse-inventory/internal/domain"
	"github.com/jhoicas/retailpulse-inventory/internal/domain/entity"
	"github.com/jhoicas/retailpulse-inventory/pkg/config"
	"github.com/jhoicas/retailpulse-inventory/pkg/logger"
)

// Verificar en tiempo de compilación que Client implementa EntityClassifier.
var _ inventory.EntityClassifier = (*Client)(nil)

// Policy política ante un fallo de consulta al servicio de entidades.
type Policy int

const (
	// PolicyFailOpen asume que la entidad es válida si la consulta falla (lecturas).
	PolicyFailOpen Policy = iota
	// PolicyFailClosed rechaza la operación si la consulta falla (motor de movimientos).
	PolicyFailClosed
)

func (p Policy) String() string {
	if p == PolicyFailClosed {
		return "fail_closed"
	}
	return "fail_open"
}

// StatusError respuesta no 2xx del servicio de entidades. Nunca se reintenta.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("business entity HTTP %d: %s", e.StatusCode, e.Body)
}

// Client adaptador HTTP del servicio de entidades de negocio (GET {baseURL}/{id}).
// Cada intento tiene su propio timeout; los reintentos usan backoff exponencial.
type Client struct {
	baseURL         string
	httpClient      *http.Client
	timeout         time.Duration
	validRetries    int
	externalRetries int
	retryInterval   time.Duration
	log             *logger.Logger
}

// Option personaliza el cliente.
type Option func(*Client)

// WithHTTPClient reemplaza el *http.Client (tests, transportes instrumentados).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRetryInterval intervalo inicial del backoff entre reintentos.
func WithRetryInterval(d time.Duration) Option {
	return func(c *Client) { c.retryInterval = d }
}

// NewClient construye el adaptador desde la configuración.
func NewClient(cfg config.BusinessEntityConfig, log *logger.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:      &http.Client{},
		timeout:         cfg.Timeout,
		validRetries:    max(cfg.ValidRetries, 0),
		externalRetries: max(cfg.ExternalRetries, 0),
		retryInterval:   100 * time.Millisecond,
		log:             log.Component("business_entity_client"),
	}
	if c.timeout <= 0 {
		c.timeout = 3 * time.Second
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsExternal indica si la entidad es externa (proveedor, cliente). Política fail-closed:
// cualquier fallo devuelve un error de Kind ExternalLookup y el movimiento se rechaza.
func (c *Client) IsExternal(ctx context.Context, id int64) (bool, error) {
	be, err := c.lookup(ctx, id, PolicyFailClosed)
	if err != nil {
		c.log.Error().Err(err).Int64("business_entity_id", id).Str("policy", PolicyFailClosed.String()).
			Msg("no se pudo clasificar la entidad de negocio")
		return false, domain.ExternalLookup(id, err)
	}
	return be.External, nil
}

// IsValidBusinessEntity indica si la entidad está activa. Política fail-open: ante cualquier
// fallo (red, timeout, no 2xx, cuerpo inválido) devuelve true.
func (c *Client) IsValidBusinessEntity(ctx context.Context, id int64) bool {
	be, err := c.lookup(ctx, id, PolicyFailOpen)
	if err != nil {
		c.log.Warn().Err(err).Int64("business_entity_id", id).Str("policy", PolicyFailOpen.String()).
			Msg("consulta de entidad fallida, se asume válida")
		return true
	}
	return be.Active
}

// lookup consulta con reintentos según la política: fail-open reintenta cualquier fallo,
// fail-closed solo fallos de transporte.
func (c *Client) lookup(ctx context.Context, id int64, policy Policy) (*entity.BusinessEntity, error) {
	retries := c.validRetries
	if policy == PolicyFailClosed {
		retries = c.externalRetries
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = c.retryInterval
	eb.MaxElapsedTime = 0
	b := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(retries)), ctx)

	var out *entity.BusinessEntity
	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		be, err := c.fetch(ctx, id)
		if err != nil {
			if policy == PolicyFailClosed && !isTransport(err) {
				return backoff.Permanent(err)
			}
			c.log.Debug().Err(err).Int64("business_entity_id", id).Int("attempt", attempt).Msg("reintento de consulta de entidad")
			return err
		}
		out = be
		return nil
	}, b)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// fetch un único intento con su propio timeout.
func (c *Client) fetch(ctx context.Context, id int64) (*entity.BusinessEntity, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := c.baseURL + "/" + strconv.FormatInt(id, 10)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("crear HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &transportError{err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return nil, &transportError{err: fmt.Errorf("leer respuesta: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	var be entity.BusinessEntity
	if err := json.Unmarshal(raw, &be); err != nil {
		return nil, fmt.Errorf("deserializar entidad de negocio %d: %w", id, err)
	}
	return &be, nil
}

// transportError fallo de red o timeout; es el único reintentable en fail-closed.
type transportError struct{ err error }

func (e *transportError) Error() string { return "business entity transport: " + e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

func isTransport(err error) bool {
	var te *transportError
	return errors.As(err, &te)
}
