package gateway

import (
	"context"
	"errors"
	"fmt"
	"github.com/go-chi/chi/v5"
	"github.com/saylorsolutions/eventsys/event"
	"github.com/saylorsolutions/eventsys/module"
	"github.com/saylorsolutions/eventsys/stream"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	HeaderEventStatus  = "X-Event-Status"
	DefaultCallTimeout = 5 * time.Second
	DefaultMaxBodySize = 1 << 20
)

// Dispatcher is the part of a [stream.CommandStream] used by the [Gateway].
// The caller value sent with each request is the client's remote address.
type Dispatcher interface {
	Sender() *stream.Sender[string]
	Stats() stream.Stats
	Queued() int
}

var _ Dispatcher = (*stream.CommandStream[string])(nil)

type gatewayConf struct {
	log         *slog.Logger
	callTimeout time.Duration
	maxBodySize int64
}

type Option func(conf *gatewayConf) error

// Logger sets the logger used for request logging and panic reports.
func Logger(log *slog.Logger) Option {
	return func(conf *gatewayConf) error {
		if log == nil {
			return fmt.Errorf("%w: nil logger", ErrInvalidOption)
		}
		conf.log = log
		return nil
	}
}

// CallTimeout sets how long a request waits for its event to be handled before responding with a 504 status.
func CallTimeout(timeout time.Duration) Option {
	return func(conf *gatewayConf) error {
		if timeout <= 0 {
			return fmt.Errorf("%w: call timeout must be positive", ErrInvalidOption)
		}
		conf.callTimeout = timeout
		return nil
	}
}

// MaxBodySize limits the size of an event payload accepted from a client.
func MaxBodySize(size int64) Option {
	return func(conf *gatewayConf) error {
		if size <= 0 {
			return fmt.Errorf("%w: max body size must be positive", ErrInvalidOption)
		}
		conf.maxBodySize = size
		return nil
	}
}

// Gateway submits events to a command stream on behalf of HTTP clients.
//
//	POST /events/{kind}  submits the request body as the payload of an event, and responds with the handler's payload.
//	GET  /routes         lists the event kinds that can be submitted.
//	GET  /healthz        reports the dispatcher's queue depth.
//
// A handler's response is only delivered on success, so a request that fails for any reason is reported as a 504 once the call timeout elapses.
// Requests for an event kind with no route are rejected immediately with a 404 status.
type Gateway struct {
	conf   gatewayConf
	disp   Dispatcher
	sender *stream.Sender[string]
	routes *module.ServiceMap
	router chi.Router
}

// New creates a [Gateway] that submits events with its own [stream.Sender], which is released by [Gateway.Close].
func New(disp Dispatcher, routes *module.ServiceMap, opts ...Option) (*Gateway, error) {
	if disp == nil {
		panic("nil dispatcher")
	}
	conf := gatewayConf{
		log:         slog.Default(),
		callTimeout: DefaultCallTimeout,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		if err := opt(&conf); err != nil {
			return nil, err
		}
	}
	g := &Gateway{
		conf:   conf,
		disp:   disp,
		sender: disp.Sender(),
		routes: routes,
	}
	r := chi.NewRouter()
	r.Use(RequestID, Logging(conf.log), Recovery(conf.log))
	r.Post("/events/{kind}", handleErr(g.postEvent))
	r.Get("/routes", g.listRoutes)
	r.Get("/healthz", g.health)
	g.router = r
	return g, nil
}

func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.router.ServeHTTP(w, r)
}

// Close releases the gateway's [stream.Sender].
// Requests handled after Close are dropped, and will time out.
func (g *Gateway) Close() {
	g.sender.Close()
}

func (g *Gateway) postEvent(w http.ResponseWriter, r *http.Request) error {
	defer func() {
		_ = r.Body.Close()
	}()
	kind, err := event.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrClientError, err)
	}
	if !g.routes.Has(kind) {
		return fmt.Errorf("%w '%s'", ErrUnknownEvent, kind)
	}
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, g.conf.maxBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: limit is %d bytes", ErrPayloadTooLarge, tooLarge.Limit)
		}
		return fmt.Errorf("%w: failed to read payload: %w", ErrClientError, err)
	}
	req, err := event.NewRequest(kind, payload, event.WithID(r.Header.Get(HeaderRequestID)))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrClientError, err)
	}

	ctx, cancel := context.WithTimeout(r.Context(), g.conf.callTimeout)
	defer cancel()
	_, resp, err := stream.Call(g.sender, r.RemoteAddr, req).Await(ctx)
	if err != nil {
		return fmt.Errorf("%w for event '%s' (request '%s')", ErrTimeout, kind, req.ID())
	}
	w.Header().Set(HeaderContentType, http.DetectContentType(resp.Payload))
	w.Header().Set(HeaderEventStatus, resp.Status.String())
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(resp.Payload); err != nil {
		g.conf.log.DebugContext(r.Context(), "Failed to write event response", "request_id", req.ID(), "error", err)
	}
	return nil
}

func (g *Gateway) listRoutes(w http.ResponseWriter, _ *http.Request) {
	kinds := g.routes.Kinds()
	events := make([]string, len(kinds))
	for i, kind := range kinds {
		events[i] = kind.String()
	}
	writeJSON(w, http.StatusOK, routesBody{Events: events})
}

func (g *Gateway) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthBody{
		Status:   "ok",
		Queued:   g.disp.Queued(),
		InFlight: g.disp.Stats().InFlight,
	})
}
