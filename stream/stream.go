package stream

import (
	"context"
	"fmt"
	"github.com/saylorsolutions/eventsys/module"
	"log/slog"
	"sync"
	"sync/atomic"
)

type streamConf struct {
	logger        *slog.Logger
	onError       func(error)
	initialBuffer int
}

// Option configures a [CommandStream] created with [New].
type Option func(conf *streamConf) error

// Logger sets the [slog.Logger] used to record failed dispatches and lifecycle events.
// The default is [slog.Default].
func Logger(logger *slog.Logger) Option {
	return func(conf *streamConf) error {
		if logger == nil {
			return fmt.Errorf("%w: nil logger", ErrConfiguration)
		}
		conf.logger = logger
		return nil
	}
}

// ErrorHandler registers a function that's called once with each [*DispatchError].
// This is called after the error is logged, from the goroutine that handled the request, so it must be safe for concurrent use.
func ErrorHandler(handler func(err error)) Option {
	return func(conf *streamConf) error {
		if handler == nil {
			return fmt.Errorf("%w: nil error handler", ErrConfiguration)
		}
		conf.onError = handler
		return nil
	}
}

// InitialBuffer sets the initial capacity of the submission queue.
// The queue grows as needed regardless of this setting.
func InitialBuffer(size int) Option {
	return func(conf *streamConf) error {
		if size < 0 {
			return fmt.Errorf("%w: invalid initial buffer size '%d'", ErrConfiguration, size)
		}
		conf.initialBuffer = size
		return nil
	}
}

// CommandStream routes each submitted [StreamData] to the [module.Module] registered for its event kind.
//
// A CommandStream is created without a routing table, so [CommandStream.ModuleServiceMap] must be called before [CommandStream.Run].
type CommandStream[T any] struct {
	log     *slog.Logger
	onError func(error)
	queue   *queue[*StreamData[T]]
	self    *Sender[T]
	stats   stats
	done    chan struct{}

	mux     sync.Mutex
	modules *module.ServiceMap
	started bool
}

// New creates a [CommandStream] with the given options.
func New[T any](opts ...Option) (*CommandStream[T], error) {
	conf := &streamConf{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(conf); err != nil {
			return nil, err
		}
	}
	s := &CommandStream[T]{
		log:     conf.logger,
		onError: conf.onError,
		queue:   newQueue[*StreamData[T]](conf.initialBuffer),
		done:    make(chan struct{}),
	}
	s.self = newSender(s.queue)
	return s, nil
}

// ModuleServiceMap attaches the routing table used to resolve modules.
// This must be done exactly once before [CommandStream.Run] is called, and attaching a second map returns [ErrConfiguration].
func (s *CommandStream[T]) ModuleServiceMap(modules *module.ServiceMap) error {
	if modules == nil {
		return fmt.Errorf("%w: nil module service map", ErrConfiguration)
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.started {
		return fmt.Errorf("%w: module service map must be attached before running", ErrAlreadyStarted)
	}
	if s.modules != nil {
		return fmt.Errorf("%w: module service map already attached", ErrConfiguration)
	}
	s.modules = modules
	return nil
}

// Sender creates a new [Sender] handle for producers.
// Each handle should be closed when the producer is finished with it.
func (s *CommandStream[T]) Sender() *Sender[T] {
	return newSender(s.queue)
}

// Send submits data using the [CommandStream]'s own [Sender].
func (s *CommandStream[T]) Send(data *StreamData[T]) {
	s.self.Send(data)
}

// Close releases the [CommandStream]'s own [Sender].
// Processing stops once this and all handles returned from [CommandStream.Sender] are closed and all pending data has been dispatched.
func (s *CommandStream[T]) Close() {
	s.self.Close()
}

// Done returns a channel that's closed when [CommandStream.Run] returns after starting successfully.
func (s *CommandStream[T]) Done() <-chan struct{} {
	return s.done
}

// Queued returns the number of submitted items that haven't been picked up by the loop yet.
func (s *CommandStream[T]) Queued() int {
	return s.queue.len()
}

func (s *CommandStream[T]) start() (*commandStreamService[T], error) {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.started {
		return nil, ErrAlreadyStarted
	}
	if s.modules == nil {
		return nil, fmt.Errorf("%w: no module service map attached", ErrConfiguration)
	}
	s.started = true
	return s.newService(), nil
}

func (s *CommandStream[T]) newService() *commandStreamService[T] {
	return &commandStreamService[T]{
		modules: s.modules,
		log:     s.log,
		onError: s.onError,
		stats:   &s.stats,
	}
}

// Run processes submitted data until all [Sender] handles are closed and the queue is drained, or ctx is cancelled.
// Each item is handled in its own goroutine, so a slow or failing handler never holds up the loop or other requests.
// Items are not guaranteed to be delivered in the order they were sent.
//
// Cancelling ctx stops the loop, but doesn't cancel requests that are already being handled.
// Items still in the queue at that point are abandoned.
//
// An error is only returned if the [CommandStream] can't start, either because no routing table was attached ([ErrConfiguration]), or because Run was already called ([ErrAlreadyStarted]).
func (s *CommandStream[T]) Run(ctx context.Context) error {
	service, err := s.start()
	if err != nil {
		return err
	}
	defer close(s.done)
	if ctx == nil {
		ctx = context.Background()
	}
	taskCtx := context.WithoutCancel(ctx)
	s.log.Debug("Command stream started", "modules", service.modules.Len())
	defer s.log.Debug("Command stream stopped")

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		data, ok, drained := s.queue.pop()
		switch {
		case ok:
			s.stats.received.Add(1)
			s.stats.inFlight.Add(1)
			go service.call(taskCtx, data)
		case drained:
			return nil
		default:
			select {
			case <-s.queue.signal:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

// Stats is a point-in-time snapshot of [CommandStream] activity.
type Stats struct {
	Received  uint64 // Received counts items taken from the queue for dispatch.
	Delivered uint64 // Delivered counts callbacks that were invoked.
	Failed    uint64 // Failed counts dispatches that ended in a [*DispatchError].
	InFlight  int64  // InFlight is the number of dispatches currently running.
}

type stats struct {
	received  atomic.Uint64
	delivered atomic.Uint64
	failed    atomic.Uint64
	inFlight  atomic.Int64
}

func (s *CommandStream[T]) Stats() Stats {
	return Stats{
		Received:  s.stats.received.Load(),
		Delivered: s.stats.delivered.Load(),
		Failed:    s.stats.failed.Load(),
		InFlight:  s.stats.inFlight.Load(),
	}
}
