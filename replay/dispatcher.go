package replay

import (
	"context"

	"github.com/pkg/errors"

	"github.com/moaibot/discord-snark-bot/logging"
)

// ErrUnknownKind is returned when a stored record names a generation kind no
// handler was registered for. It indicates a schema mismatch or an incomplete
// rollout, so callers should log it as an error rather than a user mistake.
var ErrUnknownKind = errors.New("unknown generation kind")

// GenerateFunc regenerates one kind of bot post from stored parameters.
type GenerateFunc func(ctx context.Context, req Request) error

// Dispatcher maps generation kinds to their handlers.
type Dispatcher struct {
	handlers map[Kind]GenerateFunc
	logger   *logging.Logger
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(logger *logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.Default()
	}
	return &Dispatcher{
		handlers: make(map[Kind]GenerateFunc),
		logger:   logger,
	}
}

// Register binds a kind to its handler. Later registrations replace earlier
// ones.
func (d *Dispatcher) Register(kind Kind, fn GenerateFunc) {
	d.handlers[kind] = fn
}

// Dispatch invokes the handler for rec.Kind with the record's stored
// parameters. The handler is responsible for posting the new output and
// re-recording it in the registry on success.
func (d *Dispatcher) Dispatch(ctx context.Context, rec *Record, requesterName string) error {
	fn, ok := d.handlers[rec.Kind]
	if !ok {
		d.logger.Error("no handler registered for stored kind", "kind", rec.Kind, "chatID", rec.ChatID)
		return errors.Wrapf(ErrUnknownKind, "kind %q", rec.Kind)
	}

	req := Request{
		ChatID:        rec.ChatID,
		RequesterName: requesterName,
		Params:        rec.Params,
	}
	d.logger.Debug("dispatching replay", "kind", rec.Kind, "chatID", rec.ChatID)
	return fn(ctx, req)
}
