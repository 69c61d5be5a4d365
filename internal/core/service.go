package core

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/Rorical/RoriComplete/internal/completion"
)

// Completer encodes and sends completion requests. *completion.Client
// satisfies it.
type Completer interface {
	Encode(prompt string) ([]byte, error)
	Send(ctx context.Context, body []byte, token string) (completion.Response, error)
}

// Outcome is what a handle resolves to: a decoded response or an error.
type Outcome struct {
	Response completion.Response
	Err      error
}

// Handle is a one-shot result cell for a single request. It is written once
// by the worker goroutine and polled by the UI without blocking.
type Handle struct {
	id      string
	once    sync.Once
	done    chan struct{}
	outcome Outcome
}

func newHandle() *Handle {
	return &Handle{
		id:   uuid.NewString(),
		done: make(chan struct{}),
	}
}

func (h *Handle) ID() string {
	return h.id
}

// Done is closed once the outcome is available.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Poll returns the outcome and true once resolved; until then it returns
// false and has no side effects.
func (h *Handle) Poll() (Outcome, bool) {
	select {
	case <-h.done:
		return h.outcome, true
	default:
		return Outcome{}, false
	}
}

func (h *Handle) resolve(o Outcome) {
	h.once.Do(func() {
		h.outcome = o
		close(h.done)
	})
}

// CompletionService runs requests on background goroutines and hands back
// handles. It keeps no record of which handle is current; that belongs to
// the composer.
type CompletionService struct {
	completer Completer
	logger    *slog.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

func NewCompletionService(completer Completer, logger *slog.Logger) *CompletionService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &CompletionService{
		completer: completer,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Submit starts a request for prompt. Serialization failures resolve the
// handle before Submit returns; everything else resolves on a worker.
func (s *CompletionService) Submit(prompt, token string) *Handle {
	h := newHandle()
	logger := s.logger.With(slog.String("request_id", h.id))

	body, err := s.completer.Encode(prompt)
	if err != nil {
		logger.Error("failed to encode completion request", slog.Any("error", err))
		h.resolve(Outcome{Err: err})
		return h
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		resp, err := s.completer.Send(s.ctx, body, token)
		if err != nil {
			logger.Warn("completion request failed", slog.Any("error", err))
		} else {
			logger.Info("completion request resolved", slog.Int("kind", int(resp.Kind)))
		}
		h.resolve(Outcome{Response: resp, Err: err})
	}()

	logger.Info("completion request submitted", slog.Int("prompt_bytes", len(prompt)))
	return h
}

// Stop cancels in-flight requests and waits for their workers to exit.
func (s *CompletionService) Stop() {
	s.cancel()
	s.wg.Wait()
}
