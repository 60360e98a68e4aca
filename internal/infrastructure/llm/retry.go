package llm

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"face-assess-bot/internal/domain/entity"
)

// RetryPolicy повторяет вызов модели с паузой между попытками.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
	Timeout  time.Duration // на одну попытку
	Limiter  *rate.Limiter // nil: без ограничения частоты
}

// DefaultRetryPolicy три попытки по 30 секунд с паузой 2 секунды.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, Backoff: 2 * time.Second, Timeout: 30 * time.Second}
}

// NewLimiter возвращает ограничитель «один запрос в interval» или nil.
func NewLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

type callFunc func(ctx context.Context) (string, error)

// do выполняет call до Attempts раз. Ошибки 400 и 401 не повторяются.
// Итоговая ошибка всегда *entity.ExternalProviderFailure.
func (p RetryPolicy) do(ctx context.Context, provider, op string, call callFunc) (string, error) {
	attempts := max(1, p.Attempts)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if p.Limiter != nil {
			if err := p.Limiter.Wait(ctx); err != nil {
				return "", failure(provider, op, err)
			}
		}

		out, err := p.attempt(ctx, call)
		if err == nil && strings.TrimSpace(out) == "" {
			err = errors.New("empty response")
		}
		if err == nil {
			return out, nil
		}
		lastErr = err

		if isTerminal(err) {
			break
		}
		if ctx.Err() != nil {
			break
		}

		slog.Warn("Provider call failed",
			"provider", provider,
			"op", op,
			"attempt", attempt,
			"error", err,
		)

		if attempt < attempts && p.Backoff > 0 {
			select {
			case <-ctx.Done():
				return "", failure(provider, op, ctx.Err())
			case <-time.After(p.Backoff):
			}
		}
	}

	return "", failure(provider, op, lastErr)
}

func (p RetryPolicy) attempt(ctx context.Context, call callFunc) (string, error) {
	if p.Timeout <= 0 {
		return call(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()
	return call(ctx)
}

func failure(provider, op string, err error) error {
	var pf *entity.ExternalProviderFailure
	if errors.As(err, &pf) {
		return pf
	}
	return &entity.ExternalProviderFailure{Provider: provider, Op: op, Err: err}
}

func isTerminal(err error) bool {
	var pf *entity.ExternalProviderFailure
	if !errors.As(err, &pf) {
		return false
	}
	return pf.StatusCode == http.StatusBadRequest || pf.StatusCode == http.StatusUnauthorized
}
