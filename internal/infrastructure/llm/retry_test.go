package llm

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"face-assess-bot/internal/domain/entity"
)

func fastPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, Backoff: time.Millisecond, Timeout: time.Second}
}

func TestRetryPolicy_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	out, err := fastPolicy().do(context.Background(), "test", "analyze", func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("temporary")
		}
		return "ok", nil
	})

	require.NoError(t, err)
	require.Equal(t, "ok", out)
	require.Equal(t, 3, calls)
}

func TestRetryPolicy_ExhaustsAttempts(t *testing.T) {
	calls := 0
	_, err := fastPolicy().do(context.Background(), "test", "generate", func(context.Context) (string, error) {
		calls++
		return "", errors.New("boom")
	})

	require.Equal(t, 3, calls)
	var pf *entity.ExternalProviderFailure
	require.ErrorAs(t, err, &pf)
	require.Equal(t, "test", pf.Provider)
	require.Equal(t, "generate", pf.Op)
	require.EqualError(t, pf.Err, "boom")
}

func TestRetryPolicy_EmptyResponseIsRetried(t *testing.T) {
	calls := 0
	_, err := fastPolicy().do(context.Background(), "test", "analyze", func(context.Context) (string, error) {
		calls++
		return "  \n", nil
	})

	require.Error(t, err)
	require.Equal(t, 3, calls)
}

func TestRetryPolicy_TerminalStatus(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusUnauthorized} {
		calls := 0
		_, err := fastPolicy().do(context.Background(), "test", "analyze", func(context.Context) (string, error) {
			calls++
			return "", &entity.ExternalProviderFailure{Provider: "test", Op: "analyze", StatusCode: status, Err: errors.New("rejected")}
		})

		require.Error(t, err)
		require.Equal(t, 1, calls, "status %d", status)
		require.True(t, entity.IsProviderFailure(err))
	}
}

func TestRetryPolicy_AttemptTimeout(t *testing.T) {
	policy := RetryPolicy{Attempts: 1, Timeout: 10 * time.Millisecond}

	_, err := policy.do(context.Background(), "test", "analyze", func(ctx context.Context) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})

	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRetryPolicy_CancelledContextStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	_, err := fastPolicy().do(ctx, "test", "analyze", func(context.Context) (string, error) {
		calls++
		cancel()
		return "", errors.New("boom")
	})

	require.Error(t, err)
	require.Equal(t, 1, calls)
}

func TestRetryPolicy_Limiter(t *testing.T) {
	policy := fastPolicy()
	policy.Limiter = NewLimiter(20 * time.Millisecond)

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := policy.do(context.Background(), "test", "analyze", func(context.Context) (string, error) {
			return "ok", nil
		})
		require.NoError(t, err)
	}
	require.GreaterOrEqual(t, time.Since(start), 35*time.Millisecond)
	require.Nil(t, NewLimiter(0))
}

func TestPrompts(t *testing.T) {
	p := Prompts{Report: "Write a report.\n{{assessment}}\nEnd.", Disclaimer: "For reference only."}

	require.Equal(t, "Write a report.\nskin is dry\nEnd.", p.report("skin is dry"))
	require.Equal(t, "body\n\n---\n\nFor reference only.", p.withDisclaimer("body"))

	p = Prompts{Report: "Write a report."}
	require.Equal(t, "Write a report.\n\nskin is dry", p.report("skin is dry"))
	require.Equal(t, "body", p.withDisclaimer("body"))
}
