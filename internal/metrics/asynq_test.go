package metrics

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/hibiken/asynq"
)

func TestTaskResult(t *testing.T) {
	cases := map[string]error{
		"ok":      nil,
		"dropped": fmt.Errorf("decode payload: %w", asynq.SkipRetry),
		"retry":   errors.New("chrome crashed"),
	}
	for want, err := range cases {
		if got := taskResult(err); got != want {
			t.Fatalf("taskResult(%v) = %q, want %q", err, got, want)
		}
	}
}

func TestAsynqMetricsMiddlewarePassesError(t *testing.T) {
	boom := errors.New("boom")
	handler := AsynqMetricsMiddleware()(asynq.HandlerFunc(func(context.Context, *asynq.Task) error {
		return boom
	}))

	if err := handler.ProcessTask(context.Background(), asynq.NewTask("resume:export", nil)); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}
