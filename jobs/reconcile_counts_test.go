package jobs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReconcileCountsTask(t *testing.T) {
	task := NewReconcileCountsTask()
	require.Equal(t, TaskTypeReconcileCounts, task.Type())
	// Cron re-enqueues the same task instance, so it must carry no
	// point-in-time payload that would go stale between firings.
	require.Empty(t, task.Payload())
}

func TestCountsReconcilerWithoutPool(t *testing.T) {
	reconciler := NewCountsReconciler(nil, nil)
	require.NoError(t, reconciler.Handle(context.Background(), NewReconcileCountsTask()))
}
