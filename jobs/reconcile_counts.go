package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	// TaskTypeReconcileCounts recomputes denormalised post counters.
	TaskTypeReconcileCounts = "posts:reconcile_counts"
)

// NewReconcileCountsTask constructs an Asynq task for counter reconciliation.
// The task carries no payload; the same instance is re-enqueued by cron.
func NewReconcileCountsTask() *asynq.Task {
	return asynq.NewTask(TaskTypeReconcileCounts, nil, asynq.Queue(QueueDefault))
}

// CountsReconciler resets likes_count and comments_count from the source
// relation tables. Toggles keep the counters in step transactionally, so any
// drift this finds points at a bug or manual data surgery.
type CountsReconciler struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewCountsReconciler constructs a reconciler bound to the given pool.
func NewCountsReconciler(pool *pgxpool.Pool, logger *slog.Logger) *CountsReconciler {
	return &CountsReconciler{pool: pool, logger: logger}
}

// Handle processes TaskTypeReconcileCounts tasks.
func (c *CountsReconciler) Handle(ctx context.Context, t *asynq.Task) error {
	return c.Run(ctx)
}

// Run performs one reconciliation pass.
func (c *CountsReconciler) Run(ctx context.Context) error {
	if c.pool == nil {
		return nil
	}
	tag, err := c.pool.Exec(ctx, `
		UPDATE posts p
		SET likes_count = counted.likes, comments_count = counted.comments
		FROM (
			SELECT p2.id,
			       (SELECT COUNT(*) FROM post_likes l WHERE l.post_id = p2.id) AS likes,
			       (SELECT COUNT(*) FROM comments c WHERE c.post_id = p2.id) AS comments
			FROM posts p2
		) counted
		WHERE counted.id = p.id
		  AND (p.likes_count <> counted.likes OR p.comments_count <> counted.comments)`)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("reconcile counts", slog.Any("error", err))
		}
		return err
	}
	if c.logger != nil {
		if drifted := tag.RowsAffected(); drifted > 0 {
			c.logger.Warn("post counters drifted",
				slog.Int64("posts", drifted),
				slog.String("job", "reconcile_counts"))
		} else {
			c.logger.Info("post counters consistent", slog.String("job", "reconcile_counts"))
		}
	}
	return nil
}
