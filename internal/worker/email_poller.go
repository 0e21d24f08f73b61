package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/supportdesk/inquiry-service/internal/ingest"
)

const pollRunTimeout = 5 * time.Minute

// StartEmailPoller registers the recurring mailbox poll on the given cron
// runner. The schedule uses cron syntax, e.g. "@every 1m".
func StartEmailPoller(c *cron.Cron, schedule string, processor *ingest.Processor, logger *zap.Logger) error {
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), pollRunTimeout)
		defer cancel()
		processor.Run(ctx)
	})
	if err != nil {
		return err
	}
	logger.Info("email poller scheduled", zap.String("schedule", schedule))
	return nil
}
