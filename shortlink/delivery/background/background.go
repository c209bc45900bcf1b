package background

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/superj80820/url-shortener/domain"
	loggerKit "github.com/superj80820/url-shortener/kit/logger"
)

// RunAsyncExpirySweep sweeps once per interval until ctx is done. Sweep
// failures are logged by the sweeper and never stop the loop.
func RunAsyncExpirySweep(ctx context.Context, expirySweeperUseCase domain.ExpirySweeperUseCase, logger *loggerKit.Logger, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
				return errors.Wrap(err, "context done get error")
			}
			return nil
		case <-ticker.C:
			result := expirySweeperUseCase.RunSweepOnce(ctx)
			if result.Failed > 0 {
				logger.Warn("expiry sweep left rows behind", loggerKit.Int("failed", result.Failed))
			}
		}
	}
}
