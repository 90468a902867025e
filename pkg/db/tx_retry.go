package db

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
	"gorm.io/gorm"
)

const (
	txRetryInitialBackoff = 50 * time.Millisecond
	txRetryMaxRetries     = 3
)

// WithTxRetry runs fn inside a transaction and retries the whole transaction
// when Postgres aborts it with a serialization failure or deadlock. Any other
// error is returned as-is.
func (c *Client) WithTxRetry(ctx context.Context, fn func(tx *gorm.DB) error) error {
	backoff := retry.WithMaxRetries(txRetryMaxRetries, retry.NewFibonacci(txRetryInitialBackoff))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := c.WithTx(ctx, fn)
		if err == nil {
			return nil
		}
		if IsRetryableTxError(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}
