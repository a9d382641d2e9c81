// Package usecase implements merchant classification. The classifier keeps a
// read-only in-memory snapshot of the merchant directory so the payment path
// never waits on the database for a known merchant.
package usecase

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	benefitDomain "github.com/allisson/cardpay/internal/benefit/domain"
	apperrors "github.com/allisson/cardpay/internal/errors"
	merchantDomain "github.com/allisson/cardpay/internal/merchant/domain"
)

// MerchantRepository defines merchant directory persistence operations.
type MerchantRepository interface {
	// ListAll returns the whole directory for snapshot building.
	ListAll(ctx context.Context) ([]*merchantDomain.Merchant, error)

	// GetByName resolves one merchant by its normalized name.
	GetByName(ctx context.Context, name string) (*merchantDomain.Merchant, error)
}

// Classifier resolves a payment's merchant name into the classification rule
// matching consumes. Unknown merchants classify to the zero value, which
// still matches all-merchant rules.
type Classifier interface {
	// Classify resolves a merchant name. It never fails a payment: an
	// unknown merchant returns the zero classification and a nil error.
	Classify(ctx context.Context, name string) (benefitDomain.Classification, error)

	// Refresh rebuilds the snapshot from the database.
	Refresh(ctx context.Context) error

	// Start runs the periodic snapshot refresh until the context ends.
	Start(ctx context.Context) error
}

// classifier implements Classifier with a copy-on-refresh snapshot. Reads go
// through an atomic pointer so refresh never blocks classification.
type classifier struct {
	repo     MerchantRepository
	interval time.Duration
	logger   *slog.Logger

	snapshot atomic.Pointer[map[string]benefitDomain.Classification]
	missGrp  singleflight.Group
}

// NewClassifier creates a merchant classifier refreshing every interval.
func NewClassifier(repo MerchantRepository, interval time.Duration, logger *slog.Logger) Classifier {
	c := &classifier{
		repo:     repo,
		interval: interval,
		logger:   logger,
	}
	empty := map[string]benefitDomain.Classification{}
	c.snapshot.Store(&empty)
	return c
}

// Classify resolves a merchant name against the snapshot, falling back to a
// single-flight database lookup on a miss so a newly registered merchant is
// usable before the next refresh.
func (c *classifier) Classify(ctx context.Context, name string) (benefitDomain.Classification, error) {
	key := merchantDomain.NormalizeName(name)
	if key == "" {
		return benefitDomain.Classification{}, nil
	}

	if class, ok := (*c.snapshot.Load())[key]; ok {
		return class, nil
	}

	// Concurrent misses for the same merchant collapse into one query.
	result, err, _ := c.missGrp.Do(key, func() (any, error) {
		merchant, err := c.repo.GetByName(ctx, key)
		if err != nil {
			return nil, err
		}
		return merchant.Classification(), nil
	})
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return benefitDomain.Classification{}, nil
		}
		return benefitDomain.Classification{}, err
	}

	return result.(benefitDomain.Classification), nil
}

// Refresh rebuilds the snapshot from the database and swaps it in atomically.
func (c *classifier) Refresh(ctx context.Context) error {
	merchants, err := c.repo.ListAll(ctx)
	if err != nil {
		return apperrors.Wrap(err, "failed to refresh merchant snapshot")
	}

	next := make(map[string]benefitDomain.Classification, len(merchants))
	for _, merchant := range merchants {
		next[merchantDomain.NormalizeName(merchant.Name)] = merchant.Classification()
	}
	c.snapshot.Store(&next)

	if c.logger != nil {
		c.logger.Info("merchant snapshot refreshed", slog.Int("merchants", len(next)))
	}

	return nil
}

// Start loads the initial snapshot and refreshes it periodically until the
// context ends. A failed refresh keeps serving the previous snapshot.
func (c *classifier) Start(ctx context.Context) error {
	if c.logger != nil {
		c.logger.Info("starting merchant snapshot refresher",
			slog.Duration("interval", c.interval),
		)
	}

	if err := c.Refresh(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if c.logger != nil {
				c.logger.Info("stopping merchant snapshot refresher")
			}
			return ctx.Err()
		case <-ticker.C:
			if err := c.Refresh(ctx); err != nil {
				if c.logger != nil {
					c.logger.Error("failed to refresh merchant snapshot", slog.Any("error", err))
				}
			}
		}
	}
}
