package app

import (
	"fmt"

	"github.com/bundasehat/screening-backend/internal/clients/redis"
	"github.com/bundasehat/screening-backend/internal/platform/gcp"
	"github.com/bundasehat/screening-backend/internal/platform/gemini"
	"github.com/bundasehat/screening-backend/internal/platform/logger"
)

// Clients holds the optional external integrations. A nil field means the
// integration is not configured and the dependent feature degrades.
type Clients struct {
	Bucket gcp.BucketService
	Model  gemini.Client
	Locker redis.Locker

	closers []func() error
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var c Clients

	// Redis
	if cfg.Redis.Addr != "" {
		locker, closeFn, err := redis.NewLocker(log, cfg.redisConfig())
		if err != nil {
			return Clients{}, fmt.Errorf("init redis locker: %w", err)
		}
		c.Locker = locker
		c.closers = append(c.closers, closeFn)
	} else {
		log.Info("REDIS_ADDR not set; evaluation dedupe is per instance only")
	}

	// Gcs
	if storageCfg, ok := gcp.StorageConfigFromEnv(); ok {
		bucket, err := gcp.NewBucketService(log, storageCfg)
		if err != nil {
			c.Close()
			return Clients{}, fmt.Errorf("init bucket client: %w", err)
		}
		c.Bucket = bucket
		c.closers = append(c.closers, bucket.Close)
	} else {
		log.Info("No GCS buckets configured; avatars and media uploads are disabled")
	}

	// Gemini
	if cfg.Gemini.APIKey != "" {
		model, err := gemini.NewClient(log, cfg.geminiConfig())
		if err != nil {
			c.Close()
			return Clients{}, fmt.Errorf("init gemini client: %w", err)
		}
		c.Model = model
	} else {
		log.Warn("GEMINI_API_KEY not set; every evaluation will use the fallback result")
	}

	return c, nil
}

func (c *Clients) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		_ = c.closers[i]()
	}
	c.closers = nil
}
