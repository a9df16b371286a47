package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/webshop/internal/logging"
	"github.com/Skotchmaster/webshop/internal/mykafka"
	"github.com/Skotchmaster/webshop/internal/repo"
)

func publish(ctx context.Context, p mykafka.Publisher, topic, key string, event map[string]any) {
	if p == nil {
		return
	}
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Warn("kafka_publish_failed", "topic", topic, "type", event["type"], "error", err)
	}
}

// storageErr tags store errors with the service sentinel they correspond to.
func storageErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case repo.IsDuplicate(err):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	default:
		return err
	}
}
