package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shelfwatch/shelfwatch/internal/domain"
)

const settingsKey = "shelfwatch:settings"

type settingsRepository struct {
	client *redis.Client
}

func NewSettingsRepository(client *redis.Client) domain.SettingsRepository {
	return &settingsRepository{
		client: client,
	}
}

// Get returns the stored settings, or the defaults when nothing has been
// stored yet. Defaults are not written back; the record appears on first
// Merge.
func (r *settingsRepository) Get(ctx context.Context) (*domain.NotificationSettings, error) {
	data, err := r.client.Get(ctx, settingsKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			defaults := domain.DefaultSettings()
			return &defaults, nil
		}
		return nil, err
	}

	var settings domain.NotificationSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, ErrInvalidSettingsData
	}

	return &settings, nil
}

func (r *settingsRepository) Merge(ctx context.Context, patch *domain.SettingsPatch) (*domain.NotificationSettings, error) {
	if patch == nil {
		return nil, ErrInvalidSettingsData
	}

	settings, err := r.Get(ctx)
	if err != nil {
		return nil, err
	}

	patch.Apply(settings)
	settings.UpdatedAt = time.Now()

	if err := r.save(ctx, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

func (r *settingsRepository) Reset(ctx context.Context) (*domain.NotificationSettings, error) {
	defaults := domain.DefaultSettings()
	defaults.UpdatedAt = time.Now()

	if err := r.save(ctx, &defaults); err != nil {
		return nil, err
	}

	return &defaults, nil
}

func (r *settingsRepository) save(ctx context.Context, settings *domain.NotificationSettings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return ErrInvalidSettingsData
	}

	return r.client.Set(ctx, settingsKey, data, 0).Err()
}
