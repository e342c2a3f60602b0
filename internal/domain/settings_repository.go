package domain

import "context"

//go:generate mockgen -source=settings_repository.go -destination=settings_repository_mock.go -package=domain

// SettingsRepository holds the NotificationSettings singleton. Get returns
// defaults when nothing has been stored yet; the record is never deleted, only
// reset.
type SettingsRepository interface {
	Get(ctx context.Context) (*NotificationSettings, error)
	Merge(ctx context.Context, patch *SettingsPatch) (*NotificationSettings, error)
	Reset(ctx context.Context) (*NotificationSettings, error)
}
