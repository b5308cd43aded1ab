package usecase

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	cache "go-parley/internal/infrastructure/cache/port"
	repository "go-parley/internal/pkg/user/repository/port"
)

const presenceCacheTTL = 24 * time.Hour

// UpdatePresenceInput records an online/offline transition for a user.
type UpdatePresenceInput struct {
	UserID int64
	Online bool
}

// UpdatePresenceUseCase persists presence flips. The database row is the
// durable record; the cache write is best-effort and a failure there only
// logs, it never fails the transition.
type UpdatePresenceUseCase struct {
	Users  repository.UserRepository
	Cache  cache.Cache
	Logger *zap.SugaredLogger
}

func NewUpdatePresenceUseCase(users repository.UserRepository, c cache.Cache, logger *zap.SugaredLogger) *UpdatePresenceUseCase {
	return &UpdatePresenceUseCase{Users: users, Cache: c, Logger: logger}
}

func (uc *UpdatePresenceUseCase) Execute(ctx context.Context, in UpdatePresenceInput) error {
	if err := uc.Users.UpdatePresence(ctx, in.UserID, in.Online); err != nil {
		return err
	}

	if uc.Cache != nil {
		key := presenceKey(in.UserID)
		var err error
		if in.Online {
			err = uc.Cache.Set(ctx, key, "1", presenceCacheTTL)
		} else {
			_, err = uc.Cache.Del(ctx, key)
		}
		if err != nil {
			uc.Logger.Warnw("presence cache update failed", "user_id", in.UserID, "err", err)
		}
	}
	return nil
}

// IsOnline reads the cached presence flag, falling back to the database row
// when the cache misses or fails.
func (uc *UpdatePresenceUseCase) IsOnline(ctx context.Context, userID int64) (bool, error) {
	if uc.Cache != nil {
		val, err := uc.Cache.Get(ctx, presenceKey(userID))
		if err == nil {
			return val == "1", nil
		}
	}
	u, err := uc.Users.FindByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return u.IsOnline, nil
}

func presenceKey(userID int64) string {
	return "presence:user:" + strconv.FormatInt(userID, 10)
}
