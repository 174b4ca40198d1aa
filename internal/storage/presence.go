package storage

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"chatter/backend/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	onlineSetKey      = "presence:online"
	lastSeenKeyFmt    = "presence:last_seen:%d"
	lastSeenRetention = 30 * 24 * time.Hour
)

// SetOnline updates the Redis presence cache for one user. On every
// transition the last-seen timestamp is refreshed as well, so the REST
// surface can answer "last seen at" for offline users.
func (s *Service) SetOnline(userID uint, online bool) error {
	member := strconv.FormatUint(uint64(userID), 10)

	var err error
	if online {
		err = s.Redis.SAdd(s.Ctx, onlineSetKey, member).Err()
	} else {
		err = s.Redis.SRem(s.Ctx, onlineSetKey, member).Err()
	}
	if err != nil {
		return err
	}

	key := fmt.Sprintf(lastSeenKeyFmt, userID)
	return s.Redis.Set(s.Ctx, key, time.Now().Unix(), lastSeenRetention).Err()
}

// Presence reads one user's cached online state. A user never seen by
// the cache is reported offline with no last-seen timestamp.
func (s *Service) Presence(userID uint) (models.Presence, error) {
	member := strconv.FormatUint(uint64(userID), 10)

	online, err := s.Redis.SIsMember(s.Ctx, onlineSetKey, member).Result()
	if err != nil {
		return models.Presence{}, err
	}

	key := fmt.Sprintf(lastSeenKeyFmt, userID)
	raw, err := s.Redis.Get(s.Ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return models.Presence{IsOnline: online}, nil
	}
	if err != nil {
		return models.Presence{}, err
	}

	unix, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return models.Presence{IsOnline: online}, nil
	}
	lastSeen := time.Unix(unix, 0)
	return models.Presence{IsOnline: online, LastSeen: &lastSeen}, nil
}
