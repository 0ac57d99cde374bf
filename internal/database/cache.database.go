package database

import (
	"fmt"

	"rentdesk/config"

	"github.com/valkey-io/valkey-go"
)

// Valkey database indexes, one per cache category.
const (
	generalCacheIndex = iota
	sessionCacheIndex // bearer-token sessions
	userCacheIndex    // user profiles keyed by id
	propertyCacheIndex
	eventsCacheIndex // pub/sub for maintenance lifecycle events
)

func (s *DB) connectCaches(cfg config.Config) error {
	log := s.log.Function("connectCaches")

	if cfg.DatabaseCacheAddress == "" || cfg.DatabaseCachePort == 0 {
		return log.Error("cache address and port are required",
			"address", cfg.DatabaseCacheAddress, "port", cfg.DatabaseCachePort)
	}

	addr := fmt.Sprintf("%s:%d", cfg.DatabaseCacheAddress, cfg.DatabaseCachePort)

	for _, target := range []struct {
		name  string
		index int
		dest  *CacheClient
	}{
		{"general", generalCacheIndex, &s.Cache.General},
		{"session", sessionCacheIndex, &s.Cache.Session},
		{"user", userCacheIndex, &s.Cache.User},
		{"property", propertyCacheIndex, &s.Cache.Property},
		{"events", eventsCacheIndex, &s.Cache.Events},
	} {
		client, err := valkey.NewClient(valkey.ClientOption{
			InitAddress: []string{addr},
			SelectDB:    target.index,
		})
		if err != nil {
			return log.Err("failed to create valkey client", err, "cache", target.name)
		}
		*target.dest = client
	}

	log.Info("Cache connections established", "address", addr)
	return nil
}
