package cli

import (
	"database/sql"

	"github.com/redis/go-redis/v9"

	"blog/internal/config"
	"blog/internal/db"
	"blog/internal/store"
)

// stores wires the configured backends together for one command invocation.
type stores struct {
	db  *sql.DB
	rdb *redis.Client

	Posts    *store.PostStore
	Users    *store.UserStore
	Sessions store.SessionStore
}

func openStores(opts *RootOptions) (*stores, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	st := &stores{
		db:       database,
		Posts:    store.NewPostStore(database),
		Users:    store.NewUserStore(database),
		Sessions: store.NewSessionStoreDB(database),
	}
	if cfg.Sessions.Backend == config.BackendRedis {
		st.rdb = redis.NewClient(&redis.Options{Addr: cfg.Sessions.RedisAddr})
		st.Sessions = store.NewSessionStoreRedis(st.rdb, cfg.Sessions.RedisPrefix)
	}
	return st, nil
}

func (s *stores) Close() {
	if s.rdb != nil {
		s.rdb.Close()
	}
	s.db.Close()
}
