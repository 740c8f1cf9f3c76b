package config

import "time"

type StoreConfig interface {
	GetDatabaseURL() string
	GetStoreTimeout() time.Duration
}

type Store struct{}

var _ StoreConfig = Store{}

func (Store) GetDatabaseURL() string {
	return GetEnv("DATABASE_URL", "postgres://localhost:5432/partnerauth?sslmode=disable")
}

func (Store) GetStoreTimeout() time.Duration {
	return 3 * time.Second
}
