package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadFallsBackOnMalformedInts(t *testing.T) {
	t.Setenv("BCRYPT_COST", "not-a-number")
	t.Setenv("REDIS_DB", "2.5")

	cfg := Load()

	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, 0, cfg.Redis.DB)
}

func TestLoadParsesIntOverrides(t *testing.T) {
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("REDIS_DB", "3")

	cfg := Load()

	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, 3, cfg.Redis.DB)
}
