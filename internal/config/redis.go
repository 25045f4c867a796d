package config

import (
	"fmt"
	"time"
)

// RedisConfig содержит настройки подключения к Redis.
type RedisConfig struct {
	Host     string `yaml:"host" env:"NOTEDECK_REDIS_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"NOTEDECK_REDIS_PORT" env-default:"6379"`
	Password string `yaml:"password" env:"NOTEDECK_REDIS_PASSWORD" env-default:""`
	DB       int    `yaml:"db" env:"NOTEDECK_REDIS_DB" env-default:"0"`
	PoolSize int    `yaml:"pool_size" env:"NOTEDECK_REDIS_POOL_SIZE" env-default:"10"`
	Timeout  int    `yaml:"timeout" env:"NOTEDECK_REDIS_TIMEOUT" env-default:"5"`
}

// GetAddressString возвращает адрес Redis в формате host:port.
func (r *RedisConfig) GetAddressString() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// GetTimeout возвращает timeout как time.Duration.
func (r *RedisConfig) GetTimeout() time.Duration {
	return time.Duration(r.Timeout) * time.Second
}
