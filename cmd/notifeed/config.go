package main

import (
	"time"

	"github.com/dmitrymomot/notifeed/pkg/httpserver"
	"github.com/dmitrymomot/notifeed/pkg/notifications/redischannel"
	"github.com/dmitrymomot/notifeed/pkg/notifications/simulated"
	"github.com/dmitrymomot/notifeed/pkg/redis"
)

const (
	channelSimulated = "simulated"
	channelRedis     = "redis"
)

type appConfig struct {
	Env         string        `env:"APP_ENV" envDefault:"development"`
	ServiceName string        `env:"SERVICE_NAME" envDefault:"notifeed"`
	LogLevel    string        `env:"LOG_LEVEL"` // overrides the APP_ENV preset
	Channel     string        `env:"FEED_CHANNEL" envDefault:"simulated"`
	Seed        bool          `env:"FEED_SEED" envDefault:"true"`
	Timezone    string        `env:"FEED_TIMEZONE" envDefault:"UTC"`
	StopTimeout time.Duration `env:"FEED_STOP_TIMEOUT" envDefault:"5s"`

	HTTP         httpserver.Config
	Redis        redis.Config
	Simulated    simulated.Config
	RedisChannel redischannel.Config
}
