package simulated

import "time"

// Config controls the generator timing.
type Config struct {
	FirstDelay  time.Duration `env:"FEED_SIM_FIRST_DELAY" envDefault:"5s"`
	Interval    time.Duration `env:"FEED_SIM_INTERVAL" envDefault:"10s"`
	Probability float64       `env:"FEED_SIM_PROBABILITY" envDefault:"0.3"`
	BufferSize  int           `env:"FEED_SIM_BUFFER_SIZE" envDefault:"32"`
}

// DefaultConfig returns the configuration used when no environment is set.
func DefaultConfig() Config {
	return Config{
		FirstDelay:  5 * time.Second,
		Interval:    10 * time.Second,
		Probability: 0.3,
		BufferSize:  32,
	}
}

func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.FirstDelay < 0 {
		c.FirstDelay = 0
	}
	if c.Interval <= 0 {
		c.Interval = def.Interval
	}
	c.Probability = min(max(c.Probability, 0), 1)
	if c.BufferSize <= 0 {
		c.BufferSize = def.BufferSize
	}
	return c
}
