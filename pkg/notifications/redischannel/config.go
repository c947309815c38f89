package redischannel

// Config selects the pub/sub channel to listen on.
type Config struct {
	Channel    string `env:"FEED_REDIS_CHANNEL" envDefault:"notifications"`
	BufferSize int    `env:"FEED_REDIS_BUFFER_SIZE" envDefault:"64"`
}
