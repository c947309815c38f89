// Package config fills configuration structs from environment variables.
//
// Fields are described with caarlos0/env tags. Before parsing, Load reads the
// configured dotenv files (".env" by default) with godotenv; variables that
// are already set in the process environment win over file values and missing
// files are ignored.
//
//	type FeedConfig struct {
//	    Channel string `env:"FEED_CHANNEL" envDefault:"simulated"`
//	    Seed    bool   `env:"FEED_SEED" envDefault:"true"`
//	}
//
//	var cfg FeedConfig
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//
// There is no package-level cache: callers own the loaded values and pass
// them to the components they construct.
package config
