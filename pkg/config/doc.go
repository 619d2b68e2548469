// Package config loads configuration structs from environment variables
// using `env` and `envDefault` struct tags, with optional .env file support
// for local development.
//
//	type AppConfig struct {
//		Secret string `env:"APP_SECRET,required"`
//		Port   int    `env:"PORT" envDefault:"8080"`
//	}
//
//	var cfg AppConfig
//	config.MustLoad(&cfg)
//
// Each configuration type is parsed once per process and cached; repeated
// loads of the same type return the cached copy.
package config
