package server

import "github.com/jack-games/jackofhearts/internal/database"

type Config struct {
	Debug             bool   `envconfig:"JACK_DEBUG" default:"false"`
	Addr              string `envconfig:"JACK_ADDR" default:":3001"`
	ProfAddr          string `envconfig:"JACK_PROF_ADDR" default:""`
	FinishedCacheSize int    `envconfig:"JACK_FINISHED_CACHE_SIZE" default:"128"`
	Db                database.Config
}
