package database

type Config struct {
	FilePath string `envconfig:"JACK_DB_FILE_PATH" default:"jackofhearts.db"`
}
