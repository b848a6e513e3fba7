package config

import (
	"errors"
	"io/fs"
	"os"
)

// Init loads app.yml from the directory named by CONFIG_DIR (default ".").
// Unlike LoadConfig, the file must exist.
func Init() (*Config, error) {
	v := newViper()
	v.SetDefault("config_dir", ".")

	v.AddConfigPath(v.GetString("config_dir"))
	v.SetConfigName("app")
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	return load(v)
}

func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || os.IsNotExist(err)
}
