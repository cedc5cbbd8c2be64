// Copyright 2024 The Solaris Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/solarisdb/commons/golibs/config"
	"github.com/solarisdb/commons/golibs/errors"
	"github.com/solarisdb/commons/golibs/logging"
)

type (
	// Config defines the command line tool configuration
	Config struct {
		// Log contains the logging settings
		Log LogConfig
		// KVS specifies the key-value storage used by the kv commands
		KVS KVSConfig
		// Lock contains the lock command settings
		Lock LockConfig
	}

	// LogConfig specifies the logging level and the logger implementation
	LogConfig struct {
		// Level is one of error, warn, info, debug or trace
		Level string
		// Backend is std or logrus
		Backend string
	}

	// KVSConfig describes the kv storage
	KVSConfig struct {
		// Backend is one of inmem, buntdb or redis
		Backend string
		// DBFilePath is the BuntDB file, the in-memory database is used if it is empty
		DBFilePath string
		// RedisAddr is the host:port of the Redis server
		RedisAddr     string
		RedisPassword string
		RedisDB       int
		// CacheSize is the number of records cached by the storage
		CacheSize int
	}

	// LockConfig describes where the lock files are created
	LockConfig struct {
		// Dir is the directory for the lock files
		Dir string
		// Delay is the pause between the attempts to acquire a busy lock (time.ParseDuration format)
		Delay string
	}
)

const (
	envPrefix = "COMMONS"

	backendStd    = "std"
	backendLogrus = "logrus"

	kvsInMem  = "inmem"
	kvsBuntDB = "buntdb"
	kvsRedis  = "redis"
)

// getDefaultConfig returns the default config
func getDefaultConfig() Config {
	return Config{
		Log: LogConfig{Level: logging.INFO.String(), Backend: backendStd},
		KVS: KVSConfig{
			Backend:    kvsBuntDB,
			DBFilePath: filepath.Join(os.TempDir(), "commons", "kvs.db"),
			RedisAddr:  "localhost:6379",
			CacheSize:  100,
		},
		Lock: LockConfig{Dir: os.TempDir(), Delay: "100ms"},
	}
}

// BuildConfig builds the config from the defaults, the cfgFile (if specified), the
// COMMONS_* environment variables and the secretsFile (if specified).
func BuildConfig(cfgFile, secretsFile string) (*Config, error) {
	cfg, err := config.Load(getDefaultConfig(), config.Sources{File: cfgFile, EnvPrefix: envPrefix, SecretsFile: secretsFile})
	if err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LockDelay returns the Lock.Delay value
func (c *Config) LockDelay() time.Duration {
	d, _ := time.ParseDuration(c.Lock.Delay)
	return d
}

// String implements fmt.Stringify interface in a pretty console form
func (c *Config) String() string {
	cc := *c
	if cc.KVS.RedisPassword != "" {
		cc.KVS.RedisPassword = "****"
	}
	b, _ := json.MarshalIndent(cc, "", "  ")
	return string(b)
}

func (c *Config) validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Backend {
	case backendStd, backendLogrus:
	default:
		return fmt.Errorf("unknown log backend %q, expecting %s or %s: %w", c.Log.Backend, backendStd, backendLogrus, errors.ErrInvalid)
	}
	switch c.KVS.Backend {
	case kvsInMem, kvsBuntDB, kvsRedis:
	default:
		return fmt.Errorf("unknown kvs backend %q: %w", c.KVS.Backend, errors.ErrInvalid)
	}
	if c.KVS.CacheSize < 0 {
		return fmt.Errorf("kvs cache size must be non-negative, but it is %d: %w", c.KVS.CacheSize, errors.ErrInvalid)
	}
	if d, err := time.ParseDuration(c.Lock.Delay); err != nil || d < 0 {
		return fmt.Errorf("invalid lock delay %q: %w", c.Lock.Delay, errors.ErrInvalid)
	}
	return nil
}
