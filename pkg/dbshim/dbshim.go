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

package dbshim

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/solarisdb/commons/golibs/container/lru"
	"github.com/solarisdb/commons/golibs/deprecation"
	"github.com/solarisdb/commons/golibs/errors"
	"github.com/solarisdb/commons/golibs/logging"
)

type (
	// Config describes the database to connect to. Options are added to the
	// connection string as query parameters (sslmode, connect_timeout etc.)
	Config struct {
		Type     string            `json:"type"`
		Host     string            `json:"host"`
		Port     int               `json:"port"`
		Database string            `json:"database"`
		User     string            `json:"user"`
		Password string            `json:"password"`
		Options  map[string]string `json:"options"`
	}

	connKey struct {
		driver string
		dsn    string
	}
)

// DefaultMaxConnections is the number of *sql.DB handles kept open by GetConnection
const DefaultMaxConnections = 16

var (
	lock      sync.Mutex
	preferred = map[string]string{
		"postgres": "pgx",
	}
	aliases = map[string]string{
		"postgresql": "postgres",
		"pg":         "postgres",
	}

	poolOnce sync.Once
	pool     *lru.Cache[connKey, *sql.DB]
	poolErr  error
)

// SetPreferredDriver selects the database/sql driver used for the dbType. The driver
// must be registered already (see sql.Drivers()).
func SetPreferredDriver(dbType, driverName string) error {
	dbType, err := normalizeType(dbType)
	if err != nil {
		return err
	}
	if !slices.Contains(sql.Drivers(), driverName) {
		return fmt.Errorf("driver %q is not registered: %w", driverName, errors.ErrNotExist)
	}
	lock.Lock()
	preferred[dbType] = driverName
	lock.Unlock()
	return nil
}

// PreferredDriver returns the driver name used for the dbType
func PreferredDriver(dbType string) (string, error) {
	dbType, err := normalizeType(dbType)
	if err != nil {
		return "", err
	}
	lock.Lock()
	defer lock.Unlock()
	return preferred[dbType], nil
}

// DSN returns the connection string for the config
func (c Config) DSN() (string, error) {
	tp, err := normalizeType(c.Type)
	if err != nil {
		return "", err
	}
	switch tp {
	case "postgres":
		u := url.URL{Scheme: "postgres", Path: "/" + c.Database}
		host := c.Host
		if host == "" {
			host = "localhost"
		}
		if c.Port > 0 {
			host = net.JoinHostPort(host, strconv.Itoa(c.Port))
		}
		u.Host = host
		if c.User != "" {
			if c.Password != "" {
				u.User = url.UserPassword(c.User, c.Password)
			} else {
				u.User = url.User(c.User)
			}
		}
		if len(c.Options) > 0 {
			q := url.Values{}
			for k, v := range c.Options {
				q.Set(k, v)
			}
			u.RawQuery = q.Encode()
		}
		return u.String(), nil
	}
	return "", fmt.Errorf("unsupported database type %q: %w", c.Type, errors.ErrUnimplemented)
}

// GetConnection returns the *sql.DB for the config. Handles are reused for the
// same driver and connection string, the least recently used ones are closed when
// more than DefaultMaxConnections different databases are requested.
//
// The returned handle is owned by the pool: a later call for another database
// may evict and close it, so callers must not keep it, nor close it themselves.
// Call GetConnection every time the handle is needed.
//
// Deprecated: open the database with database/sql and the driver directly.
func GetConnection(ctx context.Context, cfg Config) (*sql.DB, error) {
	deprecation.Warn("dbshim.GetConnection is deprecated, use database/sql with the driver directly")
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}
	drv, err := PreferredDriver(cfg.Type)
	if err != nil {
		return nil, err
	}
	p, err := connPool()
	if err != nil {
		return nil, err
	}
	return p.GetOrCreate(connKey{driver: drv, dsn: dsn})
}

// Close closes all the handles opened by GetConnection and returns their number
func Close() int {
	p, err := connPool()
	if err != nil {
		return 0
	}
	return p.Clear()
}

func connPool() (*lru.Cache[connKey, *sql.DB], error) {
	poolOnce.Do(func() {
		logger := logging.NewLogger("dbshim")
		pool, poolErr = lru.NewCache[connKey, *sql.DB](DefaultMaxConnections,
			func(k connKey) (*sql.DB, error) {
				db, err := sql.Open(k.driver, k.dsn)
				if err != nil {
					return nil, fmt.Errorf("sql.Open(%s) failed: %w", k.driver, err)
				}
				return db, nil
			},
			func(k connKey, db *sql.DB) {
				if err := db.Close(); err != nil {
					logger.Warnf("could not close %s connection: %v", k.driver, err)
				}
			})
	})
	return pool, poolErr
}

func normalizeType(dbType string) (string, error) {
	tp := strings.ToLower(strings.TrimSpace(dbType))
	if a, ok := aliases[tp]; ok {
		tp = a
	}
	lock.Lock()
	_, ok := preferred[tp]
	lock.Unlock()
	if !ok {
		return "", fmt.Errorf("unknown database type %q: %w", dbType, errors.ErrInvalid)
	}
	return tp, nil
}
