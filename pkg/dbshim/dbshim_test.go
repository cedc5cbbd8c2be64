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
	"fmt"
	"testing"

	"github.com/solarisdb/commons/golibs/errors"
	"github.com/stretchr/testify/assert"
)

func TestConfig_DSN(t *testing.T) {
	dsn, err := Config{Type: "postgres", Host: "db", Port: 5432, Database: "app", User: "u", Password: "p@ss",
		Options: map[string]string{"sslmode": "disable"}}.DSN()
	assert.Nil(t, err)
	assert.Equal(t, "postgres://u:p%40ss@db:5432/app?sslmode=disable", dsn)

	dsn, err = Config{Type: "PostgreSQL", Database: "app"}.DSN()
	assert.Nil(t, err)
	assert.Equal(t, "postgres://localhost/app", dsn)

	_, err = Config{Type: "mysql"}.DSN()
	assert.ErrorIs(t, err, errors.ErrInvalid)
}

func TestPreferredDriver(t *testing.T) {
	drv, err := PreferredDriver("pg")
	assert.Nil(t, err)
	assert.Equal(t, "pgx", drv)

	_, err = PreferredDriver("oracle")
	assert.ErrorIs(t, err, errors.ErrInvalid)

	assert.ErrorIs(t, SetPreferredDriver("postgres", "psycopg"), errors.ErrNotExist)
	assert.ErrorIs(t, SetPreferredDriver("oracle", "pgx"), errors.ErrInvalid)
	assert.Nil(t, SetPreferredDriver("postgresql", "pgx"))
}

func TestGetConnection(t *testing.T) {
	defer Close()
	ctx := context.Background()
	cfg := Config{Type: "postgres", Host: "127.0.0.1", Port: 1, Database: "test"}

	db1, err := GetConnection(ctx, cfg)
	assert.Nil(t, err)
	assert.NotNil(t, db1)
	db2, err := GetConnection(ctx, cfg)
	assert.Nil(t, err)
	assert.Same(t, db1, db2)

	cfg.Database = "other"
	db3, err := GetConnection(ctx, cfg)
	assert.Nil(t, err)
	assert.NotSame(t, db1, db3)

	assert.Equal(t, 2, Close())
	assert.Equal(t, 0, Close())
}

func TestGetConnection_EvictionCloses(t *testing.T) {
	defer Close()
	ctx := context.Background()
	cfg := Config{Type: "postgres", Host: "127.0.0.1", Port: 1, Database: "db0"}
	first, err := GetConnection(ctx, cfg)
	assert.Nil(t, err)

	for i := 1; i <= DefaultMaxConnections; i++ {
		cfg.Database = fmt.Sprintf("db%d", i)
		_, err = GetConnection(ctx, cfg)
		assert.Nil(t, err)
	}
	assert.ErrorContains(t, first.PingContext(ctx), "database is closed")

	cfg.Database = "db0"
	db, err := GetConnection(ctx, cfg)
	assert.Nil(t, err)
	assert.NotSame(t, first, db)
}

func TestGetConnection_Errors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := GetConnection(ctx, Config{Type: "postgres"})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = GetConnection(context.Background(), Config{Type: "sqlite"})
	assert.ErrorIs(t, err, errors.ErrInvalid)
}
