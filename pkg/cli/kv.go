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
	"context"
	"fmt"
	"path/filepath"

	"github.com/go-redis/redis/v8"
	"github.com/logrange/linker"
	"github.com/solarisdb/commons/golibs/files"
	"github.com/solarisdb/commons/golibs/kvs"
	"github.com/solarisdb/commons/golibs/kvs/buntdb"
	"github.com/solarisdb/commons/golibs/kvs/cached"
	"github.com/solarisdb/commons/golibs/kvs/inmem"
	kvsredis "github.com/solarisdb/commons/golibs/kvs/redis"
	"github.com/spf13/cobra"
)

type kvService struct {
	Storage kvs.Storage `inject:""`
}

func (a *app) newKVCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kv",
		Short: "Work with the key-value storage",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Print the record value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStorage(cmd.Context(), func(ctx context.Context, s kvs.Storage) error {
				r, err := s.Get(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, string(r.Value))
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "put <key> <value>",
		Short: "Write the record and print its new version",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStorage(cmd.Context(), func(ctx context.Context, s kvs.Storage) error {
				r, err := s.Put(ctx, kvs.Record{Key: args[0], Value: []byte(args[1])})
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, r.Version)
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "del <key>",
		Short: "Delete the record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStorage(cmd.Context(), func(ctx context.Context, s kvs.Storage) error {
				return s.Delete(ctx, args[0])
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list [pattern]",
		Short: "Print the keys matching the pattern, all keys by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := "*"
			if len(args) > 0 {
				pattern = args[0]
			}
			return a.withStorage(cmd.Context(), func(ctx context.Context, s kvs.Storage) error {
				keys, err := s.ListKeys(ctx, pattern)
				if err != nil {
					return err
				}
				for _, k := range keys {
					fmt.Fprintln(a.out, k)
				}
				return nil
			})
		},
	})
	return cmd
}

// withStorage builds the storage components with the linker, calls fn and
// shuts the components down.
func (a *app) withStorage(ctx context.Context, fn func(ctx context.Context, s kvs.Storage) error) error {
	st, err := a.newStorage()
	if err != nil {
		return err
	}
	svc := &kvService{}
	inj := linker.New()
	inj.Register(linker.Component{Name: "", Value: st})
	inj.Register(linker.Component{Name: "", Value: svc})
	if err := initComponents(ctx, inj); err != nil {
		return err
	}
	defer inj.Shutdown()
	return fn(ctx, svc.Storage)
}

// initComponents turns the linker initialization panic into the error
func initComponents(ctx context.Context, inj *linker.Injector) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("could not initialize the components: %v", r)
		}
	}()
	inj.Init(ctx)
	return nil
}

func (a *app) newStorage() (*cached.Storage, error) {
	var st kvs.Storage
	cfg := a.cfg.KVS
	switch cfg.Backend {
	case kvsInMem:
		st = inmem.New()
	case kvsRedis:
		st = kvsredis.New(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	default:
		if cfg.DBFilePath != "" {
			if err := files.EnsureDirExists(filepath.Dir(cfg.DBFilePath)); err != nil {
				return nil, err
			}
		}
		st = buntdb.New(buntdb.Config{DBFilePath: cfg.DBFilePath})
	}
	a.logger.Debugf("using %s kv storage", cfg.Backend)
	return cached.New(st, cfg.CacheSize)
}
