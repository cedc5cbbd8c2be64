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

// Package cli contains the commons command line tool, which exposes the file,
// locking and key-value storage helpers of the library as shell commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"
	"github.com/solarisdb/commons/golibs/errors"
	"github.com/solarisdb/commons/golibs/logging"
	lrlogging "github.com/solarisdb/commons/golibs/logging/logrus"
	"github.com/spf13/cobra"
	"google.golang.org/grpc/codes"
)

type (
	app struct {
		cfgFile     string
		secretsFile string
		logLevel    string
		logBackend  string

		cfg    *Config
		out    io.Writer
		errOut io.Writer
		logger logging.Logger
	}

	// exitStatusError is returned by the commands which run a shell command
	// completed with a non-zero exit code
	exitStatusError struct {
		status int
	}
)

// stdLogConfig keeps the logging settings installed by default
var stdLogConfig = logging.GetConfig()

func (e exitStatusError) Error() string {
	return fmt.Sprintf("exit status %d", e.status)
}

// Execute runs the command line tool with the args and returns the process exit code
func Execute(ctx context.Context, args []string) int {
	return execute(ctx, args, os.Stdout, os.Stderr)
}

func execute(ctx context.Context, args []string, out, errOut io.Writer) int {
	root := newRootCmd(out, errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var ese exitStatusError
	if errors.As(err, &ese) {
		return ese.status
	}
	if code := errors.Code(err); code != codes.Internal {
		fmt.Fprintf(errOut, "Error: %v (%s)\n", err, code)
	} else {
		fmt.Fprintf(errOut, "Error: %v\n", err)
	}
	return 1
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}
	root := &cobra.Command{
		Use:           "commons",
		Short:         "File, lock and key-value storage helpers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (.json, .yaml or .yml)")
	root.PersistentFlags().StringVar(&a.secretsFile, "secrets", "", "JSON file with the secret settings, e.g. {\"KVS_REDISPASSWORD\": \"...\"}")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "logging level: error, warn, info, debug or trace")
	root.PersistentFlags().StringVar(&a.logBackend, "log-backend", "", "logger implementation: std or logrus")

	root.AddCommand(a.newFindCmd(), a.newCopyCmd(), a.newMoveCmd(), a.newRemoveCmd(),
		a.newUnzipCmd(), a.newExecCmd(), a.newLockCmd(), a.newHashCmd(), a.newKVCmd())
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := BuildConfig(a.cfgFile, a.secretsFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if cmd.Flags().Changed("log-backend") {
		cfg.Log.Backend = a.logBackend
	}
	if err := cfg.validate(); err != nil {
		return err
	}
	a.cfg = cfg
	if err := a.setupLogging(); err != nil {
		return err
	}
	a.logger = logging.NewLogger("commons")
	if logging.GetLevel() >= logging.DEBUG {
		a.logger.Debugf("config: %s", spew.Sdump(cfg))
	}
	return nil
}

func (a *app) setupLogging() error {
	lvl, err := logging.ParseLevel(a.cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("%s: %w", err, errors.ErrInvalid)
	}
	switch a.cfg.Log.Backend {
	case backendLogrus:
		l := logrus.New()
		l.SetOutput(a.errOut)
		lrlogging.Install(l)
	default:
		logging.SetConfig(stdLogConfig)
		logging.SetStdOutput(a.errOut)
	}
	logging.SetLevel(lvl)
	return nil
}

func joinArgs(args []string) string {
	return strings.Join(args, " ")
}
