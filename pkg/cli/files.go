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
	"fmt"
	"os"
	"strings"
	"time"

	cctx "github.com/solarisdb/commons/golibs/context"
	"github.com/solarisdb/commons/golibs/errors"
	"github.com/solarisdb/commons/golibs/files"
	"github.com/solarisdb/commons/golibs/strutil"
	"github.com/spf13/cobra"
)

func (a *app) newFindCmd() *cobra.Command {
	var (
		exts      []string
		exclude   bool
		blacklist []string
	)
	cmd := &cobra.Command{
		Use:   "find <dir>",
		Short: "List files in the directory tree filtered by extensions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(exts) == 0 {
				exclude = true
			}
			res, err := files.Find(args[0], exts, exclude, blacklist)
			if err != nil {
				return err
			}
			for _, p := range res {
				fmt.Fprintln(a.out, p)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&exts, "ext", "e", nil, "file name suffixes to select, all files if empty")
	cmd.Flags().BoolVarP(&exclude, "exclude", "x", false, "skip the files with the suffixes instead of selecting them")
	cmd.Flags().StringSliceVar(&blacklist, "blacklist", files.DefaultBlacklist, "directory names to skip")
	return cmd
}

func (a *app) newCopyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cp <source pattern> <destination>",
		Short: "Copy files and directories matching the pattern",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.logger.Debugf("copying %s to %s", args[0], args[1])
			return files.Copy(args[0], args[1])
		},
	}
}

func (a *app) newMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mv <source pattern> <destination>",
		Short: "Move files and directories matching the pattern",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.logger.Debugf("moving %s to %s", args[0], args[1])
			return files.Move(args[0], args[1])
		},
	}
}

func (a *app) newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <pattern>...",
		Short: "Remove files and directories matching the patterns",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return files.Remove(args...)
		},
	}
}

func (a *app) newUnzipCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unzip <zip file> <destination dir>",
		Short: "Extract the zip archive into the directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := files.EnsureDirExists(args[1]); err != nil {
				return err
			}
			return files.UnzipToFolder(args[0], args[1])
		},
	}
}

func (a *app) newExecCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exec <command>...",
		Short: "Run the shell command and print its output",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, joinArgs(args))
		},
	}
}

func (a *app) newLockCmd() *cobra.Command {
	var wait time.Duration
	cmd := &cobra.Command{
		Use:   "lock <name> <command>...",
		Short: "Run the shell command holding the named lock file",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cctx.WithCancelError(cmd.Context())
			defer cancel(nil)
			if wait > 0 {
				tmr := time.AfterFunc(wait, func() {
					cancel(fmt.Errorf("the lock is busy for %s: %w", wait, errors.ErrExhausted))
				})
				defer tmr.Stop()
			}
			l := files.NewLockProvider(a.cfg.Lock.Dir, a.cfg.LockDelay()).NewLocker(args[0])
			if err := l.LockWithCtx(ctx); err != nil {
				return fmt.Errorf("could not acquire lock %q: %w", args[0], err)
			}
			defer l.Unlock()
			return a.run(cmd, joinArgs(args[1:]))
		},
	}
	cmd.Flags().DurationVarP(&wait, "wait", "w", 0, "maximum time to wait for the lock, forever if 0")
	return cmd
}

func (a *app) newHashCmd() *cobra.Command {
	var (
		flat      bool
		blacklist []string
		check     string
	)
	cmd := &cobra.Command{
		Use:   "hash <path>...",
		Short: "Print the sha256 hashes of the files and directories content",
		Long: "Print the sha256 hashes of the files and directories content. A directory hash covers the\n" +
			"names and the data of its files. The hash of all the paths together is printed last if\n" +
			"there are several of them.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var expected strutil.Hash
			if check != "" {
				var err error
				if expected, err = strutil.ParseHash(check); err != nil {
					return err
				}
			}
			hashes := make([]strutil.Hash, 0, len(args))
			for _, p := range args {
				h, err := hashPath(p, !flat, blacklist)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "%s  %s\n", h, p)
				hashes = append(hashes, h)
			}
			total := hashes[0]
			if len(hashes) > 1 {
				total = strutil.SumHashes(hashes...)
				fmt.Fprintf(a.out, "%s  total\n", total)
			}
			if check != "" && total != expected {
				return fmt.Errorf("the hash is %s, but %s is expected: %w", total, expected, errors.ErrConflict)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&flat, "flat", false, "hash the files placed in the directories directly, skip the sub-directories")
	cmd.Flags().StringSliceVarP(&blacklist, "blacklist", "b", nil, "names of the files and directories to skip")
	cmd.Flags().StringVar(&check, "check", "", "fail if the resulting hash is not the one provided")
	return cmd
}

func hashPath(path string, recursive bool, blacklist []string) (strutil.Hash, error) {
	fi, err := os.Stat(path)
	if os.IsNotExist(err) {
		return strutil.Hash{}, fmt.Errorf("%s is not found: %w", path, errors.ErrNotExist)
	}
	if err != nil {
		return strutil.Hash{}, err
	}
	if fi.IsDir() {
		return files.HashDir(path, recursive, blacklist)
	}
	return files.HashFile(path)
}

func (a *app) run(cmd *cobra.Command, command string) error {
	a.logger.Debugf("executing %q", command)
	res, err := files.Execute(cmd.Context(), command)
	fmt.Fprint(a.out, res.Out)
	fmt.Fprint(a.errOut, res.Err)
	if err != nil {
		return err
	}
	if res.Status != 0 {
		a.logger.Debugf("%q completed with status %d", strings.TrimSpace(command), res.Status)
		return exitStatusError{status: res.Status}
	}
	return nil
}
