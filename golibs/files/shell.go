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

package files

import (
	"fmt"
	"io/fs"
	"os"
	"os/user"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/gobwas/glob"
	"github.com/solarisdb/commons/golibs/container/lru"
	"github.com/solarisdb/commons/golibs/errors"
)

// DefaultBlacklist contains the names of the version control and build directories,
// which are skipped by Find
var DefaultBlacklist = []string{"CVS", ".svn", ".hg", ".git", "debian", "dist", "build"}

const globMeta = "*?[{"

var globs, _ = lru.NewBoundedCache[string, glob.Glob](256)

// Expand returns the sorted list of the existing paths which match the pattern. The
// pattern syntax is the one of github.com/gobwas/glob with '/' as the separator, so
// "*" doesn't match the separator, but "**" does. The pattern without the wildcards
// is returned as is if the path exists. No matches is not an error, the empty list
// is returned then.
func Expand(pattern string) ([]string, error) {
	if !strings.ContainsAny(pattern, globMeta) {
		if _, err := os.Lstat(pattern); err != nil {
			return []string{}, nil
		}
		return []string{pattern}, nil
	}
	pattern = filepath.Clean(pattern)
	g, err := compileGlob(filepath.ToSlash(pattern))
	if err != nil {
		return nil, err
	}

	root, depth := globRoot(pattern)
	walkRoot := root
	if walkRoot == "" {
		walkRoot = "."
	}
	slashRoot := filepath.ToSlash(root)
	res := []string{}
	err = filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == walkRoot {
				return fs.SkipAll
			}
			return nil
		}
		if path == walkRoot {
			return nil
		}
		name := filepath.ToSlash(path)
		if g.Match(name) {
			res = append(res, path)
		}
		level := strings.Count(strings.TrimPrefix(strings.TrimPrefix(name, slashRoot), "/"), "/") + 1
		if d.IsDir() && depth > 0 && level >= depth {
			return fs.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not expand %s: %w", pattern, err)
	}
	sort.Strings(res)
	return res, nil
}

// Move moves the files matching the source pattern to the destination. If the source
// matches several files, the destination must be an existing directory. If the
// destination is an existing directory, the source is moved into it.
func Move(source, destination string) error {
	return transfer(source, destination, movePath)
}

// Copy copies the files matching the source pattern to the destination. The rules for
// the source and the destination are the same as for Move. The directories are copied
// recursively.
func Copy(source, destination string) error {
	return transfer(source, destination, copyPath)
}

// Remove removes the files, links and the directories (recursively) matching the patterns.
func Remove(patterns ...string) error {
	for _, p := range patterns {
		paths, err := Expand(p)
		if err != nil {
			return err
		}
		for _, path := range paths {
			fi, err := os.Lstat(path)
			if err != nil {
				continue
			}
			if fi.IsDir() {
				err = os.RemoveAll(path)
			} else {
				err = os.Remove(path)
			}
			if err != nil {
				return fmt.Errorf("could not remove %s: %w", path, err)
			}
		}
	}
	return nil
}

// Find walks the directory recursively and returns the files which names end with one of
// the exts. If exclude is true, the files NOT ending with any of the exts are returned.
// The files and directories, which names are in the blacklist, are skipped.
func Find(directory string, exts []string, exclude bool, blacklist []string) ([]string, error) {
	skip := make(map[string]bool, len(blacklist))
	for _, b := range blacklist {
		skip[b] = true
	}
	res := []string{}
	err := filepath.WalkDir(directory, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != directory && skip[d.Name()] {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if hasAnySuffix(d.Name(), exts) != exclude {
			res = append(res, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not find files in %s: %w", directory, err)
	}
	return res, nil
}

// Chown is the same as os.Chown, but the login and the group can be either the names or
// the numeric ids. The empty login or group leaves the value unchanged.
func Chown(path, login, group string) error {
	uid, gid := -1, -1
	if login != "" {
		id, err := strconv.Atoi(login)
		if err != nil {
			u, err := user.Lookup(login)
			if err != nil {
				return fmt.Errorf("unknown user %s: %w", login, errors.ErrNotExist)
			}
			if id, err = strconv.Atoi(u.Uid); err != nil {
				return fmt.Errorf("user %s has non-numeric id %s: %w", login, u.Uid, errors.ErrUnimplemented)
			}
		}
		uid = id
	}
	if group != "" {
		id, err := strconv.Atoi(group)
		if err != nil {
			g, err := user.LookupGroup(group)
			if err != nil {
				return fmt.Errorf("unknown group %s: %w", group, errors.ErrNotExist)
			}
			if id, err = strconv.Atoi(g.Gid); err != nil {
				return fmt.Errorf("group %s has non-numeric id %s: %w", group, g.Gid, errors.ErrUnimplemented)
			}
		}
		gid = id
	}
	return os.Chown(path, uid, gid)
}

func transfer(source, destination string, action func(src, dst string) error) error {
	sources, err := Expand(source)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return fmt.Errorf("no file matching %s: %w", source, errors.ErrNotExist)
	}
	dstIsDir := isDir(destination)
	if len(sources) > 1 && !dstIsDir {
		return fmt.Errorf("%d files match %s, but the destination %s is not a directory: %w", len(sources), source, destination, errors.ErrInvalid)
	}
	for _, src := range sources {
		dst := destination
		if dstIsDir {
			dst = filepath.Join(destination, filepath.Base(src))
		}
		if err := action(src, dst); err != nil {
			return fmt.Errorf("unable to transfer %s to %s: %w", src, dst, err)
		}
	}
	return nil
}

func movePath(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	// the rename may fail for the different devices
	if err := copyPath(src, dst); err != nil {
		return err
	}
	return os.RemoveAll(src)
}

func copyPath(src, dst string) error {
	if isDir(src) {
		return CopyDir(src, dst)
	}
	return copyFile(src, dst)
}

func compileGlob(pattern string) (glob.Glob, error) {
	if g, err := globs.Get(pattern); err == nil {
		return g, nil
	}
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, fmt.Errorf("could not compile the pattern %q: %s: %w", pattern, err, errors.ErrInvalid)
	}
	globs.Set(pattern, g)
	return g, nil
}

// globRoot returns the directory part of the pattern without wildcards and the
// number of the path elements after it, which could be matched. The depth is 0
// if it is not limited ("**" in the pattern).
func globRoot(pattern string) (string, int) {
	parts := strings.Split(filepath.ToSlash(pattern), "/")
	i := 0
	for ; i < len(parts); i++ {
		if strings.ContainsAny(parts[i], globMeta) {
			break
		}
	}
	root := strings.Join(parts[:i], "/")
	if i == 1 && parts[0] == "" {
		root = "/"
	}
	if strings.Contains(pattern, "**") {
		return filepath.FromSlash(root), 0
	}
	return filepath.FromSlash(root), len(parts) - i
}

func hasAnySuffix(name string, exts []string) bool {
	for _, ext := range exts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
