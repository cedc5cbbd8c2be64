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
	"crypto/sha256"
	"fmt"
	"hash"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/solarisdb/commons/golibs/errors"
	"github.com/solarisdb/commons/golibs/strutil"
)

// HashDir calculates the hash of the directory content: the names of the files and
// sub-directories relative to dir, and the files data. With recursive false only the
// files placed in dir itself are taken. The entries named in blacklist are skipped,
// as Find does.
func HashDir(dir string, recursive bool, blacklist []string) (strutil.Hash, error) {
	dir = filepath.Clean(dir)
	fi, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return strutil.Hash{}, fmt.Errorf("the directory %s is not found: %w", dir, errors.ErrNotExist)
	}
	if err != nil {
		return strutil.Hash{}, err
	}
	if !fi.IsDir() {
		return strutil.Hash{}, fmt.Errorf("%s is not a directory: %w", dir, errors.ErrInvalid)
	}
	skip := make(map[string]bool, len(blacklist))
	for _, b := range blacklist {
		skip[b] = true
	}

	// the directories names end with '/'
	var names []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == dir {
			return nil
		}
		if skip[d.Name()] || (d.IsDir() && !recursive) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			rel += "/"
		}
		names = append(names, rel)
		return nil
	})
	if err != nil {
		return strutil.Hash{}, fmt.Errorf("could not walk %s: %w", dir, err)
	}
	sort.Strings(names)

	h := sha256.New()
	for _, name := range names {
		io.WriteString(h, name)
		h.Write([]byte{0})
		if strings.HasSuffix(name, "/") {
			continue
		}
		if err := hashFileTo(h, filepath.Join(dir, filepath.FromSlash(name))); err != nil {
			return strutil.Hash{}, err
		}
	}
	return strutil.CreateHash(h.Sum(nil))
}

// HashFile returns the sha256 hash of the file content
func HashFile(path string) (strutil.Hash, error) {
	h := sha256.New()
	if err := hashFileTo(h, path); err != nil {
		return strutil.Hash{}, err
	}
	return strutil.CreateHash(h.Sum(nil))
}

func hashFileTo(h hash.Hash, path string) error {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("the file %s is not found: %w", path, errors.ErrNotExist)
	}
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := io.Copy(h, f); err != nil {
		return fmt.Errorf("could not read %s: %w", path, err)
	}
	return nil
}
