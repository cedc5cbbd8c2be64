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
	"os"
)

// WithTempDir creates a new directory in the system temp dir, calls fn with its path and
// removes the directory with all its content after fn returns. The fn error is returned.
func WithTempDir(fn func(dir string) error) error {
	dir, err := CreateRandomDir(os.TempDir(), "tmp")
	if err != nil {
		return fmt.Errorf("could not create a temporary dir: %w", err)
	}
	defer os.RemoveAll(dir)
	return fn(dir)
}
