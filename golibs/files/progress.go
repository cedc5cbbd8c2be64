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
	"io"
	"strings"
)

// ProgressBar is a simple text progress bar, which is redrawn in the same line
// of the terminal. It looks like "[.....     ]".
type ProgressBar struct {
	w        io.Writer
	total    int
	size     int
	current  int
	progress int
}

// NewProgressBar creates the ProgressBar for total operations, the bar is size
// characters wide and it is written into w.
func NewProgressBar(total, size int, w io.Writer) *ProgressBar {
	return &ProgressBar{w: w, total: max(total, 1), size: size}
}

// Update notifies the bar that one more operation is done. The bar is redrawn only if
// its visible state changes.
func (pb *ProgressBar) Update() {
	pb.current++
	progress := pb.current * pb.size / pb.total
	if progress > pb.progress {
		pb.progress = progress
		pb.Refresh()
	}
}

// Refresh redraws the bar
func (pb *ProgressBar) Refresh() {
	fmt.Fprintf(pb.w, "\r[%-*s]", pb.size, strings.Repeat(".", min(pb.progress, pb.size)))
}
