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
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/solarisdb/commons/golibs/errors"
)

// ExecResult contains the results of the command executed by Execute
type ExecResult struct {
	// Status is the command exit code
	Status int
	// Out is what the command wrote into stdout
	Out string
	// Err is what the command wrote into stderr
	Err string
}

// Execute runs the command by the shell ("sh -c") and waits for its completion. The
// command non-zero exit code is not an error, it is reported in the ExecResult.Status.
// The error is returned if the command could not be started or the ctx is closed
// before the command is done.
func Execute(ctx context.Context, command string) (ExecResult, error) {
	if command == "" {
		return ExecResult{}, fmt.Errorf("empty command: %w", errors.ErrInvalid)
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// the children of the killed shell may keep the output pipes opened
	cmd.WaitDelay = time.Second
	err := cmd.Run()
	res := ExecResult{Out: stdout.String(), Err: stderr.String()}
	if ctx.Err() != nil {
		return res, fmt.Errorf("command %q is interrupted: %w", command, ctx.Err())
	}
	if err != nil {
		var ee *exec.ExitError
		if !errors.As(err, &ee) {
			return res, fmt.Errorf("could not run command %q: %w", command, err)
		}
		res.Status = ee.ExitCode()
	}
	return res, nil
}
