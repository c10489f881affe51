/*
Copyright The FSxOps Contributors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package cmdutil holds helpers shared by the fsxops subcommands.
package cmdutil

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/fsxops/fsxops/internal/log"
)

// NewLogger builds the command logger from the root --log-level flag.
func NewLogger(cmd *cobra.Command) (*zap.SugaredLogger, error) {
	level, err := cmd.Root().PersistentFlags().GetString("log-level")
	if err != nil {
		return nil, err
	}
	return log.New(level)
}

// ResolvePassword returns the flag value when set, otherwise prompts on
// the terminal without echo. When standard input is not a terminal the
// password is read as a single line, so the commands stay scriptable.
func ResolvePassword(flagValue, prompt string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprintf(os.Stderr, "%s: ", prompt)
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(raw), nil
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading password from stdin: %w", err)
	}

	return strings.TrimRight(line, "\r\n"), nil
}
