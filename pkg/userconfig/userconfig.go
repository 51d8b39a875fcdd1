// SPDX-License-Identifier: Apache-2.0

// Package userconfig holds the process-wide, read-only configuration loaded
// once from ./.tusk/user_config.yaml at startup.
package userconfig

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"
)

// FetchOptions controls how the Inventory Reconciler treats newly
// discovered and locally-stale inclusion-list entries, per object kind.
type FetchOptions struct {
	NewItemsCommented     map[string]bool `yaml:"new_items_commented"`
	DeleteItemsFromConfig bool            `yaml:"delete_items_from_config"`
}

// PullOptions controls the Pull Engine's cleaning and confirmation behavior.
type PullOptions struct {
	CleanDDLBeforePulling bool     `yaml:"clean_ddl_before_pulling"`
	ConfirmBeforePull     bool     `yaml:"confirm_before_pull"`
	PgDumpAdditionalArgs  []string `yaml:"pg_dump_additional_args"`
}

// PushOptions controls the Push Engine's test-running and confirmation
// behavior.
type PushOptions struct {
	TestAfterPush     bool `yaml:"test_after_push"`
	ConfirmBeforePush bool `yaml:"confirm_before_push"`
}

// Config is the full set of user-tunable options.
type Config struct {
	FetchOptions FetchOptions `yaml:"fetch_options"`
	PullOptions  PullOptions  `yaml:"pull_options"`
	PushOptions  PushOptions  `yaml:"push_options"`
}

var (
	mu     sync.Mutex
	global *Config
)

// ErrUnset is returned by Get when Init has not yet been called.
var ErrUnset = errors.New("user config must be initialized before use")

// Init parses the YAML file at path and sets it as the process-wide config.
// Calling Init a second time is a programmer error.
func Init(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if global != nil {
		panic("userconfig: Init called more than once")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading user config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parsing user config %s: %w", path, err)
	}

	global = &cfg
	return nil
}

// Get returns the process-wide config. It fails with ErrUnset if Init has
// not been called.
func Get() (*Config, error) {
	mu.Lock()
	defer mu.Unlock()

	if global == nil {
		return nil, ErrUnset
	}
	return global, nil
}

// reset clears the process-wide config; for tests only.
func reset() {
	mu.Lock()
	defer mu.Unlock()
	global = nil
}

// Confirm previews schema.item pairs and prompts the user for a y/n answer
// on r, re-prompting on invalid input for at most three prompts in all. It
// returns false on refusal or after three invalid answers.
func Confirm(w io.Writer, r io.Reader, schema string, items []string) (bool, error) {
	fmt.Fprintln(w, "\nPreview:")
	for _, item := range items {
		fmt.Fprintf(w, "\t%s.%s\n", schema, pterm.FgMagenta.Sprint(item))
	}

	scanner := bufio.NewScanner(r)
	for i := 0; i < 3; i++ {
		fmt.Fprintln(w, "Confirm? [y/Y, n/N]")
		if !scanner.Scan() {
			return false, scanner.Err()
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "y":
			return true, nil
		case "n":
			return false, nil
		default:
			fmt.Fprintln(w, "Invalid answer...")
		}
	}

	return false, nil
}
