/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

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
package cmd

import (
	"fmt"

	"github.com/valpere/tranhook/internal/config"
	"github.com/valpere/tranhook/internal/hook"
	"github.com/valpere/tranhook/internal/transform"
)

// transformOptions carries the flag values the transform constructors
// consume.
type transformOptions struct {
	marker        string
	titleKind     string
	credentials   string
	mymemoryEmail string
	ollamaURL     string
	ollamaModel   string
}

// buildTransform constructs the transform selected by name.
func buildTransform(name string, opts transformOptions) (transform.Transform, error) {
	switch name {
	case "prefix":
		return transform.NewPrefix(opts.marker, opts.titleKind), nil
	case "echo":
		return transform.NewEcho(), nil
	case "google":
		return transform.NewGoogle(opts.credentials), nil
	case "mymemory":
		return transform.NewMyMemory(opts.mymemoryEmail), nil
	case "ollama":
		return transform.NewOllama(opts.ollamaURL, opts.ollamaModel), nil
	default:
		return nil, fmt.Errorf("unknown transform: %s (available: prefix, echo, google, mymemory, ollama)", name)
	}
}

// resolveHook picks the plugin command for the host-side commands:
// an explicit --command wins, otherwise the config file decides.
func resolveHook(command []string, configPath, profile string) (*hook.Config, error) {
	if len(command) > 0 {
		return &hook.Config{
			Command:   command,
			Timeout:   hook.DefaultTimeout,
			UIMaxWait: hook.DefaultUIMaxWait,
		}, nil
	}
	if configPath == "" {
		return nil, fmt.Errorf("either --command or --config is required")
	}
	cfg, err := config.Load(configPath, profile)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("translation hook is disabled: no command configured in %s", configPath)
	}
	return cfg, nil
}
