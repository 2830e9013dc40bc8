package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/antoninbas/rewritebench/internal/tool"
)

// ToolConfiguration holds the settings of one tool. Empty fields inherit from
// the suite, then from the command-line flags.
type ToolConfiguration struct {
	Timeout     string `yaml:"timeout"`
	Repetitions int    `yaml:"repetitions"`
	// Version is a semver range the tool's --version output must satisfy.
	Version string `yaml:"version"`
	// Display is the column header used in typeset tables. It is only
	// meaningful per tool.
	Display string `yaml:"display"`
}

type Suite struct {
	ToolConfiguration `yaml:",inline"`
	Tools             map[string]ToolConfiguration `yaml:"tools"`
}

func parseSuite(path string) (*Suite, error) {
	suite := &Suite{}
	if path == "" {
		return suite, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.UnmarshalStrict(data, suite); err != nil {
		return nil, fmt.Errorf("failed to parse '%s': %w", path, err)
	}
	for name := range suite.Tools {
		if _, err := tool.Parse(name); err != nil {
			return nil, fmt.Errorf("'%s': %w", path, err)
		}
	}
	return suite, nil
}

func (c *ToolConfiguration) applyDefaults(d *ToolConfiguration) *ToolConfiguration {
	if c.Timeout == "" {
		c.Timeout = d.Timeout
	}
	if c.Repetitions == 0 {
		c.Repetitions = d.Repetitions
	}
	if c.Version == "" {
		c.Version = d.Version
	}
	return c
}

// forTool returns the effective configuration of id.
func (s *Suite) forTool(id tool.ID, flags *ToolConfiguration) *ToolConfiguration {
	c := s.Tools[id.String()]
	return c.applyDefaults(&s.ToolConfiguration).applyDefaults(flags)
}

// displayNames returns the display overrides configured per tool.
func (s *Suite) displayNames() map[string]string {
	names := map[string]string{}
	for name, c := range s.Tools {
		if c.Display != "" {
			names[name] = c.Display
		}
	}
	return names
}

func (c *ToolConfiguration) timeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout '%s': %w", c.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout must be positive, got %s", d)
	}
	return d, nil
}
