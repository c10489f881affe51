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

package selectfs

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fsxops/fsxops/pkg/report"
)

// Config drives a select-filesystem run. All knobs are explicit; nothing
// is read from globals.
type Config struct {
	// Region is the AWS region, empty to use the SDK default chain.
	Region string `yaml:"region"`

	// TagKey and TagValue restrict the candidate set.
	TagKey   string `yaml:"tagKey"`
	TagValue string `yaml:"tagValue"`

	// SVMName is the SVM whose iSCSI addresses are exported.
	SVMName string `yaml:"svmName"`

	// MetricWindow is the lookback window for metric queries and
	// MetricPeriod the aggregation period within it.
	MetricWindow time.Duration `yaml:"metricWindow"`
	MetricPeriod time.Duration `yaml:"metricPeriod"`

	// IOPSWeight and CapacityWeight weigh the two utilization terms.
	IOPSWeight     float64 `yaml:"iopsWeight"`
	CapacityWeight float64 `yaml:"capacityWeight"`

	// OutputFile is where the plain-text report lands.
	OutputFile string `yaml:"outputFile"`
}

// DefaultConfig returns the reference configuration: a one hour window
// aggregated in a single period and an unweighted utilization average.
func DefaultConfig() Config {
	return Config{
		MetricWindow:   time.Hour,
		MetricPeriod:   time.Hour,
		IOPSWeight:     0.5,
		CapacityWeight: 0.5,
		OutputFile:     report.DefaultOutputFile,
	}
}

// UnmarshalYAML decodes the configuration, accepting durations in Go
// syntax ("30m", "1h") rather than raw nanosecond counts.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	type plain struct {
		Region         string   `yaml:"region"`
		TagKey         string   `yaml:"tagKey"`
		TagValue       string   `yaml:"tagValue"`
		SVMName        string   `yaml:"svmName"`
		MetricWindow   string   `yaml:"metricWindow"`
		MetricPeriod   string   `yaml:"metricPeriod"`
		IOPSWeight     *float64 `yaml:"iopsWeight"`
		CapacityWeight *float64 `yaml:"capacityWeight"`
		OutputFile     string   `yaml:"outputFile"`
	}

	var raw plain
	if err := value.Decode(&raw); err != nil {
		return err
	}

	if raw.Region != "" {
		c.Region = raw.Region
	}
	if raw.TagKey != "" {
		c.TagKey = raw.TagKey
	}
	if raw.TagValue != "" {
		c.TagValue = raw.TagValue
	}
	if raw.SVMName != "" {
		c.SVMName = raw.SVMName
	}
	if raw.MetricWindow != "" {
		window, err := time.ParseDuration(raw.MetricWindow)
		if err != nil {
			return fmt.Errorf("parsing metricWindow: %w", err)
		}
		c.MetricWindow = window
	}
	if raw.MetricPeriod != "" {
		period, err := time.ParseDuration(raw.MetricPeriod)
		if err != nil {
			return fmt.Errorf("parsing metricPeriod: %w", err)
		}
		c.MetricPeriod = period
	}
	if raw.IOPSWeight != nil {
		c.IOPSWeight = *raw.IOPSWeight
	}
	if raw.CapacityWeight != nil {
		c.CapacityWeight = *raw.CapacityWeight
	}
	if raw.OutputFile != "" {
		c.OutputFile = raw.OutputFile
	}

	return nil
}

// LoadFile reads a YAML configuration file over the defaults.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the configuration before a run.
func (c Config) Validate() error {
	if c.TagKey == "" || c.TagValue == "" {
		return fmt.Errorf("a tag filter is required (tag-key and tag-value)")
	}
	if c.SVMName == "" {
		return fmt.Errorf("an SVM name is required")
	}
	if c.IOPSWeight < 0 || c.CapacityWeight < 0 {
		return fmt.Errorf("selection weights must not be negative")
	}
	if c.MetricWindow <= 0 || c.MetricPeriod <= 0 {
		return fmt.Errorf("metric window and period must be positive")
	}
	if c.OutputFile == "" {
		return fmt.Errorf("an output file is required")
	}
	return nil
}
