package config

import (
	"fmt"
	"io/ioutil"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/shipengqi/reginv/pkg/awsconf"
	"github.com/shipengqi/reginv/pkg/sink"
)

const (
	BackendECR      = "ecr"
	BackendRegistry = "registry"
)

type Config struct {
	Backend  string   `yaml:"backend"`
	Format   string   `yaml:"format"`
	File     string   `yaml:"file"`
	Progress bool     `yaml:"progress"`
	ECR      ECR      `yaml:"ecr"`
	Registry Registry `yaml:"registry"`
}

type ECR struct {
	Region     string `yaml:"region"`
	Profile    string `yaml:"profile"`
	RegistryID string `yaml:"registry_id"`
}

type Registry struct {
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Insecure bool   `yaml:"insecure"`
}

func Default() *Config {
	return &Config{
		Backend: BackendECR,
		Format:  sink.FormatLine,
		ECR:     ECR{Region: awsconf.DefaultRegion},
	}
}

// Load reads the YAML file over the defaults. A missing file is only an
// error when required is set.
func Load(file string, required bool) (*Config, error) {
	conf := Default()
	if file == "" {
		return conf, nil
	}
	data, err := ioutil.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return conf, nil
		}
		return nil, fmt.Errorf("read config: %v", err)
	}
	if err = yaml.Unmarshal(data, conf); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %v", err)
	}
	return conf, nil
}

func (c *Config) Validate() error {
	switch c.Backend {
	case BackendECR:
	case BackendRegistry:
		if c.Registry.URL == "" {
			return fmt.Errorf("backend %s needs a registry url", c.Backend)
		}
	default:
		return fmt.Errorf("unsupported backend %q", c.Backend)
	}
	switch c.Format {
	case sink.FormatLine:
	case sink.FormatCSV:
		if c.File == "" {
			return fmt.Errorf("format %s needs an output file", c.Format)
		}
	default:
		return fmt.Errorf("unsupported output format %q", c.Format)
	}
	return nil
}
