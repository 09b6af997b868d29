package paypal

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvEnvironment   = "PAYPAL_ENVIRONMENT"
	EnvUserID        = "PAYPAL_USERID"
	EnvPassword      = "PAYPAL_PASSWORD"
	EnvSignature     = "PAYPAL_SIGNATURE"
	EnvApplicationID = "PAYPAL_APPLICATION_ID"
)

// Config holds the API caller's credentials and the target environment.
// It is passed explicitly to New; there is no package-level configuration.
type Config struct {
	Environment Environment

	// UserID, Password and Signature are the classic API credentials.
	UserID    string
	Password  string
	Signature string

	// ApplicationID identifies the Adaptive Payments application. When
	// empty the environment's id is used, which only exists for the
	// sandbox.
	ApplicationID string
}

// AppID returns ApplicationID, falling back to the environment default.
func (c Config) AppID() string {
	if c.ApplicationID != "" {
		return c.ApplicationID
	}
	return c.Environment.ApplicationID
}

// Validate reports every missing setting at once.
func (c Config) Validate() error {
	var problems []string
	if c.Environment.Name == "" {
		problems = append(problems, "environment is required")
	}
	if c.UserID == "" {
		problems = append(problems, "user id is required")
	}
	if c.Password == "" {
		problems = append(problems, "password is required")
	}
	if c.Signature == "" {
		problems = append(problems, "signature is required")
	}
	if c.Environment.Name != "" && c.AppID() == "" {
		problems = append(problems, "application id is required outside the sandbox")
	}
	if len(problems) > 0 {
		return &ConfigError{Problems: problems}
	}
	return nil
}

// fileConfig is the YAML layout read by LoadConfig.
type fileConfig struct {
	Environment   string `yaml:"environment"`
	UserID        string `yaml:"userid"`
	Password      string `yaml:"password"`
	Signature     string `yaml:"signature"`
	ApplicationID string `yaml:"application_id"`

	Endpoints *fileEndpoints `yaml:"endpoints"`
}

// fileEndpoints replaces the named environment's hosts.
type fileEndpoints struct {
	Service string `yaml:"service"`
	Web     string `yaml:"web"`
	NVP     string `yaml:"nvp"`
}

func (f fileConfig) config() (Config, error) {
	name := f.Environment
	if name == "" {
		name = EnvironmentSandbox
	}
	env, err := ParseEnvironment(name)
	if err != nil {
		return Config{}, err
	}
	if e := f.Endpoints; e != nil {
		if e.Service == "" || e.Web == "" || e.NVP == "" {
			return Config{}, fmt.Errorf("endpoints need service, web and nvp URLs")
		}
		appID := env.ApplicationID
		env = NewEnvironment(env.Name, e.Service, e.Web, e.NVP)
		env.ApplicationID = appID
	}
	return Config{
		Environment:   env,
		UserID:        f.UserID,
		Password:      f.Password,
		Signature:     f.Signature,
		ApplicationID: f.ApplicationID,
	}, nil
}

// LoadConfig reads a YAML configuration file:
//
//	environment: sandbox
//	userid: seller_api1.example.com
//	password: ...
//	signature: ...
//	application_id: APP-...
//
// An optional endpoints block points the client at other hosts, such as a
// proxy:
//
//	endpoints:
//	  service: https://svcs.proxy.example.com
//	  web: https://www.proxy.example.com
//	  nvp: https://api-3t.proxy.example.com/nvp
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML configuration data.
func ParseConfig(data []byte) (Config, error) {
	var f fileConfig
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return f.config()
}

// ConfigFromEnv builds a Config from the PAYPAL_* environment variables.
// PAYPAL_ENVIRONMENT defaults to sandbox.
func ConfigFromEnv() (Config, error) {
	return fileConfig{
		Environment:   os.Getenv(EnvEnvironment),
		UserID:        os.Getenv(EnvUserID),
		Password:      os.Getenv(EnvPassword),
		Signature:     os.Getenv(EnvSignature),
		ApplicationID: os.Getenv(EnvApplicationID),
	}.config()
}
