/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config carries every flag the CLI accepts. Commands fill it from the
// bound flag set and validate it before handing it to the processor.
type Config struct {
	// Common flags
	Input     string
	Output    string
	Key       string
	Offset    string `validate:"offsetspec"` // "auto" or a byte position
	Algorithm string `validate:"cipheralg"`
	Suppress  bool
	Verbose   bool   `validate:"exclusive=Suppress"`

	// Encode flags. The inline payload keeps its flag default when a
	// payload file is given; the file wins at load time.
	Payload     string
	PayloadFile string `mapstructure:"payload-file"`
	Type        string `validate:"chunktag"` // four letter tag for the spliced record
	Compress    bool

	// Decode flags
	SecretOut string `mapstructure:"secret-out"`

	// Meta flags and positional arguments
	Files     []string
	HeadBytes int `mapstructure:"bytes" validate:"gte=0"`
	Hex       bool
	MaxChunks int `mapstructure:"max-chunks" validate:"gte=0"`
}

// FromViper unmarshals the bound flag set into a validated Config.
func FromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate validates the configuration against the struct tags.
func (c Config) Validate() error {
	validate := validator.New()
	if err := registerFormats(validate); err != nil {
		return err
	}

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validating configuration: %w", err)
	}

	return nil
}
