package dynamodblocal

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// Mode selects the emulator's storage behavior
type Mode string

const (
	// ModeInMemory keeps all tables in memory; data is lost on exit
	ModeInMemory Mode = "inMemory"

	// ModeSharedDB uses a single shared database file regardless of
	// region and credentials
	ModeSharedDB Mode = "sharedDb"
)

// Config is the mutable instance configuration. It is owned by exactly one
// Manager and mutated only through Configure; changes take effect on the
// next Start, never while a process is active.
type Config struct {
	// Port is the port the emulator listens on
	Port int `yaml:"port" validate:"min=1024,max=65535"`

	// Mode is the storage behavior selector
	Mode Mode `yaml:"mode" validate:"oneof=inMemory sharedDb"`
}

// ConfigUpdate carries a partial configuration for Configure. Nil fields
// are left unchanged.
type ConfigUpdate struct {
	// Port, when non-nil, replaces the configured port
	Port *int `yaml:"port" validate:"omitempty,min=1024,max=65535"`

	// Mode, when non-nil, replaces the configured mode
	Mode *Mode `yaml:"mode" validate:"omitempty,oneof=inMemory sharedDb"`
}

// DefaultConfig returns the conventional emulator configuration
func DefaultConfig() Config {
	return Config{Port: DefaultPort, Mode: ModeInMemory}
}

var validate = validator.New()

// checkConfig validates a full configuration, mapping field failures to the
// typed sentinel errors
func checkConfig(c Config) error {
	return mapValidation(validate.Struct(c))
}

// checkUpdate validates a partial configuration
func checkUpdate(u ConfigUpdate) error {
	return mapValidation(validate.Struct(u))
}

func mapValidation(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, fe := range verrs {
		switch fe.Field() {
		case "Port":
			return ErrInvalidPort
		case "Mode":
			return ErrInvalidMode
		}
	}
	return err
}
