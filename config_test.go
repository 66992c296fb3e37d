package dynamodblocal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCheckConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"default", DefaultConfig(), nil},
		{"shared db", Config{Port: 9000, Mode: ModeSharedDB}, nil},
		{"port floor", Config{Port: 1024, Mode: ModeInMemory}, nil},
		{"port ceiling", Config{Port: 65535, Mode: ModeInMemory}, nil},
		{"port too low", Config{Port: 80, Mode: ModeInMemory}, ErrInvalidPort},
		{"port too high", Config{Port: 70000, Mode: ModeInMemory}, ErrInvalidPort},
		{"unknown mode", Config{Port: 8000, Mode: "bogus"}, ErrInvalidMode},
		{"empty mode", Config{Port: 8000, Mode: ""}, ErrInvalidMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkConfig(tt.cfg)
			if !errors.Is(err, tt.want) {
				t.Errorf("checkConfig(%+v) = %v, want %v", tt.cfg, err, tt.want)
			}
		})
	}
}

func TestCheckUpdate(t *testing.T) {
	port := 9000
	badPort := 99
	mode := ModeSharedDB
	badMode := Mode("bogus")

	t.Run("empty is valid", func(t *testing.T) {
		if err := checkUpdate(ConfigUpdate{}); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("valid fields", func(t *testing.T) {
		if err := checkUpdate(ConfigUpdate{Port: &port, Mode: &mode}); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("invalid port", func(t *testing.T) {
		if err := checkUpdate(ConfigUpdate{Port: &badPort}); !errors.Is(err, ErrInvalidPort) {
			t.Errorf("err = %v, want ErrInvalidPort", err)
		}
	})

	t.Run("invalid mode", func(t *testing.T) {
		if err := checkUpdate(ConfigUpdate{Mode: &badMode}); !errors.Is(err, ErrInvalidMode) {
			t.Errorf("err = %v, want ErrInvalidMode", err)
		}
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("missing file returns defaults", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yml"))
		if err != nil {
			t.Fatal(err)
		}
		if cfg != DefaultConfig() {
			t.Errorf("cfg = %+v, want defaults", cfg)
		}
	})

	t.Run("partial file merges over defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ddb.yml")
		if err := os.WriteFile(path, []byte("port: 9100\n"), 0o644); err != nil {
			t.Fatal(err)
		}

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Port != 9100 {
			t.Errorf("Port = %d, want 9100", cfg.Port)
		}
		if cfg.Mode != ModeInMemory {
			t.Errorf("Mode = %v, want default inMemory", cfg.Mode)
		}
	})

	t.Run("full file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ddb.yml")
		if err := os.WriteFile(path, []byte("port: 9200\nmode: sharedDb\n"), 0o644); err != nil {
			t.Fatal(err)
		}

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Port != 9200 || cfg.Mode != ModeSharedDB {
			t.Errorf("cfg = %+v, want port 9200 sharedDb", cfg)
		}
	})

	t.Run("invalid values rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ddb.yml")
		if err := os.WriteFile(path, []byte("port: 80\n"), 0o644); err != nil {
			t.Fatal(err)
		}

		if _, err := LoadConfig(path); !errors.Is(err, ErrInvalidPort) {
			t.Errorf("err = %v, want ErrInvalidPort", err)
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ddb.yml")
		if err := os.WriteFile(path, []byte("port: [\n"), 0o644); err != nil {
			t.Fatal(err)
		}

		if _, err := LoadConfig(path); err == nil {
			t.Error("expected parse error")
		}
	})
}
