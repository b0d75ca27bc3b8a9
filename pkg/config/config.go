package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config carries every tunable the toolbox commands accept. It is loaded
// once in main and passed explicitly into components; packages never read
// configuration ambiently.
type Config struct {
	Paths struct {
		// Messages is the export's messages directory (day CSVs plus the
		// attachments/ tree underneath).
		Messages string `yaml:"messages"`
		// Output is where rendered artifacts (HTML, thumbnails, workbooks)
		// are written.
		Output string `yaml:"output"`
		// Contacts is an optional contacts.xlsx path.
		Contacts string `yaml:"contacts"`
		// IndexDB is the Pebble path used by the `index` subcommands.
		IndexDB string `yaml:"index_db"`
	} `yaml:"paths"`
	Render struct {
		// ThumbSize is the bounding box (pixels) thumbnails are fitted to.
		ThumbSize int `yaml:"thumb_size"`
		// Workers bounds concurrent thumbnail generation.
		Workers int `yaml:"workers"`
	} `yaml:"render"`
	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// Default returns a Config populated with the conventional export layout.
func Default() *Config {
	var c Config
	c.Paths.Messages = "messages"
	c.Paths.Output = "transcripts"
	c.Paths.IndexDB = "./.attachment-index"
	c.Render.ThumbSize = 150
	c.Render.Workers = 4
	return &c
}

// Load reads a YAML config file into a Config seeded with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadEffective resolves the effective config: defaults, then SYNPARSE_*
// environment variables, then file values when the file exists. The file
// wins over env; a missing file is not an error; flags applied by the CLI
// layer win over everything here.
func LoadEffective(path string) (*Config, error) {
	cfg := Default()
	applyEnv(cfg)
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
			return cfg, nil
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("SYNPARSE_MESSAGES_DIR")); v != "" {
		cfg.Paths.Messages = v
	}
	if v := strings.TrimSpace(os.Getenv("SYNPARSE_OUTPUT_DIR")); v != "" {
		cfg.Paths.Output = v
	}
	if v := strings.TrimSpace(os.Getenv("SYNPARSE_CONTACTS")); v != "" {
		cfg.Paths.Contacts = v
	}
	if v := strings.TrimSpace(os.Getenv("SYNPARSE_INDEX_DB")); v != "" {
		cfg.Paths.IndexDB = v
	}
	if v := strings.TrimSpace(os.Getenv("SYNPARSE_LOG_LEVEL")); v != "" {
		cfg.Logging.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("SYNPARSE_THUMB_SIZE")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Render.ThumbSize = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("SYNPARSE_RENDER_WORKERS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Render.Workers = n
		}
	}
}
