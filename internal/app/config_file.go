package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema.
// Nested sections improve readability and map naturally to flags/env.
type FileConfig struct {
	Links string `yaml:"links"`
	Title string `yaml:"title"`

	Output struct {
		Dir       string `yaml:"dir"`
		WorkDir   string `yaml:"workDir"`
		EnablePDF bool   `yaml:"enablePDF"`
	} `yaml:"output"`

	Pipeline struct {
		Protect   bool   `yaml:"protect"`
		YtDlpPath string `yaml:"ytDlpPath"`
	} `yaml:"pipeline"`

	Fetch struct {
		UserAgent string        `yaml:"userAgent"`
		Timeout   time.Duration `yaml:"timeout"`
	} `yaml:"fetch"`

	Cache struct {
		Dir    string        `yaml:"dir"`
		MaxAge time.Duration `yaml:"maxAge"`
		Clear  bool          `yaml:"clear"`
	} `yaml:"cache"`

	SFTP struct {
		Host      string `yaml:"host"`
		Port      int    `yaml:"port"`
		User      string `yaml:"user"`
		Pass      string `yaml:"pass"`
		RemoteDir string `yaml:"remoteDir"`
	} `yaml:"sftp"`

	Daemon struct {
		Listen       string        `yaml:"listen"`
		MongoURI     string        `yaml:"mongoURI"`
		MongoDB      string        `yaml:"mongoDB"`
		AdminID      int64         `yaml:"adminID"`
		CleanupAge   time.Duration `yaml:"cleanupAge"`
		CleanupEvery time.Duration `yaml:"cleanupEvery"`
	} `yaml:"daemon"`

	Verbose      bool `yaml:"verbose"`
	DebugVerbose bool `yaml:"debugVerbose"`
}

// LoadConfigFile reads YAML into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fc, fmt.Errorf("parse yaml: %w", err)
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for any fields that
// are currently unset/zero in cfg. Flags should already have been parsed; this
// function lets file config supply defaults while preserving explicit flags.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}

	if cfg.LinksFile == "" && fc.Links != "" {
		cfg.LinksFile = fc.Links
	}
	if cfg.Title == "" && fc.Title != "" {
		cfg.Title = fc.Title
	}

	if cfg.OutDir == "" && fc.Output.Dir != "" {
		cfg.OutDir = fc.Output.Dir
	}
	if cfg.WorkDir == "" && fc.Output.WorkDir != "" {
		cfg.WorkDir = fc.Output.WorkDir
	}
	if !cfg.EnablePDF && fc.Output.EnablePDF {
		cfg.EnablePDF = true
	}

	if !cfg.Protect && fc.Pipeline.Protect {
		cfg.Protect = true
	}
	if cfg.YtDlpPath == "" && fc.Pipeline.YtDlpPath != "" {
		cfg.YtDlpPath = fc.Pipeline.YtDlpPath
	}

	if cfg.UserAgent == "" && fc.Fetch.UserAgent != "" {
		cfg.UserAgent = fc.Fetch.UserAgent
	}
	if cfg.Timeout == 0 && fc.Fetch.Timeout > 0 {
		cfg.Timeout = fc.Fetch.Timeout
	}

	if cfg.CacheDir == "" && fc.Cache.Dir != "" {
		cfg.CacheDir = fc.Cache.Dir
	}
	if cfg.CacheMaxAge == 0 && fc.Cache.MaxAge > 0 {
		cfg.CacheMaxAge = fc.Cache.MaxAge
	}
	if !cfg.CacheClear && fc.Cache.Clear {
		cfg.CacheClear = true
	}

	if cfg.SFTP.Host == "" && fc.SFTP.Host != "" {
		cfg.SFTP.Host = fc.SFTP.Host
	}
	if cfg.SFTP.Port == 0 && fc.SFTP.Port > 0 {
		cfg.SFTP.Port = fc.SFTP.Port
	}
	if cfg.SFTP.User == "" && fc.SFTP.User != "" {
		cfg.SFTP.User = fc.SFTP.User
	}
	if cfg.SFTP.Pass == "" && fc.SFTP.Pass != "" {
		cfg.SFTP.Pass = fc.SFTP.Pass
	}
	if cfg.SFTP.RemoteDir == "" && fc.SFTP.RemoteDir != "" {
		cfg.SFTP.RemoteDir = fc.SFTP.RemoteDir
	}

	if cfg.ListenAddr == "" && fc.Daemon.Listen != "" {
		cfg.ListenAddr = fc.Daemon.Listen
	}
	if cfg.MongoURI == "" && fc.Daemon.MongoURI != "" {
		cfg.MongoURI = fc.Daemon.MongoURI
	}
	if cfg.MongoDB == "" && fc.Daemon.MongoDB != "" {
		cfg.MongoDB = fc.Daemon.MongoDB
	}
	if cfg.AdminID == 0 && fc.Daemon.AdminID != 0 {
		cfg.AdminID = fc.Daemon.AdminID
	}
	if cfg.CleanupMaxAge == 0 && fc.Daemon.CleanupAge > 0 {
		cfg.CleanupMaxAge = fc.Daemon.CleanupAge
	}
	if cfg.CleanupEvery == 0 && fc.Daemon.CleanupEvery > 0 {
		cfg.CleanupEvery = fc.Daemon.CleanupEvery
	}

	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
	if !cfg.DebugVerbose && fc.DebugVerbose {
		cfg.DebugVerbose = true
	}
}

// ValidateConfig performs minimal schema validation for required settings.
func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.LinksFile) == "" && len(cfg.URLs) == 0 {
		return errors.New("config: a links file or at least one URL is required")
	}
	if cfg.Timeout < 0 || cfg.CacheMaxAge < 0 {
		return errors.New("config: negative durations are not allowed")
	}
	return nil
}
