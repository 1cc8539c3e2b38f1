package app

import (
	"time"

	"github.com/hyperifyio/courseport/internal/upload"
)

// Config holds runtime configuration for the application.
type Config struct {
	// Input
	LinksFile string
	URLs      []string

	// Output
	OutDir    string
	WorkDir   string
	Title     string
	EnablePDF bool

	// Pipeline
	Protect   bool
	YtDlpPath string

	// Fetching
	UserAgent string
	Timeout   time.Duration

	// Cache
	CacheDir    string
	CacheMaxAge time.Duration
	CacheClear  bool

	// Portal publishing
	SFTP upload.Config

	// Daemon
	ListenAddr     string
	MongoURI       string
	MongoDB        string
	AdminID        int64
	CleanupMaxAge  time.Duration
	CleanupEvery   time.Duration

	// Behavior
	Verbose      bool
	DebugVerbose bool
}
