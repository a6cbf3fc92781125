// ABOUTME: Charm KV client holding synced project files
// ABOUTME: Authenticates with the user's Charm SSH keys; writes push to the cloud when auto-sync is on
package charm

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/charmbracelet/log"

	"github.com/harper/docright/internal/config"
	"github.com/harper/docright/internal/logging"
)

// Config selects the Charm server and KV database.
type Config struct {
	Host     string
	DBName   string
	AutoSync bool
}

// ConfigFrom extracts the charm settings from the environment config.
func ConfigFrom(cfg *config.Config) *Config {
	return &Config{
		Host:     cfg.CharmHost,
		DBName:   cfg.CharmDBName,
		AutoSync: cfg.AutoSync,
	}
}

// Client is a KV store backed by Charm cloud. It implements Store.
type Client struct {
	mu     sync.Mutex
	kv     *kv.KV
	config *Config
	logger *log.Logger
}

// NewClient opens the KV database named by cfg and pulls remote changes when
// auto-sync is on.
func NewClient(cfg *Config, logger *log.Logger) (*Client, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	// charm reads the server from the environment
	if cfg.Host != "" {
		if err := os.Setenv("CHARM_HOST", cfg.Host); err != nil {
			return nil, fmt.Errorf("setting CHARM_HOST: %w", err)
		}
	}

	db, err := kv.OpenWithDefaults(cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("failed to open charm kv %q: %w", cfg.DBName, err)
	}

	c := &Client{kv: db, config: cfg, logger: logger}
	if cfg.AutoSync {
		c.pull()
	}
	return c, nil
}

func (c *Client) pull() {
	if err := c.kv.Sync(); err != nil {
		c.logger.Debug("charm sync failed", "db", c.config.DBName, "err", err)
	}
}

// Close closes the KV database. It is safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv == nil {
		return nil
	}
	err := c.kv.Close()
	c.kv = nil
	return err
}

// Host returns the configured Charm server.
func (c *Client) Host() string {
	return c.config.Host
}

// ID returns the Charm user id of the local keys.
func (c *Client) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("failed to create charm client: %w", err)
	}
	return cc.ID()
}

// write runs op under the lock and syncs afterwards when auto-sync is on.
func (c *Client) write(verb, key string, op func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := op(); err != nil {
		return fmt.Errorf("failed to %s key %s: %w", verb, key, err)
	}
	c.logger.Debug("charm "+verb, "key", key)
	if c.config.AutoSync {
		c.pull()
	}
	return nil
}

// Set stores value under key.
func (c *Client) Set(key string, value []byte) error {
	return c.write("set", key, func() error { return c.kv.Set([]byte(key), value) })
}

// Delete removes key.
func (c *Client) Delete(key string) error {
	return c.write("delete", key, func() error { return c.kv.Delete([]byte(key)) })
}

// Get returns the value stored under key.
func (c *Client) Get(key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Get([]byte(key))
}

// ListKeys returns the keys starting with prefix, sorted.
func (c *Client) ListKeys(prefix string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys, err := c.kv.Keys()
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	var matched []string
	for _, k := range keys {
		if s := string(k); strings.HasPrefix(s, prefix) {
			matched = append(matched, s)
		}
	}
	sort.Strings(matched)
	return matched, nil
}

// Sync exchanges changes with the cloud.
func (c *Client) Sync() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Sync()
}
