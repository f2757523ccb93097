package internal

import (
	"crypto/sha256"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gnolang/sift/internal/rule"
	tt "github.com/gnolang/sift/internal/types"
)

const (
	cacheFileName = "sift_cache.gob"
	defaultMaxAge = 24 * time.Hour
)

type fileMetadata struct {
	Hash         string
	LastModified time.Time
}

type CacheEntry struct {
	Metadata     fileMetadata
	RulesKey     string
	Issues       []tt.Issue
	CreatedAt    time.Time
	LastAccessed time.Time
}

// Cache remembers the issues of files whose content and rules did not
// change since they were last linted. Entries are also dropped when one of
// the dependency files, such as the configuration, changes.
type Cache struct {
	CacheDir         string
	entries          map[string]CacheEntry
	mutex            sync.RWMutex
	maxAge           time.Duration
	rulesKey         string
	dependencyFiles  []string
	dependencyHashes map[string]string
}

func NewCache(cacheDir, rulesKey string, dependencyFiles ...string) (*Cache, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	cache := &Cache{
		CacheDir:         cacheDir,
		entries:          make(map[string]CacheEntry),
		maxAge:           defaultMaxAge,
		rulesKey:         rulesKey,
		dependencyFiles:  dependencyFiles,
		dependencyHashes: make(map[string]string),
	}

	if err := cache.load(); err != nil {
		return nil, fmt.Errorf("failed to load cache: %w", err)
	}
	if err := cache.updateDependencyHashes(); err != nil {
		return nil, err
	}

	return cache, nil
}

type cacheFile struct {
	Entries          map[string]CacheEntry
	DependencyHashes map[string]string
}

func (c *Cache) load() error {
	file, err := os.Open(filepath.Join(c.CacheDir, cacheFileName))
	if os.IsNotExist(err) {
		return nil // cache file doesn't exist yet. This is fine.
	}
	if err != nil {
		return fmt.Errorf("failed to open cache file: %w", err)
	}
	defer file.Close()

	var stored cacheFile
	if err := gob.NewDecoder(file).Decode(&stored); err != nil {
		return fmt.Errorf("failed to decode cache file: %w", err)
	}
	if stored.Entries != nil {
		c.entries = stored.Entries
	}
	// entries made against other dependency contents are stale
	for _, dep := range c.dependencyFiles {
		hash, err := getFileHash(dep)
		if err != nil || hash != stored.DependencyHashes[dep] {
			c.entries = make(map[string]CacheEntry)
			break
		}
	}
	return nil
}

// Save writes the cache to disk.
func (c *Cache) Save() error {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	file, err := os.Create(filepath.Join(c.CacheDir, cacheFileName))
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer file.Close()

	stored := cacheFile{Entries: c.entries, DependencyHashes: c.dependencyHashes}
	if err := gob.NewEncoder(file).Encode(stored); err != nil {
		return fmt.Errorf("failed to encode cache file: %w", err)
	}
	return nil
}

func (c *Cache) Set(filename string, issues []tt.Issue) error {
	metadata, err := getFileMetadata(filename)
	if err != nil {
		return fmt.Errorf("failed to get file metadata: %w", err)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	c.entries[filename] = CacheEntry{
		Metadata:     metadata,
		RulesKey:     c.rulesKey,
		Issues:       issues,
		CreatedAt:    now,
		LastAccessed: now,
	}
	return nil
}

func (c *Cache) Get(filename string) ([]tt.Issue, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.entries[filename]
	if !exists {
		return nil, false
	}

	if c.isEntryInvalid(filename, entry) {
		delete(c.entries, filename)
		return nil, false
	}

	entry.LastAccessed = time.Now()
	c.entries[filename] = entry

	return entry.Issues, true
}

func (c *Cache) isEntryInvalid(filename string, entry CacheEntry) bool {
	if time.Since(entry.CreatedAt) > c.maxAge {
		return true
	}
	if entry.RulesKey != c.rulesKey {
		return true
	}

	currentMetadata, err := getFileMetadata(filename)
	if err != nil || currentMetadata.Hash != entry.Metadata.Hash {
		return true
	}

	return c.haveDependenciesChanged()
}

func (c *Cache) haveDependenciesChanged() bool {
	for _, file := range c.dependencyFiles {
		hash, err := getFileHash(file)
		if err != nil {
			return true
		}

		if hash != c.dependencyHashes[file] {
			return true
		}
	}

	return false
}

func (c *Cache) updateDependencyHashes() error {
	for _, file := range c.dependencyFiles {
		hash, err := getFileHash(file)
		if err != nil {
			return fmt.Errorf("failed to get hash for %s: %w", file, err)
		}
		c.dependencyHashes[file] = hash
	}
	return nil
}

func (c *Cache) SetMaxAge(duration time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.maxAge = duration
}

// Len returns the number of cached files.
func (c *Cache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.entries)
}

func (c *Cache) InvalidateAll() {
	c.mutex.Lock()
	c.entries = make(map[string]CacheEntry)
	c.mutex.Unlock()

	_ = c.Save() // ignore error as this is a manual operation
}

func getFileMetadata(filename string) (fileMetadata, error) {
	hash, err := getFileHash(filename)
	if err != nil {
		return fileMetadata{}, err
	}

	info, err := os.Stat(filename)
	if err != nil {
		return fileMetadata{}, fmt.Errorf("failed to get file info: %w", err)
	}

	return fileMetadata{Hash: hash, LastModified: info.ModTime()}, nil
}

func getFileHash(filename string) (string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", fmt.Errorf("failed to calculate hash: %w", err)
	}

	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}

// RulesKey fingerprints a rule set so cached issues are not reused once the
// rules change.
func RulesKey(rules []rule.Rule) string {
	hash := sha256.New()
	for _, r := range rules {
		fmt.Fprintln(hash, r.ID, r.String(), r.Severity)
	}
	return fmt.Sprintf("%x", hash.Sum(nil))
}
