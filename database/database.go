package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrTreeNotFound = errors.New("tree not found")

// TreeEntry describes one built B-tree registered in a bank.
type TreeEntry struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Length    int       `json:"length"`
	Degree    int       `json:"degree"`
	DataFile  string    `json:"data_file"`
	Keys      int       `json:"keys"`
	CreatedAt time.Time `json:"created_at"`
}

// BankManifest tracks the bank ID plus every registered tree by ID.
type BankManifest struct {
	BankID string               `json:"bank_id"`
	Trees  map[string]TreeEntry `json:"trees"`
}

// Bank is a directory holding a manifest.json of built trees.
type Bank struct {
	dir          string
	manifestPath string
	manifest     BankManifest
	lock         sync.RWMutex
}

func newID(prefix string) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate uuid: %w", err)
	}
	return fmt.Sprintf("%s_%s", prefix, strings.Split(id.String(), "-")[0]), nil
}

// OpenBank loads the bank in dir, creating the directory and an empty manifest if needed.
func OpenBank(dir string) (*Bank, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create bank directory: %w", err)
	}

	b := &Bank{
		dir:          dir,
		manifestPath: filepath.Join(dir, "manifest.json"),
	}

	if _, err := os.Stat(b.manifestPath); err == nil {
		if _, err := b.LoadManifest(); err != nil {
			return nil, fmt.Errorf("failed to load manifest: %w", err)
		}
		return b, nil
	}

	bankID, err := newID("bank")
	if err != nil {
		return nil, err
	}
	b.manifest = BankManifest{BankID: bankID, Trees: make(map[string]TreeEntry)}
	if err := b.SaveManifest(); err != nil {
		return nil, fmt.Errorf("failed to create new manifest: %w", err)
	}
	return b, nil
}

func (b *Bank) ID() string {
	b.lock.RLock()
	defer b.lock.RUnlock()
	return b.manifest.BankID
}

func (b *Bank) Dir() string { return b.dir }

// Register assigns entry a fresh ID and records it in the manifest.
func (b *Bank) Register(entry TreeEntry) (TreeEntry, error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	id, err := newID("tree")
	if err != nil {
		return TreeEntry{}, err
	}
	entry.ID = id
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	b.manifest.Trees[id] = entry

	if err := b.saveManifestLocked(); err != nil {
		delete(b.manifest.Trees, id)
		return TreeEntry{}, fmt.Errorf("failed to save manifest after registering tree: %w", err)
	}
	return entry, nil
}

func (b *Bank) GetTree(id string) (TreeEntry, error) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	entry, ok := b.manifest.Trees[id]
	if !ok {
		return TreeEntry{}, fmt.Errorf("%w: %q", ErrTreeNotFound, id)
	}
	return entry, nil
}

// ListTrees returns registered trees, oldest first.
func (b *Bank) ListTrees() []TreeEntry {
	b.lock.RLock()
	defer b.lock.RUnlock()

	trees := make([]TreeEntry, 0, len(b.manifest.Trees))
	for _, entry := range b.manifest.Trees {
		trees = append(trees, entry)
	}
	sort.Slice(trees, func(i, j int) bool {
		if trees[i].CreatedAt.Equal(trees[j].CreatedAt) {
			return trees[i].ID < trees[j].ID
		}
		return trees[i].CreatedAt.Before(trees[j].CreatedAt)
	})
	return trees
}

func (b *Bank) SaveManifest() error {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.saveManifestLocked()
}

func (b *Bank) saveManifestLocked() error {
	data, err := json.MarshalIndent(b.manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return os.WriteFile(b.manifestPath, data, 0644)
}

func (b *Bank) LoadManifest() (BankManifest, error) {
	data, err := os.ReadFile(b.manifestPath)
	if err != nil {
		return BankManifest{}, fmt.Errorf("failed to read manifest file: %w", err)
	}
	var m BankManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return BankManifest{}, fmt.Errorf("failed to unmarshal manifest: %w", err)
	}
	if m.Trees == nil {
		m.Trees = make(map[string]TreeEntry)
	}

	b.lock.Lock()
	b.manifest = m
	b.lock.Unlock()
	return m, nil
}

// ListBanks returns the subdirectories of root that hold a manifest.
func ListBanks(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	var banks []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		manifest := filepath.Join(root, e.Name(), "manifest.json")
		if _, err := os.Stat(manifest); err == nil {
			banks = append(banks, e.Name())
		}
	}
	return banks, nil
}
