package session

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"crmchat/app/service/conversation"
)

var _ conversation.Store = (*FileStore)(nil)

// FileStore persists sessions as one JSON line per key. The whole file is
// loaded and rewritten on every mutation, which is fine for the session
// counts this service sees.
type FileStore struct {
	mu   sync.RWMutex
	path string
}

type fileEntry struct {
	Key   string              `json:"key"`
	State *conversation.State `json:"state"`
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("%w: failed to create session dir: %w", ErrUnavailable, err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create session file: %w", ErrUnavailable, err)
	}
	defer file.Close()

	return &FileStore{path: path}, nil
}

func (s *FileStore) load() (map[string]*conversation.State, error) {
	file, err := os.OpenFile(s.path, os.O_RDONLY|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open session file: %w", ErrUnavailable, err)
	}
	defer file.Close()

	result := make(map[string]*conversation.State)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var entry fileEntry
		if err = json.Unmarshal([]byte(line), &entry); err != nil {
			return nil, fmt.Errorf("%w: failed to parse session line: %w", ErrUnavailable, err)
		}

		if entry.State != nil {
			result[entry.Key] = entry.State
		}
	}

	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: error reading session file: %w", ErrUnavailable, err)
	}

	return result, nil
}

func (s *FileStore) save(sessions map[string]*conversation.State) error {
	file, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("%w: failed to open session file: %w", ErrUnavailable, err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	keys := make([]string, 0, len(sessions))
	for key := range sessions {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		data, err := json.Marshal(fileEntry{Key: key, State: sessions[key]})
		if err != nil {
			return fmt.Errorf("%w: failed to marshal session %s: %w", ErrUnavailable, key, err)
		}

		if _, err = writer.WriteString(string(data) + "\n"); err != nil {
			return fmt.Errorf("%w: failed to write session: %w", ErrUnavailable, err)
		}
	}

	if err = writer.Flush(); err != nil {
		return fmt.Errorf("%w: failed to flush session file: %w", ErrUnavailable, err)
	}

	return nil
}

func (s *FileStore) Get(_ context.Context, key string) (*conversation.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions, err := s.load()
	if err != nil {
		return nil, err
	}

	state, ok := sessions[key]
	if !ok {
		return conversation.NewState(), nil
	}

	return state, nil
}

func (s *FileStore) Set(_ context.Context, key string, state *conversation.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.load()
	if err != nil {
		return err
	}

	sessions[key] = state

	return s.save(sessions)
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.load()
	if err != nil {
		return err
	}

	delete(sessions, key)

	return s.save(sessions)
}

func (s *FileStore) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions, err := s.load()
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(sessions))
	for key := range sessions {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys, nil
}
