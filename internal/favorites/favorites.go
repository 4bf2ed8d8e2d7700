// Package favorites keeps the set of city names offered in the lookup menu.
package favorites

import (
	"context"
	"errors"
	"os"
	"sort"
	"strings"

	"github.com/fakhrymubarak/weatherbuddy/internal/config"
	redisv9 "github.com/redis/go-redis/v9"
)

var ErrEmptyCity = errors.New("city name is empty")

// Store persists a de-duplicated set of city names. Load returns them in
// lexicographic order.
type Store interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, city string) error
}

// FileStore keeps favorites in a plain text file, one name per line.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load returns the non-blank trimmed lines of the file, in file order. A
// missing file is an empty list.
func (s *FileStore) Load(ctx context.Context) ([]string, error) {
	b, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	cities := []string{}
	for _, line := range strings.Split(string(b), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			cities = append(cities, line)
		}
	}
	return cities, nil
}

// Save adds city to the set and rewrites the whole file sorted, with a
// trailing newline. Saving a city already present leaves the file unchanged.
func (s *FileStore) Save(ctx context.Context, city string) error {
	city = strings.TrimSpace(city)
	if city == "" {
		return ErrEmptyCity
	}

	existing, err := s.Load(ctx)
	if err != nil {
		return err
	}
	set := make(map[string]struct{}, len(existing)+1)
	for _, c := range existing {
		set[c] = struct{}{}
	}
	set[city] = struct{}{}

	if err := os.WriteFile(s.Path, []byte(strings.Join(sorted(set), "\n")+"\n"), 0o644); err != nil {
		return err
	}
	config.GetLogger().Debugw("Favorites written", "path", s.Path, "count", len(set))
	return nil
}

// RedisStore keeps favorites in a Redis set.
type RedisStore struct {
	client redisv9.Cmdable
	key    string
}

func NewRedisStore(client redisv9.Cmdable, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Load(ctx context.Context) ([]string, error) {
	members, err := s.client.SMembers(ctx, s.key).Result()
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(members))
	for _, m := range members {
		if m = strings.TrimSpace(m); m != "" {
			set[m] = struct{}{}
		}
	}
	return sorted(set), nil
}

func (s *RedisStore) Save(ctx context.Context, city string) error {
	city = strings.TrimSpace(city)
	if city == "" {
		return ErrEmptyCity
	}
	if err := s.client.SAdd(ctx, s.key, city).Err(); err != nil {
		return err
	}
	config.GetLogger().Debugw("Favorite stored in redis", "key", s.key, "city", city)
	return nil
}

func sorted(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
