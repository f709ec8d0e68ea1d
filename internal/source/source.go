// Package source produces the ordered item list a carousel cycles through.
//
// Every source returns the whole list. Callers replace their list
// wholesale and never patch it.
package source

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"showreel/internal/config"
	"showreel/internal/domain"
	"showreel/internal/eventbus"
)

// Collections understood by every source
const (
	CollectionProjects     = "projects"
	CollectionCertificates = "certificates"
	CollectionAll          = "all"
)

var (
	// ErrUnknownKind is returned by New for an unsupported source kind
	ErrUnknownKind = errors.New("unknown source kind")
	// ErrUnknownCollection is returned for a collection other than the ones above
	ErrUnknownCollection = errors.New("unknown collection")
)

// Source fetches the full item list
type Source interface {
	Fetch(ctx context.Context) ([]domain.DisplayItem, error)
	Name() string
}

// New builds the source described by cfg
func New(cfg config.SourceConfig) (Source, error) {
	if err := checkCollection(cfg.Collection); err != nil {
		return nil, err
	}
	switch cfg.Kind {
	case "", "file":
		return NewFileSource(cfg.Path, cfg.Collection), nil
	case "sqlite":
		return OpenSQLite(cfg.DSN, cfg.Collection)
	case "http":
		timeout := 10 * time.Second
		if cfg.Timeout != "" {
			d, err := time.ParseDuration(cfg.Timeout)
			if err != nil {
				return nil, fmt.Errorf("source.timeout: %w", err)
			}
			timeout = d
		}
		return NewHTTPSource(cfg.URL, cfg.Collection, timeout), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, cfg.Kind)
	}
}

// Load fetches from src. A failed fetch is logged, published as a
// SourceFailedEvent and reported as an empty list; it is not retried.
func Load(ctx context.Context, src Source, logger *zap.Logger, bus eventbus.EventBus) []domain.DisplayItem {
	items, _ := Fetch(ctx, src, logger, bus)
	return items
}

// Fetch is Load for callers that also want to show the error
func Fetch(ctx context.Context, src Source, logger *zap.Logger, bus eventbus.EventBus) ([]domain.DisplayItem, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	items, err := src.Fetch(ctx)
	if err != nil {
		logger.Warn("source fetch failed, showing empty carousel",
			zap.String("source", src.Name()), zap.Error(err))
		if bus != nil {
			bus.Publish(domain.SourceFailedEvent{Source: src.Name(), Err: err})
		}
		return nil, err
	}
	logger.Debug("source fetched", zap.String("source", src.Name()), zap.Int("count", len(items)))
	return items, nil
}

// Close releases src if it holds resources
func Close(src Source) error {
	if c, ok := src.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

func checkCollection(c string) error {
	switch c {
	case "", CollectionProjects, CollectionCertificates, CollectionAll:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownCollection, c)
}

func wants(collection string, kind domain.ItemKind) bool {
	switch collection {
	case CollectionAll:
		return true
	case CollectionCertificates:
		return kind == domain.KindCertificate
	default:
		return kind == domain.KindProject
	}
}

var keySpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("showreel"))

// derivedKey gives items without an id a key that survives refetches
func derivedKey(kind domain.ItemKind, title string) string {
	return uuid.NewSHA1(keySpace, []byte(string(kind)+"\x00"+strings.TrimSpace(title))).String()
}

// uniqueKeys makes every key distinct by suffixing repeats in list order.
// The first item with a key keeps it, and a suffix never takes a key that
// another item already carries.
func uniqueKeys(items []domain.DisplayItem) {
	taken := make(map[string]bool, len(items))
	for _, it := range items {
		taken[it.Key] = true
	}
	kept := make(map[string]bool, len(items))
	next := make(map[string]int)
	for i := range items {
		k := items[i].Key
		if !kept[k] {
			kept[k] = true
			continue
		}
		n := next[k]
		if n == 0 {
			n = 2
		}
		for taken[fmt.Sprintf("%s-%d", k, n)] {
			n++
		}
		key := fmt.Sprintf("%s-%d", k, n)
		next[k] = n + 1
		taken[key] = true
		items[i].Key = key
	}
}

var dateLayouts = []string{time.RFC3339, "2006-01-02", "2006-01", "2006"}

func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
