package content

import (
	"context"
	"encoding/json"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Paths configures where the documents live, relative to BaseURL.
type Paths struct {
	BaseURL  string
	Content  map[string]string
	Policies map[string]string
}

// DefaultPaths returns the document layout the site is deployed with.
func DefaultPaths(baseURL string) Paths {
	return Paths{
		BaseURL: baseURL,
		Content: map[string]string{
			KeyTranslations: "jm-contents/translations.json",
			KeyServices:     "jm-contents/services.json",
			KeyPackages:     "jm-contents/packages.json",
			KeyCoverage:     "jm-contents/coverage.json",
			KeyTestimonials: "jm-contents/testimonials.json",
			KeyContacts:     "jm-contents/contacts.json",
		},
		Policies: map[string]string{
			PolicyTerms:   "jm-policies/terms.json",
			PolicyUsage:   "jm-policies/usage.json",
			PolicyPrivacy: "jm-policies/privacy.json",
			PolicyRefund:  "jm-policies/refund.json",
		},
	}
}

// PolicyKeys lists the configured policy keys in sorted order.
func (paths Paths) PolicyKeys() []string {
	keys := make([]string, 0, len(paths.Policies))
	for key := range paths.Policies {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Resolve joins a relative document path onto BaseURL.
func (paths Paths) Resolve(documentPath string) string {
	base, baseErr := url.Parse(strings.TrimSpace(paths.BaseURL))
	if baseErr != nil || base.String() == "" {
		return documentPath
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	reference, referenceErr := url.Parse(documentPath)
	if referenceErr != nil {
		return documentPath
	}
	return base.ResolveReference(reference).String()
}

type loadEntry struct {
	key      string
	url      string
	isPolicy bool
}

type loadResult struct {
	entry    loadEntry
	document json.RawMessage
}

// Loader fetches every configured document.
type Loader struct {
	fetcher *Fetcher
	paths   Paths
	logger  *zap.Logger
	now     func() time.Time
}

// NewLoader constructs a Loader.
func NewLoader(fetcher *Fetcher, paths Paths, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{fetcher: fetcher, paths: paths, logger: logger, now: time.Now}
}

// Paths returns the configured document layout.
func (loader *Loader) Paths() Paths {
	return loader.paths
}

// Load fetches all documents concurrently and partitions them into site content and policies once all
// fetches settle. A failed document is logged and left absent.
func (loader *Loader) Load(ctx context.Context) *Store {
	entries := loader.entries()
	results := make([]loadResult, len(entries))

	var group errgroup.Group
	for index, entry := range entries {
		group.Go(func() error {
			document, _ := loader.fetcher.FetchDocument(ctx, entry.url)
			results[index] = loadResult{entry: entry, document: document}
			return nil
		})
	}
	_ = group.Wait()

	store := NewStore()
	store.LoadedAt = loader.now().UTC()
	for _, result := range results {
		if result.document == nil {
			loader.logger.Warn("content_not_loaded", zap.String("key", result.entry.key))
			continue
		}
		var setErr error
		if result.entry.isPolicy {
			setErr = store.SetPolicy(result.entry.key, result.document)
		} else {
			setErr = store.SetContent(result.entry.key, result.document)
		}
		if setErr != nil {
			loader.logger.Error("content_decode_failed", zap.String("key", result.entry.key), zap.Error(setErr))
		}
	}
	return store
}

func (loader *Loader) entries() []loadEntry {
	entries := make([]loadEntry, 0, len(loader.paths.Content)+len(loader.paths.Policies))
	for key, documentPath := range loader.paths.Content {
		entries = append(entries, loadEntry{key: key, url: loader.paths.Resolve(documentPath)})
	}
	for key, documentPath := range loader.paths.Policies {
		entries = append(entries, loadEntry{key: key, url: loader.paths.Resolve(documentPath), isPolicy: true})
	}
	sort.Slice(entries, func(left, right int) bool {
		if entries[left].isPolicy != entries[right].isPolicy {
			return !entries[left].isPolicy
		}
		return entries[left].key < entries[right].key
	})
	return entries
}
