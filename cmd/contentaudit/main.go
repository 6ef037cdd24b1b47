package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/MarkoPoloResearchLab/sinthia_site/internal/content"
	"github.com/MarkoPoloResearchLab/sinthia_site/internal/i18n"
)

const (
	defaultManifestPath = "content-audit.yml"
	fetchTimeout        = 15 * time.Second
	minimumRating       = 1
	maximumRating       = 5
)

var errAuditFailed = errors.New("content_audit_failed")

type stringList []string

func (list *stringList) UnmarshalYAML(node *yaml.Node) error {
	if node == nil {
		*list = nil
		return nil
	}
	switch node.Kind {
	case yaml.ScalarNode:
		value := strings.TrimSpace(node.Value)
		if value == "" {
			*list = nil
			return nil
		}
		*list = []string{value}
		return nil
	case yaml.SequenceNode:
		entries := make([]string, 0, len(node.Content))
		for _, child := range node.Content {
			if child == nil {
				continue
			}
			value := strings.TrimSpace(child.Value)
			if value == "" {
				continue
			}
			entries = append(entries, value)
		}
		*list = entries
		return nil
	default:
		return fmt.Errorf("unsupported yaml node kind %d for list", node.Kind)
	}
}

// auditManifest names the deployment to audit and what it must carry.
type auditManifest struct {
	BaseURL      string     `yaml:"base_url"`
	Languages    stringList `yaml:"languages"`
	RequiredKeys stringList `yaml:"required_keys"`
}

type auditResult struct {
	errors   []string
	warnings []string
}

func (result *auditResult) addError(message string, arguments ...any) {
	result.errors = append(result.errors, fmt.Sprintf(message, arguments...))
}

func (result *auditResult) addWarning(message string, arguments ...any) {
	result.warnings = append(result.warnings, fmt.Sprintf(message, arguments...))
}

func (result auditResult) ok() bool {
	return len(result.errors) == 0
}

func main() {
	manifestPath := defaultManifestPath
	if len(os.Args) > 1 {
		manifestPath = os.Args[1]
	}

	result := runAudit(context.Background(), manifestPath)
	sort.Strings(result.errors)
	sort.Strings(result.warnings)

	for _, warning := range result.warnings {
		_, _ = fmt.Fprintf(os.Stdout, "WARN: %s\n", warning)
	}
	for _, errorMessage := range result.errors {
		_, _ = fmt.Fprintf(os.Stderr, "ERROR: %s\n", errorMessage)
	}
	if !result.ok() {
		_, _ = fmt.Fprintf(os.Stderr, "content-audit failed\n")
		os.Exit(1)
	}
	_, _ = fmt.Fprintf(os.Stdout, "content-audit OK\n")
}

func runAudit(ctx context.Context, manifestPath string) auditResult {
	var result auditResult

	manifest, manifestErr := readManifest(manifestPath)
	if manifestErr != nil {
		result.addError("%v", manifestErr)
		return result
	}

	fetcher := content.NewFetcher(resty.New().SetTimeout(fetchTimeout), zap.NewNop())
	paths := content.DefaultPaths(manifest.BaseURL)
	store := content.NewLoader(fetcher, paths, zap.NewNop()).Load(ctx)

	auditStore(store, paths, manifest, &result)
	return result
}

func readManifest(manifestPath string) (auditManifest, error) {
	payload, readErr := os.ReadFile(manifestPath)
	if readErr != nil {
		return auditManifest{}, fmt.Errorf("read manifest %s: %w", manifestPath, readErr)
	}
	var manifest auditManifest
	if decodeErr := yaml.Unmarshal(payload, &manifest); decodeErr != nil {
		return auditManifest{}, fmt.Errorf("parse manifest %s: %w", manifestPath, decodeErr)
	}
	manifest.BaseURL = strings.TrimSpace(manifest.BaseURL)
	if manifest.BaseURL == "" {
		return auditManifest{}, fmt.Errorf("%w: manifest %s has no base_url", errAuditFailed, manifestPath)
	}
	if len(manifest.Languages) == 0 {
		manifest.Languages = stringList{i18n.BaseLanguage}
	}
	return manifest, nil
}

func auditStore(store *content.Store, paths content.Paths, manifest auditManifest, result *auditResult) {
	checkDocumentsPresent(store, paths, result)
	if !store.Usable() {
		result.addError("translations: base language %q is missing", i18n.BaseLanguage)
		return
	}
	checkTranslations(store.Translations, manifest, result)
	checkServiceKeys(store, result)
	checkCoverage(store.Coverage, manifest.Languages, result)
	checkTestimonials(store.Testimonials, result)
	checkPolicies(store, paths, manifest.Languages, result)
}

func checkDocumentsPresent(store *content.Store, paths content.Paths, result *auditResult) {
	for key, documentPath := range paths.Content {
		if !store.Has(key) {
			result.addError("document %s (%s) could not be loaded", key, paths.Resolve(documentPath))
		}
	}
}

func checkTranslations(table i18n.Table, manifest auditManifest, result *auditResult) {
	for _, key := range manifest.RequiredKeys {
		if table[i18n.BaseLanguage][key] == "" {
			result.addError("translations: required key %s is missing in %s", key, i18n.BaseLanguage)
		}
	}
	for _, languageCode := range manifest.Languages {
		if languageCode == i18n.BaseLanguage {
			continue
		}
		if !table.HasLanguage(languageCode) {
			result.addError("translations: language %s is missing", languageCode)
			continue
		}
		for _, key := range missingKeys(table[i18n.BaseLanguage], table[languageCode]) {
			result.addWarning("translations: %s falls back to %s for %s", languageCode, i18n.BaseLanguage, key)
		}
	}
}

func missingKeys(reference map[string]string, candidate map[string]string) []string {
	var missing []string
	for key := range reference {
		if candidate[key] == "" {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}

func checkServiceKeys(store *content.Store, result *auditResult) {
	for index, service := range store.Services {
		for _, key := range []string{service.TitleKey, service.DescriptionKey} {
			if _, resolved := store.Translations.Resolve(i18n.BaseLanguage, key); !resolved {
				result.addError("services[%d]: translation key %q is not defined", index, key)
			}
		}
	}
}

func checkCoverage(areas []content.CoverageArea, languages []string, result *auditResult) {
	seen := make(map[string]struct{}, len(areas))
	for _, area := range areas {
		if _, duplicate := seen[area.Value]; duplicate {
			result.addError("coverage: area %s is listed more than once", area.Value)
		}
		seen[area.Value] = struct{}{}
		if !area.Status.Known() {
			result.addWarning("coverage: area %s has unrecognized status %q", area.Value, area.Status)
		}
		for _, languageCode := range languages {
			if area.Name[languageCode] == "" {
				result.addWarning("coverage: area %s has no %s name", area.Value, languageCode)
			}
		}
	}
}

func checkTestimonials(testimonials []content.Testimonial, result *auditResult) {
	for index, testimonial := range testimonials {
		if testimonial.Rating < minimumRating || testimonial.Rating > maximumRating {
			result.addError("testimonials[%d]: rating %d is outside %d-%d", index, testimonial.Rating, minimumRating, maximumRating)
		}
	}
}

func checkPolicies(store *content.Store, paths content.Paths, languages []string, result *auditResult) {
	for _, key := range paths.PolicyKeys() {
		if _, found := store.Policy(key, i18n.BaseLanguage); !found {
			result.addError("policy %s has no %s entry", key, i18n.BaseLanguage)
			continue
		}
		for _, languageCode := range languages {
			if _, translated := store.Policies[key][languageCode][key]; !translated {
				result.addWarning("policy %s falls back to %s for %s", key, i18n.BaseLanguage, languageCode)
			}
		}
	}
}
