package source

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"showreel/internal/domain"
)

// Document is the YAML layout of a portfolio file
type Document struct {
	Projects     []record `yaml:"projects"`
	Certificates []record `yaml:"certificates"`
}

// FileSource reads items from a YAML portfolio file
type FileSource struct {
	path       string
	collection string
}

// NewFileSource creates a source over path
func NewFileSource(path, collection string) *FileSource {
	if collection == "" {
		collection = CollectionProjects
	}
	return &FileSource{path: path, collection: collection}
}

func (s *FileSource) Name() string { return "file:" + s.path }

// Path returns the watched file
func (s *FileSource) Path() string { return s.path }

// Fetch reads and decodes the whole file
func (s *FileSource) Fetch(ctx context.Context) ([]domain.DisplayItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	return decodeDocument(data, s.collection)
}

func decodeDocument(data []byte, collection string) ([]domain.DisplayItem, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse portfolio: %w", err)
	}
	var items []domain.DisplayItem
	if wants(collection, domain.KindProject) {
		items = append(items, toItems(domain.KindProject, doc.Projects)...)
	}
	if wants(collection, domain.KindCertificate) {
		items = append(items, toItems(domain.KindCertificate, doc.Certificates)...)
	}
	uniqueKeys(items)
	return items, nil
}
