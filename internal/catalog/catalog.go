package catalog

import (
	_ "embed"
	"fmt"
	"os"

	pkgerrors "github.com/foamwash/foamwash-backend/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Service is one offering in the static catalog.
type Service struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	BasePrice   int64    `yaml:"base_price" json:"base_price"`
	Duration    string   `yaml:"duration" json:"duration"`
	Sizes       []string `yaml:"sizes" json:"sizes"`
	WashTypes   []string `yaml:"wash_types" json:"wash_types"`
}

// Catalog is the immutable set of services plus the size surcharge table.
type Catalog struct {
	services   []Service
	byID       map[string]Service
	surcharges map[string]int64
}

type catalogFile struct {
	Services   []Service        `yaml:"services"`
	Surcharges map[string]int64 `yaml:"surcharges"`
}

// Load builds the catalog from the YAML file at path, or from the embedded
// default when path is empty.
func Load(path string) (*Catalog, error) {
	raw := defaultCatalogYAML
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %q: %w", path, err)
		}
		raw = b
	}

	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse catalog yaml: %w", err)
	}
	return build(file)
}

func build(file catalogFile) (*Catalog, error) {
	if len(file.Services) == 0 {
		return nil, fmt.Errorf("catalog has no services")
	}

	byID := make(map[string]Service, len(file.Services))
	for _, svc := range file.Services {
		if svc.ID == "" {
			return nil, fmt.Errorf("catalog service missing id")
		}
		if svc.Name == "" {
			return nil, fmt.Errorf("catalog service %q missing name", svc.ID)
		}
		if svc.BasePrice < 0 {
			return nil, fmt.Errorf("catalog service %q has negative base price", svc.ID)
		}
		if len(svc.Sizes) == 0 || len(svc.WashTypes) == 0 {
			return nil, fmt.Errorf("catalog service %q needs sizes and wash types", svc.ID)
		}
		if _, dup := byID[svc.ID]; dup {
			return nil, fmt.Errorf("duplicate catalog service id %q", svc.ID)
		}
		byID[svc.ID] = svc
	}

	surcharges := file.Surcharges
	if surcharges == nil {
		surcharges = map[string]int64{}
	}
	for size, amount := range surcharges {
		if amount < 0 {
			return nil, fmt.Errorf("surcharge for %q is negative", size)
		}
	}

	return &Catalog{
		services:   file.Services,
		byID:       byID,
		surcharges: surcharges,
	}, nil
}

// List returns all services in catalog order.
func (c *Catalog) List() []Service {
	out := make([]Service, len(c.services))
	copy(out, c.services)
	return out
}

// FindByID looks up a service. The second return is false for unknown ids.
func (c *Catalog) FindByID(id string) (Service, bool) {
	svc, ok := c.byID[id]
	return svc, ok
}

// Get returns the service or a typed unknown-service error.
func (c *Catalog) Get(id string) (Service, error) {
	svc, ok := c.byID[id]
	if !ok {
		return Service{}, pkgerrors.New(pkgerrors.CodeUnknownService, fmt.Sprintf("service %q not found", id))
	}
	return svc, nil
}

// SurchargeFor returns the flat size surcharge in COP. Sizes without an entry
// carry no surcharge.
func (c *Catalog) SurchargeFor(size string) int64 {
	return c.surcharges[size]
}

// Surcharges returns a copy of the size surcharge table.
func (c *Catalog) Surcharges() map[string]int64 {
	out := make(map[string]int64, len(c.surcharges))
	for k, v := range c.surcharges {
		out[k] = v
	}
	return out
}

// AllowsSize reports whether size is offered for the service.
func (s Service) AllowsSize(size string) bool {
	return contains(s.Sizes, size)
}

// AllowsWashType reports whether washType is offered for the service.
func (s Service) AllowsWashType(washType string) bool {
	return contains(s.WashTypes, washType)
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
