package repository

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/andy/scootrent/internal/domain"
	"gopkg.in/yaml.v3"
)

// recordsFile is the YAML layout of an exported rental ledger
type recordsFile struct {
	Records []*domain.RentalRecord `yaml:"records"`
}

// LoadRecordsFile reads rental records from a YAML file
func LoadRecordsFile(path string) ([]*domain.RentalRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f recordsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	for i, rec := range f.Records {
		if rec == nil {
			return nil, fmt.Errorf("%s: record %d is empty", path, i+1)
		}
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("%s: record %d: %w", path, rec.RecordNumber, err)
		}
	}

	return f.Records, nil
}

// SaveRecordsFile writes rental records to a YAML file
func SaveRecordsFile(path string, records []*domain.RentalRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(recordsFile{Records: records})
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
