package describe

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"

	"github.com/vistoria-app/vistoria/internal/models"
)

// WriteDataset saves descriptions as YAML (.yaml, .yml) or Parquet (.parquet).
func WriteDataset(path string, descriptions []models.ImageDescription) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := yaml.Marshal(descriptions)
		if err != nil {
			return fmt.Errorf("failed to marshal descriptions: %w", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write descriptions: %w", err)
		}
	case ".parquet":
		if err := writeParquet(path, descriptions); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported descriptions format: %s (use .yaml or .parquet)", filepath.Ext(path))
	}

	slog.Info("Wrote descriptions", "path", path, "count", len(descriptions))
	return nil
}

// ReadDataset loads descriptions written by WriteDataset.
func ReadDataset(path string) ([]models.ImageDescription, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read descriptions: %w", err)
		}
		var descriptions []models.ImageDescription
		if err := yaml.Unmarshal(data, &descriptions); err != nil {
			return nil, fmt.Errorf("failed to parse descriptions: %w", err)
		}
		return descriptions, nil
	case ".parquet":
		return readParquet(path)
	default:
		return nil, fmt.Errorf("unsupported descriptions format: %s (use .yaml or .parquet)", filepath.Ext(path))
	}
}

func writeParquet(path string, descriptions []models.ImageDescription) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[models.ImageDescription](file)
	if _, err := writer.Write(descriptions); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

func readParquet(path string) ([]models.ImageDescription, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[models.ImageDescription](pf)
	defer reader.Close()

	var descriptions []models.ImageDescription
	rows := make([]models.ImageDescription, 128)
	for {
		n, err := reader.Read(rows)
		descriptions = append(descriptions, rows[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}

	return descriptions, nil
}
