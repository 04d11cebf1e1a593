package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/iudanet/medfichas/internal/models"
)

// writeRecords выводит пациентов в виде колонок, как они хранятся
func writeRecords(w io.Writer, format string, patients []*models.Patient) error {
	records := make([]models.Record, 0, len(patients))
	for _, p := range patients {
		rec, err := p.ToRecord()
		if err != nil {
			return err
		}
		records = append(records, rec)
	}
	return writeEncoded(w, format, records)
}

func writeEncoded(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
