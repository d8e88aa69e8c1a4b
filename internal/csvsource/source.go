// Package csvsource reads vendor batch-import CSV files. The first row names
// the columns; columns prefixed "customFields:" map into the record's
// custom-field set under the bare attribute name.
package csvsource

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"go-catalog-import/internal/service"
)

const customFieldPrefix = "customFields:"

type Source struct {
	path      string
	separator rune
}

func New(path string) *Source {
	return &Source{path: path, separator: ','}
}

// Each streams every record to fn. Rows with an empty name are silently
// skipped before they reach the engine. The file is re-opened on every call,
// so the sequence is restartable.
func (s *Source) Each(fn func(record service.ImportRecord) error) error {
	file, err := os.Open(s.path)
	if err != nil {
		return err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = s.separator
	reader.FieldsPerRecord = -1 // tolerate ragged rows
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return err
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		record := rowToRecord(header, row)
		if strings.TrimSpace(record.Name) == "" {
			continue
		}
		if err := fn(record); err != nil {
			return err
		}
	}
}

func rowToRecord(header, row []string) service.ImportRecord {
	record := service.ImportRecord{CustomFields: make(map[string]string)}
	for i, column := range header {
		if i >= len(row) {
			break
		}
		value := row[i]

		if strings.HasPrefix(column, customFieldPrefix) {
			name := strings.TrimPrefix(column, customFieldPrefix)
			if name != "" {
				record.CustomFields[name] = value
			}
			continue
		}

		switch column {
		case "sku":
			record.SKU = value
		case "name":
			record.Name = value
		case "slug":
			record.Slug = value
		case "description":
			record.Description = value
		case "price":
			record.Price = value
		case "enabled":
			record.Enabled = value
		case "stockOnHand":
			record.StockOnHand = value
		case "trackInventory":
			record.TrackInventory = value
		case "assetUrls":
			record.AssetURLs = value
		}
	}
	return record
}
