// Package spend ingests daily ad spend exports into the CRM store.
package spend

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/angelmondragon/funnelsight-backend/pkg/db/models"
	"github.com/angelmondragon/funnelsight-backend/pkg/logger"
)

type spendWriter interface {
	UpsertSpendRecord(ctx context.Context, record models.SpendRecord) error
}

// Importer reads platform spend exports in CSV form and upserts them as
// spend records. Bad rows are skipped so one typo never sinks a whole file.
type Importer struct {
	writer spendWriter
	logg   *logger.Logger
}

// Summary reports the outcome of one import run.
type Summary struct {
	Imported int `json:"imported"`
	Failed   int `json:"failed"`
}

// NewImporter builds a spend importer.
func NewImporter(writer spendWriter, logg *logger.Logger) (*Importer, error) {
	if writer == nil {
		return nil, fmt.Errorf("spend writer required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Importer{writer: writer, logg: logg}, nil
}

// ImportCSV ingests a file with header source,campaign,ad_id,date,amount.
// Amount is dollars; storage is cents. The returned error aggregates every
// failed row and is non-nil only when at least one row failed.
func (i *Importer) ImportCSV(ctx context.Context, r io.Reader) (Summary, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return Summary{}, fmt.Errorf("reading spend csv header: %w", err)
	}
	columns, err := mapColumns(header)
	if err != nil {
		return Summary{}, err
	}

	var summary Summary
	var rowErrs error
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return summary, fmt.Errorf("reading spend csv: %w", err)
		}

		record, err := parseRow(columns, row)
		if err == nil {
			err = i.writer.UpsertSpendRecord(ctx, record)
		}
		if err != nil {
			summary.Failed++
			rowErrs = multierr.Append(rowErrs, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		summary.Imported++
	}

	logCtx := i.logg.WithFields(ctx, map[string]any{
		"imported": summary.Imported,
		"failed":   summary.Failed,
	})
	i.logg.Info(logCtx, "spend import finished")
	return summary, rowErrs
}

var requiredColumns = []string{"source", "campaign", "ad_id", "date", "amount"}

func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for idx, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = idx
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("spend csv is missing column %q", name)
		}
	}
	return columns, nil
}

func parseRow(columns map[string]int, row []string) (models.SpendRecord, error) {
	field := func(name string) string {
		idx := columns[name]
		if idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	source := field("source")
	if source == "" {
		return models.SpendRecord{}, fmt.Errorf("source is required")
	}

	date, err := time.Parse("2006-01-02", field("date"))
	if err != nil {
		return models.SpendRecord{}, fmt.Errorf("invalid date %q", field("date"))
	}

	amount, err := decimal.NewFromString(field("amount"))
	if err != nil {
		return models.SpendRecord{}, fmt.Errorf("invalid amount %q", field("amount"))
	}
	if amount.IsNegative() {
		return models.SpendRecord{}, fmt.Errorf("amount must not be negative")
	}

	record := models.SpendRecord{
		Source:      source,
		Campaign:    field("campaign"),
		Date:        date.UTC(),
		AmountCents: amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart(),
	}
	if adID := field("ad_id"); adID != "" {
		record.AdID = &adID
	}
	return record, nil
}
