// Package export writes a result set to a spreadsheet or CSV file.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"mealsexplorer/internal/domain"
)

// ErrUnsupportedFormat is returned for paths that are neither .csv nor .xlsx
var ErrUnsupportedFormat = errors.New("unsupported export format")

const sheet = "Meals"

var header = []string{
	"id", "name", "category", "area", "tags", "ingredients", "youtube", "source", "thumbnail",
}

func record(m domain.Meal) []string {
	ingredients := make([]string, 0, len(m.Ingredients))
	for _, ing := range m.Ingredients {
		if ing.Measure != "" {
			ingredients = append(ingredients, ing.Measure+" "+ing.Name)
		} else {
			ingredients = append(ingredients, ing.Name)
		}
	}
	return []string{
		m.ID, m.Name, m.Category, m.Area,
		strings.Join(m.Tags, ","), strings.Join(ingredients, "; "),
		m.YouTubeURL, m.SourceURL, m.ThumbnailURL,
	}
}

// Write exports meals to path, picking the format from its extension
func Write(path string, meals []domain.Meal) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return WriteCSV(path, meals)
	case ".xlsx":
		return WriteXLSX(path, meals)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// WriteCSV writes one header row and one row per meal
func WriteCSV(path string, meals []domain.Meal) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, m := range meals {
		if err := w.Write(record(m)); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// WriteXLSX writes the same table as WriteCSV into a single sheet
func WriteXLSX(path string, meals []domain.Meal) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}
	if err := sw.SetRow("A1", toRow(header)); err != nil {
		return err
	}
	for i, m := range meals {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, toRow(record(m))); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func toRow(cells []string) []any {
	row := make([]any, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}
