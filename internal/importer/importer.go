// Package importer reads batch manifests from CSV and Excel files. Each data
// row names one photo file and the sheet to produce from it. Delimiters are
// detected automatically and header names are matched case-insensitively.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/DocPhoto/internal/model"
	"github.com/piwi3910/DocPhoto/internal/pipeline"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Items    []pipeline.BatchItem
	Errors   []string
	Warnings []string
}

// Options controls how manifest rows become batch items.
type Options struct {
	// Defaults fills every column a row leaves blank.
	Defaults model.Job
	// BaseDir resolves relative image paths. Empty means the manifest's directory.
	BaseDir string
	// OutDir receives sheets whose row has no output path, and resolves
	// relative output paths. Empty means BaseDir.
	OutDir string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Image       int
	Photo       int
	Sheet       int
	Orientation int
	Format      int
	Output      int
	Retouch     int
	Prompt      int
	Background  int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"image":       {"image", "file", "photo file", "source", "src", "path", "picture"},
	"photo":       {"photo", "photo size", "size", "format size", "document"},
	"sheet":       {"sheet", "sheet size", "paper", "paper size", "page"},
	"orientation": {"orientation", "orient", "layout"},
	"format":      {"format", "output format", "type", "ext"},
	"output":      {"output", "out", "dest", "destination", "target"},
	"retouch":     {"retouch", "ai", "edit"},
	"prompt":      {"prompt", "instructions", "instruction"},
	"background":  {"background", "bg", "background color", "colour", "color"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or the positional
// mapping (image, photo, sheet, orientation, format, output) and false.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{
		Image: -1, Photo: -1, Sheet: -1, Orientation: -1, Format: -1,
		Output: -1, Retouch: -1, Prompt: -1, Background: -1,
	}
	slots := map[string]*int{
		"image":       &mapping.Image,
		"photo":       &mapping.Photo,
		"sheet":       &mapping.Sheet,
		"orientation": &mapping.Orientation,
		"format":      &mapping.Format,
		"output":      &mapping.Output,
		"retouch":     &mapping.Retouch,
		"prompt":      &mapping.Prompt,
		"background":  &mapping.Background,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized == alias {
					isHeader = true
					if slot := slots[role]; *slot == -1 {
						*slot = i
					}
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{
			Image: 0, Photo: 1, Sheet: 2, Orientation: 3, Format: 4,
			Output: 5, Retouch: -1, Prompt: -1, Background: -1,
		}, false
	}

	return mapping, true
}

// parseBool accepts the usual spreadsheet spellings of yes and no.
func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "x", "on":
		return true, true
	case "", "no", "n", "-", "off":
		return false, true
	}
	b, err := strconv.ParseBool(s)
	return b, err == nil
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow extracts a BatchItem from a row using the given column mapping.
// Returns the item, any error message, and any warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, line int, opts Options) (pipeline.BatchItem, string, string) {
	image := getCell(row, mapping.Image)
	if image == "" {
		return pipeline.BatchItem{}, fmt.Sprintf("%s: Missing image path", rowLabel), ""
	}

	job := opts.Defaults
	job.ID = model.NewJob().ID

	if s := getCell(row, mapping.Photo); s != "" {
		p, err := model.LookupPhotoSize(s)
		if err != nil {
			return pipeline.BatchItem{}, fmt.Sprintf("%s: Invalid photo size '%s'", rowLabel, s), ""
		}
		job.Photo = p
	}
	if s := getCell(row, mapping.Sheet); s != "" {
		sh, err := model.LookupSheetSize(s)
		if err != nil {
			return pipeline.BatchItem{}, fmt.Sprintf("%s: Invalid sheet size '%s'", rowLabel, s), ""
		}
		job.Sheet = sh
	}
	if s := getCell(row, mapping.Format); s != "" {
		f, err := model.ParseExportFormat(s)
		if err != nil {
			return pipeline.BatchItem{}, fmt.Sprintf("%s: Invalid format '%s'", rowLabel, s), ""
		}
		job.Format = f
	}

	var warnings []string
	if s := getCell(row, mapping.Orientation); s != "" {
		o, err := model.ParseOrientation(s)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: Unknown orientation '%s', defaulting to %s", rowLabel, s, job.Orientation))
		} else {
			job.Orientation = o
		}
	}
	if s := getCell(row, mapping.Retouch); s != "" {
		b, ok := parseBool(s)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("%s: Unknown retouch value '%s', defaulting to %t", rowLabel, s, job.Retouch))
		} else {
			job.Retouch = b
		}
	}
	// A prompt implies the row wants retouching.
	if s := getCell(row, mapping.Prompt); s != "" {
		job.Prompt = s
		job.Retouch = true
	}
	if s := getCell(row, mapping.Background); s != "" {
		job.Background = model.GetBackground(s)
	}

	if err := job.Validate(); err != nil {
		return pipeline.BatchItem{}, fmt.Sprintf("%s: %v", rowLabel, err), ""
	}

	item := pipeline.BatchItem{
		Row:    line,
		Source: resolve(opts.BaseDir, image),
		Output: outputPath(getCell(row, mapping.Output), image, job, opts),
		Job:    job,
	}
	return item, "", strings.Join(warnings, "; ")
}

// outputPath picks where a row's sheet is written. A missing extension is
// taken from the job's format.
func outputPath(out, image string, job model.Job, opts Options) string {
	dir := opts.OutDir
	if dir == "" {
		dir = opts.BaseDir
	}
	if out == "" {
		base := strings.TrimSuffix(filepath.Base(image), filepath.Ext(image))
		out = fmt.Sprintf("%s_%s", base, job.Filename())
	} else if filepath.Ext(out) == "" {
		out += "." + job.Format.Ext()
	}
	return resolve(dir, out)
}

func resolve(dir, p string) string {
	if filepath.IsAbs(p) || dir == "" {
		return p
	}
	return filepath.Join(dir, p)
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Import reads a manifest, choosing the Excel or CSV reader by extension.
func Import(path string, opts Options) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xls":
		return ImportExcel(path, opts)
	default:
		return ImportCSV(path, opts)
	}
}

// ImportCSV imports batch items from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
func ImportCSV(path string, opts Options) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", result.Warnings, withBaseDir(opts, path))
}

// ImportCSVFromReader imports batch items from a CSV reader with a specific
// delimiter. Relative paths resolve against opts.BaseDir as given.
func ImportCSVFromReader(reader io.Reader, delimiter rune, opts Options) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil, opts)
}

// ImportExcel imports batch items from the first sheet of an Excel file.
func ImportExcel(path string, opts Options) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil, withBaseDir(opts, path))
}

func withBaseDir(opts Options, manifest string) Options {
	if opts.BaseDir == "" {
		opts.BaseDir = filepath.Dir(manifest)
	}
	return opts
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string, opts Options) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	if opts.Defaults.Photo.Size.Width == 0 {
		opts.Defaults = model.NewJob()
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		if mapping.Image == -1 {
			result.Errors = append(result.Errors, "Required columns not found in header: Image")
			return result
		}
	}

	seen := make(map[string]int)
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		lineNum := i + 1

		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, lineNum)
		item, errMsg, warning := parseRow(row, mapping, rowLabel, lineNum, opts)

		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
		if prev, dup := seen[item.Output]; dup {
			result.Errors = append(result.Errors,
				fmt.Sprintf("%s: Output '%s' already written by %s %d", rowLabel, item.Output, rowPrefix, prev))
			continue
		}
		seen[item.Output] = lineNum

		result.Items = append(result.Items, item)
	}

	return result
}
