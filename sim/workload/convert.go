package workload

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ConvertCSV builds a workload Spec from two CSV files.
// The objects file has a header row naming the columns id, cost and size (any order,
// case-insensitive; extra columns are ignored). The trace file has a header row with
// an id column and one request per row. The result is not validated; call Build.
func ConvertCSV(objectsPath, tracePath string) (*Spec, error) {
	if objectsPath == "" || tracePath == "" {
		return nil, fmt.Errorf("both an objects CSV and a trace CSV are required")
	}
	objects, err := readObjectsCSV(objectsPath)
	if err != nil {
		return nil, err
	}
	requests, err := readTraceCSV(tracePath)
	if err != nil {
		return nil, err
	}
	return &Spec{Version: CurrentVersion, Objects: objects, Requests: requests}, nil
}

func readObjectsCSV(path string) ([]ObjectSpec, error) {
	rows, cols, err := readCSV(path, "id", "cost", "size")
	if err != nil {
		return nil, err
	}
	objects := make([]ObjectSpec, 0, len(rows))
	for i, record := range rows {
		cost, err := strconv.ParseFloat(strings.TrimSpace(record[cols["cost"]]), 64)
		if err != nil {
			return nil, fmt.Errorf("CSV %s row %d: invalid cost %q: %w", path, i, record[cols["cost"]], err)
		}
		size, err := strconv.ParseFloat(strings.TrimSpace(record[cols["size"]]), 64)
		if err != nil {
			return nil, fmt.Errorf("CSV %s row %d: invalid size %q: %w", path, i, record[cols["size"]], err)
		}
		objects = append(objects, ObjectSpec{
			ID:   strings.TrimSpace(record[cols["id"]]),
			Cost: &cost,
			Size: &size,
		})
	}
	return objects, nil
}

func readTraceCSV(path string) ([]string, error) {
	rows, cols, err := readCSV(path, "id")
	if err != nil {
		return nil, err
	}
	requests := make([]string, 0, len(rows))
	for i, record := range rows {
		id := strings.TrimSpace(record[cols["id"]])
		if id == "" {
			return nil, fmt.Errorf("CSV %s row %d: empty id", path, i)
		}
		requests = append(requests, id)
	}
	return requests, nil
}

// readCSV reads a headed CSV file and returns its data rows along with the
// index of each required column.
func readCSV(path string, required ...string) ([][]string, map[string]int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening CSV %s: %w", path, err)
	}
	defer file.Close() //nolint:errcheck // read-only file

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("reading CSV header from %s: %w", path, err)
	}
	cols := make(map[string]int, len(required))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, nil, fmt.Errorf("CSV %s: missing %q column in header %v", path, name, header)
		}
	}

	var rows [][]string
	rowIdx := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("CSV %s row %d: %w", path, rowIdx, err)
		}
		for _, name := range required {
			if cols[name] >= len(record) {
				return nil, nil, fmt.Errorf("CSV %s row %d: expected at least %d columns, got %d", path, rowIdx, cols[name]+1, len(record))
			}
		}
		rows = append(rows, record)
		rowIdx++
	}
	return rows, cols, nil
}
