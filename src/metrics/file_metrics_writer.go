package metrics

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"newscorr/src/datamodels"
	"newscorr/src/utils/errors"
)

type FileFormat string

const (
	FormatCSV  FileFormat = "csv"
	FormatJSON FileFormat = "json"
)

var csvHeader = []string{
	"metric_time",
	"metric_generator_id",
	"metric_generator_name",
	"metric_generator_type",
	"metric_name",
	"metric_value",
}

// FileMetricsWriter appends metrics to one file per generator per day, in CSV or JSON lines.
type FileMetricsWriter struct {
	dateId     string
	baseDir    string
	files      map[string]*os.File
	csvWriters map[string]*csv.Writer
	fileFormat FileFormat
	mu         sync.Mutex
}

func NewFileMetricsWriter(baseDir string, format FileFormat) (*FileMetricsWriter, error) {
	if format != FormatCSV && format != FormatJSON {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "unknown metrics file format %q", format)
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create metrics directory: %w", err)
	}
	now := time.Now()
	todaysDateId := fmt.Sprintf("%d%02d%02d", now.Year(), now.Month(), now.Day())

	return &FileMetricsWriter{
		dateId:     todaysDateId,
		baseDir:    baseDir,
		files:      make(map[string]*os.File),
		csvWriters: make(map[string]*csv.Writer),
		fileFormat: format,
	}, nil
}

// FilePath returns the file metrics of generatorName are appended to.
func (w *FileMetricsWriter) FilePath(generatorName string) string {
	return filepath.Join(w.baseDir, fmt.Sprintf("%s_%s.%s", w.dateId, generatorName, w.fileFormat))
}

func (w *FileMetricsWriter) open(generatorName string) (*os.File, error) {
	if file, ok := w.files[generatorName]; ok {
		return file, nil
	}
	filename := w.FilePath(generatorName)
	_, statErr := os.Stat(filename)
	isNew := os.IsNotExist(statErr)

	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open metrics file: %w", err)
	}
	if w.fileFormat == FormatCSV {
		csvWriter := csv.NewWriter(f)
		if isNew {
			if err := csvWriter.Write(csvHeader); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to write CSV headers: %w", err)
			}
			csvWriter.Flush()
		}
		w.csvWriters[generatorName] = csvWriter
	}
	w.files[generatorName] = f
	return f, nil
}

func (w *FileMetricsWriter) Write(ctx context.Context, metric datamodels.Metric) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	file, err := w.open(metric.MetricGeneratorName)
	if err != nil {
		return err
	}

	switch w.fileFormat {
	case FormatJSON:
		jsonBytes, err := json.Marshal(newMetricMessage(metric))
		if err != nil {
			return fmt.Errorf("failed to marshal metric to JSON: %w", err)
		}
		if _, err := file.Write(append(jsonBytes, '\n')); err != nil {
			return fmt.Errorf("failed to write JSON metrics: %w", err)
		}
	case FormatCSV:
		csvWriter := w.csvWriters[metric.MetricGeneratorName]
		values := []string{
			metric.MetricTime.Format(time.RFC3339),
			metric.MetricGeneratorId,
			metric.MetricGeneratorName,
			string(metric.MetricGeneratorType),
			metric.MetricName,
			string(metric.MetricValue),
		}
		if err := csvWriter.Write(values); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil {
			return fmt.Errorf("error flushing CSV writer: %w", err)
		}
	}

	return nil
}

func (w *FileMetricsWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var lastErr error
	for source, file := range w.files {
		if writer := w.csvWriters[source]; writer != nil {
			writer.Flush()
			if err := writer.Error(); err != nil {
				slog.Error("Failed to flush CSV writer", "source", source, "error", err)
				lastErr = err
			}
		}
		if err := file.Close(); err != nil {
			slog.Error("Failed to close metrics file", "source", source, "error", err)
			lastErr = err
		}
	}
	w.files = make(map[string]*os.File)
	w.csvWriters = make(map[string]*csv.Writer)
	return lastErr
}
