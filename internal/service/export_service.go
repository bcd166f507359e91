package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"health_metrics_backend/internal/model"
	"health_metrics_backend/internal/repository"
	"health_metrics_backend/internal/util"
	"health_metrics_backend/pkg/logger"
	"health_metrics_backend/pkg/monitoring"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	defaultExportDays = 30
	maxExportDays     = 366
	exportSheet       = "Observations"
)

var exportHeaders = []string{"Date", "Metric", "Unit", "Value", "Notes"}

type ExportService struct {
	MetricRepo *repository.HealthMetricRepository
	Storage    *StorageService
}

func NewExportService(metricRepo *repository.HealthMetricRepository, storage *StorageService) *ExportService {
	return &ExportService{
		MetricRepo: metricRepo,
		Storage:    storage,
	}
}

type ExportRequest struct {
	Format       string `json:"format" binding:"omitempty,oneof=csv xlsx"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	MetricTypeID uint   `json:"metric_type_id"`
}

type ExportResult struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	Format      string `json:"format"`
	Rows        int    `json:"rows"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
}

func (req ExportRequest) window(today time.Time) (time.Time, time.Time, error) {
	end := util.DateOnly(today)
	if req.EndDate != "" {
		e, err := util.ParseDate(req.EndDate)
		if err != nil {
			return time.Time{}, time.Time{}, util.NewValidationError("end_date", "Date has wrong format. Use YYYY-MM-DD.")
		}
		end = e
	}
	start := end.AddDate(0, 0, -(defaultExportDays - 1))
	if req.StartDate != "" {
		s, err := util.ParseDate(req.StartDate)
		if err != nil {
			return time.Time{}, time.Time{}, util.NewValidationError("start_date", "Date has wrong format. Use YYYY-MM-DD.")
		}
		start = s
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, util.NewValidationError("end_date", "End date must be after start date.")
	}
	if util.DaysBetween(start, end)+1 > maxExportDays {
		return time.Time{}, time.Time{}, util.NewValidationError("start_date", fmt.Sprintf("Export window is limited to %d days.", maxExportDays))
	}
	return start, end, nil
}

// Export renders the user's observations in the window and stores the file.
func (s *ExportService) Export(ctx context.Context, userID uint, req ExportRequest, today time.Time) (*ExportResult, error) {
	format := req.Format
	if format == "" {
		format = util.ExportCSV
	}
	start, end, err := req.window(today)
	if err != nil {
		return nil, err
	}

	metrics, err := s.MetricRepo.FindInRange(ctx, userID, start, end, req.MetricTypeID)
	if err != nil {
		return nil, err
	}

	var (
		body        []byte
		contentType string
	)
	switch format {
	case util.ExportXLSX:
		body, err = renderXLSX(metrics)
		contentType = util.MimeXLSX
	default:
		body, err = renderCSV(metrics)
		contentType = util.MimeCSV
	}
	if err != nil {
		return nil, fmt.Errorf("render %s export: %w", format, err)
	}

	key := exportKey(userID, uuid.NewString()+"."+format)
	url, err := s.Storage.Upload(ctx, key, bytes.NewReader(body), int64(len(body)), contentType)
	if err != nil {
		return nil, fmt.Errorf("store export: %w", err)
	}

	monitoring.ExportsCreated.WithLabelValues(format).Inc()
	logger.Log.Info("Observations exported",
		zap.Uint("user_id", userID),
		zap.String("key", key),
		zap.Int("rows", len(metrics)),
	)

	return &ExportResult{
		Key:         key,
		URL:         url,
		Format:      format,
		Rows:        len(metrics),
		PeriodStart: util.FormatDate(start),
		PeriodEnd:   util.FormatDate(end),
	}, nil
}

func exportKey(userID uint, file string) string {
	return fmt.Sprintf("exports/%d/%s", userID, file)
}

// Delete removes one of the user's exports. file is the last element of the
// key Export returned, e.g. "<uuid>.csv".
func (s *ExportService) Delete(ctx context.Context, userID uint, file string) error {
	ext := path.Ext(file)
	if ext != "."+util.ExportCSV && ext != "."+util.ExportXLSX {
		return util.ErrExportNotFound
	}
	if _, err := uuid.Parse(strings.TrimSuffix(file, ext)); err != nil {
		return util.ErrExportNotFound
	}

	key := exportKey(userID, file)
	if err := s.Storage.Delete(ctx, key); err != nil {
		return err
	}
	logger.Log.Info("Export deleted", zap.Uint("user_id", userID), zap.String("key", key))
	return nil
}

func exportRow(m *model.HealthMetric) []string {
	name, unit := "", ""
	if m.MetricType != nil {
		name, unit = m.MetricType.Name, m.MetricType.Unit
	}
	return []string{
		util.FormatDate(m.RecordedDate),
		name,
		unit,
		strconv.FormatFloat(m.Value, 'f', 2, 64),
		m.Notes,
	}
}

func renderCSV(metrics []model.HealthMetric) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeaders); err != nil {
		return nil, err
	}
	for i := range metrics {
		if err := w.Write(exportRow(&metrics[i])); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func renderXLSX(metrics []model.HealthMetric) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}
	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(exportSheet, cell, h)
		f.SetCellStyle(exportSheet, cell, cell, headerStyle)
	}

	for i := range metrics {
		m := &metrics[i]
		row := exportRow(m)
		r := i + 2
		f.SetCellValue(exportSheet, fmt.Sprintf("A%d", r), row[0])
		f.SetCellValue(exportSheet, fmt.Sprintf("B%d", r), row[1])
		f.SetCellValue(exportSheet, fmt.Sprintf("C%d", r), row[2])
		f.SetCellValue(exportSheet, fmt.Sprintf("D%d", r), m.Value)
		f.SetCellValue(exportSheet, fmt.Sprintf("E%d", r), row[4])
	}

	f.SetColWidth(exportSheet, "A", "A", 12)
	f.SetColWidth(exportSheet, "B", "B", 18)
	f.SetColWidth(exportSheet, "C", "C", 10)
	f.SetColWidth(exportSheet, "D", "D", 12)
	f.SetColWidth(exportSheet, "E", "E", 40)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
