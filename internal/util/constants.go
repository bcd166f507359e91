package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

const (
	ExportCSV  = "csv"
	ExportXLSX = "xlsx"

	MimeCSV  = "text/csv"
	MimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	DefaultSummaryDays = 7
	DefaultTrendDays   = 30
	RecentMetricsLimit = 5
	OnTrackThreshold   = 50.0
)
