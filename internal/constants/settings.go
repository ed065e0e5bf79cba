package constants

const (
	// Queue defaults
	DefaultQueueColor       = "#3B82F6"
	DefaultQueueCapacityMin = 120

	// Task defaults
	DefaultTaskDurationMin = 30

	// Week convention: Monday=1 ... Friday=5
	FirstWorkday = 1
	LastWorkday  = 5

	// Settings
	DefaultLanguage = "en"

	// Fill thresholds (percent, inclusive upper bounds)
	FillSafeMaxPct    = 70
	FillWarningMaxPct = 100

	// Fill colors
	FillSafeColor    = "#3B82F6"
	FillWarningColor = "#F59E0B"
	FillDangerColor  = "#EF4444"
)
