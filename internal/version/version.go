package version

import (
	"fmt"
	"time"
)

// Заполняются через -ldflags "-X gridtactics/internal/version.BuildDate=..."
var (
	BuildDate   string // YYYY-MM-DD (UTC)
	BuildCommit string
	BuildBranch string
	BuildCI     string
)

const (
	// Service - имя сервиса в /version и логах старта
	Service = "gridtactics"

	// EpochDate - день первого релиза, номер сборки = дни от него
	EpochDate = "2026-03-02"

	dateLayout = "2006-01-02"
)

// Info - метаданные сборки для /version
type Info struct {
	Service   string `json:"service"`
	BuildID   int    `json:"buildId"`
	BuildDate string `json:"buildDate,omitempty"`
	Commit    string `json:"commit,omitempty"`
	Branch    string `json:"branch,omitempty"`
	CI        string `json:"ci,omitempty"`
	Known     bool   `json:"known"` // false, если дата сборки не задана или кривая
	Error     string `json:"error,omitempty"`
}

// BuildNumber - номер сборки для даты: целые дни UTC от EpochDate
func BuildNumber(date string) (int, error) {
	if date == "" {
		return 0, fmt.Errorf("build date is empty")
	}
	epoch, err := time.Parse(dateLayout, EpochDate)
	if err != nil {
		return 0, fmt.Errorf("invalid epoch %q: %w", EpochDate, err)
	}
	built, err := time.Parse(dateLayout, date)
	if err != nil {
		return 0, fmt.Errorf("invalid build date %q: %w", date, err)
	}
	if built.Before(epoch) {
		return 0, fmt.Errorf("build date %s is before epoch %s", date, EpochDate)
	}
	return int(built.Sub(epoch).Hours() / 24), nil
}

// Current собирает Info из переменных ldflags. Безопасно вызывать когда угодно.
func Current() Info {
	info := Info{
		Service:   Service,
		BuildDate: BuildDate,
		Commit:    BuildCommit,
		Branch:    BuildBranch,
		CI:        BuildCI,
	}
	id, err := BuildNumber(BuildDate)
	if err != nil {
		info.Error = err.Error()
		return info
	}
	info.BuildID = id
	info.Known = true
	return info
}

// String - строка для лога старта
func (i Info) String() string {
	if !i.Known {
		return fmt.Sprintf("%s build unknown (%s)", i.Service, i.Error)
	}
	return fmt.Sprintf("%s build %d (%s) commit[%s] branch[%s] ci[%s]",
		i.Service, i.BuildID, i.BuildDate,
		orDefault(i.Commit, "unknown"),
		orDefault(i.Branch, "unknown"),
		orDefault(i.CI, "local"),
	)
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
