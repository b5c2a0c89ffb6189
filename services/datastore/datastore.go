// Package datastore persists fetch results as flat files under a
// reports/<slug>/<date>/ tree, one directory per plugin per day.
package datastore

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/Summix-io/wp-plugin-review/lib/timezone"
	"github.com/Summix-io/wp-plugin-review/services/competitors"
	"github.com/Summix-io/wp-plugin-review/services/reviews"
)

type Store struct {
	BaseDir string
	// injectable for tests
	Now func() time.Time
}

func NewStore(baseDir string) *Store {
	if baseDir == "" {
		baseDir = "reports"
	}
	return &Store{BaseDir: baseDir, Now: timezone.Now}
}

// ReportInfo names every file a day's report directory may hold.
type ReportInfo struct {
	Directory       string
	PluginSlug      string
	Date            string
	JsonFile        string
	CsvFile         string
	ReportFile      string
	CompetitorsFile string
}

func (s *Store) ReportInfo(slug string) ReportInfo {
	date := s.Now().Format(time.DateOnly)
	dir := filepath.Join(s.BaseDir, slug, date)
	return ReportInfo{
		Directory:       dir,
		PluginSlug:      slug,
		Date:            date,
		JsonFile:        filepath.Join(dir, "reviews.json"),
		CsvFile:         filepath.Join(dir, "reviews.csv"),
		ReportFile:      filepath.Join(dir, "report.md"),
		CompetitorsFile: filepath.Join(dir, "competitors.md"),
	}
}

func (s *Store) ensureDir(slug string) (ReportInfo, error) {
	info := s.ReportInfo(slug)
	if err := os.MkdirAll(info.Directory, 0777); err != nil {
		return info, fmt.Errorf("creating report directory: %w", err)
	}
	return info, nil
}

// SaveDataset writes a dataset as indented JSON into the day's report
// directory and returns the file path.
func (s *Store) SaveDataset(data reviews.Dataset) (string, error) {
	info, err := s.ensureDir(data.PluginSlug)
	if err != nil {
		return "", err
	}
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding dataset: %w", err)
	}
	if err := os.WriteFile(info.JsonFile, encoded, 0644); err != nil {
		return "", fmt.Errorf("writing dataset: %w", err)
	}
	return info.JsonFile, nil
}

// LoadDataset reads a previously saved dataset back.
func (s *Store) LoadDataset(path string) (reviews.Dataset, error) {
	var data reviews.Dataset
	raw, err := os.ReadFile(path)
	if err != nil {
		return data, fmt.Errorf("reading dataset: %w", err)
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return data, fmt.Errorf("decoding dataset: %w", err)
	}
	return data, nil
}

// SaveCSV writes the dataset's reviews as a flat table.
func (s *Store) SaveCSV(data reviews.Dataset) (string, error) {
	info, err := s.ensureDir(data.PluginSlug)
	if err != nil {
		return "", err
	}

	f, err := os.Create(info.CsvFile)
	if err != nil {
		return "", fmt.Errorf("creating csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Rating", "Title", "Author", "Date", "Content", "SourceURL"}); err != nil {
		return "", fmt.Errorf("writing csv header: %w", err)
	}
	for _, r := range data.Reviews {
		date := r.RawDate
		if !r.Date.IsZero() {
			date = r.Date.Format(time.DateOnly)
		}
		row := []string{
			strconv.Itoa(r.Rating), r.Title, r.Author, date, r.Content, r.SourceUrl,
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("writing csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flushing csv: %w", err)
	}
	return info.CsvFile, nil
}

// SaveReviewReport writes a rendered markdown analysis as report.md.
func (s *Store) SaveReviewReport(slug, content string) (string, error) {
	info, err := s.ensureDir(slug)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(info.ReportFile, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return info.ReportFile, nil
}

// SaveCompetitorReport writes a rendered discovery result as
// competitors.md.
func (s *Store) SaveCompetitorReport(result *competitors.Result) (string, error) {
	info, err := s.ensureDir(result.TargetPlugin.Slug)
	if err != nil {
		return "", err
	}
	content := competitors.MarkdownReport(result, s.Now())
	if err := os.WriteFile(info.CompetitorsFile, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("writing competitor report: %w", err)
	}
	return info.CompetitorsFile, nil
}

var reportDateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ListReports returns the report dates recorded for a plugin, oldest
// first. A plugin with no reports yields an empty list, not an error.
func (s *Store) ListReports(slug string) []string {
	entries, err := os.ReadDir(filepath.Join(s.BaseDir, slug))
	if err != nil {
		return nil
	}
	var dates []string
	for _, entry := range entries {
		if entry.IsDir() && reportDateRegex.MatchString(entry.Name()) {
			dates = append(dates, entry.Name())
		}
	}
	sort.Strings(dates)
	return dates
}
