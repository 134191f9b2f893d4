package export

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	appcfg "github.com/sacred-word/core/internal/config"
	"github.com/sacred-word/core/internal/modules/processing/verse"
	"go.uber.org/zap"
)

// ErrNothingToExport is returned when the saved list is empty.
var ErrNothingToExport = errors.New("nothing to export")

const MsgNothingToExport = "সংরক্ষিত কোনো বাণী নেই।"

const documentHeader = "পবিত্র বাণী সংগ্রহ"

// ConfigSource provides the current runtime configuration.
type ConfigSource interface {
	Get() (*appcfg.FullConfig, error)
}

// Service renders the saved verse list as a plain-text document and ships
// it to S3 on demand or on schedule.
type Service struct {
	verses *verse.Service
	cfgSvc ConfigSource
	log    *zap.Logger
}

func NewService(verses *verse.Service, cfgSvc ConfigSource, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{verses: verses, cfgSvc: cfgSvc, log: log}
}

// BuildDocument renders verses into the export text format.
func BuildDocument(items []verse.Verse, now time.Time) string {
	var b strings.Builder
	b.WriteString(documentHeader)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", 24))
	b.WriteString("\n")
	b.WriteString(now.Format("2006-01-02"))
	b.WriteString("\n\n")

	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item.Reference)
		fmt.Fprintf(&b, "\"%s\"\n", item.Text)
		writeExplanationLine(&b, "ব্যাখ্যা", item.Explanation.TheologicalMeaning, item.Explanation.TheologicalReference)
		writeExplanationLine(&b, "পটভূমি", item.Explanation.HistoricalContext, item.Explanation.HistoricalReference)
		writeExplanationLine(&b, "প্রয়োগ", item.Explanation.PracticalApplication, item.Explanation.PracticalReference)
		if item.Prayer != "" {
			fmt.Fprintf(&b, "প্রার্থনা: %s\n", item.Prayer)
		}
		if len(item.KeyThemes) > 0 {
			fmt.Fprintf(&b, "মূল বিষয়: %s\n", strings.Join(item.KeyThemes, ", "))
		}
		if len(item.Tags) > 0 {
			fmt.Fprintf(&b, "ট্যাগ: %s\n", strings.Join(item.Tags, ", "))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func writeExplanationLine(b *strings.Builder, label, text, source string) {
	if text == "" {
		return
	}
	if source != "" {
		fmt.Fprintf(b, "%s: %s (সূত্র: %s)\n", label, text, source)
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, text)
}

// Export returns the document filename and contents.
func (s *Service) Export() (string, []byte, error) {
	items, err := s.verses.Saved()
	if err != nil {
		return "", nil, err
	}
	if len(items) == 0 {
		return "", nil, ErrNothingToExport
	}

	now := time.Now()
	filename := fmt.Sprintf("sacred-verses-%s.txt", now.Format("2006-01-02"))
	return filename, []byte(BuildDocument(items, now)), nil
}

// UploadToS3 exports and ships the document to the configured bucket,
// returning the public URL.
func (s *Service) UploadToS3(ctx context.Context) (string, error) {
	cfg, err := s.cfgSvc.Get()
	if err != nil {
		return "", err
	}

	filename, payload, err := s.Export()
	if err != nil {
		return "", err
	}

	uploader, err := newS3Uploader(cfg.S3Options)
	if err != nil {
		return "", err
	}

	objectKey := fmt.Sprintf("exports/%s/%s", time.Now().Format("2006/01"), filename)
	url, err := uploader.Upload(ctx, objectKey, payload, "text/plain; charset=utf-8")
	if err != nil {
		return "", err
	}
	s.log.Info("export uploaded", zap.String("url", url), zap.Int("bytes", len(payload)))
	return url, nil
}

// RunScheduled is the nightly backup job. It is a no-op while backups are
// disabled or there is nothing saved.
func (s *Service) RunScheduled(ctx context.Context) error {
	cfg, err := s.cfgSvc.Get()
	if err != nil {
		return err
	}
	if !cfg.BackupOptions.Enable {
		return nil
	}
	_, err = s.UploadToS3(ctx)
	if errors.Is(err, ErrNothingToExport) {
		return nil
	}
	return err
}
