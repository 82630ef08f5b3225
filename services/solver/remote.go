package solver

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"quizsolver-backend/lib/tabular"
	"quizsolver-backend/lib/telemetry"
	"quizsolver-backend/lib/textutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

var fileURLRegex = regexp.MustCompile(`(?i)https?://[^\s'"<>]+\.(?:csv|pdf|xlsx|xls|txt)`)

// Downloader fetches candidate data files to temporary storage.
type Downloader struct {
	client *resty.Client
}

func NewDownloader() *Downloader {
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	telemetry.InstrumentResty(client, "solver/download")
	return &Downloader{client: client}
}

// Fetch streams fileURL into dir and returns the local path. A non-2xx
// status or transport failure is an error; callers skip to the next URL.
func (d *Downloader) Fetch(ctx context.Context, fileURL, dir string) (string, error) {
	name := "file"
	if parsed, err := url.Parse(fileURL); err == nil {
		if base := path.Base(parsed.Path); base != "" && base != "." && base != "/" {
			name = base
		}
	}
	dest := filepath.Join(dir, name)

	res, err := d.client.R().
		SetContext(ctx).
		SetOutput(dest).
		Get(fileURL)
	if err != nil {
		return "", err
	}
	if res.IsError() {
		return "", fmt.Errorf("download %s: status %s", fileURL, res.Status())
	}
	return dest, nil
}

// ResolveRemoteData discovers linked data-file URLs in the corpus and, in
// order of first appearance, downloads and parses each until one yields a
// number. Every per-URL failure is non-fatal; the first success stops the
// scan and later URLs are never tried.
func ResolveRemoteData(ctx context.Context, corpus string, d *Downloader) *Candidate {
	fileURLs := fileURLRegex.FindAllString(corpus, -1)
	if len(fileURLs) == 0 {
		return nil
	}

	dir, err := os.MkdirTemp("", "quizsolve")
	if err != nil {
		slog.WarnContext(ctx, "create download dir", "err", err)
		return nil
	}
	defer os.RemoveAll(dir)

	for _, fileURL := range fileURLs {
		local, err := d.Fetch(ctx, fileURL, dir)
		if err != nil {
			slog.DebugContext(ctx, "skip data file", "url", fileURL, "err", err)
			continue
		}
		if candidate := answerFromFile(ctx, local, fileURL); candidate != nil {
			return candidate
		}
	}
	return nil
}

func answerFromFile(ctx context.Context, local, fileURL string) *Candidate {
	ext := strings.ToLower(filepath.Ext(local))
	switch ext {
	case ".csv", ".txt":
		file, err := os.Open(local)
		if err != nil {
			return nil
		}
		defer file.Close()
		table, err := tabular.ReadCSV(file)
		if err != nil {
			return nil
		}
		if v, ok := DeriveNumberFromTable(table); ok {
			return &Candidate{Kind: KindFileTable, Value: v, Source: fileURL}
		}
	case ".xlsx", ".xls":
		read := tabular.ReadWorkbook
		if ext == ".xls" {
			read = tabular.ReadLegacyWorkbook
		}
		tables, err := read(local)
		if err != nil {
			slog.DebugContext(ctx, "unreadable workbook", "url", fileURL, "err", err)
			return nil
		}
		for _, table := range tables {
			if v, ok := DeriveNumberFromTable(table); ok {
				return &Candidate{Kind: KindFileTable, Value: v, Source: fileURL}
			}
		}
	case ".pdf":
		tables, text, err := tabular.ReadPDF(local)
		if err != nil {
			slog.DebugContext(ctx, "unreadable pdf", "url", fileURL, "err", err)
			return nil
		}
		for _, table := range tables {
			if v, ok := DeriveNumberFromTable(table); ok {
				return &Candidate{Kind: KindFileTable, Value: v, Source: fileURL}
			}
		}
		if v, ok := textutil.FirstNumber(text); ok {
			return &Candidate{Kind: KindFileText, Value: v, Source: fileURL}
		}
	}
	return nil
}
