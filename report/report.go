// Package report formats benchmark results as JSON and writes them to a
// file or a results bucket. It is a thin layer around the engine; no
// statistics live here.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"cloud.google.com/go/storage"
	"github.com/golang/glog"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"

	"github.com/calbench/calbench/bench"
	"github.com/calbench/calbench/hist"
	"github.com/calbench/calbench/validate"
)

type (
	// TrialResult is the per-trial slice of a result document.
	TrialResult struct {
		Index   int              `json:"index"`
		Base    hist.Summary     `json:"base"`
		Target  hist.Summary     `json:"target"`
		Verdict validate.Verdict `json:"verdict"`
	}

	// Document is the finished-results format.
	Document struct {
		Title       string                    `json:"title"`
		StartedAt   time.Time                 `json:"startedAt"`
		Unit        string                    `json:"unit"`
		Calibration []bench.CalibrationResult `json:"calibration,omitempty"`
		Trials      []TrialResult             `json:"trials"`
		Aggregate   validate.BatchVerdict     `json:"aggregate"`
	}
)

// NewDocument assembles a result document from a validated paired batch.
func NewDocument(title string, unit string, batch *bench.PairedBatch, bv validate.BatchVerdict) *Document {
	doc := &Document{
		Title:     title,
		StartedAt: time.Now(),
		Unit:      unit,
		Aggregate: bv,
	}
	for i, pair := range batch.Pairs {
		doc.Trials = append(doc.Trials, TrialResult{
			Index:   i,
			Base:    pair.Base.Summary(),
			Target:  pair.Target.Summary(),
			Verdict: bv.Trials[i],
		})
	}
	return doc
}

// Write saves the document as indented JSON.
func Write(path string, doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	glog.Info("wrote report to ", path)
	return nil
}

// Upload puts the document into a results bucket under object.
func Upload(ctx context.Context, bucket, object string, doc *Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	httpClient, err := google.DefaultClient(ctx, storage.ScopeFullControl)
	if err != nil {
		return fmt.Errorf("default GCP client: %w", err)
	}
	client, err := storage.NewClient(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return fmt.Errorf("storage client: %w", err)
	}
	defer client.Close()

	w := client.Bucket(bucket).Object(object).NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("upload report: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("upload report: %w", err)
	}
	glog.Infof("uploaded report to gs://%s/%s", bucket, object)
	return nil
}
