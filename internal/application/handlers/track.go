package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ersonp/record-tracker/internal/domain/entities"
	"github.com/ersonp/record-tracker/internal/domain/ports"
	"github.com/ersonp/record-tracker/internal/domain/services"
	"github.com/ersonp/record-tracker/internal/infrastructure/parsers"
	"github.com/ersonp/record-tracker/internal/logging"
)

// TrackHandler runs the change notification cycle for incoming record snapshots.
type TrackHandler struct {
	store    ports.RecordStore
	diff     *services.DiffService
	notifier *services.Notifier
	log      logging.Logger
}

// NewTrackHandler creates a new track handler.
func NewTrackHandler(store ports.RecordStore, diff *services.DiffService, notifier *services.Notifier, log logging.Logger) *TrackHandler {
	if log == nil {
		log = logging.Nop()
	}
	return &TrackHandler{
		store:    store,
		diff:     diff,
		notifier: notifier,
		log:      log,
	}
}

// TrackResult contains the outcome of tracking one snapshot.
type TrackResult struct {
	RecordKey string
	// Action is one of the entities.Action* audit actions.
	Action string
	// Version is the stored version number, 0 when nothing was stored.
	Version int
	Notify  *services.NotifyResult
}

// TrackBatchResult contains the result of tracking a directory.
type TrackBatchResult struct {
	TotalFiles   int
	TotalChanged int
	FileResults  []*TrackResult
	Errors       []error
}

// HandleChange compares record with its latest stored version, mails the
// differences and stores record as the next version. A record seen for the
// first time is stored without notification. When the notification fails
// nothing is stored, so the next run retries it.
func (h *TrackHandler) HandleChange(ctx context.Context, record *entities.Record) (*TrackResult, error) {
	key := record.Key()
	log := h.log.With("record", key)
	result := &TrackResult{RecordKey: key}

	latest, err := h.store.FindLatestVersion(ctx, record.Type, record.ID)
	switch {
	case errors.Is(err, entities.ErrVersionNotFound):
		record.Original = nil
	case err != nil:
		return nil, fmt.Errorf("loading latest version of %s: %w", key, err)
	default:
		original := latest.Data
		record.Original = &original
	}

	notified, err := h.notifier.Notify(ctx, record)
	result.Notify = notified
	if err != nil {
		log.Warn(ctx, "notification failed", "error", err)
		h.audit(ctx, log, entities.ActionFailed, key, map[string]any{"error": err.Error()})
		return result, err
	}

	next := 1
	switch {
	case latest == nil:
		result.Action = entities.ActionCreated
	case notified.Diff.IsEmpty():
		result.Action = entities.ActionUnchanged
		log.Debug(ctx, "no changes", "version", latest.Version)
		h.audit(ctx, log, result.Action, key, map[string]any{"version": latest.Version})
		return result, nil
	default:
		result.Action = entities.ActionNotified
		next = latest.Version + 1
	}

	version := &entities.RecordVersion{
		RecordType: record.Type,
		RecordID:   record.ID,
		Version:    next,
		Data:       *record,
	}
	version.Data.Original = nil
	if err := h.store.SaveVersion(ctx, version); err != nil {
		return result, fmt.Errorf("saving version of %s: %w", key, err)
	}
	result.Version = next

	details := map[string]any{"version": next}
	if result.Action == entities.ActionNotified {
		details["fields"] = notified.Diff.Names()
		details["to"] = notified.Message.To
	}
	log.Info(ctx, "version stored", "action", result.Action, "version", next)
	h.audit(ctx, log, result.Action, key, details)

	return result, nil
}

// HandleFile parses the snapshot at path and tracks it.
func (h *TrackHandler) HandleFile(ctx context.Context, path string) (*TrackResult, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("accessing file: %w", err)
	}

	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", absPath)
	}

	record, err := parsers.ParseFile(absPath)
	if err != nil {
		return nil, err
	}

	return h.HandleChange(ctx, record)
}

// HandleDirectory tracks every snapshot in dirPath whose name matches pattern.
func (h *TrackHandler) HandleDirectory(ctx context.Context, dirPath, pattern string, recursive bool, progressFn func(file string)) (*TrackBatchResult, error) {
	absPath, err := filepath.Abs(dirPath)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("accessing path: %w", err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", absPath)
	}

	files, err := findSnapshots(absPath, pattern, recursive)
	if err != nil {
		return nil, fmt.Errorf("finding files: %w", err)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no snapshots matching pattern %q found in %s", pattern, absPath)
	}

	return h.trackFiles(ctx, files, progressFn), nil
}

// HandleGlob tracks every snapshot matching a shell glob such as "snapshots/*.json".
// Matches without a snapshot parser and directories are skipped.
func (h *TrackHandler) HandleGlob(ctx context.Context, pattern string, progressFn func(file string)) (*TrackBatchResult, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("expanding pattern %q: %w", pattern, err)
	}

	files := make([]string, 0, len(matches))
	for _, m := range matches {
		if IsDirectory(m) || parsers.ForFile(m) == nil {
			continue
		}
		files = append(files, m)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no snapshots match %q", pattern)
	}

	return h.trackFiles(ctx, files, progressFn), nil
}

func (h *TrackHandler) trackFiles(ctx context.Context, files []string, progressFn func(file string)) *TrackBatchResult {
	result := &TrackBatchResult{
		FileResults: make([]*TrackResult, 0, len(files)),
	}

	for _, file := range files {
		if progressFn != nil {
			progressFn(file)
		}

		fileResult, err := h.HandleFile(ctx, file)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", file, err))
			continue
		}

		result.FileResults = append(result.FileResults, fileResult)
		result.TotalFiles++
		if fileResult.Action == entities.ActionNotified {
			result.TotalChanged++
		}
	}

	return result
}

// HandleDiff returns the formatted differences between two snapshots without
// sending anything or touching the store.
func (h *TrackHandler) HandleDiff(ctx context.Context, oldRecord, newRecord *entities.Record) entities.Diff {
	return h.diff.Compute(ctx, oldRecord, newRecord)
}

func (h *TrackHandler) audit(ctx context.Context, log logging.Logger, action, key string, details map[string]any) {
	if err := h.store.LogAction(ctx, action, key, details); err != nil {
		log.Warn(ctx, "writing audit entry failed", "action", action, "error", err)
	}
}

// findSnapshots finds all files matching the pattern that have a snapshot parser.
func findSnapshots(dirPath, pattern string, recursive bool) ([]string, error) {
	var files []string

	walkFn := func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if !recursive && path != dirPath {
				return filepath.SkipDir
			}
			return nil
		}

		matched, err := filepath.Match(pattern, info.Name())
		if err != nil {
			return err
		}

		if matched && parsers.ForFile(path) != nil {
			files = append(files, path)
		}

		return nil
	}

	if err := filepath.Walk(dirPath, walkFn); err != nil {
		return nil, err
	}

	return files, nil
}

// IsDirectory checks if the given path is a directory.
func IsDirectory(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// IsGlobPattern checks if the path contains glob characters.
func IsGlobPattern(path string) bool {
	return strings.ContainsAny(path, "*?[")
}
