package backup

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	apphttp "budgetplan/internal/http"
	"budgetplan/internal/services/storage"
)

// maxBackupBytes bounds uploaded backup archives
const maxBackupBytes = 10 << 20

var (
	store  *storage.StateStore
	reload func() error
	clock  = time.Now
)

// ErrNoSnapshot means an uploaded archive held no state snapshot
var ErrNoSnapshot = errors.New("no state snapshot found in backup")

// Initialize sets up the backup package. reload is called after a restore so
// the in-memory state picks up the new snapshot.
func Initialize(s *storage.StateStore, reloadFn func() error) {
	store = s
	reload = reloadFn
}

// RegisterRoutes registers the backup routes
func RegisterRoutes(r chi.Router) {
	r.Get("/backup", HandleBackup)
	r.Post("/restore", HandleRestore)
}

// HandleBackup streams a ZIP with the current snapshot. The archive is always
// unencrypted for portability.
func HandleBackup(w http.ResponseWriter, r *http.Request) {
	data, err := store.Export()
	if err != nil {
		apphttp.Error(w, err)
		return
	}

	timestamp := clock().Format("20060102_150405")
	filename := fmt.Sprintf("budget_backup_%s.zip", timestamp)

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	zw := zip.NewWriter(w)
	f, err := zw.CreateHeader(&zip.FileHeader{
		Name:     store.Filename(),
		Method:   zip.Deflate,
		Modified: clock(),
	})
	if err == nil {
		_, err = f.Write(data)
	}
	if err == nil {
		err = zw.Close()
	}
	if err != nil {
		// Headers are already out; all we can do is log
		log.Printf("Error creating backup: %v", err)
	}
}

// HandleRestore replaces the snapshot with the one inside an uploaded ZIP
// (multipart field "file")
func HandleRestore(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxBackupBytes); err != nil {
		apphttp.ErrorResponse(w, "File too large or not a multipart upload", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		apphttp.ErrorResponse(w, "Error reading file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".zip") {
		apphttp.ErrorResponse(w, "Only ZIP backup files are allowed", http.StatusBadRequest)
		return
	}

	content, err := io.ReadAll(io.LimitReader(file, maxBackupBytes))
	if err != nil {
		apphttp.ErrorResponse(w, "Error reading file", http.StatusInternalServerError)
		return
	}

	data, err := snapshotFromZip(content, store.Filename())
	if err != nil {
		apphttp.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	state, err := store.Import(data)
	if err != nil {
		if errors.Is(err, storage.ErrLocked) {
			apphttp.Error(w, err)
			return
		}
		apphttp.ErrorResponse(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if reload != nil {
		if err := reload(); err != nil {
			apphttp.Error(w, err)
			return
		}
	}

	log.Printf("Restore complete: %d periods, %d investments", len(state.Periods), len(state.Investments))
	apphttp.WriteJSON(w, http.StatusOK, map[string]any{
		"restored":      header.Filename,
		"horizon_built": state.HorizonBuilt,
		"periods":       len(state.Periods),
	})
}

// snapshotFromZip returns the entry named like the snapshot, or failing that
// the first JSON entry in the archive
func snapshotFromZip(content []byte, name string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("invalid ZIP file: %w", err)
	}

	var pick *zip.File
	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() {
			continue
		}
		base := filepath.Base(zf.Name)
		if base == name {
			pick = zf
			break
		}
		if pick == nil && strings.HasSuffix(strings.ToLower(base), ".json") {
			pick = zf
		}
	}
	if pick == nil {
		return nil, ErrNoSnapshot
	}

	rc, err := pick.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", pick.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxBackupBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", pick.Name, err)
	}
	return data, nil
}
