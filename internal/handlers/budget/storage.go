package budget

import (
	"log"
	"net/http"

	apphttp "budgetplan/internal/http"
	"budgetplan/internal/services/storage"
)

type passwordRequest struct {
	Password string `json:"password"`
}

type storageStatus struct {
	Encrypted bool `json:"encrypted"`
	Unlocked  bool `json:"unlocked"`
}

func currentStatus() storageStatus {
	s := store.Storage()
	return storageStatus{Encrypted: s.IsEncrypted(), Unlocked: s.IsUnlocked()}
}

func handleStorageStatus(w http.ResponseWriter, r *http.Request) {
	mu.Lock()
	defer mu.Unlock()
	apphttp.WriteJSON(w, http.StatusOK, currentStatus())
}

// handleEncrypt saves the current state and then seals the data directory
func handleEncrypt(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if err := apphttp.DecodeJSON(r, &req); err != nil {
		apphttp.Error(w, err)
		return
	}

	mu.Lock()
	defer mu.Unlock()

	if eng == nil {
		apphttp.Error(w, storage.ErrLocked)
		return
	}
	if err := store.Save(eng.State()); err != nil {
		apphttp.Error(w, err)
		return
	}
	if err := store.Storage().EnableEncryption(req.Password); err != nil {
		apphttp.Error(w, err)
		return
	}
	log.Printf("Encryption enabled for %s", store.Storage().BaseDir())
	apphttp.WriteJSON(w, http.StatusOK, currentStatus())
}

func handleDecrypt(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if err := apphttp.DecodeJSON(r, &req); err != nil {
		apphttp.Error(w, err)
		return
	}

	mu.Lock()
	defer mu.Unlock()

	if err := store.Storage().DisableEncryption(req.Password); err != nil {
		apphttp.Error(w, err)
		return
	}
	if eng == nil {
		if err := loadLocked(); err != nil {
			apphttp.Error(w, err)
			return
		}
	}
	log.Printf("Encryption disabled for %s", store.Storage().BaseDir())
	apphttp.WriteJSON(w, http.StatusOK, currentStatus())
}

func handleUnlock(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if err := apphttp.DecodeJSON(r, &req); err != nil {
		apphttp.Error(w, err)
		return
	}

	mu.Lock()
	defer mu.Unlock()

	if err := store.Storage().Unlock(req.Password); err != nil {
		apphttp.Error(w, err)
		return
	}
	if err := loadLocked(); err != nil {
		apphttp.Error(w, err)
		return
	}
	apphttp.WriteJSON(w, http.StatusOK, currentStatus())
}

// handleLock forgets the key and the decrypted state. Unencrypted storage cannot be locked.
func handleLock(w http.ResponseWriter, r *http.Request) {
	mu.Lock()
	defer mu.Unlock()

	s := store.Storage()
	if !s.IsEncrypted() {
		apphttp.Error(w, storage.ErrNotEncrypted)
		return
	}
	s.Lock()
	eng = nil
	apphttp.WriteJSON(w, http.StatusOK, currentStatus())
}
