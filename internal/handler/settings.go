package handler

import (
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/mseewaters/kitchen-tracker/internal/backup"
	"github.com/mseewaters/kitchen-tracker/internal/store"
)

type SettingsHandler struct {
	settings *store.SettingsStore
	backups  *backup.Manager
	logger   *slog.Logger
}

func NewSettingsHandler(ss *store.SettingsStore, bm *backup.Manager, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{settings: ss, backups: bm, logger: logger}
}

// GetS3 returns the S3 configuration with the secret key masked.
func (h *SettingsHandler) GetS3(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.GetS3Settings()
	if err != nil {
		h.logger.Error("get s3 settings", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get settings")
		return
	}
	if settings["s3_secret_key"] != "" {
		settings["s3_secret_key"] = "********"
	}
	writeJSON(w, http.StatusOK, settings)
}

type s3SettingsRequest struct {
	Endpoint  string `json:"s3_endpoint"`
	Region    string `json:"s3_region"`
	Bucket    string `json:"s3_bucket"`
	AccessKey string `json:"s3_access_key"`
	SecretKey string `json:"s3_secret_key"`
}

// PutS3 stores the S3 configuration and hot-reloads the backup manager.
func (h *SettingsHandler) PutS3(w http.ResponseWriter, r *http.Request) {
	var req s3SettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Bucket == "" {
		writeError(w, http.StatusBadRequest, "s3_bucket is required")
		return
	}

	pairs := map[string]string{
		"s3_endpoint":   req.Endpoint,
		"s3_region":     req.Region,
		"s3_bucket":     req.Bucket,
		"s3_access_key": req.AccessKey,
		"s3_secret_key": req.SecretKey,
	}
	for key, value := range pairs {
		if err := h.settings.Set(key, value); err != nil {
			h.logger.Error("set setting", "key", key, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to save settings")
			return
		}
	}

	if h.backups != nil {
		h.backups.UpdateS3Config(backup.S3Config{
			Endpoint:  req.Endpoint,
			Region:    req.Region,
			Bucket:    req.Bucket,
			AccessKey: req.AccessKey,
			SecretKey: req.SecretKey,
		})
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// GetBackup returns the backup schedule settings. The passphrase itself is
// never stored, only its salt.
func (h *SettingsHandler) GetBackup(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.GetBackupSettings()
	if err != nil {
		h.logger.Error("get backup settings", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get settings")
		return
	}
	settings["passphrase_set"] = strconv.FormatBool(settings["backup_passphrase_salt"] != "")
	delete(settings, "backup_passphrase_salt")
	writeJSON(w, http.StatusOK, settings)
}

type backupSettingsRequest struct {
	Enabled       *bool  `json:"backup_enabled"`
	Hour          *int   `json:"backup_hour"`
	RetentionDays *int   `json:"backup_retention_days"`
	Passphrase    string `json:"passphrase"`
}

// PutBackup stores the backup schedule. Supplying a passphrase generates a
// fresh salt and caches the derived credentials for scheduled runs.
func (h *SettingsHandler) PutBackup(w http.ResponseWriter, r *http.Request) {
	var req backupSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if req.Hour != nil && (*req.Hour < 0 || *req.Hour > 23) {
		writeError(w, http.StatusBadRequest, "backup_hour must be 0-23")
		return
	}
	if req.RetentionDays != nil && *req.RetentionDays < 1 {
		writeError(w, http.StatusBadRequest, "backup_retention_days must be positive")
		return
	}

	if req.Enabled != nil {
		if err := h.settings.Set("backup_enabled", strconv.FormatBool(*req.Enabled)); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to save settings")
			return
		}
	}
	if req.Hour != nil {
		if err := h.settings.Set("backup_hour", strconv.Itoa(*req.Hour)); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to save settings")
			return
		}
	}
	if req.RetentionDays != nil {
		if err := h.settings.Set("backup_retention_days", strconv.Itoa(*req.RetentionDays)); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to save settings")
			return
		}
	}

	if req.Passphrase != "" {
		salt, err := backup.GenerateSalt()
		if err != nil {
			h.logger.Error("generate salt", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to set passphrase")
			return
		}
		if err := h.settings.Set("backup_passphrase_salt", hex.EncodeToString(salt)); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to set passphrase")
			return
		}
		if h.backups != nil {
			h.backups.CacheKey(req.Passphrase, salt)
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// GetHousehold returns household-wide settings like the timezone that
// defines "today".
func (h *SettingsHandler) GetHousehold(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.GetHouseholdSettings()
	if err != nil {
		h.logger.Error("get household settings", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get settings")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

type householdSettingsRequest struct {
	Name        string `json:"household_name"`
	Timezone    string `json:"household_timezone"`
	SummaryHour *int   `json:"summary_hour"`
}

func (h *SettingsHandler) PutHousehold(w http.ResponseWriter, r *http.Request) {
	var req householdSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if req.Timezone != "" {
		if _, err := time.LoadLocation(req.Timezone); err != nil {
			writeError(w, http.StatusBadRequest, "unknown timezone")
			return
		}
		if err := h.settings.Set("household_timezone", req.Timezone); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to save settings")
			return
		}
	}
	if req.Name != "" {
		if err := h.settings.Set("household_name", req.Name); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to save settings")
			return
		}
	}
	if req.SummaryHour != nil {
		if *req.SummaryHour < 0 || *req.SummaryHour > 23 {
			writeError(w, http.StatusBadRequest, "summary_hour must be 0-23")
			return
		}
		if err := h.settings.Set("summary_hour", strconv.Itoa(*req.SummaryHour)); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to save settings")
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}
