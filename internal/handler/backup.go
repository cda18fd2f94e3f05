package handler

import (
	"net/http"

	"github.com/pkordes/vocablog/internal/backup"
)

// BackupFile is one stored backup.
type BackupFile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// BackupsResponse wraps a list of backups.
type BackupsResponse struct {
	Backups []BackupFile `json:"backups"`
}

// ListBackups handles GET /backups.
func (s *Server) ListBackups(w http.ResponseWriter, r *http.Request) {
	files, err := s.backups.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, backupsToResponse(files))
}

// CreateBackup handles POST /backups: every data file is uploaded again.
func (s *Server) CreateBackup(w http.ResponseWriter, r *http.Request) {
	files, err := s.backups.Backup(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, backupsToResponse(files))
}

func backupsToResponse(files []backup.File) BackupsResponse {
	out := BackupsResponse{Backups: make([]BackupFile, 0, len(files))}
	for _, f := range files {
		out.Backups = append(out.Backups, BackupFile{ID: f.ID, Name: f.Name})
	}
	return out
}
