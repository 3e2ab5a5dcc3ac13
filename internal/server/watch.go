package server

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/hyperjump/pdfchat/internal/config"
	"go.uber.org/zap"
)

// WatchService is the part of the drop-folder watcher the API drives.
type WatchService interface {
	Directories() []string
	AddDirectory(path string, syncExisting bool) error
	RemoveDirectory(path string) error
}

// watchState is the drop-folder watcher attached with SetWatch.
type watchState struct {
	svc        WatchService
	configPath string
	mu         sync.Mutex
}

// SetWatch exposes w under /api/watch/directories. When configPath is set,
// every change is written back to watch.directories in that file.
func (s *Server) SetWatch(w WatchService, configPath string) {
	s.watch = &watchState{svc: w, configPath: configPath}
}

// persist writes dirs to the config file. Only watch.directories changes;
// env and flag overrides are not written back.
func (ws *watchState) persist(dirs []string) error {
	if ws.configPath == "" {
		return nil
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()
	cfg, err := config.Load(ws.configPath)
	if err != nil {
		return err
	}
	cfg.Watch.Directories = dirs
	return config.Save(ws.configPath, cfg)
}

func (s *Server) handleWatchList(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, "watch not enabled")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"directories": s.watch.svc.Directories()})
}

type watchAddRequest struct {
	Path string `json:"path"`
	Sync *bool  `json:"sync,omitempty"`
}

func (s *Server) handleWatchAdd(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, "watch not enabled")
		return
	}
	var req watchAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Path == "" {
		s.respondError(w, http.StatusBadRequest, "path is required")
		return
	}
	abs, err := filepath.Abs(req.Path)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid path")
		return
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			s.respondError(w, http.StatusNotFound, "directory not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !info.IsDir() {
		s.respondError(w, http.StatusBadRequest, "path is not a directory")
		return
	}
	syncExisting := true
	if req.Sync != nil {
		syncExisting = *req.Sync
	}
	if err := s.watch.svc.AddDirectory(abs, syncExisting); err != nil {
		s.logger.Error("watch add directory failed", zap.String("path", abs), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.watch.persist(s.watch.svc.Directories()); err != nil {
		s.logger.Warn("failed to persist watch directories", zap.Error(err))
	}
	s.logger.Info("watching directory", zap.String("path", abs), zap.Bool("sync_existing", syncExisting))
	s.respondJSON(w, http.StatusCreated, map[string]string{"path": abs, "status": "added"})
}

func (s *Server) handleWatchRemove(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, "watch not enabled")
		return
	}
	path := r.URL.Query().Get("path")
	if path == "" {
		s.respondError(w, http.StatusBadRequest, "path is required")
		return
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid path")
		return
	}
	if err := s.watch.svc.RemoveDirectory(abs); err != nil {
		s.logger.Error("watch remove directory failed", zap.String("path", abs), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.watch.persist(s.watch.svc.Directories()); err != nil {
		s.logger.Warn("failed to persist watch directories", zap.Error(err))
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"path": abs, "status": "removed"})
}
