package config

import (
	"encoding/json"
	"os"

	"github.com/agentstation/rostersync/pkg/errors"
)

// SyncFile is the JSON job description accepted by --sync-file:
//
//	{"sync_type": "Students", "sync_force": false, "sync_delete_missing": true,
//	 "sync_filters": {"after_date": "2024-01-01", "grade_level": "9,10"}}
//
// Absent keys leave the loaded settings alone.
type SyncFile struct {
	SyncType          string          `json:"sync_type"`
	SyncForce         *bool           `json:"sync_force"`
	SyncDeleteMissing *bool           `json:"sync_delete_missing"`
	SyncFilters       SyncFileFilters `json:"sync_filters"`
}

// SyncFileFilters is the sync_filters block.
type SyncFileFilters struct {
	AfterDate  *string `json:"after_date"`
	GradeLevel *string `json:"grade_level"`
}

// LoadSyncFile reads a sync job file.
func LoadSyncFile(path string) (*SyncFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError("sync_file", "cannot read "+path, err)
	}
	var f SyncFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.NewConfigError("sync_file", "invalid JSON in "+path, errors.WrapParse("json", path, err))
	}
	return &f, nil
}

// Apply overlays the file onto s.
func (f *SyncFile) Apply(s *Sync) {
	if f.SyncType != "" {
		s.Type = f.SyncType
	}
	if f.SyncForce != nil {
		s.Force = *f.SyncForce
	}
	if f.SyncDeleteMissing != nil {
		s.DeleteMissing = *f.SyncDeleteMissing
	}
	if f.SyncFilters.AfterDate != nil {
		s.Filters.AfterDate = *f.SyncFilters.AfterDate
	}
	if f.SyncFilters.GradeLevel != nil {
		s.Filters.GradeLevel = *f.SyncFilters.GradeLevel
	}
}
