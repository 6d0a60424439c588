package main

import (
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/noah-isme/sparx-api/internal/dto"
	"github.com/noah-isme/sparx-api/internal/models"
)

// loadGenerateRequest reads a generate request from a YAML file. An empty path yields an empty request.
//
//	groupId: g-1
//	semester: WINTER
//	resolvedConflicts:
//	  ts-1:
//	    - {week: 1, day: 0, slot: 1, roomId: r-1}
func loadGenerateRequest(path string) (dto.GenerateScheduleRequest, error) {
	var req dto.GenerateScheduleRequest
	if path == "" {
		return req, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return req, fmt.Errorf("read request file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &req); err != nil {
		return req, fmt.Errorf("parse request file: %w", err)
	}
	return req, nil
}

// loadResolvedConflicts reads a teacher-subject id -> slots map from a YAML file.
func loadResolvedConflicts(path string) (map[string][]dto.ResolvedSlotRequest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read resolved conflicts: %w", err)
	}
	var resolved map[string][]dto.ResolvedSlotRequest
	if err := yaml.Unmarshal(raw, &resolved); err != nil {
		return nil, fmt.Errorf("parse resolved conflicts: %w", err)
	}
	return resolved, nil
}

// weightFlags are the optional ranking weight overrides shared by generate and reoptimize.
type weightFlags struct {
	preferences float64
	teacherGaps float64
	studentGaps float64
}

func (w *weightFlags) register(fs *pflag.FlagSet) {
	fs.Float64Var(&w.preferences, "w-pref", 0, "Weight of teacher preferences (configured default when unset)")
	fs.Float64Var(&w.teacherGaps, "w-teacher", 0, "Weight of teacher gap avoidance (configured default when unset)")
	fs.Float64Var(&w.studentGaps, "w-student", 0, "Weight of student gap avoidance (configured default when unset)")
}

// apply returns the weights to send, keeping base when no weight flag was set. Flags
// that were not set stay nil so the service default applies.
func (w *weightFlags) apply(fs *pflag.FlagSet, base *dto.WeightsRequest) *dto.WeightsRequest {
	if !fs.Changed("w-pref") && !fs.Changed("w-teacher") && !fs.Changed("w-student") {
		return base
	}
	out := dto.WeightsRequest{}
	if base != nil {
		out = *base
	}
	if fs.Changed("w-pref") {
		out.Preferences = lo.ToPtr(w.preferences)
	}
	if fs.Changed("w-teacher") {
		out.TeacherGaps = lo.ToPtr(w.teacherGaps)
	}
	if fs.Changed("w-student") {
		out.StudentGaps = lo.ToPtr(w.studentGaps)
	}
	return &out
}

func overrideString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

func overrideSemester(dst *models.Semester, value string) {
	if value != "" {
		*dst = models.Semester(value)
	}
}
