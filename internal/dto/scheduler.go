package dto

import (
	"github.com/samber/lo"

	"github.com/noah-isme/sparx-api/internal/models"
	"github.com/noah-isme/sparx-api/internal/scheduler"
)

// ResolvedSlotRequest pins one block of an obligation to a fixed place in the grid.
type ResolvedSlotRequest struct {
	Week   int    `json:"week" yaml:"week" validate:"min=1,max=15"`
	Day    int    `json:"day" yaml:"day" validate:"min=0,max=4"`
	Slot   int    `json:"slot" yaml:"slot" validate:"min=1,max=7"`
	RoomID string `json:"roomId" yaml:"roomId" validate:"required"`
}

// WeightsRequest overrides the optimisation weights for one run. Keys left out keep
// their default.
type WeightsRequest struct {
	Preferences *float64 `json:"preferences,omitempty" yaml:"preferences"`
	TeacherGaps *float64 `json:"teacherGaps,omitempty" yaml:"teacherGaps"`
	StudentGaps *float64 `json:"studentGaps,omitempty" yaml:"studentGaps"`
}

// ToWeights overlays the keys that were sent on base.
func (w WeightsRequest) ToWeights(base scheduler.Weights) scheduler.Weights {
	return scheduler.Weights{
		Preferences: lo.FromPtrOr(w.Preferences, base.Preferences),
		TeacherGaps: lo.FromPtrOr(w.TeacherGaps, base.TeacherGaps),
		StudentGaps: lo.FromPtrOr(w.StudentGaps, base.StudentGaps),
	}
}

// GenerateScheduleRequest asks for a fresh DRAFT batch for one group.
type GenerateScheduleRequest struct {
	GroupID  string          `json:"groupId" yaml:"groupId" validate:"required"`
	Semester models.Semester `json:"semester,omitempty" yaml:"semester" validate:"omitempty,oneof=WINTER SUMMER"`
	// ResolvedConflicts maps a teacher-subject id to operator chosen placements.
	ResolvedConflicts map[string][]ResolvedSlotRequest `json:"resolvedConflicts,omitempty" yaml:"resolvedConflicts" validate:"omitempty,dive,dive"`
	ExistingBatchID   string                           `json:"existingBatchId,omitempty" yaml:"existingBatchId"`
	Weights           *WeightsRequest                  `json:"weights,omitempty" yaml:"weights" validate:"omitempty"`
}

// ReoptimizeScheduleRequest regenerates the given drafts in place.
type ReoptimizeScheduleRequest struct {
	BatchIDs []string        `json:"batchIds" validate:"required,min=1,dive,required"`
	Semester models.Semester `json:"semester,omitempty" validate:"omitempty,oneof=WINTER SUMMER"`
	Weights  *WeightsRequest `json:"weights,omitempty" validate:"omitempty"`
}

// PublishScheduleRequest promotes the given drafts.
type PublishScheduleRequest struct {
	BatchIDs []string `json:"batchIds" validate:"required,min=1,dive,required"`
}

// GroupRef identifies a student group in responses.
type GroupRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ScheduleStats summarises a generation run.
type ScheduleStats struct {
	TotalEntries    int     `json:"totalEntries"`
	ConflictsCount  int     `json:"conflictsCount"`
	WeeksCount      int     `json:"weeksCount"`
	PreferenceScore float64 `json:"preferenceScore"`
	TeacherGaps     int     `json:"teacherGaps"`
	StudentGaps     int     `json:"studentGaps"`
}

// GenerateScheduleResponse is returned by generation. Conflicts do not make it an error.
type GenerateScheduleResponse struct {
	Batch     models.ScheduleBatch         `json:"batch"`
	Schedule  []models.ScheduleEntry       `json:"schedule"`
	Conflicts []scheduler.Conflict         `json:"conflicts"`
	Summaries []scheduler.PlacementSummary `json:"summaries"`
	Group     GroupRef                     `json:"group"`
	Semester  models.Semester              `json:"semester"`
	Stats     ScheduleStats                `json:"stats"`
}

// ReoptimizeScheduleResponse lists the regenerated batches.
type ReoptimizeScheduleResponse struct {
	Reoptimized []models.ScheduleBatch `json:"reoptimized"`
	Count       int                    `json:"count"`
}

// PublishScheduleResponse lists the batches switched to PUBLISHED.
type PublishScheduleResponse struct {
	Published []models.ScheduleBatch `json:"published"`
	Count     int                    `json:"count"`
}

// ScheduleBatchDetail is a batch with its entries.
type ScheduleBatchDetail struct {
	Batch   models.ScheduleBatch         `json:"batch"`
	Entries []models.ScheduleEntryDetail `json:"entries"`
}

// ScheduleBatchQuery filters batch listings.
type ScheduleBatchQuery struct {
	Semester models.Semester            `form:"semester" validate:"omitempty,oneof=WINTER SUMMER"`
	Status   models.ScheduleBatchStatus `form:"status" validate:"omitempty,oneof=DRAFT PUBLISHED"`
	GroupID  string                     `form:"groupId"`
}

// ScheduleEntryQuery filters entry listings.
type ScheduleEntryQuery struct {
	Semester  models.Semester            `form:"semester" validate:"omitempty,oneof=WINTER SUMMER"`
	Status    models.ScheduleBatchStatus `form:"status" validate:"omitempty,oneof=DRAFT PUBLISHED"`
	GroupID   string                     `form:"groupId"`
	TeacherID string                     `form:"teacherId"`
	BatchID   string                     `form:"batchId"`
}
