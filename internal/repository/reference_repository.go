package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sparx-api/internal/models"
)

// TeacherSubjectRepository reads teaching obligations.
type TeacherSubjectRepository struct {
	db *sqlx.DB
}

// NewTeacherSubjectRepository constructs repository.
func NewTeacherSubjectRepository(db *sqlx.DB) *TeacherSubjectRepository {
	return &TeacherSubjectRepository{db: db}
}

// ListByGroup returns the obligations of a group with subject and teacher details.
func (r *TeacherSubjectRepository) ListByGroup(ctx context.Context, exec sqlx.ExtContext, groupID string) ([]models.TeacherSubjectDetail, error) {
	const query = `SELECT ts.id, ts.teacher_id, ts.subject_id, ts.group_id,
COALESCE(t.name, '') AS teacher_name, s.name AS subject_name, s.type AS subject_type,
s.hours_per_semester, COALESCE(g.name, '') AS group_name
FROM teacher_subjects ts
JOIN subjects s ON s.id = ts.subject_id
LEFT JOIN teachers t ON t.id = ts.teacher_id
LEFT JOIN student_groups g ON g.id = ts.group_id
WHERE ts.group_id = $1
ORDER BY ts.id ASC`
	target := exec
	if target == nil {
		target = r.db
	}
	var items []models.TeacherSubjectDetail
	if err := sqlx.SelectContext(ctx, target, &items, query, groupID); err != nil {
		return nil, fmt.Errorf("list teacher subjects by group: %w", err)
	}
	return items, nil
}

// RoomRepository reads rooms.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository constructs repository.
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// List returns every room in a stable order.
func (r *RoomRepository) List(ctx context.Context, exec sqlx.ExtContext) ([]models.Room, error) {
	const query = `SELECT id, name, type, capacity FROM rooms ORDER BY id ASC`
	target := exec
	if target == nil {
		target = r.db
	}
	var rooms []models.Room
	if err := sqlx.SelectContext(ctx, target, &rooms, query); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

// PreferenceRepository reads teacher time preferences.
type PreferenceRepository struct {
	db *sqlx.DB
}

// NewPreferenceRepository constructs repository.
func NewPreferenceRepository(db *sqlx.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// List returns all preferences in insertion order.
func (r *PreferenceRepository) List(ctx context.Context, exec sqlx.ExtContext) ([]models.Preference, error) {
	const query = `SELECT id, teacher_id, teacher_subject_id, day_of_week, time_slot, priority, created_at
FROM preferences ORDER BY created_at ASC, id ASC`
	target := exec
	if target == nil {
		target = r.db
	}
	var prefs []models.Preference
	if err := sqlx.SelectContext(ctx, target, &prefs, query); err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	return prefs, nil
}

// StudentGroupRepository reads student groups.
type StudentGroupRepository struct {
	db *sqlx.DB
}

// NewStudentGroupRepository constructs repository.
func NewStudentGroupRepository(db *sqlx.DB) *StudentGroupRepository {
	return &StudentGroupRepository{db: db}
}

// FindByID loads a group with its size derived from enrolled students.
func (r *StudentGroupRepository) FindByID(ctx context.Context, id string) (*models.StudentGroup, error) {
	const query = `SELECT g.id, g.name, COUNT(s.id) AS size
FROM student_groups g LEFT JOIN students s ON s.group_id = g.id
WHERE g.id = $1
GROUP BY g.id, g.name`
	var group models.StudentGroup
	if err := r.db.GetContext(ctx, &group, query, id); err != nil {
		return nil, err
	}
	return &group, nil
}
