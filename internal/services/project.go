package services

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/ebarcelosf/Activelearn-hub/internal/models"
	apperrors "github.com/ebarcelosf/Activelearn-hub/pkg/errors"
	"github.com/ebarcelosf/Activelearn-hub/pkg/utils"
	"gorm.io/gorm"
)

// ProjectStore scopes project reads and writes to their owner
type ProjectStore struct {
	db *gorm.DB
}

func NewProjectStore(db *gorm.DB) *ProjectStore {
	return &ProjectStore{db: db}
}

func (s *ProjectStore) DB() *gorm.DB { return s.db }

func (s *ProjectStore) Get(ctx context.Context, userID, projectID string) (*models.Project, error) {
	var project models.Project
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", projectID, userID).First(&project).Error
	if isNotFound(err) {
		return nil, apperrors.NotFound("project not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	return &project, nil
}

// PhaseFlags reads the completion flags of a project owned by userID
func (s *ProjectStore) PhaseFlags(ctx context.Context, userID, projectID string) (PhaseFlags, error) {
	var project models.Project
	err := s.db.WithContext(ctx).
		Select("id", "engage_completed", "investigate_completed", "act_completed").
		Where("id = ? AND user_id = ?", projectID, userID).
		First(&project).Error
	if err != nil {
		return PhaseFlags{}, err
	}
	return FlagsOf(&project), nil
}

// List returns the user's projects, newest first, optionally filtered by title
func (s *ProjectStore) List(ctx context.Context, userID, query string) ([]models.Project, error) {
	db := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if !utils.IsBlank(query) {
		db = db.Where("LOWER(title) LIKE ? ESCAPE '\\'", utils.SanitizeSearchQuery(query))
	}
	var projects []models.Project
	if err := db.Order("updated_at DESC").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

type ProjectCounts struct {
	Questions  int `json:"questions"`
	Answered   int `json:"answered"`
	Activities int `json:"activities"`
	Resources  int `json:"resources"`
	Prototypes int `json:"prototypes"`
	Checklist  int `json:"checklist"`
}

func (s *ProjectStore) Counts(ctx context.Context, projectID string) (ProjectCounts, error) {
	var c ProjectCounts
	db := s.db.WithContext(ctx)
	count := func(model interface{}, dest *int, extra ...interface{}) error {
		var n int64
		q := db.Model(model).Where("project_id = ?", projectID)
		if len(extra) > 0 {
			q = q.Where(extra[0], extra[1:]...)
		}
		if err := q.Count(&n).Error; err != nil {
			return err
		}
		*dest = int(n)
		return nil
	}

	steps := []func() error{
		func() error { return count(&models.GuidingQuestion{}, &c.Questions) },
		func() error { return count(&models.GuidingQuestion{}, &c.Answered, "TRIM(COALESCE(answer, '')) <> ''") },
		func() error { return count(&models.Activity{}, &c.Activities) },
		func() error { return count(&models.Resource{}, &c.Resources) },
		func() error { return count(&models.Prototype{}, &c.Prototypes) },
		func() error { return count(&models.ChecklistItem{}, &c.Checklist) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return c, fmt.Errorf("count project items: %w", err)
		}
	}
	return c, nil
}

// Duplicate deep-copies a project and every sub-collection in one transaction
func (s *ProjectStore) Duplicate(ctx context.Context, userID, projectID string) (*models.Project, error) {
	src, err := s.Get(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	dup := *src
	dup.ID = ""
	dup.Title = src.Title + " (Cópia)"
	dup.CreatedAt = time.Time{}
	dup.UpdatedAt = time.Time{}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&dup).Error; err != nil {
			return err
		}

		var questions []models.GuidingQuestion
		if err := tx.Where("project_id = ?", src.ID).Order("created_at").Find(&questions).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].ID = ""
			questions[i].ProjectID = dup.ID
		}

		var activities []models.Activity
		if err := tx.Where("project_id = ?", src.ID).Order("created_at").Find(&activities).Error; err != nil {
			return err
		}
		for i := range activities {
			activities[i].ID = ""
			activities[i].ProjectID = dup.ID
		}

		var resources []models.Resource
		if err := tx.Where("project_id = ?", src.ID).Order("created_at").Find(&resources).Error; err != nil {
			return err
		}
		for i := range resources {
			resources[i].ID = ""
			resources[i].ProjectID = dup.ID
		}

		var prototypes []models.Prototype
		if err := tx.Where("project_id = ?", src.ID).Order("created_at").Find(&prototypes).Error; err != nil {
			return err
		}
		for i := range prototypes {
			prototypes[i].ID = ""
			prototypes[i].ProjectID = dup.ID
		}

		var checklist []models.ChecklistItem
		if err := tx.Where("project_id = ?", src.ID).Order("created_at").Find(&checklist).Error; err != nil {
			return err
		}
		for i := range checklist {
			checklist[i].ID = ""
			checklist[i].ProjectID = dup.ID
		}

		for _, batch := range []interface{}{&questions, &activities, &resources, &prototypes, &checklist} {
			if err := createBatch(tx, batch); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("duplicate project: %w", err)
	}
	return &dup, nil
}

func createBatch(tx *gorm.DB, rows interface{}) error {
	if reflect.ValueOf(rows).Elem().Len() == 0 {
		return nil
	}
	return tx.Create(rows).Error
}

// Delete removes a project and its sub-collections
func (s *ProjectStore) Delete(ctx context.Context, userID, projectID string) error {
	project, err := s.Get(ctx, userID, projectID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&models.GuidingQuestion{}, &models.Activity{}, &models.Resource{},
			&models.Prototype{}, &models.ChecklistItem{},
		} {
			if err := tx.Where("project_id = ?", project.ID).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Project{}, "id = ?", project.ID).Error
	})
}
