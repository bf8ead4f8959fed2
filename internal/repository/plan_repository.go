package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dev-kristian/handoverplan-api/internal/database"
	"github.com/dev-kristian/handoverplan-api/internal/models"
	"github.com/dev-kristian/handoverplan-api/internal/utils"
)

// GormPlanRepository is a GORM implementation of PlanRepository
type GormPlanRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates a new PlanRepository
func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &GormPlanRepository{db: db}
}

// CreateWithItems creates a plan and its items in a single transaction so a
// crash between the two inserts cannot leave an item-less plan behind.
func (r *GormPlanRepository) CreateWithItems(plan *models.Plan, items []models.PlanItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(plan).Error; err != nil {
			return err
		}

		if len(items) == 0 {
			return nil
		}

		for i := range items {
			items[i].PlanID = plan.ID
		}
		return tx.Create(&items).Error
	})
}

// FindByID finds a plan by ID with optional preloading
func (r *GormPlanRepository) FindByID(id uuid.UUID, preload ...string) (*models.Plan, error) {
	var plan models.Plan
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&plan, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

// FindByPublicLinkToken finds a plan by its public link token
func (r *GormPlanRepository) FindByPublicLinkToken(token string, preload ...string) (*models.Plan, error) {
	var plan models.Plan
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.Where("public_link_token = ?", token).First(&plan).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

// UpdateWithItems saves the plan and replaces its entire item set. The delete
// and reinsert happen in one transaction; the replacement itself is last write
// wins between concurrent editors.
func (r *GormPlanRepository) UpdateWithItems(plan *models.Plan, items []models.PlanItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(plan).Error; err != nil {
			return err
		}

		if err := tx.Where("plan_id = ?", plan.ID).Delete(&models.PlanItem{}).Error; err != nil {
			return err
		}

		if len(items) == 0 {
			return nil
		}

		for i := range items {
			items[i].PlanID = plan.ID
		}
		return tx.Create(&items).Error
	})
}

// Save persists plan field changes
func (r *GormPlanRepository) Save(plan *models.Plan) error {
	return r.db.Save(plan).Error
}

// Delete removes the plan and all dependent rows in a single transaction
func (r *GormPlanRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("plan_id = ?", id).Delete(&models.PlanItem{}).Error; err != nil {
			return err
		}

		if err := tx.Where("plan_id = ?", id).Delete(&models.PlanCollaborator{}).Error; err != nil {
			return err
		}

		if err := tx.Where("plan_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Plan{}, "id = ?", id).Error
	})
}

// ListOwnedByUser lists plans authored by the user, newest first
func (r *GormPlanRepository) ListOwnedByUser(userID uuid.UUID, params utils.PaginationParams) ([]models.Plan, int64, error) {
	var plans []models.Plan

	query := r.db.Model(&models.Plan{}).Where("author_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at DESC").
		Scopes(database.Paginate(params)).
		Find(&plans).Error; err != nil {
		return nil, 0, err
	}

	return plans, total, nil
}

// ListSharedWithUser lists collaborator rows for plans shared with the user
func (r *GormPlanRepository) ListSharedWithUser(userID uuid.UUID) ([]models.PlanCollaborator, error) {
	var collaborations []models.PlanCollaborator
	if err := r.db.Preload("Plan").Preload("Plan.Author").
		Where("user_id = ?", userID).
		Find(&collaborations).Error; err != nil {
		return nil, err
	}
	return collaborations, nil
}

// UpsertCollaborator inserts the collaborator or updates the stored role
func (r *GormPlanRepository) UpsertCollaborator(collaborator *models.PlanCollaborator) error {
	return r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "plan_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"role"}),
		}).
		Create(collaborator).Error
}

// FindCollaborator finds a specific collaborator row
func (r *GormPlanRepository) FindCollaborator(planID, userID uuid.UUID) (*models.PlanCollaborator, error) {
	var collaborator models.PlanCollaborator
	if err := r.db.Where("plan_id = ? AND user_id = ?", planID, userID).
		First(&collaborator).Error; err != nil {
		return nil, err
	}
	return &collaborator, nil
}

// UpdateCollaboratorRole changes a collaborator's role
func (r *GormPlanRepository) UpdateCollaboratorRole(planID, userID uuid.UUID, role models.CollaboratorRole) error {
	return r.db.Model(&models.PlanCollaborator{}).
		Where("plan_id = ? AND user_id = ?", planID, userID).
		Update("role", role).Error
}

// RemoveCollaborator deletes a collaborator row
func (r *GormPlanRepository) RemoveCollaborator(planID, userID uuid.UUID) error {
	return r.db.Where("plan_id = ? AND user_id = ?", planID, userID).
		Delete(&models.PlanCollaborator{}).Error
}

// ListCollaborators lists all collaborators of a plan with users preloaded
func (r *GormPlanRepository) ListCollaborators(planID uuid.UUID) ([]models.PlanCollaborator, error) {
	var collaborators []models.PlanCollaborator
	if err := r.db.Preload("User").
		Where("plan_id = ?", planID).
		Order("created_at ASC").
		Find(&collaborators).Error; err != nil {
		return nil, err
	}
	return collaborators, nil
}

// CreateComment inserts a comment on a plan
func (r *GormPlanRepository) CreateComment(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// ListComments lists a plan's comments with authors preloaded, oldest first
func (r *GormPlanRepository) ListComments(planID uuid.UUID) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.Preload("Author").
		Where("plan_id = ?", planID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}
