package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lms/backend/internal/domain/catalog"
	"github.com/lms/backend/internal/domain/shared"
)

// CourseService handles course catalog operations
type CourseService struct {
	courseRepo catalog.CourseRepository
	logger     *zap.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(courseRepo catalog.CourseRepository, logger *zap.Logger) *CourseService {
	return &CourseService{
		courseRepo: courseRepo,
		logger:     logger,
	}
}

// Create creates a new unpublished course
func (s *CourseService) Create(ctx context.Context, tenantID uuid.UUID, req CreateCourseRequest) (*CourseResponse, error) {
	existing, err := s.courseRepo.FindBySlug(ctx, tenantID, req.Slug)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("SLUG_TAKEN", "A course with this slug already exists")
	}

	course, err := catalog.NewCourse(tenantID, req.Title, req.Slug)
	if err != nil {
		return nil, err
	}
	if req.Description != "" {
		course.SetDescription(req.Description)
	}
	if req.Privacy != "" {
		if err := course.SetPrivacy(catalog.CoursePrivacy(req.Privacy)); err != nil {
			return nil, err
		}
	}

	if err := s.courseRepo.Save(ctx, course); err != nil {
		return nil, err
	}

	s.logger.Info("Course created",
		zap.String("course_id", course.ID.String()),
		zap.String("slug", course.Slug))

	response := ToCourseResponse(course)
	return &response, nil
}

// GetByID retrieves a course by ID
func (s *CourseService) GetByID(ctx context.Context, tenantID, courseID uuid.UUID) (*CourseResponse, error) {
	course, err := s.courseRepo.FindByIDForTenant(ctx, tenantID, courseID)
	if err != nil {
		return nil, err
	}
	response := ToCourseResponse(course)
	return &response, nil
}

// GetBySlug retrieves a course by slug
func (s *CourseService) GetBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*CourseResponse, error) {
	course, err := s.courseRepo.FindBySlug(ctx, tenantID, slug)
	if err != nil {
		return nil, err
	}
	response := ToCourseResponse(course)
	return &response, nil
}

// List retrieves courses with pagination
func (s *CourseService) List(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]CourseResponse, int64, error) {
	domainFilter := filter.domainFilter()

	courses, err := s.courseRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.courseRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToCourseResponses(courses), total, nil
}

// Update updates a course's editable fields
func (s *CourseService) Update(ctx context.Context, tenantID, courseID uuid.UUID, req UpdateCourseRequest) (*CourseResponse, error) {
	course, err := s.courseRepo.FindByIDForTenant(ctx, tenantID, courseID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		course.Title = *req.Title
		if course.Title == "" || len(course.Title) > 200 {
			return nil, shared.NewDomainError("INVALID_TITLE", "Title must be between 1 and 200 characters")
		}
	}
	if req.Description != nil {
		course.SetDescription(*req.Description)
	}
	if req.Privacy != nil {
		if err := course.SetPrivacy(catalog.CoursePrivacy(*req.Privacy)); err != nil {
			return nil, err
		}
	}

	if err := s.courseRepo.Save(ctx, course); err != nil {
		return nil, err
	}

	response := ToCourseResponse(course)
	return &response, nil
}

// Publish makes a course available for enrollment
func (s *CourseService) Publish(ctx context.Context, tenantID, courseID uuid.UUID) error {
	return s.setPublished(ctx, tenantID, courseID, true)
}

// Unpublish withdraws a course from enrollment
func (s *CourseService) Unpublish(ctx context.Context, tenantID, courseID uuid.UUID) error {
	return s.setPublished(ctx, tenantID, courseID, false)
}

func (s *CourseService) setPublished(ctx context.Context, tenantID, courseID uuid.UUID, published bool) error {
	course, err := s.courseRepo.FindByIDForTenant(ctx, tenantID, courseID)
	if err != nil {
		return err
	}

	if published {
		course.Publish()
	} else {
		course.Unpublish()
	}

	if err := s.courseRepo.Save(ctx, course); err != nil {
		return err
	}

	s.logger.Info("Course publication changed",
		zap.String("course_id", courseID.String()),
		zap.Bool("published", published))

	return nil
}
