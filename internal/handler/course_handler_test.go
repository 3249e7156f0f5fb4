package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-api/internal/middleware"
	"github.com/noah-isme/lms-api/internal/models"
	"github.com/noah-isme/lms-api/internal/service"
)

type courseRepoFake struct {
	items      []models.CourseListItem
	courses    map[string]*models.Course
	lastFilter models.CourseFilter
}

func (f *courseRepoFake) List(_ context.Context, filter models.CourseFilter) ([]models.CourseListItem, int, error) {
	f.lastFilter = filter
	return f.items, len(f.items), nil
}

func (f *courseRepoFake) FindByID(_ context.Context, id string) (*models.Course, error) {
	if c, ok := f.courses[id]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

func (f *courseRepoFake) FindListItemByID(_ context.Context, id string) (*models.CourseListItem, error) {
	if c, ok := f.courses[id]; ok {
		return &models.CourseListItem{Course: *c}, nil
	}
	return nil, sql.ErrNoRows
}

func (f *courseRepoFake) Create(context.Context, *models.Course) error { return nil }

func (f *courseRepoFake) Update(context.Context, *models.Course) error { return nil }

func (f *courseRepoFake) UpdateStatus(context.Context, string, models.CourseStatus) error {
	return nil
}

type noEnrollmentFake struct{}

func (noEnrollmentFake) FindByLearnerAndCourse(context.Context, string, string) (*models.Enrollment, error) {
	return nil, sql.ErrNoRows
}

func newCourseTestHandler(repo *courseRepoFake) *CourseHandler {
	svc := service.NewCourseService(repo, noEnrollmentFake{}, nil, nil, zap.NewNop())
	return NewCourseHandler(svc, nil)
}

func TestCourseHandlerBrowseParsesQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &courseRepoFake{items: []models.CourseListItem{}}
	handler := newCourseTestHandler(repo)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/courses?search=go&categoryId=cat-1&sort=popular&page=3&pageSize=10", nil)

	handler.Browse(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "go", repo.lastFilter.Search)
	assert.Equal(t, "cat-1", repo.lastFilter.CategoryID)
	assert.Equal(t, "popular", repo.lastFilter.Sort)
	assert.Equal(t, 3, repo.lastFilter.Page)
	assert.Equal(t, 10, repo.lastFilter.PageSize)
	assert.Equal(t, models.CourseStatusPublished, repo.lastFilter.Status)
}

func TestCourseHandlerBrowseEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &courseRepoFake{items: []models.CourseListItem{
		{Course: models.Course{ID: "course-1", Title: "Intro to Go", Status: models.CourseStatusPublished}},
	}}
	handler := newCourseTestHandler(repo)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/courses", nil)

	handler.Browse(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		OK         bool                     `json:"ok"`
		Data       []map[string]interface{} `json:"data"`
		Pagination *models.Pagination       `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.OK)
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "Intro to Go", envelope.Data[0]["title"])
	require.NotNil(t, envelope.Pagination)
	assert.Equal(t, 1, envelope.Pagination.TotalCount)
}

func TestCourseHandlerDetailHidesDraft(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &courseRepoFake{courses: map[string]*models.Course{
		"course-1": {ID: "course-1", Title: "Draft", Status: models.CourseStatusDraft},
	}}
	handler := newCourseTestHandler(repo)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/courses/course-1", nil)
	c.Params = gin.Params{{Key: "courseId", Value: "course-1"}}
	c.Set(middleware.ContextUserKey, &models.Identity{UserID: "learner-1", Role: models.RoleLearner})

	handler.Detail(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
