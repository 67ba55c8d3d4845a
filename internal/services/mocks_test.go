package services

import (
	"context"
	"io"
	"log/slog"

	"gorm.io/gorm"

	"github.com/nsp-portal/scholarship-service/internal/models"
	"github.com/nsp-portal/scholarship-service/internal/repositories"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ===== APPLICATION REPOSITORY MOCK =====

type mockApplicationRepo struct {
	apps   map[uint]*models.ScholarshipApplication
	nextID uint

	existsLive    bool
	staleOnUpdate bool

	lastFilters repositories.ApplicationFilters
	listPages   [][]*models.ScholarshipApplication
	listTotal   int64
	listCalls   int
}

func newMockApplicationRepo() *mockApplicationRepo {
	return &mockApplicationRepo{apps: make(map[uint]*models.ScholarshipApplication), nextID: 1}
}

func (m *mockApplicationRepo) Create(ctx context.Context, tx *gorm.DB, app *models.ScholarshipApplication) error {
	app.ID = m.nextID
	m.nextID++
	stored := *app
	m.apps[app.ID] = &stored
	return nil
}

func (m *mockApplicationRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.ScholarshipApplication, error) {
	app, ok := m.apps[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *app
	return &copied, nil
}

func (m *mockApplicationRepo) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.ScholarshipApplication, error) {
	return m.GetByID(ctx, tx, id)
}

func (m *mockApplicationRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.ApplicationFilters) ([]*models.ScholarshipApplication, int64, error) {
	m.lastFilters = filters
	m.listCalls++
	if len(m.listPages) == 0 {
		return nil, m.listTotal, nil
	}
	page := m.listPages[0]
	m.listPages = m.listPages[1:]
	return page, m.listTotal, nil
}

func (m *mockApplicationRepo) Count(ctx context.Context, tx *gorm.DB, filters repositories.ApplicationFilters) (int64, error) {
	return m.listTotal, nil
}

func (m *mockApplicationRepo) ExistsLive(ctx context.Context, tx *gorm.DB, studentID string, schemeID uint) (bool, error) {
	return m.existsLive, nil
}

func (m *mockApplicationRepo) UpdateStatusGuarded(ctx context.Context, tx *gorm.DB, app *models.ScholarshipApplication, expected models.ApplicationStatus) error {
	if m.staleOnUpdate {
		return repositories.ErrStaleStatus
	}
	stored, ok := m.apps[app.ID]
	if !ok || stored.Status != expected {
		return repositories.ErrStaleStatus
	}
	copied := *app
	m.apps[app.ID] = &copied
	return nil
}

// ===== DOCUMENT REPOSITORY MOCK =====

type mockDocumentRepo struct {
	docs     map[uint][]*models.ApplicationDocument
	nextID   uint
	verified map[uint]string
}

func newMockDocumentRepo() *mockDocumentRepo {
	return &mockDocumentRepo{
		docs:     make(map[uint][]*models.ApplicationDocument),
		nextID:   1,
		verified: make(map[uint]string),
	}
}

func (m *mockDocumentRepo) Create(ctx context.Context, tx *gorm.DB, doc *models.ApplicationDocument) error {
	doc.ID = m.nextID
	m.nextID++
	copied := *doc
	m.docs[doc.ApplicationID] = append(m.docs[doc.ApplicationID], &copied)
	return nil
}

func (m *mockDocumentRepo) GetByApplication(ctx context.Context, tx *gorm.DB, applicationID uint) ([]*models.ApplicationDocument, error) {
	return m.docs[applicationID], nil
}

func (m *mockDocumentRepo) MarkVerified(ctx context.Context, tx *gorm.DB, documentID uint, remarks string) error {
	m.verified[documentID] = remarks
	return nil
}

// ===== SCHEME REPOSITORY MOCK =====

type mockSchemeRepo struct {
	schemes map[uint]*models.ScholarshipScheme
	nextID  uint
}

func newMockSchemeRepo() *mockSchemeRepo {
	return &mockSchemeRepo{schemes: make(map[uint]*models.ScholarshipScheme), nextID: 1}
}

func (m *mockSchemeRepo) Create(ctx context.Context, tx *gorm.DB, scheme *models.ScholarshipScheme) error {
	scheme.ID = m.nextID
	m.nextID++
	copied := *scheme
	m.schemes[scheme.ID] = &copied
	return nil
}

func (m *mockSchemeRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.ScholarshipScheme, error) {
	scheme, ok := m.schemes[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *scheme
	return &copied, nil
}

func (m *mockSchemeRepo) Update(ctx context.Context, tx *gorm.DB, scheme *models.ScholarshipScheme) error {
	copied := *scheme
	m.schemes[scheme.ID] = &copied
	return nil
}

func (m *mockSchemeRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.SchemeFilters) ([]*models.ScholarshipScheme, int64, error) {
	var out []*models.ScholarshipScheme
	for _, s := range m.schemes {
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

// ===== STUDENT PROFILE REPOSITORY MOCK =====

type mockStudentProfileRepo struct {
	profiles map[string]*models.StudentProfile
}

func newMockStudentProfileRepo() *mockStudentProfileRepo {
	return &mockStudentProfileRepo{profiles: make(map[string]*models.StudentProfile)}
}

func (m *mockStudentProfileRepo) Create(ctx context.Context, tx *gorm.DB, profile *models.StudentProfile) error {
	copied := *profile
	m.profiles[profile.UserID] = &copied
	return nil
}

func (m *mockStudentProfileRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID string) (*models.StudentProfile, error) {
	p, ok := m.profiles[userID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *mockStudentProfileRepo) Update(ctx context.Context, tx *gorm.DB, profile *models.StudentProfile) error {
	copied := *profile
	m.profiles[profile.UserID] = &copied
	return nil
}

// ===== INSTITUTE PROFILE REPOSITORY MOCK =====

type mockInstituteProfileRepo struct {
	byUser map[string]*models.InstituteProfile

	staleOnUpdate bool
	lastFilters   repositories.RegistrationFilters
}

func newMockInstituteProfileRepo() *mockInstituteProfileRepo {
	return &mockInstituteProfileRepo{byUser: make(map[string]*models.InstituteProfile)}
}

func (m *mockInstituteProfileRepo) Create(ctx context.Context, tx *gorm.DB, profile *models.InstituteProfile) error {
	if _, ok := m.byUser[profile.UserID]; ok {
		return repositories.ErrDuplicate
	}
	copied := *profile
	m.byUser[profile.UserID] = &copied
	return nil
}

func (m *mockInstituteProfileRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID string) (*models.InstituteProfile, error) {
	p, ok := m.byUser[userID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *mockInstituteProfileRepo) GetByCode(ctx context.Context, tx *gorm.DB, instituteCode string) (*models.InstituteProfile, error) {
	for _, p := range m.byUser {
		if p.InstituteCode == instituteCode {
			copied := *p
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *mockInstituteProfileRepo) Update(ctx context.Context, tx *gorm.DB, profile *models.InstituteProfile) error {
	copied := *profile
	m.byUser[profile.UserID] = &copied
	return nil
}

func (m *mockInstituteProfileRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.RegistrationFilters) ([]*models.InstituteProfile, int64, error) {
	m.lastFilters = filters
	var out []*models.InstituteProfile
	for _, p := range m.byUser {
		if filters.Status != nil && p.RegistrationStatus != *filters.Status {
			continue
		}
		if filters.State != nil && p.State != *filters.State {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (m *mockInstituteProfileRepo) UpdateRegistrationGuarded(ctx context.Context, tx *gorm.DB, profile *models.InstituteProfile, expected models.RegistrationStatus) error {
	if m.staleOnUpdate {
		return repositories.ErrStaleStatus
	}
	stored, ok := m.byUser[profile.UserID]
	if !ok || stored.RegistrationStatus != expected {
		return repositories.ErrStaleStatus
	}
	copied := *profile
	m.byUser[profile.UserID] = &copied
	return nil
}

// ===== USER REPOSITORY MOCK =====

type mockUserRepo struct {
	users map[string]*models.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*models.User)}
}

func (m *mockUserRepo) GetByID(ctx context.Context, userID string) (*models.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

// ===== AGGREGATE =====

type mockRepository struct {
	application      *mockApplicationRepo
	document         *mockDocumentRepo
	scheme           *mockSchemeRepo
	studentProfile   *mockStudentProfileRepo
	instituteProfile *mockInstituteProfileRepo
	user             *mockUserRepo
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		application:      newMockApplicationRepo(),
		document:         newMockDocumentRepo(),
		scheme:           newMockSchemeRepo(),
		studentProfile:   newMockStudentProfileRepo(),
		instituteProfile: newMockInstituteProfileRepo(),
		user:             newMockUserRepo(),
	}
}

func (m *mockRepository) Application() repositories.ApplicationRepository { return m.application }
func (m *mockRepository) Document() repositories.DocumentRepository       { return m.document }
func (m *mockRepository) Scheme() repositories.SchemeRepository           { return m.scheme }
func (m *mockRepository) StudentProfile() repositories.StudentProfileRepository {
	return m.studentProfile
}
func (m *mockRepository) InstituteProfile() repositories.InstituteProfileRepository {
	return m.instituteProfile
}
func (m *mockRepository) User() repositories.UserRepository { return m.user }

func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }
