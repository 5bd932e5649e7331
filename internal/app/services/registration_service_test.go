package services

import (
	"context"
	"errors"
	"mime/multipart"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skykeen/events-backend/internal/app/models"
	"github.com/skykeen/events-backend/internal/app/models/dto"
	"github.com/skykeen/events-backend/internal/pkg/apperrors"
)

type fakeRegistrationStore struct {
	created   *models.Registration
	createErr error
	listItems []models.Registration
	listTotal int64
	updated   *models.Registration
	updateErr error

	lastFilter *bool
	lastOffset uint64
	lastLimit  int
}

func (s *fakeRegistrationStore) Create(_ context.Context, reg *models.Registration) (*models.Registration, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	stored := *reg
	stored.ID = 42
	s.created = &stored
	return &stored, nil
}

func (s *fakeRegistrationStore) GetByID(_ context.Context, id int64) (*models.Registration, error) {
	if s.created != nil && s.created.ID == id {
		return s.created, nil
	}
	return nil, apperrors.ErrRegistrationNotFound
}

func (s *fakeRegistrationStore) List(_ context.Context, paymentVerified *bool, offset uint64, limit int) ([]models.Registration, int64, error) {
	s.lastFilter = paymentVerified
	s.lastOffset = offset
	s.lastLimit = limit
	return s.listItems, s.listTotal, nil
}

func (s *fakeRegistrationStore) UpdateVerification(_ context.Context, id int64, paymentVerified *bool, notes *string) (*models.Registration, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return s.updated, nil
}

type fakeStorage struct {
	saved      []string
	deleted    []string
	failField  string
	saveCalled int
}

func (s *fakeStorage) SaveFile(fh *multipart.FileHeader, namespace string) (string, error) {
	s.saveCalled++
	if s.failField == namespace {
		return "", errors.New("disk full")
	}
	p := path.Join(namespace, fh.Filename)
	s.saved = append(s.saved, p)
	return p, nil
}

func (s *fakeStorage) DeleteFile(storagePath string) error {
	s.deleted = append(s.deleted, storagePath)
	return nil
}

func newCreateRequest(withSignature bool) *dto.CreateRegistrationRequest {
	req := &dto.CreateRegistrationRequest{
		StudentName:       "Asha Rao",
		StudentEmail:      "asha@example.com",
		Competitions:      models.StringList{"Quiz"},
		Workshops:         models.StringList{},
		PaymentScreenshot: &multipart.FileHeader{Filename: "shot.png"},
	}
	if withSignature {
		req.ParentSignature = &multipart.FileHeader{Filename: "sig.png"}
	}
	return req
}

func TestRegistrationServiceCreate(t *testing.T) {
	store := &fakeRegistrationStore{}
	storage := &fakeStorage{}
	svc := NewRegistrationService(store, storage)

	reg, err := svc.Create(context.Background(), newCreateRequest(true))

	require.NoError(t, err)
	assert.Equal(t, int64(42), reg.ID)
	assert.Equal(t, "payments/shot.png", reg.PaymentScreenshot)
	require.NotNil(t, reg.ParentSignature)
	assert.Equal(t, "signatures/sig.png", *reg.ParentSignature)
	assert.Empty(t, storage.deleted)
}

func TestRegistrationServiceCreateWithoutSignature(t *testing.T) {
	store := &fakeRegistrationStore{}
	storage := &fakeStorage{}
	svc := NewRegistrationService(store, storage)

	reg, err := svc.Create(context.Background(), newCreateRequest(false))

	require.NoError(t, err)
	assert.Nil(t, reg.ParentSignature)
	assert.Len(t, storage.saved, 1)
}

func TestRegistrationServiceCreateSignatureSaveFailureCleansUp(t *testing.T) {
	store := &fakeRegistrationStore{}
	storage := &fakeStorage{failField: SignatureNamespace}
	svc := NewRegistrationService(store, storage)

	_, err := svc.Create(context.Background(), newCreateRequest(true))

	require.Error(t, err)
	// The already-written screenshot must not be left behind
	assert.Equal(t, []string{"payments/shot.png"}, storage.deleted)
	assert.Nil(t, store.created)
}

func TestRegistrationServiceCreateStoreFailureCleansUp(t *testing.T) {
	store := &fakeRegistrationStore{createErr: errors.New("connection reset")}
	storage := &fakeStorage{}
	svc := NewRegistrationService(store, storage)

	_, err := svc.Create(context.Background(), newCreateRequest(true))

	require.Error(t, err)
	assert.ElementsMatch(t, []string{"payments/shot.png", "signatures/sig.png"}, storage.deleted)
}

func TestRegistrationServiceList(t *testing.T) {
	verified := true
	store := &fakeRegistrationStore{
		listItems: []models.Registration{{ID: 1}, {ID: 2}},
		listTotal: 12,
	}
	svc := NewRegistrationService(store, &fakeStorage{})

	regs, pagination, err := svc.List(context.Background(), &dto.RegistrationFilter{
		Page:            2,
		PageSize:        5,
		PaymentVerified: &verified,
	})

	require.NoError(t, err)
	assert.Len(t, regs, 2)
	assert.Equal(t, uint64(5), store.lastOffset)
	assert.Equal(t, 5, store.lastLimit)
	require.NotNil(t, store.lastFilter)
	assert.True(t, *store.lastFilter)
	assert.Equal(t, 2, pagination.CurrentPage)
	assert.Equal(t, 3, pagination.TotalPages)
	assert.Equal(t, int64(12), pagination.TotalItems)
}

func TestRegistrationServiceGetByIDNotFound(t *testing.T) {
	svc := NewRegistrationService(&fakeRegistrationStore{}, &fakeStorage{})

	_, err := svc.GetByID(context.Background(), 99)

	assert.ErrorIs(t, err, apperrors.ErrRegistrationNotFound)
}

func TestRegistrationServiceVerify(t *testing.T) {
	verified := true
	store := &fakeRegistrationStore{
		updated: &models.Registration{ID: 7, PaymentVerified: true, Notes: "paid in cash"},
	}
	svc := NewRegistrationService(store, &fakeStorage{})

	reg, err := svc.Verify(context.Background(), 7, &dto.VerifyPaymentRequest{PaymentVerified: &verified})

	require.NoError(t, err)
	assert.True(t, reg.PaymentVerified)
	assert.Equal(t, "paid in cash", reg.Notes)
}

func TestRegistrationServiceVerifyNotFound(t *testing.T) {
	store := &fakeRegistrationStore{updateErr: apperrors.ErrRegistrationNotFound}
	svc := NewRegistrationService(store, &fakeStorage{})

	verified := false
	_, err := svc.Verify(context.Background(), 99, &dto.VerifyPaymentRequest{PaymentVerified: &verified})

	assert.ErrorIs(t, err, apperrors.ErrRegistrationNotFound)
}
