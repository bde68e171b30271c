package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"hearsay/internal/domain"
	"hearsay/internal/service"
	"hearsay/mocks"
)

func TestUserService_GetByID_AttachesProfile(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	profileRepo := new(mocks.MockProfileRepo)
	svc := service.NewUserService(userRepo, profileRepo)

	user := &domain.User{ID: 1, Email: "a@test.com"}
	profile := &domain.UserProfile{UserID: 1, TargetLanguage: domain.LanguageSpanish}
	userRepo.On("GetByID", mock.Anything, int64(1)).Return(user, nil)
	profileRepo.On("GetByUserID", mock.Anything, int64(1)).Return(profile, nil)

	got, err := svc.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Same(t, profile, got.Profile)
}

func TestUserService_GetByID_WithoutProfile(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	profileRepo := new(mocks.MockProfileRepo)
	svc := service.NewUserService(userRepo, profileRepo)

	userRepo.On("GetByID", mock.Anything, int64(2)).Return(&domain.User{ID: 2}, nil)
	profileRepo.On("GetByUserID", mock.Anything, int64(2)).Return(nil, domain.ErrNotFound)

	got, err := svc.GetByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Nil(t, got.Profile)
}

func TestUserService_GetByID_NotFound(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewUserService(userRepo, new(mocks.MockProfileRepo))

	userRepo.On("GetByID", mock.Anything, int64(3)).Return(nil, domain.ErrNotFound)

	_, err := svc.GetByID(context.Background(), 3)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserService_Update_OnlySuppliedFields(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	profileRepo := new(mocks.MockProfileRepo)
	svc := service.NewUserService(userRepo, profileRepo)

	first := "Maria"
	userRepo.On("UpdateNames", mock.Anything, int64(4), &first, (*string)(nil)).
		Return(&domain.User{ID: 4, FirstName: "Maria", LastName: "Old"}, nil)
	profileRepo.On("GetByUserID", mock.Anything, int64(4)).Return(nil, domain.ErrNotFound)

	got, err := svc.Update(context.Background(), 4, service.UpdateUserInput{FirstName: &first})
	require.NoError(t, err)
	assert.Equal(t, "Maria", got.FirstName)
	assert.Equal(t, "Old", got.LastName)
	userRepo.AssertExpectations(t)
}

func TestUserService_Create_PasswordAccount(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewUserService(userRepo, new(mocks.MockProfileRepo))

	var created *domain.User
	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*domain.User) }).
		Return(nil)

	_, err := svc.Create(context.Background(), service.CreateUserInput{
		Email:    "Tester@Example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.Equal(t, "tester@example.com", created.Email)
	assert.Regexp(t, `^tester_[a-z0-9]{6}$`, created.Username)
	assert.Equal(t, domain.AuthProviderEmail, *created.Provider)
	assert.True(t, created.HasUsablePassword())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("password123")))
}
