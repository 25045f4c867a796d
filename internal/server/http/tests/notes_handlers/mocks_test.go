package noteshandlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/mock"

	authentities "notedeck/internal/auth/domain/entities"
	authservices "notedeck/internal/auth/domain/services"
	"notedeck/internal/notes/domain/entities"
	"notedeck/internal/notes/ports/api"
	serverhttp "notedeck/internal/server/http"
)

// stubAuthUseCase пропускает токен "access" как пользователя user-1.
type stubAuthUseCase struct{}

func (stubAuthUseCase) Register(context.Context, string, string, string, string) (*authentities.User, error) {
	return nil, errors.New("not implemented")
}

func (stubAuthUseCase) Login(context.Context, string, string, string) (*authentities.User, *authservices.TokenPair, error) {
	return nil, nil, errors.New("not implemented")
}

func (stubAuthUseCase) Refresh(context.Context, string) (string, time.Time, error) {
	return "", time.Time{}, errors.New("not implemented")
}

func (stubAuthUseCase) Logout(context.Context, string) error {
	return nil
}

func (stubAuthUseCase) Verify(_ context.Context, accessToken string) (*authentities.Identity, error) {
	if accessToken != "access" {
		return nil, authservices.ErrInvalidToken
	}
	return &authentities.Identity{ID: "user-1", Username: "user"}, nil
}

func (stubAuthUseCase) GetProfile(context.Context, string) (*authentities.User, error) {
	return nil, errors.New("not implemented")
}

type mockNoteUseCase struct {
	mock.Mock
}

func (m *mockNoteUseCase) Create(ctx context.Context, actorID, title, content string, tagIDs []string) (*entities.Note, error) {
	args := m.Called(ctx, actorID, title, content, tagIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Note), args.Error(1)
}

func (m *mockNoteUseCase) Get(ctx context.Context, noteID string) (*entities.Note, error) {
	args := m.Called(ctx, noteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Note), args.Error(1)
}

func (m *mockNoteUseCase) List(ctx context.Context, query api.NoteQuery) (*api.NotePage, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.NotePage), args.Error(1)
}

func (m *mockNoteUseCase) Update(ctx context.Context, actorID, noteID string, patch api.NotePatch) (*entities.Note, error) {
	args := m.Called(ctx, actorID, noteID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Note), args.Error(1)
}

func (m *mockNoteUseCase) Delete(ctx context.Context, actorID, noteID string) error {
	args := m.Called(ctx, actorID, noteID)
	return args.Error(0)
}

type mockTagUseCase struct {
	mock.Mock
}

func (m *mockTagUseCase) Create(ctx context.Context, name, color string) (*entities.Tag, error) {
	args := m.Called(ctx, name, color)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Tag), args.Error(1)
}

func (m *mockTagUseCase) Get(ctx context.Context, tagID string) (*entities.Tag, error) {
	args := m.Called(ctx, tagID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Tag), args.Error(1)
}

func (m *mockTagUseCase) List(ctx context.Context, nameQuery string) ([]*entities.Tag, error) {
	args := m.Called(ctx, nameQuery)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Tag), args.Error(1)
}

func (m *mockTagUseCase) Update(ctx context.Context, tagID string, patch api.TagPatch) (*entities.Tag, error) {
	args := m.Called(ctx, tagID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Tag), args.Error(1)
}

func (m *mockTagUseCase) Delete(ctx context.Context, tagID string) error {
	args := m.Called(ctx, tagID)
	return args.Error(0)
}

func newTestApp(noteUseCase *mockNoteUseCase, tagUseCase *mockTagUseCase) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: serverhttp.ErrorHandler})
	serverhttp.SetupRouter(app, stubAuthUseCase{}, noteUseCase, tagUseCase)
	return app
}

func authedRequest(t *testing.T, method, target, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer access")
	return req
}
