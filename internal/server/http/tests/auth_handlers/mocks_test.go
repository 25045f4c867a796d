package authhandlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/mock"

	authentities "notedeck/internal/auth/domain/entities"
	authservices "notedeck/internal/auth/domain/services"
	notesentities "notedeck/internal/notes/domain/entities"
	notesapi "notedeck/internal/notes/ports/api"
	serverhttp "notedeck/internal/server/http"
)

type mockAuthUseCase struct {
	mock.Mock
}

func (m *mockAuthUseCase) Register(ctx context.Context, email, username, password, displayName string) (*authentities.User, error) {
	args := m.Called(ctx, email, username, password, displayName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authentities.User), args.Error(1)
}

func (m *mockAuthUseCase) Login(ctx context.Context, email, username, password string) (*authentities.User, *authservices.TokenPair, error) {
	args := m.Called(ctx, email, username, password)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*authentities.User), args.Get(1).(*authservices.TokenPair), args.Error(2)
}

func (m *mockAuthUseCase) Refresh(ctx context.Context, refreshToken string) (string, time.Time, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *mockAuthUseCase) Logout(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

func (m *mockAuthUseCase) Verify(ctx context.Context, accessToken string) (*authentities.Identity, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authentities.Identity), args.Error(1)
}

func (m *mockAuthUseCase) GetProfile(ctx context.Context, userID string) (*authentities.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authentities.User), args.Error(1)
}

// Заглушки доменов заметок; маршруты заметок здесь не вызываются.
type stubNoteUseCase struct{}

func (stubNoteUseCase) Create(context.Context, string, string, string, []string) (*notesentities.Note, error) {
	return nil, notesentities.ErrNoteNotFound
}

func (stubNoteUseCase) Get(context.Context, string) (*notesentities.Note, error) {
	return nil, notesentities.ErrNoteNotFound
}

func (stubNoteUseCase) List(context.Context, notesapi.NoteQuery) (*notesapi.NotePage, error) {
	return &notesapi.NotePage{}, nil
}

func (stubNoteUseCase) Update(context.Context, string, string, notesapi.NotePatch) (*notesentities.Note, error) {
	return nil, notesentities.ErrNoteNotFound
}

func (stubNoteUseCase) Delete(context.Context, string, string) error {
	return notesentities.ErrNoteNotFound
}

type stubTagUseCase struct{}

func (stubTagUseCase) Create(context.Context, string, string) (*notesentities.Tag, error) {
	return nil, notesentities.ErrTagNotFound
}

func (stubTagUseCase) Get(context.Context, string) (*notesentities.Tag, error) {
	return nil, notesentities.ErrTagNotFound
}

func (stubTagUseCase) List(context.Context, string) ([]*notesentities.Tag, error) {
	return nil, nil
}

func (stubTagUseCase) Update(context.Context, string, notesapi.TagPatch) (*notesentities.Tag, error) {
	return nil, notesentities.ErrTagNotFound
}

func (stubTagUseCase) Delete(context.Context, string) error {
	return notesentities.ErrTagNotFound
}

func newTestApp(authUseCase *mockAuthUseCase) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: serverhttp.ErrorHandler})
	serverhttp.SetupRouter(app, authUseCase, stubNoteUseCase{}, stubTagUseCase{})
	return app
}

func jsonRequest(t *testing.T, method, target, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}
