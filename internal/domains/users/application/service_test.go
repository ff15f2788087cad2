package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	notifdomain "github.com/Apurer/courier-api/internal/domains/notifications/domain"
	notifports "github.com/Apurer/courier-api/internal/domains/notifications/ports"
	"github.com/Apurer/courier-api/internal/domains/users/adapters/memory"
	"github.com/Apurer/courier-api/internal/domains/users/domain"
	"github.com/Apurer/courier-api/internal/domains/users/ports"
)

func newTestService() *Service {
	return NewService(memory.NewRepository(), memory.NewSessionStore())
}

func TestService_RegisterAndLogin(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	user, err := svc.Register(ctx, ports.RegisterInput{Name: "Sipho", Email: "Sipho@Example.com", Phone: "0831234567", Password: "secret1"})
	require.NoError(t, err)
	require.Equal(t, domain.RoleCustomer, user.Role)

	result, err := svc.Login(ctx, "sipho@example.com", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	require.Equal(t, user.ID, result.User.ID)

	principal, err := svc.Authenticate(ctx, result.Token)
	require.NoError(t, err)
	require.Equal(t, user.ID, principal.Subject)
	require.Equal(t, domain.RoleCustomer, principal.Role)

	require.NoError(t, svc.Logout(ctx, result.Token))
	_, err = svc.Authenticate(ctx, result.Token)
	require.ErrorIs(t, err, ErrAuthentication)
}

func TestService_RegisterDuplicateEmail(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	input := ports.RegisterInput{Name: "A", Email: "a@example.com", Password: "secret1"}

	_, err := svc.Register(ctx, input)
	require.NoError(t, err)
	_, err = svc.Register(ctx, input)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, ports.ErrEmailTaken)
}

func TestService_LoginRejectsBadCredentials(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	_, err := svc.Register(ctx, ports.RegisterInput{Name: "A", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "a@example.com", "wrong-password")
	require.ErrorIs(t, err, ErrAuthentication)

	_, err = svc.Login(ctx, "nobody@example.com", "secret1")
	require.ErrorIs(t, err, ErrAuthentication)
	require.ErrorIs(t, err, ports.ErrInvalidCredentials)
}

func TestService_AuthenticateExpiredSession(t *testing.T) {
	svc := NewService(memory.NewRepository(), memory.NewSessionStore(), WithSessionTTL(time.Minute))
	ctx := context.Background()
	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return start }

	token, err := svc.IssueSession(ctx, "DRV001", domain.RoleDriver)
	require.NoError(t, err)

	svc.now = func() time.Time { return start.Add(2 * time.Minute) }
	_, err = svc.Authenticate(ctx, token)
	require.ErrorIs(t, err, ErrAuthentication)
}

func TestService_EnsureAdminIsIdempotent(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	first, err := svc.EnsureAdmin(ctx, "admin@courier.local", "admin123")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, first.Role)

	second, err := svc.EnsureAdmin(ctx, "ADMIN@courier.local", "ignored")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
}

func TestService_GetByPhone(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	_, err := svc.Register(ctx, ports.RegisterInput{Name: "A", Email: "a@example.com", Phone: "0820000000", Password: "secret1"})
	require.NoError(t, err)

	user, err := svc.GetByPhone(ctx, " 0820000000 ")
	require.NoError(t, err)
	require.Equal(t, "a@example.com", user.Email)

	_, err = svc.GetByPhone(ctx, "")
	require.ErrorIs(t, err, ports.ErrNotFound)
}

type recordingMailer struct {
	to, body []string
}

func (m *recordingMailer) Send(_ context.Context, to, _, body string) error {
	m.to = append(m.to, to)
	m.body = append(m.body, body)
	return nil
}

type recordingEmitter struct {
	notifports.Emitter
	titles []string
}

func (e *recordingEmitter) Notify(_ context.Context, _, title, _ string, _ notifdomain.Category) *notifdomain.Notification {
	e.titles = append(e.titles, title)
	return nil
}

func TestService_PasswordResetRevokesSessions(t *testing.T) {
	mailer := &recordingMailer{}
	emitter := &recordingEmitter{}
	svc := NewService(memory.NewRepository(), memory.NewSessionStore(),
		WithMailer(mailer),
		WithEmitter(emitter),
		WithCodeGenerator(func() (string, error) { return "654321", nil }),
	)
	ctx := context.Background()
	_, err := svc.Register(ctx, ports.RegisterInput{Name: "A", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)
	first, err := svc.Login(ctx, "a@example.com", "secret1")
	require.NoError(t, err)

	require.ErrorIs(t, svc.RequestPasswordReset(ctx, "nobody@example.com"), ports.ErrNotFound)
	require.NoError(t, svc.RequestPasswordReset(ctx, " A@Example.com "))
	require.Equal(t, []string{"a@example.com"}, mailer.to)
	require.Contains(t, mailer.body[0], "654321")

	require.ErrorIs(t, svc.ResetPassword(ctx, "a@example.com", "654321", "123"), domain.ErrWeakPassword)
	require.ErrorIs(t, svc.ResetPassword(ctx, "a@example.com", "111111", "newsecret"), ErrInvalidInput)
	require.NoError(t, svc.ResetPassword(ctx, "a@example.com", "654321", "newsecret"))

	_, err = svc.Authenticate(ctx, first.Token)
	require.ErrorIs(t, err, ErrAuthentication)
	_, err = svc.Login(ctx, "a@example.com", "secret1")
	require.ErrorIs(t, err, ErrAuthentication)
	_, err = svc.Login(ctx, "a@example.com", "newsecret")
	require.NoError(t, err)
	require.Equal(t, []string{"Password Reset"}, emitter.titles)

	require.ErrorIs(t, svc.ResetPassword(ctx, "a@example.com", "654321", "another1"), ErrInvalidInput)
}

func TestService_PasswordResetNeedsMailer(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	_, err := svc.Register(ctx, ports.RegisterInput{Name: "A", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)
	require.ErrorIs(t, svc.RequestPasswordReset(ctx, "a@example.com"), ErrMailerUnavailable)
	require.ErrorIs(t, svc.RequestPasswordReset(ctx, "not-an-email"), ErrInvalidInput)
}

func TestService_UpdateProfileKeepsBlankFields(t *testing.T) {
	emitter := &recordingEmitter{}
	svc := NewService(memory.NewRepository(), memory.NewSessionStore(), WithEmitter(emitter))
	ctx := context.Background()
	user, err := svc.Register(ctx, ports.RegisterInput{Name: "Thandi", Email: "t@example.com", Phone: "0821234567", Password: "secret1"})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, user.ID, domain.ProfileUpdate{NickName: "T", Gender: "female", Phone: "  "})
	require.NoError(t, err)
	require.Equal(t, "Thandi", updated.Name)
	require.Equal(t, "0821234567", updated.Phone)
	require.Equal(t, "T", updated.NickName)

	stored, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "female", stored.Gender)
	require.Equal(t, []string{"Profile Updated"}, emitter.titles)

	_, err = svc.UpdateProfile(ctx, "missing", domain.ProfileUpdate{Name: "x"})
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestService_ListCustomersAndRevoke(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	_, err := svc.EnsureAdmin(ctx, "admin@example.com", "adminpass")
	require.NoError(t, err)
	for _, name := range []string{"Zola", "Anele"} {
		_, err := svc.Register(ctx, ports.RegisterInput{Name: name, Email: name + "@example.com", Password: "secret1"})
		require.NoError(t, err)
	}
	customers, err := svc.ListCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 2)
	require.Equal(t, "Anele", customers[0].Name)

	a, err := svc.IssueSession(ctx, "DRV001", domain.RoleDriver)
	require.NoError(t, err)
	b, err := svc.IssueSession(ctx, "DRV001", domain.RoleDriver)
	require.NoError(t, err)
	other, err := svc.IssueSession(ctx, "DRV002", domain.RoleDriver)
	require.NoError(t, err)

	require.NoError(t, svc.RevokeSessions(ctx, "DRV001"))
	for _, token := range []string{a, b} {
		_, err := svc.Authenticate(ctx, token)
		require.ErrorIs(t, err, ErrAuthentication)
	}
	_, err = svc.Authenticate(ctx, other)
	require.NoError(t, err)
}
