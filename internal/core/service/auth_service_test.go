package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/auvet/auth-service/internal/core/domain"
	"github.com/auvet/auth-service/internal/core/ports"
	"github.com/auvet/auth-service/internal/infrastructure/security"
	"github.com/auvet/auth-service/internal/infrastructure/token"
)

type stubUserRepo struct {
	users     map[string]*domain.User
	findCalls int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	if u.Tutor != nil {
		tutor := *u.Tutor
		tutor.Clinics = append([]string(nil), u.Tutor.Clinics...)
		clone.Tutor = &tutor
	}
	if u.Employee != nil {
		employee := *u.Employee
		clone.Employee = &employee
	}
	return &clone
}

func (r *stubUserRepo) FindByCPF(_ context.Context, cpf string) (*domain.User, error) {
	r.findCalls++
	u, ok := r.users[cpf]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) CreateTutor(_ context.Context, user *domain.User, profile *domain.TutorProfile) error {
	if err := r.checkUnique(user); err != nil {
		return err
	}
	u := cloneUser(user)
	u.Tutor = &domain.TutorProfile{
		Phone:   profile.Phone,
		Address: profile.Address,
		Clinics: append([]string(nil), profile.Clinics...),
	}
	r.users[u.CPF] = u
	return nil
}

func (r *stubUserRepo) CreateEmployee(_ context.Context, user *domain.User, profile *domain.EmployeeProfile) error {
	if err := r.checkUnique(user); err != nil {
		return err
	}
	u := cloneUser(user)
	employee := *profile
	u.Employee = &employee
	r.users[u.CPF] = u
	return nil
}

func (r *stubUserRepo) checkUnique(user *domain.User) error {
	if _, exists := r.users[user.CPF]; exists {
		return domain.ErrCPFTaken
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	return nil
}

type stubEventSink struct {
	mu     sync.Mutex
	events []domain.AuthEvent
}

func (s *stubEventSink) Record(event domain.AuthEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *stubEventSink) byAction(action string) []domain.AuthEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.AuthEvent
	for _, ev := range s.events {
		if ev.Action == action {
			out = append(out, ev)
		}
	}
	return out
}

func newTestService(repo *stubUserRepo, sink ports.AuthEventSink) (*AuthService, *token.JWTCodec) {
	codec := token.NewJWTCodec("test-secret", time.Hour)
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	return NewAuthService(repo, hasher, codec, nil, sink, zerolog.Nop()), codec
}

func validTutorInput() domain.TutorRegistration {
	return domain.TutorRegistration{
		CPF:      "529.982.247-25",
		Name:     "Maria Silva",
		Email:    "maria@example.com",
		Password: "secret1",
		Clinics:  []string{"12345678000190"},
	}
}

func validEmployeeInput() domain.EmployeeRegistration {
	return domain.EmployeeRegistration{
		CPF:      "48670137010",
		Name:     "João Souza",
		Email:    "joao@clinic.com",
		Password: "secret1",
		Role:     "veterinarian",
	}
}

func TestAuthService_RegisterTutor_Success(t *testing.T) {
	repo := newStubUserRepo()
	sink := &stubEventSink{}
	svc, _ := newTestService(repo, sink)

	result, err := svc.RegisterTutor(context.Background(), validTutorInput())
	if err != nil {
		t.Fatalf("RegisterTutor returned error: %v", err)
	}
	if result.CPF != "52998224725" {
		t.Fatalf("expected normalized cpf, got %q", result.CPF)
	}
	if result.UserType != domain.UserTypeTutor {
		t.Fatalf("unexpected user type: %q", result.UserType)
	}

	stored := repo.users["52998224725"]
	if stored == nil {
		t.Fatalf("user not persisted")
	}
	if stored.PasswordHash == "secret1" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if stored.Tutor == nil || len(stored.Tutor.Clinics) != 1 {
		t.Fatalf("tutor profile not persisted: %+v", stored.Tutor)
	}

	events := sink.byAction(domain.ActionRegisterTutor)
	if len(events) != 1 || !events[0].Success {
		t.Fatalf("expected one successful register event, got %+v", events)
	}
}

func TestAuthService_RegisterTutor_InvalidCPF(t *testing.T) {
	svc, _ := newTestService(newStubUserRepo(), nil)

	in := validTutorInput()
	in.CPF = "123"
	_, err := svc.RegisterTutor(context.Background(), in)

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !strings.Contains(ve.Error(), "invalid cpf") {
		t.Fatalf("expected invalid cpf message, got %q", ve.Error())
	}
}

func TestAuthService_RegisterTutor_NoClinics(t *testing.T) {
	svc, _ := newTestService(newStubUserRepo(), nil)

	in := validTutorInput()
	in.Clinics = nil
	_, err := svc.RegisterTutor(context.Background(), in)

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !strings.Contains(ve.Error(), "at least one clinic") {
		t.Fatalf("expected clinic message, got %q", ve.Error())
	}
}

func TestAuthService_Register_Conflicts(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestService(repo, nil)

	if _, err := svc.RegisterTutor(context.Background(), validTutorInput()); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}

	if _, err := svc.RegisterTutor(context.Background(), validTutorInput()); !errors.Is(err, domain.ErrCPFTaken) {
		t.Fatalf("expected ErrCPFTaken, got %v", err)
	}

	other := validTutorInput()
	other.CPF = "48670137010"
	if _, err := svc.RegisterTutor(context.Background(), other); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_RegisterEmployee_AccessLevelPolicy(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestService(repo, nil)

	if _, err := svc.RegisterEmployee(context.Background(), validEmployeeInput()); err != nil {
		t.Fatalf("RegisterEmployee returned error: %v", err)
	}
	stored := repo.users["48670137010"]
	if stored.Employee == nil || stored.Employee.AccessLevel != domain.DefaultAccessLevel {
		t.Fatalf("expected default access level, got %+v", stored.Employee)
	}
	if stored.Employee.Status != domain.EmployeeStatusActive {
		t.Fatalf("expected active status at creation, got %q", stored.Employee.Status)
	}

	// An explicit zero is stored as zero, not bumped to the default.
	zero := 0
	in := validEmployeeInput()
	in.CPF = "52998224725"
	in.Email = "zero@clinic.com"
	in.AccessLevel = &zero
	if _, err := svc.RegisterEmployee(context.Background(), in); err != nil {
		t.Fatalf("RegisterEmployee returned error: %v", err)
	}
	if repo.users["52998224725"].Employee.AccessLevel != 0 {
		t.Fatalf("expected explicit zero to be kept")
	}
}

func TestAuthService_Login_Tutor(t *testing.T) {
	repo := newStubUserRepo()
	svc, codec := newTestService(repo, nil)

	if _, err := svc.RegisterTutor(context.Background(), validTutorInput()); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	result, err := svc.Login(context.Background(), "529.982.247-25", "secret1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected token")
	}
	if result.User.UserType != domain.UserTypeTutor {
		t.Fatalf("unexpected user type: %q", result.User.UserType)
	}
	if _, ok := result.User.AdditionalData.(ports.TutorData); !ok {
		t.Fatalf("expected TutorData, got %T", result.User.AdditionalData)
	}
	if result.Permissions.AccessLevel != 0 || result.Permissions.CanViewAllAnimals || result.Permissions.CanManageAppointments {
		t.Fatalf("unexpected tutor permissions: %+v", result.Permissions)
	}

	claims, err := codec.Verify(result.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.CPF != "52998224725" || claims.UserType != domain.UserTypeTutor || claims.AccessLevel != 0 {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthService_Login_Employee(t *testing.T) {
	repo := newStubUserRepo()
	svc, codec := newTestService(repo, nil)

	five := 5
	in := validEmployeeInput()
	in.AccessLevel = &five
	if _, err := svc.RegisterEmployee(context.Background(), in); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	result, err := svc.Login(context.Background(), "48670137010", "secret1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.User.UserType != domain.UserTypeEmployee {
		t.Fatalf("unexpected user type: %q", result.User.UserType)
	}
	data, ok := result.User.AdditionalData.(ports.EmployeeData)
	if !ok {
		t.Fatalf("expected EmployeeData, got %T", result.User.AdditionalData)
	}
	if data.Role != "veterinarian" || data.Status != domain.EmployeeStatusActive {
		t.Fatalf("unexpected employee data: %+v", data)
	}
	if result.Permissions.AccessLevel != 5 || !result.Permissions.CanViewAllAnimals || !result.Permissions.CanManageAppointments {
		t.Fatalf("unexpected employee permissions: %+v", result.Permissions)
	}

	claims, err := codec.Verify(result.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.AccessLevel != 5 || claims.UserType != domain.UserTypeEmployee {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthService_Login_Failures(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestService(repo, nil)

	if _, err := svc.Login(context.Background(), "", "secret1"); !errors.Is(err, domain.ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "52998224725", ""); !errors.Is(err, domain.ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "52998224725", "secret1"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	if _, err := svc.RegisterTutor(context.Background(), validTutorInput()); err != nil {
		t.Fatalf("registration failed: %v", err)
	}
	if _, err := svc.Login(context.Background(), "52998224725", "wrongpass"); !errors.Is(err, domain.ErrIncorrectPassword) {
		t.Fatalf("expected ErrIncorrectPassword, got %v", err)
	}
}

func TestAuthService_Login_InactiveEmployee(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestService(repo, nil)

	if _, err := svc.RegisterEmployee(context.Background(), validEmployeeInput()); err != nil {
		t.Fatalf("registration failed: %v", err)
	}
	repo.users["48670137010"].Employee.Status = "inactive"

	if _, err := svc.Login(context.Background(), "48670137010", "secret1"); !errors.Is(err, domain.ErrEmployeeInactive) {
		t.Fatalf("expected ErrEmployeeInactive, got %v", err)
	}
}

func TestAuthService_Login_OrphanUser(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestService(repo, nil)

	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	hash, _ := hasher.Hash("secret1")
	repo.users["52998224725"] = &domain.User{
		CPF:          "52998224725",
		Name:         "Orphan",
		Email:        "orphan@example.com",
		PasswordHash: hash,
	}

	if _, err := svc.Login(context.Background(), "52998224725", "secret1"); !errors.Is(err, domain.ErrProfileMissing) {
		t.Fatalf("expected ErrProfileMissing, got %v", err)
	}
}

func TestAuthService_ValidateToken(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestService(repo, nil)

	five := 5
	in := validEmployeeInput()
	in.AccessLevel = &five
	if _, err := svc.RegisterEmployee(context.Background(), in); err != nil {
		t.Fatalf("registration failed: %v", err)
	}
	login, err := svc.Login(context.Background(), "48670137010", "secret1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// Name changes after issue are reflected; claims keep type and level.
	repo.users["48670137010"].Name = "João Renamed"

	identity, err := svc.ValidateToken(context.Background(), login.Token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if identity.Name != "João Renamed" {
		t.Fatalf("expected fresh name, got %q", identity.Name)
	}
	if identity.UserType != domain.UserTypeEmployee || identity.AccessLevel != 5 {
		t.Fatalf("expected claim snapshot, got %+v", identity)
	}
}

func TestAuthService_ValidateToken_Failures(t *testing.T) {
	repo := newStubUserRepo()
	svc, codec := newTestService(repo, nil)

	if _, err := svc.ValidateToken(context.Background(), ""); !errors.Is(err, domain.ErrTokenMissing) {
		t.Fatalf("expected ErrTokenMissing, got %v", err)
	}
	if _, err := svc.ValidateToken(context.Background(), "not-a-token"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	// Token for a user that no longer exists.
	ghost, err := codec.Issue(domain.TokenClaims{CPF: "52998224725", UserType: domain.UserTypeTutor})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := svc.ValidateToken(context.Background(), ghost); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_ValidateToken_RechecksEmployeeStatus(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestService(repo, nil)

	if _, err := svc.RegisterEmployee(context.Background(), validEmployeeInput()); err != nil {
		t.Fatalf("registration failed: %v", err)
	}
	login, err := svc.Login(context.Background(), "48670137010", "secret1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// Deactivated after the token was issued: validation must reject it.
	repo.users["48670137010"].Employee.Status = "inactive"

	if _, err := svc.ValidateToken(context.Background(), login.Token); !errors.Is(err, domain.ErrEmployeeInactive) {
		t.Fatalf("expected ErrEmployeeInactive, got %v", err)
	}
}

type stubUserCache struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newStubUserCache() *stubUserCache {
	return &stubUserCache{users: make(map[string]*domain.User)}
}

func (c *stubUserCache) Get(_ context.Context, cpf string) (*domain.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneUser(c.users[cpf]), nil
}

func (c *stubUserCache) Set(_ context.Context, user *domain.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users[user.CPF] = cloneUser(user)
	return nil
}

func TestAuthService_GetUserByCPF(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestService(repo, nil)

	if _, err := svc.GetUserByCPF(context.Background(), "52998224725"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	if _, err := svc.RegisterTutor(context.Background(), validTutorInput()); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	user, err := svc.GetUserByCPF(context.Background(), "529.982.247-25")
	if err != nil {
		t.Fatalf("GetUserByCPF failed: %v", err)
	}
	if user.CPF != "52998224725" || user.Tutor == nil {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestAuthService_GetUserByCPF_UsesCache(t *testing.T) {
	repo := newStubUserRepo()
	cache := newStubUserCache()
	codec := token.NewJWTCodec("test-secret", time.Hour)
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	svc := NewAuthService(repo, hasher, codec, cache, nil, zerolog.Nop())

	if _, err := svc.RegisterTutor(context.Background(), validTutorInput()); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	if _, err := svc.GetUserByCPF(context.Background(), "52998224725"); err != nil {
		t.Fatalf("first lookup failed: %v", err)
	}
	before := repo.findCalls

	if _, err := svc.GetUserByCPF(context.Background(), "52998224725"); err != nil {
		t.Fatalf("second lookup failed: %v", err)
	}
	if repo.findCalls != before {
		t.Fatalf("expected second lookup to be served from cache")
	}
}
