package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/auvet/auth-service/internal/core/domain"
)

const (
	usersCollection     = "users"
	tutorsCollection    = "tutors"
	employeesCollection = "employees"

	emailIndexName = "email_unique"
)

// MongoUserRepository persists users with their role-specific profiles across
// three collections, keyed by the normalized cpf.
type MongoUserRepository struct {
	db *mongo.Database
}

func NewUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{db: db}
}

type userDoc struct {
	CPF          string    `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	RegisteredAt time.Time `bson:"registered_at"`
}

type tutorDoc struct {
	CPF     string   `bson:"_id"`
	Phone   *string  `bson:"phone,omitempty"`
	Address *string  `bson:"address,omitempty"`
	Clinics []string `bson:"clinics"`
}

type employeeDoc struct {
	CPF                      string  `bson:"_id"`
	Role                     string  `bson:"role"`
	ProfessionalRegistration *string `bson:"professional_registration,omitempty"`
	AccessLevel              int     `bson:"access_level"`
	Status                   string  `bson:"status"`
}

func (d userDoc) toDomain() *domain.User {
	return &domain.User{
		CPF:          d.CPF,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		RegisteredAt: d.RegisteredAt,
	}
}

// EnsureIndexes creates the unique email index. Together with the cpf primary
// key this is the real uniqueness authority; service-level pre-checks are
// best-effort only.
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName(emailIndexName),
	})
	if err != nil {
		return fmt.Errorf("create email index: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) CreateTutor(ctx context.Context, user *domain.User, profile *domain.TutorProfile) error {
	return r.createWithProfile(ctx, user, func(sc mongo.SessionContext) error {
		_, err := r.db.Collection(tutorsCollection).InsertOne(sc, tutorDoc{
			CPF:     user.CPF,
			Phone:   profile.Phone,
			Address: profile.Address,
			Clinics: profile.Clinics,
		})
		return err
	})
}

func (r *MongoUserRepository) CreateEmployee(ctx context.Context, user *domain.User, profile *domain.EmployeeProfile) error {
	return r.createWithProfile(ctx, user, func(sc mongo.SessionContext) error {
		_, err := r.db.Collection(employeesCollection).InsertOne(sc, employeeDoc{
			CPF:                      user.CPF,
			Role:                     profile.Role,
			ProfessionalRegistration: profile.ProfessionalRegistration,
			AccessLevel:              profile.AccessLevel,
			Status:                   profile.Status,
		})
		return err
	})
}

// createWithProfile inserts the user record and the role-specific record in a
// single transaction so a failure leaves no partial state behind.
func (r *MongoUserRepository) createWithProfile(ctx context.Context, user *domain.User, insertProfile func(mongo.SessionContext) error) error {
	session, err := r.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.db.Collection(usersCollection).InsertOne(sc, userDoc{
			CPF:          user.CPF,
			Name:         user.Name,
			Email:        user.Email,
			PasswordHash: user.PasswordHash,
			RegisteredAt: user.RegisteredAt,
		}); err != nil {
			return nil, err
		}
		if err := insertProfile(sc); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return classifyWriteError(err)
	}
	return nil
}

// classifyWriteError maps storage-level uniqueness violations onto the domain
// conflict errors, so a registration racing past the pre-checks still
// surfaces as a conflict.
func classifyWriteError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		if strings.Contains(err.Error(), emailIndexName) {
			return domain.ErrEmailTaken
		}
		return domain.ErrCPFTaken
	}
	return fmt.Errorf("create user: %w", err)
}

func (r *MongoUserRepository) FindByCPF(ctx context.Context, cpf string) (*domain.User, error) {
	var ud userDoc
	if err := r.db.Collection(usersCollection).FindOne(ctx, bson.M{"_id": cpf}).Decode(&ud); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	user := ud.toDomain()

	var td tutorDoc
	err := r.db.Collection(tutorsCollection).FindOne(ctx, bson.M{"_id": cpf}).Decode(&td)
	switch {
	case err == nil:
		user.Tutor = &domain.TutorProfile{Phone: td.Phone, Address: td.Address, Clinics: td.Clinics}
	case !errors.Is(err, mongo.ErrNoDocuments):
		return nil, fmt.Errorf("find tutor profile: %w", err)
	}

	var ed employeeDoc
	err = r.db.Collection(employeesCollection).FindOne(ctx, bson.M{"_id": cpf}).Decode(&ed)
	switch {
	case err == nil:
		user.Employee = &domain.EmployeeProfile{
			Role:                     ed.Role,
			ProfessionalRegistration: ed.ProfessionalRegistration,
			AccessLevel:              ed.AccessLevel,
			Status:                   ed.Status,
		}
	case !errors.Is(err, mongo.ErrNoDocuments):
		return nil, fmt.Errorf("find employee profile: %w", err)
	}

	return user, nil
}

// FindByEmail returns the bare user record. Profiles are not attached; the
// lookup exists for uniqueness pre-checks only.
func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var ud userDoc
	if err := r.db.Collection(usersCollection).FindOne(ctx, bson.M{"email": email}).Decode(&ud); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return ud.toDomain(), nil
}
