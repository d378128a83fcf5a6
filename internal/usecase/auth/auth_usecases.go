package auth

import (
	"context"
	"time"

	"github.com/ignatzorin/freelance-marketplace/internal/domain/entity"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/repository"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-marketplace/internal/logger"
	"github.com/ignatzorin/freelance-marketplace/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-marketplace/internal/validation"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost - стоимость bcrypt для новых паролей.
const PasswordCost = 12

// TokenIssuer выпускает access токены для пользователя.
type TokenIssuer interface {
	Generate(user *entity.User) (string, time.Time, error)
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type LoginInput struct {
	Email    string
	Password string
}

// Result - пользователь и выпущенный для него токен.
type Result struct {
	User      *entity.User
	Token     string
	ExpiresAt time.Time
}

type RegisterUseCase struct {
	userRepo repository.UserRepository
	tokens   TokenIssuer
	cost     int
}

func NewRegisterUseCase(userRepo repository.UserRepository, tokens TokenIssuer) *RegisterUseCase {
	return &RegisterUseCase{userRepo: userRepo, tokens: tokens, cost: PasswordCost}
}

// WithCost меняет стоимость bcrypt; в тестах используется bcrypt.MinCost.
func (uc *RegisterUseCase) WithCost(cost int) *RegisterUseCase {
	uc.cost = cost
	return uc
}

// Execute регистрирует клиента или фрилансера. Администраторы создаются только напрямую в хранилище.
func (uc *RegisterUseCase) Execute(ctx context.Context, input RegisterInput) (*Result, error) {
	if err := validation.ValidateName(input.Name); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateEmail(input.Email); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidatePassword(input.Password); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	role, err := valueobject.NewRole(input.Role)
	if err != nil {
		return nil, err
	}
	if role == valueobject.RoleAdmin {
		return nil, apperror.New(apperror.ErrCodeValidation, "регистрация доступна только для client и freelancer")
	}

	if _, err := uc.userRepo.FindByEmail(ctx, input.Email); err == nil {
		return nil, apperror.ErrEmailTaken
	} else if !apperror.IsNotFound(err) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), uc.cost)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось захешировать пароль")
	}

	user := entity.NewUser(input.Name, input.Email, string(hash), role)
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("пользователь зарегистрирован")
	return issue(uc.tokens, user)
}

type LoginUseCase struct {
	userRepo repository.UserRepository
	tokens   TokenIssuer
}

func NewLoginUseCase(userRepo repository.UserRepository, tokens TokenIssuer) *LoginUseCase {
	return &LoginUseCase{userRepo: userRepo, tokens: tokens}
}

func (uc *LoginUseCase) Execute(ctx context.Context, input LoginInput) (*Result, error) {
	if input.Email == "" || input.Password == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "email и пароль обязательны")
	}

	user, err := uc.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	return issue(uc.tokens, user)
}

func issue(tokens TokenIssuer, user *entity.User) (*Result, error) {
	token, exp, err := tokens.Generate(user)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось выпустить токен")
	}
	return &Result{User: user, Token: token, ExpiresAt: exp}, nil
}
