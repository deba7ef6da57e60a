package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"fintrack/internal/cache"
	"fintrack/internal/errors"
	"fintrack/internal/model"
	"fintrack/internal/query"
	"fintrack/internal/repository"
	"fintrack/internal/validate"
)

const userCacheTTL = 5 * time.Minute

// UserInput holds the permitted user fields. Nil fields are left unchanged.
type UserInput struct {
	FirstName            *string `json:"first_name"`
	LastName             *string `json:"last_name"`
	Avatar               *string `json:"avatar"`
	Username             *string `json:"username"`
	Email                *string `json:"email"`
	Password             *string `json:"password"`
	PasswordConfirmation *string `json:"password_confirmation"`
}

type userFields struct {
	FirstName string `json:"first_name" validate:"max=255"`
	LastName  string `json:"last_name" validate:"max=255"`
	Avatar    string `json:"avatar" validate:"max=1024"`
	Username  string `json:"username" validate:"required,max=255"`
	Email     string `json:"email" validate:"required,email,max=255"`
}

type passwordFields struct {
	Password string `json:"password" validate:"required,min=6,max=20"`
}

// UserService exposes user operations. Update and Delete only act on the caller.
type UserService interface {
	Create(ctx context.Context, in UserInput) (model.UserView, error)
	List(ctx context.Context, p query.Params) (query.Page[model.UserView], error)
	Get(ctx context.Context, id uint) (model.UserView, error)
	Update(ctx context.Context, currentID, id uint, in UserInput) (model.UserView, error)
	Delete(ctx context.Context, currentID, id uint) error
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

func (s *userService) Create(ctx context.Context, in UserInput) (model.UserView, error) {
	user := &model.User{}
	applyUser(user, in)

	verr := validate.Fields(userFieldsOf(user))
	password := ""
	if in.Password != nil {
		password = *in.Password
	}
	verr.Merge(validate.Fields(passwordFields{Password: password}))
	checkConfirmation(verr, in)
	if err := s.checkUnique(ctx, verr, user); err != nil {
		return model.UserView{}, err
	}
	if err := verr.OrNil(); err != nil {
		return model.UserView{}, err
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return model.UserView{}, fmt.Errorf("hash password: %w", err)
	}
	user.PasswordDigest = string(digest)

	if err := s.repo.Create(ctx, user); err != nil {
		return model.UserView{}, err
	}
	logrus.WithFields(logrus.Fields{"user_id": user.ID}).Info("user created")
	return user.View(), nil
}

func (s *userService) List(ctx context.Context, p query.Params) (query.Page[model.UserView], error) {
	page, err := s.repo.List(ctx, query.Resolve(p, repository.UserSchema))
	if err != nil {
		return query.Page[model.UserView]{}, err
	}
	return query.Map(page, model.User.View), nil
}

func (s *userService) Get(ctx context.Context, id uint) (model.UserView, error) {
	var cached model.UserView
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return cached, nil
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return model.UserView{}, err
	}

	view := user.View()
	if err := s.cache.SetJSON(ctx, s.cacheKey(id), view, userCacheTTL); err != nil {
		logrus.WithError(err).WithField("user_id", id).Warn("cache user")
	}
	return view, nil
}

func (s *userService) Update(ctx context.Context, currentID, id uint, in UserInput) (model.UserView, error) {
	if currentID != id {
		return model.UserView{}, errors.ErrNotFound
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return model.UserView{}, err
	}
	applyUser(user, in)

	verr := validate.Fields(userFieldsOf(user))
	checkConfirmation(verr, in)
	if err := s.checkUnique(ctx, verr, user); err != nil {
		return model.UserView{}, err
	}
	if err := verr.OrNil(); err != nil {
		return model.UserView{}, err
	}

	// A blank password keeps the current digest.
	if in.Password != nil && *in.Password != "" {
		digest, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcryptCost)
		if err != nil {
			return model.UserView{}, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordDigest = string(digest)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return model.UserView{}, err
	}
	s.evict(ctx, id)
	logrus.WithFields(logrus.Fields{"user_id": user.ID}).Info("user updated")
	return user.View(), nil
}

func (s *userService) Delete(ctx context.Context, currentID, id uint) error {
	if currentID != id {
		return errors.ErrNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.evict(ctx, id)
	logrus.WithFields(logrus.Fields{"user_id": id}).Info("user deleted")
	return nil
}

// evict drops the cached view of id. A failure leaves it to expire with its TTL.
func (s *userService) evict(ctx context.Context, id uint) {
	if err := s.cache.Delete(ctx, s.cacheKey(id)); err != nil {
		logrus.WithError(err).WithField("user_id", id).Warn("evict cached user")
	}
}

func (s *userService) checkUnique(ctx context.Context, verr *errors.ValidationError, user *model.User) error {
	if user.Email != "" {
		taken, err := s.repo.EmailTaken(ctx, user.Email, user.ID)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if taken {
			verr.Add("email", "has already been taken")
		}
	}
	if user.Username != "" {
		taken, err := s.repo.UsernameTaken(ctx, user.Username, user.ID)
		if err != nil {
			return fmt.Errorf("check username: %w", err)
		}
		if taken {
			verr.Add("username", "has already been taken")
		}
	}
	return nil
}

func applyUser(user *model.User, in UserInput) {
	apply(&user.FirstName, in.FirstName)
	apply(&user.LastName, in.LastName)
	apply(&user.Avatar, in.Avatar)
	applyTrimmed(&user.Username, in.Username)
	if in.Email != nil {
		user.Email = normalizeEmail(*in.Email)
	}
}

func userFieldsOf(user *model.User) userFields {
	return userFields{
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Avatar:    user.Avatar,
		Username:  user.Username,
		Email:     user.Email,
	}
}

func checkConfirmation(verr *errors.ValidationError, in UserInput) {
	if in.PasswordConfirmation == nil {
		return
	}
	password := ""
	if in.Password != nil {
		password = *in.Password
	}
	if *in.PasswordConfirmation != password {
		verr.Add("password_confirmation", "doesn't match Password")
	}
}
