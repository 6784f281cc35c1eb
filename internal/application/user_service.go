package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	repo "github.com/oksasatya/go-task-manager/internal/domain/repository"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
)

type Service struct {
	Store    *IdentityStore
	Avatars  *AvatarPipeline
	Tasks    repo.TaskRepository
	JWT      *helpers.JWTManager
	Notifier Notifier
	Logger   *logrus.Logger
}

func NewService(store *IdentityStore, avatars *AvatarPipeline, tasks repo.TaskRepository, jwt *helpers.JWTManager, notifier Notifier, logger *logrus.Logger) *Service {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Service{
		Store:    store,
		Avatars:  avatars,
		Tasks:    tasks,
		JWT:      jwt,
		Notifier: notifier,
		Logger:   logger,
	}
}

// Session is an authenticated request: the user and the token they presented.
type Session struct {
	User  *entity.User
	Token string
}

// ProfileUpdate holds the editable fields; nil means unchanged.
type ProfileUpdate struct {
	Name     *string
	Email    *string
	Password *string
	Age      *int
}

// Register creates the user, sends the welcome email and opens a first session.
func (s *Service) Register(ctx context.Context, in NewUser) (*entity.User, string, error) {
	u, err := s.Store.Create(ctx, in)
	if err != nil {
		return nil, "", err
	}
	s.Notifier.Welcome(ctx, u.Email, u.Name)

	token, err := s.issueToken(ctx, u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	u, err := s.Store.FindByCredentials(ctx, email, password)
	if err != nil {
		return nil, "", err
	}
	token, err := s.issueToken(ctx, u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *Service) issueToken(ctx context.Context, u *entity.User) (string, error) {
	token, err := s.JWT.Issue(u.ID)
	if err != nil {
		return "", &StorageError{Op: "sign token", Err: err}
	}
	u.AddToken(token)
	if err := s.Store.Save(ctx, u); err != nil {
		return "", err
	}
	return token, nil
}

// Logout ends the session that made the request.
func (s *Service) Logout(ctx context.Context, sess Session) error {
	s.JWT.Revoke(sess.User, sess.Token)
	return s.Store.Save(ctx, sess.User)
}

// LogoutAll ends every session of the user.
func (s *Service) LogoutAll(ctx context.Context, u *entity.User) error {
	s.JWT.RevokeAll(u)
	return s.Store.Save(ctx, u)
}

// ResolveSession turns a bearer token into a Session. Every failure is
// reported as ErrUnauthenticated.
func (s *Service) ResolveSession(ctx context.Context, token string) (Session, error) {
	userID, err := s.JWT.Validate(token)
	if err != nil {
		return Session{}, ErrUnauthenticated
	}
	u, err := s.Store.FindByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("session lookup failed")
		}
		return Session{}, ErrUnauthenticated
	}
	if !u.HasToken(token) {
		return Session{}, ErrUnauthenticated
	}
	return Session{User: u, Token: token}, nil
}

func (s *Service) Profile(u *entity.User) UserView {
	return s.Store.SerializeForOutput(u)
}

// UpdateProfile applies the non-nil fields and saves. A new password is
// hashed by the store.
func (s *Service) UpdateProfile(ctx context.Context, u *entity.User, in ProfileUpdate) error {
	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.Email != nil {
		u.Email = *in.Email
	}
	if in.Age != nil {
		u.Age = *in.Age
	}
	if in.Password != nil {
		u.SetPassword(*in.Password)
	}
	return s.Store.Save(ctx, u)
}

// DeleteAccount removes the user with their tasks and sends the cancellation email.
func (s *Service) DeleteAccount(ctx context.Context, u *entity.User) error {
	if err := s.Store.Delete(ctx, u); err != nil {
		return err
	}
	s.Notifier.Cancellation(ctx, u.Email, u.Name)
	return nil
}

// SetAvatar runs an upload through the pipeline and stores it on u.
func (s *Service) SetAvatar(ctx context.Context, u *entity.User, data []byte, filename string) error {
	raw, err := s.Avatars.Accept(data, filename)
	if err != nil {
		return err
	}
	img, err := s.Avatars.Normalize(raw)
	if err != nil {
		return err
	}
	return s.Avatars.Apply(ctx, u, img)
}

func (s *Service) ClearAvatar(ctx context.Context, u *entity.User) error {
	return s.Avatars.Clear(ctx, u)
}

// GetAvatar returns the stored PNG of any user; ErrNotFound if there is none.
func (s *Service) GetAvatar(ctx context.Context, userID string) ([]byte, error) {
	u, err := s.Store.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.HasAvatar() {
		return nil, ErrNotFound
	}
	return u.Avatar, nil
}

// ListTasks returns the tasks owned by u, oldest first.
func (s *Service) ListTasks(ctx context.Context, u *entity.User) ([]entity.Task, error) {
	tasks, err := s.Tasks.FindByOwner(ctx, u.ID)
	if err != nil {
		return nil, storageErr("list tasks", err)
	}
	return tasks, nil
}

// AddTask creates a task owned by u.
func (s *Service) AddTask(ctx context.Context, u *entity.User, description string) (*entity.Task, error) {
	t := &entity.Task{Description: description, Owner: u.ID}
	if err := s.Tasks.Create(ctx, t); err != nil {
		return nil, storageErr("create task", err)
	}
	return t, nil
}
