package userapp

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"chirp/internal/core/auth"
	"chirp/internal/core/errs"
	userEntity "chirp/internal/core/user"
	"chirp/internal/core/validation"
	storagePort "chirp/internal/ports/storage"
	userPort "chirp/internal/ports/user"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when the username is unknown so that both
// login failures take the same time.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("chirp-dummy-password"), bcrypt.DefaultCost)

// bcrypt reads at most this many bytes of a password.
const maxBcryptBytes = 72

type RegisterInput struct {
	Username    string `json:"username" validate:"required,max=30"`
	Password    string `json:"password" validate:"required,min=6,max=1024"`
	DisplayName string `json:"displayName" validate:"required,max=50"`
}

// UserService covers registration, login and the caller's own profile.
type UserService struct {
	UserRepository userPort.UserRepository
	AvatarStore    storagePort.AvatarStore
	Tokens         *auth.TokenIssuer
	Logger         *zap.Logger
	HashCost       int
	Clock          func() time.Time
}

func NewUserService(repo userPort.UserRepository, avatars storagePort.AvatarStore, tokens *auth.TokenIssuer, logger *zap.Logger) *UserService {
	return &UserService{
		UserRepository: repo,
		AvatarStore:    avatars,
		Tokens:         tokens,
		Logger:         logger,
		HashCost:       bcrypt.DefaultCost,
		Clock:          func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// RegisterUser creates the account and signs the new user in.
func (s *UserService) RegisterUser(ctx context.Context, username, password, displayName string) (*userPort.AuthResponse, error) {
	in := RegisterInput{
		Username:    userEntity.NormalizeUsername(username),
		Password:    password,
		DisplayName: strings.TrimSpace(displayName),
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	existing, err := s.UserRepository.FindByUsername(ctx, in.Username)
	if err == nil && existing != nil {
		return nil, errs.New(errs.ErrDuplicateUsername, "username already exists")
	}
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword(passwordKey(in.Password), s.HashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.Clock()
	u, err := s.UserRepository.Create(ctx, &userEntity.User{
		ID:                uuid.Must(uuid.NewV4()),
		Username:          in.Username,
		Password:          string(hashedPassword),
		DisplayName:       in.DisplayName,
		ProfilePictureURL: userEntity.DefaultProfilePictureURL,
		CreatedAt:         now,
		UpdatedAt:         now,
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("User registered", zap.String("userID", u.ID.String()), zap.String("username", u.Username))
	return s.authResponse(u)
}

// LoginUser returns ErrInvalidCredentials for an unknown user and for a wrong
// password alike.
func (s *UserService) LoginUser(ctx context.Context, username, password string) (*userPort.AuthResponse, error) {
	u, err := s.UserRepository.FindByUsername(ctx, userEntity.NormalizeUsername(username))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, passwordKey(password))
			return nil, invalidCredentials()
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), passwordKey(password)); err != nil {
		s.Logger.Debug("Password mismatch", zap.String("userID", u.ID.String()))
		return nil, invalidCredentials()
	}

	return s.authResponse(u)
}

func (s *UserService) GetUser(ctx context.Context, userID string) (*userPort.UserDTO, error) {
	id, err := uuid.FromString(userID)
	if err != nil {
		return nil, errs.NotFound("user not found")
	}
	u, err := s.UserRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return userPort.ToUserDTO(u), nil
}

// SetProfilePicture stores an uploaded image and points the user's avatar at it.
func (s *UserService) SetProfilePicture(ctx context.Context, userID string, data []byte) (*userPort.UserDTO, error) {
	if len(data) == 0 {
		return nil, errs.Validation("no file uploaded")
	}
	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") || mtype.Is("image/svg+xml") {
		return nil, errs.Validation("only image files are allowed")
	}

	id, err := uuid.FromString(userID)
	if err != nil {
		return nil, errs.NotFound("user not found")
	}
	if _, err := s.UserRepository.FindByID(ctx, id); err != nil {
		return nil, err
	}

	name := fmt.Sprintf("%s-%d%s", id, s.Clock().UnixMilli(), mtype.Extension())
	url, err := s.AvatarStore.Save(ctx, name, data)
	if err != nil {
		return nil, fmt.Errorf("save avatar: %w", err)
	}

	u, err := s.UserRepository.UpdateProfilePicture(ctx, id, url)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("Profile picture updated", zap.String("userID", userID), zap.String("url", url), zap.String("mime", mtype.String()))
	return userPort.ToUserDTO(u), nil
}

func (s *UserService) authResponse(u *userEntity.User) (*userPort.AuthResponse, error) {
	token, expiresAt, err := s.Tokens.Issue(u.ID.String())
	if err != nil {
		return nil, fmt.Errorf("could not generate token: %w", err)
	}
	return &userPort.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
		User:      userPort.ToUserDTO(u),
	}, nil
}

// passwordKey is what bcrypt hashes. Passwords longer than bcrypt accepts are
// reduced to their SHA-256 digest so every byte still counts.
func passwordKey(password string) []byte {
	if len(password) <= maxBcryptBytes {
		return []byte(password)
	}
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

func invalidCredentials() error {
	return errs.New(errs.ErrInvalidCredentials, "invalid credentials")
}
