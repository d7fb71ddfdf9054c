package user

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/deptportal/core"
	"github.com/trezcool/deptportal/core/record"
)

// Storage keys
const (
	KeyUsers   = "users"
	KeySession = "currentUser"
)

var (
	// errors
	ErrUsernameExists = errors.New("a user with this username already exists")
	ErrNoSession      = errors.New("no active session")
)

// Service manages the registered-user directory and the single session slot.
// There is one slot per storage: a login replaces whichever identity was logged in before.
type Service struct {
	storage core.Storage
	users   *record.Collection[Account]
	logger  core.Logger
	mu      sync.Mutex
}

func NewService(storage core.Storage, logger core.Logger, opts ...record.Option) *Service {
	return &Service{
		storage: storage,
		users:   record.NewCollection[Account](storage, KeyUsers, logger, opts...),
		logger:  logger,
	}
}

// Initialize installs the demo accounts when no directory exists yet. Safe to call any number of times.
func (svc *Service) Initialize(ctx context.Context) error {
	seeded, err := svc.users.Seed(ctx, DemoAccounts())
	if err != nil {
		return errors.Wrap(err, "seeding users")
	}
	if seeded {
		svc.logger.Info("user directory seeded with demo accounts")
	}
	return nil
}

// Authenticate looks for an account matching both username and password exactly.
// On success the password-stripped user becomes the current session and is returned;
// otherwise nil is returned and the session is left as is.
func (svc *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	for _, acc := range svc.users.List(ctx) {
		if acc.Username == username && acc.Password == password {
			usr := acc.User
			if err := svc.setSession(ctx, usr); err != nil {
				return nil, err
			}
			svc.logger.Info("user logged in", usr)
			return &usr, nil
		}
	}
	svc.logger.Debug("authentication failed", map[string]interface{}{"username": username})
	return nil, nil
}

// CurrentSession returns the logged in user, or nil when the slot is empty or unreadable.
func (svc *Service) CurrentSession(ctx context.Context) *User {
	raw, ok, err := svc.storage.Get(ctx, KeySession)
	if err != nil {
		svc.logger.Error("reading session", errors.Wrap(err, "reading session"))
		return nil
	}
	if !ok || raw == "" {
		return nil
	}
	var usr *User
	if err := json.Unmarshal([]byte(raw), &usr); err != nil {
		svc.logger.Warn("malformed session treated as absent", errors.Wrap(err, "decoding session"))
		return nil
	}
	if usr == nil || usr.ID == "" {
		svc.logger.Warn("session without user id treated as absent")
		return nil
	}
	return usr
}

// EndSession clears the session slot.
func (svc *Service) EndSession(ctx context.Context) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if err := svc.storage.Remove(ctx, KeySession); err != nil {
		return errors.Wrap(err, "clearing session")
	}
	return nil
}

// UpdateProfile merges upd into both the directory entry and the session of the logged in user.
// It returns nil when there is no session or when the session user is no longer in the directory.
func (svc *Service) UpdateProfile(ctx context.Context, upd ProfileUpdate) (*User, error) {
	if err := upd.Validate(); err != nil {
		return nil, err
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	cur := svc.CurrentSession(ctx)
	if cur == nil {
		return nil, nil
	}
	acc := svc.users.Get(ctx, cur.ID)
	if acc == nil {
		svc.logger.Warn("session user not found in directory", *cur)
		return nil, nil
	}

	upd.apply(&acc.User)
	updated, err := svc.users.Update(ctx, *acc)
	if err != nil {
		return nil, errors.Wrap(err, "updating user")
	}
	if updated == nil {
		return nil, nil
	}
	usr := updated.User
	if err := svc.setSession(ctx, usr); err != nil {
		return nil, err
	}
	return &usr, nil
}

// Register adds a new account with a fresh id and returns it without its password.
// It returns nil when the username is already taken. The new user is not logged in.
func (svc *Service) Register(ctx context.Context, nu NewUser) (*User, error) {
	if err := nu.Validate(); err != nil {
		return nil, err
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	if svc.usernameTaken(ctx, nu.Username) {
		svc.logger.Debug("registration rejected", ErrUsernameExists, map[string]interface{}{"username": nu.Username})
		return nil, nil
	}
	acc, err := svc.users.Add(ctx, nu.account())
	if err != nil {
		return nil, errors.Wrap(err, "adding user")
	}
	usr := acc.User
	svc.logger.Info("user registered", usr)
	return &usr, nil
}

// Users returns the directory without passwords.
func (svc *Service) Users(ctx context.Context) []User {
	accs := svc.users.List(ctx)
	users := make([]User, 0, len(accs))
	for _, acc := range accs {
		users = append(users, acc.User)
	}
	return users
}

// GetByUsername returns the user registered under username, or nil.
func (svc *Service) GetByUsername(ctx context.Context, username string) *User {
	for _, acc := range svc.users.List(ctx) {
		if acc.Username == username {
			usr := acc.User
			return &usr
		}
	}
	return nil
}

// SetPassword replaces the password of the account registered under username.
// It returns false when there is no such account.
func (svc *Service) SetPassword(ctx context.Context, username, password string) (bool, error) {
	if password == "" {
		return false, core.NewValidationError(nil, core.FieldError{Field: "password", Error: "this field is required"})
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	for _, acc := range svc.users.List(ctx) {
		if acc.Username == username {
			acc.Password = password
			updated, err := svc.users.Update(ctx, acc)
			if err != nil {
				return false, errors.Wrap(err, "updating password")
			}
			return updated != nil, nil
		}
	}
	return false, nil
}

func (svc *Service) usernameTaken(ctx context.Context, username string) bool {
	for _, acc := range svc.users.List(ctx) {
		if acc.Username == username {
			return true
		}
	}
	return false
}

func (svc *Service) setSession(ctx context.Context, usr User) error {
	data, err := json.Marshal(usr)
	if err != nil {
		return errors.Wrap(err, "encoding session")
	}
	if err := svc.storage.Set(ctx, KeySession, string(data)); err != nil {
		return errors.Wrap(err, "writing session")
	}
	return nil
}
