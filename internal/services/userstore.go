package services

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"wp-tg-publisher/internal/config"
	"wp-tg-publisher/internal/constants"
	"wp-tg-publisher/internal/helpers"
	"wp-tg-publisher/internal/models"
)

// UserStore handles the JSON-file backed user list and invite passcodes.
// Users and passcodes live in two separate rewrite-on-save files. The
// superuser ID comes from config and is never stored.
type UserStore struct {
	usersFile     string
	passcodesFile string
	superuserID   int64
	maxOrdinary   int
	users         []models.User
	passcodes     []models.Passcode
	mu            sync.RWMutex
	logger        *logrus.Logger
}

// NewUserStore creates a new user store and loads both files
func NewUserStore(cfg *config.Config, logger *logrus.Logger) *UserStore {
	s := &UserStore{
		usersFile:     cfg.Storage.UsersFile,
		passcodesFile: cfg.Storage.PasscodesFile,
		superuserID:   cfg.Telegram.SuperuserID,
		maxOrdinary:   cfg.Limits.MaxUsers,
		users:         make([]models.User, 0),
		passcodes:     make([]models.Passcode, 0),
		logger:        logger,
	}

	if err := s.load(); err != nil {
		logger.Warnf("Failed to load user storage: %v", err)
	}

	return s
}

// GetUserLevel returns the user's level, or models.LevelUnauthorized
func (s *UserStore) GetUserLevel(userID int64) int {
	if userID == s.superuserID {
		return models.LevelSuperuser
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.ID == userID {
			return u.Level
		}
	}
	return models.LevelUnauthorized
}

// GetAllUsers returns a copy of the stored user list
func (s *UserStore) GetAllUsers() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]models.User, len(s.users))
	copy(users, s.users)
	return users
}

// FindUser returns a stored user by ID
func (s *UserStore) FindUser(userID int64) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.ID == userID {
			return u, true
		}
	}
	return models.User{}, false
}

// SetUserLevel changes a stored user's level. The superuser level is
// fixed and level 0 can never be assigned.
func (s *UserStore) SetUserLevel(userID int64, level int) error {
	if level < models.LevelAdmin || level > models.LevelOrdinary {
		return fmt.Errorf("invalid level %d (1=admin, 2=ordinary)", level)
	}
	if userID == s.superuserID {
		return fmt.Errorf("cannot change superuser level")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, u := range s.users {
		if u.ID == userID {
			oldLevel := u.Level
			s.users[i].Level = level
			if err := s.saveUsers(); err != nil {
				return err
			}
			s.logger.Infof("User %d level changed from %d to %d", userID, oldLevel, level)
			return nil
		}
	}
	return fmt.Errorf("user %d not found", userID)
}

// RemoveUser removes a user from the store
func (s *UserStore) RemoveUser(userID int64) (models.User, error) {
	if userID == s.superuserID {
		return models.User{}, fmt.Errorf("cannot remove the superuser")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, u := range s.users {
		if u.ID == userID {
			s.users = append(s.users[:i], s.users[i+1:]...)
			if err := s.saveUsers(); err != nil {
				return models.User{}, err
			}
			s.logger.Infof("Removed user %d (%s)", userID, u.Name)
			return u, nil
		}
	}
	return models.User{}, fmt.Errorf("user %d not found", userID)
}

// TryAddUser redeems a passcode and adds the sender as an ordinary user.
// The passcode is consumed atomically on success and on any failure
// after matching, so a code can never be redeemed twice.
func (s *UserStore) TryAddUser(userID int64, username, firstName, lastName, passcode string) models.AddResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := -1
	for i, p := range s.passcodes {
		if p.Code == passcode {
			matched = i
			break
		}
	}
	if matched < 0 {
		return models.AddResult{Success: false, Msg: "Invalid or expired passcode."}
	}

	s.passcodes = append(s.passcodes[:matched], s.passcodes[matched+1:]...)
	if err := s.savePasscodes(); err != nil {
		s.logger.Errorf("Failed to save passcodes: %v", err)
	}

	for _, u := range s.users {
		if u.ID == userID {
			return models.AddResult{Success: false, Msg: "You are already registered."}
		}
	}

	ordinaryCount := 0
	for _, u := range s.users {
		if u.Level == models.LevelOrdinary {
			ordinaryCount++
		}
	}
	if ordinaryCount >= s.maxOrdinary {
		return models.AddResult{Success: false, Msg: fmt.Sprintf("Maximum ordinary users reached (%d).", s.maxOrdinary)}
	}

	name := helpers.DisplayName(firstName, lastName, username)
	s.users = append(s.users, models.User{
		ID:       userID,
		Name:     name,
		Username: username,
		Level:    models.LevelOrdinary,
	})
	if err := s.saveUsers(); err != nil {
		s.logger.Errorf("Failed to save users: %v", err)
		return models.AddResult{Success: false, Msg: "Internal error, try again later."}
	}

	return models.AddResult{Success: true, Name: name}
}

// AddPasscode generates and stores a new single-use invite code
func (s *UserStore) AddPasscode() (string, error) {
	code, err := generatePasscode()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.passcodes = append(s.passcodes, models.Passcode{
		Code:    code,
		Created: time.Now().Unix(),
	})
	if err := s.savePasscodes(); err != nil {
		return "", err
	}

	return code, nil
}

// load reads both files, tolerating missing ones
func (s *UserStore) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := readJSON(s.usersFile, &s.users); err != nil {
		return err
	}
	return readJSON(s.passcodesFile, &s.passcodes)
}

// saveUsers assumes the mutex is already locked
func (s *UserStore) saveUsers() error {
	return writeJSON(s.usersFile, s.users)
}

// savePasscodes assumes the mutex is already locked
func (s *UserStore) savePasscodes() error {
	return writeJSON(s.passcodesFile, s.passcodes)
}

func readJSON(filename string, target interface{}) error {
	data, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}

// writeJSON writes the file atomically via a temp file rename
func writeJSON(filename string, data interface{}) error {
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	tmpFile := filename + ".tmp"
	if err := os.WriteFile(tmpFile, encoded, 0644); err != nil {
		return err
	}

	return os.Rename(tmpFile, filename)
}

func generatePasscode() (string, error) {
	code := make([]byte, constants.PasscodeLength)
	max := big.NewInt(int64(len(constants.PasscodeAlphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = constants.PasscodeAlphabet[n.Int64()]
	}
	return string(code), nil
}
