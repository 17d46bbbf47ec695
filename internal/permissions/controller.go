package permissions

import (
	"github.com/sirupsen/logrus"

	"wp-tg-publisher/internal/models"
)

// Level represents the access level of a user
type Level int

const (
	// Superuser is the fixed out-of-band bot owner
	Superuser Level = models.LevelSuperuser
	// Admin may generate invite codes and list users
	Admin Level = models.LevelAdmin
	// Ordinary is an authorized posting user
	Ordinary Level = models.LevelOrdinary
	// Unauthorized has no access
	Unauthorized Level = models.LevelUnauthorized
)

// String returns the display name of the level
func (l Level) String() string {
	switch l {
	case Superuser:
		return "Superuser"
	case Admin:
		return "Admin"
	case Ordinary:
		return "Ordinary"
	default:
		return "Unauthorized"
	}
}

// UserSource resolves a user ID to a stored level
type UserSource interface {
	GetUserLevel(userID int64) int
}

// Controller answers authorization questions
type Controller struct {
	users  UserSource
	logger *logrus.Logger
}

// NewController creates a new permission controller
func NewController(users UserSource, logger *logrus.Logger) *Controller {
	return &Controller{
		users:  users,
		logger: logger,
	}
}

// Level determines the access level of a user
func (p *Controller) Level(userID int64) Level {
	level := Level(p.users.GetUserLevel(userID))
	p.logger.Debugf("Resolved level for user %d: %s", userID, level)
	return level
}

// IsAdminOrSuper checks whether a user is an admin or the superuser
func (p *Controller) IsAdminOrSuper(userID int64) bool {
	level := p.Level(userID)
	return level == Superuser || level == Admin
}

// IsSuperuser checks whether a user is the superuser
func (p *Controller) IsSuperuser(userID int64) bool {
	return p.Level(userID) == Superuser
}
