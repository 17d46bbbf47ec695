package permissions

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"wp-tg-publisher/internal/models"
)

type fixedUsers map[int64]int

func (f fixedUsers) GetUserLevel(userID int64) int {
	if level, ok := f[userID]; ok {
		return level
	}
	return models.LevelUnauthorized
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestLevelResolution(t *testing.T) {
	ctrl := NewController(fixedUsers{
		1: models.LevelSuperuser,
		2: models.LevelAdmin,
		3: models.LevelOrdinary,
	}, testLogger())

	require.Equal(t, Superuser, ctrl.Level(1))
	require.Equal(t, Admin, ctrl.Level(2))
	require.Equal(t, Ordinary, ctrl.Level(3))
	require.Equal(t, Unauthorized, ctrl.Level(99))
}

func TestIsAdminOrSuper(t *testing.T) {
	ctrl := NewController(fixedUsers{
		1: models.LevelSuperuser,
		2: models.LevelAdmin,
		3: models.LevelOrdinary,
	}, testLogger())

	require.True(t, ctrl.IsAdminOrSuper(1))
	require.True(t, ctrl.IsAdminOrSuper(2))
	require.False(t, ctrl.IsAdminOrSuper(3))
	require.False(t, ctrl.IsAdminOrSuper(99))
}

func TestIsSuperuser(t *testing.T) {
	ctrl := NewController(fixedUsers{
		1: models.LevelSuperuser,
		2: models.LevelAdmin,
	}, testLogger())

	require.True(t, ctrl.IsSuperuser(1))
	require.False(t, ctrl.IsSuperuser(2))
}

func TestLevelString(t *testing.T) {
	require.Equal(t, "Superuser", Superuser.String())
	require.Equal(t, "Admin", Admin.String())
	require.Equal(t, "Ordinary", Ordinary.String())
	require.Equal(t, "Unauthorized", Unauthorized.String())
}
