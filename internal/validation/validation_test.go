package validation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizePasscode(t *testing.T) {
	code, err := NormalizePasscode("  abcdefgh ")
	require.NoError(t, err)
	require.Equal(t, "ABCDEFGH", code)
}

func TestNormalizePasscodeRejectsWrongLength(t *testing.T) {
	_, err := NormalizePasscode("SHORT")
	require.Error(t, err)

	_, err = NormalizePasscode("WAYTOOLONGCODE")
	require.Error(t, err)
}

func TestNormalizePasscodeRejectsExcludedCharacters(t *testing.T) {
	// 0, 1, I and O are not in the alphabet.
	for _, code := range []string{"ABCDEFG0", "ABCDEFG1", "ABCDEFGI", "ABCDEFGO"} {
		_, err := NormalizePasscode(code)
		require.Error(t, err, "code %s", code)
	}
}

func TestParsePostLimit(t *testing.T) {
	require.Equal(t, 5, ParsePostLimit(""))
	require.Equal(t, 5, ParsePostLimit("  "))
	require.Equal(t, 5, ParsePostLimit("abc"))
	require.Equal(t, 5, ParsePostLimit("-3"))
	require.Equal(t, 10, ParsePostLimit("10"))
	require.Equal(t, 20, ParsePostLimit("20"))
	require.Equal(t, 20, ParsePostLimit("100"))
}
