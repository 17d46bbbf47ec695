package helpers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	require.Equal(t, "hello", Truncate("hello", 10))
	require.Equal(t, "hel", Truncate("hello", 3))
	require.Equal(t, "", Truncate("", 5))
	// Rune-safe: multi-byte characters are never split.
	require.Equal(t, "héll", Truncate("héllo", 4))
}

func TestDisplayName(t *testing.T) {
	require.Equal(t, "Alice Smith", DisplayName("Alice", "Smith", "alice"))
	require.Equal(t, "Alice", DisplayName("Alice", "", "alice"))
	require.Equal(t, "alice", DisplayName("", "", "alice"))
	require.Equal(t, "Unknown", DisplayName("", "", ""))
}

func TestParsePostStatus(t *testing.T) {
	require.Equal(t, "publish", ParsePostStatus("1", "draft"))
	require.Equal(t, "publish", ParsePostStatus("publish", "draft"))
	require.Equal(t, "draft", ParsePostStatus("2", "publish"))
	require.Equal(t, "pending", ParsePostStatus(" Pending ", "draft"))
	require.Equal(t, "private", ParsePostStatus("4", "draft"))
	require.Equal(t, "trash", ParsePostStatus("5", "draft"))
	require.Equal(t, "draft", ParsePostStatus("bogus", "draft"))
	require.Equal(t, "draft", ParsePostStatus("", "draft"))
}
