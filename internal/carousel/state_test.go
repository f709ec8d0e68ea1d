package carousel

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countRoles(roles []Role, want Role) int {
	n := 0
	for _, r := range roles {
		if r == want {
			n++
		}
	}
	return n
}

func TestSingleCenterForEveryReachableIndex(t *testing.T) {
	for count := 1; count <= 9; count++ {
		for _, dir := range []Direction{Forward, Backward} {
			s := NewState(count)
			for i := 0; i < count; i++ {
				require.NoError(t, s.GoTo(i))
				s.direction = dir

				roles := s.Roles()
				name := fmt.Sprintf("count=%d active=%d dir=%s", count, i, dir)
				assert.Equal(t, 1, countRoles(roles, Center), name)
				assert.LessOrEqual(t, countRoles(roles, Left), 1, name)
				assert.LessOrEqual(t, countRoles(roles, Right), 1, name)
				assert.Equal(t, Center, roles[i], name)
				assert.Zero(t, countRoles(roles, RoleNone), name)
			}
		}
	}
}

func TestCircularity(t *testing.T) {
	for count := 1; count <= 7; count++ {
		s := NewState(count)
		require.NoError(t, s.GoTo(count/2))
		start := s.Active()

		for i := 0; i < count; i++ {
			s.Next()
		}
		assert.Equal(t, start, s.Active(), "next x%d", count)

		for i := 0; i < count; i++ {
			s.Prev()
		}
		assert.Equal(t, start, s.Active(), "prev x%d", count)
	}
}

func TestDirectionFollowsCommand(t *testing.T) {
	s := NewState(4)

	require.True(t, s.Next())
	assert.Equal(t, Forward, s.Direction())
	assert.Equal(t, 1, s.Active())

	require.True(t, s.Prev())
	assert.Equal(t, Backward, s.Direction())
	assert.Equal(t, 0, s.Active())

	require.True(t, s.Prev())
	assert.Equal(t, 3, s.Active(), "prev wraps to the end")
}

func TestNoOpOnSmallLists(t *testing.T) {
	for _, count := range []int{0, 1} {
		s := NewState(count)
		before := s.Active()

		assert.False(t, s.Next())
		assert.False(t, s.Prev())
		assert.Equal(t, before, s.Active())
	}
}

func TestScenarioFiveItems(t *testing.T) {
	s := NewState(5)
	require.NoError(t, s.GoTo(2))

	assert.Equal(t, Center, s.RoleOf(2))
	assert.Equal(t, Left, s.RoleOf(1))
	assert.Equal(t, Right, s.RoleOf(3))
	assert.Equal(t, HiddenLeft, s.RoleOf(0))
	assert.Equal(t, HiddenRight, s.RoleOf(4))
}

func TestRolesFollowActive(t *testing.T) {
	s := NewState(5)
	want := [][]Role{
		{Center, Right, HiddenRight, HiddenLeft, Left},
		{Left, Center, Right, HiddenRight, HiddenLeft},
		{HiddenLeft, Left, Center, Right, HiddenRight},
	}
	for i, roles := range want {
		require.NoError(t, s.GoTo(i))
		if diff := cmp.Diff(roles, s.Roles()); diff != "" {
			t.Errorf("roles with %d active (-want +got):\n%s", i, diff)
		}
	}
}

func TestScenarioTwoItems(t *testing.T) {
	s := NewState(2)
	s.Next()
	s.Next()

	require.Equal(t, 0, s.Active())
	require.Equal(t, Forward, s.Direction())
	assert.Equal(t, Center, s.RoleOf(0))
	assert.Equal(t, Right, s.RoleOf(1))

	s.Prev()
	assert.Equal(t, Center, s.RoleOf(1))
	assert.Equal(t, Left, s.RoleOf(0))
}

func TestScenarioGoToAhead(t *testing.T) {
	s := NewState(6)
	require.NoError(t, s.GoTo(1))

	require.NoError(t, s.GoTo(4))
	assert.Equal(t, Forward, s.Direction())
	assert.Equal(t, 4, s.Active())

	require.NoError(t, s.GoTo(0))
	assert.Equal(t, Backward, s.Direction())

	require.NoError(t, s.GoTo(0))
	assert.Equal(t, Forward, s.Direction(), "same index counts as forward")
}

func TestScenarioEmpty(t *testing.T) {
	var s State

	assert.True(t, s.Empty())
	assert.Equal(t, -1, s.Active())
	assert.Empty(t, s.Roles())
	assert.Equal(t, RoleNone, s.RoleOf(0))
	assert.False(t, s.Next())
	assert.False(t, s.Prev())
	assert.ErrorIs(t, s.GoTo(0), ErrEmpty)
}

func TestGoToOutOfRangeKeepsState(t *testing.T) {
	s := NewState(3)
	require.NoError(t, s.GoTo(2))
	s.Prev()

	for _, i := range []int{-1, 3, 100} {
		err := s.GoTo(i)
		assert.ErrorIs(t, err, ErrOutOfRange)
		assert.Equal(t, 1, s.Active())
		assert.Equal(t, Backward, s.Direction())
	}
}

func TestResizeClampsActive(t *testing.T) {
	s := NewState(6)
	require.NoError(t, s.GoTo(5))
	s.Prev()

	s.Resize(8)
	assert.Equal(t, 4, s.Active(), "index still valid is kept")
	assert.Equal(t, Forward, s.Direction())

	s.Resize(3)
	assert.Equal(t, 0, s.Active(), "index out of range resets to 0")

	s.Resize(0)
	assert.Equal(t, -1, s.Active())
	assert.True(t, s.Empty())
}

func TestOffsetRange(t *testing.T) {
	s := NewState(4)
	offsets := []int{s.Offset(0), s.Offset(1), s.Offset(2), s.Offset(3)}
	assert.Equal(t, []int{0, 1, 2, -1}, offsets)
	assert.Equal(t, HiddenRight, s.RoleOf(2))
}
