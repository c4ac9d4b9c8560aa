package questlog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuiltinTemplates(t *testing.T) {
	const stamp = "2024-05-01T10:00:00.000Z"
	got := BuiltinTemplates(stamp)

	ids := make([]string, 0, len(got))
	for _, tpl := range got {
		ids = append(ids, tpl.ID)
		require.NoError(t, tpl.Validate(), tpl.ID)
		require.NotEmpty(t, tpl.Description, tpl.ID)
		require.NotEmpty(t, tpl.Quests, tpl.ID)
		require.Equal(t, stamp, tpl.Created)
		require.Equal(t, stamp, tpl.Updated)

		seen := map[string]bool{}
		for _, q := range tpl.Quests {
			require.False(t, seen[q.ID], "duplicate quest id %s in %s", q.ID, tpl.ID)
			seen[q.ID] = true
			require.Equal(t, stamp, q.Created)
			require.NotEmpty(t, q.Objectives)
			for i, o := range q.Objectives {
				require.Equal(t, fmt.Sprintf("obj%d", i+1), o.ID)
				require.False(t, o.Completed)
			}
		}
	}
	require.Equal(t, []string{"daily-tasks", "fitness-journey", "project-management", "algebra-2", "geometry", "precalculus"}, ids)
}

func TestBuiltinTemplatesReturnsFreshCopies(t *testing.T) {
	a := BuiltinTemplates("x")
	a[0].Quests[0].Objectives[0].Completed = true
	b := BuiltinTemplates("x")
	require.False(t, b[0].Quests[0].Objectives[0].Completed)
}
