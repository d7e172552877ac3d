package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/contact-desk/internal/model"
)

func TestMessageRepo_ListNewestFirst(t *testing.T) {
	repo := NewMessageRepo(newTestDB(t))
	ctx := context.Background()

	empty, err := repo.ListNewestFirst(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	var ids []int64
	for _, name := range []string{"Ann", "Bob", "Cid"} {
		id, err := repo.Create(ctx, model.Message{Name: name, Email: name + "@x.com", Body: "hi " + name})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	got, err := repo.ListNewestFirst(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, ids[2], got[0].ID)
	assert.Equal(t, "Cid", got[0].Name)
	assert.Equal(t, "Bob@x.com", got[1].Email)
	assert.Equal(t, "hi Ann", got[2].Body)
	assert.Greater(t, got[0].ID, got[1].ID)
	assert.Greater(t, got[1].ID, got[2].ID)
}
