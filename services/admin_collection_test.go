// file: services/admin_collection_test.go
package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cmv-site/apiclient"
	"cmv-site/models"
)

func loadedCollection(t *testing.T, items ...models.Slide) (*AdminCollection[models.Slide], *MockCollection[models.Slide]) {
	t.Helper()
	remote := &MockCollection[models.Slide]{}
	remote.On("List", mock.Anything).Return(items, nil).Once()
	c := NewAdminCollection[models.Slide]("carousel", remote)
	_, err := c.Load(context.Background())
	require.NoError(t, err)
	return c, remote
}

func TestAdminCollection_LoadFailureEmptiesList(t *testing.T) {
	c, remote := loadedCollection(t, models.Slide{ID: "a"})
	remote.On("List", mock.Anything).Return(nil, apiclient.ErrUnavailable).Once()

	items, err := c.Load(context.Background())

	assert.ErrorIs(t, err, apiclient.ErrUnavailable)
	assert.Empty(t, items)
	assert.Empty(t, c.Items(), "no stale records after a failed load")
}

func TestAdminCollection_CreateAppendsServerRecord(t *testing.T) {
	c, remote := loadedCollection(t, models.Slide{ID: "a"})
	remote.On("Create", mock.Anything, models.Slide{Title: "Yagna"}).
		Return(models.Slide{ID: "srv-1", Title: "Yagna"}, nil)

	var notified []models.Slide
	c.OnChange(func(s []models.Slide) { notified = s })

	created, err := c.Create(context.Background(), models.Slide{Title: "Yagna"})
	require.NoError(t, err)
	assert.Equal(t, "srv-1", created.ID)
	assert.Equal(t, []string{"a", "srv-1"}, ids(c.Items()))
	assert.Equal(t, c.Items(), notified)
}

func TestAdminCollection_CreateFailureKeepsList(t *testing.T) {
	c, remote := loadedCollection(t, models.Slide{ID: "a"})
	remote.On("Create", mock.Anything, mock.Anything).Return(models.Slide{}, &apiclient.APIError{StatusCode: 500})

	_, err := c.Create(context.Background(), models.Slide{Title: "x"})

	assert.Error(t, err)
	assert.Equal(t, []string{"a"}, ids(c.Items()))
}

func TestAdminCollection_DeleteRemoves(t *testing.T) {
	c, remote := loadedCollection(t, models.Slide{ID: "a"}, models.Slide{ID: "b"})
	remote.On("Delete", mock.Anything, "a").Return(nil)

	require.NoError(t, c.Delete(context.Background(), "a"))
	assert.Equal(t, []string{"b"}, ids(c.Items()))
}

func TestAdminCollection_DeleteFailureLeavesListIntact(t *testing.T) {
	c, remote := loadedCollection(t, models.Slide{ID: "a"}, models.Slide{ID: "b"})
	remote.On("Delete", mock.Anything, "a").Return(errors.New("boom"))

	assert.Error(t, c.Delete(context.Background(), "a"))
	assert.Equal(t, []string{"a", "b"}, ids(c.Items()))
}

// Test: deleting an id that is not listed never changes the list
func TestAdminCollection_DeleteUnknownIDIsNoOp(t *testing.T) {
	c, remote := loadedCollection(t, models.Slide{ID: "a"})
	remote.On("Delete", mock.Anything, "ghost").Return(nil).Once()
	remote.On("Delete", mock.Anything, "ghost").Return(&apiclient.APIError{StatusCode: 404}).Once()

	calls := 0
	c.OnChange(func([]models.Slide) { calls++ })

	assert.NoError(t, c.Delete(context.Background(), "ghost"))
	assert.Equal(t, []string{"a"}, ids(c.Items()))

	assert.Error(t, c.Delete(context.Background(), "ghost"))
	assert.Equal(t, []string{"a"}, ids(c.Items()))
	assert.Zero(t, calls)
}

func ids[T Identified](items []T) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.GetID())
	}
	return out
}
