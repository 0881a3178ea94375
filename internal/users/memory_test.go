package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maazahmad/spendtrace/internal/domain"
)

func TestMemory_FindByHandle(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.FindByHandle(ctx, "923001234567")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Save(ctx, domain.User{
		PhoneNumber:   "923001234567",
		SpreadsheetID: "sheet-1",
		Email:         "user@example.com",
	}))

	u, err := m.FindByHandle(ctx, "923001234567")
	require.NoError(t, err)
	assert.Equal(t, "sheet-1", u.SpreadsheetID)
	assert.False(t, u.CreatedAt.IsZero())
}

func TestMemory_SaveReplacesExisting(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Save(ctx, domain.User{PhoneNumber: "1", SpreadsheetID: "old"}))
	require.NoError(t, m.Save(ctx, domain.User{PhoneNumber: "1", SpreadsheetID: "new"}))

	u, err := m.FindByHandle(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "new", u.SpreadsheetID)

	all, err := m.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
