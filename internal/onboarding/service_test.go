package onboarding

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maazahmad/spendtrace/internal/users"
)

type fakeProvisioner struct {
	sheetID string
	err     error
	calls   int
}

func (f *fakeProvisioner) CloneLedger(ctx context.Context, email, phoneNumber string) (string, error) {
	f.calls++
	return f.sheetID, f.err
}

type fakeSeeder struct {
	seeded []string
	err    error
}

func (f *fakeSeeder) Seed(ctx context.Context, sheetID string) error {
	f.seeded = append(f.seeded, sheetID)
	return f.err
}

type fakeNotifier struct {
	sent []string
}

func (f *fakeNotifier) SendText(ctx context.Context, to, text string) error {
	f.sent = append(f.sent, text)
	return nil
}

func TestOnboard_Success(t *testing.T) {
	prov := &fakeProvisioner{sheetID: "new-sheet"}
	seeder := &fakeSeeder{}
	store := users.NewMemory()
	notifier := &fakeNotifier{}
	svc := NewService(prov, seeder, store, notifier, zerolog.Nop())

	err := svc.Onboard(context.Background(), "923001234567", "user@example.com")
	require.NoError(t, err)

	assert.Equal(t, []string{"new-sheet"}, seeder.seeded)

	u, err := store.FindByHandle(context.Background(), "923001234567")
	require.NoError(t, err)
	assert.Equal(t, "new-sheet", u.SpreadsheetID)
	assert.Equal(t, "user@example.com", u.Email)

	require.Len(t, notifier.sent, 2)
	assert.Contains(t, notifier.sent[0], "Provisioning")
	assert.Contains(t, notifier.sent[1], "https://docs.google.com/spreadsheets/d/new-sheet")
}

func TestOnboard_CloneFailureSavesNothing(t *testing.T) {
	prov := &fakeProvisioner{err: errors.New("drive quota exceeded")}
	store := users.NewMemory()
	notifier := &fakeNotifier{}
	svc := NewService(prov, &fakeSeeder{}, store, notifier, zerolog.Nop())

	err := svc.Onboard(context.Background(), "923001234567", "user@example.com")
	require.Error(t, err)

	_, err = store.FindByHandle(context.Background(), "923001234567")
	assert.ErrorIs(t, err, users.ErrNotFound)

	require.Len(t, notifier.sent, 2)
	assert.Contains(t, notifier.sent[1], "❌ Setup failed: drive quota exceeded")
}

func TestOnboard_SeedFailureSavesNothing(t *testing.T) {
	prov := &fakeProvisioner{sheetID: "half-built"}
	seeder := &fakeSeeder{err: errors.New("sheets unavailable")}
	store := users.NewMemory()
	svc := NewService(prov, seeder, store, &fakeNotifier{}, zerolog.Nop())

	err := svc.Onboard(context.Background(), "923001234567", "user@example.com")
	require.Error(t, err)

	_, err = store.FindByHandle(context.Background(), "923001234567")
	assert.ErrorIs(t, err, users.ErrNotFound)
}

func TestOnboard_RepeatReplacesLedger(t *testing.T) {
	store := users.NewMemory()
	notifier := &fakeNotifier{}

	first := NewService(&fakeProvisioner{sheetID: "sheet-a"}, &fakeSeeder{}, store, notifier, zerolog.Nop())
	require.NoError(t, first.Onboard(context.Background(), "1", "a@example.com"))

	second := NewService(&fakeProvisioner{sheetID: "sheet-b"}, &fakeSeeder{}, store, notifier, zerolog.Nop())
	require.NoError(t, second.Onboard(context.Background(), "1", "b@example.com"))

	u, err := store.FindByHandle(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "sheet-b", u.SpreadsheetID)
	assert.Equal(t, "b@example.com", u.Email)
}
