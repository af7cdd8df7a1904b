package wallet

import (
	"context"
	"errors"
	"testing"

	"fintrack/internal/models"
	"fintrack/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	wallets    map[uint]*models.Wallet
	nextID     uint
	failCreate bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{wallets: make(map[uint]*models.Wallet)}
}

func (f *fakeRepo) Create(_ context.Context, w *models.Wallet) error {
	if f.failCreate {
		return errors.New("create failed")
	}
	f.nextID++
	w.ID = f.nextID
	cw := *w
	f.wallets[w.ID] = &cw
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, ownerID, id uint) (*models.Wallet, error) {
	w, ok := f.wallets[id]
	if !ok || w.OwnerID != ownerID {
		return nil, repositories.ErrWalletNotFound
	}
	cw := *w
	return &cw, nil
}

func (f *fakeRepo) GetByIDForUpdate(ctx context.Context, ownerID, id uint) (*models.Wallet, error) {
	return f.GetByID(ctx, ownerID, id)
}

func (f *fakeRepo) ListByOwner(_ context.Context, ownerID uint) ([]models.Wallet, error) {
	var out []models.Wallet
	for _, w := range f.wallets {
		if w.OwnerID == ownerID {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, w *models.Wallet) error {
	cw := *w
	f.wallets[w.ID] = &cw
	return nil
}

func (f *fakeRepo) UpdateBalance(_ context.Context, id uint, balance decimal.Decimal) error {
	w, ok := f.wallets[id]
	if !ok {
		return repositories.ErrWalletNotFound
	}
	w.Balance = balance
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, ownerID, id uint) error {
	w, ok := f.wallets[id]
	if !ok || w.OwnerID != ownerID {
		return repositories.ErrWalletNotFound
	}
	delete(f.wallets, id)
	return nil
}

// fakeAtomic snapshots the repo before each Transact and restores it on
// error, mirroring a rollback.
type fakeAtomic struct{ repo *fakeRepo }

func (a fakeAtomic) Transact(_ context.Context, fn func(repositories.Store) error) error {
	snapshot := make(map[uint]*models.Wallet, len(a.repo.wallets))
	for id, w := range a.repo.wallets {
		cw := *w
		snapshot[id] = &cw
	}
	nextID := a.repo.nextID

	err := fn(repositories.Store{Wallets: a.repo})
	if err != nil {
		a.repo.wallets, a.repo.nextID = snapshot, nextID
	}
	return err
}

func newTestService(repo *fakeRepo) Service {
	return NewService(fakeAtomic{repo}, repo, nil)
}

func defaultCount(repo *fakeRepo, ownerID uint) int {
	n := 0
	for _, w := range repo.wallets {
		if w.OwnerID == ownerID && w.IsDefault {
			n++
		}
	}
	return n
}

func TestCreate_Validation(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	tests := []struct {
		name    string
		input   CreateInput
		wantErr error
	}{
		{"missing name", CreateInput{Currency: "MYR"}, ErrInvalidName},
		{"bad type", CreateInput{Name: "Cash", Type: "briefcase", Currency: "MYR"}, ErrInvalidType},
		{"bad currency", CreateInput{Name: "Cash", Currency: "RINGGIT"}, ErrInvalidCurrency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), 1, tt.input)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreate_Defaults(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	first, err := svc.Create(context.Background(), 1, CreateInput{Name: "Cash", Currency: "MYR"})
	require.NoError(t, err)
	assert.True(t, first.IsDefault, "first wallet becomes the default")
	assert.Equal(t, models.WalletTypeCash, first.Type)
	assert.Equal(t, "1.000000", first.ExchangeRateToDefault.StringFixed(6))

	second, err := svc.Create(context.Background(), 1, CreateInput{Name: "Bank", Type: models.WalletTypeBankCard, Currency: "MYR"})
	require.NoError(t, err)
	assert.False(t, second.IsDefault)

	// Taking the default flag moves it off the previous holder.
	third, err := svc.Create(context.Background(), 1, CreateInput{Name: "Main", Currency: "SGD", IsDefault: true})
	require.NoError(t, err)
	assert.True(t, third.IsDefault)

	assert.Equal(t, 1, defaultCount(repo, 1), "exactly one default wallet per owner")
}

func TestCreate_FailureKeepsPreviousDefault(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	first, err := svc.Create(context.Background(), 1, CreateInput{Name: "Cash", Currency: "MYR"})
	require.NoError(t, err)
	require.True(t, first.IsDefault)

	// The handover that precedes the create must not leak when the create
	// fails.
	repo.failCreate = true
	_, err = svc.Create(context.Background(), 1, CreateInput{Name: "Main", Currency: "SGD", IsDefault: true})
	require.Error(t, err)

	assert.True(t, repo.wallets[first.ID].IsDefault)
	assert.Equal(t, 1, defaultCount(repo, 1))
}

func TestCreate_StartingBalance(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	w, err := svc.Create(context.Background(), 1, CreateInput{
		Name:     "Cash",
		Currency: "MYR",
		Balance:  decimal.RequireFromString("123.456"),
	})
	require.NoError(t, err)
	assert.Equal(t, "123.46", w.Balance.StringFixed(2))
}

func TestGetAndDelete(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	w, err := svc.Create(context.Background(), 1, CreateInput{Name: "Cash", Currency: "MYR"})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), 1, w.ID)
	require.NoError(t, err)
	assert.Equal(t, w.ID, got.ID)

	_, err = svc.Get(context.Background(), 2, w.ID)
	assert.ErrorIs(t, err, ErrWalletNotFound, "wallets are owner-scoped")

	require.NoError(t, svc.Delete(context.Background(), 1, w.ID))
	_, err = svc.Get(context.Background(), 1, w.ID)
	assert.ErrorIs(t, err, ErrWalletNotFound)

	assert.ErrorIs(t, svc.Delete(context.Background(), 1, w.ID), ErrWalletNotFound)
}

func TestDelete_PromotesNewDefault(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	first, err := svc.Create(context.Background(), 1, CreateInput{Name: "Cash", Currency: "MYR"})
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), 1, CreateInput{Name: "Bank", Currency: "MYR"})
	require.NoError(t, err)
	third, err := svc.Create(context.Background(), 1, CreateInput{Name: "Savings", Currency: "MYR"})
	require.NoError(t, err)
	require.True(t, first.IsDefault)

	require.NoError(t, svc.Delete(context.Background(), 1, first.ID))

	// The oldest surviving wallet takes the flag over.
	assert.True(t, repo.wallets[second.ID].IsDefault)
	assert.False(t, repo.wallets[third.ID].IsDefault)
	assert.Equal(t, 1, defaultCount(repo, 1))
}

func TestDelete_NonDefaultLeavesFlagAlone(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	first, err := svc.Create(context.Background(), 1, CreateInput{Name: "Cash", Currency: "MYR"})
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), 1, CreateInput{Name: "Bank", Currency: "MYR"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), 1, second.ID))

	assert.True(t, repo.wallets[first.ID].IsDefault)
	assert.Equal(t, 1, defaultCount(repo, 1))
}
