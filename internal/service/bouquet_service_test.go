package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nofari1993-ISR/floriisrael-sub000/internal/allocator"
	"github.com/nofari1993-ISR/floriisrael-sub000/internal/domain"
	"github.com/nofari1993-ISR/floriisrael-sub000/internal/gen"
	"github.com/nofari1993-ISR/floriisrael-sub000/internal/repository"
	"github.com/nofari1993-ISR/floriisrael-sub000/internal/session"
	"github.com/nofari1993-ISR/floriisrael-sub000/internal/wizard"
)

type shopRepoStub struct {
	shop *domain.Shop
}

func (s *shopRepoStub) List(context.Context) ([]domain.Shop, error) {
	return []domain.Shop{*s.shop}, nil
}

func (s *shopRepoStub) GetByID(_ context.Context, id uuid.UUID) (*domain.Shop, error) {
	if s.shop == nil || s.shop.ID != id {
		return nil, repository.ErrShopNotFound
	}
	cp := *s.shop
	return &cp, nil
}

func (s *shopRepoStub) Create(_ context.Context, shop *domain.Shop) error { return nil }

func (s *shopRepoStub) AssignOwner(context.Context, uuid.UUID, *uuid.UUID) error { return nil }

type flowerRepoStub struct {
	flowers    []domain.Flower
	decrements map[uuid.UUID]int
}

func (f *flowerRepoStub) ListByShop(_ context.Context, _ uuid.UUID, inStockOnly bool) ([]domain.Flower, error) {
	if !inStockOnly {
		return f.flowers, nil
	}
	var out []domain.Flower
	for _, fl := range f.flowers {
		if fl.Quantity > 0 {
			out = append(out, fl)
		}
	}
	return out, nil
}

func (f *flowerRepoStub) GetByID(_ context.Context, id uuid.UUID) (*domain.Flower, error) {
	for i := range f.flowers {
		if f.flowers[i].ID == id {
			return &f.flowers[i], nil
		}
	}
	return nil, repository.ErrFlowerNotFound
}

func (f *flowerRepoStub) Create(_ context.Context, flower *domain.Flower) error {
	f.flowers = append(f.flowers, *flower)
	return nil
}

func (f *flowerRepoStub) Restock(_ context.Context, id uuid.UUID, _ int) (*domain.Flower, error) {
	return nil, repository.ErrFlowerNotFound
}

func (f *flowerRepoStub) DecrementStock(_ context.Context, id uuid.UUID, quantity int) error {
	if f.decrements == nil {
		f.decrements = make(map[uuid.UUID]int)
	}
	f.decrements[id] += quantity
	return nil
}

func (f *flowerRepoStub) Delete(context.Context, uuid.UUID) error { return nil }

func (f *flowerRepoStub) ExpireStale(context.Context) (int64, error) { return 0, nil }

type genStub struct {
	propose  func(gen.ProposalRequest) (*gen.Proposal, error)
	modify   func(gen.ModifyRequest) (*gen.Proposal, error)
	imageURL string
	imageErr error
}

func (g *genStub) ProposeBouquet(_ context.Context, req gen.ProposalRequest) (*gen.Proposal, error) {
	return g.propose(req)
}

func (g *genStub) ModifyBouquet(_ context.Context, req gen.ModifyRequest) (*gen.Proposal, error) {
	return g.modify(req)
}

func (g *genStub) GenerateImage(context.Context, []domain.RecommendationItem) (string, error) {
	return g.imageURL, g.imageErr
}

func newTestBouquetService(t *testing.T, flowers []domain.Flower, genClient gen.Client) (*BouquetService, *domain.Shop) {
	t.Helper()

	shop := &domain.Shop{ID: uuid.New(), Name: "Bloom TLV", Phone: "+972-50-1234567"}
	store := session.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })

	svc := NewBouquetService(
		store,
		&shopRepoStub{shop: shop},
		&flowerRepoStub{flowers: flowers},
		genClient,
		allocator.New(nil),
		nil,
	)
	return svc, shop
}

func testInventory() []domain.Flower {
	return []domain.Flower{
		{ID: uuid.New(), Name: "red rose", Color: "red", Price: 10, Quantity: 50},
		{ID: uuid.New(), Name: "white lily", Color: "white", Price: 18, Quantity: 10},
		{ID: uuid.New(), Name: "glass vase", Color: "", Price: 25, Quantity: 3},
	}
}

func walkToRecommend(t *testing.T, svc *BouquetService, id string, wrapping string) *session.Session {
	t.Helper()

	ctx := context.Background()
	var (
		sess *session.Session
		err  error
	)
	for _, msg := range []string{"my mom", "her birthday", "200 shekels", "red, please", "classic", "no allergies", wrapping} {
		sess, err = svc.HandleMessage(ctx, id, msg)
		require.NoError(t, err)
	}
	return sess
}

func TestHandleMessage_FullFlow(t *testing.T) {
	genClient := &genStub{
		propose: func(req gen.ProposalRequest) (*gen.Proposal, error) {
			assert.Equal(t, "Bloom TLV", req.ShopName)
			assert.Equal(t, 200.0, req.Budget)
			assert.Equal(t, "my mom", req.Preferences.Recipient)
			return &gen.Proposal{
				Message: "A classic red bouquet.",
				Flowers: []allocator.ProposedItem{{Name: "red rose", Quantity: 12, Color: "red"}},
			}, nil
		},
		imageURL: "data:image/png;base64,QUJD",
	}

	svc, shop := newTestBouquetService(t, testInventory(), genClient)
	ctx := context.Background()

	sess, err := svc.StartSession(ctx, shop.ID)
	require.NoError(t, err)
	require.Len(t, sess.Transcript, 1)
	assert.Equal(t, domain.RoleAssistant, sess.Transcript[0].Role)

	sess = walkToRecommend(t, svc, sess.ID, "a vase please")

	assert.Equal(t, wizard.StepRecommend, sess.State.Step)
	require.NotNil(t, sess.Active)
	assert.Nil(t, sess.Pending)

	// 12 roses at 10 plus a 6 ILS design fee, plus the medium vase for a
	// 200 ILS budget.
	require.Len(t, sess.Active.Items, 2)
	assert.Equal(t, 126.0, sess.Active.FlowersCost+sess.Active.DesignFee)
	assert.Equal(t, "medium vase", sess.Active.Items[1].Name)
	assert.Equal(t, 30.0, sess.Active.Items[1].UnitPrice)
	assert.Equal(t, 156.0, sess.Active.TotalPrice)
	assert.Equal(t, "data:image/png;base64,QUJD", sess.Active.ImageURL)

	last := sess.Transcript[len(sess.Transcript)-1]
	assert.Equal(t, domain.RoleAssistant, last.Role)
	assert.Contains(t, last.Text, "156.00 ILS")
}

func TestHandleMessage_GenerationFailureReverts(t *testing.T) {
	genClient := &genStub{
		propose: func(gen.ProposalRequest) (*gen.Proposal, error) {
			return nil, errors.New("model unavailable")
		},
	}

	// No vases in stock, so NOTES feeds straight into generation.
	inventory := []domain.Flower{
		{ID: uuid.New(), Name: "red rose", Color: "red", Price: 10, Quantity: 50},
	}
	svc, shop := newTestBouquetService(t, inventory, genClient)
	ctx := context.Background()

	sess, err := svc.StartSession(ctx, shop.ID)
	require.NoError(t, err)

	for _, msg := range []string{"my mom", "her birthday", "200", "red", "classic"} {
		_, err = svc.HandleMessage(ctx, sess.ID, msg)
		require.NoError(t, err)
	}
	sess, err = svc.HandleMessage(ctx, sess.ID, "no allergies")
	require.NoError(t, err)

	assert.Equal(t, wizard.StepNotes, sess.State.Step)
	assert.Nil(t, sess.Active)

	last := sess.Transcript[len(sess.Transcript)-1]
	assert.Equal(t, msgGenerationFailed, last.Text)
}

func TestHandleMessage_ImageFailureDoesNotBlock(t *testing.T) {
	genClient := &genStub{
		propose: func(gen.ProposalRequest) (*gen.Proposal, error) {
			return &gen.Proposal{
				Message: "Roses.",
				Flowers: []allocator.ProposedItem{{Name: "red rose", Quantity: 5}},
			}, nil
		},
		imageErr: errors.New("image model unavailable"),
	}

	svc, shop := newTestBouquetService(t, testInventory(), genClient)
	sess, err := svc.StartSession(context.Background(), shop.ID)
	require.NoError(t, err)

	sess = walkToRecommend(t, svc, sess.ID, "paper is fine")

	require.NotNil(t, sess.Active)
	assert.Empty(t, sess.Active.ImageURL)
}

func TestModify_OverBudgetHeldPending(t *testing.T) {
	genClient := &genStub{
		propose: func(gen.ProposalRequest) (*gen.Proposal, error) {
			return &gen.Proposal{
				Message: "Roses.",
				Flowers: []allocator.ProposedItem{{Name: "red rose", Quantity: 12}},
			}, nil
		},
		modify: func(req gen.ModifyRequest) (*gen.Proposal, error) {
			assert.Equal(t, "make it all lilies", req.Instruction)
			return &gen.Proposal{
				Message: "All lilies.",
				Flowers: []allocator.ProposedItem{{Name: "white lily", Quantity: 20}},
			}, nil
		},
	}

	svc, shop := newTestBouquetService(t, testInventory(), genClient)
	ctx := context.Background()

	sess, err := svc.StartSession(ctx, shop.ID)
	require.NoError(t, err)
	sess = walkToRecommend(t, svc, sess.ID, "a vase please")
	require.NotNil(t, sess.Active)
	original := sess.Active

	// 20 lilies clamp to the 10 in stock: 180 + 9 fee + 30 vase = 219,
	// above the 200 budget.
	sess, err = svc.HandleMessage(ctx, sess.ID, "make it all lilies")
	require.NoError(t, err)

	require.NotNil(t, sess.Pending)
	assert.Equal(t, 219.0, sess.Pending.TotalPrice)
	assert.Equal(t, original.TotalPrice, sess.Active.TotalPrice)
	assert.Contains(t, sess.Transcript[len(sess.Transcript)-1].Text, "219.00 ILS")

	// Approving swaps the pending bouquet in and raises the stored budget.
	sess, err = svc.Approve(ctx, sess.ID)
	require.NoError(t, err)
	assert.Nil(t, sess.Pending)
	assert.Equal(t, 219.0, sess.Active.TotalPrice)
	assert.Equal(t, 219.0, sess.State.Answers.Budget)
}

func TestRejectPending_KeepsActive(t *testing.T) {
	genClient := &genStub{
		propose: func(gen.ProposalRequest) (*gen.Proposal, error) {
			return &gen.Proposal{
				Message: "Roses.",
				Flowers: []allocator.ProposedItem{{Name: "red rose", Quantity: 12}},
			}, nil
		},
		modify: func(gen.ModifyRequest) (*gen.Proposal, error) {
			return &gen.Proposal{
				Message: "All lilies.",
				Flowers: []allocator.ProposedItem{{Name: "white lily", Quantity: 20}},
			}, nil
		},
	}

	svc, shop := newTestBouquetService(t, testInventory(), genClient)
	ctx := context.Background()

	sess, err := svc.StartSession(ctx, shop.ID)
	require.NoError(t, err)
	sess = walkToRecommend(t, svc, sess.ID, "a vase please")
	original := sess.Active.TotalPrice

	sess, err = svc.HandleMessage(ctx, sess.ID, "make it all lilies")
	require.NoError(t, err)
	require.NotNil(t, sess.Pending)

	sess, err = svc.RejectPending(ctx, sess.ID)
	require.NoError(t, err)
	assert.Nil(t, sess.Pending)
	assert.Equal(t, original, sess.Active.TotalPrice)
	assert.Equal(t, 200.0, sess.State.Answers.Budget)

	_, err = svc.RejectPending(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNoPendingRecommendation)
}

func TestReset_DiscardsEverything(t *testing.T) {
	genClient := &genStub{
		propose: func(gen.ProposalRequest) (*gen.Proposal, error) {
			return &gen.Proposal{
				Message: "Roses.",
				Flowers: []allocator.ProposedItem{{Name: "red rose", Quantity: 12}},
			}, nil
		},
	}

	svc, shop := newTestBouquetService(t, testInventory(), genClient)
	ctx := context.Background()

	sess, err := svc.StartSession(ctx, shop.ID)
	require.NoError(t, err)
	sess = walkToRecommend(t, svc, sess.ID, "a vase please")
	require.NotNil(t, sess.Active)

	sess, err = svc.Reset(ctx, sess.ID)
	require.NoError(t, err)

	assert.Equal(t, wizard.StepRecipient, sess.State.Step)
	assert.Zero(t, sess.State.Answers)
	assert.Nil(t, sess.Active)
	assert.Nil(t, sess.Pending)
	require.Len(t, sess.Transcript, 1)
	assert.Equal(t, wizard.Greeting(), sess.Transcript[0].Text)
}

func TestStartSession_UnknownShop(t *testing.T) {
	svc, _ := newTestBouquetService(t, nil, &genStub{})

	_, err := svc.StartSession(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrShopNotFound)
}

func TestHandleMessage_BudgetFloorRepromptsInPlace(t *testing.T) {
	svc, shop := newTestBouquetService(t, testInventory(), &genStub{})
	ctx := context.Background()

	sess, err := svc.StartSession(ctx, shop.ID)
	require.NoError(t, err)

	for _, msg := range []string{"my mom", "her birthday"} {
		_, err = svc.HandleMessage(ctx, sess.ID, msg)
		require.NoError(t, err)
	}

	sess, err = svc.HandleMessage(ctx, sess.ID, "50")
	require.NoError(t, err)
	assert.Equal(t, wizard.StepBudget, sess.State.Step)

	sess, err = svc.HandleMessage(ctx, sess.ID, "80")
	require.NoError(t, err)
	assert.Equal(t, wizard.StepColors, sess.State.Step)
	assert.Equal(t, 80.0, sess.State.Answers.Budget)
}
