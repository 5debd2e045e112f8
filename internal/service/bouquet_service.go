package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nofari1993-ISR/floriisrael-sub000/internal/allocator"
	"github.com/nofari1993-ISR/floriisrael-sub000/internal/domain"
	"github.com/nofari1993-ISR/floriisrael-sub000/internal/gen"
	"github.com/nofari1993-ISR/floriisrael-sub000/internal/repository"
	"github.com/nofari1993-ISR/floriisrael-sub000/internal/session"
	"github.com/nofari1993-ISR/floriisrael-sub000/internal/wizard"
)

var ErrNoPendingRecommendation = errors.New("no pending recommendation to approve or reject")

const (
	msgGenerationFailed = "I'm sorry, something went wrong while designing your bouquet. Let's try that again."
	msgEmptyBouquet     = "I couldn't put together a bouquet from what's in stock right now. Try a different budget, or ask me to adjust."
	msgNothingToModify  = "There's no bouquet to adjust yet. Let's finish building one first."
	msgKeepCurrent      = "No problem, keeping your current bouquet."
)

// BouquetService drives wizard sessions: it feeds customer messages through
// the state machine and executes the resulting effects, including the
// generation and modification round trips.
type BouquetService struct {
	sessions session.Store
	shops    repository.ShopRepository
	flowers  repository.FlowerRepository
	gen      gen.Client
	alloc    *allocator.Allocator
	log      *zap.SugaredLogger

	// One wizard request is processed at a time per session.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewBouquetService(
	sessions session.Store,
	shops repository.ShopRepository,
	flowers repository.FlowerRepository,
	genClient gen.Client,
	alloc *allocator.Allocator,
	log *zap.SugaredLogger,
) *BouquetService {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &BouquetService{
		sessions: sessions,
		shops:    shops,
		flowers:  flowers,
		gen:      genClient,
		alloc:    alloc,
		log:      log,
		locks:    make(map[string]*sync.Mutex),
	}
}

// StartSession opens a wizard conversation with a shop.
func (s *BouquetService) StartSession(ctx context.Context, shopID uuid.UUID) (*session.Session, error) {
	if _, err := s.shops.GetByID(ctx, shopID); err != nil {
		return nil, err
	}

	sess := session.New(shopID)
	if err := s.sessions.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return sess, nil
}

func (s *BouquetService) GetSession(ctx context.Context, id string) (*session.Session, error) {
	return s.sessions.Get(ctx, id)
}

// HandleMessage feeds one customer message into the session's state machine
// and executes the effects it produces.
func (s *BouquetService) HandleMessage(ctx context.Context, sessionID, text string) (*session.Session, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	inventory, err := s.inventorySnapshot(ctx, sess.ShopID)
	if err != nil {
		return nil, err
	}
	env := wizard.Env{HasVase: hasVase(inventory)}

	sess.Transcript = sess.Transcript.Append(domain.RoleUser, text)

	state, effects := wizard.Advance(sess.State, text, env)
	sess.State = state

	for _, effect := range effects {
		switch e := effect.(type) {
		case wizard.Say:
			sess.Transcript = sess.Transcript.Append(domain.RoleAssistant, e.Text)
		case wizard.Generate:
			s.generate(ctx, sess, inventory)
		case wizard.Modify:
			s.modify(ctx, sess, inventory, e.Instruction)
		}
	}

	if err := s.sessions.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return sess, nil
}

// Approve accepts a pending over-budget recommendation: it becomes the active
// one and its total becomes the new stored budget.
func (s *BouquetService) Approve(ctx context.Context, sessionID string) (*session.Session, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Pending == nil {
		return nil, ErrNoPendingRecommendation
	}

	sess.Active = sess.Pending
	sess.State.Answers.Budget = sess.Pending.TotalPrice
	sess.Pending = nil
	sess.Transcript = sess.Transcript.Append(domain.RoleAssistant, summarize(sess.Active))

	if err := s.sessions.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return sess, nil
}

// RejectPending discards a pending recommendation, keeping the active one and
// the stored budget unchanged.
func (s *BouquetService) RejectPending(ctx context.Context, sessionID string) (*session.Session, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Pending == nil {
		return nil, ErrNoPendingRecommendation
	}

	sess.Pending = nil
	sess.Transcript = sess.Transcript.Append(domain.RoleAssistant, msgKeepCurrent)

	if err := s.sessions.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return sess, nil
}

// Reset returns the session to the initial greeting, discarding all answers
// and recommendations.
func (s *BouquetService) Reset(ctx context.Context, sessionID string) (*session.Session, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	sess.State = wizard.Initial()
	sess.Active = nil
	sess.Pending = nil
	sess.Transcript = domain.Transcript{}.Append(domain.RoleAssistant, wizard.Greeting())

	if err := s.sessions.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return sess, nil
}

// generate runs the proposal + allocation round trip and stores the result as
// the active recommendation. On failure the state machine reverts to the step
// that triggered the call.
func (s *BouquetService) generate(ctx context.Context, sess *session.Session, inventory []allocator.InventoryItem) {
	shop, err := s.shops.GetByID(ctx, sess.ShopID)
	if err != nil {
		s.failGeneration(sess, err)
		return
	}

	answers := sess.State.Answers
	proposal, err := s.gen.ProposeBouquet(ctx, gen.ProposalRequest{
		ShopName:  shop.Name,
		Inventory: inventory,
		Budget:    answers.Budget,
		Preferences: gen.Preferences{
			Recipient: answers.Recipient,
			Occasion:  answers.Occasion,
			Colors:    answers.Colors,
			Style:     answers.Style,
			Notes:     answers.Notes,
			Wrapping:  answers.Wrapping,
		},
	})
	if err != nil {
		s.failGeneration(sess, err)
		return
	}

	result := s.alloc.Allocate(proposal.Flowers, inventory, answers.Budget)
	rec := buildRecommendation(result, proposal.Message)
	applyVase(sess, rec)
	s.attachImage(ctx, rec)

	sess.Active = rec
	sess.Pending = nil
	sess.Transcript = sess.Transcript.Append(domain.RoleAssistant, summarize(rec))
}

// modify regenerates the active recommendation according to a free-text
// instruction. An over-budget result is held pending until the customer
// explicitly approves or rejects it.
func (s *BouquetService) modify(ctx context.Context, sess *session.Session, inventory []allocator.InventoryItem, instruction string) {
	if sess.Active == nil {
		sess.Transcript = sess.Transcript.Append(domain.RoleAssistant, msgNothingToModify)
		return
	}

	shop, err := s.shops.GetByID(ctx, sess.ShopID)
	if err != nil {
		sess.Transcript = sess.Transcript.Append(domain.RoleAssistant, msgGenerationFailed)
		s.log.Warnw("modify failed", "session_id", sess.ID, "error", err)
		return
	}

	budget := sess.State.Answers.Budget
	proposal, err := s.gen.ModifyBouquet(ctx, gen.ModifyRequest{
		ShopName:    shop.Name,
		Inventory:   inventory,
		Budget:      budget,
		Current:     sess.Active,
		Instruction: instruction,
	})
	if err != nil {
		sess.Transcript = sess.Transcript.Append(domain.RoleAssistant, msgGenerationFailed)
		s.log.Warnw("modify failed", "session_id", sess.ID, "error", err)
		return
	}

	// Validate against stock only: allocate under a budget that cannot bind,
	// then compare the result against the stored budget. A modification is
	// allowed to cost more than the original budget, but only with the
	// customer's explicit approval.
	result := s.alloc.Allocate(proposal.Flowers, inventory, unboundedBudget(inventory))
	rec := buildRecommendation(result, proposal.Message)
	applyVase(sess, rec)
	s.attachImage(ctx, rec)

	if rec.TotalPrice > budget {
		sess.Pending = rec
		sess.Transcript = sess.Transcript.Append(domain.RoleAssistant, fmt.Sprintf(
			"That change brings the total to %.2f ILS, above your budget of %.2f ILS. Should I go ahead with it?",
			rec.TotalPrice, budget))
		return
	}

	sess.Active = rec
	sess.Pending = nil
	sess.Transcript = sess.Transcript.Append(domain.RoleAssistant, summarize(rec))
}

func (s *BouquetService) failGeneration(sess *session.Session, err error) {
	s.log.Warnw("bouquet generation failed", "session_id", sess.ID, "error", err)
	sess.Transcript = sess.Transcript.Append(domain.RoleAssistant, msgGenerationFailed)
	sess.State = sess.State.Revert()
}

// attachImage is best-effort: a missing image never blocks the bouquet.
func (s *BouquetService) attachImage(ctx context.Context, rec *domain.Recommendation) {
	if len(rec.Items) == 0 {
		return
	}
	url, err := s.gen.GenerateImage(ctx, rec.Items)
	if err != nil {
		s.log.Warnw("bouquet image generation failed", "error", err)
		return
	}
	rec.ImageURL = url
}

func (s *BouquetService) inventorySnapshot(ctx context.Context, shopID uuid.UUID) ([]allocator.InventoryItem, error) {
	flowers, err := s.flowers.ListByShop(ctx, shopID, true)
	if err != nil {
		return nil, fmt.Errorf("inventory snapshot: %w", err)
	}

	items := make([]allocator.InventoryItem, len(flowers))
	for i, f := range flowers {
		items[i] = allocator.InventoryItem{
			Name:     f.Name,
			Color:    f.Color,
			Price:    f.Price,
			Quantity: f.Quantity,
			Boosted:  f.Boosted,
		}
	}
	return items, nil
}

func (s *BouquetService) lockSession(id string) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func hasVase(inventory []allocator.InventoryItem) bool {
	for _, item := range inventory {
		if item.Quantity > 0 && strings.Contains(strings.ToLower(item.Name), "vase") {
			return true
		}
	}
	return false
}

func buildRecommendation(result allocator.Result, message string) *domain.Recommendation {
	items := make([]domain.RecommendationItem, len(result.Items))
	for i, item := range result.Items {
		items[i] = domain.RecommendationItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Color:     item.Color,
			LineTotal: item.LineTotal,
		}
	}
	return &domain.Recommendation{
		Items:       items,
		FlowersCost: result.FlowersCost,
		DesignFee:   result.DesignFee,
		TotalPrice:  result.TotalPrice,
		Message:     message,
	}
}

// applyVase appends the selected vase as an extra line on top of the
// allocated flowers. The design fee applies to flowers only.
func applyVase(sess *session.Session, rec *domain.Recommendation) {
	if sess.State.Vase == nil || len(rec.Items) == 0 {
		return
	}
	tier := sess.State.Vase
	rec.Items = append(rec.Items, domain.RecommendationItem{
		Name:      fmt.Sprintf("%s vase", tier.Size),
		Quantity:  1,
		UnitPrice: tier.Price,
		LineTotal: tier.Price,
	})
	rec.TotalPrice += tier.Price
}

func summarize(rec *domain.Recommendation) string {
	if len(rec.Items) == 0 {
		return msgEmptyBouquet
	}

	var b strings.Builder
	if rec.Message != "" {
		b.WriteString(rec.Message)
		b.WriteString("\n")
	}
	for _, item := range rec.Items {
		if item.Color != "" {
			b.WriteString(fmt.Sprintf("- %d x %s (%s): %.2f ILS\n", item.Quantity, item.Name, item.Color, item.LineTotal))
		} else {
			b.WriteString(fmt.Sprintf("- %d x %s: %.2f ILS\n", item.Quantity, item.Name, item.LineTotal))
		}
	}
	b.WriteString(fmt.Sprintf("Total: %.2f ILS (includes a %.0f ILS design fee)", rec.TotalPrice, rec.DesignFee))
	return b.String()
}

// unboundedBudget returns a budget big enough that allocation is constrained
// by stock alone.
func unboundedBudget(inventory []allocator.InventoryItem) float64 {
	total := 0.0
	for _, item := range inventory {
		total += item.Price * float64(item.Quantity)
	}
	return (total + 1) * (1 + allocator.DesignFeeRate) * 2
}
