package services

import (
	"context"
	"errors"
	"testing"

	"obmenBack/internal/exchangefsm"
	"obmenBack/internal/models"
)

type fakeExchangeRepo struct {
	proposals map[int]models.ExchangeProposal
	ads       *fakeAdRepo
	nextID    int
}

func newFakeExchangeRepo(ads *fakeAdRepo) *fakeExchangeRepo {
	return &fakeExchangeRepo{proposals: map[int]models.ExchangeProposal{}, ads: ads, nextID: 1}
}

func (f *fakeExchangeRepo) CreateProposal(ctx context.Context, p models.ExchangeProposal) (models.ExchangeProposal, error) {
	p.ID = f.nextID
	f.nextID++
	p.Status = exchangefsm.StatusPending
	f.proposals[p.ID] = p
	return p, nil
}

func (f *fakeExchangeRepo) GetProposalByID(ctx context.Context, id int) (models.ExchangeProposal, error) {
	p, ok := f.proposals[id]
	if !ok {
		return models.ExchangeProposal{}, models.ErrProposalNotFound
	}
	if ad, ok := f.ads.ads[p.AdSenderID]; ok {
		p.SenderTitle = ad.Title
	}
	if ad, ok := f.ads.ads[p.AdReceiverID]; ok {
		p.ReceiverTitle = ad.Title
	}
	return p, nil
}

// UpdateStatusFrom mirrors the guarded UPDATE of the SQL repository: the
// status changes only if the row is still in fromStatus.
func (f *fakeExchangeRepo) UpdateStatusFrom(ctx context.Context, id int, fromStatus, toStatus string) error {
	p, ok := f.proposals[id]
	if !ok {
		return models.ErrProposalNotFound
	}
	if p.Status != fromStatus {
		return models.ErrInvalidStatus
	}
	p.Status = toStatus
	f.proposals[id] = p
	return nil
}

func (f *fakeExchangeRepo) DeleteProposal(ctx context.Context, id int) error {
	if _, ok := f.proposals[id]; !ok {
		return models.ErrProposalNotFound
	}
	delete(f.proposals, id)
	return nil
}

func (f *fakeExchangeRepo) listByStatus(userID int, status string, ownSide bool) []models.ExchangeProposal {
	var out []models.ExchangeProposal
	for id := 1; id < f.nextID; id++ {
		p, ok := f.proposals[id]
		if !ok || p.Status != status {
			continue
		}
		senderAd := f.ads.ads[p.AdSenderID]
		receiverAd := f.ads.ads[p.AdReceiverID]
		if senderAd.UserID == userID || receiverAd.UserID == userID {
			if ownSide && senderAd.UserID != userID {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}

func (f *fakeExchangeRepo) GetResolvedByUserID(ctx context.Context, userID int) ([]models.ExchangeProposal, error) {
	return f.listByStatus(userID, exchangefsm.StatusConfirmed, false), nil
}

func (f *fakeExchangeRepo) GetRejectedByUserID(ctx context.Context, userID int) ([]models.ExchangeProposal, error) {
	return f.listByStatus(userID, exchangefsm.StatusDeclined, false), nil
}

func (f *fakeExchangeRepo) GetOutgoingByUserID(ctx context.Context, userID int) ([]models.ExchangeProposal, error) {
	var out []models.ExchangeProposal
	for id := 1; id < f.nextID; id++ {
		p, ok := f.proposals[id]
		if ok && p.OwnerID == userID && p.Status == exchangefsm.StatusPending {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeExchangeRepo) GetIncomingByUserID(ctx context.Context, userID int) ([]models.ExchangeProposal, error) {
	return f.listByStatus(userID, exchangefsm.StatusPending, true), nil
}

type recordedPush struct {
	userID int
	title  string
}

type fakeNotifier struct {
	pushes []recordedPush
}

func (f *fakeNotifier) NotifyUser(ctx context.Context, userID int, title, body string) {
	f.pushes = append(f.pushes, recordedPush{userID: userID, title: title})
}

// exchangeFixture: user 1 owns ad "книга", user 2 owns ad "пластинка".
func exchangeFixture(t *testing.T) (*ExchangeService, *fakeExchangeRepo, *fakeNotifier, models.Ad, models.Ad) {
	t.Helper()
	ads := newFakeAdRepo()
	book, err := ads.CreateAd(context.Background(), testAd(1, "книга"))
	if err != nil {
		t.Fatalf("fixture: %v", err)
	}
	vinyl, err := ads.CreateAd(context.Background(), testAd(2, "пластинка"))
	if err != nil {
		t.Fatalf("fixture: %v", err)
	}
	repo := newFakeExchangeRepo(ads)
	ads.exchanges = repo
	notifier := &fakeNotifier{}
	svc := &ExchangeService{ExchangeRepo: repo, AdRepo: ads, Notifier: notifier}
	return svc, repo, notifier, book, vinyl
}

func TestPropose(t *testing.T) {
	svc, _, notifier, book, vinyl := exchangeFixture(t)
	ctx := context.Background()

	// user 2 предлагает свою пластинку за книгу user 1
	p, err := svc.Propose(ctx, 2, book.ID, vinyl.ID, "меняю на пластинку")
	if err != nil {
		t.Fatalf("propose: %v", err)
	}
	if p.Status != exchangefsm.StatusPending {
		t.Errorf("status: got %q, want %q", p.Status, exchangefsm.StatusPending)
	}
	if p.OwnerID != 2 {
		t.Errorf("owner: got %d, want 2", p.OwnerID)
	}
	if p.SenderTitle != "книга" || p.ReceiverTitle != "пластинка" {
		t.Errorf("titles: %q / %q", p.SenderTitle, p.ReceiverTitle)
	}

	// push уходит владельцу запрошенного объявления
	if len(notifier.pushes) != 1 || notifier.pushes[0].userID != 1 {
		t.Errorf("pushes: %v", notifier.pushes)
	}
}

func TestPropose_Invariants(t *testing.T) {
	svc, _, _, book, vinyl := exchangeFixture(t)
	ctx := context.Background()

	if _, err := svc.Propose(ctx, 0, book.ID, vinyl.ID, ""); !errors.Is(err, models.ErrUnauthenticated) {
		t.Errorf("anonymous: got %v, want ErrUnauthenticated", err)
	}
	if _, err := svc.Propose(ctx, 2, book.ID, book.ID, ""); !errors.Is(err, models.ErrSameAd) {
		t.Errorf("same ad: got %v, want ErrSameAd", err)
	}
	// нельзя целиться в собственное объявление
	if _, err := svc.Propose(ctx, 2, vinyl.ID, book.ID, ""); !errors.Is(err, models.ErrValidation) {
		t.Errorf("own target: got %v, want ErrValidation", err)
	}
	// предлагать можно только своё
	if _, err := svc.Propose(ctx, 3, book.ID, vinyl.ID, ""); !errors.Is(err, models.ErrPermissionDenied) {
		t.Errorf("foreign offer: got %v, want ErrPermissionDenied", err)
	}
	if _, err := svc.Propose(ctx, 2, 777, vinyl.ID, ""); !errors.Is(err, models.ErrAdNotFound) {
		t.Errorf("missing ad: got %v, want ErrAdNotFound", err)
	}
}

func TestAccept(t *testing.T) {
	svc, repo, notifier, book, vinyl := exchangeFixture(t)
	ctx := context.Background()

	p, err := svc.Propose(ctx, 2, book.ID, vinyl.ID, "")
	if err != nil {
		t.Fatalf("propose: %v", err)
	}
	notifier.pushes = nil

	// принять может только владелец запрошенного объявления
	if _, err := svc.Accept(ctx, 2, p.ID); !errors.Is(err, models.ErrPermissionDenied) {
		t.Fatalf("proposer accept: got %v, want ErrPermissionDenied", err)
	}

	accepted, err := svc.Accept(ctx, 1, p.ID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if accepted.Status != exchangefsm.StatusConfirmed {
		t.Errorf("status: got %q, want %q", accepted.Status, exchangefsm.StatusConfirmed)
	}
	if got := repo.proposals[p.ID].Status; got != exchangefsm.StatusConfirmed {
		t.Errorf("stored status: %q", got)
	}

	// push уходит автору предложения
	if len(notifier.pushes) != 1 || notifier.pushes[0].userID != 2 {
		t.Errorf("pushes: %v", notifier.pushes)
	}

	// повторное решение по закрытому предложению
	if _, err := svc.Accept(ctx, 1, p.ID); !errors.Is(err, models.ErrInvalidStatus) {
		t.Errorf("double accept: got %v, want ErrInvalidStatus", err)
	}
	if _, err := svc.Decline(ctx, 1, p.ID); !errors.Is(err, models.ErrInvalidStatus) {
		t.Errorf("decline after accept: got %v, want ErrInvalidStatus", err)
	}
}

func TestDecline(t *testing.T) {
	svc, _, _, book, vinyl := exchangeFixture(t)
	ctx := context.Background()

	p, err := svc.Propose(ctx, 2, book.ID, vinyl.ID, "")
	if err != nil {
		t.Fatalf("propose: %v", err)
	}

	declined, err := svc.Decline(ctx, 1, p.ID)
	if err != nil {
		t.Fatalf("decline: %v", err)
	}
	if declined.Status != exchangefsm.StatusDeclined {
		t.Errorf("status: got %q, want %q", declined.Status, exchangefsm.StatusDeclined)
	}

	rejected, err := svc.GetRejected(ctx, 2)
	if err != nil {
		t.Fatalf("rejected: %v", err)
	}
	if len(rejected) != 1 {
		t.Errorf("rejected: got %d, want 1", len(rejected))
	}
}

func TestWithdraw(t *testing.T) {
	svc, repo, _, book, vinyl := exchangeFixture(t)
	ctx := context.Background()

	p, err := svc.Propose(ctx, 2, book.ID, vinyl.ID, "")
	if err != nil {
		t.Fatalf("propose: %v", err)
	}

	if err := svc.Withdraw(ctx, 1, p.ID); !errors.Is(err, models.ErrPermissionDenied) {
		t.Fatalf("recipient withdraw: got %v, want ErrPermissionDenied", err)
	}
	if err := svc.Withdraw(ctx, 2, p.ID); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if _, ok := repo.proposals[p.ID]; ok {
		t.Errorf("proposal still present after withdraw")
	}
	if err := svc.Withdraw(ctx, 2, p.ID); !errors.Is(err, models.ErrProposalNotFound) {
		t.Errorf("double withdraw: got %v, want ErrProposalNotFound", err)
	}
}

func TestAdDeletionCascadesProposals(t *testing.T) {
	svc, repo, _, book, vinyl := exchangeFixture(t)
	adSvc := AdService{AdRepo: repo.ads}
	ctx := context.Background()

	p, err := svc.Propose(ctx, 2, book.ID, vinyl.ID, "")
	if err != nil {
		t.Fatalf("propose: %v", err)
	}

	// владелец удаляет запрошенное объявление
	if err := adSvc.DeleteAd(ctx, 1, book.ID); err != nil {
		t.Fatalf("delete ad: %v", err)
	}

	if _, err := repo.GetProposalByID(ctx, p.ID); !errors.Is(err, models.ErrProposalNotFound) {
		t.Fatalf("proposal survived ad deletion: %v", err)
	}
	mine, err := svc.GetMine(ctx, 2)
	if err != nil {
		t.Fatalf("mine: %v", err)
	}
	if len(mine) != 0 {
		t.Errorf("mine after ad deletion: %v", mine)
	}
	incoming, err := svc.GetIncoming(ctx, 1)
	if err != nil {
		t.Fatalf("incoming: %v", err)
	}
	if len(incoming) != 0 {
		t.Errorf("incoming after ad deletion: %v", incoming)
	}

	// закрытые предложения уходят и при удалении предложенного объявления
	lamp, err := repo.ads.CreateAd(ctx, testAd(1, "лампа"))
	if err != nil {
		t.Fatalf("create ad: %v", err)
	}
	p2, err := svc.Propose(ctx, 2, lamp.ID, vinyl.ID, "")
	if err != nil {
		t.Fatalf("propose: %v", err)
	}
	if _, err := svc.Accept(ctx, 1, p2.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	if err := adSvc.DeleteAd(ctx, 2, vinyl.ID); err != nil {
		t.Fatalf("delete ad: %v", err)
	}
	for _, userID := range []int{1, 2} {
		resolved, err := svc.GetResolved(ctx, userID)
		if err != nil {
			t.Fatalf("resolved: %v", err)
		}
		if len(resolved) != 0 {
			t.Errorf("resolved for user %d after ad deletion: %v", userID, resolved)
		}
		rejected, err := svc.GetRejected(ctx, userID)
		if err != nil {
			t.Fatalf("rejected: %v", err)
		}
		if len(rejected) != 0 {
			t.Errorf("rejected for user %d after ad deletion: %v", userID, rejected)
		}
	}
}

func TestExchangeViews(t *testing.T) {
	svc, _, _, book, vinyl := exchangeFixture(t)
	ctx := context.Background()

	p1, err := svc.Propose(ctx, 2, book.ID, vinyl.ID, "")
	if err != nil {
		t.Fatalf("propose: %v", err)
	}

	mine, err := svc.GetMine(ctx, 2)
	if err != nil {
		t.Fatalf("mine: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != p1.ID {
		t.Errorf("mine: %v", mine)
	}

	incoming, err := svc.GetIncoming(ctx, 1)
	if err != nil {
		t.Fatalf("incoming: %v", err)
	}
	if len(incoming) != 1 || incoming[0].ID != p1.ID {
		t.Errorf("incoming: %v", incoming)
	}

	// у автора предложения входящих нет
	incoming, err = svc.GetIncoming(ctx, 2)
	if err != nil {
		t.Fatalf("incoming: %v", err)
	}
	if len(incoming) != 0 {
		t.Errorf("incoming for proposer: %v", incoming)
	}

	if _, err := svc.Accept(ctx, 1, p1.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	for _, userID := range []int{1, 2} {
		resolved, err := svc.GetResolved(ctx, userID)
		if err != nil {
			t.Fatalf("resolved: %v", err)
		}
		if len(resolved) != 1 {
			t.Errorf("resolved for user %d: got %d, want 1", userID, len(resolved))
		}
	}

	mine, err = svc.GetMine(ctx, 2)
	if err != nil {
		t.Fatalf("mine: %v", err)
	}
	if len(mine) != 0 {
		t.Errorf("mine after accept: %v", mine)
	}

	if _, err := svc.GetMine(ctx, 0); !errors.Is(err, models.ErrUnauthenticated) {
		t.Errorf("anonymous mine: got %v, want ErrUnauthenticated", err)
	}
}
