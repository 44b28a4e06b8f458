package services

import (
	"context"
	"fmt"

	"obmenBack/internal/exchangefsm"
	"obmenBack/internal/models"
)

// ExchangeRepo is the persistence surface of the negotiation engine;
// satisfied by repositories.ExchangeRepository.
type ExchangeRepo interface {
	CreateProposal(ctx context.Context, p models.ExchangeProposal) (models.ExchangeProposal, error)
	GetProposalByID(ctx context.Context, id int) (models.ExchangeProposal, error)
	UpdateStatusFrom(ctx context.Context, id int, fromStatus, toStatus string) error
	DeleteProposal(ctx context.Context, id int) error
	GetResolvedByUserID(ctx context.Context, userID int) ([]models.ExchangeProposal, error)
	GetRejectedByUserID(ctx context.Context, userID int) ([]models.ExchangeProposal, error)
	GetOutgoingByUserID(ctx context.Context, userID int) ([]models.ExchangeProposal, error)
	GetIncomingByUserID(ctx context.Context, userID int) ([]models.ExchangeProposal, error)
}

// AdFinder is the slice of the catalog the engine needs for ownership
// checks.
type AdFinder interface {
	GetAdByID(ctx context.Context, id int) (models.Ad, error)
}

// ProposalNotifier delivers best-effort pushes about proposal events.
type ProposalNotifier interface {
	NotifyUser(ctx context.Context, userID int, title, body string)
}

type ExchangeService struct {
	ExchangeRepo ExchangeRepo
	AdRepo       AdFinder
	Notifier     ProposalNotifier
}

// Propose creates a pending proposal: the actor offers their own ad
// (receiverAdID) in exchange for another user's ad (senderAdID).
func (s *ExchangeService) Propose(ctx context.Context, actorID, senderAdID, receiverAdID int, comment string) (models.ExchangeProposal, error) {
	if actorID == 0 {
		return models.ExchangeProposal{}, models.ErrUnauthenticated
	}
	if senderAdID == receiverAdID {
		return models.ExchangeProposal{}, models.ErrSameAd
	}

	senderAd, err := s.loadAd(ctx, senderAdID)
	if err != nil {
		return models.ExchangeProposal{}, err
	}
	if senderAd.UserID == actorID {
		return models.ExchangeProposal{}, fmt.Errorf("%w: cannot propose an exchange on your own ad", models.ErrValidation)
	}

	receiverAd, err := s.loadAd(ctx, receiverAdID)
	if err != nil {
		return models.ExchangeProposal{}, err
	}
	if receiverAd.UserID != actorID {
		return models.ExchangeProposal{}, models.ErrPermissionDenied
	}

	proposal, err := s.ExchangeRepo.CreateProposal(ctx, models.ExchangeProposal{
		AdSenderID:   senderAdID,
		AdReceiverID: receiverAdID,
		OwnerID:      actorID,
		Comment:      comment,
	})
	if err != nil {
		return models.ExchangeProposal{}, err
	}
	proposal.SenderTitle = senderAd.Title
	proposal.ReceiverTitle = receiverAd.Title

	s.notify(ctx, senderAd.UserID, "Новое предложение обмена",
		fmt.Sprintf("Вам предлагают обменять «%s» на «%s»", senderAd.Title, receiverAd.Title))

	return proposal, nil
}

// Accept confirms a pending proposal. Only the recipient, the owner of the
// targeted ad, may accept.
func (s *ExchangeService) Accept(ctx context.Context, actorID, proposalID int) (models.ExchangeProposal, error) {
	return s.resolve(ctx, actorID, proposalID, exchangefsm.StatusConfirmed)
}

// Decline rejects a pending proposal, same precondition as Accept.
func (s *ExchangeService) Decline(ctx context.Context, actorID, proposalID int) (models.ExchangeProposal, error) {
	return s.resolve(ctx, actorID, proposalID, exchangefsm.StatusDeclined)
}

func (s *ExchangeService) resolve(ctx context.Context, actorID, proposalID int, toStatus string) (models.ExchangeProposal, error) {
	if actorID == 0 {
		return models.ExchangeProposal{}, models.ErrUnauthenticated
	}
	proposal, err := s.ExchangeRepo.GetProposalByID(ctx, proposalID)
	if err != nil {
		return models.ExchangeProposal{}, err
	}

	senderAd, err := s.loadAd(ctx, proposal.AdSenderID)
	if err != nil {
		return models.ExchangeProposal{}, err
	}
	if senderAd.UserID != actorID {
		return models.ExchangeProposal{}, models.ErrPermissionDenied
	}

	if err := s.ExchangeRepo.UpdateStatusFrom(ctx, proposalID, exchangefsm.StatusPending, toStatus); err != nil {
		return models.ExchangeProposal{}, err
	}
	proposal.Status = toStatus

	title := "Предложение обмена принято"
	if toStatus == exchangefsm.StatusDeclined {
		title = "Предложение обмена отклонено"
	}
	s.notify(ctx, proposal.OwnerID, title,
		fmt.Sprintf("«%s» ↔ «%s»", proposal.SenderTitle, proposal.ReceiverTitle))

	return proposal, nil
}

// Withdraw deletes the proposal regardless of its status. Only the
// proposer may withdraw.
func (s *ExchangeService) Withdraw(ctx context.Context, actorID, proposalID int) error {
	if actorID == 0 {
		return models.ErrUnauthenticated
	}
	proposal, err := s.ExchangeRepo.GetProposalByID(ctx, proposalID)
	if err != nil {
		return err
	}
	if proposal.OwnerID != actorID {
		return models.ErrPermissionDenied
	}
	return s.ExchangeRepo.DeleteProposal(ctx, proposalID)
}

// GetResolved lists confirmed exchanges the actor's ads took part in.
func (s *ExchangeService) GetResolved(ctx context.Context, actorID int) ([]models.ExchangeProposal, error) {
	if actorID == 0 {
		return nil, models.ErrUnauthenticated
	}
	return emptyIfNil(s.ExchangeRepo.GetResolvedByUserID(ctx, actorID))
}

// GetRejected lists declined exchanges the actor's ads took part in.
func (s *ExchangeService) GetRejected(ctx context.Context, actorID int) ([]models.ExchangeProposal, error) {
	if actorID == 0 {
		return nil, models.ErrUnauthenticated
	}
	return emptyIfNil(s.ExchangeRepo.GetRejectedByUserID(ctx, actorID))
}

// GetMine lists the actor's own pending proposals.
func (s *ExchangeService) GetMine(ctx context.Context, actorID int) ([]models.ExchangeProposal, error) {
	if actorID == 0 {
		return nil, models.ErrUnauthenticated
	}
	return emptyIfNil(s.ExchangeRepo.GetOutgoingByUserID(ctx, actorID))
}

// GetIncoming lists pending proposals targeting the actor's ads.
func (s *ExchangeService) GetIncoming(ctx context.Context, actorID int) ([]models.ExchangeProposal, error) {
	if actorID == 0 {
		return nil, models.ErrUnauthenticated
	}
	return emptyIfNil(s.ExchangeRepo.GetIncomingByUserID(ctx, actorID))
}

func (s *ExchangeService) loadAd(ctx context.Context, adID int) (models.Ad, error) {
	return s.AdRepo.GetAdByID(ctx, adID)
}

func (s *ExchangeService) notify(ctx context.Context, userID int, title, body string) {
	if s.Notifier == nil {
		return
	}
	s.Notifier.NotifyUser(ctx, userID, title, body)
}

func emptyIfNil(proposals []models.ExchangeProposal, err error) ([]models.ExchangeProposal, error) {
	if err != nil {
		return nil, err
	}
	if proposals == nil {
		proposals = []models.ExchangeProposal{}
	}
	return proposals, nil
}
