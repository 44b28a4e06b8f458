package models

import (
	"time"
)

// ExchangeProposal is an offer to trade the proposer's ad (AdReceiver) for
// another user's ad (AdSender). AdSender names the ad the proposal targets
// and is owned by the user receiving the offer; AdReceiver is the ad offered
// in return and is owned by the proposer. Owner is always the proposer.
type ExchangeProposal struct {
	ID            int        `json:"id"`
	AdSenderID    int        `json:"ad_sender_id"`
	AdReceiverID  int        `json:"ad_receiver_id"`
	OwnerID       int        `json:"owner_id"`
	Comment       string     `json:"comment"`
	Status        string     `json:"status"`
	SenderTitle   string     `json:"ad_sender_title,omitempty"`
	ReceiverTitle string     `json:"ad_receiver_title,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

type ExchangeProposalRequest struct {
	AdSenderID   int    `json:"ad_sender_id"`
	AdReceiverID int    `json:"ad_receiver_id"`
	Comment      string `json:"comment"`
}
