package services

import (
	"log"

	"dealdesk/internal/models"
)

type AgentGetter interface {
	GetByID(id int64) (*models.Agent, error)
}

// DealNotifier fans a terminal stage change out to the assigned agent over
// email and telegram. Delivery is best-effort: failures are logged, never
// returned into the stage-change path.
type DealNotifier struct {
	agents   AgentGetter
	email    EmailService     // may be nil
	telegram *TelegramService // may be nil
}

func NewDealNotifier(agents AgentGetter, email EmailService, telegram *TelegramService) *DealNotifier {
	return &DealNotifier{agents: agents, email: email, telegram: telegram}
}

func (n *DealNotifier) DealClosed(deal *models.Deal, won bool) {
	agent, err := n.agents.GetByID(deal.AssignedTo)
	if err != nil || agent == nil {
		log.Printf("[notify][closed] agent %d not found for deal=%d: %v", deal.AssignedTo, deal.ID, err)
		return
	}

	if n.email != nil && agent.Email != "" {
		var err error
		if won {
			err = n.email.SendDealWonEmail(agent.Email, deal)
		} else {
			err = n.email.SendDealLostEmail(agent.Email, deal)
		}
		if err != nil {
			log.Printf("[notify][closed] email to %s failed for deal=%d: %v", agent.Email, deal.ID, err)
		}
	}

	if err := n.telegram.SendDealClosed(agent.TelegramChatID, deal, won); err != nil {
		log.Printf("[notify][closed] telegram to chat=%d failed for deal=%d: %v", agent.TelegramChatID, deal.ID, err)
	}
}
