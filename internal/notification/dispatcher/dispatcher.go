package dispatcher

import (
	"context"
	"fmt"
	"time"

	"roadassist/internal/notification/domain"
	"roadassist/internal/shared/mq"
	"roadassist/internal/shared/util"
)

// Publisher is the broker-facing surface the dispatcher needs; mq.Publisher
// satisfies it.
type Publisher interface {
	PublishJSON(ctx context.Context, exchange, routingKey string, payload interface{}) error
}

// Pusher delivers a message to a connected user, dropping it silently when
// the user has no open connection.
type Pusher interface {
	Send(userID string, message interface{}) error
}

type copyText struct {
	title   string
	message string
}

// eventCopy is the user-facing wording per event type. Unknown types fall
// back to a generic system line.
var eventCopy = map[string]copyText{
	domain.EventBreakdownCreated:   {"Nouvelle demande", "Une nouvelle demande de depannage a ete creee"},
	domain.EventBreakdownAccepted:  {"Demande acceptee", "Un garage a accepte votre demande de depannage"},
	domain.EventBreakdownCancelled: {"Demande annulee", "La demande de depannage a ete annulee"},
	domain.EventMechanicAssigned:   {"Mecanicien assigne", "Un mecanicien a ete assigne a votre depannage"},
	domain.EventMechanicOnWay:      {"Mecanicien en route", "Le mecanicien est en route vers votre position"},
	domain.EventMechanicArrived:    {"Mecanicien arrive", "Le mecanicien est arrive sur place"},
	domain.EventDiagnosisComplete:  {"Diagnostic termine", "Le diagnostic de votre vehicule est termine"},
	domain.EventQuoteReceived:      {"Devis recu", "Vous avez recu un devis pour la reparation"},
	domain.EventQuoteAccepted:      {"Devis accepte", "Le client a accepte le devis"},
	domain.EventRepairStarted:      {"Reparation en cours", "La reparation de votre vehicule a commence"},
	domain.EventRepairCompleted:    {"Reparation terminee", "La reparation de votre vehicule est terminee"},
}

const publishTimeout = 5 * time.Second

// Dispatcher publishes notification envelopes on the broker and pushes them
// to connected websocket clients. It implements the lifecycle's Notifier.
type Dispatcher struct {
	publisher Publisher
	pusher    Pusher
	logger    *util.Logger
}

func NewDispatcher(publisher Publisher, pusher Pusher, logger *util.Logger) *Dispatcher {
	return &Dispatcher{publisher: publisher, pusher: pusher, logger: logger}
}

// Notify is fire-and-forget: delivery runs on its own goroutine and a failed
// publish never surfaces to the caller. The lifecycle transition already
// committed by the time we get here.
func (d *Dispatcher) Notify(userID, eventType string, payload map[string]interface{}) {
	text, ok := eventCopy[eventType]
	if !ok {
		text = copyText{"Notification", "Mise a jour de votre depannage"}
		eventType = domain.EventSystem
	}

	env := domain.Envelope{
		UserID:  userID,
		Type:    eventType,
		Title:   text.title,
		Message: text.message,
		Payload: payload,
	}

	go d.deliver(env)
}

func (d *Dispatcher) deliver(env domain.Envelope) {
	instance := "Dispatcher.deliver"

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	routingKey := "notification." + env.Type
	if err := d.publisher.PublishJSON(ctx, mq.NotificationExchange, routingKey, env); err != nil {
		d.logger.Error(instance, fmt.Errorf("publish %s for user %s failed: %w", env.Type, env.UserID, err))
	}

	if d.pusher != nil {
		if err := d.pusher.Send(env.UserID, env); err != nil {
			d.logger.Warn(instance, fmt.Sprintf("ws push %s for user %s failed: %v", env.Type, env.UserID, err))
		}
	}
}
