package mq

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/shandysiswandi/medibook/internal/identity/usecase"
	"github.com/shandysiswandi/medibook/internal/pkg/instrument"
	"github.com/shandysiswandi/medibook/internal/pkg/messaging"
	"github.com/shandysiswandi/medibook/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

type Messaging struct {
	client messaging.Publisher
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Publisher, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) PublishUserRegistered(ctx context.Context, msg usecase.UserRegisteredEvent) error {
	return m.publish(ctx, "PublishUserRegistered", event.UserRegisteredDestination, msg.UserID, event.UserRegisteredMessage{
		UserID:   msg.UserID,
		Email:    msg.Email,
		FullName: msg.FullName,
		Role:     msg.Role.String(),
	})
}

func (m *Messaging) PublishUserPasswordChanged(ctx context.Context, msg usecase.UserPasswordChangedEvent) error {
	return m.publish(ctx, "PublishUserPasswordChanged", event.UserPasswordChangedDestination, msg.UserID, event.UserPasswordChangedMessage{
		UserID:    msg.UserID,
		ChangedAt: msg.ChangedAt,
		Source:    "password_change",
	})
}

// publish keys every event by user ID so one user's events stay ordered.
func (m *Messaging) publish(ctx context.Context, op, destination string, userID int64, payload any) error {
	ctx, span := m.ins.Tracer("identity.outbound.mq").Start(ctx, op)
	defer span.End()

	body, err := json.Marshal(payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if _, err := m.client.Publish(ctx, destination, messaging.OutgoingMessage{
		Body:    body,
		Key:     []byte(strconv.FormatInt(userID, 10)),
		Headers: []messaging.Header{{Key: event.HeaderCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
