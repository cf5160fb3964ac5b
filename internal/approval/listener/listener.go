package listener

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-approval-service/internal/apperror"
	"github.com/fekuna/omnipos-approval-service/internal/auth"
	eventdto "github.com/fekuna/omnipos-approval-service/internal/event/dto"
	"github.com/fekuna/omnipos-approval-service/internal/logger"
	"github.com/fekuna/omnipos-approval-service/internal/product"
	productdto "github.com/fekuna/omnipos-approval-service/internal/product/dto"
	"github.com/fekuna/omnipos-approval-service/internal/variant"
	variantdto "github.com/fekuna/omnipos-approval-service/internal/variant/dto"
	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var ErrUnknownCommand = errors.New("unknown command type")

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type ActorParser interface {
	ParseActor(token string) (auth.Actor, error)
}

type ApprovalListener struct {
	reader   MessageReader
	actors   ActorParser
	products product.UseCase
	variants variant.UseCase
	logger   logger.ZapLogger
	backoff  time.Duration
}

func NewApprovalListener(
	reader MessageReader,
	actors ActorParser,
	products product.UseCase,
	variants variant.UseCase,
	log logger.ZapLogger,
) *ApprovalListener {
	return &ApprovalListener{
		reader:   reader,
		actors:   actors,
		products: products,
		variants: variants,
		logger:   log,
		backoff:  time.Second,
	}
}

// NewKafkaReader builds the consumer-group reader for the command topic.
func NewKafkaReader(brokers []string, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
}

func (l *ApprovalListener) Start(ctx context.Context) {
	l.logger.Info("Starting approval command listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping approval command listener")
			return
		default:
			msg, err := l.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(l.backoff)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

func (l *ApprovalListener) processMessage(ctx context.Context, value []byte) {
	cmd, err := l.Handle(ctx, value)
	if err == nil {
		l.logger.Info("Approval command applied",
			zap.String("command_id", cmd.ID),
			zap.String("type", cmd.Type),
		)
		return
	}

	fields := []zap.Field{
		zap.String("command_id", cmd.ID),
		zap.String("type", cmd.Type),
		zap.Error(err),
	}
	if kind := apperror.KindOf(err); kind != "" && kind != apperror.KindStorage {
		// Refused by the business rules; nothing to retry.
		l.logger.Warn("Approval command refused",
			append(fields, zap.String("kind", string(kind)), zap.String("reason", apperror.ReasonOf(err)))...)
		return
	}
	l.logger.Error("Approval command failed", fields...)
}

// Handle decodes and applies one command. The decoded command is returned
// even on failure so callers can log its identity.
func (l *ApprovalListener) Handle(ctx context.Context, value []byte) (Command, error) {
	var cmd Command
	if err := json.Unmarshal(value, &cmd); err != nil {
		return cmd, errors.Wrap(err, "decode approval command")
	}

	actor, err := l.actors.ParseActor(cmd.ActorToken)
	if err != nil {
		return cmd, err
	}

	return cmd, l.dispatch(ctx, &cmd, actor)
}

func (l *ApprovalListener) dispatch(ctx context.Context, cmd *Command, actor auth.Actor) error {
	switch cmd.Type {
	case CommandVariantApprove:
		override, err := cmd.Pricing.Override()
		if err != nil {
			return err
		}
		_, err = l.variants.ApproveVariant(ctx, &variantdto.ApproveVariantInput{
			VariantID: cmd.VariantID,
			Actor:     actor,
			Override:  override,
		})
		return err

	case CommandVariantReject:
		_, err := l.variants.RejectVariant(ctx, &variantdto.TransitionInput{VariantID: cmd.VariantID, Actor: actor})
		return err

	case CommandVariantReset:
		_, err := l.variants.ResetVariant(ctx, &variantdto.TransitionInput{VariantID: cmd.VariantID, Actor: actor})
		return err

	case CommandVariantBulkApprove:
		overrides := make(map[string]variantdto.PricingOverride, len(cmd.Overrides))
		for id, payload := range cmd.Overrides {
			o, err := payload.Override()
			if err != nil {
				return err
			}
			overrides[id] = *o
		}
		res, err := l.variants.BulkApproveVariants(ctx, &variantdto.BulkApproveInput{
			VariantIDs: cmd.VariantIDs,
			Overrides:  overrides,
			Actor:      actor,
		})
		if err != nil {
			return err
		}
		if len(res.Failed) > 0 {
			return fmt.Errorf("%d of %d variants failed: %v",
				len(res.Failed), len(res.Failed)+len(res.Succeeded), res.FailedIDs())
		}
		return nil

	case CommandProductApprove:
		_, err := l.products.ApproveProduct(ctx, &productdto.ApprovalSelection{
			ProductID:   cmd.ProductID,
			Actor:       actor,
			CategoryID:  cmd.CategoryID,
			PlacementID: cmd.PlacementID,
			EventID:     cmd.EventID,
			EventContext: eventdto.EventContext{
				DesignerID: cmd.DesignerID,
				BoutiqueID: cmd.BoutiqueID,
				MallID:     cmd.MallID,
			},
		})
		return err

	case CommandProductReject:
		_, err := l.products.RejectProduct(ctx, &productdto.RejectProductInput{ProductID: cmd.ProductID, Actor: actor})
		return err
	}

	return errors.Wrap(ErrUnknownCommand, cmd.Type)
}
