package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"blackinpay/internal/domain"
	"blackinpay/internal/domain/model"
	"blackinpay/internal/domain/ports/repository"
	"blackinpay/internal/infra/metrics"
)

// Compile-time check
var _ ActivationUseCase = (*activationUC)(nil)

// RedeemOutcome tells the dispatcher how to answer in the group chat.
type RedeemOutcome int

const (
	// RedeemUnknown means no live code matched; the dispatcher stays silent.
	RedeemUnknown RedeemOutcome = iota
	// RedeemExpired means the code existed but its window elapsed.
	RedeemExpired
	// RedeemActivated means the bot was activated by this redemption.
	RedeemActivated
)

// activationCodeTTL is how long a generated code stays redeemable.
const activationCodeTTL = 10 * time.Minute

type ActivationUseCase interface {
	// Generate issues a fresh code for the bot, expiring any previous unused ones.
	Generate(ctx context.Context, botID string) (*model.ActivationCode, error)
	// Redeem attempts to activate botID with the given code that arrived in
	// chatID from byTelegramID. The bot-activated and code-used writes happen
	// in one transaction.
	Redeem(ctx context.Context, botID, code string, byTelegramID, chatID int64) (RedeemOutcome, error)
}

type activationUC struct {
	codes repository.ActivationCodeRepository
	bots  repository.BotRepository
	cache repository.BotConfigCache
	txm   repository.TransactionManager
}

func NewActivationUseCase(codes repository.ActivationCodeRepository, bots repository.BotRepository, cache repository.BotConfigCache, txm repository.TransactionManager) *activationUC {
	return &activationUC{codes: codes, bots: bots, cache: cache, txm: txm}
}

func (u *activationUC) Generate(ctx context.Context, botID string) (*model.ActivationCode, error) {
	if botID == "" {
		return nil, domain.ErrInvalidArgument
	}
	raw, err := generateActivationCode()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	code := &model.ActivationCode{
		ID:        uuid.NewString(),
		BotID:     botID,
		Code:      raw,
		CreatedAt: now,
		ExpiresAt: now.Add(activationCodeTTL),
	}

	// At most one live code per bot: retire the previous ones in the same
	// transaction that inserts the new one.
	err = u.txm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		if err := u.codes.ExpireUnused(ctx, tx, botID, now); err != nil {
			return err
		}
		return u.codes.Save(ctx, tx, code)
	})
	if err != nil {
		return nil, err
	}
	return code, nil
}

func (u *activationUC) Redeem(ctx context.Context, botID, code string, byTelegramID, chatID int64) (RedeemOutcome, error) {
	if !activationCodePattern.MatchString(code) {
		return RedeemUnknown, nil
	}

	outcome := RedeemUnknown
	err := u.txm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		ac, err := u.codes.FindUnused(ctx, tx, code, botID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil // unknown codes are ignored silently
			}
			return err
		}

		now := time.Now()
		if ac.IsExpired(now) {
			outcome = RedeemExpired
			return nil
		}

		if err := u.bots.MarkActivated(ctx, tx, botID, now, byTelegramID, chatID); err != nil {
			return err
		}
		if err := u.codes.MarkUsed(ctx, tx, ac.ID, now, byTelegramID); err != nil {
			return err
		}
		outcome = RedeemActivated
		return nil
	})
	if err != nil {
		metrics.IncActivationRedemption("error")
		return RedeemUnknown, err
	}

	switch outcome {
	case RedeemActivated:
		metrics.IncActivationRedemption("activated")
		// The cached copy still says not-activated; drop it.
		_ = u.cache.Invalidate(ctx, botID)
	case RedeemExpired:
		metrics.IncActivationRedemption("expired")
	default:
		metrics.IncActivationRedemption("unknown")
	}
	return outcome, nil
}
