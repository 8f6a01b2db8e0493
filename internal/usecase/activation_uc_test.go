package usecase

import (
	"context"
	"testing"
	"time"

	"blackinpay/internal/domain/model"
)

func newActivationFixture(t *testing.T) (*activationUC, *memCodeRepo, *memBotRepo, *memBotCache) {
	t.Helper()
	codes := newMemCodeRepo()
	bots := newMemBotRepo()
	cache := &memBotCache{}
	uc := NewActivationUseCase(codes, bots, cache, memTxManager{})
	return uc, codes, bots, cache
}

func seedBot(t *testing.T, bots *memBotRepo, id string) *model.Bot {
	t.Helper()
	bot, err := model.NewBot(id, "owner-1", "123:token", "VIP Bot", "vip_bot")
	if err != nil {
		t.Fatalf("NewBot returned error: %v", err)
	}
	if err := bots.Save(context.Background(), bot); err != nil {
		t.Fatalf("Save bot returned error: %v", err)
	}
	return bot
}

func TestGenerateActivationCodeShape(t *testing.T) {
	t.Parallel()

	for i := 0; i < 50; i++ {
		code, err := generateActivationCode()
		if err != nil {
			t.Fatalf("generateActivationCode returned error: %v", err)
		}
		if !activationCodePattern.MatchString(code) {
			t.Fatalf("code %q does not match XXXX-XXXX shape", code)
		}
		for _, r := range code {
			switch r {
			case '0', '1', 'I', 'O':
				t.Fatalf("code %q contains ambiguous character %q", code, r)
			}
		}
	}
}

func TestGenerateExpiresPreviousCodes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc, codes, bots, _ := newActivationFixture(t)
	seedBot(t, bots, "bot-1")

	first, err := uc.Generate(ctx, "bot-1")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	second, err := uc.Generate(ctx, "bot-1")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	stored := codes.store[first.ID]
	if !stored.IsExpired(time.Now()) {
		t.Fatal("first code should be expired after a second one is generated")
	}
	if codes.store[second.ID].IsExpired(time.Now()) {
		t.Fatal("freshly generated code must not be expired")
	}
	if second.ExpiresAt.Sub(second.CreatedAt) != activationCodeTTL {
		t.Fatalf("TTL = %v, want %v", second.ExpiresAt.Sub(second.CreatedAt), activationCodeTTL)
	}
}

func TestRedeemActivatesBotOnce(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc, _, bots, cache := newActivationFixture(t)
	seedBot(t, bots, "bot-1")

	code, err := uc.Generate(ctx, "bot-1")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	outcome, err := uc.Redeem(ctx, "bot-1", code.Code, 777, -100123)
	if err != nil {
		t.Fatalf("Redeem returned error: %v", err)
	}
	if outcome != RedeemActivated {
		t.Fatalf("outcome = %v, want RedeemActivated", outcome)
	}

	bot, _ := bots.FindByID(ctx, "bot-1")
	if !bot.IsActivated {
		t.Fatal("bot should be activated")
	}
	if bot.ActivatedByTelegramID == nil || *bot.ActivatedByTelegramID != 777 {
		t.Fatalf("ActivatedByTelegramID = %v, want 777", bot.ActivatedByTelegramID)
	}
	if bot.ActivatedChatID == nil || *bot.ActivatedChatID != -100123 {
		t.Fatalf("ActivatedChatID = %v, want -100123", bot.ActivatedChatID)
	}
	if len(cache.invalidated) == 0 {
		t.Fatal("bot cache should be invalidated after activation")
	}

	// Second redemption of the same code is a silent no-op.
	outcome, err = uc.Redeem(ctx, "bot-1", code.Code, 888, -100456)
	if err != nil {
		t.Fatalf("second Redeem returned error: %v", err)
	}
	if outcome != RedeemUnknown {
		t.Fatalf("second redemption outcome = %v, want RedeemUnknown", outcome)
	}
}

func TestRedeemExpiredCode(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc, codes, bots, _ := newActivationFixture(t)
	seedBot(t, bots, "bot-1")

	code, err := uc.Generate(ctx, "bot-1")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	codes.store[code.ID].ExpiresAt = time.Now().Add(-time.Minute)

	outcome, err := uc.Redeem(ctx, "bot-1", code.Code, 777, -100123)
	if err != nil {
		t.Fatalf("Redeem returned error: %v", err)
	}
	if outcome != RedeemExpired {
		t.Fatalf("outcome = %v, want RedeemExpired", outcome)
	}

	bot, _ := bots.FindByID(ctx, "bot-1")
	if bot.IsActivated {
		t.Fatal("bot must not be activated by an expired code")
	}
}

func TestRedeemIgnoresMalformedAndUnknownCodes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc, _, bots, _ := newActivationFixture(t)
	seedBot(t, bots, "bot-1")

	for _, code := range []string{"hello", "ABCD-123", "abcd-efgh", "AAAA-BBBB"} {
		outcome, err := uc.Redeem(ctx, "bot-1", code, 777, -100123)
		if err != nil {
			t.Fatalf("Redeem(%q) returned error: %v", code, err)
		}
		if outcome != RedeemUnknown {
			t.Fatalf("Redeem(%q) outcome = %v, want RedeemUnknown", code, outcome)
		}
	}
}

func TestRedeemCodeOfAnotherBot(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc, _, bots, _ := newActivationFixture(t)
	seedBot(t, bots, "bot-1")
	seedBot(t, bots, "bot-2")

	code, err := uc.Generate(ctx, "bot-1")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	outcome, err := uc.Redeem(ctx, "bot-2", code.Code, 777, -100123)
	if err != nil {
		t.Fatalf("Redeem returned error: %v", err)
	}
	if outcome != RedeemUnknown {
		t.Fatalf("outcome = %v, want RedeemUnknown for a code bound to another bot", outcome)
	}
}
