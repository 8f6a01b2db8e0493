package adapter

import "context"

type InlineButton struct {
	Text string
	Data string
	URL  string
}

// BotIdentity is what getMe reports about a token.
type BotIdentity struct {
	ID       int64
	Username string
	Name     string
}

type ChatInfo struct {
	ID    int64
	Type  string
	Title string
}

type ChatMemberInfo struct {
	TelegramID int64
	Name       string
	Username   string
	Status     string // creator | administrator | member | left | kicked
}

type WebhookInfo struct {
	URL                  string
	PendingUpdateCount   int
	LastErrorMessage     string
	HasCustomCertificate bool
}

// TelegramAPI is the outbound port to api.telegram.org. Every method takes the
// tenant bot token because this platform speaks for many bots, not one.
type TelegramAPI interface {
	GetMe(ctx context.Context, token string) (BotIdentity, error)
	GetChat(ctx context.Context, token string, chatID int64) (ChatInfo, error)
	GetChatMember(ctx context.Context, token string, chatID, userID int64) (ChatMemberInfo, error)
	GetChatAdministrators(ctx context.Context, token string, chatID int64) ([]ChatMemberInfo, error)
	// GetUserProfilePhotoURL resolves a user's newest profile photo to a
	// downloadable file URL; empty when the user has none.
	GetUserProfilePhotoURL(ctx context.Context, token string, userID int64) (string, error)

	SendMessage(ctx context.Context, token string, chatID int64, text string, rows [][]InlineButton) error
	// ReplyMessage sends text as a reply to an existing message in the chat.
	ReplyMessage(ctx context.Context, token string, chatID int64, replyTo int, text string) error
	SendPhoto(ctx context.Context, token string, chatID int64, photoURL, caption string, rows [][]InlineButton) error
	SendVideo(ctx context.Context, token string, chatID int64, videoURL, caption string, rows [][]InlineButton) error
	SendAnimation(ctx context.Context, token string, chatID int64, animationURL, caption string, rows [][]InlineButton) error

	AnswerCallbackQuery(ctx context.Context, token, callbackID string) error
	// EditMessageText rewrites a plain-text message the bot sent earlier.
	EditMessageText(ctx context.Context, token string, chatID int64, messageID int, text string) error
	// EditMessageCaption rewrites the caption of a media message the bot sent earlier.
	EditMessageCaption(ctx context.Context, token string, chatID int64, messageID int, caption string) error

	SetWebhook(ctx context.Context, token, url string) error
	DeleteWebhook(ctx context.Context, token string) error
	GetWebhookInfo(ctx context.Context, token string) (WebhookInfo, error)
}
