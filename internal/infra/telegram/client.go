package telegram

import (
	"context"
	"net/http"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"blackinpay/internal/domain/ports/adapter"
	"blackinpay/internal/infra/metrics"
)

// Ensure implementation satisfies the port.
var _ adapter.TelegramAPI = (*Client)(nil)

// Client speaks to api.telegram.org on behalf of many tenant bots. tgbotapi
// calls getMe when a BotAPI is constructed, so instances are pooled per token
// with a TTL instead of being rebuilt on every webhook delivery.
type Client struct {
	httpc *http.Client
	ttl   time.Duration

	mu   sync.Mutex
	bots map[string]pooledBot
}

type pooledBot struct {
	api     *tgbotapi.BotAPI
	expires time.Time
}

func NewClient(ttl time.Duration) *Client {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Client{
		httpc: &http.Client{Timeout: 30 * time.Second},
		ttl:   ttl,
		bots:  make(map[string]pooledBot),
	}
}

func (c *Client) api(token string) (*tgbotapi.BotAPI, error) {
	c.mu.Lock()
	if pb, ok := c.bots[token]; ok && time.Now().Before(pb.expires) {
		c.mu.Unlock()
		return pb.api, nil
	}
	c.mu.Unlock()

	// Construct outside the lock: this performs a getMe round-trip.
	api, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, c.httpc)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.bots[token] = pooledBot{api: api, expires: time.Now().Add(c.ttl)}
	c.mu.Unlock()
	return api, nil
}

func observe(method string, start time.Time, err error) {
	metrics.ObserveTelegramCall(method, err == nil, float64(time.Since(start).Milliseconds()))
}

func (c *Client) GetMe(ctx context.Context, token string) (adapter.BotIdentity, error) {
	start := time.Now()
	api, err := c.api(token)
	observe("getMe", start, err)
	if err != nil {
		return adapter.BotIdentity{}, err
	}
	name := api.Self.FirstName
	if api.Self.LastName != "" {
		name += " " + api.Self.LastName
	}
	return adapter.BotIdentity{ID: api.Self.ID, Username: api.Self.UserName, Name: name}, nil
}

func (c *Client) GetChat(ctx context.Context, token string, chatID int64) (adapter.ChatInfo, error) {
	api, err := c.api(token)
	if err != nil {
		return adapter.ChatInfo{}, err
	}
	start := time.Now()
	chat, err := api.GetChat(tgbotapi.ChatInfoConfig{ChatConfig: tgbotapi.ChatConfig{ChatID: chatID}})
	observe("getChat", start, err)
	if err != nil {
		return adapter.ChatInfo{}, err
	}
	return adapter.ChatInfo{ID: chat.ID, Type: chat.Type, Title: chat.Title}, nil
}

func memberInfo(m tgbotapi.ChatMember) adapter.ChatMemberInfo {
	info := adapter.ChatMemberInfo{Status: m.Status}
	if m.User != nil {
		info.TelegramID = m.User.ID
		info.Username = m.User.UserName
		info.Name = m.User.FirstName
		if m.User.LastName != "" {
			info.Name += " " + m.User.LastName
		}
	}
	return info
}

func (c *Client) GetChatMember(ctx context.Context, token string, chatID, userID int64) (adapter.ChatMemberInfo, error) {
	api, err := c.api(token)
	if err != nil {
		return adapter.ChatMemberInfo{}, err
	}
	start := time.Now()
	m, err := api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{ChatID: chatID, UserID: userID},
	})
	observe("getChatMember", start, err)
	if err != nil {
		return adapter.ChatMemberInfo{}, err
	}
	return memberInfo(m), nil
}

func (c *Client) GetChatAdministrators(ctx context.Context, token string, chatID int64) ([]adapter.ChatMemberInfo, error) {
	api, err := c.api(token)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	admins, err := api.GetChatAdministrators(tgbotapi.ChatAdministratorsConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: chatID},
	})
	observe("getChatAdministrators", start, err)
	if err != nil {
		return nil, err
	}
	out := make([]adapter.ChatMemberInfo, 0, len(admins))
	for _, a := range admins {
		out = append(out, memberInfo(a))
	}
	return out, nil
}

func (c *Client) GetUserProfilePhotoURL(ctx context.Context, token string, userID int64) (string, error) {
	api, err := c.api(token)
	if err != nil {
		return "", err
	}
	start := time.Now()
	photos, err := api.GetUserProfilePhotos(tgbotapi.NewUserProfilePhotos(userID))
	observe("getUserProfilePhotos", start, err)
	if err != nil {
		return "", err
	}
	if photos.TotalCount == 0 || len(photos.Photos) == 0 || len(photos.Photos[0]) == 0 {
		return "", nil
	}
	// Largest size of the newest photo is last in the slice.
	sizes := photos.Photos[0]
	fileID := sizes[len(sizes)-1].FileID

	start = time.Now()
	url, err := api.GetFileDirectURL(fileID)
	observe("getFile", start, err)
	if err != nil {
		return "", err
	}
	return url, nil
}

func keyboard(rows [][]adapter.InlineButton) *tgbotapi.InlineKeyboardMarkup {
	if len(rows) == 0 {
		return nil
	}
	kb := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		btns := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			if b.URL != "" {
				btns = append(btns, tgbotapi.NewInlineKeyboardButtonURL(b.Text, b.URL))
			} else {
				btns = append(btns, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
			}
		}
		kb = append(kb, btns)
	}
	mk := tgbotapi.NewInlineKeyboardMarkup(kb...)
	return &mk
}

func (c *Client) SendMessage(ctx context.Context, token string, chatID int64, text string, rows [][]adapter.InlineButton) error {
	api, err := c.api(token)
	if err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	if kb := keyboard(rows); kb != nil {
		msg.ReplyMarkup = kb
	}
	start := time.Now()
	_, err = api.Send(msg)
	observe("sendMessage", start, err)
	return err
}

func (c *Client) ReplyMessage(ctx context.Context, token string, chatID int64, replyTo int, text string) error {
	api, err := c.api(token)
	if err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyToMessageID = replyTo
	start := time.Now()
	_, err = api.Send(msg)
	observe("sendMessage", start, err)
	return err
}

func (c *Client) SendPhoto(ctx context.Context, token string, chatID int64, photoURL, caption string, rows [][]adapter.InlineButton) error {
	api, err := c.api(token)
	if err != nil {
		return err
	}
	msg := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(photoURL))
	msg.Caption = caption
	if kb := keyboard(rows); kb != nil {
		msg.ReplyMarkup = kb
	}
	start := time.Now()
	_, err = api.Send(msg)
	observe("sendPhoto", start, err)
	return err
}

func (c *Client) SendVideo(ctx context.Context, token string, chatID int64, videoURL, caption string, rows [][]adapter.InlineButton) error {
	api, err := c.api(token)
	if err != nil {
		return err
	}
	msg := tgbotapi.NewVideo(chatID, tgbotapi.FileURL(videoURL))
	msg.Caption = caption
	if kb := keyboard(rows); kb != nil {
		msg.ReplyMarkup = kb
	}
	start := time.Now()
	_, err = api.Send(msg)
	observe("sendVideo", start, err)
	return err
}

func (c *Client) SendAnimation(ctx context.Context, token string, chatID int64, animationURL, caption string, rows [][]adapter.InlineButton) error {
	api, err := c.api(token)
	if err != nil {
		return err
	}
	msg := tgbotapi.NewAnimation(chatID, tgbotapi.FileURL(animationURL))
	msg.Caption = caption
	if kb := keyboard(rows); kb != nil {
		msg.ReplyMarkup = kb
	}
	start := time.Now()
	_, err = api.Send(msg)
	observe("sendAnimation", start, err)
	return err
}

func (c *Client) AnswerCallbackQuery(ctx context.Context, token, callbackID string) error {
	api, err := c.api(token)
	if err != nil {
		return err
	}
	start := time.Now()
	_, err = api.Request(tgbotapi.NewCallback(callbackID, ""))
	observe("answerCallbackQuery", start, err)
	return err
}

func (c *Client) EditMessageText(ctx context.Context, token string, chatID int64, messageID int, text string) error {
	api, err := c.api(token)
	if err != nil {
		return err
	}
	start := time.Now()
	_, err = api.Send(tgbotapi.NewEditMessageText(chatID, messageID, text))
	observe("editMessageText", start, err)
	return err
}

func (c *Client) EditMessageCaption(ctx context.Context, token string, chatID int64, messageID int, caption string) error {
	api, err := c.api(token)
	if err != nil {
		return err
	}
	start := time.Now()
	_, err = api.Send(tgbotapi.NewEditMessageCaption(chatID, messageID, caption))
	observe("editMessageCaption", start, err)
	return err
}

func (c *Client) SetWebhook(ctx context.Context, token, url string) error {
	api, err := c.api(token)
	if err != nil {
		return err
	}
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return err
	}
	start := time.Now()
	_, err = api.Request(wh)
	observe("setWebhook", start, err)
	return err
}

func (c *Client) DeleteWebhook(ctx context.Context, token string) error {
	api, err := c.api(token)
	if err != nil {
		return err
	}
	start := time.Now()
	_, err = api.Request(tgbotapi.DeleteWebhookConfig{})
	observe("deleteWebhook", start, err)
	return err
}

func (c *Client) GetWebhookInfo(ctx context.Context, token string) (adapter.WebhookInfo, error) {
	api, err := c.api(token)
	if err != nil {
		return adapter.WebhookInfo{}, err
	}
	start := time.Now()
	info, err := api.GetWebhookInfo()
	observe("getWebhookInfo", start, err)
	if err != nil {
		return adapter.WebhookInfo{}, err
	}
	return adapter.WebhookInfo{
		URL:                  info.URL,
		PendingUpdateCount:   info.PendingUpdateCount,
		LastErrorMessage:     info.LastErrorMessage,
		HasCustomCertificate: info.HasCustomCertificate,
	}, nil
}
