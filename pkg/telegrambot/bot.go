package telegrambot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	telebot "gopkg.in/telebot.v3"

	"wp-tg-publisher/internal/commands"
	"wp-tg-publisher/internal/config"
	"wp-tg-publisher/internal/conversation"
	"wp-tg-publisher/internal/permissions"
	"wp-tg-publisher/internal/services"
	"wp-tg-publisher/internal/workflows"
)

const levelKey = "level"

// Bot represents the Telegram bot. It routes every inbound update to
// either the active conversation, a registered command, or a button
// handler, applying authorization and rate limiting first.
type Bot struct {
	bot        *telebot.Bot
	config     *config.Config
	engine     *conversation.Engine
	users      *services.UserStore
	permCtrl   *permissions.Controller
	limiter    *services.RateLimiter
	wpService  *services.WordPressService
	categories *services.CategoryCache
	qrService  *services.QRService
	// Chats whose next text message is a user-management search term.
	pendingSearch *cache.Cache
	logger        *logrus.Logger
}

// NewBot creates a new Telegram bot
func NewBot(
	cfg *config.Config,
	engine *conversation.Engine,
	users *services.UserStore,
	permCtrl *permissions.Controller,
	limiter *services.RateLimiter,
	wpService *services.WordPressService,
	categories *services.CategoryCache,
	qrService *services.QRService,
	logger *logrus.Logger,
) (*Bot, error) {
	settings := telebot.Settings{
		Token:  cfg.Telegram.Token,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) {
			logger.Errorf("Telegram bot error: %v", err)
			if c != nil {
				c.Send("An error occurred. Please try again later.")
			}
		},
	}

	b, err := telebot.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	bot := &Bot{
		bot:           b,
		config:        cfg,
		engine:        engine,
		users:         users,
		permCtrl:      permCtrl,
		limiter:       limiter,
		wpService:     wpService,
		categories:    categories,
		qrService:     qrService,
		pendingSearch: cache.New(5*time.Minute, 10*time.Minute),
		logger:        logger,
	}

	bot.setupMiddleware()
	bot.setupHandlers()

	return bot, nil
}

// Start starts the bot
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Starting Telegram bot")

	go func() {
		<-ctx.Done()
		b.logger.Info("Stopping Telegram bot")
		b.bot.Stop()
	}()

	b.bot.Start()
	return nil
}

// setupMiddleware sets up logging and authorization middleware
func (b *Bot) setupMiddleware() {
	b.bot.Use(func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			b.logger.Debugf("Received update from %d: %s", c.Sender().ID, c.Text())
			return next(c)
		}
	})

	b.bot.Use(func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			level := b.permCtrl.Level(c.Sender().ID)
			if level == permissions.Unauthorized {
				// Unauthorized users may only redeem an invite code.
				if strings.HasPrefix(c.Text(), commands.AddMeToBot) {
					return next(c)
				}
				b.logger.Warnf("Unauthorized: %d (@%s)", c.Sender().ID, c.Sender().Username)
				return nil
			}

			c.Set(levelKey, level)
			return next(c)
		}
	})
}

// setupHandlers registers command, message and callback handlers
func (b *Bot) setupHandlers() {
	b.bot.Handle(commands.Start, b.guard(b.handleStart))
	b.bot.Handle(commands.NewPost, b.guard(b.handleNewPost))
	b.bot.Handle(commands.Cancel, b.guard(b.handleCancel))
	b.bot.Handle(commands.ViewPosts, b.guard(b.handleViewPosts))
	b.bot.Handle(commands.Config, b.guard(b.handleConfig))
	b.bot.Handle(commands.NewUserCode, b.guard(b.handleNewUserCode))
	b.bot.Handle(commands.AddMeToBot, b.guard(b.handleAddMeToBot))
	b.bot.Handle(commands.ListUsers, b.guard(b.handleListUsers))

	b.bot.Handle(telebot.OnText, b.guard(b.handleText))
	b.bot.Handle(telebot.OnPhoto, b.guard(b.handlePhoto))
	b.bot.Handle(telebot.OnCallback, b.guard(b.handleCallback))
}

// guard catches handler errors at the dispatch boundary: the error is
// logged and answered generically, never surfaced to the user raw.
func (b *Bot) guard(fn telebot.HandlerFunc) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		if err := fn(c); err != nil {
			b.logger.Errorf("Handler error for user %d: %v", c.Sender().ID, err)
			if c.Callback() != nil {
				return c.Respond(&telebot.CallbackResponse{Text: "Error processing action"})
			}
			return c.Send("Error processing your request. Please try again.")
		}
		return nil
	}
}

// level returns the access level resolved by the auth middleware
func (b *Bot) level(c telebot.Context) permissions.Level {
	if level, ok := c.Get(levelKey).(permissions.Level); ok {
		return level
	}
	return permissions.Unauthorized
}

// handleText routes free text to the active conversation, a pending
// user search, or the unknown-command hint
func (b *Bot) handleText(c telebot.Context) error {
	chatID := c.Chat().ID

	if b.engine.Active(chatID) {
		return b.engine.Dispatch(context.Background(), updateFrom(c), newResponder(c, b.logger))
	}

	if _, searching := b.pendingSearch.Get(searchKey(chatID)); searching {
		return b.handleSearchTerm(c)
	}

	if strings.HasPrefix(c.Text(), "/") {
		return c.Send("Unknown command. Use the menu button (/) for available commands.")
	}
	return nil
}

// handlePhoto routes photo messages to the active conversation
func (b *Bot) handlePhoto(c telebot.Context) error {
	return b.engine.Dispatch(context.Background(), updateFrom(c), newResponder(c, b.logger))
}

// handleCallback routes button presses: management callbacks go to the
// admin module, edit buttons enter the edit wizard, and everything else
// is fed to the conversation engine as a synthetic update.
func (b *Bot) handleCallback(c telebot.Context) error {
	data := callbackData(c)

	switch {
	case strings.HasPrefix(data, commands.EditPostPrefix):
		return b.handleEditButton(c, data)
	case strings.HasPrefix(data, commands.ConfigPrefix),
		strings.HasPrefix(data, commands.UsersPagePrefix),
		data == commands.UsersSearch,
		strings.HasPrefix(data, commands.ManageUserPrefix),
		strings.HasPrefix(data, commands.ConfirmPromotePrefix),
		strings.HasPrefix(data, commands.ConfirmDemotePrefix),
		strings.HasPrefix(data, commands.ConfirmRemovePrefix),
		strings.HasPrefix(data, commands.CancelActionPrefix):
		return b.handleAdminCallback(c, data)
	default:
		if b.engine.Active(c.Chat().ID) {
			return b.engine.Dispatch(context.Background(), updateFrom(c), newResponder(c, b.logger))
		}
		return c.Respond(&telebot.CallbackResponse{Text: "Unknown action"})
	}
}

// handleEditButton enters the edit wizard for the tapped post
func (b *Bot) handleEditButton(c telebot.Context, data string) error {
	postID, err := parseIDSuffix(data, commands.EditPostPrefix)
	if err != nil {
		return c.Respond(&telebot.CallbackResponse{Text: "Unknown action"})
	}

	if err := c.Respond(&telebot.CallbackResponse{Text: "Loading post for edit..."}); err != nil {
		b.logger.Warnf("Failed to answer callback: %v", err)
	}

	initial := map[string]interface{}{workflows.KeyPostID: postID}
	return b.engine.Enter(context.Background(), workflows.EditPostName, updateFrom(c), initial, newResponder(c, b.logger))
}

// notify sends a message to a user by ID, best effort
func (b *Bot) notify(userID int64, text string) {
	if _, err := b.bot.Send(telebot.ChatID(userID), text); err != nil {
		b.logger.Errorf("Failed to notify user %d: %v", userID, err)
	}
}

func searchKey(chatID int64) string {
	return fmt.Sprintf("search_%d", chatID)
}
