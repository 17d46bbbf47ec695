package telegrambot

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	telebot "gopkg.in/telebot.v3"

	"wp-tg-publisher/internal/commands"
	"wp-tg-publisher/internal/permissions"
	"wp-tg-publisher/internal/validation"
	"wp-tg-publisher/internal/workflows"
)

// handleStart greets the user and installs the command menu matching
// their access level
func (b *Bot) handleStart(c telebot.Context) error {
	level := b.level(c)

	if err := b.setCommandMenu(c.Chat().ID, level); err != nil {
		b.logger.Warnf("Failed to set command menu for chat %d: %v", c.Chat().ID, err)
	}

	msg := fmt.Sprintf("Welcome! You are registered as %s.\n\n"+
		"/newpost - create a WordPress post\n"+
		"/viewposts - list recent posts\n"+
		"/cancel - abort the current operation", level)
	if level == permissions.Admin || level == permissions.Superuser {
		msg += "\n/newusercode - generate an invite code\n" +
			"/listusers - list registered users\n" +
			"/config - bot configuration"
	}

	return c.Send(msg)
}

// setCommandMenu registers the per-chat command list with Telegram
func (b *Bot) setCommandMenu(chatID int64, level permissions.Level) error {
	cmds := []telebot.Command{
		{Text: "newpost", Description: "Create a WordPress post"},
		{Text: "viewposts", Description: "List recent posts"},
		{Text: "cancel", Description: "Abort the current operation"},
	}
	if level == permissions.Admin || level == permissions.Superuser {
		cmds = append(cmds,
			telebot.Command{Text: "newusercode", Description: "Generate an invite code"},
			telebot.Command{Text: "listusers", Description: "List registered users"},
			telebot.Command{Text: "config", Description: "Bot configuration"},
		)
	}

	scope := telebot.CommandScope{Type: telebot.CommandScopeChat, ChatID: chatID}
	return b.bot.SetCommands(cmds, scope)
}

// handleNewPost enters the post creation wizard
func (b *Bot) handleNewPost(c telebot.Context) error {
	if ok, wait := b.limiter.Allow(c.Sender().ID, commands.NewPost); !ok {
		return c.Send(fmt.Sprintf("Too many requests. Try again in %d seconds.", int(wait.Seconds())+1))
	}
	return b.engine.Enter(context.Background(), workflows.NewPostName, updateFrom(c), nil, newResponder(c, b.logger))
}

// handleCancel aborts the active conversation, if any
func (b *Bot) handleCancel(c telebot.Context) error {
	workflow, _, active := b.engine.Current(c.Chat().ID)
	if !active {
		return c.Send("Nothing to cancel.")
	}

	b.engine.Leave(c.Chat().ID)

	switch workflow {
	case workflows.NewPostName:
		return c.Send("Post creation cancelled.")
	case workflows.EditPostName:
		return c.Send("Edit cancelled.")
	default:
		return c.Send("Operation cancelled.")
	}
}

// handleViewPosts lists recent posts with an edit button per post
func (b *Bot) handleViewPosts(c telebot.Context) error {
	if ok, wait := b.limiter.Allow(c.Sender().ID, commands.ViewPosts); !ok {
		return c.Send(fmt.Sprintf("Too many requests. Try again in %d seconds.", int(wait.Seconds())+1))
	}

	limit := validation.ParsePostLimit(c.Message().Payload)

	posts, err := b.wpService.GetRecentPosts(context.Background(), limit)
	if err != nil {
		b.logger.Errorf("Failed to list posts: %v", err)
		return c.Send("Error fetching posts. Try again later.")
	}
	if len(posts) == 0 {
		return c.Send("No posts found.")
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Recent posts (%d):\n\n", len(posts)))

	rows := make([][]telebot.InlineButton, 0, len(posts))
	for i, p := range posts {
		sb.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, p.Status, p.Title))
		rows = append(rows, []telebot.InlineButton{{
			Text: fmt.Sprintf("Edit #%d: %s", p.ID, p.Title),
			Data: fmt.Sprintf("%s%d", commands.EditPostPrefix, p.ID),
		}})
	}
	sb.WriteString("\nTap a button to edit a post.")

	return c.Send(sb.String(), &telebot.ReplyMarkup{InlineKeyboard: rows})
}

// handleConfig shows the admin dashboard keyboard
func (b *Bot) handleConfig(c telebot.Context) error {
	if !b.permCtrl.IsAdminOrSuper(c.Sender().ID) {
		return c.Send("This command is for admins only.")
	}
	if ok, wait := b.limiter.Allow(c.Sender().ID, commands.Config); !ok {
		return c.Send(fmt.Sprintf("Too many requests. Try again in %d seconds.", int(wait.Seconds())+1))
	}

	rows := [][]telebot.InlineButton{
		{{Text: "New invite code", Data: commands.ConfigNewCode}},
	}
	if b.permCtrl.IsSuperuser(c.Sender().ID) {
		rows = append(rows,
			[]telebot.InlineButton{{Text: "Manage users", Data: commands.ConfigManageUsers}},
			[]telebot.InlineButton{{Text: "Refresh categories", Data: commands.ConfigRefreshCats}},
		)
	}
	rows = append(rows, []telebot.InlineButton{{Text: "Close", Data: commands.ConfigCancel}})

	return c.Send("Bot configuration:", &telebot.ReplyMarkup{InlineKeyboard: rows})
}

// handleNewUserCode generates a single-use invite passcode and sends it
// as text plus a QR image
func (b *Bot) handleNewUserCode(c telebot.Context) error {
	if !b.permCtrl.IsAdminOrSuper(c.Sender().ID) {
		return c.Send("This command is for admins only.")
	}
	return b.sendNewPasscode(c)
}

// sendNewPasscode is shared by the command and the config dashboard button
func (b *Bot) sendNewPasscode(c telebot.Context) error {
	code, err := b.users.AddPasscode()
	if err != nil {
		b.logger.Errorf("Failed to generate passcode: %v", err)
		return c.Send("Error generating invite code. Try again.")
	}

	if err := c.Send(fmt.Sprintf("New invite code:\n\n%s\n\nThe new user should send:\n/addmetobot %s", code, code)); err != nil {
		return err
	}

	png, err := b.qrService.GenerateQR(fmt.Sprintf("/addmetobot %s", code))
	if err != nil {
		b.logger.Warnf("Failed to render passcode QR: %v", err)
		return nil
	}

	photo := &telebot.Photo{
		File:    telebot.FromReader(bytes.NewReader(png)),
		Caption: "Scannable invite code",
	}
	return c.Send(photo)
}

// handleAddMeToBot redeems an invite passcode for the sender. This is
// the only command unauthorized users may run.
func (b *Bot) handleAddMeToBot(c telebot.Context) error {
	if ok, wait := b.limiter.Allow(c.Sender().ID, commands.AddMeToBot); !ok {
		return c.Send(fmt.Sprintf("Too many attempts. Try again in %d seconds.", int(wait.Seconds())+1))
	}

	if b.permCtrl.Level(c.Sender().ID) != permissions.Unauthorized {
		return c.Send("You are already registered.")
	}

	code, err := validation.NormalizePasscode(c.Message().Payload)
	if err != nil {
		return c.Send("Usage: /addmetobot <invite code>")
	}

	sender := c.Sender()
	result := b.users.TryAddUser(sender.ID, sender.Username, sender.FirstName, sender.LastName, code)
	if !result.Success {
		b.logger.Warnf("Failed passcode redemption by %d: %s", sender.ID, result.Msg)
		return c.Send(result.Msg)
	}

	b.notifyAdmins(fmt.Sprintf("New user joined: %s (ID %d)", result.Name, sender.ID))
	b.logger.Infof("User %d (%s) registered via passcode", sender.ID, result.Name)

	return c.Send(fmt.Sprintf("Welcome, %s! You can now publish posts. Send /start to see the commands.", result.Name))
}

// notifyAdmins sends a notice to the superuser and every stored admin
func (b *Bot) notifyAdmins(text string) {
	b.notify(b.config.Telegram.SuperuserID, text)
	for _, u := range b.users.GetAllUsers() {
		if permissions.Level(u.Level) == permissions.Admin {
			b.notify(u.ID, text)
		}
	}
}

// handleListUsers prints the stored user list
func (b *Bot) handleListUsers(c telebot.Context) error {
	if !b.permCtrl.IsAdminOrSuper(c.Sender().ID) {
		return c.Send("This command is for admins only.")
	}

	users := b.users.GetAllUsers()
	if len(users) == 0 {
		return c.Send("No registered users yet.")
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Registered users (%d):\n\n", len(users)))
	for _, u := range users {
		sb.WriteString(formatUserLine(u.ID, u.Name, u.Username, permissions.Level(u.Level)))
		sb.WriteString("\n")
	}

	return c.Send(sb.String())
}

func formatUserLine(id int64, name, username string, level permissions.Level) string {
	if username != "" {
		return fmt.Sprintf("%s (@%s) - %s - ID %d", name, username, level, id)
	}
	return fmt.Sprintf("%s - %s - ID %d", name, level, id)
}

// handleSearchTerm filters the user list by the just-received text
func (b *Bot) handleSearchTerm(c telebot.Context) error {
	b.pendingSearch.Delete(searchKey(c.Chat().ID))

	term := strings.ToLower(strings.TrimSpace(c.Text()))
	if term == "" {
		return c.Send("Empty search term. Open Manage users again.")
	}

	rows := make([][]telebot.InlineButton, 0)
	for _, u := range b.users.GetAllUsers() {
		if strings.Contains(strings.ToLower(u.Name), term) ||
			strings.Contains(strings.ToLower(u.Username), term) {
			rows = append(rows, []telebot.InlineButton{{
				Text: formatUserLine(u.ID, u.Name, u.Username, permissions.Level(u.Level)),
				Data: fmt.Sprintf("%s%d", commands.ManageUserPrefix, u.ID),
			}})
		}
	}

	if len(rows) == 0 {
		return c.Send(fmt.Sprintf("No users matching %q.", term))
	}
	return c.Send(fmt.Sprintf("Users matching %q:", term), &telebot.ReplyMarkup{InlineKeyboard: rows})
}
