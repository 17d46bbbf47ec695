package telegrambot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	telebot "gopkg.in/telebot.v3"

	"wp-tg-publisher/internal/commands"
	"wp-tg-publisher/internal/constants"
	"wp-tg-publisher/internal/models"
	"wp-tg-publisher/internal/permissions"
)

// handleAdminCallback routes the configuration dashboard and user
// management buttons. Every branch re-checks authorization: callback
// data is client-supplied and can outlive a demotion.
func (b *Bot) handleAdminCallback(c telebot.Context, data string) error {
	if !b.permCtrl.IsAdminOrSuper(c.Sender().ID) {
		return c.Respond(&telebot.CallbackResponse{Text: "Admins only"})
	}

	switch {
	case data == commands.ConfigNewCode:
		if err := c.Respond(&telebot.CallbackResponse{Text: "Generating code..."}); err != nil {
			b.logger.Warnf("Failed to answer callback: %v", err)
		}
		return b.sendNewPasscode(c)

	case data == commands.ConfigManageUsers:
		if !b.permCtrl.IsSuperuser(c.Sender().ID) {
			return c.Respond(&telebot.CallbackResponse{Text: "Superuser only"})
		}
		if err := c.Respond(&telebot.CallbackResponse{}); err != nil {
			b.logger.Warnf("Failed to answer callback: %v", err)
		}
		return b.sendUserPage(c, 0)

	case data == commands.ConfigRefreshCats:
		if !b.permCtrl.IsSuperuser(c.Sender().ID) {
			return c.Respond(&telebot.CallbackResponse{Text: "Superuser only"})
		}
		return b.refreshCategories(c)

	case data == commands.ConfigCancel:
		if err := c.Respond(&telebot.CallbackResponse{}); err != nil {
			b.logger.Warnf("Failed to answer callback: %v", err)
		}
		return c.Edit("Configuration closed.")

	case strings.HasPrefix(data, commands.UsersPagePrefix):
		page, err := strconv.Atoi(strings.TrimPrefix(data, commands.UsersPagePrefix))
		if err != nil || page < 0 {
			return c.Respond(&telebot.CallbackResponse{Text: "Unknown action"})
		}
		if err := c.Respond(&telebot.CallbackResponse{}); err != nil {
			b.logger.Warnf("Failed to answer callback: %v", err)
		}
		return b.sendUserPage(c, page)

	case data == commands.UsersSearch:
		b.pendingSearch.Set(searchKey(c.Chat().ID), true, 5*time.Minute)
		if err := c.Respond(&telebot.CallbackResponse{}); err != nil {
			b.logger.Warnf("Failed to answer callback: %v", err)
		}
		return c.Send("Send a name or username to search for:")

	case strings.HasPrefix(data, commands.ManageUserPrefix):
		return b.showUserActions(c, data)

	case strings.HasPrefix(data, commands.ConfirmPromotePrefix):
		return b.changeUserLevel(c, data, commands.ConfirmPromotePrefix, models.LevelAdmin)

	case strings.HasPrefix(data, commands.ConfirmDemotePrefix):
		return b.changeUserLevel(c, data, commands.ConfirmDemotePrefix, models.LevelOrdinary)

	case strings.HasPrefix(data, commands.ConfirmRemovePrefix):
		return b.removeUser(c, data)

	case strings.HasPrefix(data, commands.CancelActionPrefix):
		if err := c.Respond(&telebot.CallbackResponse{}); err != nil {
			b.logger.Warnf("Failed to answer callback: %v", err)
		}
		return c.Edit("Action cancelled.")

	default:
		return c.Respond(&telebot.CallbackResponse{Text: "Unknown action"})
	}
}

// refreshCategories force-refetches the category cache
func (b *Bot) refreshCategories(c telebot.Context) error {
	cats, err := b.categories.Get(context.Background(), true)
	if err != nil {
		b.logger.Errorf("Category refresh failed: %v", err)
		return c.Respond(&telebot.CallbackResponse{Text: "Refresh failed, check logs"})
	}
	if err := c.Respond(&telebot.CallbackResponse{Text: "Categories refreshed"}); err != nil {
		b.logger.Warnf("Failed to answer callback: %v", err)
	}
	return c.Send(fmt.Sprintf("Category cache refreshed: %d categories.", len(cats)))
}

// sendUserPage sends one page of the user list with a Manage button per
// user and pagination controls
func (b *Bot) sendUserPage(c telebot.Context, page int) error {
	users := b.users.GetAllUsers()
	if len(users) == 0 {
		return c.Send("No registered users yet.")
	}

	totalPages := (len(users) + constants.UserPageSize - 1) / constants.UserPageSize
	if page >= totalPages {
		page = totalPages - 1
	}

	start := page * constants.UserPageSize
	end := start + constants.UserPageSize
	if end > len(users) {
		end = len(users)
	}

	rows := make([][]telebot.InlineButton, 0, constants.UserPageSize+2)
	for _, u := range users[start:end] {
		rows = append(rows, []telebot.InlineButton{{
			Text: formatUserLine(u.ID, u.Name, u.Username, permissions.Level(u.Level)),
			Data: fmt.Sprintf("%s%d", commands.ManageUserPrefix, u.ID),
		}})
	}

	nav := make([]telebot.InlineButton, 0, 2)
	if page > 0 {
		nav = append(nav, telebot.InlineButton{
			Text: "< Prev",
			Data: fmt.Sprintf("%s%d", commands.UsersPagePrefix, page-1),
		})
	}
	if page < totalPages-1 {
		nav = append(nav, telebot.InlineButton{
			Text: "Next >",
			Data: fmt.Sprintf("%s%d", commands.UsersPagePrefix, page+1),
		})
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}
	rows = append(rows, []telebot.InlineButton{{Text: "Search", Data: commands.UsersSearch}})

	msg := fmt.Sprintf("Users %d-%d of %d (page %d/%d):", start+1, end, len(users), page+1, totalPages)
	return c.Send(msg, &telebot.ReplyMarkup{InlineKeyboard: rows})
}

// showUserActions shows the promote/demote/remove keyboard for one user
func (b *Bot) showUserActions(c telebot.Context, data string) error {
	userID, err := parseInt64Suffix(data, commands.ManageUserPrefix)
	if err != nil {
		return c.Respond(&telebot.CallbackResponse{Text: "Unknown action"})
	}

	user, found := b.users.FindUser(userID)
	if !found {
		return c.Respond(&telebot.CallbackResponse{Text: "User not found"})
	}

	if err := c.Respond(&telebot.CallbackResponse{}); err != nil {
		b.logger.Warnf("Failed to answer callback: %v", err)
	}

	rows := make([][]telebot.InlineButton, 0, 3)
	if user.Level == models.LevelOrdinary {
		rows = append(rows, []telebot.InlineButton{{
			Text: "Promote to admin",
			Data: fmt.Sprintf("%s%d", commands.ConfirmPromotePrefix, userID),
		}})
	} else {
		rows = append(rows, []telebot.InlineButton{{
			Text: "Demote to ordinary",
			Data: fmt.Sprintf("%s%d", commands.ConfirmDemotePrefix, userID),
		}})
	}
	rows = append(rows,
		[]telebot.InlineButton{{
			Text: "Remove from bot",
			Data: fmt.Sprintf("%s%d", commands.ConfirmRemovePrefix, userID),
		}},
		[]telebot.InlineButton{{
			Text: "Cancel",
			Data: fmt.Sprintf("%s%d", commands.CancelActionPrefix, userID),
		}},
	)

	msg := fmt.Sprintf("Manage user:\n\n%s", formatUserLine(user.ID, user.Name, user.Username, permissions.Level(user.Level)))
	return c.Send(msg, &telebot.ReplyMarkup{InlineKeyboard: rows})
}

// changeUserLevel promotes or demotes a user. Level changes are
// superuser-only.
func (b *Bot) changeUserLevel(c telebot.Context, data, prefix string, level int) error {
	if !b.permCtrl.IsSuperuser(c.Sender().ID) {
		return c.Respond(&telebot.CallbackResponse{Text: "Superuser only"})
	}

	userID, err := parseInt64Suffix(data, prefix)
	if err != nil {
		return c.Respond(&telebot.CallbackResponse{Text: "Unknown action"})
	}

	if err := b.users.SetUserLevel(userID, level); err != nil {
		b.logger.Errorf("Level change for user %d failed: %v", userID, err)
		return c.Respond(&telebot.CallbackResponse{Text: "Level change failed"})
	}

	if err := c.Respond(&telebot.CallbackResponse{Text: "Done"}); err != nil {
		b.logger.Warnf("Failed to answer callback: %v", err)
	}

	levelName := permissions.Level(level).String()
	b.notify(userID, fmt.Sprintf("Your access level is now %s.", levelName))
	return c.Edit(fmt.Sprintf("User %d is now %s.", userID, levelName))
}

// removeUser removes a user from the bot. Removal is superuser-only.
func (b *Bot) removeUser(c telebot.Context, data string) error {
	if !b.permCtrl.IsSuperuser(c.Sender().ID) {
		return c.Respond(&telebot.CallbackResponse{Text: "Superuser only"})
	}

	userID, err := parseInt64Suffix(data, commands.ConfirmRemovePrefix)
	if err != nil {
		return c.Respond(&telebot.CallbackResponse{Text: "Unknown action"})
	}

	removed, err := b.users.RemoveUser(userID)
	if err != nil {
		b.logger.Errorf("Removal of user %d failed: %v", userID, err)
		return c.Respond(&telebot.CallbackResponse{Text: "Removal failed"})
	}

	if err := c.Respond(&telebot.CallbackResponse{Text: "Done"}); err != nil {
		b.logger.Warnf("Failed to answer callback: %v", err)
	}

	b.notify(userID, "Your access to this bot has been revoked.")
	return c.Edit(fmt.Sprintf("User %s (ID %d) removed.", removed.Name, removed.ID))
}
