package commands

// TelegramCommands contains all slash commands understood by the bot
const (
	// Main commands
	Start     = "/start"
	NewPost   = "/newpost"
	ViewPosts = "/viewposts"
	Cancel    = "/cancel"

	// Wizard tokens
	Confirm = "/confirm"
	Skip    = "/skip"

	// Administration commands
	Config      = "/config"
	NewUserCode = "/newusercode"
	AddMeToBot  = "/addmetobot"
	ListUsers   = "/listusers"
)

// Callback data prefixes used by inline keyboards
const (
	CategorySelectPrefix = "cat_select_"
	EditPostPrefix       = "edit_"

	ConfigNewCode     = "cfg_newcode"
	ConfigManageUsers = "cfg_manageusers"
	ConfigRefreshCats = "cfg_refreshcats"
	ConfigCancel      = "cfg_cancel"
	ConfigPrefix      = "cfg_"

	UsersPagePrefix = "users_page_"
	UsersSearch     = "users_search"
	ManageUserPrefix = "manage_user_"

	ConfirmPromotePrefix = "confirm_promote_"
	ConfirmDemotePrefix  = "confirm_demote_"
	ConfirmRemovePrefix  = "confirm_remove_"
	CancelActionPrefix   = "cancel_"
)
