package telegram

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"sneakerculture/pkg/errors"
	"sneakerculture/pkg/logger"
)

// CommandContext contains all data for command execution
type CommandContext struct {
	Ctx        context.Context
	From       *User
	TelegramID int64
	ChatID     int64
	Command    string
	Args       string
	RawMessage string
	Bot        Bot // Bot interface for sending messages
}

// CommandHandler is a function that handles a command
type CommandHandler func(ctx *CommandContext) error

// CommandMiddleware wraps command handlers with additional logic
type CommandMiddleware func(next CommandHandler) CommandHandler

// CommandConfig defines a command registration
type CommandConfig struct {
	Name        string              // Primary command name (e.g., "start")
	Aliases     []string            // Alternative names
	Triggers    []string            // Exact message texts (reply keyboard labels) routed here
	Description string              // Help text
	Handler     CommandHandler      // Command handler function
	Middleware  []CommandMiddleware // Command-specific middleware
	Hidden      bool                // Don't list in Commands()
}

// CommandRegistry manages command registration and routing
type CommandRegistry struct {
	commands   map[string]*CommandConfig // command name -> config
	triggers   map[string]*CommandConfig // message text -> config
	middleware []CommandMiddleware       // Global middleware
	bot        Bot
	log        *logger.Logger
}

// NewCommandRegistry creates a new command registry
func NewCommandRegistry(bot Bot, log *logger.Logger) *CommandRegistry {
	return &CommandRegistry{
		commands:   make(map[string]*CommandConfig),
		triggers:   make(map[string]*CommandConfig),
		middleware: make([]CommandMiddleware, 0),
		bot:        bot,
		log:        log.With("component", "command_registry"),
	}
}

// Register registers a command with the registry
func (cr *CommandRegistry) Register(config CommandConfig) {
	if config.Name == "" {
		cr.log.Errorw("Cannot register command without name")
		return
	}
	if config.Handler == nil {
		cr.log.Errorw("Cannot register command without handler", "command", config.Name)
		return
	}

	cfg := &config
	cr.commands[config.Name] = cfg
	for _, alias := range config.Aliases {
		cr.commands[alias] = cfg
	}
	for _, trigger := range config.Triggers {
		cr.triggers[trigger] = cfg
	}

	cr.log.Debugw("Registered command",
		"name", config.Name,
		"aliases", config.Aliases,
		"triggers", len(config.Triggers),
	)
}

// MustRegister registers a command and panics on error (for init-time registration)
func (cr *CommandRegistry) MustRegister(config CommandConfig) {
	if config.Name == "" || config.Handler == nil {
		panic(fmt.Sprintf("invalid command config: name=%s handler=%v", config.Name, config.Handler))
	}
	cr.Register(config)
}

// Use adds global middleware (applied to all commands)
func (cr *CommandRegistry) Use(middleware CommandMiddleware) {
	cr.middleware = append(cr.middleware, middleware)
}

// Handle routes a slash command to its handler
func (cr *CommandRegistry) Handle(ctx context.Context, from *User, chatID int64, command, args, rawMessage string) error {
	command = strings.ToLower(strings.TrimSpace(command))

	config, exists := cr.commands[command]
	if !exists {
		cr.log.Warnw("Unknown command",
			"command", command,
			"chat_id", chatID,
		)
		return cr.bot.SendMessage(chatID, fmt.Sprintf("❌ Неизвестная команда: /%s\n\nНажмите /start, чтобы открыть меню.", command))
	}

	return cr.execute(ctx, config, from, chatID, command, args, rawMessage)
}

// HandleText routes a message whose text equals a registered trigger.
// It reports false when no trigger matches.
func (cr *CommandRegistry) HandleText(ctx context.Context, from *User, chatID int64, text string) (bool, error) {
	config, exists := cr.triggers[strings.TrimSpace(text)]
	if !exists {
		return false, nil
	}
	return true, cr.execute(ctx, config, from, chatID, config.Name, "", text)
}

func (cr *CommandRegistry) execute(ctx context.Context, config *CommandConfig, from *User, chatID int64, command, args, rawMessage string) error {
	cmdCtx := &CommandContext{
		Ctx:        ctx,
		From:       from,
		ChatID:     chatID,
		Command:    command,
		Args:       args,
		RawMessage: rawMessage,
		Bot:        cr.bot,
	}
	if from != nil {
		cmdCtx.TelegramID = from.ID
	}

	handler := config.Handler

	// Apply command-specific middleware (reverse order)
	for i := len(config.Middleware) - 1; i >= 0; i-- {
		handler = config.Middleware[i](handler)
	}

	// Apply global middleware (reverse order)
	for i := len(cr.middleware) - 1; i >= 0; i-- {
		handler = cr.middleware[i](handler)
	}

	if err := handler(cmdCtx); err != nil {
		cr.log.Errorw("Command execution failed",
			"command", command,
			"telegram_id", cmdCtx.TelegramID,
			"error", err,
		)
		return cr.handleCommandError(cmdCtx, err)
	}

	return nil
}

// Commands returns registered commands sorted by name
func (cr *CommandRegistry) Commands(includeHidden bool) []*CommandConfig {
	commands := make([]*CommandConfig, 0, len(cr.commands))
	for name, config := range cr.commands {
		// aliases point to the same config
		if name != config.Name {
			continue
		}
		if config.Hidden && !includeHidden {
			continue
		}
		commands = append(commands, config)
	}

	sort.Slice(commands, func(i, j int) bool {
		return commands[i].Name < commands[j].Name
	})
	return commands
}

// HasCommand checks if command is registered
func (cr *CommandRegistry) HasCommand(command string) bool {
	command = strings.ToLower(strings.TrimSpace(command))
	_, exists := cr.commands[command]
	return exists
}

// handleCommandError replies to the user after a failed command and
// returns the original error
func (cr *CommandRegistry) handleCommandError(cmdCtx *CommandContext, err error) error {
	text := "❌ Что-то пошло не так, попробуйте еще раз"
	var valErr ValidationError
	if errors.As(err, &valErr) {
		text = "❌ " + valErr.Message
	}

	if sendErr := cmdCtx.Bot.SendMessage(cmdCtx.ChatID, text); sendErr != nil {
		cr.log.Warnw("Failed to send command error reply", "chat_id", cmdCtx.ChatID, "error", sendErr)
	}
	return err
}
