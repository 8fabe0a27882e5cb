package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/bnema/pocketbot/internal/domain"
	"github.com/bnema/pocketbot/internal/ports"
)

const (
	DefaultAppName = "PocketBot"

	defaultShowCount = 3
	defaultGetCount  = 10
)

type sessionRule int

const (
	sessionOptional sessionRule = iota
	sessionRequired
)

type argRule int

const (
	argOptional argRule = iota
	argRequired
)

// command is one entry of the static registry. The session and argument rules
// are checked before run is called.
type command struct {
	name    string
	session sessionRule
	arg     argRule
	// missingArg is the reply format used when arg is argRequired and absent.
	missingArg string
	run        func(ctx context.Context, req request) error
}

type request struct {
	status      domain.Status
	identity    domain.Identity
	args        []string
	accessToken string
}

// arg returns the first argument after the command name.
func (r request) arg() string {
	if len(r.args) < 2 {
		return ""
	}
	return r.args[1]
}

type DispatcherConfig struct {
	// AppName marks statuses the bot posted itself.
	AppName       string
	Poster        ports.Poster
	Bookmarks     ports.Bookmarks
	Sessions      ports.CredentialStore
	Authorization *Authorization
	Logger        *slog.Logger
}

// Dispatcher interprets direct messages and runs the matching command.
type Dispatcher struct {
	appName   string
	poster    ports.Poster
	bookmarks ports.Bookmarks
	sessions  ports.CredentialStore
	auth      *Authorization
	logger    *slog.Logger
	commands  []command
}

type replyError struct {
	err error
}

func (e *replyError) Error() string {
	return fmt.Sprintf("post reply: %v", e.err)
}

func (e *replyError) Unwrap() error {
	return e.err
}

func NewDispatcher(cfg DispatcherConfig) (*Dispatcher, error) {
	if cfg.Poster == nil || cfg.Bookmarks == nil || cfg.Sessions == nil || cfg.Authorization == nil {
		return nil, errors.New("dispatcher requires poster, bookmarks, sessions and authorization")
	}
	appName := cfg.AppName
	if appName == "" {
		appName = DefaultAppName
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	d := &Dispatcher{
		appName:   appName,
		poster:    cfg.Poster,
		bookmarks: cfg.Bookmarks,
		sessions:  cfg.Sessions,
		auth:      cfg.Authorization,
		logger:    logger.With("component", "dispatcher"),
	}
	d.commands = []command{
		{name: "logout", run: d.logout},
		{name: "login", run: d.login},
		{name: "show", run: d.show},
		{name: "add", session: sessionRequired, arg: argRequired, missingArg: "Please @%s, provide a URL", run: d.add},
		{name: "get", session: sessionRequired, run: d.get},
		{name: "help", run: d.help},
	}
	return d, nil
}

// CommandNames lists the registry in its fixed order.
func (d *Dispatcher) CommandNames() []string {
	names := make([]string, 0, len(d.commands))
	for _, cmd := range d.commands {
		names = append(names, cmd.name)
	}
	return names
}

// HandleConversation reacts to the last status of a direct conversation.
func (d *Dispatcher) HandleConversation(ctx context.Context, conversation domain.Conversation) error {
	if conversation.LastStatus == nil {
		return nil
	}
	return d.HandleStatus(ctx, *conversation.LastStatus)
}

// HandleStatus never surfaces domain errors: they become replies. The returned
// error reports failed outbound calls only, after the user got an apology where possible.
func (d *Dispatcher) HandleStatus(ctx context.Context, status domain.Status) error {
	if status.Account == nil || status.Identity() == "" || status.PostedBy(d.appName) {
		return nil
	}
	identity := status.Identity()
	if status.Account.Remote() {
		d.logger.Warn("dispatcher: remote account shares the local identity", "identity", identity, "acct", status.Account.Acct)
	}

	if !status.IsReply() {
		return d.reply(ctx, status, fmt.Sprintf(
			"Ciao @%s! How can I help you? Please, reply to this message with one of the following commands: %s",
			identity, d.commandList()))
	}

	args := commandTokens(status.Body())
	if len(args) == 0 {
		return d.unknown(ctx, status)
	}
	cmd, ok := d.lookup(args[0])
	if !ok {
		return d.unknown(ctx, status)
	}

	req := request{status: status, identity: identity, args: args}
	if cmd.session == sessionRequired {
		token, ok := d.sessions.AccessToken(identity)
		if !ok {
			return d.reply(ctx, status, fmt.Sprintf("Sorry @%s, you are not logged in yet.", identity))
		}
		req.accessToken = token
	}
	if cmd.arg == argRequired && req.arg() == "" {
		return d.reply(ctx, status, fmt.Sprintf(cmd.missingArg, identity))
	}

	d.logger.Debug("dispatcher: running command", "command", cmd.name, "identity", identity, "status_id", status.ID)
	err := cmd.run(ctx, req)
	if err == nil {
		return nil
	}

	var postErr *replyError
	if errors.As(err, &postErr) {
		d.logger.Warn("dispatcher: reply failed", "command", cmd.name, "identity", identity, "error", err)
		return err
	}

	d.logger.Warn("dispatcher: command failed", "command", cmd.name, "identity", identity, "error", err)
	return errors.Join(fmt.Errorf("%s: %w", cmd.name, err), d.reply(ctx, status, somethingWentWrong(identity)))
}

func (d *Dispatcher) lookup(name string) (command, bool) {
	name = strings.ToLower(name)
	for _, cmd := range d.commands {
		if cmd.name == name {
			return cmd, true
		}
	}
	return command{}, false
}

func (d *Dispatcher) commandList() string {
	return strings.Join(d.CommandNames(), ", ")
}

func (d *Dispatcher) unknown(ctx context.Context, status domain.Status) error {
	return d.reply(ctx, status, fmt.Sprintf("Sorry. I don't understand. The supported commands are: %s", d.commandList()))
}

func (d *Dispatcher) logout(ctx context.Context, req request) error {
	if !d.sessions.Exists(req.identity) {
		return d.reply(ctx, req.status, fmt.Sprintf("@%s, you are not logged in.", req.identity))
	}
	if err := d.sessions.Forget(req.identity); err != nil {
		return fmt.Errorf("forget session: %w", err)
	}
	return d.reply(ctx, req.status, fmt.Sprintf("@%s done! See you soon!", req.identity))
}

func (d *Dispatcher) login(ctx context.Context, req request) error {
	if d.sessions.Exists(req.identity) {
		return d.reply(ctx, req.status, fmt.Sprintf("@%s, you are already logged in.", req.identity))
	}

	login, err := d.auth.Begin(ctx, req.identity, req.status.ID)
	if err != nil {
		return err
	}
	if err := d.reply(ctx, req.status, fmt.Sprintf("Sure @%s! Can you please open this link: %s ? See you soon!", req.identity, login.ConsentURL)); err != nil {
		d.auth.Abandon(login)
		return err
	}
	return nil
}

func (d *Dispatcher) show(ctx context.Context, req request) error {
	collections, err := d.bookmarks.Collections(ctx, countArg(req.arg(), defaultShowCount))
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}

	var errs []error
	for _, collection := range collections {
		errs = append(errs, d.reply(ctx, req.status, fmt.Sprintf("@%s - Title: %s\nURL: %s", req.identity, collection.Title, collection.ShortURL)))
	}
	return errors.Join(errs...)
}

func (d *Dispatcher) add(ctx context.Context, req request) error {
	if err := d.bookmarks.Add(ctx, req.accessToken, req.arg()); err != nil {
		return fmt.Errorf("add item: %w", err)
	}
	return d.reply(ctx, req.status, fmt.Sprintf("Ok @%s! Done.", req.identity))
}

func (d *Dispatcher) get(ctx context.Context, req request) error {
	items, err := d.bookmarks.Get(ctx, req.accessToken, countArg(req.arg(), defaultGetCount))
	if err != nil {
		return fmt.Errorf("get items: %w", err)
	}

	var errs []error
	for _, item := range items {
		errs = append(errs, d.reply(ctx, req.status, fmt.Sprintf("@%s - URL: %s\nTitle: %s", req.identity, item.URL, item.Title)))
	}
	return errors.Join(errs...)
}

func (d *Dispatcher) help(ctx context.Context, req request) error {
	return d.reply(ctx, req.status, fmt.Sprintf("@%s, the supported commands are: %s", req.identity, d.commandList()))
}

func (d *Dispatcher) reply(ctx context.Context, status domain.Status, text string) error {
	err := d.poster.Post(ctx, domain.Reply{
		InReplyToID: status.ID,
		Status:      text,
		Visibility:  domain.VisibilityDirect,
	})
	if err != nil {
		return &replyError{err: err}
	}
	return nil
}

// countArg parses a positive count, falling back when the argument is absent or not a number.
func countArg(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
