package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/dmitrijs2005/neatly/internal/client/client"
	"github.com/dmitrijs2005/neatly/internal/client/config"
	"github.com/dmitrijs2005/neatly/internal/client/repositories/session"
	"github.com/dmitrijs2005/neatly/internal/client/services"
	"github.com/dmitrijs2005/neatly/internal/flagx"
)

type App struct {
	config      *config.Config
	authService services.AuthService
	reader      *bufio.Reader
	out         io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	apiClient := client.NewHTTPClient(c.ServerURL, c.RefreshCookieName, c.RequestTimeout)

	identity, err := client.NewGRPCClient(c.GRPCAddr)
	if err != nil {
		return nil, fmt.Errorf("grpc client: %w", err)
	}

	sessions := session.NewFileRepository(c.SessionFile)
	as := services.NewAuthService(apiClient, identity, sessions)

	return &App{config: c, authService: as, reader: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

// Run executes the command found in args, or starts the REPL when there is
// none. It returns the command's error so main can set the exit status.
func (a *App) Run(ctx context.Context, args []string) error {
	defer func() {
		if err := a.authService.Close(); err != nil {
			log.Printf("error closing grpc client: %v", err)
		}
	}()

	cmd := flagx.Positional(args, config.ValueFlags)
	if len(cmd) == 0 {
		a.Root(ctx)
		return nil
	}
	return a.exec(ctx, cmd[0], cmd[1:])
}

func (a *App) exec(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	case "logout":
		return a.Logout(ctx)
	case "me":
		return a.Me(ctx)
	case "whoami":
		return a.WhoAmI(ctx)
	case "refresh":
		return a.Refresh(ctx)
	case "status":
		return a.Status(ctx)
	case "avatar":
		if len(args) == 0 {
			return fmt.Errorf("usage: avatar <file>")
		}
		return a.Avatar(ctx, args[0])
	case "help":
		a.help(ctx)
		return nil
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func (a *App) help(ctx context.Context) {
	if a.isLoggedIn(ctx) {
		fmt.Fprintln(a.out, "Available commands: me, whoami, refresh, avatar <file>, status, logout, exit")
	} else {
		fmt.Fprintln(a.out, "Available commands: register, login, status, exit")
	}
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	s, err := a.authService.Current(ctx)
	return err == nil && s.LoggedIn()
}
