package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/neatly/internal/client/models"
	"github.com/dmitrijs2005/neatly/internal/client/services"
	"github.com/dmitrijs2005/neatly/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	id, err := a.authService.Register(ctx, name, email, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered and logged in as %s\n", id.Email)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	id, err := a.authService.Login(ctx, email, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Logged in as %s\n", id.Email)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	id, err := a.authService.Refresh(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Session refreshed for %s\n", id.Email)
	return nil
}

func (a *App) Me(ctx context.Context) error {
	id, err := a.authService.Me(ctx)
	if err != nil {
		return err
	}
	a.printIdentity(id)
	return nil
}

// WhoAmI is Me over gRPC.
func (a *App) WhoAmI(ctx context.Context) error {
	id, err := a.authService.RemoteIdentity(ctx)
	if err != nil {
		return err
	}
	a.printIdentity(id)
	return nil
}

func (a *App) Avatar(ctx context.Context, path string) error {
	key, err := a.authService.UploadAvatar(ctx, path)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Avatar uploaded (%s)\n", key)
	return nil
}

func (a *App) Status(ctx context.Context) error {
	if err := a.authService.Ping(ctx); err != nil {
		fmt.Fprintln(a.out, "Server: unavailable")
		return err
	}
	fmt.Fprintln(a.out, "Server: serving")

	if _, err := a.authService.Current(ctx); errors.Is(err, services.ErrNotLoggedIn) {
		fmt.Fprintln(a.out, "Session: none")
	} else if err == nil {
		fmt.Fprintln(a.out, "Session: saved")
	}
	return nil
}

func (a *App) printIdentity(id *models.Identity) {
	fmt.Fprintf(a.out, "ID:     %s\nName:   %s\nEmail:  %s\n", id.ID, id.Name, id.Email)
	if id.AvatarURL != "" {
		fmt.Fprintf(a.out, "Avatar: %s\n", id.AvatarURL)
	}
}
