package commands

import (
	"chessrules/internal/client/api"
	"chessrules/internal/client/display"
)

func (r *Registry) registerAuthCommands() {
	r.Register(&Command{
		Name:        "register",
		ShortName:   "r",
		Group:       groupAuth,
		Description: "Register a new user",
		Usage:       "register [username] [email]",
		Handler:     registerHandler,
	})

	r.Register(&Command{
		Name:        "login",
		ShortName:   "l",
		Group:       groupAuth,
		Description: "Login with credentials",
		Usage:       "login [username|email]",
		Handler:     loginHandler,
	})

	r.Register(&Command{
		Name:        "logout",
		ShortName:   "o",
		Group:       groupAuth,
		Description: "Clear authentication",
		Usage:       "logout",
		Handler:     logoutHandler,
	})

	r.Register(&Command{
		Name:        "whoami",
		ShortName:   "i",
		Group:       groupAuth,
		Description: "Show current user",
		Usage:       "whoami",
		Handler:     whoamiHandler,
	})
}

// argOrAsk returns args[i] when present, otherwise prompts for it
func (r *Registry) argOrAsk(args []string, i int, prompt string) (string, error) {
	if len(args) > i {
		return args[i], nil
	}
	return r.ask(prompt)
}

func registerHandler(r *Registry, args []string) error {
	username, err := r.argOrAsk(args, 0, "Username")
	if err != nil {
		return err
	}
	password, err := r.prompt.ReadPassword(r.promptText("Password"))
	if err != nil {
		return err
	}
	email, err := r.argOrAsk(args, 1, "Email (optional)")
	if err != nil {
		return err
	}

	resp, err := r.session.Client.Register(username, password, email)
	if err != nil {
		return err
	}
	r.signIn(resp)

	r.printf("%s\n", r.paint(display.Green, "Registered successfully"))
	r.printf("User ID: %s\n", resp.UserID)
	r.printf("Username: %s\n", resp.Username)
	return nil
}

func loginHandler(r *Registry, args []string) error {
	identifier, err := r.argOrAsk(args, 0, "Username or Email")
	if err != nil {
		return err
	}
	password, err := r.prompt.ReadPassword(r.promptText("Password"))
	if err != nil {
		return err
	}

	resp, err := r.session.Client.Login(identifier, password)
	if err != nil {
		return err
	}
	r.signIn(resp)

	r.printf("%s\n", r.paint(display.Green, "Logged in successfully"))
	r.printf("User ID: %s\n", resp.UserID)
	r.printf("Username: %s\n", resp.Username)
	return nil
}

func (r *Registry) signIn(resp *api.AuthResponse) {
	s := r.session
	s.Client.SetToken(resp.Token)
	s.UserID = resp.UserID
	s.Username = resp.Username
	if s.Game != nil {
		s.PlayerColor = r.seatOf(s.Game)
	}
}

func logoutHandler(r *Registry, args []string) error {
	s := r.session
	s.Client.SetToken("")
	s.UserID = ""
	s.Username = ""
	s.PlayerColor = ""

	r.printf("%s\n", r.paint(display.Green, "Logged out"))
	return nil
}

func whoamiHandler(r *Registry, args []string) error {
	s := r.session
	if s.Client.AuthToken == "" {
		r.printf("%s\n", r.paint(display.Yellow, "Not authenticated"))
		return nil
	}

	user, err := s.Client.GetCurrentUser()
	if err != nil {
		return err
	}

	r.printf("%s\n", r.paint(display.Cyan, "Current User:"))
	r.printf("  User ID:  %s\n", user.UserID)
	r.printf("  Username: %s\n", user.Username)
	if user.Email != "" {
		r.printf("  Email:    %s\n", user.Email)
	}
	r.printf("  Created:  %s\n", user.CreatedAt.Format("2006-01-02 15:04:05"))
	if s.PlayerColor != "" {
		r.printf("  Seat:     %s in %s\n", r.turnName(s.PlayerColor), s.CurrentGame)
	}
	return nil
}
