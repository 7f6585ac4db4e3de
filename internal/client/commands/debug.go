package commands

import (
	"fmt"
	"strings"
	"time"

	"chessrules/internal/client/display"
)

func (r *Registry) registerDebugCommands() {
	r.Register(&Command{
		Name:        "health",
		ShortName:   ".",
		Group:       groupUtil,
		Description: "Check server health",
		Usage:       "health",
		Handler:     healthHandler,
	})

	r.Register(&Command{
		Name:        "url",
		ShortName:   "/",
		Group:       groupUtil,
		Description: "Set API base URL",
		Usage:       "url [apiUrl]",
		Handler:     urlHandler,
	})

	r.Register(&Command{
		Name:        "raw",
		ShortName:   ":",
		Group:       groupUtil,
		Description: "Send raw API request",
		Usage:       "raw <method> <path> [json-body]",
		Handler:     rawRequestHandler,
	})

	r.Register(&Command{
		Name:        "verbose",
		Group:       groupUtil,
		Description: "Toggle request tracing",
		Usage:       "verbose",
		Handler:     verboseHandler,
	})
}

func healthHandler(r *Registry, args []string) error {
	resp, err := r.session.Client.Health()
	if err != nil {
		return err
	}

	r.printf("%s\n", r.paint(display.Cyan, "Server Health:"))
	r.printf("  Status:  %s\n", resp.Status)
	r.printf("  Time:    %s\n", time.Unix(resp.Time, 0).Format("2006-01-02 15:04:05"))
	r.printf("  Games:   %d\n", resp.Games)
	if resp.Storage != "" {
		r.printf("  Storage: %s\n", resp.Storage)
	}
	return nil
}

func urlHandler(r *Registry, args []string) error {
	c := r.session.Client
	if len(args) == 0 {
		r.printf("Current API URL: %s\n", c.BaseURL)
		return nil
	}

	url := args[0]
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "http://" + url
	}
	c.SetBaseURL(url)

	r.printf("%s\n", r.paint(display.Cyan, "API URL set to: "+c.BaseURL))
	return nil
}

func rawRequestHandler(r *Registry, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: raw <method> <path> [json-body]")
	}

	body := ""
	if len(args) > 2 {
		body = strings.Join(args[2:], " ")
	}

	resp, err := r.session.Client.RawRequest(args[0], args[1], body)
	if err != nil {
		return err
	}
	if len(resp) > 0 {
		display.PrettyPrintJSON(r.out, resp)
	}
	return nil
}

func verboseHandler(r *Registry, args []string) error {
	r.verbose = !r.verbose
	state := "off"
	if r.verbose {
		state = "on"
	}
	r.printf("Verbose mode %s\n", state)
	return nil
}
