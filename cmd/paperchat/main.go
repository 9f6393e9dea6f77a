// ABOUTME: Command-line session client for the paperchat gateway
// ABOUTME: Persists the bearer token between invocations and re-prompts on 401

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/BurntSushi/toml"
	"github.com/fatih/color"

	"github.com/paperchat/paperchat-gateway/internal/session"
)

// cliConfig is the TOML config for the CLI, separate from the server's YAML.
type cliConfig struct {
	GatewayURL   string `toml:"gateway_url"`
	DefaultIndex string `toml:"default_index"`
	TopK         int    `toml:"top_k"`
}

// getConfigPath returns the path to the CLI config file.
// Priority: PAPERCHAT_CLI_CONFIG env var > XDG_CONFIG_HOME/paperchat/cli.toml > ~/.config/paperchat/cli.toml
func getConfigPath() string {
	if envPath := os.Getenv("PAPERCHAT_CLI_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "cli.toml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "paperchat", "cli.toml")
}

// getTokenPath returns where the bearer token is cached between runs.
// Priority: XDG_STATE_HOME/paperchat/token > ~/.local/state/paperchat/token
func getTokenPath() string {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "token" // fallback
		}
		stateDir = filepath.Join(homeDir, ".local", "state")
	}

	return filepath.Join(stateDir, "paperchat", "token")
}

func loadConfig() (*cliConfig, error) {
	cfg := &cliConfig{
		GatewayURL: "http://localhost:8080",
		TopK:       5,
	}

	path := getConfigPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.GatewayURL == "" {
		return nil, fmt.Errorf("gateway_url is required in %s", path)
	}
	return cfg, nil
}

func loadToken(c *session.Client) {
	data, err := os.ReadFile(getTokenPath())
	if err != nil {
		return
	}
	c.SetToken(strings.TrimSpace(string(data)))
}

func saveToken(token string) error {
	path := getTokenPath()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(token), 0600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	return nil
}

func clearToken() {
	os.Remove(getTokenPath())
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: paperchat <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  register              Create a new account")
		fmt.Println("  login                 Log in and save a session token")
		fmt.Println("  logout                Discard the saved session token")
		fmt.Println("  me                    Show the logged-in account")
		fmt.Println("  indexes               List available document indexes")
		fmt.Println("  ask <index> <query>   Ask a question against an index")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	client := session.New(cfg.GatewayURL)
	loadToken(client)

	switch os.Args[1] {
	case "register":
		err = runRegister(ctx, client)
	case "login":
		err = runLogin(ctx, client)
	case "logout":
		client.Logout()
		clearToken()
		fmt.Println("Logged out.")
	case "me":
		err = runMe(ctx, client)
	case "indexes":
		err = runIndexes(ctx, client)
	case "ask":
		err = runAsk(ctx, client, cfg)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	// Whatever the command, a rejected token means the saved session is gone.
	if errors.Is(err, session.ErrUnauthorized) {
		clearToken()
		yellow := color.New(color.FgYellow)
		yellow.Fprintln(os.Stderr, "Session expired. Run 'paperchat login' to sign in again.")
		os.Exit(1)
	}
	if errors.Is(err, session.ErrNotLoggedIn) {
		fmt.Fprintln(os.Stderr, "Not logged in. Run 'paperchat login' first.")
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runRegister(ctx context.Context, client *session.Client) error {
	reader := bufio.NewReader(os.Stdin)
	email := prompt(reader, "Email")
	username := prompt(reader, "Username")
	password := prompt(reader, "Password")

	account, err := client.Register(ctx, email, username, password)
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen)
	green.Printf("✓ Account created: %s <%s>\n", account.Username, account.Email)
	fmt.Println("Run 'paperchat login' to sign in.")
	return nil
}

func runLogin(ctx context.Context, client *session.Client) error {
	reader := bufio.NewReader(os.Stdin)
	username := prompt(reader, "Username")
	password := prompt(reader, "Password")

	if err := client.Login(ctx, username, password); err != nil {
		return err
	}
	if err := saveToken(client.Token()); err != nil {
		return err
	}

	green := color.New(color.FgGreen)
	green.Printf("✓ Logged in as %s\n", username)
	return nil
}

func runMe(ctx context.Context, client *session.Client) error {
	account, err := client.Me(ctx)
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan)
	cyan.Println("Account")
	cyan.Println("-------")
	fmt.Printf("ID:       %s\n", account.ID)
	fmt.Printf("Username: %s\n", account.Username)
	fmt.Printf("Email:    %s\n", account.Email)
	fmt.Printf("Created:  %s\n", account.CreatedAt)
	return nil
}

func runIndexes(ctx context.Context, client *session.Client) error {
	indexes, err := client.Indexes(ctx)
	if err != nil {
		return err
	}

	if len(indexes) == 0 {
		fmt.Println("No indexes available.")
		return nil
	}
	for _, name := range indexes {
		fmt.Println(name)
	}
	return nil
}

func runAsk(ctx context.Context, client *session.Client, cfg *cliConfig) error {
	args := os.Args[2:]

	index := cfg.DefaultIndex
	topK := cfg.TopK

	// ask [--top-k N] [index] <question words...>
	var words []string
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--top-k" || args[i] == "-k":
			if i+1 >= len(args) {
				return fmt.Errorf("--top-k requires a value")
			}
			n, err := strconv.Atoi(args[i+1])
			if err != nil {
				return fmt.Errorf("invalid --top-k value: %s", args[i+1])
			}
			topK = n
			i++
		case strings.HasPrefix(args[i], "-"):
			return fmt.Errorf("unknown flag: %s", args[i])
		default:
			words = append(words, args[i])
		}
	}

	if len(words) >= 2 {
		index = words[0]
		words = words[1:]
	}
	if index == "" {
		return fmt.Errorf("no index given and no default_index configured")
	}
	if len(words) == 0 {
		return fmt.Errorf("usage: paperchat ask <index> <question>")
	}

	answer, err := client.Ask(ctx, index, strings.Join(words, " "), topK)
	if err != nil {
		return err
	}

	fmt.Println(answer)
	return nil
}

func prompt(reader *bufio.Reader, question string) string {
	fmt.Printf("%s: ", question)
	input, err := reader.ReadString('\n')
	if err != nil {
		fmt.Println()
		return ""
	}
	return strings.TrimSpace(input)
}
