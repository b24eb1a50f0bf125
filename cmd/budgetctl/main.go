package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"

	"budget/internal/app/logger"
	"budget/pkg/client"
)

const usage = `budgetctl [flags] <command> [args]

Commands:
  health
  register <user_name> <password> <email> <phone> [address]
  login <user_name> <password>          prints the session token
  me                                    needs --token
  users
  user <id>
  delete-user <id>
  add <expense|revenue> <user_id> <amount> [description]
  list <expense|revenue> [user_id]
  remove <expense|revenue> <id>

Flags:
`

var errUsage = errors.New("invalid arguments")

func main() {
	flags := pflag.NewFlagSet("budgetctl", pflag.ExitOnError)
	server := flags.StringP("server", "s", "http://localhost:8088", "Budget API address")
	token := flags.StringP("token", "t", os.Getenv("BUDGET_TOKEN"), "Session token")
	timeout := flags.Duration("timeout", 10*time.Second, "Request timeout")
	verbose := flags.BoolP("verbose", "v", false, "Verbose output")
	flags.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flags.PrintDefaults()
	}
	_ = flags.Parse(os.Args[1:])

	l := logger.NewWithWriter(os.Stderr, *verbose, true)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, *timeout)
	defer cancelTimeout()

	c := client.New(*server, client.WithToken(*token), client.WithLogger(l.Logger))

	out, err := run(ctx, c, flags.Args())
	if errors.Is(err, errUsage) {
		flags.Usage()
		os.Exit(2)
	}
	if err != nil {
		l.Fatal().Err(err).Msg("Command failed")
	}

	if out != nil {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	}
}

func run(ctx context.Context, c *client.Client, args []string) (interface{}, error) {
	if len(args) == 0 {
		return nil, errUsage
	}

	cmd, args := args[0], args[1:]
	switch {
	case cmd == "health":
		return c.Health(ctx)
	case cmd == "register" && (len(args) == 4 || len(args) == 5):
		in := &client.UserRequest{Name: args[0], Password: args[1], Email: args[2], Phone: args[3]}
		if len(args) == 5 {
			in.Address = args[4]
		}
		return c.Register(ctx, in)
	case cmd == "login" && len(args) == 2:
		return c.Login(ctx, args[0], args[1])
	case cmd == "me":
		return c.Me(ctx)
	case cmd == "users":
		return c.Users(ctx)
	case cmd == "user" && len(args) == 1:
		id, err := parseID(args[0])
		if err != nil {
			return nil, err
		}
		return c.User(ctx, id)
	case cmd == "delete-user" && len(args) == 1:
		id, err := parseID(args[0])
		if err != nil {
			return nil, err
		}
		return nil, c.DeleteUser(ctx, id)
	case cmd == "add" && (len(args) == 3 || len(args) == 4):
		kind, err := parseKind(args[0])
		if err != nil {
			return nil, err
		}
		userID, err := parseID(args[1])
		if err != nil {
			return nil, err
		}
		amount, err := decimal.NewFromString(args[2])
		if err != nil {
			return nil, fmt.Errorf("amount: %w", err)
		}
		in := &client.RecordRequest{UserID: userID, Amount: amount}
		if len(args) == 4 {
			in.Description = args[3]
		}
		return c.CreateRecord(ctx, kind, in)
	case cmd == "list" && (len(args) == 1 || len(args) == 2):
		kind, err := parseKind(args[0])
		if err != nil {
			return nil, err
		}
		if len(args) == 1 {
			return c.Records(ctx, kind)
		}
		userID, err := parseID(args[1])
		if err != nil {
			return nil, err
		}
		return c.RecordsByUser(ctx, kind, userID)
	case cmd == "remove" && len(args) == 2:
		kind, err := parseKind(args[0])
		if err != nil {
			return nil, err
		}
		id, err := parseID(args[1])
		if err != nil {
			return nil, err
		}
		return nil, c.DeleteRecord(ctx, kind, id)
	}

	return nil, errUsage
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%q is not an id: %w", s, errUsage)
	}
	return id, nil
}

func parseKind(s string) (client.Kind, error) {
	switch k := client.Kind(s); k {
	case client.KindExpense, client.KindRevenue:
		return k, nil
	}
	return "", fmt.Errorf("%q is not a record kind: %w", s, errUsage)
}
