package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL drives. App satisfies it; tests
// provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool
	Login(ctx context.Context) error
	SignUp(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Upload(ctx context.Context, path string) error
	List(ctx context.Context) error
	Info(ctx context.Context, id string) error
	Download(ctx context.Context, id, dir string) error
	Delete(ctx context.Context, id string) error
	AllFiles(ctx context.Context) error
	AdminDelete(ctx context.Context, id string) error
	Users(ctx context.Context) error
	Block(ctx context.Context, principal string, blocked bool) error
	Stats(ctx context.Context) error
}

// runREPL reads commands from reader until EOF, "exit" or "quit", and
// dispatches them to a. Command errors are reported and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("cs%s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}

		if err := dispatch(ctx, a, cmd, args); err != nil {
			printlnFn("error:", describe(err))
		}
	}
}

type usageError string

func (u usageError) Error() string { return "usage: " + string(u) }

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	arg := func(usage string) (string, error) {
		if len(args) != 1 {
			return "", usageError(usage)
		}
		return args[0], nil
	}

	switch cmd {
	case "help":
		printHelp(a)
		return nil
	case "login":
		return a.Login(ctx)
	case "signup", "register":
		return a.SignUp(ctx)
	case "logout":
		return a.Logout(ctx)
	case "whoami":
		return a.WhoAmI(ctx)
	case "upload":
		if len(args) == 0 {
			return usageError("upload <path>")
		}
		return a.Upload(ctx, strings.Join(args, " "))
	case "l", "list":
		return a.List(ctx)
	case "info":
		id, err := arg("info <id>")
		if err != nil {
			return err
		}
		return a.Info(ctx, id)
	case "download":
		if len(args) < 1 || len(args) > 2 {
			return usageError("download <id> [dir]")
		}
		dir := ""
		if len(args) == 2 {
			dir = args[1]
		}
		return a.Download(ctx, args[0], dir)
	case "delete":
		id, err := arg("delete <id>")
		if err != nil {
			return err
		}
		return a.Delete(ctx, id)
	case "files-all":
		return a.AllFiles(ctx)
	case "admin-delete":
		id, err := arg("admin-delete <id>")
		if err != nil {
			return err
		}
		return a.AdminDelete(ctx, id)
	case "users":
		return a.Users(ctx)
	case "block", "unblock":
		p, err := arg(cmd + " <principal>")
		if err != nil {
			return err
		}
		return a.Block(ctx, p, cmd == "block")
	case "stats":
		return a.Stats(ctx)
	default:
		printlnFn("Unknown command:", cmd)
		return nil
	}
}

func printHelp(a execIface) {
	switch {
	case !a.isLoggedIn():
		printlnFn("Available commands: login, signup, exit")
	case a.isAdmin():
		printlnFn("Available commands: whoami, upload <path>, (l)ist, info <id>, download <id> [dir], delete <id>, files-all, admin-delete <id>, users, block <principal>, unblock <principal>, stats, logout, exit")
	default:
		printlnFn("Available commands: whoami, upload <path>, (l)ist, info <id>, download <id> [dir], delete <id>, logout, exit")
	}
}
