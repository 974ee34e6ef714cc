// Command ignite is a minimal front-end over a single Ignite store rooted
// at the current working directory (spec §6.4). It exposes exactly three
// verbs - set, get, rm - and nothing else: no REPL, no multi-store
// selection, since the engine beneath it is not designed for either.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	ignerrors "github.com/iamNilotpal/ignite/pkg/errors"
	"github.com/iamNilotpal/ignite/pkg/ignite"
	"github.com/iamNilotpal/ignite/pkg/options"
)

func main() {
	flag.Parse()
	args := flag.Args()

	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: ignite <set|get|rm> ...")
		os.Exit(2)
	}

	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	store, err := ignite.NewInstance(ctx, "ignite-cli", options.WithDataDir(dir))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close(ctx)

	os.Exit(run(ctx, store, args))
}

// run executes a single verb and returns the process exit code, matching
// spec §6.4's contract exactly: set always exits 0 on success; get always
// exits 0, printing either the value or the literal "Key not found"; rm
// exits 0 on success, 1 with "Key not found" if the key was absent, and
// any other non-zero code for an unrelated failure.
func run(ctx context.Context, store *ignite.Instance, args []string) int {
	switch args[0] {
	case "set":
		if len(args) != 3 {
			fmt.Fprintln(os.Stderr, "usage: ignite set <key> <value>")
			return 2
		}
		if err := store.Set(ctx, args[1], []byte(args[2])); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0

	case "get":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "usage: ignite get <key>")
			return 2
		}
		value, err := store.Get(ctx, args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		if value == nil {
			fmt.Println("Key not found")
			return 0
		}
		fmt.Println(string(value))
		return 0

	case "rm":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "usage: ignite rm <key>")
			return 2
		}
		if err := store.Delete(ctx, args[1]); err != nil {
			var notFound *ignerrors.IndexError
			if errors.As(err, &notFound) && notFound.Code() == ignerrors.ErrorCodeIndexKeyNotFound {
				fmt.Println("Key not found")
				return 1
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0

	default:
		fmt.Fprintf(os.Stderr, "unknown command %q. Available commands: set, get, rm\n", args[0])
		return 2
	}
}
