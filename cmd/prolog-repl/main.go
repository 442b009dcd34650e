// Command prolog-repl is an interactive shell over pkg/prolog: it loads
// clauses from a file and/or typed directly at the prompt, then runs
// queries against them, paging through solutions one at a time — ';'
// for the next solution, Enter or '.' to stop.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/gitrdm/hornclause/pkg/prolog"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	u := prolog.NewUniverse()
	var queryOpts []prolog.QueryOption
	limit := 0

	var files []string
	for _, a := range args {
		switch a {
		case "-v", "--verbose":
			queryOpts = append(queryOpts, prolog.Debug())
		default:
			files = append(files, a)
		}
	}

	for _, f := range files {
		if err := loadFile(u, f); err != nil {
			fmt.Fprintf(os.Stderr, "prolog-repl: %s: %v\n", f, err)
			return 1
		}
	}

	rl, err := readline.New("?- ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "prolog-repl: %v\n", err)
		return 1
	}
	defer rl.Close()

	ctx := context.Background()
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return 0
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "prolog-repl: %v\n", err)
			return 1
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == ":predicates" {
			fmt.Print(u.String())
			continue
		}
		if strings.HasPrefix(line, ":limit") {
			n, err := parseInt(strings.TrimPrefix(line, ":limit"))
			if err != nil {
				fmt.Fprintf(os.Stderr, "usage: :limit N\n")
				continue
			}
			limit = n
			continue
		}
		// A line starting with ":-" asserts a fact or rule; every other
		// line at the "?- " prompt is run as a query.
		if strings.HasPrefix(line, ":-") {
			handleClause(u, strings.TrimPrefix(line, ":-"))
			continue
		}
		opts := queryOpts
		if limit > 0 {
			opts = append(append([]prolog.QueryOption{}, queryOpts...), prolog.Limit(limit))
		}
		handleQuery(ctx, u, rl, line, opts)
	}
}

func handleClause(u *prolog.Universe, src string) {
	head, body, err := ParseClause(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse error: %v\n", err)
		return
	}
	u.AddClause(head, body)
}

func handleQuery(ctx context.Context, u *prolog.Universe, rl *readline.Instance, src string, opts []prolog.QueryOption) {
	goal, vars, err := ParseGoal(strings.TrimSuffix(src, "."))
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse error: %v\n", err)
		return
	}

	qr := u.Query(ctx, goal, vars, opts...)
	defer qr.Close()

	found := false
	for {
		sol, ok := qr.Next(ctx)
		if !ok {
			break
		}
		found = true
		if sol.Len() == 0 {
			fmt.Println("true.")
		} else {
			parts := make([]string, 0, sol.Len())
			for pair := sol.Oldest(); pair != nil; pair = pair.Next() {
				parts = append(parts, fmt.Sprintf("%s = %s", pair.Key, pair.Value.String()))
			}
			fmt.Println(strings.Join(parts, ", "))
		}

		rl.SetPrompt("")
		more, err := rl.Readline()
		rl.SetPrompt("?- ")
		if err != nil {
			return
		}
		if strings.TrimSpace(more) != ";" {
			return
		}
	}
	if !found {
		fmt.Println("false.")
	}
}

func loadFile(u *prolog.Universe, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	for _, clause := range splitClauses(string(data)) {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		head, body, err := ParseClause(clause + ".")
		if err != nil {
			return fmt.Errorf("clause %q: %w", clause, err)
		}
		u.AddClause(head, body)
	}
	return nil
}

// splitClauses breaks a program's source on top-level '.' terminators. It
// does not need to be parenthesis-aware beyond balancing, since every
// clause in this surface syntax is a single flat statement.
func splitClauses(src string) []string {
	var out []string
	depth := 0
	start := 0
	for i, r := range src {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case '.':
			if depth == 0 {
				out = append(out, src[start:i])
				start = i + 1
			}
		}
	}
	return out
}

