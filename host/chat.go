package host

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Chat runs the interactive loop: one query per line, answers written to
// w. The literal "quit" (any case, surrounding whitespace ignored) ends
// the loop, empty lines are skipped, and a failed query is reported
// without ending the session. Cancellation is honored between queries.
func (s *Session) Chat(ctx context.Context, r io.Reader, w io.Writer) error {
	fmt.Fprintln(w, "Connected to server with tools:", strings.Join(s.ToolNames(), ", "))
	fmt.Fprintln(w, "Type your queries or 'quit' to exit.")

	scanner := bufio.NewScanner(r)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(w, "\nQuery: ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read query: %w", err)
			}
			return nil
		}

		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if strings.EqualFold(query, "quit") {
			return nil
		}

		answer, err := s.ProcessQuery(ctx, query)
		if err != nil {
			fmt.Fprintf(w, "\nError: %v\n", err)
			continue
		}
		fmt.Fprintf(w, "\n%s\n", answer)
	}
}
