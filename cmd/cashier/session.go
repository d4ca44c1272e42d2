package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"cashierku_backend/internals/features/finance/wizard"

	"github.com/charmbracelet/log"
)

const helpText = `commands:
  search <text>          find students by name or number
  find <text>            like search, answered once typing settles
  pick <n>               select the n-th search result
  fees                   show fees, selection and amount
  toggle <n>             check or uncheck the n-th fee
  amount <value|reset>   override the amount or go back to the fee total
  refresh                reload the fee list
  pay <cash|check|online> [YYYY-MM-DD] [purpose...]
  clear                  start over
  quit`

type client interface {
	wizard.FeeCatalog
	wizard.StudentDirectory
	wizard.PaymentSubmitter
}

type session struct {
	wz  *wizard.Wizard
	log *log.Logger
	now func() time.Time

	// find answers arrive from the debounce timer, so out and results are shared
	mu      sync.Mutex
	out     io.Writer
	results []wizard.StudentSummary
}

func newSession(c client, out io.Writer, logger *log.Logger, debounce time.Duration) *session {
	s := &session{out: out, log: logger, now: time.Now}
	s.wz = wizard.New(c, c, c, wizard.Options{Debounce: debounce, OnSearch: s.found})
	return s
}

func (s *session) printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, format, args...)
}

// found receives settled find lookups.
func (s *session) found(query string, res []wizard.StudentSummary, err error) {
	if err != nil {
		s.log.Error("find "+query, "err", err)
		return
	}
	s.log.Debug("find settled", "query", query, "hits", len(res))
	s.showResults(query, res)
}

func (s *session) showResults(query string, res []wizard.StudentSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = res
	if len(res) == 0 {
		fmt.Fprintf(s.out, "no students match %q\n", query)
	}
	for i, st := range res {
		fmt.Fprintf(s.out, "%2d. %-12s %-28s %-10s balance %s\n", i+1, st.StudentNumber, st.Name, st.GradeLevelName, st.Balance.StringFixed(2))
	}
}

func (s *session) lastResults() []wizard.StudentSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results
}

// run reads one command per line until quit, EOF or ctx ends.
func (s *session) run(ctx context.Context, in io.Reader) error {
	defer s.wz.Clear() // drops a pending find
	s.printf("%s\n> ", helpText)
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line := strings.TrimSpace(sc.Text())
		if line == "quit" || line == "exit" {
			return nil
		}
		if line != "" {
			if err := s.exec(ctx, line); err != nil {
				s.log.Error(line, "err", err)
			}
		}
		s.printf("> ")
	}
	return sc.Err()
}

func (s *session) exec(ctx context.Context, line string) error {
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(cmd) {
	case "help", "?":
		s.printf("%s\n", helpText)
	case "search":
		res, err := s.wz.SearchNow(ctx, rest)
		if err != nil {
			return err
		}
		s.showResults(rest, res)
	case "find":
		if rest == "" {
			return errors.New("usage: find <text>")
		}
		s.wz.Search(ctx, rest)
	case "pick":
		results := s.lastResults()
		n, err := index(rest, len(results))
		if err != nil {
			return err
		}
		if err := s.wz.Select(ctx, results[n]); err != nil {
			return err
		}
		s.showFees()
	case "fees":
		s.showFees()
	case "toggle":
		fees := s.wz.Fees()
		n, err := index(rest, len(fees))
		if err != nil {
			return err
		}
		checked := true
		for _, f := range s.wz.SelectedFees() {
			if f.ID == fees[n].ID {
				checked = false
			}
		}
		if err := s.wz.ToggleFee(fees[n].ID, checked); err != nil {
			return err
		}
		s.showFees()
	case "amount":
		if rest == "reset" {
			s.wz.ResetToCalculatedTotal()
		} else {
			s.wz.SetAmount(rest)
		}
		s.printf("amount: %s\n", s.wz.Amount().StringFixed(2))
	case "refresh":
		if err := s.wz.Refresh(ctx); err != nil {
			return err
		}
		s.showFees()
	case "pay":
		return s.pay(ctx, rest)
	case "clear":
		s.wz.Clear()
		s.mu.Lock()
		s.results = nil
		s.mu.Unlock()
		s.printf("cleared\n")
	default:
		return fmt.Errorf("unknown command %q, type help", cmd)
	}
	return nil
}

func (s *session) pay(ctx context.Context, args string) error {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return errors.New("usage: pay <cash|check|online> [YYYY-MM-DD] [purpose...]")
	}
	in := wizard.SubmitInput{Method: fields[0], Date: s.now().Format("2006-01-02")}
	fields = fields[1:]
	if len(fields) > 0 {
		if _, err := time.Parse("2006-01-02", fields[0]); err == nil {
			in.Date = fields[0]
			fields = fields[1:]
		}
	}
	in.Purpose = strings.Join(fields, " ")

	rc, err := s.wz.Submit(ctx, in)
	if err != nil {
		var apiErr *wizard.APIError
		if errors.As(err, &apiErr) {
			for field, msgs := range apiErr.Errors {
				s.printf("  %s: %s\n", field, strings.Join(msgs, "; "))
			}
		}
		return err
	}
	s.log.Info("payment recorded", "receipt", rc.ReceiptNumber, "amount", rc.Amount.StringFixed(2))
	s.printf("receipt %s  %s  %s  %s\n", rc.ReceiptNumber, rc.Date, rc.Method, rc.Amount.StringFixed(2))
	if rc.CheckoutURL != nil {
		s.printf("checkout: %s\n", *rc.CheckoutURL)
	}
	return nil
}

func (s *session) showFees() {
	st, ok := s.wz.Student()
	if !ok {
		s.printf("no student selected\n")
		return
	}
	s.printf("%s (%s) %s [%s]\n", st.Name, st.StudentNumber, st.GradeLevelName, s.wz.Phase())

	picked := map[string]bool{}
	for _, f := range s.wz.SelectedFees() {
		picked[f.ID.String()] = true
	}
	for i, f := range s.wz.Fees() {
		mark := " "
		if picked[f.ID.String()] {
			mark = "x"
		}
		req := ""
		if f.IsRequired {
			req = " (required)"
		}
		s.printf("  [%s] %d. %-20s %12s%s\n", mark, i+1, f.FeeType, f.Amount.StringFixed(2), req)
	}
	s.printf("total: %s", s.wz.CalculatedTotal().StringFixed(2))
	if s.wz.AmountManuallyEdited() {
		s.printf("  amount: %s (edited)", s.wz.Amount().StringFixed(2))
	}
	s.printf("\n")
}

func index(arg string, n int) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || i < 1 || i > n {
		return 0, fmt.Errorf("pick a number between 1 and %d", n)
	}
	return i - 1, nil
}
