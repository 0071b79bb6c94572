package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/prefeitura-rio/app-pessoas/internal/apiclient"
	"github.com/prefeitura-rio/app-pessoas/internal/autocomplete"
	"github.com/prefeitura-rio/app-pessoas/internal/services"
	"github.com/prefeitura-rio/app-pessoas/internal/session"
	"github.com/spf13/cobra"
)

func newSuggestCmd(a *app) *cobra.Command {
	var delay time.Duration
	var showWhileLoading bool

	cmd := &cobra.Command{
		Use:   "suggest <nationalities|birthplaces|genders>",
		Short: "Run the form autocomplete over text read from stdin",
		Long: `Each stdin line is the full content of the input after a keystroke.
Lines arriving within the debounce delay are coalesced; every settled lookup
prints "<text>: <suggestions>". Input ends at EOF.`,
		Example:   `  printf 'b\nbr\nbra\n' | pessoas suggest nationalities`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{services.ReferenceNationalities, services.ReferenceBirthplaces, services.ReferenceGenders},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := args[0]

			reference := services.NewReferenceService(a.api, nil, 0, a.logger)
			search, err := reference.SearchFunc(kind)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if kind != services.ReferenceGenders {
				if ctx, err = a.authed(ctx); err != nil {
					return err
				}
			}

			// lookups run on the autocomplete's own context; carry the credentials over
			token := apiclient.TokenFromContext(ctx)
			current, hasSession := session.FromContext(ctx)
			bound := func(qctx context.Context, q string) ([]string, error) {
				qctx = apiclient.WithToken(qctx, token)
				if hasSession {
					qctx = session.WithSession(qctx, current)
				}
				return search(qctx, q)
			}

			if !cmd.Flags().Changed("delay") {
				delay = a.delayFor(kind)
			}
			return runSuggest(cmd.InOrStdin(), cmd.OutOrStdout(), kind, bound, autocomplete.Options{
				Delay:            delay,
				ShowWhileLoading: showWhileLoading,
				Logger:           a.logger,
			})
		},
	}

	cmd.Flags().DurationVar(&delay, "delay", 0, "debounce delay (default per source)")
	cmd.Flags().BoolVar(&showWhileLoading, "show-while-loading", false, "keep the dropdown open while a lookup is running")
	return cmd
}

func (a *app) delayFor(kind string) time.Duration {
	switch kind {
	case services.ReferenceGenders:
		return a.cfg.DebounceGender
	default:
		return a.cfg.DebounceReference
	}
}

// runSuggest feeds stdin lines into an Autocomplete and prints each settled lookup
func runSuggest(in io.Reader, out io.Writer, source string, search autocomplete.SearchFunc, opts autocomplete.Options) error {
	var mu sync.Mutex
	loading := false

	opts.Source = source
	opts.OnUpdate = func(s autocomplete.State) {
		mu.Lock()
		defer mu.Unlock()
		if loading && !s.Loading && strings.TrimSpace(s.Query) != "" {
			if len(s.Suggestions) == 0 {
				fmt.Fprintf(out, "%s: (nenhuma sugestão)\n", s.Query)
			} else {
				fmt.Fprintf(out, "%s: %s\n", s.Query, strings.Join(s.Suggestions, ", "))
			}
		}
		loading = s.Loading
	}

	ac := autocomplete.New(search, opts)
	defer ac.Close()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		ac.Input(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	ac.Flush()
	ac.Wait()
	return nil
}
