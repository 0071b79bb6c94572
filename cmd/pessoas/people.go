package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/prefeitura-rio/app-pessoas/internal/models"
	"github.com/prefeitura-rio/app-pessoas/internal/personform"
	"github.com/prefeitura-rio/app-pessoas/internal/services"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newListCmd(a *app) *cobra.Command {
	var page, limit int
	var query string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List people, optionally filtered by name or CPF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params, err := services.ParsePaginationParams(strconv.Itoa(page), strconv.Itoa(limit), query)
			if err != nil {
				return err
			}

			ctx, cancel := a.commandContext(cmd)
			defer cancel()
			if ctx, err = a.authed(ctx); err != nil {
				return err
			}

			dir := services.NewPersonDirectory(a.api, a.logger)
			result, err := dir.Search(ctx, params.Search, params)
			if err != nil {
				return describeError(err)
			}
			printPeople(cmd.OutOrStdout(), result.Data)
			printWindow(cmd.OutOrStdout(), services.PageWindowFor(*result), result.Total)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", models.DefaultPage, "page number")
	cmd.Flags().IntVar(&limit, "limit", models.DefaultLimit, fmt.Sprintf("people per page (max %d)", models.MaxLimit))
	cmd.Flags().StringVarP(&query, "q", "q", "", "search term")
	return cmd
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one person",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.commandContext(cmd)
			defer cancel()
			ctx, err := a.authed(ctx)
			if err != nil {
				return err
			}

			p, err := a.api.GetPerson(ctx, args[0])
			if err != nil {
				return describeError(err)
			}
			printPerson(cmd.OutOrStdout(), *p)
			return nil
		},
	}
}

// personFlags binds one flag per form field
type personFlags struct {
	values map[string]*string
}

func bindPersonFlags(flags *pflag.FlagSet) *personFlags {
	pf := &personFlags{values: map[string]*string{}}
	for _, f := range []struct{ field, name, usage string }{
		{personform.FieldNome, "nome", "full name"},
		{personform.FieldCPF, "cpf", "CPF, formatted or digits only"},
		{personform.FieldEmail, "email", "email address"},
		{personform.FieldDataNascimento, "nascimento", "birth date, YYYY-MM-DD"},
		{personform.FieldSexo, "sexo", "gender (Masculino, Feminino)"},
		{personform.FieldNaturalidade, "naturalidade", "birthplace"},
		{personform.FieldNacionalidade, "nacionalidade", "nationality"},
	} {
		pf.values[f.field] = flags.String(f.name, "", f.usage)
		_ = flags.SetAnnotation(f.name, "field", []string{f.field})
	}
	return pf
}

// apply copies the flags set on the command line into the form
func (pf *personFlags) apply(flags *pflag.FlagSet, form *personform.Form) error {
	var err error
	flags.Visit(func(f *pflag.Flag) {
		field, ok := f.Annotations["field"]
		if !ok || err != nil {
			return
		}
		err = form.SetField(field[0], *pf.values[field[0]])
	})
	return err
}

func newCreateCmd(a *app) *cobra.Command {
	var pf *personFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a person",
		Example: `  pessoas create --nome "Ana Souza" --cpf 529.982.247-25 --nascimento 1990-05-10 \
    --email ana@example.com --sexo Feminino --nacionalidade Brasileira`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			form := personform.New(models.Person{}, a.formOptions(personform.ModeCreate))
			if err := pf.apply(cmd.Flags(), form); err != nil {
				return err
			}

			ctx, cancel := a.commandContext(cmd)
			defer cancel()
			ctx, err := a.authed(ctx)
			if err != nil {
				return err
			}

			return a.submit(ctx, cmd.OutOrStdout(), form, a.api.CreatePerson)
		},
	}
	pf = bindPersonFlags(cmd.Flags())
	return cmd
}

func newUpdateCmd(a *app) *cobra.Command {
	var pf *personFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the fields given as flags, keeping the others",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			ctx, cancel := a.commandContext(cmd)
			defer cancel()
			ctx, err := a.authed(ctx)
			if err != nil {
				return err
			}

			current, err := a.api.GetPerson(ctx, id)
			if err != nil {
				return describeError(err)
			}

			form := personform.New(*current, a.formOptions(personform.ModeEdit))
			if err := pf.apply(cmd.Flags(), form); err != nil {
				return err
			}
			return a.submit(ctx, cmd.OutOrStdout(), form, func(ctx context.Context, p models.Person) (*models.Person, error) {
				return a.api.UpdatePerson(ctx, id, p)
			})
		},
	}
	pf = bindPersonFlags(cmd.Flags())
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a person",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.commandContext(cmd)
			defer cancel()
			ctx, err := a.authed(ctx)
			if err != nil {
				return err
			}

			if err := a.api.DeletePerson(ctx, args[0]); err != nil {
				if models.IsKind(err, models.KindUnauthorized) {
					return describeError(err)
				}
				return fmt.Errorf("%s: %w", models.MsgDeleteError, describeError(err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), models.MsgPersonDeleted)
			return nil
		},
	}
}

func (a *app) formOptions(mode personform.Mode) personform.Options {
	return personform.Options{
		Mode:   mode,
		Now:    time.Now,
		MinAge: a.cfg.FormMinAge,
		Logger: a.logger,
	}
}

// submit runs the form and prints either the field errors or the saved person
func (a *app) submit(ctx context.Context, out io.Writer, form *personform.Form, fn personform.SubmitFunc) error {
	res := form.Submit(ctx, fn)
	if errors.Is(res.Err, personform.ErrValidation) {
		fields := make([]string, 0, len(res.Errors))
		for field := range res.Errors {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			fmt.Fprintf(out, "%s: %s\n", field, res.Errors[field])
		}
		return res.Err
	}
	if res.Err != nil {
		return describeError(res.Err)
	}

	fmt.Fprintln(out, res.Notification.Message)
	printPerson(out, *res.Person)
	return nil
}

func printPeople(out io.Writer, people []models.Person) {
	if len(people) == 0 {
		fmt.Fprintln(out, "Nenhuma pessoa encontrada")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNOME\tCPF\tNASCIMENTO\tEMAIL")
	for _, p := range people {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Nome, p.FormattedCPF(), p.DataNascimento, p.Email)
	}
	_ = tw.Flush()
}

func printWindow(out io.Writer, w models.PageWindow, total int) {
	if total == 0 {
		return
	}
	fmt.Fprintf(out, "Mostrando %d a %d de %d\n", w.StartItem, w.EndItem, total)
	if !w.Visible {
		return
	}
	pages := make([]string, 0, len(w.Pages))
	for _, n := range w.Pages {
		if n == 0 {
			pages = append(pages, "...")
			continue
		}
		pages = append(pages, strconv.Itoa(n))
	}
	fmt.Fprintf(out, "Páginas: %s\n", strings.Join(pages, " "))
}

func printPerson(out io.Writer, p models.Person) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, row := range [][2]string{
		{"ID", p.ID},
		{"Nome", p.Nome},
		{"CPF", p.FormattedCPF()},
		{"E-mail", p.Email},
		{"Nascimento", p.DataNascimento},
		{"Sexo", p.Sexo},
		{"Naturalidade", p.Naturalidade},
		{"Nacionalidade", p.Nacionalidade},
	} {
		if row[1] != "" {
			fmt.Fprintf(tw, "%s:\t%s\n", row[0], row[1])
		}
	}
	_ = tw.Flush()
}
