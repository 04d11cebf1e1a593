package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/iudanet/medfichas/internal/client/data"
	"github.com/iudanet/medfichas/internal/models"
)

// patientInput значения полей из флагов, changed отмечает явно заданные
type patientInput struct {
	changed   map[string]bool
	name      string
	email     string
	phone     string
	gender    string
	dob       string
	notes     string
	insurance string
}

func bindPatientFlags(cmd *cobra.Command, in *patientInput) {
	f := cmd.Flags()
	f.StringVar(&in.name, "name", "", "full name")
	f.StringVar(&in.email, "email", "", "contact email")
	f.StringVar(&in.phone, "phone", "", "contact phone number")
	f.StringVar(&in.gender, "gender", "", "gender: male, female or other")
	f.StringVar(&in.dob, "dob", "", "date of birth (YYYY-MM-DD)")
	f.StringVar(&in.notes, "notes", "", "clinical notes")
	f.StringVar(&in.insurance, "insurance", "", "health insurance provider")
}

var patientFlagNames = []string{"name", "email", "phone", "gender", "dob", "notes", "insurance"}

func (in *patientInput) collectChanged(cmd *cobra.Command) {
	in.changed = make(map[string]bool)
	for _, name := range patientFlagNames {
		if cmd.Flags().Changed(name) {
			in.changed[name] = true
		}
	}
}

// apply переносит явно заданные поля в карточку
func (in *patientInput) apply(p *models.Patient) {
	set := func(flag string, dst *string, v string) {
		if in.changed[flag] {
			*dst = v
		}
	}
	set("name", &p.FullName, in.name)
	set("email", &p.Email, in.email)
	set("phone", &p.PhoneNumber, in.phone)
	set("gender", &p.Gender, in.gender)
	set("dob", &p.DOB, in.dob)
	set("notes", &p.Notes, in.notes)
	set("insurance", &p.HealthInsurance, in.insurance)
}

func newPatientCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "patient",
		Aliases: []string{"patients", "p"},
		Short:   "Manage patient records",
	}

	cmd.AddCommand(
		newPatientAddCommand(a),
		newPatientEditCommand(a),
		newPatientListCommand(a),
		newPatientGetCommand(a),
		newPatientDeleteCommand(a),
		newPatientExportCommand(a),
	)
	return cmd
}

func newPatientAddCommand(a *app) *cobra.Command {
	in := &patientInput{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a patient (prompts for fields when --name is not given)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in.collectChanged(cmd)
			return a.cli.runPatientAdd(cmd.Context(), in)
		},
	}
	bindPatientFlags(cmd, in)
	return cmd
}

func newPatientEditCommand(a *app) *cobra.Command {
	in := &patientInput{}
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a patient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.collectChanged(cmd)
			return a.cli.runPatientEdit(cmd.Context(), args[0], in)
		},
	}
	bindPatientFlags(cmd, in)
	return cmd
}

func newPatientListCommand(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List patients, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli.runPatientList(cmd.Context(), format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format (table|json|yaml)")
	return cmd
}

func newPatientGetCommand(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show full patient details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli.runPatientGet(cmd.Context(), args[0], format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text|json|yaml)")
	return cmd
}

func newPatientDeleteCommand(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a patient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli.runPatientDelete(cmd.Context(), args[0], yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newPatientExportCommand(a *app) *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export patients as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli.runPatientExport(cmd.Context(), format, output)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "export format (json|yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func (c *Cli) runPatientAdd(ctx context.Context, in *patientInput) error {
	p := &models.Patient{}

	if in.changed["name"] {
		in.apply(p)
	} else if err := c.promptPatient(p); err != nil {
		return err
	}

	result := c.dataService.SavePatient(ctx, p)
	if !result.Success {
		return fmt.Errorf("failed to add patient: %w", result.Err)
	}

	c.io.Println()
	c.io.Println("✓ Patient added successfully!")
	c.io.Printf("ID: %s\n", result.ID)
	c.printWriteMode(result)
	return nil
}

func (c *Cli) runPatientEdit(ctx context.Context, id string, in *patientInput) error {
	if len(in.changed) == 0 {
		return fmt.Errorf("nothing to change, pass at least one field flag")
	}

	p, _, err := c.dataService.GetPatient(ctx, id)
	if err != nil {
		if errors.Is(err, data.ErrPatientNotFound) {
			return fmt.Errorf("patient not found with ID: %s", id)
		}
		return fmt.Errorf("failed to get patient: %w", err)
	}

	in.apply(p)

	result := c.dataService.SavePatient(ctx, p)
	if !result.Success {
		return fmt.Errorf("failed to update patient: %w", result.Err)
	}

	c.io.Println("✓ Patient updated successfully!")
	c.printWriteMode(result)
	return nil
}

func (c *Cli) runPatientList(ctx context.Context, format string) error {
	patients, source, err := c.dataService.ListPatients(ctx)
	if err != nil {
		return fmt.Errorf("failed to list patients: %w", err)
	}

	switch format {
	case "json", "yaml":
		return writeRecords(c.io, format, patients)
	case "table", "":
	default:
		return fmt.Errorf("unknown format %q, use table, json or yaml", format)
	}

	if len(patients) == 0 {
		c.io.Println("No patients found.")
		c.io.Println()
		c.io.Println("Use 'medfichas patient add' to add your first patient.")
		return nil
	}

	c.io.Printf("Found %d patient(s) (%s):\n\n", len(patients), source)

	tw := tabwriter.NewWriter(c.io, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tAGE\tGENDER\tPHONE\tEMAIL")
	now := c.now()
	for _, p := range patients {
		age := ""
		if a := p.Age(now); a >= 0 {
			age = fmt.Sprint(a)
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", p.ID, p.FullName, age, p.Gender, p.PhoneNumber, p.Email)
	}
	return tw.Flush()
}

// patientView данные для шаблона карточки
type patientView struct {
	*models.Patient
	Source data.Source
	Age    int
}

func (c *Cli) runPatientGet(ctx context.Context, id, format string) error {
	p, source, err := c.dataService.GetPatient(ctx, id)
	if err != nil {
		if errors.Is(err, data.ErrPatientNotFound) {
			return fmt.Errorf("patient not found with ID: %s", id)
		}
		return fmt.Errorf("failed to get patient: %w", err)
	}

	switch format {
	case "json", "yaml":
		rec, err := p.ToRecord()
		if err != nil {
			return err
		}
		return writeEncoded(c.io, format, rec)
	case "text", "":
	default:
		return fmt.Errorf("unknown format %q, use text, json or yaml", format)
	}

	tmpl, err := template.New("patient").Parse(patientTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return tmpl.Execute(c.io, patientView{Patient: p, Source: source, Age: p.Age(c.now())})
}

func (c *Cli) runPatientDelete(ctx context.Context, id string, yes bool) error {
	p, _, err := c.dataService.GetPatient(ctx, id)
	if err != nil {
		if errors.Is(err, data.ErrPatientNotFound) {
			return fmt.Errorf("patient not found with ID: %s", id)
		}
		return fmt.Errorf("failed to get patient: %w", err)
	}

	if !yes {
		ok, err := c.io.Confirm(fmt.Sprintf("Delete patient %q (%s)?", p.FullName, p.ID))
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if !ok {
			c.io.Println("Cancelled.")
			return nil
		}
	}

	result := c.dataService.DeletePatient(ctx, id)
	if !result.Success {
		return fmt.Errorf("failed to delete patient: %w", result.Err)
	}

	c.io.Println("✓ Patient deleted.")
	c.printWriteMode(result)
	return nil
}

func (c *Cli) runPatientExport(ctx context.Context, format, output string) error {
	if format != "json" && format != "yaml" {
		return fmt.Errorf("unknown format %q, use json or yaml", format)
	}

	patients, _, err := c.dataService.ListPatients(ctx)
	if err != nil {
		return fmt.Errorf("failed to list patients: %w", err)
	}

	var w io.Writer = c.io
	if output != "" {
		f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	if err := writeRecords(w, format, patients); err != nil {
		return err
	}

	if output != "" {
		c.io.Printf("✓ Exported %d patient(s) to %s\n", len(patients), output)
	}
	return nil
}

func (c *Cli) promptPatient(p *models.Patient) error {
	c.io.Println("=== Add Patient ===")
	c.io.Println()

	fields := []struct {
		dst    *string
		prompt string
	}{
		{&p.FullName, "Full name: "},
		{&p.Email, "Email (optional): "},
		{&p.PhoneNumber, "Phone (optional): "},
		{&p.Gender, "Gender - male/female/other (optional): "},
		{&p.DOB, "Date of birth YYYY-MM-DD (optional): "},
		{&p.HealthInsurance, "Health insurance (optional): "},
		{&p.Notes, "Notes (optional): "},
	}

	for _, f := range fields {
		v, err := c.io.ReadInput(f.prompt)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		*f.dst = v
	}

	if p.FullName == "" {
		return fmt.Errorf("name cannot be empty")
	}
	return nil
}

func (c *Cli) printWriteMode(result *data.WriteResult) {
	if result.Queued {
		c.io.Println("Saved locally, the change is queued and will be sent when the server is reachable.")
		return
	}
	c.io.Println("Saved on the server.")
}
