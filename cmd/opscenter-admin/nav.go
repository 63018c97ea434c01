package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/vbrevik/plan-targeting-assessment-sub003/internal/domain/navigation"
	"github.com/vbrevik/plan-targeting-assessment-sub003/internal/service"
)

type navOptions struct {
	Role        string
	Permissions []string
	JSON        bool
}

func parseNavOptions(args []string, stderr io.Writer) (navOptions, error) {
	fs := flag.NewFlagSet("nav", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts navOptions
	fs.StringVar(&opts.Role, "role", "", "Optional role name to display")
	fs.BoolVar(&opts.JSON, "json", false, "Print the tree as JSON")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() == 0 {
		return opts, errors.New("usage: nav [-role name] [-json] <permission,...>")
	}
	for _, arg := range fs.Args() {
		for _, p := range strings.Split(arg, ",") {
			if p = strings.TrimSpace(p); p != "" {
				opts.Permissions = append(opts.Permissions, p)
			}
		}
	}
	return opts, nil
}

func runNav(ctx *commandContext, args []string) error {
	opts, err := parseNavOptions(args, ctx.Err)
	if err != nil {
		return err
	}

	resolver := service.NewNavigationResolver()
	role := navigation.Role{Name: opts.Role, Permissions: opts.Permissions}
	tree := resolver.Resolve(role)

	if opts.JSON {
		enc := json.NewEncoder(ctx.Out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(tree); err != nil {
			return fmt.Errorf("encode tree: %w", err)
		}
		return nil
	}

	name, ok := resolver.Match(role)
	if !ok {
		return writeln(ctx.Out, "No template matches these permissions; the navigation is empty.")
	}
	if err := writef(ctx.Out, "Template: %s\n\n", name); err != nil {
		return err
	}
	return printTree(ctx.Out, tree)
}

func printTree(out io.Writer, tree navigation.Tree) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	if err := writeln(w, "Group\tLabel\tRoute\tIcon\tPermission"); err != nil {
		return fmt.Errorf("write tree header: %w", err)
	}
	for _, g := range tree {
		for _, it := range g.Items {
			perm := it.Permission
			if perm == "" {
				perm = "-"
			}
			if err := writef(w, "%s\t%s\t%s\t%s\t%s\n", g.Title, it.Label, it.Route, it.Icon, perm); err != nil {
				return fmt.Errorf("write item %q: %w", it.Route, err)
			}
		}
	}
	return w.Flush()
}

func runTemplates(ctx *commandContext, _ []string) error {
	resolver := service.NewNavigationResolver()
	w := tabwriter.NewWriter(ctx.Out, 0, 4, 2, ' ', 0)
	if err := writeln(w, "Priority\tName\tMarker\tGroups\tItems"); err != nil {
		return fmt.Errorf("write templates header: %w", err)
	}
	for i, t := range resolver.Templates() {
		items := 0
		for _, g := range t.Groups {
			items += len(g.Items)
		}
		if err := writef(w, "%d\t%s\t%s\t%d\t%d\n", i+1, t.Name, t.Marker, len(t.Groups), items); err != nil {
			return fmt.Errorf("write template %q: %w", t.Name, err)
		}
	}
	return w.Flush()
}
