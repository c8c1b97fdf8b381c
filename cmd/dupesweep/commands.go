package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/dupesweep/sweep/filesystem/common"
	"github.com/ZanzyTHEbar/dupesweep/sweep/filesystem/types"
	"github.com/ZanzyTHEbar/dupesweep/sweep/query"
	"github.com/ZanzyTHEbar/dupesweep/sweep/service"

	"github.com/spf13/cobra"
)

// resolveRoot takes the path argument or asks for one. ok is false when the user cancels.
func resolveRoot(ctx context.Context, svc *service.Service, args []string) (string, bool, error) {
	if len(args) > 0 {
		return args[0], true, nil
	}
	return svc.SelectRoot(ctx)
}

// scanCmd creates the scan command
func scanCmd() *cobra.Command {
	var flags scanFlags

	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Report duplicate files under a directory",
		Long:  `Recursively hash every file under path and report groups of identical files. Nothing is deleted.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, a.cfg); err != nil {
				return err
			}
			svc, err := a.service()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			root, ok, err := resolveRoot(ctx, svc, args)
			if err != nil {
				return err
			}
			if !ok {
				a.term.Output("No folder selected")
				return nil
			}

			a.term.StartSpinner("Scanning " + root)
			result, err := svc.FindDuplicates(ctx, root)
			if err != nil {
				a.term.StopSpinner(false, "Scan failed")
				return err
			}
			a.term.StopSpinner(true, fmt.Sprintf("Found %d duplicate groups", result.Summary.GroupCount))
			if len(result.Skipped) > 0 {
				a.term.Warning(fmt.Sprintf("%d items could not be read", len(result.Skipped)))
			}

			return a.render(cmd, result)
		},
	}

	flags.register(cmd)
	return cmd
}

// cleanCmd creates the clean command
func cleanCmd() *cobra.Command {
	var (
		flags    scanFlags
		hashes   []string
		under    []string
		yes      bool
		dryRun   bool
		parallel int
	)

	cmd := &cobra.Command{
		Use:   "clean [path]",
		Short: "Delete duplicate files, keeping the oldest copy",
		Long: `Scan path for duplicates and delete every copy except the earliest-modified one
in each group. Use --hash to restrict which groups are cleaned and --under to
restrict which duplicates are deleted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			if parallel > 0 {
				a.cfg.Cleanup.Workers = parallel
			}
			if err := flags.apply(cmd, a.cfg); err != nil {
				return err
			}
			svc, err := a.service()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			root, ok, err := resolveRoot(ctx, svc, args)
			if err != nil {
				return err
			}
			if !ok {
				a.term.Output("No folder selected")
				return nil
			}

			a.term.StartSpinner("Scanning " + root)
			result, err := svc.FindDuplicates(ctx, root)
			if err != nil {
				a.term.StopSpinner(false, "Scan failed")
				return err
			}
			a.term.StopSpinner(true, fmt.Sprintf("Found %d duplicate groups", result.Summary.GroupCount))

			groups := service.SelectGroups(result.DuplicateGroups, service.Selection{HashPrefixes: hashes, Under: under})
			if len(groups) == 0 {
				a.term.Output("Nothing to clean")
				return nil
			}
			summary := types.Summarize(groups)

			if dryRun {
				result.DuplicateGroups = groups
				result.Summary = summary
				result.DuplicateFiles = nil
				for _, g := range groups {
					result.DuplicateFiles = append(result.DuplicateFiles, g.Views()...)
				}
				return a.render(cmd, result)
			}

			if !yes {
				prompt := fmt.Sprintf("Delete %d duplicates in %d groups, freeing %s?",
					summary.TotalDuplicates, summary.GroupCount, common.FormatBytes(summary.ReclaimableBytes))
				confirmed, err := a.term.Confirm(ctx, prompt)
				if err != nil {
					return err
				}
				if !confirmed {
					a.term.Output("Cleanup cancelled")
					return nil
				}
			}

			a.term.StartSpinner("Deleting duplicates")
			cleanup := svc.CleanDuplicateFiles(ctx, groups)
			a.term.StopSpinner(len(cleanup.Errors) == 0,
				fmt.Sprintf("Deleted %d files, freed %s", cleanup.DeletedCount, common.FormatBytes(cleanup.FreedSpace)))

			return a.render(cmd, cleanup)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringSliceVar(&hashes, "hash", nil, "Only clean groups whose hash starts with one of these prefixes")
	cmd.Flags().StringSliceVar(&under, "under", nil, "Only delete duplicates below one of these directories; originals elsewhere are kept")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be deleted without deleting")
	cmd.Flags().IntVar(&parallel, "delete-workers", 0, "Concurrent deletions (default from config)")
	return cmd
}

// listCmd creates the list command
func listCmd() *cobra.Command {
	var sortSpec string

	cmd := &cobra.Command{
		Use:   "list [path]",
		Short: "List the files directly inside a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			svc, err := a.service()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			root, ok, err := resolveRoot(ctx, svc, args)
			if err != nil {
				return err
			}
			if !ok {
				a.term.Output("No folder selected")
				return nil
			}

			files, err := svc.ListFiles(ctx, root)
			if err != nil {
				return err
			}
			if sortSpec != "" {
				key, dir, err := query.ParseSort(sortSpec)
				if err != nil {
					return err
				}
				files = query.Sort(files, key, dir)
			}
			return a.render(cmd, files)
		},
	}

	cmd.Flags().StringVarP(&sortSpec, "sort", "s", "", "Sort by name, size, modified or extension, optionally :asc or :desc")
	return cmd
}

// filterCmd creates the filter command
func filterCmd() *cobra.Command {
	var (
		filters   []string
		presets   []string
		mode      string
		sortSpec  string
		fields    []string
		recursive bool
		flags     scanFlags
	)

	cmd := &cobra.Command{
		Use:   "filter <path> [query]",
		Short: "Filter files by name, extension, size or age",
		Long: `Filter the files of path. The query and every --filter are expressions such as
"report", ".pdf", ">=1MB", "<500KB", "older:30days" or "newer:1week".
A file is shown when it matches the query or the active filters, which
combine among themselves by --mode. With neither, every file is shown.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, a.cfg); err != nil {
				return err
			}
			svc, err := a.service()
			if err != nil {
				return err
			}

			req, err := buildRequest(args[1:], filters, presets, fields)
			if err != nil {
				return err
			}
			req.Mode = query.ParseMode(a.cfg.Filter.Mode)
			if mode != "" {
				req.Mode = query.ParseMode(mode)
			}

			files, err := svc.Search(cmd.Context(), args[0], recursive, req)
			if err != nil {
				return err
			}
			if sortSpec != "" {
				key, dir, err := query.ParseSort(sortSpec)
				if err != nil {
					return err
				}
				files = query.Sort(files, key, dir)
			}
			return a.render(cmd, files)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "Active filter expression (repeatable)")
	cmd.Flags().StringArrayVarP(&presets, "preset", "p", nil, "Add a built-in filter by name (see 'presets')")
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "Combine active filters with AND or OR")
	cmd.Flags().StringVarP(&sortSpec, "sort", "s", "", "Sort by name, size, modified or extension, optionally :asc or :desc")
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "Matchers to evaluate: name, extension, size, date (default all)")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Include files in subdirectories")
	return cmd
}

// buildRequest assembles a filter request from the command line
func buildRequest(queryArgs, filters, presets, fields []string) (query.Request, error) {
	req := query.Request{Fields: query.AllFields()}
	if len(queryArgs) > 0 {
		req.Query = queryArgs[0]
	}

	req.ActiveFilters = append(req.ActiveFilters, filters...)
	for _, name := range presets {
		p, ok := query.LookupPreset(name)
		if !ok {
			return query.Request{}, fmt.Errorf("unknown preset %q", name)
		}
		req.ActiveFilters = append(req.ActiveFilters, p.Query)
	}

	if len(fields) > 0 {
		req.Fields = query.Fields{}
		for _, f := range fields {
			switch strings.ToLower(strings.TrimSpace(f)) {
			case "name":
				req.Fields.Name = true
			case "extension", "ext":
				req.Fields.Extension = true
			case "size":
				req.Fields.Size = true
			case "date", "age":
				req.Fields.Date = true
			default:
				return query.Request{}, fmt.Errorf("unknown field %q", f)
			}
		}
	}
	return req, nil
}

// presetsCmd creates the presets command
func presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "Show the built-in filter presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			return a.render(cmd, query.DefaultPresets())
		},
	}
}
