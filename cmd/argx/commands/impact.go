package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/veridic/ARGX/depgraph"
	"github.com/veridic/ARGX/errors"
	"github.com/veridic/ARGX/sym"
)

// ImpactCmd traces change impact across tracked resources
var ImpactCmd = &cobra.Command{
	Use:   "impact <resource-name>",
	Short: sym.Deps + " Trace change impact across tracked resources",
	Long: sym.Deps + ` impact — Trace change impact across tracked resources

Syncs the repository's HEAD tree into a resource tracker, applies the
declared dependency edges, then reports everything that transitively
depends on the named resource.

Edges are declared as --link source=target pairs of resource names;
each pair reads "source depends on target".

Examples:
  argx impact --repo . --link server.go=parser.go parser.go
  argx impact --repo . --link api.go=types.go --link client.go=types.go types.go`,
	Args: cobra.ExactArgs(1),
	RunE: runImpact,
}

var (
	impactRepoFlag  string
	impactLinkFlags []string
	impactChainFlag bool
)

func init() {
	ImpactCmd.Flags().StringVar(&impactRepoFlag, "repo", ".", "Repository to sync resources from")
	ImpactCmd.Flags().StringArrayVar(&impactLinkFlags, "link", nil,
		"Dependency edge as source=target resource names (repeatable)")
	ImpactCmd.Flags().BoolVar(&impactChainFlag, "chain", false,
		"Print the outgoing dependency chain instead of incoming impact")
}

func runImpact(cmd *cobra.Command, args []string) error {
	tracker := depgraph.NewTracker()
	if err := tracker.RegisterToolAdapter("git", depgraph.GitAdapter(impactRepoFlag)); err != nil {
		return err
	}
	if _, err := tracker.SyncFromTool("git", nil); err != nil {
		return err
	}

	for _, link := range impactLinkFlags {
		sourceName, targetName, ok := strings.Cut(link, "=")
		if !ok {
			return errors.Newf("invalid link %q: expected source=target", link)
		}
		source, err := resolveResource(tracker, sourceName)
		if err != nil {
			return err
		}
		target, err := resolveResource(tracker, targetName)
		if err != nil {
			return err
		}
		if err := tracker.LinkResources(source.ResourceID, target.ResourceID, depgraph.DepRequires, ""); err != nil {
			return err
		}
	}

	resource, err := resolveResource(tracker, args[0])
	if err != nil {
		return err
	}

	if impactChainFlag {
		chain, err := tracker.GetDependencyChain(resource.ResourceID)
		if err != nil {
			return err
		}
		return printEntries(chain)
	}

	analysis, err := tracker.GenerateImpactAnalysis(resource.ResourceID)
	if err != nil {
		return err
	}
	return printEntries(analysis)
}

// resolveResource finds exactly one tracked resource by name
func resolveResource(tracker *depgraph.Tracker, name string) (*depgraph.Resource, error) {
	matches := tracker.QueryResources("", "", name)
	switch len(matches) {
	case 0:
		return nil, errors.NewNotFoundError("resource %s", name)
	case 1:
		return matches[0], nil
	default:
		// Prefer an exact name match over substring hits
		for _, resource := range matches {
			if resource.Name == name {
				return resource, nil
			}
		}
		return nil, errors.Newf("resource name %q is ambiguous (%d matches)", name, len(matches))
	}
}
